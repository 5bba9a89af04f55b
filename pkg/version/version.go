// Package version identifies the agent build and checks it against the
// minimum version the server is willing to talk to.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const logPrefix = "version:version"

// Agent is the version reported in settings snapshots and status pushes.
const Agent = "1.4.0"

// AgentName is the agent identifier reported to the server.
const AgentName = "printwatch-agent"

// Parse parses a semantic version string.
func Parse(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("%s - invalid version %q: %w", logPrefix, v, err)
	}
	return parsed, nil
}

// MeetsMinimum reports whether current satisfies the server's advertised
// minimum agent version.
func MeetsMinimum(current, minimum string) (bool, error) {
	cur, err := Parse(current)
	if err != nil {
		return false, err
	}
	min, err := Parse(minimum)
	if err != nil {
		return false, err
	}
	return !cur.LessThan(min), nil
}
