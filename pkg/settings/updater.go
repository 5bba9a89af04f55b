// Package settings maintains a cached snapshot of the relatively static
// printer settings reported alongside status pushes. Settings change rarely,
// so the snapshot is refreshed at most once per interval unless something
// (a settings save, a firmware report) invalidates the cache.
package settings

import (
	"sync"
	"time"

	"github.com/printwatch/printer-agent/pkg/version"
)

// DefaultRefreshInterval is how long a snapshot stays fresh.
const DefaultRefreshInterval = 30 * time.Minute

// Source supplies the live effective settings of the local print server.
type Source interface {
	EffectiveSettings() map[string]interface{}
}

// Updater is a TTL-gated settings snapshot, guarded by its own lock.
type Updater struct {
	mu        sync.Mutex
	lastAsked time.Time
	firmware  map[string]interface{}

	source   Source
	interval time.Duration
	now      func() time.Time
}

// NewUpdater creates an Updater over source. An interval of zero or less
// falls back to DefaultRefreshInterval.
func NewUpdater(source Source, interval time.Duration) *Updater {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Updater{source: source, interval: interval, now: time.Now}
}

// Invalidate forces the next Snapshot call to return fresh data.
func (u *Updater) Invalidate() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lastAsked = time.Time{}
}

// UpdateFirmware records printer firmware metadata and invalidates the cache
// so the next push carries it.
func (u *Updater) UpdateFirmware(payload map[string]interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.firmware = payload
	u.lastAsked = time.Time{}
}

// Snapshot returns the settings document to attach to the next status push,
// or nil when the previous snapshot is still fresh (the server keeps the last
// one it saw).
func (u *Updater) Snapshot() map[string]interface{} {
	u.mu.Lock()
	if u.now().Sub(u.lastAsked) < u.interval {
		u.mu.Unlock()
		return nil
	}
	firmware := u.firmware
	u.mu.Unlock()

	data := map[string]interface{}{
		"agent": map[string]interface{}{
			"name":    version.AgentName,
			"version": version.Agent,
		},
	}
	if u.source != nil {
		for k, v := range u.source.EffectiveSettings() {
			data[k] = v
		}
	}
	if firmware != nil {
		data["printer_metadata"] = firmware
	}

	u.mu.Lock()
	u.lastAsked = u.now()
	u.mu.Unlock()

	return data
}
