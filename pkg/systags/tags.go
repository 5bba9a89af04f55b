// Package systags probes coarse host facts (OS, architecture, attached video
// and USB devices) that the agent attaches to status pushes for fleet
// diagnostics. Probing shells out to optional tools, so the result is cached
// for the life of the process.
package systags

import (
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"sync"
)

var (
	mu     sync.Mutex
	cached map[string]string
)

var v4l2DeviceRegex = regexp.MustCompile(`(?m)^([^\t]+)`)

// Get returns the cached system tags, probing on first call.
func Get() map[string]string {
	mu.Lock()
	defer mu.Unlock()
	if cached == nil {
		cached = Collect()
	}
	return cached
}

// Collect probes the host without consulting the cache. Probes that fail or
// find nothing simply omit their tag.
func Collect() map[string]string {
	tags := map[string]string{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
	}

	if out, err := exec.Command("uname", "-r").Output(); err == nil {
		if ver := strings.TrimSpace(string(out)); ver != "" {
			tags["os_ver"] = ver
		}
	}

	if out, err := exec.Command("v4l2-ctl", "--list-devices").Output(); err == nil {
		names := v4l2DeviceRegex.FindAllString(string(out), -1)
		if joined := strings.Join(names, ""); joined != "" {
			tags["v4l2"] = joined
		}
	}

	if out, err := exec.Command("lsusb").Output(); err == nil {
		var devices []string
		for _, line := range strings.Split(string(out), "\n") {
			fields := strings.SplitN(line, " ", 7)
			if len(fields) < 7 {
				continue
			}
			desc := fields[6]
			if strings.Contains(desc, "Hub") || strings.Contains(desc, " hub") {
				continue
			}
			devices = append(devices, desc)
		}
		if joined := strings.Join(devices, ""); joined != "" {
			tags["usb"] = joined
		}
	}

	return tags
}
