package gumble

import "runtime"

// probeOSName returns a best-effort OS identifier for the outgoing Version
// message when Config.OSName is not set.
func probeOSName() string {
	return runtime.GOOS
}

// probeOSVersion returns a best-effort OS version/arch identifier for the
// outgoing Version message when Config.OSVersion is not set. Probing an
// actual kernel version is platform-specific and out of scope for this
// client; the architecture is a stable, portable stand-in, matching the
// teacher's own probe (runtime.GOARCH).
func probeOSVersion() string {
	return runtime.GOARCH
}
