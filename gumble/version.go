package gumble

import "fmt"

// ProtocolVersion is the Mumble control-protocol version this client
// implements, packed as major<<16 | minor<<8 | patch.
const ProtocolVersion uint32 = 1<<16 | 4<<8 | 0

// defaultClientSoftware is the Release string sent in the outgoing Version
// message when Config.ClientSoftware is empty.
const defaultClientSoftware = "gumble"

// Version describes a Mumble protocol version, either the server's
// (captured from an incoming Version message) or this client's own.
type Version struct {
	Major, Minor, Patch uint8
	Release             string
	OS                   string
	OSVersion            string
}

// ParseVersion unpacks the big-endian major(16)/minor(8)/patch(8) fields
// from a packed protocol version, per §4.1 (Version handler).
func ParseVersion(packed uint32) (major, minor, patch uint8) {
	major = uint8(packed >> 16)
	minor = uint8(packed >> 8)
	patch = uint8(packed)
	return
}

// PackVersion packs major/minor/patch into the wire representation.
func PackVersion(major, minor, patch uint8) uint32 {
	return uint32(major)<<16 | uint32(minor)<<8 | uint32(patch)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
