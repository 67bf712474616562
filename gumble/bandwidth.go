package gumble

import "math"

// Mumble packet-overhead constants used by EnforceableBandwidth, mirrored
// from the server's own admission-control formula (§4.4): these must match
// the server byte-for-byte, so none of them are configurable.
const (
	minCodecHeaderBytes      = 4
	samplesPerCodecHeaderUnit = 480
	udpIPHeaderBytes         = 20
	udpHeaderBytes           = 8
	mumbleHeaderBytes        = 4
	voiceTypeByte            = 1
	sequenceNumberBytes      = 4
	positionBytes            = 12
)

// EnforceableBandwidth computes the bits/s a Mumble server would charge an
// audio stream transported as IP/UDP with the given bitrate, packetization
// size, and whether positional audio is attached (§4.4).
func EnforceableBandwidth(bitrate, samplesPerPacket int, hasPosition bool) int {
	codecHeader := samplesPerPacket / samplesPerCodecHeaderUnit
	if codecHeader < minCodecHeaderBytes {
		codecHeader = minCodecHeaderBytes
	}
	packetBytes := udpIPHeaderBytes + udpHeaderBytes + mumbleHeaderBytes + voiceTypeByte + sequenceNumberBytes + codecHeader
	if hasPosition {
		packetBytes += positionBytes
	}
	packetsPerSecond := float64(AudioSampleRate) / float64(samplesPerPacket)
	return int(math.Round(float64(packetBytes)*8*packetsPerSecond + float64(bitrate)))
}

// MaxBitrate returns the largest bitrate that fits under maxBandwidth for
// the given packetization, per §4.4.
func MaxBitrate(maxBandwidth, samplesPerPacket int, hasPosition bool) int {
	return maxBandwidth - EnforceableBandwidth(0, samplesPerPacket, hasPosition)
}

// PreferredBitrate returns configuredBitrate if set, else MaxBitrate.
func PreferredBitrate(configuredBitrate *int, maxBandwidth, samplesPerPacket int, hasPosition bool) int {
	if configuredBitrate != nil {
		return *configuredBitrate
	}
	return MaxBitrate(maxBandwidth, samplesPerPacket, hasPosition)
}

// ActualBitrate returns the bitrate this client should actually encode at:
// the preferred bitrate if it fits under the server's enforced cap, else
// the maximum that does (§4.4).
func ActualBitrate(configuredBitrate *int, maxBandwidth, samplesPerPacket int, hasPosition bool) int {
	preferred := PreferredBitrate(configuredBitrate, maxBandwidth, samplesPerPacket, hasPosition)
	if EnforceableBandwidth(preferred, samplesPerPacket, hasPosition) <= maxBandwidth {
		return preferred
	}
	return MaxBitrate(maxBandwidth, samplesPerPacket, hasPosition)
}

// MaxBitrate returns MaxBitrate using the client's current server-advertised
// MaxBandwidth. If the server has not advertised a cap, there is nothing to
// enforce against, so the configured/preferred bitrate is returned uncapped
// (see SPEC_FULL.md, Open Questions).
func (c *Client) MaxBitrate(samplesPerPacket int, hasPosition bool) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.maxBandwidth == nil {
		return PreferredBitrate(c.config.PreferredBitrate, math.MaxInt32, samplesPerPacket, hasPosition)
	}
	return MaxBitrate(*c.maxBandwidth, samplesPerPacket, hasPosition)
}

// ActualBitrate is the Client-bound counterpart of the package-level
// ActualBitrate, using the server's current MaxBandwidth.
func (c *Client) ActualBitrate(samplesPerPacket int, hasPosition bool) int {
	c.mu.RLock()
	maxBandwidth := c.maxBandwidth
	preferred := c.config.PreferredBitrate
	c.mu.RUnlock()
	if maxBandwidth == nil {
		return PreferredBitrate(preferred, math.MaxInt32, samplesPerPacket, hasPosition)
	}
	return ActualBitrate(preferred, *maxBandwidth, samplesPerPacket, hasPosition)
}
