package gumble

import (
	"fmt"
	"log/slog"
	"time"
)

// AudioSampleRate is the sample rate, in Hz, that Mumble's audio pipeline
// operates at regardless of the codec in use.
const AudioSampleRate = 48000

// AudioDefaultInterval is the packetization interval used when
// Config.AudioInterval is left at its zero value.
const AudioDefaultInterval = 10 * time.Millisecond

// AudioDefaultFrameSize is the number of samples in one AudioDefaultInterval
// frame at AudioSampleRate.
const AudioDefaultFrameSize = AudioSampleRate * int(AudioDefaultInterval) / int(time.Second)

// AudioDefaultDataBytes is a conservative per-frame encoded size used when
// Config.AudioDataBytes is left at its zero value.
const AudioDefaultDataBytes = 512

// defaultUserVoiceTimeout and defaultDataPingInterval implement the
// defaults named in §6 (Configuration).
const (
	defaultUserVoiceTimeout      = 200 * time.Millisecond
	defaultDataPingInterval      = 5000 * time.Millisecond
	defaultMaxInFlightDataPings  = 2
)

// VersionOverride lets an embedder override the fields of the outgoing
// Version message. If a field is left at its zero value, the Config-level
// or built-in default is used instead.
type VersionOverride struct {
	Release       string
	OS            string
	OSVersion     string
	Semver        string
	VersionUint32 *uint32
}

// packSemver turns "MAJOR.MINOR.PATCH" into the uint32 used in Version.
func packSemver(s string) (uint32, error) {
	var maj, min, pat uint32
	n, err := fmt.Sscanf(s, "%d.%d.%d", &maj, &min, &pat)
	if err != nil || n != 3 || maj > 0xFFFF || min > 0xFF || pat > 0xFF {
		return 0, &ConfigError{Reason: "invalid semver \"" + s + "\""}
	}
	return maj<<16 | min<<8 | pat, nil
}

// Config holds the configuration used by a Client. A single Config should
// not be shared between multiple concurrently-connecting Clients.
type Config struct {
	// Username is the identity sent in Authenticate. Required.
	Username string
	// Password is an optional server password.
	Password string
	// Tokens is the list of access tokens sent in Authenticate.
	Tokens []string

	// ClientSoftware is the Release string sent in Version. Defaults to a
	// stable identifier of this implementation.
	ClientSoftware string
	// OSName/OSVersion override the OS fields in Version; if empty, they
	// are probed from the host (see osinfo.go).
	OSName, OSVersion string
	// VersionOverride, if set, overrides the packed protocol version and
	// any of the fields above that it specifies.
	VersionOverride *VersionOverride

	// Codecs is the external audio codec adapter. If nil, incoming frames
	// are written to a lazily created black-hole sink (the VoiceStream still
	// receives them), and outgoing PCM is discarded (§6).
	Codecs Codec

	// UserVoiceTimeout is the idle timeout per transmission (§4.3).
	UserVoiceTimeout time.Duration
	// DataPingInterval is the ping period (§4.5).
	DataPingInterval time.Duration
	// MaxInFlightDataPings is the timeout threshold (§4.5).
	MaxInFlightDataPings uint32
	// PreferredBitrate, if set, is used by ActualBitrate (§4.4) instead of
	// MaxBitrate whenever it fits under the server's enforced cap.
	PreferredBitrate *int

	// AudioInterval is the interval at which outgoing audio packets are
	// sent. Valid values are 10ms, 20ms, 40ms, and 60ms.
	AudioInterval time.Duration
	// AudioDataBytes is the maximum number of bytes an outgoing encoded
	// audio frame may use.
	AudioDataBytes int

	// Logger receives structured log output for conditions the spec calls
	// out as "logged and ignored" rather than surfaced as events. Defaults
	// to slog.Default().
	Logger *slog.Logger
	// Metrics, if set, receives Prometheus instrumentation. Optional.
	Metrics *Metrics

	// Listeners and AudioListeners hold the event observers attached via
	// Attach/AttachAudio.
	Listeners      Listeners
	AudioListeners AudioListeners
}

// NewConfig returns a new Config with default values set. NewClient rejects
// the Config with a ConfigError if Username is still empty.
func NewConfig(username string) *Config {
	return &Config{
		Username:             username,
		ClientSoftware:       defaultClientSoftware,
		UserVoiceTimeout:     defaultUserVoiceTimeout,
		DataPingInterval:     defaultDataPingInterval,
		MaxInFlightDataPings: defaultMaxInFlightDataPings,
		AudioInterval:        AudioDefaultInterval,
		AudioDataBytes:       AudioDefaultDataBytes,
		Logger:               slog.Default(),
	}
}

// validate enforces the synchronous ConfigError contract from §6.
func (c *Config) validate() error {
	if c.Username == "" {
		return &ConfigError{Reason: "Username is required"}
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Attach is an alias of c.Listeners.Attach.
func (c *Config) Attach(l EventListener) Detacher {
	return c.Listeners.Attach(l)
}

// AttachAudio is an alias of c.AudioListeners.Attach.
func (c *Config) AttachAudio(l AudioListener) Detacher {
	return c.AudioListeners.Attach(l)
}

// AudioFrameSize returns the number of samples in one outgoing audio
// packet, based on AudioInterval; this is the samples_per_packet input to
// the bandwidth calculator (§4.4).
func (c *Config) AudioFrameSize() int {
	interval := c.AudioInterval
	if interval <= 0 {
		interval = AudioDefaultInterval
	}
	return int(interval/AudioDefaultInterval) * AudioDefaultFrameSize
}
