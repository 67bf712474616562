package gumble

// CodecID identifies the audio codec used to encode a frame on the wire.
type CodecID int32

const (
	CodecCELTAlpha CodecID = iota
	CodecPing
	CodecSpeex
	CodecCELTBeta
	CodecOpus
)

func (c CodecID) known() bool {
	switch c {
	case CodecCELTAlpha, CodecPing, CodecSpeex, CodecCELTBeta, CodecOpus:
		return true
	default:
		return false
	}
}

// VoiceTargetLabel is the incoming addressing label carried on a received
// voice packet (§4.3).
type VoiceTargetLabel int32

const (
	VoiceTargetNormal VoiceTargetLabel = iota
	VoiceTargetShout
	VoiceTargetWhisper
	VoiceTargetLoopback
)

// OutgoingTarget is the integer 0..31 addressing mode for outgoing audio
// (§6, Voice-packet surface): 0 is normal, 1..30 are whisper/shout groups
// previously registered with the server via a VoiceTarget command, and 31
// is loopback.
type OutgoingTarget int32

const (
	OutgoingTargetNormal   OutgoingTarget = 0
	OutgoingTargetLoopback OutgoingTarget = 31
)

// Position is a 3-D position hint attached to a voice frame for positional
// audio.
type Position struct {
	X, Y, Z float32
}

// DecodedFrame is one item written to a DecodedSink by the voice
// reassembly engine (§4.3). Frame is nil only for a lost-frame marker
// (packet-loss concealment input).
type DecodedFrame struct {
	Target   VoiceTargetLabel
	Codec    CodecID
	Frame    []byte
	Position *Position
}

// DecodedSink is the per-transmission decode destination created by the
// external Codec adapter. The reassembly engine writes ordered, loss-
// compensated frames to it and calls End once the transmission is over.
// Decoding the frame bytes into PCM, and anything downstream of that, is
// the adapter's concern (§1, audio codec itself is out of scope).
type DecodedSink interface {
	Write(frame DecodedFrame) error
	End() error
}

// PCMChunk is one chunk of outgoing PCM audio, normalized and annotated
// with the bitrate the bandwidth calculator (§4.4) says this chunk should
// be encoded at.
type PCMChunk struct {
	Target   OutgoingTarget
	PCM      []int16
	Channels int
	Position *Position
	Bitrate  int
}

// EncodedFrameFunc is how an EncodedSink hands a just-encoded frame back to
// the client for packetization and transmission. durationMS must be a
// multiple of 10, matching Codec.FrameDurationMS's contract.
type EncodedFrameFunc func(frame []byte, durationMS uint32)

// EncodedSink is the outgoing encode destination created by the external
// Codec adapter for one outgoing voice stream (§4.3, outgoing path).
type EncodedSink interface {
	Write(chunk PCMChunk) error
	End() error
}

// Codec is the external audio codec adapter contract (Component A, §6).
// It is the sole collaborator through which this module ever touches
// encoded or decoded audio; the codec itself (Opus etc.) is out of scope.
type Codec interface {
	// CeltVersions lists the CELT capability tags advertised in Authenticate.
	CeltVersions() []int32
	// Opus reports whether this adapter can decode/encode Opus.
	Opus() bool
	// CreateDecoderSink returns a fresh per-transmission decode destination
	// for the given user.
	CreateDecoderSink(user *User) DecodedSink
	// CreateEncoderSink returns an encode destination for one outgoing
	// voice stream; emit is called once per produced encoded frame.
	CreateEncoderSink(codec CodecID, emit EncodedFrameFunc) EncodedSink
	// FrameDurationMS returns the playback duration of one encoded frame,
	// always a multiple of 10.
	FrameDurationMS(codec CodecID, frame []byte) uint32
}

// blackHoleSink is substituted for DecodedSink when no Codec is configured;
// it discards writes but still honors End (§4.3, Lazy sink creation).
type blackHoleSink struct{}

func (blackHoleSink) Write(DecodedFrame) error { return nil }
func (blackHoleSink) End() error               { return nil }
