package gumble

// VoicePacket is one typed voice packet, exchanged with a VoiceChannel (or
// tunneled inside a UDPTunnelMessage) — the external voice codec has
// already turned wire bytes into this shape (§1, out of scope) before it
// reaches the dispatcher.
type VoicePacket struct {
	// SeqNum counts 10-ms frames, regardless of codec (§4.3).
	SeqNum uint64
	Codec  CodecID
	// Mode is the outgoing addressing mode (0..31); set on packets this
	// client sends.
	Mode OutgoingTarget
	// Target is the incoming addressing label the server attached when
	// relaying someone else's transmission; set on packets this client
	// receives.
	Target VoiceTargetLabel
	Source uint32
	// Frames is the ordered sequence of still-encoded per-frame byte
	// slices; may be empty (e.g. a lone End packet).
	Frames   [][]byte
	Position *Position
	End      bool
}

// DataChannel is the caller-supplied reliable duplex stream of already-
// decoded control messages (§1, the data channel). Framing and wire
// (de)serialization belong to an external codec the caller has wired in
// before messages reach this interface.
type DataChannel interface {
	// Receive blocks for the next inbound message. It returns io.EOF once
	// the peer has cleanly ended the stream.
	Receive() (Message, error)
	// Send encodes and writes msg to the peer.
	Send(msg Message) error
	// Close closes the underlying transport in both directions.
	Close() error
}

// VoiceChannel is the caller-supplied unreliable duplex stream of voice
// packets (§1, the voice channel). It is optional; when absent, outgoing
// voice tunnels through the DataChannel as UDPTunnel messages instead.
type VoiceChannel interface {
	Receive() (VoicePacket, error)
	Send(pkt VoicePacket) error
	Close() error
}
