package gumble

import "sync"

// VoiceStream is the embedder-facing view of one user's voice transmission
// (§4.3, §4.6), delivered via the voice(stream) event. It is independent
// of whatever the configured Codec's own DecodedSink does with the same
// frames: this object exists purely for observability.
type VoiceStream struct {
	user *User

	mu     sync.Mutex
	frames chan DecodedFrame
	closed bool
}

func newVoiceStream(u *User) *VoiceStream {
	return &VoiceStream{user: u, frames: make(chan DecodedFrame, 64)}
}

// User returns the user this transmission belongs to.
func (s *VoiceStream) User() *User { return s.user }

// Frames returns the channel of decoded frames (and lost-frame markers,
// identifiable by a nil Frame) for this transmission. It is closed when
// the transmission ends.
func (s *VoiceStream) Frames() <-chan DecodedFrame { return s.frames }

// write delivers one frame to an embedder reading Frames. It never blocks
// indefinitely: a slow or absent reader drops the frame rather than stall
// the mailbox goroutine.
func (s *VoiceStream) write(frame DecodedFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.frames <- frame:
	default:
	}
}

// end closes the Frames channel, signaling the transmission is over.
func (s *VoiceStream) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.frames)
}

// Close lets an embedder end the transmission early, mirroring the
// source's "external close of a voice sink" contract (§9, Streams): on
// next observation the engine's voice_out reference becomes none. Close
// does not itself stop the underlying codec decoder; it only stops this
// observability stream from buffering further frames.
func (s *VoiceStream) Close() error {
	s.end()
	return nil
}

func (s *VoiceStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
