package gumble

import "time"

// maxLostFrameMarkers bounds injected silence per gap (§4.3): 100 ms or
// more of loss is treated as the start of a fresh burst rather than
// backfilled further.
const maxLostFrameMarkers = 10

// handleVoicePacket runs the per-user reassembly algorithm for one
// incoming voice packet (§4.3). It always runs on the mailbox goroutine.
func (c *Client) handleVoicePacket(pkt VoicePacket) {
	u, ok := c.userForSession(pkt.Source)
	if !ok {
		return
	}
	if !pkt.Codec.known() {
		c.config.Listeners.each(func(l EventListener) {
			l.OnUnknownCodec(&UnknownCodecEvent{Codec: pkt.Codec})
		})
	}

	if len(pkt.Frames) > 0 {
		c.handleVoiceFrames(u, pkt)
	}
	if pkt.End {
		c.endVoiceTransmission(u)
	}
}

func (c *Client) frameDuration10ms(pkt VoicePacket) uint64 {
	codecs := c.config.Codecs
	if codecs == nil {
		return uint64(len(pkt.Frames))
	}
	var total uint64
	for _, frame := range pkt.Frames {
		total += uint64(codecs.FrameDurationMS(pkt.Codec, frame)) / 10
	}
	return total
}

func (c *Client) handleVoiceFrames(u *User, pkt VoicePacket) {
	duration := c.frameDuration10ms(pkt)

	u.mu.RLock()
	stream := u.voice.stream
	u.mu.RUnlock()
	if stream != nil && stream.isClosed() {
		// The embedder closed the VoiceStream: end that transmission so this
		// packet starts a fresh one.
		c.endVoiceTransmission(u)
	}

	u.mu.Lock()
	active := u.voice.sinkOut != nil
	lastSeq := u.voice.lastSeq
	hasLastSeq := u.voice.hasLastSeq
	u.mu.Unlock()

	if active && hasLastSeq && lastSeq > pkt.SeqNum {
		c.metrics.voiceFrameLate()
		return
	}

	sink := c.ensureVoiceSink(u)

	if active && hasLastSeq && lastSeq < pkt.SeqNum-duration {
		gap := pkt.SeqNum - lastSeq
		lost := gap - 1
		if lost > maxLostFrameMarkers {
			lost = maxLostFrameMarkers
		}
		for i := uint64(0); i < lost; i++ {
			c.metrics.voiceFrameLost()
			_ = sink.Write(DecodedFrame{Target: pkt.Target, Codec: pkt.Codec})
			c.emitVoiceFrame(u, DecodedFrame{Target: pkt.Target, Codec: pkt.Codec})
		}
	}

	for _, frame := range pkt.Frames {
		decoded := DecodedFrame{Target: pkt.Target, Codec: pkt.Codec, Frame: frame, Position: pkt.Position}
		_ = sink.Write(decoded)
		c.emitVoiceFrame(u, decoded)
	}

	u.resetIdleTimer(c)

	u.mu.Lock()
	u.voice.lastSeq = pkt.SeqNum + duration - 1
	u.voice.hasLastSeq = true
	u.mu.Unlock()
}

// ensureVoiceSink lazily creates the decode destination for a new
// transmission and emits voice(stream) on first creation (§4.3).
func (c *Client) ensureVoiceSink(u *User) DecodedSink {
	u.mu.Lock()
	if u.voice.sinkOut != nil {
		sink := u.voice.sinkOut
		u.mu.Unlock()
		return sink
	}
	var sink DecodedSink
	if c.config.Codecs != nil {
		sink = c.config.Codecs.CreateDecoderSink(u)
	} else {
		sink = blackHoleSink{}
	}
	stream := newVoiceStream(u)
	u.voice.sinkOut = sink
	u.voice.stream = stream
	u.mu.Unlock()

	c.metrics.transmissionOpened()
	c.config.AudioListeners.each(func(l AudioListener) {
		l.OnVoice(&VoiceEvent{User: u, Stream: stream})
	})
	return sink
}

// emitVoiceFrame forwards a decoded frame (or lost-frame marker, Frame
// nil) to the embedder-facing VoiceStream, independent of the external
// codec's own decode sink.
func (c *Client) emitVoiceFrame(u *User, frame DecodedFrame) {
	u.mu.RLock()
	stream := u.voice.stream
	u.mu.RUnlock()
	if stream != nil {
		stream.write(frame)
	}
}

// resetIdleTimer (re)arms the per-transmission idle timeout, posting
// endVoiceTransmission back onto the mailbox on expiry (§4.3).
func (u *User) resetIdleTimer(c *Client) {
	timeout := c.config.UserVoiceTimeout
	if timeout <= 0 {
		timeout = defaultUserVoiceTimeout
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.voice.idleTimer != nil {
		u.voice.idleTimer.Stop()
	}
	session := u.session
	u.voice.idleTimer = time.AfterFunc(timeout, func() {
		c.mbox.post(func() {
			if target, ok := c.userForSession(session); ok {
				c.endVoiceTransmission(target)
			}
		})
	})
}

// endVoiceTransmission cancels the idle timer, ends the sink and the
// embedder-facing stream, and clears the transmission state (§4.3).
func (c *Client) endVoiceTransmission(u *User) {
	u.mu.Lock()
	sink := u.voice.sinkOut
	stream := u.voice.stream
	if u.voice.idleTimer != nil {
		u.voice.idleTimer.Stop()
		u.voice.idleTimer = nil
	}
	u.voice.sinkOut = nil
	u.voice.stream = nil
	u.voice.hasLastSeq = false
	u.mu.Unlock()

	if sink == nil {
		return
	}
	_ = sink.End()
	if stream != nil {
		stream.end()
	}
	c.metrics.transmissionClosed()
}
