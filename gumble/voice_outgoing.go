package gumble

import "sync"

// VoiceSender is the outgoing half of the voice pipeline (§4.3, outgoing
// path): it accepts normalized PCM and hands it to the configured Codec's
// encoder, which emits encoded frames back through emit for packetization
// and transmission.
type VoiceSender struct {
	client   *Client
	target   OutgoingTarget
	channels int

	mu      sync.Mutex
	encoder EncodedSink
	closed  bool
}

// CreateVoiceStream returns a sender for one outgoing voice transmission
// addressed to target, carrying audio with the given channel count. If no
// Codec is configured, the returned sender silently discards everything
// written to it (§4.3, §6).
func (c *Client) CreateVoiceStream(target OutgoingTarget, channels int) (*VoiceSender, error) {
	s := &VoiceSender{client: c, target: target, channels: channels}
	if c.config.Codecs == nil {
		return s, nil
	}
	codec := outgoingCodec(c.config.Codecs)
	s.encoder = c.config.Codecs.CreateEncoderSink(codec, func(frame []byte, durationMS uint32) {
		c.emitEncodedFrame(s, codec, frame, durationMS)
	})
	return s, nil
}

// outgoingCodec picks Opus when the adapter supports it, otherwise the
// CELT revision the source historically used as its outgoing fallback.
func outgoingCodec(codec Codec) CodecID {
	if codec.Opus() {
		return CodecOpus
	}
	return CodecCELTBeta
}

// Send normalizes one PCM chunk, computes its bitrate via the bandwidth
// calculator (§4.4), and hands it to the encoder.
func (s *VoiceSender) Send(pcm []int16, position *Position) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	encoder := s.encoder
	s.mu.Unlock()
	if encoder == nil {
		return nil
	}

	samplesPerPacket := s.client.config.AudioFrameSize()
	bitrate := s.client.ActualBitrate(samplesPerPacket, position != nil)
	return encoder.Write(PCMChunk{
		Target:   s.target,
		PCM:      pcm,
		Channels: s.channels,
		Position: position,
		Bitrate:  bitrate,
	})
}

// Close ends the transmission: it flushes the encoder and emits a final
// packet with empty frames and end=true (§4.3).
func (s *VoiceSender) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	encoder := s.encoder
	s.mu.Unlock()

	if encoder != nil {
		_ = encoder.End()
	}
	return s.client.sendVoice(VoicePacket{
		SeqNum: s.client.nextOutgoingSeq(0),
		Mode:   s.target,
		Source: 0,
		End:    true,
	})
}

// emitEncodedFrame packetizes one just-encoded frame and transmits it,
// advancing seq_num by the frame's duration in 10-ms units (§4.3).
func (c *Client) emitEncodedFrame(s *VoiceSender, codec CodecID, frame []byte, durationMS uint32) {
	units := uint64(durationMS / 10)
	if units == 0 {
		units = 1
	}
	seq := c.nextOutgoingSeq(units)
	_ = c.sendVoice(VoicePacket{
		SeqNum: seq,
		Codec:  codec,
		Mode:   s.target,
		Frames: [][]byte{frame},
	})
}

// nextOutgoingSeq advances the client's outgoing sequence counter by
// advance (after reading, to return the pre-advance value) and returns the
// sequence number to use for the packet just built.
func (c *Client) nextOutgoingSeq(advance uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.outgoingSeq
	c.outgoingSeq += advance
	return seq
}
