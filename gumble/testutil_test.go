package gumble

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDataChannel is an in-memory DataChannel test double: Send appends to
// an observable log, Receive drains a channel the test feeds via push.
type fakeDataChannel struct {
	mu     sync.Mutex
	sent   []Message
	recv   chan Message
	closed bool
}

func newFakeDataChannel() *fakeDataChannel {
	return &fakeDataChannel{recv: make(chan Message, 16)}
}

func (f *fakeDataChannel) Send(msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeDataChannel) Receive() (Message, error) {
	msg, ok := <-f.recv
	if !ok {
		return nil, io.EOF
	}
	return msg, nil
}

func (f *fakeDataChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.recv)
	}
	return nil
}

func (f *fakeDataChannel) push(msg Message) {
	f.recv <- msg
}

func (f *fakeDataChannel) Sent() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.sent))
	copy(out, f.sent)
	return out
}

// fakeVoiceChannel is an in-memory VoiceChannel test double, symmetric to
// fakeDataChannel.
type fakeVoiceChannel struct {
	mu     sync.Mutex
	sent   []VoicePacket
	recv   chan VoicePacket
	closed bool
}

func newFakeVoiceChannel() *fakeVoiceChannel {
	return &fakeVoiceChannel{recv: make(chan VoicePacket, 16)}
}

func (f *fakeVoiceChannel) Send(pkt VoicePacket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, pkt)
	return nil
}

func (f *fakeVoiceChannel) Receive() (VoicePacket, error) {
	pkt, ok := <-f.recv
	if !ok {
		return VoicePacket{}, io.EOF
	}
	return pkt, nil
}

func (f *fakeVoiceChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.recv)
	}
	return nil
}

// recordingListener captures every event it receives, for assertions.
type recordingListener struct {
	Listener
	mu                sync.Mutex
	connects          []*ConnectEvent
	disconnects       []*DisconnectEvent
	newChannels       []*ChannelChangeEvent
	channelChanges    []*ChannelChangeEvent
	channelRemoves    []*ChannelChangeEvent
	newUsers          []*UserChangeEvent
	userChanges       []*UserChangeEvent
	userRemoves       []*UserRemoveEvent
	texts             []*TextMessageEvent
	denials           []*PermissionDeniedEvent
	rejects           []*RejectEvent
	errors            []*ErrorEvent
	dataPings         []*DataPingEvent
	unknownCodecs     []*UnknownCodecEvent
}

func (l *recordingListener) OnConnect(e *ConnectEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connects = append(l.connects, e)
}

func (l *recordingListener) OnDisconnect(e *DisconnectEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnects = append(l.disconnects, e)
}

func (l *recordingListener) OnNewChannel(e *ChannelChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.newChannels = append(l.newChannels, e)
}

func (l *recordingListener) OnChannelChange(e *ChannelChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channelChanges = append(l.channelChanges, e)
}

func (l *recordingListener) OnChannelRemove(e *ChannelChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channelRemoves = append(l.channelRemoves, e)
}

func (l *recordingListener) OnNewUser(e *UserChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.newUsers = append(l.newUsers, e)
}

func (l *recordingListener) OnUserChange(e *UserChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.userChanges = append(l.userChanges, e)
}

func (l *recordingListener) OnUserRemove(e *UserRemoveEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.userRemoves = append(l.userRemoves, e)
}

func (l *recordingListener) OnTextMessage(e *TextMessageEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.texts = append(l.texts, e)
}

func (l *recordingListener) OnPermissionDenied(e *PermissionDeniedEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.denials = append(l.denials, e)
}

func (l *recordingListener) OnReject(e *RejectEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rejects = append(l.rejects, e)
}

func (l *recordingListener) OnError(e *ErrorEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, e)
}

func (l *recordingListener) OnDataPing(e *DataPingEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dataPings = append(l.dataPings, e)
}

func (l *recordingListener) OnUnknownCodec(e *UnknownCodecEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unknownCodecs = append(l.unknownCodecs, e)
}

func (l *recordingListener) snapshotUserChanges() []*UserChangeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*UserChangeEvent, len(l.userChanges))
	copy(out, l.userChanges)
	return out
}

func (l *recordingListener) snapshotChannelChanges() []*ChannelChangeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*ChannelChangeEvent, len(l.channelChanges))
	copy(out, l.channelChanges)
	return out
}

// newTestClient builds a Client with default config plus an attached
// recordingListener.
func newTestClient(t *testing.T) (*Client, *recordingListener) {
	t.Helper()
	cfg := NewConfig("tester")
	listener := &recordingListener{}
	cfg.Attach(listener)
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c, listener
}
