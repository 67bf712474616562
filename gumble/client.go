package gumble

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/go-co-op/gocron/v2"
)

// Client is a live, single-connection model of a Mumble server. One Client
// drives at most one data channel and, optionally, one voice channel;
// reattaching after Connect has already succeeded fails with
// ErrAlreadyConnected (§4.1).
//
// All model mutation, event dispatch, and timer callbacks are serialized
// onto the Client's mailbox goroutine (§5); the data-channel read loop, the
// voice-channel read loop, the ping scheduler, and per-user idle timers
// only ever reach the Client's state through mbox.post.
type Client struct {
	config  *Config
	logger  *slog.Logger
	metrics *Metrics

	mbox *mailbox

	mu             sync.RWMutex
	state          State
	data           DataChannel
	voice          VoiceChannel
	hasVoice       bool
	selfSession    *uint32
	serverVersion  *Version
	maxBandwidth   *int
	welcomeMessage *string

	userBySession map[uint32]*User
	userOrder     []*User
	channelByID   map[uint32]*Channel
	channelOrder  []*Channel

	dataRTT       RTTStats
	voiceRTT      RTTStats
	inFlightPings uint32

	scheduler gocron.Scheduler
	pingJob   gocron.Job

	outgoingSeq uint64

	connectResult  chan error
	connectOnce    sync.Once
	disconnectOnce sync.Once
	dataReadDone   chan struct{}
}

// NewClient validates config and returns a Client ready to Connect. config
// is retained; it must not be mutated concurrently afterward.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = NewConfig("")
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	c := &Client{
		config:        config,
		logger:        config.logger(),
		metrics:       config.Metrics,
		mbox:          newMailbox(),
		state:         StateNew,
		userBySession: make(map[uint32]*User),
		channelByID:   make(map[uint32]*Channel),
		scheduler:     scheduler,
		connectResult: make(chan error, 1),
		dataReadDone:  make(chan struct{}),
	}
	go c.mbox.run()
	return c, nil
}

// State returns the client's current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Self returns the User corresponding to this client's own identity, or
// nil before ServerSync has bound it or if it is not yet resolvable (§3).
func (c *Client) Self() *User {
	c.mu.RLock()
	session, ok := c.selfSession, c.selfSession != nil
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return c.UserBySession(*session)
}

func (c *Client) selfSessionEquals(session uint32) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selfSession != nil && *c.selfSession == session
}

// ServerVersion returns the server's advertised protocol/release version,
// or nil if no Version message has arrived yet.
func (c *Client) ServerVersion() *Version {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverVersion
}

// MaxBandwidth returns the server-advertised bandwidth cap captured at
// ServerSync, or nil if the server did not advertise one.
func (c *Client) MaxBandwidth() *int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxBandwidth
}

// WelcomeMessage returns the server's welcome text captured at ServerSync.
func (c *Client) WelcomeMessage() *string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.welcomeMessage
}

// Users returns a snapshot of all currently known users, in the order they
// were first seen.
func (c *Client) Users() Users {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(Users, len(c.userOrder))
	copy(out, c.userOrder)
	return out
}

// UserBySession returns the user with the given session id, or nil.
func (c *Client) UserBySession(session uint32) *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userBySession[session]
}

// Channels returns a snapshot of all currently known channels, in the
// order they were first seen.
func (c *Client) Channels() Channels {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(Channels, len(c.channelOrder))
	copy(out, c.channelOrder)
	return out
}

// ChannelByID returns the channel with the given id, or nil.
func (c *Client) ChannelByID(id uint32) *Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channelByID[id]
}

// DataRTT returns the current data-channel RTT statistics.
func (c *Client) DataRTT() RTTStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataRTT
}

// VoiceRTT returns the current voice-channel RTT statistics.
func (c *Client) VoiceRTT() RTTStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.voiceRTT
}

// Connect attaches data as the client's data channel, sends the Version
// and Authenticate handshake messages, and blocks until ServerSync arrives
// (success), the server rejects the connection, the data channel ends, or
// ctx is done. Calling Connect a second time fails with
// ErrAlreadyConnected, per §4.1.
func (c *Client) Connect(ctx context.Context, data DataChannel) error {
	c.mu.Lock()
	if c.state != StateNew {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = StateAuthenticating
	c.data = data
	c.mu.Unlock()

	if err := c.sendHandshake(); err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return &TransportError{Err: err}
	}

	go c.dataReadLoop(data)
	c.scheduler.Start()

	select {
	case <-ctx.Done():
		c.Disconnect()
		return ctx.Err()
	case err := <-c.connectResult:
		return err
	}
}

// sendHandshake emits Version then Authenticate, in that order (§4.1).
func (c *Client) sendHandshake() error {
	cfg := c.config

	version := &Version{Release: cfg.ClientSoftware, OS: cfg.OSName, OSVersion: cfg.OSVersion}
	if version.Release == "" {
		version.Release = defaultClientSoftware
	}
	if version.OS == "" {
		version.OS = probeOSName()
	}
	if version.OSVersion == "" {
		version.OSVersion = probeOSVersion()
	}
	packed := ProtocolVersion
	if vo := cfg.VersionOverride; vo != nil {
		if vo.Release != "" {
			version.Release = vo.Release
		}
		if vo.OS != "" {
			version.OS = vo.OS
		}
		if vo.OSVersion != "" {
			version.OSVersion = vo.OSVersion
		}
		if vo.VersionUint32 != nil {
			packed = *vo.VersionUint32
		} else if vo.Semver != "" {
			if p, err := packSemver(vo.Semver); err == nil {
				packed = p
			}
		}
	}

	versionMsg := &VersionMessage{Version: &packed, Release: &version.Release, OS: &version.OS, OSVersion: &version.OSVersion}
	if err := c.data.Send(versionMsg); err != nil {
		return err
	}

	var password *string
	if cfg.Password != "" {
		password = &cfg.Password
	}
	var celtVersions []int32
	opus := false
	if cfg.Codecs != nil {
		celtVersions = cfg.Codecs.CeltVersions()
		opus = cfg.Codecs.Opus()
	}
	authMsg := &AuthenticateMessage{
		Username:     cfg.Username,
		Password:     password,
		Tokens:       cfg.Tokens,
		CeltVersions: celtVersions,
		Opus:         opus,
	}
	return c.data.Send(authMsg)
}

// AttachVoiceChannel attaches voice as the client's unreliable voice
// channel and starts its read loop. Outgoing voice tunnels through the
// data channel until this is called (§4.3).
func (c *Client) AttachVoiceChannel(voice VoiceChannel) {
	c.mu.Lock()
	c.voice = voice
	c.hasVoice = true
	c.mu.Unlock()
	go c.voiceReadLoop(voice)
}

// dataReadLoop pumps Receive on the data channel and hands each message to
// the dispatcher via the mailbox, preserving arrival order (§5).
func (c *Client) dataReadLoop(data DataChannel) {
	defer close(c.dataReadDone)
	for {
		msg, err := data.Receive()
		if err != nil {
			c.mbox.post(func() { c.handleDataChannelEnd(err) })
			return
		}
		c.mbox.post(func() { c.dispatch(msg) })
	}
}

// voiceReadLoop pumps Receive on the voice channel and feeds each packet
// into the per-user reassembly engine via the mailbox.
func (c *Client) voiceReadLoop(voice VoiceChannel) {
	for {
		pkt, err := voice.Receive()
		if err != nil {
			return
		}
		c.mbox.post(func() { c.handleVoicePacket(pkt) })
	}
}

// Send writes msg to the data channel. It is exported for use by command
// helpers in other files; it does not mutate local model state (§4.2).
func (c *Client) Send(msg Message) error {
	c.mu.RLock()
	data := c.data
	c.mu.RUnlock()
	if data == nil {
		return ErrServerClosed
	}
	return data.Send(msg)
}

// sendVoice routes an outgoing voice packet to the voice channel if one is
// attached, otherwise tunnels it through the data channel (§4.3).
func (c *Client) sendVoice(pkt VoicePacket) error {
	c.mu.RLock()
	voice, hasVoice, data := c.voice, c.hasVoice, c.data
	c.mu.RUnlock()
	if hasVoice {
		return voice.Send(pkt)
	}
	if data == nil {
		return ErrServerClosed
	}
	return data.Send(&UDPTunnelMessage{Packet: pkt})
}

// Disconnect terminates the connection. It is idempotent: only the first
// call has any effect; all subsequent calls are no-ops (§5).
func (c *Client) Disconnect() error {
	c.disconnect(DisconnectUser, nil)
	return nil
}

// disconnect implements the terminal, idempotent teardown described in
// §4.1/§5: it ends both channels, cancels the ping scheduler and every
// user's idle timer, and fires the disconnected event exactly once.
func (c *Client) disconnect(reason DisconnectReason, cause error) {
	c.disconnectOnce.Do(func() {
		c.mu.Lock()
		c.state = StateDisconnected
		data := c.data
		voice := c.voice
		hasVoice := c.hasVoice
		users := c.userOrder
		c.mu.Unlock()

		if err := c.scheduler.StopJobs(); err != nil {
			c.logger.Warn("failed to stop ping scheduler jobs", "error", err)
		}
		if err := c.scheduler.Shutdown(); err != nil {
			c.logger.Warn("failed to shut down ping scheduler", "error", err)
		}
		for _, u := range users {
			u.cancelIdleTimer()
		}
		if data != nil {
			_ = data.Close()
		}
		if hasVoice {
			_ = voice.Close()
		}

		select {
		case c.connectResult <- cause:
		default:
		}

		c.config.Listeners.each(func(l EventListener) {
			l.OnDisconnect(&DisconnectEvent{Client: c, Reason: reason})
		})
		c.mbox.stop()
	})
}

func (c *Client) handleDataChannelEnd(err error) {
	if err == nil || errors.Is(err, io.EOF) {
		c.disconnect(DisconnectServer, ErrServerClosed)
		return
	}
	c.emitError(&TransportError{Err: err})
	c.disconnect(DisconnectError, &TransportError{Err: err})
}

func (c *Client) emitError(err error) {
	c.config.Listeners.each(func(l EventListener) {
		l.OnError(&ErrorEvent{Err: err})
	})
}
