package gumble

import (
	"sync"
	"time"
)

// voiceState is the transient per-user voice-reassembly state described in
// §4.3. It is mutated only from the Client's single dispatch goroutine.
type voiceState struct {
	sinkOut     DecodedSink
	stream      *VoiceStream
	lastSeq     uint64
	hasLastSeq  bool
	idleTimer   *time.Timer
}

// User is a client-side model of one connected Mumble user, identified by
// a transient, server-assigned session id. All tracked attributes are
// read-only from the outside (§4.2, §9): mutation happens only through the
// dispatcher applying a UserState/UserRemove, or through command helpers
// that emit messages to the server rather than mutate local state.
type User struct {
	client  *Client
	session uint32

	mu              sync.RWMutex
	name            string
	uniqueID        *uint32
	mute            bool
	deaf            bool
	suppress        bool
	selfMute        bool
	selfDeaf        bool
	texture         []byte
	textureHash     []byte
	textureRequested bool
	comment         string
	commentHash     []byte
	commentRequested bool
	prioritySpeaker bool
	recording       bool
	certHash        string

	hasChannel bool
	channelID  uint32

	voice voiceState
}

// Session returns the user's transient, server-assigned session id.
func (u *User) Session() uint32 { return u.session }

// Name returns the user's display name.
func (u *User) Name() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.name
}

// UniqueID returns the user's registered unique id, or nil if the user is
// unregistered.
func (u *User) UniqueID() *uint32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.uniqueID
}

// Mute reports whether the user has been server-muted.
func (u *User) Mute() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.mute
}

// Deaf reports whether the user has been server-deafened.
func (u *User) Deaf() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.deaf
}

// Suppress reports whether the user has been suppressed (e.g. not a member
// of their current channel's ACL-permitted speaker set).
func (u *User) Suppress() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.suppress
}

// SelfMute reports whether the user has muted themself.
func (u *User) SelfMute() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.selfMute
}

// SelfDeaf reports whether the user has deafened themself.
func (u *User) SelfDeaf() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.selfDeaf
}

// Texture returns the user's avatar texture blob, if known.
func (u *User) Texture() []byte {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.texture
}

// TextureHash returns the hash of the user's avatar texture.
func (u *User) TextureHash() []byte {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.textureHash
}

// Comment returns the user's comment text, if known.
func (u *User) Comment() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.comment
}

// CommentHash returns the hash of the user's comment.
func (u *User) CommentHash() []byte {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.commentHash
}

// PrioritySpeaker reports whether the user is a priority speaker.
func (u *User) PrioritySpeaker() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.prioritySpeaker
}

// Recording reports whether the user is recording the session.
func (u *User) Recording() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.recording
}

// CertHash returns the user's certificate hash.
func (u *User) CertHash() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.certHash
}

// Channel returns the Channel the user currently resolves to, or nil if
// the user's channel id is unknown or unresolvable (§3).
func (u *User) Channel() *Channel {
	u.mu.RLock()
	id, ok := u.channelID, u.hasChannel
	u.mu.RUnlock()
	if !ok {
		return nil
	}
	return u.client.ChannelByID(id)
}

// IsSelf reports whether this User is the client's own identity.
func (u *User) IsSelf() bool {
	return u.client.selfSessionEquals(u.session)
}

// applyState applies the present fields of msg and returns the set of
// field names that were present (§4.1: the dispatcher reports presence,
// not diffs, so re-asserting an identical value is still a reportable
// change). channel_id is handled separately by the dispatcher, which
// performs membership reconciliation (§4.2) before recording that key.
func (u *User) applyState(msg *UserStateMessage) map[string]bool {
	changes := make(map[string]bool)
	u.mu.Lock()
	if msg.Name != nil {
		u.name = *msg.Name
		changes["name"] = true
	}
	if msg.UserID != nil {
		u.uniqueID = msg.UserID
		changes["unique_id"] = true
	}
	if msg.Mute != nil {
		u.mute = *msg.Mute
		changes["mute"] = true
	}
	if msg.Deaf != nil {
		u.deaf = *msg.Deaf
		changes["deaf"] = true
	}
	if msg.Suppress != nil {
		u.suppress = *msg.Suppress
		changes["suppress"] = true
	}
	if msg.SelfMute != nil {
		u.selfMute = *msg.SelfMute
		changes["self_mute"] = true
	}
	if msg.SelfDeaf != nil {
		u.selfDeaf = *msg.SelfDeaf
		changes["self_deaf"] = true
	}
	if msg.Texture != nil {
		u.texture = msg.Texture
		changes["texture"] = true
	}
	if msg.TextureHash != nil {
		u.textureHash = msg.TextureHash
		u.textureRequested = false
		changes["texture_hash"] = true
	}
	if msg.Comment != nil {
		u.comment = *msg.Comment
		changes["comment"] = true
	}
	if msg.CommentHash != nil {
		u.commentHash = msg.CommentHash
		u.commentRequested = false
		changes["comment_hash"] = true
	}
	if msg.PrioritySpeaker != nil {
		u.prioritySpeaker = *msg.PrioritySpeaker
		changes["priority_speaker"] = true
	}
	if msg.Recording != nil {
		u.recording = *msg.Recording
		changes["recording"] = true
	}
	if msg.CertHash != nil {
		u.certHash = *msg.CertHash
		changes["cert_hash"] = true
	}
	u.mu.Unlock()
	return changes
}

// setChannel performs the membership-reconciliation side of a channel_id
// update (§4.2): remove self from the previously-resolved channel's users,
// update channelID, then append to the new channel's users if resolvable.
// Doing it in this order preserves "at most one membership" even when the
// previous or new channel id is temporarily unresolvable.
func (u *User) setChannel(id uint32) {
	if old := u.Channel(); old != nil {
		old.removeUser(u)
	}
	u.mu.Lock()
	u.channelID = id
	u.hasChannel = true
	u.mu.Unlock()
	if next := u.client.ChannelByID(id); next != nil {
		next.addUser(u)
	}
}

// cancelIdleTimer stops this user's per-transmission idle timer, if one is
// running. Called when the user is removed so a stale timer cannot fire
// against a session that no longer exists.
func (u *User) cancelIdleTimer() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.voice.idleTimer != nil {
		u.voice.idleTimer.Stop()
		u.voice.idleTimer = nil
	}
}

// remove implements User._remove (§4.2): if resolvable, leave the current
// channel's membership, then return the event payload for the dispatcher
// to emit.
func (u *User) remove(actor *User, reason string, ban bool) *UserRemoveEvent {
	if ch := u.Channel(); ch != nil {
		ch.removeUser(u)
	}
	return &UserRemoveEvent{User: u, Actor: actor, Reason: reason, Ban: ban}
}
