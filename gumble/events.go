package gumble

// ConnectEvent accompanies the connected() event, fired once ServerSync
// has been fully applied (§4.1).
type ConnectEvent struct {
	Client *Client
}

// DisconnectReason classifies why a DisconnectEvent fired.
type DisconnectReason int

const (
	DisconnectUser DisconnectReason = iota
	DisconnectServer
	DisconnectKicked
	DisconnectError
)

// DisconnectEvent accompanies the disconnected() event.
type DisconnectEvent struct {
	Client *Client
	Reason DisconnectReason
}

// ChannelChangeEvent accompanies newChannel/update/remove events for a
// Channel. Changes reports every field present in the triggering
// ChannelState, keyed by field name, even when the value is unchanged
// (§4.1).
type ChannelChangeEvent struct {
	Channel *Channel
	Changes map[string]bool
}

// UserChangeEvent accompanies newUser/update events for a User. Actor is
// the User who made the change, if resolvable.
type UserChangeEvent struct {
	User    *User
	Actor   *User
	Changes map[string]bool
}

// UserRemoveEvent accompanies a User's removal.
type UserRemoveEvent struct {
	User   *User
	Actor  *User
	Reason string
	Ban    bool
}

// TextMessageEvent accompanies the message() event.
type TextMessageEvent struct {
	Sender     *User
	Text       string
	ToUsers    []*User
	ToChannels []*Channel
	ToTrees    []*Channel
}

// PermissionDeniedEvent accompanies the denied() event.
type PermissionDeniedEvent struct {
	Kind    PermissionDeniedKind
	User    *User
	Channel *Channel
	Detail  string
}

// RejectEvent accompanies the reject() event.
type RejectEvent struct {
	Type   RejectType
	Reason string
}

// ErrorEvent accompanies the error() event.
type ErrorEvent struct {
	Err error
}

// DataPingEvent accompanies the dataPing() event.
type DataPingEvent struct {
	RTTMillis float64
}

// UnknownCodecEvent accompanies the unknown_codec() event.
type UnknownCodecEvent struct {
	Codec CodecID
}

// VoiceEvent accompanies the per-user voice(stream) event, fired once per
// transmission the first time a frame is decoded (§4.3, §4.6).
type VoiceEvent struct {
	User   *User
	Stream *VoiceStream
}

// EventListener observes Client events. Embed Listener to implement only
// the callbacks you care about.
type EventListener interface {
	OnConnect(*ConnectEvent)
	OnDisconnect(*DisconnectEvent)
	OnNewChannel(*ChannelChangeEvent)
	OnChannelChange(*ChannelChangeEvent)
	OnChannelRemove(*ChannelChangeEvent)
	OnNewUser(*UserChangeEvent)
	OnUserChange(*UserChangeEvent)
	OnUserRemove(*UserRemoveEvent)
	OnTextMessage(*TextMessageEvent)
	OnPermissionDenied(*PermissionDeniedEvent)
	OnReject(*RejectEvent)
	OnError(*ErrorEvent)
	OnDataPing(*DataPingEvent)
	OnUnknownCodec(*UnknownCodecEvent)
}

// Listener is a no-op EventListener; embed it to override only a subset of
// callbacks.
type Listener struct{}

func (Listener) OnConnect(*ConnectEvent)                     {}
func (Listener) OnDisconnect(*DisconnectEvent)                {}
func (Listener) OnNewChannel(*ChannelChangeEvent)             {}
func (Listener) OnChannelChange(*ChannelChangeEvent)          {}
func (Listener) OnChannelRemove(*ChannelChangeEvent)          {}
func (Listener) OnNewUser(*UserChangeEvent)                   {}
func (Listener) OnUserChange(*UserChangeEvent)                {}
func (Listener) OnUserRemove(*UserRemoveEvent)                {}
func (Listener) OnTextMessage(*TextMessageEvent)              {}
func (Listener) OnPermissionDenied(*PermissionDeniedEvent)    {}
func (Listener) OnReject(*RejectEvent)                        {}
func (Listener) OnError(*ErrorEvent)                           {}
func (Listener) OnDataPing(*DataPingEvent)                     {}
func (Listener) OnUnknownCodec(*UnknownCodecEvent)             {}

// AudioListener observes per-user voice transmissions.
type AudioListener interface {
	OnVoice(*VoiceEvent)
}

// Detacher removes a previously-attached listener.
type Detacher interface {
	Detach()
}
