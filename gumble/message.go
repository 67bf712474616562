package gumble

// MessageType tags a decoded control message. Dispatch (§4.1) switches
// exhaustively over this set; any tag the external data codec cannot map
// to one of these is decoded as MessageUnknown and is logged, not an error.
type MessageType int

const (
	MessageUnknown MessageType = iota
	MessageVersion
	MessageUDPTunnel
	MessageAuthenticate
	MessagePing
	MessageReject
	MessageServerSync
	MessageChannelRemove
	MessageChannelState
	MessageUserRemove
	MessageUserState
	MessageTextMessage
	MessagePermissionDenied
	MessageRequestBlob
)

func (t MessageType) String() string {
	switch t {
	case MessageVersion:
		return "Version"
	case MessageUDPTunnel:
		return "UDPTunnel"
	case MessageAuthenticate:
		return "Authenticate"
	case MessagePing:
		return "Ping"
	case MessageReject:
		return "Reject"
	case MessageServerSync:
		return "ServerSync"
	case MessageChannelRemove:
		return "ChannelRemove"
	case MessageChannelState:
		return "ChannelState"
	case MessageUserRemove:
		return "UserRemove"
	case MessageUserState:
		return "UserState"
	case MessageTextMessage:
		return "TextMessage"
	case MessagePermissionDenied:
		return "PermissionDenied"
	case MessageRequestBlob:
		return "RequestBlob"
	default:
		return "Unknown"
	}
}

// Message is a single decoded control message, as handed to the dispatcher
// by the external data codec (out of scope per §1 — this module never
// marshals or unmarshals wire bytes itself).
type Message interface {
	Type() MessageType
}

// VersionMessage carries protocol/release identification, sent by both
// sides at the start of the handshake.
type VersionMessage struct {
	Version   *uint32
	Release   *string
	OS        *string
	OSVersion *string
}

func (*VersionMessage) Type() MessageType { return MessageVersion }

// AuthenticateMessage is the client's credential/capability offer.
type AuthenticateMessage struct {
	Username     string
	Password     *string
	Tokens       []string
	CeltVersions []int32
	Opus         bool
}

func (*AuthenticateMessage) Type() MessageType { return MessageAuthenticate }

// ServerSyncMessage finalizes the handshake (§4.1, authenticating → connected).
type ServerSyncMessage struct {
	Session      *uint32
	MaxBandwidth *uint32
	WelcomeText  *string
	Permissions  *uint64
}

func (*ServerSyncMessage) Type() MessageType { return MessageServerSync }

// RejectType is the closed set of reasons a server can refuse a connection.
type RejectType int32

const (
	RejectNone RejectType = iota
	RejectWrongVersion
	RejectInvalidUsername
	RejectWrongUserPW
	RejectWrongServerPW
	RejectUsernameInUse
	RejectServerFull
	RejectNoCertificate
	RejectAuthenticatorFail
)

func (t RejectType) String() string {
	switch t {
	case RejectWrongVersion:
		return "WrongVersion"
	case RejectInvalidUsername:
		return "InvalidUsername"
	case RejectWrongUserPW:
		return "WrongUserPW"
	case RejectWrongServerPW:
		return "WrongServerPW"
	case RejectUsernameInUse:
		return "UsernameInUse"
	case RejectServerFull:
		return "ServerFull"
	case RejectNoCertificate:
		return "NoCertificate"
	case RejectAuthenticatorFail:
		return "AuthenticatorFail"
	default:
		return "None"
	}
}

// RejectMessage is sent by the server to refuse the connection.
type RejectMessage struct {
	Type   RejectType
	Reason string
}

func (*RejectMessage) Type() MessageType { return MessageReject }

// PingMessage is exchanged periodically to measure RTT and detect timeouts
// (§4.5).
type PingMessage struct {
	Timestamp    uint64
	DataRTTCount *uint32
	DataRTTMean  *float32
	DataRTTVar   *float32
	VoiceRTTCount *uint32
	VoiceRTTMean  *float32
	VoiceRTTVar   *float32
}

func (*PingMessage) Type() MessageType { return MessagePing }

// ChannelStateMessage upserts a Channel (§4.1, §4.2).
type ChannelStateMessage struct {
	ChannelID       uint32
	Parent          *uint32
	Name            *string
	Description     *string
	DescriptionHash []byte
	Temporary       *bool
	Position        *int32
	MaxUsers        *uint32
	Links           []uint32
	LinksAdd        []uint32
	LinksRemove     []uint32
}

func (*ChannelStateMessage) Type() MessageType { return MessageChannelState }

// ChannelRemoveMessage destroys a Channel.
type ChannelRemoveMessage struct {
	ChannelID uint32
}

func (*ChannelRemoveMessage) Type() MessageType { return MessageChannelRemove }

// UserStateMessage upserts a User (§4.1, §4.2).
type UserStateMessage struct {
	Session         uint32
	Actor           *uint32
	Name            *string
	UserID          *uint32
	ChannelID       *uint32
	Mute            *bool
	Deaf            *bool
	Suppress        *bool
	SelfMute        *bool
	SelfDeaf        *bool
	Texture         []byte
	TextureHash     []byte
	Comment         *string
	CommentHash     []byte
	PrioritySpeaker *bool
	Recording       *bool
	CertHash        *string
}

func (*UserStateMessage) Type() MessageType { return MessageUserState }

// UserRemoveMessage destroys a User (disconnect or kick/ban).
type UserRemoveMessage struct {
	Session uint32
	Actor   *uint32
	Reason  *string
	Ban     bool
}

func (*UserRemoveMessage) Type() MessageType { return MessageUserRemove }

// TextMessageMessage is a chat message addressed to users, channels, and/or
// channel trees.
type TextMessageMessage struct {
	Actor      *uint32
	Sessions   []uint32
	ChannelIDs []uint32
	TreeIDs    []uint32
	Text       string
}

func (*TextMessageMessage) Type() MessageType { return MessageTextMessage }

// PermissionDeniedKind is the closed set of PermissionDenied reasons, per
// the table in §4.1.
type PermissionDeniedKind int32

const (
	PermissionDeniedText PermissionDeniedKind = iota
	PermissionDeniedPermission
	PermissionDeniedSuperUser
	PermissionDeniedChannelName
	PermissionDeniedTextTooLong
	PermissionDeniedTemporaryChannel
	PermissionDeniedMissingCertificate
	PermissionDeniedUserName
	PermissionDeniedChannelFull
	PermissionDeniedNestingLimit
)

func (k PermissionDeniedKind) String() string {
	switch k {
	case PermissionDeniedText:
		return "Text"
	case PermissionDeniedPermission:
		return "Permission"
	case PermissionDeniedSuperUser:
		return "SuperUser"
	case PermissionDeniedChannelName:
		return "ChannelName"
	case PermissionDeniedTextTooLong:
		return "TextTooLong"
	case PermissionDeniedTemporaryChannel:
		return "TemporaryChannel"
	case PermissionDeniedMissingCertificate:
		return "MissingCertificate"
	case PermissionDeniedUserName:
		return "UserName"
	case PermissionDeniedChannelFull:
		return "ChannelFull"
	case PermissionDeniedNestingLimit:
		return "NestingLimit"
	default:
		return "Unrecognized"
	}
}

// PermissionDeniedMessage carries one denial. Kind is validated against the
// closed set above by the dispatcher; an unrecognized value is a
// ProtocolViolationError (§4.1).
type PermissionDeniedMessage struct {
	Kind       PermissionDeniedKind
	Session    *uint32
	ChannelID  *uint32
	Permission *uint32
	Name       *string
	Reason     *string
}

func (*PermissionDeniedMessage) Type() MessageType { return MessagePermissionDenied }

// UDPTunnelMessage carries a voice packet tunneled over the data channel.
// Per DESIGN.md, Packet is the already-typed VoicePacket rather than raw
// bytes: the byte-level (de)serialization of both control messages and
// voice packets is an external concern in both directions, so the Message
// layer stays fully typed end to end.
type UDPTunnelMessage struct {
	Packet VoicePacket
}

func (*UDPTunnelMessage) Type() MessageType { return MessageUDPTunnel }

// RequestBlobMessage asks the server to resend blobs (textures, comments,
// descriptions) identified by user session or channel id.
type RequestBlobMessage struct {
	SessionTexture      []uint32
	SessionComment      []uint32
	ChannelDescription  []uint32
}

func (*RequestBlobMessage) Type() MessageType { return MessageRequestBlob }
