package gumble

// State is the current state of the client's connection to the server.
type State int32

const (
	// StateNew means no data channel has been attached yet.
	StateNew State = iota

	// StateAuthenticating means a data channel has been attached and the
	// Version/Authenticate handshake has been sent, but ServerSync has not
	// yet arrived.
	StateAuthenticating

	// StateConnected means the client has received ServerSync and has a
	// live, synced model of the server.
	StateConnected

	// StateDisconnected means the client is no longer connected; this is
	// terminal for a given Client instance.
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAuthenticating:
		return "authenticating"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
