package gumble

import (
	"errors"
	"fmt"
)

// ErrAlreadyConnected is returned by Connect when a data channel has
// already been attached to this Client.
var ErrAlreadyConnected = errors.New("gumble: data channel already attached")

// ErrImmutableAttribute names the read-only rule for tracked User/Channel
// attributes. No function in this package returns it: User and Channel
// expose getters only, so there is no setter that could fail.
var ErrImmutableAttribute = errors.New("gumble: attribute is read-only; use a command helper instead")

// ErrServerClosed indicates the data channel reached end-of-stream without
// any other error. Connect returns it when this happens before ServerSync,
// and Send returns it when no data channel is attached.
var ErrServerClosed = errors.New("gumble: data channel closed by server")

// ErrStreamClosed is returned by VoiceSender.Send once the sender has been
// closed.
var ErrStreamClosed = errors.New("gumble: stream closed")

// ConfigError reports an invalid Config at construction time.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gumble: invalid config: %s", e.Reason)
}

// ProtocolViolationError reports a server message that violates the
// protocol's closed set of variants (e.g. an unrecognized PermissionDenied
// kind).
type ProtocolViolationError struct {
	Detail string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("gumble: protocol violation: %s", e.Detail)
}

// TimeoutError reports that the ping liveness scheduler gave up waiting on
// outstanding pings.
type TimeoutError struct {
	InFlight uint32
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gumble: ping timeout with %d pings in flight", e.InFlight)
}

// TransportError wraps an error surfaced by the caller-supplied data or
// voice channel.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gumble: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError reports a server Reject message received during or after
// the handshake.
type RejectedError struct {
	Type   RejectType
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("gumble: rejected (%s): %s", e.Type, e.Reason)
}
