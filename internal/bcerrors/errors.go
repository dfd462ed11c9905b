// Package bcerrors defines the typed error taxonomy used across the Baichuan
// protocol core (wire framing, transport, session, login). Each kind carries
// enough context for callers to decide whether to retry, surface, or treat
// the session as dead, per the policy table in the protocol design.
package bcerrors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"
)

// protocolMarker is implemented by every wire/session-layer error type so
// they can be classified together with IsProtocolError.
type protocolMarker interface {
	error
	isProtocol()
}

// IncompleteFrame indicates the buffer is shorter than the frame's declared
// length. The BC and media stream readers translate it into a "need more
// bytes" result; the UDP datagram decoders return it to their callers.
type IncompleteFrame struct {
	Op string
}

func (e *IncompleteFrame) Error() string { return fmt.Sprintf("incomplete frame: %s", e.Op) }
func (e *IncompleteFrame) isProtocol()   {}

// CorruptFrame indicates a bad magic number or a parse failure that could
// not be explained by a short buffer.
type CorruptFrame struct {
	Op  string
	Err error
}

func (e *CorruptFrame) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("corrupt frame: %s", e.Op)
	}
	return fmt.Sprintf("corrupt frame: %s: %v", e.Op, e.Err)
}
func (e *CorruptFrame) Unwrap() error { return e.Err }
func (e *CorruptFrame) isProtocol()   {}

// UnknownEncryption indicates the login reply selected an encryption mode
// byte this client does not understand.
type UnknownEncryption struct {
	Byte int
}

func (e *UnknownEncryption) Error() string {
	return fmt.Sprintf("unknown encryption mode byte 0x%02x", e.Byte)
}
func (e *UnknownEncryption) isProtocol() {}

// AuthFailed indicates the second login exchange did not succeed (non-200
// response), or the camera selected a mode stronger than MaxEncryption.
type AuthFailed struct {
	Reason string
}

func (e *AuthFailed) Error() string { return fmt.Sprintf("authentication failed: %s", e.Reason) }
func (e *AuthFailed) isProtocol()   {}

// SimultaneousSubscription indicates a second subscriber tried to register
// for a message-number that already has a live subscription.
type SimultaneousSubscription struct {
	MsgNum uint32
}

func (e *SimultaneousSubscription) Error() string {
	return fmt.Sprintf("simultaneous subscription on msg_num %d", e.MsgNum)
}
func (e *SimultaneousSubscription) isProtocol() {}

// UnintelligibleReply indicates a reply was well-formed Bc but did not match
// the shape the caller expected. The reply is attached so callers can log or
// inspect it for debugging.
type UnintelligibleReply struct {
	Why   string
	Reply any
}

func (e *UnintelligibleReply) Error() string {
	return fmt.Sprintf("unintelligible reply: %s", e.Why)
}
func (e *UnintelligibleReply) isProtocol() {}

// Timeout indicates a deadline expired waiting on a subscription, a
// discovery step, or a UDP ACK.
type Timeout struct {
	Op       string
	Duration time.Duration
	Err      error
}

func (e *Timeout) Error() string {
	base := fmt.Sprintf("timeout: %s (after %s)", e.Op, e.Duration)
	if e.Err != nil {
		return base + ": " + e.Err.Error()
	}
	return base
}
func (e *Timeout) Unwrap() error { return e.Err }

// CameraTerminate indicates the camera sent a D2C_DISC discovery message.
type CameraTerminate struct{}

func (e *CameraTerminate) Error() string { return "camera sent terminate (D2C_DISC)" }
func (e *CameraTerminate) isProtocol()   {}

// RelayTerminate indicates the vendor relay sent an R2C_DISC discovery message.
type RelayTerminate struct{}

func (e *RelayTerminate) Error() string { return "relay sent terminate (R2C_DISC)" }
func (e *RelayTerminate) isProtocol()   {}

// Transport indicates the underlying socket (TCP stream or UDP transport)
// failed; the session cannot continue.
type Transport struct {
	Op  string
	Err error
}

func (e *Transport) Error() string { return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err) }
func (e *Transport) Unwrap() error { return e.Err }
func (e *Transport) isProtocol()   {}

// ServiceUnavailable indicates a response code that is neither 200 nor a
// recognized retriable status.
type ServiceUnavailable struct {
	Code uint16
}

func (e *ServiceUnavailable) Error() string {
	return fmt.Sprintf("camera returned service-unavailable response code %d", e.Code)
}
func (e *ServiceUnavailable) isProtocol() {}

// DroppedConnection indicates the session was closed while a subscriber or
// handler was still waiting on it.
type DroppedConnection struct {
	Reason string
}

func (e *DroppedConnection) Error() string { return fmt.Sprintf("dropped connection: %s", e.Reason) }
func (e *DroppedConnection) isProtocol()   {}

// Constructors. Encourage contextual wrapping with %w when used by callers.
func NewIncompleteFrame(op string) error                  { return &IncompleteFrame{Op: op} }
func NewCorruptFrame(op string, cause error) error         { return &CorruptFrame{Op: op, Err: cause} }
func NewUnknownEncryption(b int) error                     { return &UnknownEncryption{Byte: b} }
func NewAuthFailed(reason string) error                    { return &AuthFailed{Reason: reason} }
func NewSimultaneousSubscription(msgNum uint32) error {
	return &SimultaneousSubscription{MsgNum: msgNum}
}
func NewUnintelligibleReply(why string, reply any) error {
	return &UnintelligibleReply{Why: why, Reply: reply}
}
func NewTimeout(op string, d time.Duration, cause error) error {
	return &Timeout{Op: op, Duration: d, Err: cause}
}
func NewCameraTerminate() error             { return &CameraTerminate{} }
func NewRelayTerminate() error              { return &RelayTerminate{} }
func NewTransport(op string, cause error) error { return &Transport{Op: op, Err: cause} }
func NewServiceUnavailable(code uint16) error   { return &ServiceUnavailable{Code: code} }
func NewDroppedConnection(reason string) error  { return &DroppedConnection{Reason: reason} }

// IsTimeout returns true if err is (or wraps) a Timeout, a context deadline
// exceeded, or any error type that exposes Timeout() bool and returns true.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var te *Timeout
	if stdErrors.As(err, &te) {
		return true
	}
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var toErr interface{ Timeout() bool }
	if stdErrors.As(err, &toErr) && toErr.Timeout() {
		return true
	}
	return false
}

// IsProtocolError returns true if the error chain contains any wire/session
// layer error.
func IsProtocolError(err error) bool {
	if err == nil {
		return false
	}
	var pm protocolMarker
	return stdErrors.As(err, &pm)
}

// IsFatal reports whether err should end the session outright, per the
// failure-semantics table: transport failure or a terminate packet. A
// CorruptFrame is not classified as fatal here.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var t *Transport
	var ct *CameraTerminate
	var rt *RelayTerminate
	return stdErrors.As(err, &t) || stdErrors.As(err, &ct) || stdErrors.As(err, &rt)
}

// IsRetriable reports whether the caller's retry policy should attempt the
// operation again: UDP loss, discovery-method failure, or a 400 pirstate
// response are all retried by their respective callers using this signal as
// one input alongside their own retry budgets.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	var su *ServiceUnavailable
	if stdErrors.As(err, &su) {
		return su.Code == 400
	}
	return IsTimeout(err)
}
