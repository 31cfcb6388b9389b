package stream

import "fmt"

// ConnectKind classifies session establishment failures.
type ConnectKind int

const (
	ConnectHandshakeFailed ConnectKind = iota
	ConnectTimeout
	ConnectNetworkUnreachable
)

func (k ConnectKind) String() string {
	switch k {
	case ConnectHandshakeFailed:
		return "handshake failed"
	case ConnectTimeout:
		return "timeout"
	case ConnectNetworkUnreachable:
		return "network unreachable"
	default:
		return "unknown"
	}
}

// ConnectError is a fatal session establishment failure. The core never
// retries; retry policy belongs to the caller.
type ConnectError struct {
	Kind ConnectKind
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect: %s: %v", e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// SendKind classifies per-frame transmission failures.
type SendKind int

const (
	// SendWouldBlock means the frame missed its write deadline. Non-fatal:
	// the tick is skipped and the loop continues.
	SendWouldBlock SendKind = iota
	// SendTransportClosed means the session is gone. Fatal to the loop.
	SendTransportClosed
)

func (k SendKind) String() string {
	switch k {
	case SendWouldBlock:
		return "would block"
	case SendTransportClosed:
		return "transport closed"
	default:
		return "unknown"
	}
}

// SendError is a frame transmission failure.
type SendError struct {
	Kind SendKind
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send: %s: %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
