// Package stream manages the DTLS-PSK session carrying entertainment frames
// to the bridge's UDP streaming port.
package stream

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/dtls/v2"
	"github.com/rs/zerolog/log"
)

// Port is the bridge's entertainment streaming port.
const Port = 2100

// The bridge silently drops the session after this long without a frame.
// Callers must send within every window, resending unchanged state if
// nothing else is due.
const keepaliveWindow = 10 * time.Second

const (
	defaultHandshakeTimeout = 5 * time.Second
	defaultSendTimeout      = 100 * time.Millisecond
	mtu                     = 1400
)

// Options tune session establishment and per-frame sends.
type Options struct {
	// HandshakeTimeout bounds the DTLS handshake. Zero means 5s.
	HandshakeTimeout time.Duration
	// SendTimeout bounds each frame write. Zero means 100ms; it must stay
	// well under one tick period so a stuck send skips a tick instead of
	// stalling the scheduler.
	SendTimeout time.Duration
}

// Session is an established streaming session. The transport is exclusively
// owned by the engine loop; only the sequence counter and send path are used
// concurrently with Close.
type Session struct {
	conn        net.Conn
	sendTimeout time.Duration

	mu       sync.Mutex
	seq      uint8
	lastSend time.Time
	closed   bool
}

// Dial establishes a DTLS 1.2 PSK session to host:2100. identity is the
// bridge application key, pskHex the hex-encoded client key, both obtained
// during pairing.
func Dial(ctx context.Context, host, identity, pskHex string, opts Options) (*Session, error) {
	psk, err := hex.DecodeString(pskHex)
	if err != nil {
		return nil, &ConnectError{Kind: ConnectHandshakeFailed, Err: fmt.Errorf("invalid client key: %w", err)}
	}

	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, fmt.Sprint(Port)))
	if err != nil {
		return nil, &ConnectError{Kind: ConnectNetworkUnreachable, Err: err}
	}

	handshakeTimeout := opts.HandshakeTimeout
	if handshakeTimeout == 0 {
		handshakeTimeout = defaultHandshakeTimeout
	}

	cfg := &dtls.Config{
		PSK: func(hint []byte) ([]byte, error) {
			return psk, nil
		},
		PSKIdentityHint: []byte(identity),
		CipherSuites:    []dtls.CipherSuiteID{dtls.TLS_PSK_WITH_AES_128_GCM_SHA256},
		MTU:             mtu,
		ConnectContextMaker: func() (context.Context, func()) {
			return context.WithTimeout(ctx, handshakeTimeout)
		},
	}

	log.Debug().Str("host", host).Int("port", Port).Msg("Starting DTLS handshake")

	conn, err := dtls.DialWithContext(ctx, "udp", addr, cfg)
	if err != nil {
		return nil, &ConnectError{Kind: classifyConnectErr(err), Err: err}
	}

	log.Info().Str("host", host).Msg("DTLS session established")

	sendTimeout := opts.SendTimeout
	if sendTimeout == 0 {
		sendTimeout = defaultSendTimeout
	}
	return newSession(conn, sendTimeout), nil
}

// newSession wraps an established transport. Split from Dial so tests can
// drive a Session over an in-memory pipe.
func newSession(conn net.Conn, sendTimeout time.Duration) *Session {
	return &Session{
		conn:        conn,
		sendTimeout: sendTimeout,
		lastSend:    time.Now(),
	}
}

// NextSequence returns the next frame sequence number, wrapping at 256. The
// value is advisory; the bridge does not enforce ordering.
func (s *Session) NextSequence() uint8 {
	s.mu.Lock()
	v := s.seq
	s.seq++
	s.mu.Unlock()
	return v
}

// Send transmits one encoded frame. The write is bounded by the configured
// send timeout; a missed deadline surfaces as SendWouldBlock and counts as
// an attempted send for keepalive purposes.
func (s *Session) Send(frame []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &SendError{Kind: SendTransportClosed, Err: net.ErrClosed}
	}
	s.lastSend = time.Now()
	s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.sendTimeout)); err != nil {
		return &SendError{Kind: SendTransportClosed, Err: err}
	}
	if _, err := s.conn.Write(frame); err != nil {
		return &SendError{Kind: classifySendErr(err), Err: err}
	}
	return nil
}

// lastSendAt returns when a send was last attempted.
func (s *Session) lastSendAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSend
}

// Close tears the session down. Idempotent and best-effort.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.conn.Close(); err != nil {
		log.Warn().Err(err).Msg("DTLS session close failed")
		return err
	}
	log.Info().Msg("DTLS session closed")
	return nil
}

func classifyConnectErr(err error) ConnectKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ConnectTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ConnectTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ConnectNetworkUnreachable
	}
	return ConnectHandshakeFailed
}

func classifySendErr(err error) SendKind {
	if errors.Is(err, net.ErrClosed) || errors.Is(err, dtls.ErrConnClosed) {
		return SendTransportClosed
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return SendWouldBlock
	}
	return SendTransportClosed
}
