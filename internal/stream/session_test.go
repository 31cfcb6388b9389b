package stream

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func pipeSession(t *testing.T) (*Session, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	s := newSession(client, 20*time.Millisecond)
	t.Cleanup(func() {
		s.Close()
		server.Close()
	})
	return s, server
}

func TestNextSequence_Wraps(t *testing.T) {
	s, _ := pipeSession(t)
	for i := 0; i < 256; i++ {
		if got := s.NextSequence(); got != uint8(i) {
			t.Fatalf("sequence %d = %d", i, got)
		}
	}
	if got := s.NextSequence(); got != 0 {
		t.Errorf("sequence after 255 = %d, want 0 (wrap)", got)
	}
}

func TestSend_DeliversFrame(t *testing.T) {
	s, server := pipeSession(t)

	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 128)
		n, err := server.Read(buf)
		if err != nil {
			return
		}
		got <- buf[:n]
	}()

	frame := []byte("HueStream-test-frame")
	if err := s.Send(frame); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case data := <-got:
		if string(data) != string(frame) {
			t.Errorf("received %q, want %q", data, frame)
		}
	case <-time.After(time.Second):
		t.Fatal("frame not received")
	}
}

func TestSend_WouldBlockOnStalledPeer(t *testing.T) {
	s, _ := pipeSession(t)

	// Nobody reads the server side, so the write misses its deadline.
	err := s.Send([]byte("frame"))
	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("err = %v, want *SendError", err)
	}
	if sendErr.Kind != SendWouldBlock {
		t.Errorf("kind = %v, want SendWouldBlock", sendErr.Kind)
	}
}

func TestSend_UpdatesLastSendOnAttempt(t *testing.T) {
	s, _ := pipeSession(t)
	before := s.lastSendAt()

	time.Sleep(5 * time.Millisecond)
	// Even a failed (would-block) send counts as an attempt: the
	// keepalive deadline is measured from last attempted send.
	_ = s.Send([]byte("frame"))

	if !s.lastSendAt().After(before) {
		t.Error("lastSendAt not updated on attempted send")
	}
	if time.Since(s.lastSendAt()) >= keepaliveWindow {
		t.Error("attempted send left the session outside the keepalive window")
	}
}

func TestSend_AfterClose(t *testing.T) {
	s, _ := pipeSession(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}

	err := s.Send([]byte("frame"))
	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("err = %v, want *SendError", err)
	}
	if sendErr.Kind != SendTransportClosed {
		t.Errorf("kind = %v, want SendTransportClosed", sendErr.Kind)
	}
}

func TestDial_RejectsBadClientKey(t *testing.T) {
	_, err := Dial(context.Background(), "127.0.0.1", "identity", "not-hex", Options{})
	var connErr *ConnectError
	if !errors.As(err, &connErr) {
		t.Fatalf("err = %v, want *ConnectError", err)
	}
	if connErr.Kind != ConnectHandshakeFailed {
		t.Errorf("kind = %v, want ConnectHandshakeFailed", connErr.Kind)
	}
}
