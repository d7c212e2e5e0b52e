package uploader

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ismail-ozturk/go-espota/protocol"
)

// udpResponder is a scripted device endpoint for invitation tests. The
// handler receives the 1-based datagram count and the datagram itself and
// returns the reply to send, or nil for silence.
type udpResponder struct {
	pc   net.PacketConn
	port int

	mu    sync.Mutex
	count int
}

func newUDPResponder(t *testing.T, handler func(count int, data []byte) []byte) *udpResponder {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	t.Cleanup(func() { _ = pc.Close() })

	r := &udpResponder{
		pc:   pc,
		port: pc.LocalAddr().(*net.UDPAddr).Port,
	}

	go func() {
		buf := make([]byte, 512)
		for {
			n, addr, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}

			r.mu.Lock()
			r.count++
			count := r.count
			r.mu.Unlock()

			if reply := handler(count, buf[:n]); reply != nil {
				_, _ = pc.WriteTo(reply, addr)
			}
		}
	}()

	return r
}

func (r *udpResponder) datagrams() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func testRequest() InvitationRequest {
	return InvitationRequest{
		Command:   protocol.CmdFlash,
		LocalPort: 23456,
		Size:      2500,
		Digest:    "9e107d9d372bb6826bd81d3542a419d6",
	}
}

func TestInviteAcceptedFirstAttempt(t *testing.T) {
	responder := newUDPResponder(t, func(count int, data []byte) []byte {
		return []byte("OK")
	})

	up := New(WithInviteTimeout(200 * time.Millisecond))

	reply, err := up.Invite(context.Background(), "127.0.0.1", responder.port, testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Kind != protocol.ReplyOK {
		t.Errorf("Kind = %v, want ReplyOK", reply.Kind)
	}

	if got := responder.datagrams(); got != 1 {
		t.Errorf("datagrams sent = %d, want exactly 1 attempt", got)
	}
}

func TestInviteDatagramFormat(t *testing.T) {
	var (
		mu  sync.Mutex
		got string
	)

	responder := newUDPResponder(t, func(count int, data []byte) []byte {
		mu.Lock()
		got = string(data)
		mu.Unlock()
		return []byte("OK")
	})

	up := New(WithInviteTimeout(200 * time.Millisecond))

	if _, err := up.Invite(context.Background(), "127.0.0.1", responder.port, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := "0 23456 2500 9e107d9d372bb6826bd81d3542a419d6\n"
	if got != want {
		t.Errorf("invitation datagram = %q, want %q", got, want)
	}
}

func TestInviteAuthRequired(t *testing.T) {
	responder := newUDPResponder(t, func(count int, data []byte) []byte {
		return []byte("AUTH abc123")
	})

	up := New(WithInviteTimeout(200 * time.Millisecond))

	reply, err := up.Invite(context.Background(), "127.0.0.1", responder.port, testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Kind != protocol.ReplyAuth {
		t.Errorf("Kind = %v, want ReplyAuth", reply.Kind)
	}

	if reply.Nonce != "abc123" {
		t.Errorf("Nonce = %q, want %q", reply.Nonce, "abc123")
	}
}

func TestInviteRejectedCarriesRawReply(t *testing.T) {
	responder := newUDPResponder(t, func(count int, data []byte) []byte {
		return []byte("ERR: not enough space")
	})

	up := New(WithInviteTimeout(200 * time.Millisecond))

	_, err := up.Invite(context.Background(), "127.0.0.1", responder.port, testRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var perr *protocol.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *protocol.ProtocolError", err)
	}

	if perr.Reply != "ERR: not enough space" {
		t.Errorf("Reply = %q, want raw rejection text", perr.Reply)
	}
}

func TestInviteTimeoutAfterAllAttempts(t *testing.T) {
	responder := newUDPResponder(t, func(count int, data []byte) []byte {
		return nil // never reply
	})

	up := New(
		WithInviteTimeout(20*time.Millisecond),
		WithInviteAttempts(10),
	)

	_, err := up.Invite(context.Background(), "127.0.0.1", responder.port, testRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var terr *TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T, want *TimeoutError", err)
	}

	if terr.Attempts != 10 {
		t.Errorf("Attempts = %d, want 10", terr.Attempts)
	}

	if got := responder.datagrams(); got != 10 {
		t.Errorf("datagrams sent = %d, want 10", got)
	}
}

func TestInviteResolvesOnLaterAttempt(t *testing.T) {
	responder := newUDPResponder(t, func(count int, data []byte) []byte {
		if count < 3 {
			return nil
		}
		return []byte("OK")
	})

	up := New(
		WithInviteTimeout(50*time.Millisecond),
		WithInviteAttempts(10),
	)

	reply, err := up.Invite(context.Background(), "127.0.0.1", responder.port, testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Kind != protocol.ReplyOK {
		t.Errorf("Kind = %v, want ReplyOK", reply.Kind)
	}

	if got := responder.datagrams(); got != 3 {
		t.Errorf("datagrams sent = %d, want 3", got)
	}
}

func TestInviteContextCancelled(t *testing.T) {
	responder := newUDPResponder(t, func(count int, data []byte) []byte {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	up := New(WithInviteTimeout(20 * time.Millisecond))

	_, err := up.Invite(ctx, "127.0.0.1", responder.port, testRequest())
	if err == nil {
		t.Fatal("expected context cancellation error, got nil")
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
