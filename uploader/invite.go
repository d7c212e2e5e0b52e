package uploader

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ismail-ozturk/go-espota/protocol"
)

// InvitationRequest describes one invitation. It is built fresh per upload
// attempt and never mutated.
type InvitationRequest struct {
	// Command is the payload kind being announced
	Command protocol.Command

	// LocalPort is the TCP port the device should connect back to
	LocalPort int

	// Size is the payload length in bytes
	Size int

	// Digest is the hex-encoded payload content digest
	Digest string
}

// Invite sends the UDP invitation and waits for the device's answer.
//
// Each attempt sends the invitation datagram and waits up to the configured
// per-attempt timeout before re-sending; the first reply resolves the call.
// The UDP socket is opened at entry and closed on every exit path, so a reply
// arriving after resolution is never observed.
//
// Silence across all attempts returns a TimeoutError. A reply outside the
// grammar returns a protocol.ProtocolError carrying the raw text.
func (u *Uploader) Invite(ctx context.Context, host string, port int, req InvitationRequest) (protocol.Reply, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return protocol.Reply{}, &TransportError{Op: "dial device", Err: err}
	}
	defer func() { _ = conn.Close() }()

	datagram := protocol.BuildInvitation(req.Command, req.LocalPort, req.Size, req.Digest)
	buf := make([]byte, protocol.MaxReplySize)

	for attempt := 1; attempt <= u.config.InviteAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return protocol.Reply{}, fmt.Errorf("cancelled: %w", err)
		}

		if _, err := conn.Write(datagram); err != nil {
			return protocol.Reply{}, &TransportError{Op: "send invitation", Err: err}
		}

		if err := conn.SetReadDeadline(time.Now().Add(u.config.InviteTimeout)); err != nil {
			return protocol.Reply{}, &TransportError{Op: "arm invitation deadline", Err: err}
		}

		n, err := conn.Read(buf)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				u.logDebug("invitation attempt timed out",
					"attempt", attempt,
					"of", u.config.InviteAttempts,
				)
				continue
			}
			return protocol.Reply{}, &TransportError{Op: "await invitation reply", Err: err}
		}

		u.logDebug("invitation reply received",
			"attempt", attempt,
			"reply", strings.TrimSpace(string(buf[:n])),
		)

		return protocol.ParseReply(buf[:n])
	}

	return protocol.Reply{}, &TimeoutError{Phase: "invite", Attempts: u.config.InviteAttempts}
}

// authenticate answers an "AUTH <nonce>" reply with the espota
// challenge-response and waits for the device's verdict.
func (u *Uploader) authenticate(ctx context.Context, host string, port int, nonce string) error {
	if u.config.Password == "" {
		return &AuthError{Reason: "device requires a password and none was configured"}
	}

	cnonce, err := protocol.NewCnonce()
	if err != nil {
		return &AuthError{Reason: err.Error()}
	}

	response := protocol.ChallengeResponse(protocol.HashPassword(u.config.Password), nonce, cnonce)

	conn, err := net.Dial("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return &TransportError{Op: "dial device", Err: err}
	}
	defer func() { _ = conn.Close() }()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	if _, err := conn.Write(protocol.BuildAuthResponse(cnonce, response)); err != nil {
		return &TransportError{Op: "send auth response", Err: err}
	}

	if err := conn.SetReadDeadline(time.Now().Add(u.config.AuthTimeout)); err != nil {
		return &TransportError{Op: "arm auth deadline", Err: err}
	}

	buf := make([]byte, protocol.MaxReplySize)
	n, err := conn.Read(buf)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return &TimeoutError{Phase: "auth", Attempts: 1}
		}
		return &TransportError{Op: "await auth verdict", Err: err}
	}

	reply, err := protocol.ParseReply(buf[:n])
	if err != nil {
		var perr *protocol.ProtocolError
		if errors.As(err, &perr) {
			return &AuthError{Reason: "device rejected credentials: " + perr.Reply}
		}
		return err
	}

	if reply.Kind != protocol.ReplyOK {
		return &AuthError{Reason: "device demanded authentication again"}
	}

	return nil
}
