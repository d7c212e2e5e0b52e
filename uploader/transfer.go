package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/ismail-ozturk/go-espota/firmware"
	"github.com/ismail-ozturk/go-espota/protocol"
)

// serveTransfer runs the TCP half of the upload: bind a listener on
// localPort, accept exactly one inbound connection from the device, then
// stream the payload in acknowledgment-gated chunks.
//
// The loop keeps a strict one-in-flight handshake: write a chunk, block for
// one acknowledgment, only then write the next. The transfer watchdog is an
// absolute deadline set at listener start; it bounds the accept and every
// read and write, superseding the chunk loop's own state. Listener and
// connection are closed on every exit path.
//
// Returns the number of acknowledged payload bytes.
func (u *Uploader) serveTransfer(ctx context.Context, localPort int, img *firmware.Image, started time.Time) (int, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", localPort))
	if err != nil {
		return 0, &TransportError{Op: "bind transfer listener", Err: err}
	}
	defer func() { _ = ln.Close() }()

	deadline := time.Now().Add(u.config.TransferTimeout)
	if tl, ok := ln.(*net.TCPListener); ok {
		_ = tl.SetDeadline(deadline)
	}

	// Force-close the listener if the caller gives up while we block in
	// Accept.
	stopListener := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stopListener()

	conn, err := ln.Accept()
	if err != nil {
		return 0, u.classifyTransferError(ctx, "accept device connection", err)
	}
	defer func() { _ = conn.Close() }()

	// Exactly one connection per session: close the listener so any further
	// inbound attempts are refused.
	_ = ln.Close()

	stopConn := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stopConn()

	if err := conn.SetDeadline(deadline); err != nil {
		return 0, &TransportError{Op: "arm transfer watchdog", Err: err}
	}

	u.logDebug("device connected", "remote", conn.RemoteAddr().String())

	data := img.Bytes()
	total := img.Size()
	sent := 0
	ack := make([]byte, protocol.MaxAckSize)

	for sent < total {
		if err := ctx.Err(); err != nil {
			return sent, fmt.Errorf("cancelled: %w", err)
		}

		end := sent + u.config.ChunkSize
		if end > total {
			end = total
		}

		if _, err := conn.Write(data[sent:end]); err != nil {
			return sent, u.classifyTransferError(ctx, "write chunk", err)
		}

		n, err := conn.Read(ack)
		if err != nil && !(errors.Is(err, io.EOF) && n == 0) {
			return sent, u.classifyTransferError(ctx, "await chunk acknowledgment", err)
		}

		if !protocol.IsPositiveAck(ack[:n]) {
			return sent, &protocol.ProtocolError{Reply: strings.TrimSpace(string(ack[:n]))}
		}

		sent = end

		u.reportProgress(Progress{
			Phase:      PhaseTransferring,
			Fraction:   float64(sent) / float64(total),
			BytesSent:  sent,
			TotalBytes: total,
			Elapsed:    time.Since(started),
		})

		if u.config.ChunkDelay > 0 && sent < total {
			time.Sleep(u.config.ChunkDelay)
		}
	}

	return sent, nil
}

// classifyTransferError maps a socket error from the TCP session to the
// error taxonomy: caller cancellation first, then watchdog expiry, then
// plain transport failure.
func (u *Uploader) classifyTransferError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("cancelled: %w", ctxErr)
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &TimeoutError{Phase: "transfer"}
	}

	return &TransportError{Op: op, Err: err}
}
