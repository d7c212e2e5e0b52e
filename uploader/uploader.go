package uploader

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ismail-ozturk/go-espota/firmware"
	"github.com/ismail-ozturk/go-espota/protocol"
)

// Ephemeral local port range announced to the device, matching the range the
// reference espota tooling picks from.
const (
	ephemeralPortMin = 10000
	ephemeralPortMax = 60000
)

// Connectivity probe sentinels: a size-zero invitation the device answers
// without starting a transfer.
const (
	probeLocalPort = 0
	probeDigest    = "test"
)

// Uploader pushes firmware images to espota-capable devices.
//
// An Uploader is a plain value holding only configuration; it keeps no state
// across calls. Construct one per upload (or reuse it for sequential
// uploads); concurrent uploads to the same device must be serialized by the
// caller.
type Uploader struct {
	config Config
}

// New creates a new Uploader with the given options.
//
// Example:
//
//	up := uploader.New(
//	    uploader.WithPassword("ota-secret"),
//	    uploader.WithProgressCallback(progressFunc),
//	)
func New(opts ...Option) *Uploader {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Uploader{config: cfg}
}

// Result describes a finished upload.
type Result struct {
	// BytesSent is the number of acknowledged payload bytes
	BytesSent int

	// Digest is the hex-encoded content digest announced to the device
	Digest string

	// Elapsed is the total upload duration
	Elapsed time.Duration

	// Message is a human-readable summary
	Message string
}

// Upload performs the complete OTA sequence against the device at host:port:
//  1. Announce the payload with a UDP invitation (bounded retry)
//  2. Complete the authentication challenge-response if the device demands it
//  3. Serve the payload over an ephemeral TCP session in acknowledged chunks
//
// The invitation completes fully before the transfer begins and a transfer
// failure never re-attempts the invitation. The operation can be cancelled
// via context.
//
// Example:
//
//	img, _ := firmware.Load("app.bin")
//	up := uploader.New()
//	res, err := up.Upload(context.Background(), "192.168.4.1", 8266, img)
func (u *Uploader) Upload(ctx context.Context, host string, port int, img *firmware.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("firmware image cannot be nil")
	}
	if host == "" {
		return nil, fmt.Errorf("target host cannot be empty")
	}

	started := time.Now()
	uploadID := uuid.NewString()

	// Size and digest are fixed at image load; the invitation announces
	// exactly what the transfer streams.
	size := img.Size()
	digest := img.Digest()
	localPort := ephemeralPort()

	u.logInfo("starting upload",
		"upload_id", uploadID,
		"target", host,
		"port", port,
		"command", u.config.Command.String(),
		"size", size,
		"digest", digest,
		"local_port", localPort,
	)

	u.reportProgress(Progress{
		Phase:      PhaseInviting,
		TotalBytes: size,
	})

	reply, err := u.Invite(ctx, host, port, InvitationRequest{
		Command:   u.config.Command,
		LocalPort: localPort,
		Size:      size,
		Digest:    digest,
	})
	if err != nil {
		u.logError("invitation failed", "upload_id", uploadID, "error", err.Error())
		return nil, fmt.Errorf("invite: %w", err)
	}

	if reply.Kind == protocol.ReplyAuth {
		u.logDebug("device demands authentication", "upload_id", uploadID, "nonce", reply.Nonce)

		u.reportProgress(Progress{
			Phase:      PhaseAuthenticating,
			TotalBytes: size,
			Elapsed:    time.Since(started),
		})

		if err := u.authenticate(ctx, host, port, reply.Nonce); err != nil {
			u.logError("authentication failed", "upload_id", uploadID, "error", err.Error())
			return nil, fmt.Errorf("authenticate: %w", err)
		}
	}

	u.reportProgress(Progress{
		Phase:      PhaseTransferring,
		TotalBytes: size,
		Elapsed:    time.Since(started),
	})

	sent, err := u.serveTransfer(ctx, localPort, img, started)
	if err != nil {
		u.logError("transfer failed",
			"upload_id", uploadID,
			"bytes_sent", sent,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("transfer: %w", err)
	}

	u.reportProgress(Progress{
		Phase:      PhaseComplete,
		Fraction:   1.0,
		BytesSent:  sent,
		TotalBytes: size,
		Elapsed:    time.Since(started),
	})

	u.logInfo("upload complete",
		"upload_id", uploadID,
		"bytes", sent,
		"elapsed", time.Since(started).String(),
	)

	return &Result{
		BytesSent: sent,
		Digest:    digest,
		Elapsed:   time.Since(started),
		Message:   fmt.Sprintf("transferred %d bytes to %s", sent, host),
	}, nil
}

// TestConnection answers "is the device reachable" by sending a sentinel
// invitation (size zero, digest "test") and classifying the reply. It returns
// true when the device accepts or demands authentication, false for any
// failure including timeout. It never returns an error to the caller.
func (u *Uploader) TestConnection(ctx context.Context, host string, port int) bool {
	_, err := u.Invite(ctx, host, port, InvitationRequest{
		Command:   protocol.CmdFlash,
		LocalPort: probeLocalPort,
		Size:      0,
		Digest:    probeDigest,
	})
	if err != nil {
		u.logDebug("connectivity probe failed", "target", host, "error", err.Error())
		return false
	}

	// Both acceptance and an auth demand prove the device is reachable.
	return true
}

// ephemeralPort picks a random local port for the transfer listener.
func ephemeralPort() int {
	return ephemeralPortMin + rand.Intn(ephemeralPortMax-ephemeralPortMin)
}

// reportProgress calls the progress callback if configured.
func (u *Uploader) reportProgress(progress Progress) {
	if u.config.ProgressCallback != nil {
		u.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (u *Uploader) logDebug(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (u *Uploader) logInfo(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (u *Uploader) logError(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Error(msg, keysAndValues...)
	}
}
