package uploader

import (
	"time"

	"github.com/ismail-ozturk/go-espota/protocol"
)

// Config holds the uploader configuration.
type Config struct {
	// ProgressCallback is called as the upload advances (optional)
	ProgressCallback ProgressCallback

	// Logger is used for diagnostic logging (optional)
	Logger Logger

	// Command is the payload kind announced in the invitation
	Command protocol.Command

	// Password is the OTA password used when the device demands
	// authentication. Empty means authentication is not available.
	Password string

	// ChunkSize is the payload size per TCP write
	ChunkSize int

	// ChunkDelay is the pause after each acknowledged chunk, giving
	// constrained receivers time to flush to flash
	ChunkDelay time.Duration

	// InviteTimeout is the reply wait per invitation attempt
	InviteTimeout time.Duration

	// InviteAttempts is the number of invitation datagrams sent before
	// giving up
	InviteAttempts int

	// AuthTimeout is the reply wait for the authentication exchange
	AuthTimeout time.Duration

	// TransferTimeout is the watchdog bounding the whole TCP session,
	// measured from listener start
	TransferTimeout time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Command:         protocol.CmdFlash,
		ChunkSize:       1024,
		ChunkDelay:      10 * time.Millisecond,
		InviteTimeout:   time.Second,
		InviteAttempts:  10,
		AuthTimeout:     10 * time.Second,
		TransferTimeout: 60 * time.Second,
	}
}

// Option is a functional option for configuring the Uploader.
type Option func(*Config)

// WithProgressCallback sets a callback function to track upload progress.
//
// Example:
//
//	up := uploader.New(
//	    uploader.WithProgressCallback(func(p uploader.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Fraction*100)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the uploader operations.
//
// Example:
//
//	up := uploader.New(uploader.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithCommand sets the payload kind announced in the invitation.
// Default is protocol.CmdFlash; use protocol.CmdSpiffs for filesystem images.
//
// Example:
//
//	up := uploader.New(uploader.WithCommand(protocol.CmdSpiffs))
func WithCommand(cmd protocol.Command) Option {
	return func(c *Config) {
		c.Command = cmd
	}
}

// WithPassword sets the OTA password used to answer an authentication
// challenge. Without a password, uploads to password-protected devices fail
// with an AuthError.
func WithPassword(password string) Option {
	return func(c *Config) {
		c.Password = password
	}
}

// WithChunkSize sets the payload size per TCP write. Default is 1024 bytes,
// matching the buffer the device firmware acknowledges.
//
// Example:
//
//	up := uploader.New(uploader.WithChunkSize(512))
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.ChunkSize = size
		}
	}
}

// WithChunkDelay sets the pause after each acknowledged chunk.
// Default is 10ms.
func WithChunkDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.ChunkDelay = delay
		}
	}
}

// WithInviteTimeout sets the reply wait per invitation attempt.
// Default is 1s.
func WithInviteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.InviteTimeout = timeout
		}
	}
}

// WithInviteAttempts sets the number of invitation attempts.
// Default is 10.
func WithInviteAttempts(attempts int) Option {
	return func(c *Config) {
		if attempts > 0 {
			c.InviteAttempts = attempts
		}
	}
}

// WithAuthTimeout sets the reply wait for the authentication exchange.
// Default is 10s.
func WithAuthTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.AuthTimeout = timeout
		}
	}
}

// WithTransferTimeout sets the watchdog bounding the whole TCP session.
// Default is 60s.
func WithTransferTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.TransferTimeout = timeout
		}
	}
}
