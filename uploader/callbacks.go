package uploader

import "time"

// Upload phases reported through the progress callback.
const (
	// PhaseInviting - sending the UDP invitation and waiting for the device
	PhaseInviting = "inviting"

	// PhaseAuthenticating - answering the device's authentication challenge
	PhaseAuthenticating = "authenticating"

	// PhaseTransferring - streaming firmware chunks over TCP
	PhaseTransferring = "transferring"

	// PhaseComplete - upload finished successfully
	PhaseComplete = "complete"
)

// Progress contains information about the upload progress.
// Passed to ProgressCallback as the upload advances.
type Progress struct {
	// Phase describes the current operation phase (see Phase* constants)
	Phase string

	// Fraction is the completed part of the transfer (0.0 to 1.0)
	Fraction float64

	// BytesSent is the number of payload bytes acknowledged so far
	BytesSent int

	// TotalBytes is the payload size in bytes
	TotalBytes int

	// Elapsed is the time elapsed since the upload started
	Elapsed time.Duration
}

// ProgressCallback is called after every acknowledged chunk and on phase
// changes. Implementations should return quickly to avoid stalling the
// transfer loop; the callback runs on the uploader's own goroutine.
//
// Example:
//
//	up := uploader.New(
//	    uploader.WithProgressCallback(func(p uploader.Progress) {
//	        fmt.Printf("[%s] %.0f%%\n", p.Phase, p.Fraction*100)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the
// uploader. This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	up := uploader.New(uploader.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
