package uploader

import (
	"fmt"
)

// TimeoutError indicates that a phase ran out of time: the device never
// answered the invitation, the authentication exchange, or the transfer
// watchdog expired.
type TimeoutError struct {
	// Phase is the phase that timed out ("invite", "auth" or "transfer")
	Phase string

	// Attempts is the number of datagrams sent before giving up
	// (invitation and auth phases only)
	Attempts int
}

func (e *TimeoutError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s timed out: no reply after %d attempts", e.Phase, e.Attempts)
	}
	return fmt.Sprintf("%s timed out", e.Phase)
}

// Timeout reports true so the error satisfies the net.Error timeout
// convention.
func (e *TimeoutError) Timeout() bool { return true }

// TransportError indicates a socket-level failure: dial, bind, write or read
// failed for a reason other than the protocol or a timeout.
type TransportError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError indicates that the device demanded authentication and the
// exchange could not be completed: no password was configured, or the device
// rejected the challenge response.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}
