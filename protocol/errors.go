package protocol

import "fmt"

// ProtocolError represents a device message that falls outside the espota
// grammar: an invitation reply that is neither "OK" nor "AUTH <nonce>", or a
// per-chunk acknowledgment that is neither empty nor contains "OK".
// It carries the raw text so callers can surface what the device actually said.
type ProtocolError struct {
	// Reply is the raw text received from the device
	Reply string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected device reply: %q", e.Reply)
}

// IsProtocolError returns true if the error is a ProtocolError.
func IsProtocolError(err error) bool {
	_, ok := err.(*ProtocolError)
	return ok
}
