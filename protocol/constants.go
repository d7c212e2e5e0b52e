package protocol

// Command identifies the kind of payload announced by an invitation.
type Command int

// Command codes per the espota scheme.
const (
	// CmdFlash announces an application firmware image
	CmdFlash Command = 0

	// CmdSpiffs announces a filesystem (SPIFFS/LittleFS) image
	CmdSpiffs Command = 100

	// CmdAuth carries the authentication challenge response
	CmdAuth Command = 200
)

// String returns the human-readable command name.
func (c Command) String() string {
	switch c {
	case CmdFlash:
		return "flash"
	case CmdSpiffs:
		return "spiffs"
	case CmdAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Reply grammar markers.
const (
	// ReplyOKText is the exact invitation acceptance reply
	ReplyOKText = "OK"

	// ReplyAuthPrefix marks a reply demanding authentication;
	// the nonce follows as the second whitespace-separated token
	ReplyAuthPrefix = "AUTH"
)

// ReplyKind classifies a valid invitation reply.
type ReplyKind int

const (
	// ReplyOK means the device accepted the invitation
	ReplyOK ReplyKind = iota

	// ReplyAuth means the device demands a challenge-response before accepting
	ReplyAuth
)

// Wire sizing constants.
const (
	// MaxReplySize is the read buffer size for invitation replies.
	// Real devices answer with a handful of ASCII bytes.
	MaxReplySize = 128

	// MaxAckSize is the read buffer size for per-chunk acknowledgments
	MaxAckSize = 32
)
