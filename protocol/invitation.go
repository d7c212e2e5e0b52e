package protocol

import (
	"fmt"
	"strings"
)

// BuildInvitation constructs the UDP invitation datagram announcing an
// incoming transfer.
//
// Wire format (single ASCII line):
//
//	"<command> <localPort> <size> <digestHex>\n"
//
// localPort is the TCP port the device should connect back to, size is the
// payload length in bytes and digestHex the hex-encoded content digest.
func BuildInvitation(cmd Command, localPort int, size int, digestHex string) []byte {
	return []byte(fmt.Sprintf("%d %d %d %s\n", int(cmd), localPort, size, digestHex))
}

// BuildAuthResponse constructs the authentication datagram answering an
// "AUTH <nonce>" reply.
//
// Wire format (single ASCII line):
//
//	"200 <cnonce> <response>\n"
//
// cnonce is a client-chosen nonce and response the challenge digest computed
// by ChallengeResponse.
func BuildAuthResponse(cnonce, response string) []byte {
	return []byte(fmt.Sprintf("%d %s %s\n", int(CmdAuth), cnonce, response))
}

// Reply is a classified invitation reply.
type Reply struct {
	// Kind is the reply classification
	Kind ReplyKind

	// Nonce is the authentication nonce; set only when Kind is ReplyAuth
	Nonce string
}

// ParseReply classifies an invitation reply datagram.
//
// Grammar:
//   - exact text "OK" (after trimming whitespace) is an acceptance
//   - text beginning with "AUTH " demands authentication; the second token
//     is the nonce
//   - anything else is outside the grammar and returns a ProtocolError
//     carrying the raw text
func ParseReply(data []byte) (Reply, error) {
	text := strings.TrimSpace(string(data))

	if text == ReplyOKText {
		return Reply{Kind: ReplyOK}, nil
	}

	if strings.HasPrefix(text, ReplyAuthPrefix+" ") {
		fields := strings.Fields(text)
		if len(fields) < 2 || fields[1] == "" {
			return Reply{}, &ProtocolError{Reply: text}
		}
		return Reply{Kind: ReplyAuth, Nonce: fields[1]}, nil
	}

	return Reply{}, &ProtocolError{Reply: text}
}

// IsPositiveAck reports whether a per-chunk TCP acknowledgment allows the
// transfer to continue. An acknowledgment is positive when it is empty or
// contains the substring "OK"; any other content must abort the transfer.
func IsPositiveAck(data []byte) bool {
	return len(data) == 0 || strings.Contains(string(data), ReplyOKText)
}
