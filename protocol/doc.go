// Package protocol implements the espota OTA wire grammar.
//
// The scheme is a two-phase exchange. Phase one is a UDP invitation: a single
// ASCII datagram announcing the payload to the device, answered by a short
// text reply. Phase two is a TCP stream of fixed-size chunks, each gated by a
// short text acknowledgment from the device.
//
// # Invitation
//
//	"<command> <localPort> <size> <digestHex>\n"
//
// Command codes are CmdFlash (0) for application images, CmdSpiffs (100) for
// filesystem images and CmdAuth (200) for the authentication response. Valid
// replies:
//
//	"OK"            invitation accepted
//	"AUTH <nonce>"  authentication required
//
// Anything else is outside the grammar and surfaces as a ProtocolError
// carrying the raw text:
//
//	reply, err := protocol.ParseReply(datagram)
//	if err != nil {
//	    var perr *protocol.ProtocolError
//	    if errors.As(err, &perr) {
//	        log.Printf("device said: %s", perr.Reply)
//	    }
//	}
//
// # Authentication
//
// When the device answers "AUTH <nonce>" the client proves knowledge of the
// OTA password with a digest exchange:
//
//	passHash := protocol.HashPassword(password)
//	cnonce, _ := protocol.NewCnonce()
//	response := protocol.ChallengeResponse(passHash, nonce, cnonce)
//	datagram := protocol.BuildAuthResponse(cnonce, response)
//
// The digests are MD5 because that is what the device firmware computes; they
// report integrity and prove password knowledge, they are not transport
// security.
//
// # Acknowledgments
//
// During the TCP phase the device answers every chunk. IsPositiveAck
// classifies the answer: empty or containing "OK" continues the transfer,
// anything else aborts it.
package protocol
