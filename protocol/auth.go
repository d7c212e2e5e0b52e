package protocol

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// HashPassword returns the MD5 hex digest of the OTA password.
// This is the first stage of the espota challenge-response.
func HashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// NewCnonce generates a random client nonce for the challenge-response,
// encoded as an MD5-sized hex string the way device firmware expects it.
func NewCnonce() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate cnonce: %w", err)
	}
	sum := md5.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}

// ChallengeResponse computes the authentication digest answering a device
// nonce:
//
//	MD5("<passwordHash>:<nonce>:<cnonce>")
//
// passwordHash is the value returned by HashPassword. The result is sent via
// BuildAuthResponse together with the cnonce.
func ChallengeResponse(passwordHash, nonce, cnonce string) string {
	sum := md5.Sum([]byte(passwordHash + ":" + nonce + ":" + cnonce))
	return hex.EncodeToString(sum[:])
}
