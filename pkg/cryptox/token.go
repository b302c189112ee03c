package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// InviteTokenLength is the length in hex characters of generated invite
// tokens. Each character carries 4 bits, so 48 characters is 192 bits of
// entropy. The raw token is the sole capability for completing an invite,
// so it must stay unguessable.
const InviteTokenLength = 48

// GenerateInviteToken creates a cryptographically secure random token
// rendered as lowercase hex of the given length.
func GenerateInviteToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}

	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf)[:length], nil
}

// MustGenerateInviteToken is like GenerateInviteToken but panics on error.
// Use only in contexts where failure is unrecoverable (the crypto/rand
// source failing means the host is broken).
func MustGenerateInviteToken(length int) string {
	token, err := GenerateInviteToken(length)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}
