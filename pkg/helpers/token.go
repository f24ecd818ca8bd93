package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateVerificationToken produces the raw email verification token: 64
// random bytes hex-encoded, suffixed with the owning user id so the value is
// globally unique even under an entropy collision. The raw token is mailed to
// the user and never persisted.
func GenerateVerificationToken(userID string) (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b) + userID, nil
}

// HashToken computes the deterministic sha256 digest of a raw token. The
// digest is what gets stored, so the raw value can be looked up later without
// the stored form ever being replayable as a capability.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
