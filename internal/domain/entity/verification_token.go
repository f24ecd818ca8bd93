package entity

import "time"

// VerificationToken is the stored form of a single-use email verification
// token. Only the sha256 digest of the raw token is ever persisted; the raw
// value travels to the user by email and comes back on the verification link.
type VerificationToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *VerificationToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
