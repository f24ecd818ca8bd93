package repository

import (
	"context"

	"github.com/danieloks/account-service/internal/domain/entity"
)

// VerificationTokenRepository persists email verification tokens.
// At most one live token per user: Replace drops any prior row for the
// owning user before inserting the new one.
type VerificationTokenRepository interface {
	Replace(ctx context.Context, t *entity.VerificationToken) error
	GetByDigest(ctx context.Context, digest string) (*entity.VerificationToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
