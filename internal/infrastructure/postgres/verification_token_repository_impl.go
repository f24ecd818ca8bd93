package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danieloks/account-service/internal/domain/entity"
	"github.com/danieloks/account-service/internal/domain/repository"
)

type VerificationTokenRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationTokenRepository(pool *pgxpool.Pool) *VerificationTokenRepository {
	return &VerificationTokenRepository{pool: pool}
}

// Replace removes any existing token for the owning user and inserts the new
// one. The delete-then-insert pair runs in a transaction so a reader never
// sees two live tokens for one user.
func (r *VerificationTokenRepository) Replace(ctx context.Context, t *entity.VerificationToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM verification_tokens WHERE user_id = $1`, t.UserID); err != nil {
		return err
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO verification_tokens (user_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, t.UserID, t.TokenHash, t.CreatedAt, t.ExpiresAt)
	if err := row.Scan(&t.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByDigest looks up a token by its sha256 digest. Expired rows are not
// returned; the caller only ever sees live tokens.
func (r *VerificationTokenRepository) GetByDigest(ctx context.Context, digest string) (*entity.VerificationToken, error) {
	t := &entity.VerificationToken{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, created_at, expires_at
		FROM verification_tokens
		WHERE token_hash = $1 AND expires_at > now()
	`, digest)

	if err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *VerificationTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE user_id = $1`, userID)
	return err
}

var _ repository.VerificationTokenRepository = (*VerificationTokenRepository)(nil)
