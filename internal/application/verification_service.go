package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/danieloks/account-service/internal/domain/entity"
	repo "github.com/danieloks/account-service/internal/domain/repository"
	"github.com/danieloks/account-service/pkg/helpers"
	"github.com/danieloks/account-service/pkg/mailer"
	tpl "github.com/danieloks/account-service/pkg/mailer/templates"
)

// EmailPublisher enqueues email jobs for the worker to deliver.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// SearchIndexer refreshes a user's document in the search index.
type SearchIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
}

// VerificationConfig carries the settings the verification flow needs;
// injected at construction so the service never reads ambient state.
type VerificationConfig struct {
	TokenTTL       time.Duration
	VerifyEmailURL string
	CompanyName    string
	SupportURL     string
	MailEnabled    bool
}

// VerificationService owns the email verification tokens: issuing, hashing,
// expiring and consuming them.
type VerificationService struct {
	Users  repo.UserRepository
	Tokens repo.VerificationTokenRepository
	Pub    EmailPublisher
	Index  SearchIndexer
	Redis  *redis.Client
	Logger *logrus.Logger
	Cfg    VerificationConfig
}

func NewVerificationService(users repo.UserRepository, tokens repo.VerificationTokenRepository, pub EmailPublisher, index SearchIndexer, rdb *redis.Client, logger *logrus.Logger, cfg VerificationConfig) *VerificationService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &VerificationService{Users: users, Tokens: tokens, Pub: pub, Index: index, Redis: rdb, Logger: logger, Cfg: cfg}
}

// Issue generates a fresh raw token for the user, stores only its digest and
// returns the raw value for out-of-band delivery. Any prior live token for
// the user stops resolving.
func (s *VerificationService) Issue(ctx context.Context, userID string) (string, error) {
	raw, err := helpers.GenerateVerificationToken(userID)
	if err != nil {
		return "", err
	}
	now := time.Now()
	t := &entity.VerificationToken{
		UserID:    userID,
		TokenHash: helpers.HashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(s.Cfg.TokenTTL),
	}
	if err := s.Tokens.Replace(ctx, t); err != nil {
		return "", err
	}
	return raw, nil
}

// Consume validates a raw token and marks its owner verified. The token is a
// one-shot capability: once the owner is verified, presenting it again is a
// client error, not a success.
func (s *VerificationService) Consume(ctx context.Context, raw string) (string, error) {
	t, err := s.Tokens.GetByDigest(ctx, helpers.HashToken(raw))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	u, err := s.Users.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	if u.IsVerified {
		return "", ErrAlreadyVerified
	}
	if err := s.Users.SetVerified(ctx, u.ID); err != nil {
		return "", err
	}
	u.IsVerified = true
	if s.Index != nil {
		_ = s.Index.IndexUser(ctx, u)
	}
	if s.Redis != nil {
		if err := helpers.RedisDel(ctx, s.Redis, profileKey(u.ID)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache invalidation failed")
		}
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("email verified")
	}
	// Welcome email is best effort; the verification itself already succeeded.
	if s.Pub != nil && s.Cfg.MailEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: tpl.Welcome,
			Data:     tpl.WelcomeData(u.Name, u.Email, s.Cfg.CompanyName, s.Cfg.SupportURL),
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
		}
	}
	return u.ID, nil
}

// Request issues a token for an unverified user and enqueues the
// verification email. The token row is written before the enqueue and stays
// in place even when delivery fails, so a retried request keeps working.
func (s *VerificationService) Request(ctx context.Context, userID string) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if u.IsVerified {
		return "", ErrAlreadyVerified
	}
	raw, err := s.Issue(ctx, u.ID)
	if err != nil {
		return "", err
	}
	link := s.Cfg.VerifyEmailURL + "?token=" + raw

	if s.Pub != nil && s.Cfg.MailEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: tpl.VerifyEmail,
			Data:     tpl.VerifyEmailData(u.Name, u.Email, link, s.Cfg.CompanyName, s.Cfg.SupportURL, time.Now().Add(s.Cfg.TokenTTL)),
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", u.ID).Error("verification email enqueue failed")
			}
			return "", ErrEmailDelivery
		}
	}
	return link, nil
}
