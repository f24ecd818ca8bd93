package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danieloks/account-service/internal/domain/entity"
	repo "github.com/danieloks/account-service/internal/domain/repository"
	"github.com/danieloks/account-service/pkg/helpers"
	"github.com/danieloks/account-service/pkg/mailer"
	"github.com/danieloks/account-service/pkg/mailer/templates"
)

type fakeTokenRepo struct {
	mu     sync.Mutex
	byUser map[string]*entity.VerificationToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byUser: map[string]*entity.VerificationToken{}}
}

func (f *fakeTokenRepo) Replace(_ context.Context, t *entity.VerificationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *t
	f.byUser[t.UserID] = &c
	return nil
}

func (f *fakeTokenRepo) GetByDigest(_ context.Context, digest string) (*entity.VerificationToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byUser {
		if t.TokenHash == digest && !t.Expired(time.Now()) {
			c := *t
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeTokenRepo) DeleteByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byUser, userID)
	return nil
}

var _ repo.VerificationTokenRepository = (*fakeTokenRepo)(nil)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		f.jobs = append(f.jobs, job)
	}
	return nil
}

func newVerificationFixture(t *testing.T, pub EmailPublisher) (*VerificationService, *fakeUserRepo, *entity.User) {
	t.Helper()
	users := newFakeUserRepo()
	u := &entity.User{Email: "a@x.com", Password: "hash", Name: "A", Role: entity.RoleUser}
	require.NoError(t, users.Create(context.Background(), u))

	svc := NewVerificationService(users, newFakeTokenRepo(), pub, nil, nil, quietLogger(), VerificationConfig{
		TokenTTL:       24 * time.Hour,
		VerifyEmailURL: "https://app.example.com/verify",
		CompanyName:    "Example",
		SupportURL:     "https://example.com/support",
		MailEnabled:    true,
	})
	return svc, users, u
}

func TestVerification_IssueAndConsume(t *testing.T) {
	t.Parallel()

	svc, users, u := newVerificationFixture(t, nil)
	raw, err := svc.Issue(context.Background(), u.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 128)

	// only the digest is stored
	tok, err := svc.Tokens.GetByDigest(context.Background(), helpers.HashToken(raw))
	require.NoError(t, err)
	require.NotEqual(t, raw, tok.TokenHash)

	id, err := svc.Consume(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, u.ID, id)

	got, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, got.IsVerified)
}

func TestVerification_ConsumeIsOneShot(t *testing.T) {
	t.Parallel()

	svc, _, u := newVerificationFixture(t, nil)
	raw, err := svc.Issue(context.Background(), u.ID)
	require.NoError(t, err)

	_, err = svc.Consume(context.Background(), raw)
	require.NoError(t, err)

	_, err = svc.Consume(context.Background(), raw)
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerification_SecondIssueInvalidatesFirst(t *testing.T) {
	t.Parallel()

	svc, _, u := newVerificationFixture(t, nil)
	first, err := svc.Issue(context.Background(), u.ID)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = svc.Consume(context.Background(), first)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.Consume(context.Background(), second)
	require.NoError(t, err)
}

func TestVerification_UnknownAndExpiredTokens(t *testing.T) {
	t.Parallel()

	svc, _, u := newVerificationFixture(t, nil)

	_, err := svc.Consume(context.Background(), "not-a-real-token")
	require.ErrorIs(t, err, ErrTokenInvalid)

	// plant an already expired row
	raw, err := helpers.GenerateVerificationToken(u.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Tokens.Replace(context.Background(), &entity.VerificationToken{
		UserID:    u.ID,
		TokenHash: helpers.HashToken(raw),
		CreatedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}))
	_, err = svc.Consume(context.Background(), raw)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerification_Request(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc, _, u := newVerificationFixture(t, pub)

	link, err := svc.Request(context.Background(), u.ID)
	require.NoError(t, err)
	require.Contains(t, link, svc.Cfg.VerifyEmailURL+"?token=")

	require.Len(t, pub.jobs, 1)
	require.Equal(t, u.Email, pub.jobs[0].To)
	require.Equal(t, templates.VerifyEmail, pub.jobs[0].Template)

	// the link carries a consumable raw token
	raw := link[len(svc.Cfg.VerifyEmailURL+"?token="):]
	_, err = svc.Consume(context.Background(), raw)
	require.NoError(t, err)

	// verification enqueues the welcome email
	require.Len(t, pub.jobs, 2)
	require.Equal(t, templates.Welcome, pub.jobs[1].Template)

	// a verified user cannot request another
	_, err = svc.Request(context.Background(), u.ID)
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerification_RequestUnknownUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newVerificationFixture(t, &fakePublisher{})
	_, err := svc.Request(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerification_RequestPublishFailureKeepsToken(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _, u := newVerificationFixture(t, pub)

	_, err := svc.Request(context.Background(), u.ID)
	require.ErrorIs(t, err, ErrEmailDelivery)

	// the token row written before the enqueue is still live
	tokens := svc.Tokens.(*fakeTokenRepo)
	tokens.mu.Lock()
	stored, ok := tokens.byUser[u.ID]
	tokens.mu.Unlock()
	require.True(t, ok)
	require.False(t, stored.Expired(time.Now()))
}
