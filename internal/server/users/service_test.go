package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/auth"
	"github.com/dmitrijs2005/gophwallet/internal/server/config"
	"github.com/dmitrijs2005/gophwallet/internal/server/refreshtokens"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "correct horse"
)

func newTestService(t *testing.T) (*Service, *MemoryRepository, *refreshtokens.MemoryRepository) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	repo := NewMemoryRepository()
	tokens := refreshtokens.NewMemoryRepository()
	return NewService(repo, tokens, cfg, logging.NopLogger{}), repo, tokens
}

func registerVerified(t *testing.T, s *Service, repo *MemoryRepository) (*User, *TokenPair) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	stored, err := repo.GetByEmail(ctx, testEmail)
	require.NoError(t, err)

	u, tokens, err := s.VerifyEmail(ctx, testEmail, stored.VerificationCode)
	require.NoError(t, err)
	return u, tokens
}

func TestRegister(t *testing.T) {
	s, repo, _ := newTestService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.Verified)
	assert.Equal(t, OnboardingPending, u.OnboardingStatus)
	assert.True(t, common.IsDigits(u.VerificationCode, common.VerificationCodeLength))
	assert.NotContains(t, u.PasswordHash, testPassword)

	_, err = s.Register(ctx, "ALICE@example.com", testPassword)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = s.Register(ctx, "not an email", testPassword)
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	_, err = s.Register(ctx, "bob@example.com", "short")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	stored, err := repo.GetByEmail(ctx, testEmail)
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestVerifyEmail(t *testing.T) {
	s, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	_, _, err = s.VerifyEmail(ctx, testEmail, "000000x")
	assert.ErrorIs(t, err, common.ErrInvalidCode)

	_, _, err = s.VerifyEmail(ctx, "ghost@example.com", "123456")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	stored, err := repo.GetByEmail(ctx, testEmail)
	require.NoError(t, err)

	u, tokens, err := s.VerifyEmail(ctx, testEmail, stored.VerificationCode)
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.Empty(t, u.VerificationCode)

	uid, err := auth.GetUserIDFromToken(tokens.AccessToken, s.jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	_, _, err = s.VerifyEmail(ctx, testEmail, stored.VerificationCode)
	assert.ErrorIs(t, err, common.ErrInvalidCode)
}

func TestLogin(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	_, _, err = s.Login(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, common.ErrEmailNotVerified)

	s2, repo2, _ := newTestService(t)
	registerVerified(t, s2, repo2)

	_, _, err = s2.Login(ctx, testEmail, "wrong password")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, _, err = s2.Login(ctx, "ghost@example.com", testPassword)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	u, tokens, err := s2.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Equal(t, testEmail, u.Email)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestPasscode(t *testing.T) {
	s, repo, _ := newTestService(t)
	ctx := context.Background()
	u, _ := registerVerified(t, s, repo)

	_, _, err := s.LoginWithPasscode(ctx, testEmail, "123456")
	assert.ErrorIs(t, err, common.ErrNoPasscode)

	_, err = s.SetPasscode(ctx, u.ID, "12345")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)
	_, err = s.SetPasscode(ctx, u.ID, "12a456")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	updated, err := s.SetPasscode(ctx, u.ID, "246810")
	require.NoError(t, err)
	assert.True(t, updated.HasPasscode())

	_, _, err = s.LoginWithPasscode(ctx, testEmail, "111111")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	got, tokens, err := s.LoginWithPasscode(ctx, testEmail, "246810")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestUpdateOnboarding(t *testing.T) {
	s, repo, _ := newTestService(t)
	ctx := context.Background()
	u, _ := registerVerified(t, s, repo)

	got, err := s.UpdateOnboarding(ctx, u.ID, OnboardingKYCPending)
	require.NoError(t, err)
	assert.Equal(t, OnboardingKYCPending, got.OnboardingStatus)

	_, err = s.UpdateOnboarding(ctx, u.ID, "done")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	_, err = s.UpdateOnboarding(ctx, "missing", OnboardingCompleted)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	profile, err := s.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, OnboardingKYCPending, profile.OnboardingStatus)
}

func TestRefresh_RotatesToken(t *testing.T) {
	s, repo, tokens := newTestService(t)
	ctx := context.Background()
	_, pair := registerVerified(t, s, repo)

	next, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = tokens.Get(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefresh_Expired(t *testing.T) {
	s, repo, _ := newTestService(t)
	ctx := context.Background()
	_, pair := registerVerified(t, s, repo)

	s.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	_, err := s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}
