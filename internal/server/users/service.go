package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/cryptox"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/auth"
	"github.com/dmitrijs2005/gophwallet/internal/server/config"
	"github.com/dmitrijs2005/gophwallet/internal/server/refreshtokens"
)

const minPasswordLength = 8

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Register creates an unverified account and issues an email verification
// code. There is no mail delivery in development: the code is logged.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: malformed email", common.ErrorInvalidArgument)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", common.ErrorInvalidArgument, minPasswordLength)
	}

	code, err := common.MakeDigitCode(common.VerificationCodeLength)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     cryptox.HashSecret([]byte(password)),
		VerificationCode: code,
		OnboardingStatus: OnboardingPending,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "verification code issued", "email", user.Email, "code", code)
	return user, nil
}

// VerifyEmail confirms the account with the emailed code and opens a session.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (*User, *TokenPair, error) {
	user, err := s.getByEmail(ctx, email, common.ErrorNotFound)
	if err != nil {
		return nil, nil, err
	}
	if user.Verified {
		return nil, nil, common.ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(user.VerificationCode), []byte(code)) != 1 {
		return nil, nil, common.ErrInvalidCode
	}

	user.Verified = true
	user.VerificationCode = ""
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error(ctx, "update user failed", "error", err)
		return nil, nil, common.ErrorInternal
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	user, err := s.getByEmail(ctx, email, common.ErrorUnauthorized)
	if err != nil {
		return nil, nil, err
	}
	if !s.checkSecret(ctx, user.PasswordHash, password) {
		return nil, nil, common.ErrorUnauthorized
	}
	if !user.Verified {
		return nil, nil, common.ErrEmailNotVerified
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// LoginWithPasscode opens a session for a returning user who has set a passcode.
func (s *Service) LoginWithPasscode(ctx context.Context, email, passcode string) (*User, *TokenPair, error) {
	user, err := s.getByEmail(ctx, email, common.ErrorUnauthorized)
	if err != nil {
		return nil, nil, err
	}
	if !user.HasPasscode() {
		return nil, nil, common.ErrNoPasscode
	}
	if !s.checkSecret(ctx, user.PasscodeHash, passcode) {
		return nil, nil, common.ErrorUnauthorized
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed whether or not it is still valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	rt, err := s.refreshTokenRepo.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "get refresh token failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		s.logger.Error(ctx, "delete refresh token failed", "error", err)
		return nil, common.ErrorInternal
	}
	if rt.Expired(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.GetProfile(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "get user failed", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// SetPasscode stores a new six-digit passcode for the user.
func (s *Service) SetPasscode(ctx context.Context, userID, passcode string) (*User, error) {
	if !common.IsDigits(passcode, common.PasscodeLength) {
		return nil, fmt.Errorf("%w: passcode must be %d digits", common.ErrorInvalidArgument, common.PasscodeLength)
	}
	return s.update(ctx, userID, func(u *User) {
		u.PasscodeHash = cryptox.HashSecret([]byte(passcode))
	})
}

func (s *Service) UpdateOnboarding(ctx context.Context, userID, status string) (*User, error) {
	if !onboardingStatuses[status] {
		return nil, fmt.Errorf("%w: unknown onboarding status %q", common.ErrorInvalidArgument, status)
	}
	return s.update(ctx, userID, func(u *User) {
		u.OnboardingStatus = status
	})
}

func (s *Service) update(ctx context.Context, userID string, fn func(*User)) (*User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(user)
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "update user failed", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *Service) getByEmail(ctx context.Context, email string, notFound error) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, notFound
		}
		s.logger.Error(ctx, "get user failed", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *Service) checkSecret(ctx context.Context, encoded, candidate string) bool {
	ok, err := cryptox.VerifySecret(encoded, []byte(candidate))
	if err != nil {
		s.logger.Error(ctx, "stored hash unreadable", "error", err)
		return false
	}
	return ok
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	err = s.refreshTokenRepo.Create(ctx, &refreshtokens.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.refreshTokenValidityDuration),
	})
	if err != nil {
		s.logger.Error(ctx, "store refresh token failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
