// Package services contains the application services of the wallet client.
// This file defines the authentication service: registration and email
// verification, password and passcode login, passcode setup, profile
// refresh, onboarding progress and session teardown.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/store"
	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

var (
	ErrInvalidPasscode       = errors.New("passcode must be 6 digits")
	ErrPasscodeMismatch      = errors.New("passcodes do not match")
	ErrNoPendingPasscode     = errors.New("no passcode to confirm")
	ErrNoPendingVerification = errors.New("no email awaiting verification")
	ErrNoStoredUser          = errors.New("no stored account on this device")
)

// AuthService defines authentication operations for the shell.
//
// Every operation that talks to the backend records its outcome in the
// session store, which in turn drives the route guard.
type AuthService interface {
	// Restore loads the persisted session and primes the client with its tokens.
	Restore(ctx context.Context) error

	Register(ctx context.Context, email, password string) error
	VerifyEmail(ctx context.Context, code string) error
	Login(ctx context.Context, email, password string) error
	UnlockWithPasscode(ctx context.Context, passcode string) error

	// CreatePasscode remembers the first entry; ConfirmPasscode must repeat
	// it before the passcode is sent to the backend.
	CreatePasscode(ctx context.Context, passcode string) error
	ConfirmPasscode(ctx context.Context, passcode string) error

	RefreshProfile(ctx context.Context) error
	AdvanceOnboarding(ctx context.Context, status string) error

	// Lock drops the live session but keeps the cached user.
	Lock(ctx context.Context) error
	// Logout resets the session; wipe also forgets the welcome flag.
	Logout(ctx context.Context, wipe bool) error

	// Snapshot and Reset let the route guard use the service as its
	// session source. Reset signs out locally and drops the client's tokens.
	Snapshot() models.Session
	Reset(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}

type authService struct {
	client   client.Client
	sessions *store.SessionStore
	welcome  *store.WelcomeStore
	logger   logging.Logger

	mu              sync.Mutex
	pendingPasscode string
}

// NewAuthService binds the service to a backend client and the local stores.
// Tokens refreshed by the client are written back to the session.
func NewAuthService(c client.Client, sessions *store.SessionStore, welcome *store.WelcomeStore, logger logging.Logger) AuthService {
	a := &authService{
		client:   c,
		sessions: sessions,
		welcome:  welcome,
		logger:   logger.With("module", "auth_service"),
	}
	c.OnTokens(a.saveTokens)
	return a
}

// saveTokens persists a refreshed pair. A refresh that lands after Lock or
// Logout is discarded and the client is cleared again.
func (a *authService) saveTokens(access, refresh string) {
	ctx := context.Background()
	if a.sessions.Snapshot().RefreshToken == "" {
		a.logger.Debug(ctx, "dropping tokens refreshed for a closed session")
		a.client.SetTokens("", "")
		return
	}
	err := a.sessions.Update(ctx, func(s *models.Session) {
		if s.RefreshToken == "" {
			return
		}
		s.AccessToken = access
		s.RefreshToken = refresh
	})
	if err != nil {
		a.logger.Error(ctx, "save refreshed tokens", "error", err)
	}
}

func (a *authService) Restore(ctx context.Context) error {
	if err := a.sessions.Load(ctx); err != nil {
		return err
	}
	s := a.sessions.Snapshot()
	a.client.SetTokens(s.AccessToken, s.RefreshToken)
	return nil
}

func (a *authService) Register(ctx context.Context, email, password string) error {
	if err := a.client.Register(ctx, email, password); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	a.client.SetTokens("", "")
	return a.sessions.Update(ctx, func(s *models.Session) {
		*s = models.Session{PendingVerificationEmail: email}
	})
}

func (a *authService) VerifyEmail(ctx context.Context, code string) error {
	email := a.sessions.Snapshot().PendingVerificationEmail
	if email == "" {
		return ErrNoPendingVerification
	}
	res, err := a.client.VerifyEmail(ctx, email, code)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	return a.openSession(ctx, res)
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return a.openSession(ctx, res)
}

func (a *authService) UnlockWithPasscode(ctx context.Context, passcode string) error {
	if !common.IsDigits(passcode, common.PasscodeLength) {
		return ErrInvalidPasscode
	}
	u := a.sessions.Snapshot().User
	if u == nil {
		return ErrNoStoredUser
	}
	res, err := a.client.LoginWithPasscode(ctx, u.Email, passcode)
	if err != nil {
		return fmt.Errorf("unlock: %w", err)
	}
	return a.openSession(ctx, res)
}

// openSession stores the user and tokens of a successful authentication.
func (a *authService) openSession(ctx context.Context, res *api.AuthResult) error {
	u := a.toUser(ctx, res.User)
	err := a.sessions.Update(ctx, func(s *models.Session) {
		*s = models.Session{
			User:             u,
			IsAuthenticated:  true,
			AccessToken:      res.AccessToken,
			RefreshToken:     res.RefreshToken,
			OnboardingStatus: u.OnboardingStatus,
		}
	})
	if err != nil {
		return err
	}
	a.logger.Info(ctx, "session opened", "user_id", u.ID)
	return nil
}

func (a *authService) CreatePasscode(ctx context.Context, passcode string) error {
	if !common.IsDigits(passcode, common.PasscodeLength) {
		return ErrInvalidPasscode
	}
	if !a.sessions.Snapshot().HasLiveSession() {
		return client.ErrNoSession
	}
	a.mu.Lock()
	a.pendingPasscode = passcode
	a.mu.Unlock()
	return nil
}

// ConfirmPasscode compares against the remembered entry. A mismatch
// forgets it, so the flow restarts from CreatePasscode.
func (a *authService) ConfirmPasscode(ctx context.Context, passcode string) error {
	a.mu.Lock()
	pending := a.pendingPasscode
	a.pendingPasscode = ""
	a.mu.Unlock()

	if pending == "" {
		return ErrNoPendingPasscode
	}
	if passcode != pending {
		return ErrPasscodeMismatch
	}

	p, err := a.client.SetPasscode(ctx, passcode)
	if err != nil {
		return fmt.Errorf("set passcode: %w", err)
	}
	return a.saveProfile(ctx, p)
}

func (a *authService) RefreshProfile(ctx context.Context) error {
	p, err := a.client.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	return a.saveProfile(ctx, p)
}

func (a *authService) AdvanceOnboarding(ctx context.Context, status string) error {
	st, err := models.ParseOnboardingStatus(status)
	if err != nil {
		return err
	}
	if st == "" {
		return fmt.Errorf("%w: empty", models.ErrUnknownOnboardingStatus)
	}
	p, err := a.client.UpdateOnboarding(ctx, string(st))
	if err != nil {
		return fmt.Errorf("update onboarding: %w", err)
	}
	return a.saveProfile(ctx, p)
}

func (a *authService) saveProfile(ctx context.Context, p *api.Profile) error {
	u := a.toUser(ctx, *p)
	return a.sessions.Update(ctx, func(s *models.Session) {
		s.User = u
	})
}

func (a *authService) Lock(ctx context.Context) error {
	a.client.SetTokens("", "")
	return a.sessions.Update(ctx, func(s *models.Session) {
		s.IsAuthenticated = false
		s.AccessToken = ""
		s.RefreshToken = ""
	})
}

func (a *authService) Logout(ctx context.Context, wipe bool) error {
	if err := a.Reset(ctx); err != nil {
		return err
	}
	if wipe {
		return a.welcome.Clear(ctx)
	}
	return nil
}

func (a *authService) Snapshot() models.Session {
	return a.sessions.Snapshot()
}

func (a *authService) Reset(ctx context.Context) error {
	a.client.SetTokens("", "")
	a.mu.Lock()
	a.pendingPasscode = ""
	a.mu.Unlock()
	return a.sessions.Reset(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close() error {
	return a.client.Close()
}

// toUser converts a backend profile. An onboarding status this client does
// not know is dropped rather than failing the whole call.
func (a *authService) toUser(ctx context.Context, p api.Profile) *models.User {
	st, err := models.ParseOnboardingStatus(p.OnboardingStatus)
	if err != nil {
		a.logger.Warn(ctx, "ignoring onboarding status", "error", err)
	}
	return &models.User{
		ID:               p.ID,
		Email:            p.Email,
		HasPasscode:      p.HasPasscode,
		OnboardingStatus: st,
	}
}
