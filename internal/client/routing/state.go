package routing

import "github.com/dmitrijs2005/gophwallet/internal/client/models"

// AuthState is the closed set of session shapes the decision engine
// distinguishes. The variants are Authenticated, StoredCredentials,
// PendingVerification and Guest.
type AuthState interface {
	authState()
	String() string
}

// Authenticated is a live session: authenticated flag, user and token all present.
type Authenticated struct {
	User             models.User
	OnboardingStatus models.OnboardingStatus
}

// StoredCredentials is a cached user without a live session.
type StoredCredentials struct {
	User models.User
}

// PendingVerification is a registration waiting for its email code.
type PendingVerification struct {
	Email string
}

// Guest has nothing: no session, no cached user, no pending registration.
type Guest struct{}

func (Authenticated) authState()       {}
func (StoredCredentials) authState()   {}
func (PendingVerification) authState() {}
func (Guest) authState()               {}

func (Authenticated) String() string       { return "authenticated" }
func (StoredCredentials) String() string   { return "stored_credentials" }
func (PendingVerification) String() string { return "pending_verification" }
func (Guest) String() string               { return "guest" }

// ClassifySession folds a snapshot into an AuthState. Checks run in a fixed
// order because several can hold at once; a snapshot claiming
// authentication without a user or token degrades to the next match.
func ClassifySession(s models.Session) AuthState {
	switch {
	case s.IsAuthenticated && s.User != nil && s.AccessToken != "":
		return Authenticated{User: *s.User, OnboardingStatus: s.EffectiveOnboardingStatus()}
	case s.User != nil:
		return StoredCredentials{User: *s.User}
	case s.PendingVerificationEmail != "":
		return PendingVerification{Email: s.PendingVerificationEmail}
	default:
		return Guest{}
	}
}
