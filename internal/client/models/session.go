package models

// Session is an immutable snapshot of the authentication state at the moment
// it was read. Empty strings stand for absent values.
//
// IsAuthenticated is expected to imply a non-nil User and a non-empty
// AccessToken. Consumers must not rely on it: a snapshot that breaks the rule
// is treated as a weaker, not-fully-authenticated state.
type Session struct {
	User                     *User            `json:"user,omitempty"`
	IsAuthenticated          bool             `json:"is_authenticated"`
	AccessToken              string           `json:"access_token,omitempty"`
	RefreshToken             string           `json:"refresh_token,omitempty"`
	OnboardingStatus         OnboardingStatus `json:"onboarding_status,omitempty"`
	PendingVerificationEmail string           `json:"pending_verification_email,omitempty"`
}

// EffectiveOnboardingStatus prefers the user's own status and falls back to
// the session-level one.
func (s Session) EffectiveOnboardingStatus() OnboardingStatus {
	if s.User != nil && s.User.OnboardingStatus != "" {
		return s.User.OnboardingStatus
	}
	return s.OnboardingStatus
}

// HasLiveSession reports whether the snapshot claims authentication and
// carries a token worth validating.
func (s Session) HasLiveSession() bool {
	return s.IsAuthenticated && s.AccessToken != ""
}

// Clone returns a deep copy so callers can mutate it freely.
func (s Session) Clone() Session {
	s.User = s.User.Clone()
	return s
}
