package users

import "time"

// Onboarding statuses accepted by UpdateOnboarding.
const (
	OnboardingPending       = "pending"
	OnboardingStarted       = "started"
	OnboardingKYCPending    = "kyc_pending"
	OnboardingKYCProcessing = "kyc_processing"
	OnboardingKYCRejected   = "kyc_rejected"
	OnboardingCompleted     = "completed"
)

var onboardingStatuses = map[string]bool{
	OnboardingPending:       true,
	OnboardingStarted:       true,
	OnboardingKYCPending:    true,
	OnboardingKYCProcessing: true,
	OnboardingKYCRejected:   true,
	OnboardingCompleted:     true,
}

// User is an account. Secrets are stored as cryptox hashes; an empty
// PasscodeHash means no passcode has been set.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	PasscodeHash     string
	Verified         bool
	VerificationCode string
	OnboardingStatus string
	CreatedAt        time.Time
}

func (u *User) HasPasscode() bool {
	return u.PasscodeHash != ""
}
