// Package models defines client-side data models shared by the session store,
// the routing engine and the auth services.
package models

import (
	"errors"
	"fmt"
)

// OnboardingStatus is the account's progress through onboarding and KYC.
// The zero value means the status is unknown.
type OnboardingStatus string

const (
	OnboardingPending       OnboardingStatus = "pending"
	OnboardingStarted       OnboardingStatus = "started"
	OnboardingKYCPending    OnboardingStatus = "kyc_pending"
	OnboardingKYCProcessing OnboardingStatus = "kyc_processing"
	OnboardingKYCRejected   OnboardingStatus = "kyc_rejected"
	OnboardingCompleted     OnboardingStatus = "completed"
)

var ErrUnknownOnboardingStatus = errors.New("unknown onboarding status")

var onboardingStatuses = map[OnboardingStatus]struct{}{
	OnboardingPending:       {},
	OnboardingStarted:       {},
	OnboardingKYCPending:    {},
	OnboardingKYCProcessing: {},
	OnboardingKYCRejected:   {},
	OnboardingCompleted:     {},
}

// ParseOnboardingStatus validates s. The empty string parses to the zero value.
func ParseOnboardingStatus(s string) (OnboardingStatus, error) {
	if s == "" {
		return "", nil
	}
	st := OnboardingStatus(s)
	if _, ok := onboardingStatuses[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOnboardingStatus, s)
	}
	return st, nil
}

// User is the cached profile of the signed-in (or previously signed-in) account.
type User struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	HasPasscode      bool             `json:"has_passcode"`
	OnboardingStatus OnboardingStatus `json:"onboarding_status,omitempty"`
}

// Clone returns a copy of u, or nil for a nil receiver.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
