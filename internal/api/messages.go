package api

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Empty is the request or response of calls that carry no data.
type Empty struct{}

// PingResponse reports backend liveness.
type PingResponse struct {
	Status string `json:"status"`
}

// Credentials are an email/password pair used by Register and Login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest confirms a registration with the emailed code.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// PasscodeLoginRequest opens a session for a returning user.
type PasscodeLoginRequest struct {
	Email    string `json:"email"`
	Passcode string `json:"passcode"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PasscodeRequest sets the wallet passcode of the calling user.
type PasscodeRequest struct {
	Passcode string `json:"passcode"`
}

// OnboardingRequest moves the calling user to another onboarding status.
type OnboardingRequest struct {
	Status string `json:"status"`
}

// Profile is the backend's view of a user.
type Profile struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	HasPasscode      bool   `json:"has_passcode"`
	OnboardingStatus string `json:"onboarding_status,omitempty"`
}

// Tokens is an access/refresh token pair.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is returned by every call that opens a session.
type AuthResult struct {
	Tokens
	User Profile `json:"user"`
}

// Encode converts a message into its Struct form.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

// Decode fills v from a Struct produced by Encode.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}
