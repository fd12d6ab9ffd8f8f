// Package common contains shared constants and sentinel errors used across
// gophwallet components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// VerificationCodeLength is the number of digits in an email verification code.
const VerificationCodeLength = 6

// PasscodeLength is the number of digits in a wallet passcode.
const PasscodeLength = 6
