// Package cryptox hashes the secrets the account backend stores: account
// passwords and wallet passcodes. Hashes are argon2id and self-describing,
// so the salt travels with the hash.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize   = 16
	keySize    = 32
	hashPrefix = "argon2id"
)

// ErrMalformedHash is returned by VerifySecret for strings not produced by HashSecret.
var ErrMalformedHash = errors.New("malformed secret hash")

// DeriveKey stretches secret with salt using argon2id.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keySize)
}

// HashSecret returns "argon2id$<salt hex>$<key hex>" for secret with a fresh salt.
func HashSecret(secret []byte) string {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(secret, salt)
	defer common.WipeByteArray(key)
	return fmt.Sprintf("%s$%s$%s", hashPrefix, hex.EncodeToString(salt), hex.EncodeToString(key))
}

// VerifySecret reports whether secret matches an encoded hash from HashSecret.
func VerifySecret(encoded string, secret []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != hashPrefix {
		return false, ErrMalformedHash
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != keySize {
		return false, ErrMalformedHash
	}

	got := DeriveKey(secret, salt)
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
