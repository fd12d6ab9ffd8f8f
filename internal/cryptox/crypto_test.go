package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("123456"), []byte("fixed-salt"))
	k2 := DeriveKey([]byte("123456"), []byte("fixed-salt"))

	require.Len(t, k1, keySize)
	assert.True(t, bytes.Equal(k1, k2))
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	k1 := DeriveKey([]byte("123456"), []byte("salt-1"))
	k2 := DeriveKey([]byte("123456"), []byte("salt-2"))
	assert.False(t, bytes.Equal(k1, k2))
}

func TestHashSecret_Format(t *testing.T) {
	h := HashSecret([]byte("pw"))
	parts := strings.Split(h, "$")
	require.Len(t, parts, 3)
	assert.Equal(t, "argon2id", parts[0])
	assert.Len(t, parts[1], saltSize*2)
	assert.Len(t, parts[2], keySize*2)

	// fresh salt every time
	assert.NotEqual(t, h, HashSecret([]byte("pw")))
}

func TestVerifySecret(t *testing.T) {
	h := HashSecret([]byte("654321"))

	ok, err := VerifySecret(h, []byte("654321"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySecret(h, []byte("000000"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySecret_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"bcrypt$00$00",
		"argon2id$zz$00",
		"argon2id$00$zz",
		"argon2id$00$0011",
		"argon2id$00",
	} {
		_, err := VerifySecret(in, []byte("x"))
		assert.ErrorIs(t, err, ErrMalformedHash, "input %q", in)
	}
}
