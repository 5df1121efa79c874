package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomDigits(t *testing.T) {
	s, err := RandomDigits(12)
	require.NoError(t, err)
	assert.Len(t, s, 12)
	for _, r := range s {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestAccessSecretRoundTrip(t *testing.T) {
	secret, hash, err := NewAccessSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 8)
	assert.NotEqual(t, secret, hash)

	assert.True(t, VerifyAccessSecret(hash, secret))
	assert.False(t, VerifyAccessSecret(hash, "00000000"))
}

func TestAccessCodeFormatParse(t *testing.T) {
	code := FormatAccessCode(14, "52067113")
	assert.Equal(t, "14-52067113", code)

	number, secret, err := ParseAccessCode(code)
	require.NoError(t, err)
	assert.Equal(t, 14, number)
	assert.Equal(t, "52067113", secret)

	number, secret, err = ParseAccessCode("  7-123  ")
	require.NoError(t, err)
	assert.Equal(t, 7, number)
	assert.Equal(t, "123", secret)
}

func TestParseAccessCodeMalformed(t *testing.T) {
	for _, code := range []string{"", "12345678", "abc-123"} {
		_, _, err := ParseAccessCode(code)
		assert.Error(t, err, code)
	}
}
