package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const codeDigits = "0123456789"

// RandomDigits returns n cryptographically random decimal digits.
func RandomDigits(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(codeDigits)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeDigits[idx.Int64()])
	}
	return sb.String(), nil
}

// NewItemCode generates a candidate barcode for an item. Uniqueness is
// enforced by the database; callers retry with a fresh code on collision.
func NewItemCode() (string, error) {
	return RandomDigits(12)
}

// AccessCode is the clerk login code handed out on paper: a public clerk
// number for lookup plus a secret part that is only stored hashed.
type AccessCode struct {
	Number int
	Secret string
}

// NewAccessSecret generates the secret part of a clerk access code together
// with its bcrypt hash. The plain secret is shown exactly once.
func NewAccessSecret() (secret, hash string, err error) {
	secret, err = RandomDigits(8)
	if err != nil {
		return "", "", err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return secret, string(h), nil
}

// VerifyAccessSecret checks a plain secret against its stored hash.
func VerifyAccessSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// FormatAccessCode renders an access code the way it is printed on clerk
// badges, e.g. "14-52067113".
func FormatAccessCode(number int, secret string) string {
	return fmt.Sprintf("%d-%s", number, secret)
}

// ParseAccessCode splits a scanned access code into clerk number and secret.
func ParseAccessCode(code string) (number int, secret string, err error) {
	parts := strings.SplitN(strings.TrimSpace(code), "-", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("malformed access code")
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &number); err != nil {
		return 0, "", fmt.Errorf("malformed access code")
	}
	return number, parts[1], nil
}
