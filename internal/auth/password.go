package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// MaxPasswordLength is the longest accepted password in bytes. bcrypt only
// hashes the first 72 bytes, so anything longer is rejected up front instead
// of being silently truncated or failing inside the hasher.
const MaxPasswordLength = 72

// ValidatePasswordPolicy enforces the password policy: 8 to 72 bytes
// containing both letters and digits.
func ValidatePasswordPolicy(password string) bool {
	if len(password) < 8 || len(password) > MaxPasswordLength {
		return false
	}
	hasLetter := strings.ContainsFunc(password, unicode.IsLetter)
	hasDigit := strings.ContainsFunc(password, unicode.IsDigit)
	return hasLetter && hasDigit
}
