package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/spec-kit/delivery-service/internal/domain"
)

const resetTokenBytes = 32

// NewResetToken generates a cryptographically random reset token,
// hex-encoded. Only its bcrypt hash is ever stored, so a database leak does
// not expose usable tokens.
func NewResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken hashes a reset token for storage, using the same bcrypt
// cost as credentials.
func HashResetToken(token string, cost int) (string, error) {
	return HashPassword(token, cost)
}

// VerifyResetToken checks a presented token against the pair stored on the
// user record. Fails when no token is stored, the expiry has passed, or the
// hash does not match. Expired hashes are not cleared here; the next
// issuance overwrites them.
func VerifyResetToken(user *domain.User, token string) bool {
	if !user.HasResetToken() {
		return false
	}
	if time.Now().After(*user.ResetTokenExpires) {
		return false
	}
	return ComparePassword(*user.ResetTokenHash, token) == nil
}
