// Package password wraps bcrypt hashing and verification.
package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/socialapi-dev/socialapi/internal/logger"
)

// Hash returns an opaque bcrypt hash of the plaintext.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored hash.
// bcrypt's comparison is constant-time.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Bcrypt satisfies the service.Hasher interface.
type Bcrypt struct{}

func (Bcrypt) Hash(plaintext string) (string, error) { return Hash(plaintext) }

func (Bcrypt) Verify(plaintext, hash string) bool { return Verify(plaintext, hash) }
