package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"bilancio/internal/core"
)

// HashPassword derives a bcrypt hash from the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
// A mismatch is ErrUnauthorized, same as an unknown email, so login
// failures are indistinguishable to the caller.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%w: invalid credentials", core.ErrUnauthorized)
	}
	return nil
}
