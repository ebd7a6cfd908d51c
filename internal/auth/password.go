package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a salted bcrypt verifier from a plaintext password.
// bcrypt embeds a fresh random salt, so hashing the same password twice
// yields different verifiers; comparison must go through CheckPassword.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password reproduces the stored verifier.
// A corrupt or unparseable verifier yields false, never an error: a bad
// row in the users table must not take down the login path.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
