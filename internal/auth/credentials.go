package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any mismatch; it deliberately does
// not say which field was wrong.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Credentials holds the single admin login. The password is only ever
// stored as a bcrypt hash.
type Credentials struct {
	Email        string
	PasswordHash string
}

// Verify checks a login attempt against the configured admin credentials.
func (c Credentials) Verify(email, password string) error {
	if c.Email == "" || c.PasswordHash == "" {
		return ErrInvalidCredentials
	}

	attempt := strings.ToLower(strings.TrimSpace(email))
	expected := strings.ToLower(strings.TrimSpace(c.Email))
	if subtle.ConstantTimeCompare([]byte(attempt), []byte(expected)) != 1 {
		// Still run the hash comparison so a wrong email costs the same
		// time as a wrong password.
		_ = bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password))
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces a bcrypt hash suitable for Credentials.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
