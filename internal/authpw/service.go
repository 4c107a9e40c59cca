// Package authpw verifies the optional admin password.
package authpw

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("wrong password")

// Service checks candidate passwords against a configured admin password.
// The configured value may be a bcrypt hash or, for low-ceremony deployments,
// the plain password itself. An empty configured value disables the check and
// every login gets a non-admin role.
type Service struct {
	configured string
}

func NewService(configured string) *Service {
	return &Service{configured: configured}
}

// Enabled reports whether an admin password is configured.
func (s *Service) Enabled() bool {
	return s.configured != ""
}

// Verify checks the candidate against the configured admin password.
func (s *Service) Verify(candidate string) error {
	if s.configured == "" {
		return errors.New("admin password not configured")
	}
	if isBcryptHash(s.configured) {
		if err := bcrypt.CompareHashAndPassword([]byte(s.configured), []byte(candidate)); err != nil {
			return ErrWrongPassword
		}
		return nil
	}
	if candidate != s.configured {
		return ErrWrongPassword
	}
	return nil
}

// Hash produces a bcrypt hash suitable for the configuration value.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func isBcryptHash(s string) bool {
	return len(s) > 4 && s[0] == '$' && (s[1] == '2')
}
