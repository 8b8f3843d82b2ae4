// Package accounts holds the emulated provider's user accounts.
package accounts

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the provider's password rule.
const MinPasswordLength = 6

type Account struct {
	LocalID       string    `json:"localId"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // never serialize
	EmailVerified bool      `json:"emailVerified"`
	Disabled      bool      `json:"disabled,omitempty"`
	CreatedAt     time.Time `json:"-"`
	LastLoginAt   time.Time `json:"-"`
}

// NormalizeEmail lower-cases and trims an address; emails are matched
// case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

// ValidatePasswordStrength applies the provider's only password rule.
func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password should be at least %d characters", MinPasswordLength)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword reports whether password matches the account's hash.
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.PasswordHash)
}
