package errors

import (
	"errors"
	"fmt"
)

// Errors raised inside the gateway. They never cross the identity boundary;
// callers see an outcome instead.
var (
	// Provider call errors
	ErrTransport         = errors.New("identity provider unreachable")
	ErrProviderStatus    = errors.New("identity provider returned an error status")
	ErrMalformedResponse = errors.New("malformed identity provider response")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")

	// Account errors (emulator)
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single import.
func New(text string) error {
	return errors.New(text)
}
