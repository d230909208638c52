// Package auth provides the admin password hash and session tokens.
package auth

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf16"
)

// DefaultHash is the login hash seeded into fresh installations. It marks an
// unconfigured installation and never authenticates.
const DefaultHash int32 = -1352366804

// MinPasswordLength is the shortest accepted admin password.
const MinPasswordLength = 8

var (
	ErrUnconfigured     = errors.New("no admin password has been set")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrWeakPassword     = errors.New("password does not meet the policy")
	ErrReservedPassword = errors.New("password hashes to the reserved default value")
)

// Hash computes the 32-bit login hash: h = h*31 + c over the UTF-16 code
// units of s, wrapping to a signed 32-bit integer at every step.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

// Configured reports whether a real password has been set.
func Configured(stored int32) bool {
	return stored != DefaultHash
}

// CheckPassword compares password against the stored hash. The empty
// password never matches, even against a stored 0.
func CheckPassword(stored int32, password string) error {
	if !Configured(stored) {
		return ErrUnconfigured
	}
	if password == "" || Hash(password) != stored {
		return ErrInvalidPassword
	}
	return nil
}

// ValidatePolicy enforces the password rules: a minimum length plus at least
// one upper-case letter, one lower-case letter and one digit.
func ValidatePolicy(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("%w: at least %d characters", ErrWeakPassword, MinPasswordLength)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return fmt.Errorf("%w: needs upper case, lower case and a digit", ErrWeakPassword)
	}
	return nil
}

// HashNewPassword validates a new password and returns its hash.
func HashNewPassword(password string) (int32, error) {
	if err := ValidatePolicy(password); err != nil {
		return 0, err
	}
	h := Hash(password)
	if h == DefaultHash {
		return 0, ErrReservedPassword
	}
	return h, nil
}
