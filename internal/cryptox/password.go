// Package cryptox holds the password primitives shared by the server and the
// terminal client: bcrypt hashing and the password strength rules.
package cryptox

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for new password hashes.
const DefaultBcryptCost = 10

// maxPasswordBytes is the bcrypt input limit; longer inputs are rejected by
// bcrypt.GenerateFromPassword.
const maxPasswordBytes = 72

const minPasswordLength = 8

const (
	MsgPasswordTooShort = "Password must be at least 8 characters long"
	MsgPasswordTooLong  = "Password must be at most 72 bytes long"
	MsgPasswordNoUpper  = "Password must contain at least one uppercase letter"
	MsgPasswordNoLower  = "Password must contain at least one lowercase letter"
	MsgPasswordNoDigit  = "Password must contain at least one number"
)

// PasswordHasher hashes and verifies passwords with bcrypt. The cost is
// injectable so tests can run with bcrypt.MinCost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or DefaultBcryptCost when
// cost is outside bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost reports the configured work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of plaintext. Every call uses a fresh salt.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. Mismatches and malformed
// hashes both yield false.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// PasswordValidation lists every strength rule a password violates.
type PasswordValidation struct {
	Valid  bool
	Errors []string
}

// ValidatePasswordStrength checks the length and character class rules
// (ASCII upper case, lower case, digit) and returns all violations at once.
func ValidatePasswordStrength(plaintext string) PasswordValidation {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range plaintext {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	errs := make([]string, 0, 4)
	if utf8.RuneCountInString(plaintext) < minPasswordLength {
		errs = append(errs, MsgPasswordTooShort)
	}
	if len(plaintext) > maxPasswordBytes {
		errs = append(errs, MsgPasswordTooLong)
	}
	if !hasUpper {
		errs = append(errs, MsgPasswordNoUpper)
	}
	if !hasLower {
		errs = append(errs, MsgPasswordNoLower)
	}
	if !hasDigit {
		errs = append(errs, MsgPasswordNoDigit)
	}

	return PasswordValidation{Valid: len(errs) == 0, Errors: errs}
}
