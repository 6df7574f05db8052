package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordRequired is returned when no password is provided.
	ErrPasswordRequired = errors.New("password is required")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's input limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
)

const (
	// bcryptCost of 12 keeps hashing slow enough to resist brute force
	// without making login noticeably laggy.
	bcryptCost = 12

	// maxPasswordBytes is bcrypt's hard input limit.
	maxPasswordBytes = 72
)

// PasswordHasher enforces the account password policy and produces bcrypt
// hashes. Passwords must be non-empty and fit within bcrypt's input limit;
// there is no minimum length.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		cost: bcryptCost,
	}
}

// Hash validates the password against the policy and returns its bcrypt hash.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether the password matches the stored hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
