package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes passwords for storage and checks candidates.
type PasswordHasher interface {
	// Hash returns a salted hash; two calls with the same input differ.
	Hash(password string) (string, error)

	// Verify returns (true, nil) on match, (false, nil) on mismatch and an
	// error only when the stored hash is malformed.
	Verify(hash, password string) (bool, error)
}

// MaxPasswordBytes is the longest input bcrypt hashes in full. Longer
// passwords would be truncated, so they never verify.
const MaxPasswordBytes = 72

// BcryptHasher implements PasswordHasher with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, which must lie within
// [bcrypt.MinCost, bcrypt.MaxCost].
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash returns a bcrypt hash of password with a fresh salt. Passwords over
// MaxPasswordBytes are rejected by bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. Passwords over
// MaxPasswordBytes never match, even when their first MaxPasswordBytes do.
func (h *BcryptHasher) Verify(hash, password string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
