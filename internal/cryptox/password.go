// Package cryptox wraps the one-way password hashing used for stored
// credentials.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrHashFailed is returned when a password cannot be hashed for a reason
	// other than its length (e.g. cost out of range).
	ErrHashFailed = errors.New("password hash failed")
	// ErrPasswordTooLong is returned for passwords longer than 72 bytes.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrPasswordMismatch means the hash is valid but does not match.
	ErrPasswordMismatch = errors.New("password mismatch")
	// ErrInvalidHash means the stored hash could not be parsed.
	ErrInvalidHash = errors.New("invalid password hash")
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher implements PasswordHasher with bcrypt. Each hash carries its
// own random salt and cost, so Compare works across cost changes.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost; cost <= 0 selects
// bcrypt.DefaultCost. Use ValidateCost to reject out-of-range settings.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// ValidateCost accepts 0 (default cost) or a value in
// [bcrypt.MinCost, bcrypt.MaxCost].
func ValidateCost(cost int) error {
	if cost == 0 || (cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost) {
		return nil
	}
	return fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("%w: %w", ErrHashFailed, err)
	}
	return string(b), nil
}

// Compare returns nil when password matches hash, ErrPasswordMismatch when it
// does not and ErrInvalidHash when hash is malformed.
func (h *BcryptHasher) Compare(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
}
