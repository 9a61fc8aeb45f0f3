package backupcode

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hash derives the storable bcrypt hash of a normalized backup code.
// Plaintext codes must never be persisted or logged.
func Hash(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Join(ErrFailedToHashCode, err)
	}
	return string(hash), nil
}

// HashWithCost is Hash with an explicit bcrypt cost, mainly for tests where
// bcrypt.MinCost keeps fixtures fast.
func HashWithCost(code string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", errors.Join(ErrFailedToHashCode, err)
	}
	return string(hash), nil
}

// Match reports whether a normalized submitted code corresponds to a stored
// hash. The comparison re-derives the hash and therefore leaks nothing about
// where a mismatch occurs.
func Match(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
