package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// bcrypt ignores everything past 72 bytes; such passwords are refused instead.
const maxPasswordBytes = 72

var (
	ErrPasswordTooShort = fmt.Errorf("must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("must be at most %d bytes", maxPasswordBytes)
	ErrPasswordMismatch = errors.New("password does not match")
)

// PasswordHasher hashes and verifies credentials at a fixed bcrypt cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher uses cost when bcrypt accepts it and bcrypt.DefaultCost otherwise.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

// Cost reports the effective bcrypt cost.
func (h PasswordHasher) Cost() int {
	return h.cost
}

// ValidatePassword checks the length rules shared by registration and bootstrap.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > maxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

// Hash validates and hashes a plaintext password.
func (h PasswordHasher) Hash(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares plain against hashed, returning ErrPasswordMismatch on a wrong password.
func (h PasswordHasher) Verify(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
