package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordMismatch = errors.New("password does not match digest")
	ErrUnknownHasher    = errors.New("unknown password hasher")
)

// Hasher turns a plaintext password into the digest kept in the users table
// and checks login attempts against it.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(digest, plain string) error
}

// SHA256Hasher produces base64(sha256(password)). It is unsalted and
// deterministic, which keeps existing digests valid but makes equal
// passwords share a digest. Prefer BcryptHasher for new deployments.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}

	sum := sha256.Sum256([]byte(plain))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(digest, plain string) error {
	got, err := h.Hash(plain)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(got), []byte(digest)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// BcryptHasher hashes with bcrypt at the given cost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}

	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (BcryptHasher) Verify(digest, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	if err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// NewHasher maps the PASSWORD_HASHER setting to an implementation.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}
