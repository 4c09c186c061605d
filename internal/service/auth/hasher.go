package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters, fixed: changing any of them orphans stored records
const (
	hashSaltLen    = 16
	hashIterations = 10_000
	hashKeyLen     = 64
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

var (
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrMalformedHash    = errors.New("malformed password hash")
)

// PBKDF2-HMAC-SHA512 password hasher
// Records are encoded as "hex(salt):hex(key)" with a fresh random salt
// per password, so hashing the same password twice yields different records
type PBKDF2Hasher struct{}

var DefaultHasher PasswordHasher = PBKDF2Hasher{}

func (h PBKDF2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, hashSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error while generating salt. Err: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyLen, sha512.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Compare fails closed: a malformed record is a verification failure,
// never a panic
func (h PBKDF2Hasher) Compare(hashedPassword string, password string) error {
	saltHex, keyHex, found := strings.Cut(hashedPassword, ":")
	if !found {
		return ErrMalformedHash
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return ErrMalformedHash
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return ErrMalformedHash
	}

	derived := pbkdf2.Key([]byte(password), salt, hashIterations, len(expected), sha512.New)
	if subtle.ConstantTimeCompare(derived, expected) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}
