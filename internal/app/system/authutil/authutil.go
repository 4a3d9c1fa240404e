// Package authutil hashes and checks account passwords.
package authutil

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost used for new hashes.
const BcryptCost = 12

// maxBcryptInput is the longest input bcrypt accepts.
const maxBcryptInput = 72

// bcryptInput returns the bytes given to bcrypt. Passwords longer than bcrypt
// accepts are reduced to the base64 of their SHA-256; shorter ones pass
// through unchanged so existing hashes keep verifying.
func bcryptInput(password string) []byte {
	if len(password) <= maxBcryptInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword hashes a password using bcrypt. Any length is accepted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsHash reports whether stored looks like a bcrypt hash.
func IsHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// CheckPassword compares password against the stored value. Stored values
// that are not bcrypt hashes are legacy plaintext and compared directly.
func CheckPassword(stored, password string) bool {
	if stored == "" || password == "" {
		return false
	}
	if IsHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), bcryptInput(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
