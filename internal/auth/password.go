package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// KDF parameters. Fixed configuration, not tunable per call: changing
// them invalidates every stored hash, so treat them like a format
// version. The iteration count follows current OWASP guidance for
// PBKDF2-SHA256.
const (
	SaltLength    = 16
	KDFIterations = 210_000
	KeyLength     = 32
)

// GenerateSalt returns a fresh random salt from the crypto source.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives the stored verifier from a password and salt
// using PBKDF2-SHA256. The derivation is deliberately slow.
func HashPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, KDFIterations, KeyLength, sha256.New)
}

// CheckPassword recomputes the hash and compares it to the stored one in
// constant time, leaking neither length nor prefix information.
func CheckPassword(password string, salt, hash []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

// GenerateSessionSecret creates a random 32-byte secret for session and
// CSRF signing.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
