package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// saltLength is the number of random bytes generated per password.
const saltLength = 16

// HashPassword generates a fresh random salt and digests the password
// concatenated with the raw salt bytes. Both the salt and the SHA-256 digest
// are returned base64-encoded. Two calls with the same password produce
// different salts and therefore different hashes.
func HashPassword(password string) (salt string, hash string, err error) {
	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), digest(password, raw), nil
}

// VerifyPassword recomputes the digest for the supplied salt and compares it
// to the expected hash.
func VerifyPassword(password, salt, expectedHash string) bool {
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false
	}
	computed := digest(password, raw)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHash)) == 1
}

func digest(password string, salt []byte) string {
	data := make([]byte, 0, len(password)+len(salt))
	data = append(data, password...)
	data = append(data, salt...)
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// GenerateSessionSecret creates a random 32-byte secret for CSRF/session signing.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
