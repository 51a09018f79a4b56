// Package tokens holds the crypto helpers for guest access tokens and
// session passwords.
package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenLength is the number of hex characters in a project access token.
const TokenLength = 32

// GenerateToken derives the deterministic legacy token for a project: the
// first 32 hex characters of SHA-256 over "{project_id}:{timestamp}". It is
// a convenience hash, not a MAC: anyone who knows the project id and the
// exact issuance instant can derive the same value. New sessions are issued
// with NewRandomToken instead.
func GenerateToken(projectID uuid.UUID, ts time.Time) string {
	data := fmt.Sprintf("%s:%s", projectID, ts.UTC().Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])[:TokenLength]
}

// NewRandomToken returns a high-entropy 32-hex-character access token.
func NewRandomToken() (string, error) {
	buf := make([]byte, TokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword hashes a session password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a stored bcrypt hash.
// An empty stored hash means no password was set, and verification fails.
func CheckPassword(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
