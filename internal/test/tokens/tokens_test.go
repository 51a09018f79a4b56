package tokens_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"photoproof-backend/internal/tokens"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestGenerateToken_Deterministic(t *testing.T) {
	projectID := uuid.New()
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)

	first := tokens.GenerateToken(projectID, ts)
	second := tokens.GenerateToken(projectID, ts)

	assert.Equal(t, first, second)
	assert.Regexp(t, hexPattern, first)
}

func TestGenerateToken_VariesWithInputs(t *testing.T) {
	ts := time.Now()
	a := tokens.GenerateToken(uuid.New(), ts)
	b := tokens.GenerateToken(uuid.New(), ts)
	assert.NotEqual(t, a, b)

	projectID := uuid.New()
	c := tokens.GenerateToken(projectID, ts)
	d := tokens.GenerateToken(projectID, ts.Add(time.Microsecond))
	assert.NotEqual(t, c, d)
}

func TestNewRandomToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := tokens.NewRandomToken()
		assert.NoError(t, err)
		assert.Regexp(t, hexPattern, token)
		assert.False(t, seen[token], "token collision")
		seen[token] = true
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := tokens.HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, tokens.CheckPassword("secret123", hash))
	assert.False(t, tokens.CheckPassword("wrong", hash))
}

func TestCheckPassword_NoHashFailsSafe(t *testing.T) {
	// No stored hash: verification fails whether or not a password is given.
	assert.False(t, tokens.CheckPassword("anything", ""))
	assert.False(t, tokens.CheckPassword("", ""))
}
