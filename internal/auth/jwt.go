// Package auth issues and validates the owner-facing credentials: HS256
// access/refresh token pairs and Google ID token verification.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

func (m *TokenManager) IssueAccessToken(userID uuid.UUID) (string, error) {
	return m.issue(userID, tokenTypeAccess, m.accessTTL)
}

func (m *TokenManager) IssueRefreshToken(userID uuid.UUID) (string, error) {
	return m.issue(userID, tokenTypeRefresh, m.refreshTTL)
}

func (m *TokenManager) issue(userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": tokenType,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ParseAccessToken validates signature, expiry and the type claim, and
// returns the user ID from the sub claim.
func (m *TokenManager) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	return m.parse(tokenString, tokenTypeAccess)
}

func (m *TokenManager) ParseRefreshToken(tokenString string) (uuid.UUID, error) {
	return m.parse(tokenString, tokenTypeRefresh)
}

func (m *TokenManager) parse(tokenString, wantType string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}

	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return uuid.Nil, fmt.Errorf("token is not a %s token", wantType)
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing sub claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid sub claim: %w", err)
	}
	return userID, nil
}
