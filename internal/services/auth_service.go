package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"photoproof-backend/internal/auth"
	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
)

// AuthService exchanges a Google ID token for the owner JWT pair. Users are
// created on first login and keyed by their immutable google_uid.
type AuthService struct {
	db       *gorm.DB
	verifier auth.IdentityVerifier
	tokens   *auth.TokenManager
}

func NewAuthService(db *gorm.DB, verifier auth.IdentityVerifier, tokens *auth.TokenManager) *AuthService {
	return &AuthService{db: db, verifier: verifier, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, idToken string) (*models.User, *models.TokenPair, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: identity verification failed", ErrUnauthorized)
	}

	user, err := repository.GetUserByGoogleUID(s.db, identity.UID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		user, err = repository.CreateUser(s.db, identity.UID, identity.Email, identity.Name)
		if err != nil {
			return nil, nil, err
		}
	} else if identity.Name != "" && identity.Name != user.Name {
		if err := repository.UpdateUserName(s.db, user.ID, identity.Name); err != nil {
			return nil, nil, err
		}
		user.Name = identity.Name
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) Refresh(refreshToken string) (*models.User, *models.TokenPair, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	user, err := repository.GetUserByID(s.db, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) issuePair(user *models.User) (*models.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}
