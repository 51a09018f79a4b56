package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/tokens"
)

// SessionService manages the guest credential lifecycle: issuing, verifying,
// revoking and expiring project access tokens.
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// CreateClientSession issues the project's access token. At most one active,
// unexpired session may exist per project; a second create fails with
// ErrConflict until the first is revoked or expires.
func (s *SessionService) CreateClientSession(projectID uuid.UUID, password string, expiresInDays int) (*models.ClientSession, error) {
	now := time.Now()
	existing, err := repository.GetActiveProjectSession(s.db, projectID, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: project already has an active session", ErrConflict)
	}

	token, err := tokens.NewRandomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	passwordHash := ""
	if password != "" {
		passwordHash, err = tokens.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash session password: %w", err)
		}
	}

	var expiresAt *time.Time
	if expiresInDays > 0 {
		t := now.AddDate(0, 0, expiresInDays)
		expiresAt = &t
	}

	return repository.CreateClientSession(s.db, projectID, token, passwordHash, expiresAt)
}

// VerifySessionAccess is the single authorization gate for every guest
// operation. It returns (nil, nil) on any credential failure: unknown token,
// inactive session, past expiry, or password mismatch. Expiry is enforced
// lazily: a session found past its expires_at is flipped inactive and
// persisted before the caller is refused. On success the access counters are
// bumped and the session returned.
func (s *SessionService) VerifySessionAccess(token, password string) (*models.ClientSession, error) {
	session, err := repository.GetSessionByToken(s.db, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if !session.IsActive {
		return nil, nil
	}

	now := time.Now()
	if session.Expired(now) {
		if err := repository.DeactivateSession(s.db, session.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if session.HasPassword() {
		if password == "" || !tokens.CheckPassword(password, session.PasswordHash) {
			return nil, nil
		}
	}

	if err := repository.TouchSession(s.db, session.ID, now); err != nil {
		return nil, err
	}
	session.CountAccesses++
	session.LastAccessedAt = &now
	return session, nil
}

// RevokeSession deactivates a session without deleting its audit trail.
func (s *SessionService) RevokeSession(sessionID uuid.UUID) (*models.ClientSession, error) {
	session, err := s.getSession(sessionID)
	if err != nil || session == nil {
		return nil, err
	}
	if err := repository.DeactivateSession(s.db, sessionID); err != nil {
		return nil, err
	}
	session.IsActive = false
	return session, nil
}

// RefreshSessionExpiry pushes the expiry to now + expiresInDays.
func (s *SessionService) RefreshSessionExpiry(sessionID uuid.UUID, expiresInDays int) (*models.ClientSession, error) {
	session, err := s.getSession(sessionID)
	if err != nil || session == nil {
		return nil, err
	}
	expiresAt := time.Now().AddDate(0, 0, expiresInDays)
	if err := repository.UpdateSessionExpiry(s.db, sessionID, &expiresAt); err != nil {
		return nil, err
	}
	session.ExpiresAt = &expiresAt
	return session, nil
}

// GetActiveProjectSession returns the one live session an owner can share,
// or nil if none exists.
func (s *SessionService) GetActiveProjectSession(projectID uuid.UUID) (*models.ClientSession, error) {
	return repository.GetActiveProjectSession(s.db, projectID, time.Now())
}

// DeleteProjectSessions hard-deletes every session of a project and reports
// the count. Used on project teardown.
func (s *SessionService) DeleteProjectSessions(projectID uuid.UUID) (int64, error) {
	return repository.DeleteSessionsByProject(s.db, projectID)
}

func (s *SessionService) getSession(sessionID uuid.UUID) (*models.ClientSession, error) {
	var session models.ClientSession
	err := s.db.First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}
