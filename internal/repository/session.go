package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
)

func CreateClientSession(db *gorm.DB, projectID uuid.UUID, token, passwordHash string, expiresAt *time.Time) (*models.ClientSession, error) {
	session := &models.ClientSession{
		ProjectID:    projectID,
		Token:        token,
		PasswordHash: passwordHash,
		ExpiresAt:    expiresAt,
		IsActive:     true,
	}
	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create client session: %w", err)
	}
	return session, nil
}

// GetSessionByToken looks the row up as stored; it does not apply the
// lazy-expiry flip. That belongs to the service layer.
func GetSessionByToken(db *gorm.DB, token string) (*models.ClientSession, error) {
	var session models.ClientSession
	err := db.First(&session, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}
	return &session, nil
}

// GetActiveProjectSession returns the project's live session, if any:
// is_active and either no expiry or an expiry still in the future.
func GetActiveProjectSession(db *gorm.DB, projectID uuid.UUID, now time.Time) (*models.ClientSession, error) {
	var session models.ClientSession
	err := db.Where("project_id = ? AND is_active = ?", projectID, true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active project session: %w", err)
	}
	return &session, nil
}

func GetSessionsByProject(db *gorm.DB, projectID uuid.UUID) ([]models.ClientSession, error) {
	var sessions []models.ClientSession
	err := db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list project sessions: %w", err)
	}
	return sessions, nil
}

// TouchSession records a successful access: bumps count_accesses and
// stamps last_accessed_at.
func TouchSession(db *gorm.DB, sessionID uuid.UUID, now time.Time) error {
	err := db.Model(&models.ClientSession{}).Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"count_accesses":   gorm.Expr("count_accesses + 1"),
			"last_accessed_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func DeactivateSession(db *gorm.DB, sessionID uuid.UUID) error {
	err := db.Model(&models.ClientSession{}).Where("id = ?", sessionID).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	return nil
}

func UpdateSessionExpiry(db *gorm.DB, sessionID uuid.UUID, expiresAt *time.Time) error {
	err := db.Model(&models.ClientSession{}).Where("id = ?", sessionID).
		Update("expires_at", expiresAt).Error
	if err != nil {
		return fmt.Errorf("failed to update session expiry: %w", err)
	}
	return nil
}

// DeleteSessionsByProject removes every session of a project and reports
// how many rows went away.
func DeleteSessionsByProject(db *gorm.DB, projectID uuid.UUID) (int64, error) {
	result := db.Delete(&models.ClientSession{}, "project_id = ?", projectID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete project sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
