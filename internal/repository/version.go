package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
)

// CreatePhotoVersion is get-or-create on (photo_id, version_type). An
// existing row is returned unchanged, so re-uploading the same version
// does not duplicate metadata.
func CreatePhotoVersion(db *gorm.DB, photoID uuid.UUID, versionType, imageURL string) (*models.PhotoVersion, error) {
	existing, err := GetPhotoVersion(db, photoID, versionType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	version := &models.PhotoVersion{PhotoID: photoID, VersionType: versionType, ImageURL: imageURL}
	if err := db.Create(version).Error; err != nil {
		return nil, fmt.Errorf("failed to create photo version: %w", err)
	}
	return version, nil
}

func GetPhotoVersion(db *gorm.DB, photoID uuid.UUID, versionType string) (*models.PhotoVersion, error) {
	var version models.PhotoVersion
	err := db.First(&version, "photo_id = ? AND version_type = ?", photoID, versionType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo version: %w", err)
	}
	return &version, nil
}

func PhotoHasEditedVersion(db *gorm.DB, photoID uuid.UUID) (bool, error) {
	version, err := GetPhotoVersion(db, photoID, models.VersionEdited)
	if err != nil {
		return false, err
	}
	return version != nil, nil
}

// EditedVersionSet returns the subset of photoIDs that have an edited
// version, resolved in a single query.
func EditedVersionSet(db *gorm.DB, photoIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(photoIDs))
	if len(photoIDs) == 0 {
		return set, nil
	}
	var ids []uuid.UUID
	err := db.Model(&models.PhotoVersion{}).
		Where("photo_id IN ? AND version_type = ?", photoIDs, models.VersionEdited).
		Pluck("photo_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve edited versions: %w", err)
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
