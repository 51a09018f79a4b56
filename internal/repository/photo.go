package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
)

func CreatePhoto(db *gorm.DB, projectID uuid.UUID, filename string) (*models.Photo, error) {
	photo := &models.Photo{ProjectID: projectID, Filename: filename}
	if err := db.Create(photo).Error; err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}
	return photo, nil
}

func GetPhotoByID(db *gorm.DB, id uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	err := db.First(&photo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

// GetPhotoByProjectAndFilename does an exact, case-sensitive filename match.
func GetPhotoByProjectAndFilename(db *gorm.DB, projectID uuid.UUID, filename string) (*models.Photo, error) {
	var photo models.Photo
	err := db.First(&photo, "project_id = ? AND filename = ?", projectID, filename).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo by filename: %w", err)
	}
	return &photo, nil
}

func PhotoExistsByFilename(db *gorm.DB, projectID uuid.UUID, filename string) (bool, error) {
	photo, err := GetPhotoByProjectAndFilename(db, projectID, filename)
	if err != nil {
		return false, err
	}
	return photo != nil, nil
}

// GetPhotoByFilenameWithVariant resolves a filename that may carry a variant
// suffix back to its base photo.
//
// Naming rule: <Name>.<ext> (original) or <Name>_<postfix>.<ext> (variant).
// Exact match wins; otherwise the portion of the stem before the last
// underscore is tried as the base name. A base filename that itself contains
// an underscore is ambiguous under this rule and may resolve to the wrong
// base. Callers that need exact resolution should match on photo ID.
func GetPhotoByFilenameWithVariant(db *gorm.DB, projectID uuid.UUID, filename string) (*models.Photo, error) {
	photo, err := GetPhotoByProjectAndFilename(db, projectID, filename)
	if err != nil || photo != nil {
		return photo, err
	}

	stem := filename
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		stem = filename[:i]
		ext = filename[i:]
	}

	if i := strings.LastIndex(stem, "_"); i >= 0 {
		baseFilename := stem[:i] + ext
		return GetPhotoByProjectAndFilename(db, projectID, baseFilename)
	}

	return nil, nil
}

// GetPhotosByProject lists a project's photos with pagination and an
// optional selection filter.
func GetPhotosByProject(db *gorm.DB, projectID uuid.UUID, p models.Pagination, isSelected *bool) ([]models.Photo, error) {
	query := db.Where("project_id = ?", projectID)
	if isSelected != nil {
		query = query.Where("is_selected = ?", *isSelected)
	}
	var photos []models.Photo
	if err := applySort(query, p, "created_at").Offset(p.Skip).Limit(p.Limit).Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

func CountPhotosByProject(db *gorm.DB, projectID uuid.UUID, isSelected *bool) (int64, error) {
	query := db.Model(&models.Photo{}).Where("project_id = ?", projectID)
	if isSelected != nil {
		query = query.Where("is_selected = ?", *isSelected)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}

func GetSelectedPhotosByProject(db *gorm.DB, projectID uuid.UUID) ([]models.Photo, error) {
	var photos []models.Photo
	err := db.Where("project_id = ? AND is_selected = ?", projectID, true).Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get selected photos: %w", err)
	}
	return photos, nil
}

func SetPhotoSelected(db *gorm.DB, photoID uuid.UUID, selected bool) error {
	return db.Model(&models.Photo{}).Where("id = ?", photoID).Update("is_selected", selected).Error
}
