package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
)

func CreatePhotoComment(db *gorm.DB, photoID uuid.UUID, authorType, content string) (*models.PhotoComment, error) {
	comment := &models.PhotoComment{PhotoID: photoID, AuthorType: authorType, Content: content}
	if err := db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create photo comment: %w", err)
	}
	return comment, nil
}

// GetCommentsByPhoto returns comments newest first.
func GetCommentsByPhoto(db *gorm.DB, photoID uuid.UUID, skip, limit int) ([]models.PhotoComment, error) {
	var comments []models.PhotoComment
	err := db.Where("photo_id = ?", photoID).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photo comments: %w", err)
	}
	return comments, nil
}

func CountCommentsByPhoto(db *gorm.DB, photoID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.PhotoComment{}).Where("photo_id = ?", photoID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count photo comments: %w", err)
	}
	return count, nil
}

func LatestCommentByPhoto(db *gorm.DB, photoID uuid.UUID) (*models.PhotoComment, error) {
	var comment models.PhotoComment
	err := db.Where("photo_id = ?", photoID).Order("created_at DESC").First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest comment: %w", err)
	}
	return &comment, nil
}
