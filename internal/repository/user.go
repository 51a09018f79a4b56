// Package repository contains the ORM-backed CRUD operations. Every function
// takes the *gorm.DB it should run against, so callers control the
// transaction scope explicitly.
package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
)

func CreateUser(db *gorm.DB, googleUID, email, name string) (*models.User, error) {
	user := &models.User{GoogleUID: googleUID, Email: email, Name: name}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func GetUserByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func GetUserByGoogleUID(db *gorm.DB, googleUID string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "google_uid = ?", googleUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by google uid: %w", err)
	}
	return &user, nil
}

func UpdateUserName(db *gorm.DB, id uuid.UUID, name string) error {
	return db.Model(&models.User{}).Where("id = ?", id).Update("name", name).Error
}
