package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
)

func CreateProject(db *gorm.DB, ownerID uuid.UUID, title, status, clientNotes string, expiredDate *time.Time) (*models.Project, error) {
	if status == "" {
		status = models.ProjectStatusDraft
	}
	project := &models.Project{
		OwnerID:     ownerID,
		Title:       title,
		Status:      status,
		ClientNotes: clientNotes,
		ExpiredDate: expiredDate,
	}
	if err := db.Create(project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func GetProjectByID(db *gorm.DB, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := db.Preload("Owner").First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

func GetProjectByTitleAndOwner(db *gorm.DB, title string, ownerID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := db.First(&project, "title = ? AND owner_id = ?", title, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project by title: %w", err)
	}
	return &project, nil
}

func GetProjectsByOwner(db *gorm.DB, ownerID uuid.UUID, p models.Pagination, status string) ([]models.Project, error) {
	query := db.Preload("Owner").Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var projects []models.Project
	if err := applySort(query, p, "created_at").Offset(p.Skip).Limit(p.Limit).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func CountProjectsByOwner(db *gorm.DB, ownerID uuid.UUID, status string) (int64, error) {
	query := db.Model(&models.Project{}).Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// UpdateProject applies the non-nil fields of the update request.
func UpdateProject(db *gorm.DB, id uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ClientNotes != nil {
		updates["client_notes"] = *req.ClientNotes
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := db.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update project: %w", err)
		}
	}
	return GetProjectByID(db, id)
}

func UpdateProjectStatus(db *gorm.DB, id uuid.UUID, status string) (*models.Project, error) {
	if err := db.Model(&models.Project{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	return GetProjectByID(db, id)
}

func DeleteProject(db *gorm.DB, id uuid.UUID) (bool, error) {
	result := db.Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete project: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func SoftDeleteProject(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&models.Project{}).Where("id = ?", id).Update("is_deleted", true).Error
}

// GetExpiredProjects returns projects whose expired_date has passed.
func GetExpiredProjects(db *gorm.DB, now time.Time) ([]models.Project, error) {
	var projects []models.Project
	err := db.Preload("Owner").
		Where("expired_date IS NOT NULL AND expired_date < ?", now).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get expired projects: %w", err)
	}
	return projects, nil
}

// applySort wires the pagination sort key into the query. Keys are
// whitelisted; unknown keys fall back to the default column ascending.
func applySort(query *gorm.DB, p models.Pagination, defaultKey string) *gorm.DB {
	key := p.SortBy
	switch key {
	case "filename", "created_at", "updated_at", "title", "status":
	default:
		key = defaultKey
	}
	dir := "ASC"
	if p.SortDir == "desc" {
		dir = "DESC"
	}
	return query.Order(key + " " + dir)
}
