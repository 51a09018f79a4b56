package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/storage"
)

// ProjectService covers the owner-facing project lifecycle, including the
// guest token issue/verify endpoints and expired-project cleanup.
type ProjectService struct {
	db       *gorm.DB
	store    storage.ObjectStorage
	sessions *SessionService
}

func NewProjectService(db *gorm.DB, store storage.ObjectStorage, sessions *SessionService) *ProjectService {
	return &ProjectService{db: db, store: store, sessions: sessions}
}

// CreateProject creates an album. Titles are unique per owner.
func (s *ProjectService) CreateProject(ownerID uuid.UUID, req models.CreateProjectRequest) (*models.Project, error) {
	if req.Status != "" && !models.ValidProjectStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	existing, err := repository.GetProjectByTitleAndOwner(s.db, req.Title, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: project %q already exists", ErrConflict, req.Title)
	}

	var expiredDate *time.Time
	if req.ExpiredDays > 0 {
		t := time.Now().AddDate(0, 0, req.ExpiredDays)
		expiredDate = &t
	}

	return repository.CreateProject(s.db, ownerID, req.Title, req.Status, req.ClientNotes, expiredDate)
}

func (s *ProjectService) GetProject(ownerID, projectID uuid.UUID) (*models.Project, error) {
	return s.requireOwned(ownerID, projectID)
}

func (s *ProjectService) ListProjects(ownerID uuid.UUID, p models.Pagination, status string) ([]models.Project, int64, error) {
	projects, err := repository.GetProjectsByOwner(s.db, ownerID, p, status)
	if err != nil {
		return nil, 0, err
	}
	total, err := repository.CountProjectsByOwner(s.db, ownerID, status)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (s *ProjectService) UpdateProject(ownerID, projectID uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error) {
	if _, err := s.requireOwned(ownerID, projectID); err != nil {
		return nil, err
	}
	if req.Status != nil && !models.ValidProjectStatus(*req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
	}
	if req.Title != nil {
		existing, err := repository.GetProjectByTitleAndOwner(s.db, *req.Title, ownerID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != projectID {
			return nil, fmt.Errorf("%w: project %q already exists", ErrConflict, *req.Title)
		}
	}
	return repository.UpdateProject(s.db, projectID, req)
}

func (s *ProjectService) UpdateProjectStatus(ownerID, projectID uuid.UUID, status string) (*models.Project, error) {
	if _, err := s.requireOwned(ownerID, projectID); err != nil {
		return nil, err
	}
	if !models.ValidProjectStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return repository.UpdateProjectStatus(s.db, projectID, status)
}

// DeleteProject tears the project down: sessions, database rows, and every
// stored object under the project prefix.
func (s *ProjectService) DeleteProject(ctx context.Context, ownerID, projectID uuid.UUID) error {
	project, err := s.requireOwned(ownerID, projectID)
	if err != nil {
		return err
	}
	return s.teardown(ctx, project)
}

// CreateProjectToken issues the single active guest token for a project.
func (s *ProjectService) CreateProjectToken(ownerID uuid.UUID, req models.CreateProjectTokenRequest) (*models.ClientSession, error) {
	if _, err := s.requireOwned(ownerID, req.ProjectID); err != nil {
		return nil, err
	}
	return s.sessions.CreateClientSession(req.ProjectID, req.Password, req.ExpiresInDays)
}

// GetProjectToken fetches the live token for sharing, or ErrNotFound if the
// project has none.
func (s *ProjectService) GetProjectToken(ownerID, projectID uuid.UUID) (*models.ClientSession, error) {
	if _, err := s.requireOwned(ownerID, projectID); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetActiveProjectSession(projectID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: project has no active token", ErrNotFound)
	}
	return session, nil
}

// VerifyProjectToken resolves a guest credential to its session and project.
// It is unauthenticated; failures carry no detail.
func (s *ProjectService) VerifyProjectToken(token, password string) (*models.ClientSession, *models.Project, error) {
	session, err := s.sessions.VerifySessionAccess(token, password)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, fmt.Errorf("%w: invalid project token", ErrUnauthorized)
	}
	project, err := repository.GetProjectByID(s.db, session.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, fmt.Errorf("%w: invalid project token", ErrUnauthorized)
	}
	return session, project, nil
}

// RevokeProjectToken deactivates the project's live token.
func (s *ProjectService) RevokeProjectToken(ownerID, projectID uuid.UUID) (*models.ClientSession, error) {
	if _, err := s.requireOwned(ownerID, projectID); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetActiveProjectSession(projectID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: project has no active token", ErrNotFound)
	}
	return s.sessions.RevokeSession(session.ID)
}

// RefreshProjectToken pushes the live token's expiry forward.
func (s *ProjectService) RefreshProjectToken(ownerID, projectID uuid.UUID, expiresInDays int) (*models.ClientSession, error) {
	if _, err := s.requireOwned(ownerID, projectID); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetActiveProjectSession(projectID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: project has no active token", ErrNotFound)
	}
	return s.sessions.RefreshSessionExpiry(session.ID, expiresInDays)
}

// CleanupExpiredProjects deletes every project whose expired_date has passed
// and returns how many were removed. Failures on individual projects do not
// stop the sweep.
func (s *ProjectService) CleanupExpiredProjects(ctx context.Context) (int, error) {
	expired, err := repository.GetExpiredProjects(s.db, time.Now())
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := range expired {
		if err := s.teardown(ctx, &expired[i]); err != nil {
			continue
		}
		removed++
	}
	return removed, nil
}

// CountProjectPhotos exposes the photo count for response assembly.
func (s *ProjectService) CountProjectPhotos(projectID uuid.UUID) (int64, error) {
	return repository.CountPhotosByProject(s.db, projectID, nil)
}

func (s *ProjectService) teardown(ctx context.Context, project *models.Project) error {
	if _, err := s.sessions.DeleteProjectSessions(project.ID); err != nil {
		return err
	}
	deleted, err := repository.DeleteProject(s.db, project.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: project", ErrNotFound)
	}
	// Storage cleanup last; DB rows are gone even if the prefix sweep fails.
	if err := s.store.DeletePrefix(ctx, project.ID.String()+"/"); err != nil {
		return fmt.Errorf("failed to delete project objects: %w", err)
	}
	return nil
}

func (s *ProjectService) requireOwned(ownerID, projectID uuid.UUID) (*models.Project, error) {
	project, err := repository.GetProjectByID(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project", ErrNotFound)
	}
	if project.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: project belongs to another owner", ErrForbidden)
	}
	return project, nil
}
