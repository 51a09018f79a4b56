package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/storage"
)

// GuestService covers the client-facing operations behind a project access
// token. Every call re-verifies the token; nothing is cached across requests.
// Photos outside the session's project are reported as not found, never as
// forbidden.
type GuestService struct {
	db       *gorm.DB
	store    storage.ObjectStorage
	sessions *SessionService
}

func NewGuestService(db *gorm.DB, store storage.ObjectStorage, sessions *SessionService) *GuestService {
	return &GuestService{db: db, store: store, sessions: sessions}
}

// GetPhotoImageGuest streams a photo rendition to a token holder.
func (s *GuestService) GetPhotoImageGuest(ctx context.Context, photoID uuid.UUID, token, password, version string, width, height int, thumbnail bool) (*PhotoImage, error) {
	_, photo, err := s.authorizePhoto(token, password, photoID)
	if err != nil {
		return nil, err
	}
	return fetchPhotoImage(ctx, s.db, s.store, photo, version, width, height, thumbnail)
}

// SelectPhoto marks a photo as chosen and optionally records a comment. The
// flag flip and the comment persist atomically.
func (s *GuestService) SelectPhoto(photoID uuid.UUID, token, password, comment string) error {
	return s.setSelection(photoID, token, password, comment, true)
}

// UnselectPhoto clears the selection, with the same comment semantics as
// SelectPhoto.
func (s *GuestService) UnselectPhoto(photoID uuid.UUID, token, password, comment string) error {
	return s.setSelection(photoID, token, password, comment, false)
}

func (s *GuestService) setSelection(photoID uuid.UUID, token, password, comment string, selected bool) error {
	_, photo, err := s.authorizePhoto(token, password, photoID)
	if err != nil {
		return err
	}
	if len(comment) > 500 {
		return fmt.Errorf("%w: comment exceeds 500 characters", ErrValidation)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.SetPhotoSelected(tx, photo.ID, selected); err != nil {
			return err
		}
		if comment != "" {
			if _, err := repository.CreatePhotoComment(tx, photo.ID, models.AuthorTypeClient, comment); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetProjectPhotosGuest lists the session's project photos with the
// edited-version flag per photo.
func (s *GuestService) GetProjectPhotosGuest(token, password string, p models.Pagination, isSelected *bool) ([]models.PhotoResponse, int64, error) {
	session, err := s.authorize(token, password)
	if err != nil {
		return nil, 0, err
	}
	return listProjectPhotos(s.db, session.ProjectID, p, isSelected)
}

// GetPhotoMetaByIDGuest returns a photo with all of its comments, newest
// first.
func (s *GuestService) GetPhotoMetaByIDGuest(photoID uuid.UUID, token, password string) (*models.PhotoMetaResponse, error) {
	_, photo, err := s.authorizePhoto(token, password, photoID)
	if err != nil {
		return nil, err
	}
	return buildPhotoMeta(s.db, photo)
}

func (s *GuestService) authorize(token, password string) (*models.ClientSession, error) {
	session, err := s.sessions.VerifySessionAccess(token, password)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: invalid project token", ErrUnauthorized)
	}
	return session, nil
}

// authorizePhoto resolves the session and the photo, requiring the photo to
// belong to the session's project.
func (s *GuestService) authorizePhoto(token, password string, photoID uuid.UUID) (*models.ClientSession, *models.Photo, error) {
	session, err := s.authorize(token, password)
	if err != nil {
		return nil, nil, err
	}
	photo, err := repository.GetPhotoByID(s.db, photoID)
	if err != nil {
		return nil, nil, err
	}
	if photo == nil || photo.ProjectID != session.ProjectID {
		return nil, nil, fmt.Errorf("%w: photo", ErrNotFound)
	}
	return session, photo, nil
}
