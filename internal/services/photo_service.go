package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/imaging"
	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/storage"
)

// PhotoImage is a fetched rendition ready to stream to the client.
type PhotoImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// PhotoService covers the owner-facing photo operations: uploads, listing,
// and image retrieval.
type PhotoService struct {
	db             *gorm.DB
	store          storage.ObjectStorage
	maxUploadBytes int64
}

func NewPhotoService(db *gorm.DB, store storage.ObjectStorage, maxUploadBytes int64) *PhotoService {
	return &PhotoService{db: db, store: store, maxUploadBytes: maxUploadBytes}
}

// UploadPhoto registers a new original photo. Only JPEG files are accepted,
// and the filename must be unique within the project.
func (s *PhotoService) UploadPhoto(ctx context.Context, ownerID, projectID uuid.UUID, filename, contentType string, data []byte) (*models.Photo, error) {
	project, err := s.requireOwnedProject(ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.validateUpload(filename, contentType, data); err != nil {
		return nil, err
	}

	exists, err := repository.PhotoExistsByFilename(s.db, project.ID, filename)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: photo %q already exists in project", ErrConflict, filename)
	}

	key := storage.ObjectKey(project.ID.String(), models.VersionOriginal, filename)
	if err := s.store.Upload(ctx, key, data, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	var photo *models.Photo
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		photo, txErr = repository.CreatePhoto(tx, project.ID, filename)
		if txErr != nil {
			return txErr
		}
		_, txErr = repository.CreatePhotoVersion(tx, photo.ID, models.VersionOriginal, key)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// UploadEditedPhoto attaches an edited rendition to an already-registered
// photo. The incoming filename may carry a variant suffix and is resolved
// back to the base photo, which must have been selected by the client.
func (s *PhotoService) UploadEditedPhoto(ctx context.Context, ownerID, projectID uuid.UUID, filename, contentType string, data []byte) (*models.Photo, error) {
	project, err := s.requireOwnedProject(ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.validateUpload(filename, contentType, data); err != nil {
		return nil, err
	}

	photo, err := repository.GetPhotoByFilenameWithVariant(s.db, project.ID, filename)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("%w: no base photo for %q", ErrNotFound, filename)
	}
	if !photo.IsSelected {
		return nil, fmt.Errorf("%w: base photo %q is not selected", ErrValidation, photo.Filename)
	}

	key := storage.ObjectKey(project.ID.String(), models.VersionEdited, filename)
	if err := s.store.Upload(ctx, key, data, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("failed to store edited photo: %w", err)
	}

	if _, err := repository.CreatePhotoVersion(s.db, photo.ID, models.VersionEdited, key); err != nil {
		return nil, err
	}
	return photo, nil
}

// GetPhotoImage streams a rendition of an owned photo.
func (s *PhotoService) GetPhotoImage(ctx context.Context, ownerID, photoID uuid.UUID, version string, width, height int, thumbnail bool) (*PhotoImage, error) {
	photo, err := repository.GetPhotoByID(s.db, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("%w: photo", ErrNotFound)
	}
	if _, err := s.requireOwnedProject(ownerID, photo.ProjectID); err != nil {
		return nil, err
	}
	return fetchPhotoImage(ctx, s.db, s.store, photo, version, width, height, thumbnail)
}

// GetProjectPhotos lists an owned project's photos with the per-photo
// edited-version flag resolved in one query.
func (s *PhotoService) GetProjectPhotos(ownerID, projectID uuid.UUID, p models.Pagination, isSelected *bool) ([]models.PhotoResponse, int64, error) {
	project, err := s.requireOwnedProject(ownerID, projectID)
	if err != nil {
		return nil, 0, err
	}
	return listProjectPhotos(s.db, project.ID, p, isSelected)
}

// GetPhotoMeta returns an owned photo together with all of its comments,
// newest first.
func (s *PhotoService) GetPhotoMeta(ownerID, photoID uuid.UUID) (*models.PhotoMetaResponse, error) {
	photo, err := repository.GetPhotoByID(s.db, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("%w: photo", ErrNotFound)
	}
	if _, err := s.requireOwnedProject(ownerID, photo.ProjectID); err != nil {
		return nil, err
	}
	return buildPhotoMeta(s.db, photo)
}

// SetPhotoFlags updates the owner-controlled approval flags and returns the
// photo together with its edited-version flag.
func (s *PhotoService) SetPhotoFlags(ownerID, photoID uuid.UUID, approved, rejected *bool) (*models.Photo, bool, error) {
	photo, err := repository.GetPhotoByID(s.db, photoID)
	if err != nil {
		return nil, false, err
	}
	if photo == nil {
		return nil, false, fmt.Errorf("%w: photo", ErrNotFound)
	}
	if _, err := s.requireOwnedProject(ownerID, photo.ProjectID); err != nil {
		return nil, false, err
	}

	updates := map[string]interface{}{}
	if approved != nil {
		updates["is_approved"] = *approved
		photo.IsApproved = *approved
	}
	if rejected != nil {
		updates["is_rejected"] = *rejected
		photo.IsRejected = *rejected
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.Photo{}).Where("id = ?", photo.ID).Updates(updates).Error; err != nil {
			return nil, false, fmt.Errorf("failed to update photo flags: %w", err)
		}
	}

	hasEdited, err := repository.PhotoHasEditedVersion(s.db, photo.ID)
	if err != nil {
		return nil, false, err
	}
	return photo, hasEdited, nil
}

func (s *PhotoService) requireOwnedProject(ownerID, projectID uuid.UUID) (*models.Project, error) {
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

func (s *PhotoService) validateUpload(filename, contentType string, data []byte) error {
	ext := strings.ToLower(path.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("%w: only .jpg/.jpeg files are accepted", ErrValidation)
	}
	if contentType != "" && contentType != "image/jpeg" {
		return fmt.Errorf("%w: unsupported content type %q", ErrValidation, contentType)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, s.maxUploadBytes)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty file", ErrValidation)
	}
	return nil
}

// listProjectPhotos is shared by the owner and guest listing paths. The
// project scoping is the caller's responsibility.
func listProjectPhotos(db *gorm.DB, projectID uuid.UUID, p models.Pagination, isSelected *bool) ([]models.PhotoResponse, int64, error) {
	photos, err := repository.GetPhotosByProject(db, projectID, p, isSelected)
	if err != nil {
		return nil, 0, err
	}
	total, err := repository.CountPhotosByProject(db, projectID, isSelected)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(photos))
	for i := range photos {
		ids[i] = photos[i].ID
	}
	editedSet, err := repository.EditedVersionSet(db, ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.PhotoResponse, len(photos))
	for i := range photos {
		responses[i] = models.NewPhotoResponse(&photos[i], editedSet[photos[i].ID])
	}
	return responses, total, nil
}

func buildPhotoMeta(db *gorm.DB, photo *models.Photo) (*models.PhotoMetaResponse, error) {
	total, err := repository.CountCommentsByPhoto(db, photo.ID)
	if err != nil {
		return nil, err
	}
	comments, err := repository.GetCommentsByPhoto(db, photo.ID, 0, int(total))
	if err != nil {
		return nil, err
	}

	hasEdited, err := repository.PhotoHasEditedVersion(db, photo.ID)
	if err != nil {
		return nil, err
	}

	meta := &models.PhotoMetaResponse{
		PhotoResponse: models.NewPhotoResponse(photo, hasEdited),
		Comments:      make([]models.CommentResponse, len(comments)),
	}
	for i := range comments {
		meta.Comments[i] = models.NewCommentResponse(&comments[i])
	}
	return meta, nil
}

// fetchPhotoImage resolves the version row and streams the bytes. Thumbnails
// come back as WebP and are cached in storage next to the source rendition;
// plain requests are JPEG, resized on the fly when dimensions are given. A
// resize failure falls back to the original bytes rather than erroring.
func fetchPhotoImage(ctx context.Context, db *gorm.DB, store storage.ObjectStorage, photo *models.Photo, version string, width, height int, thumbnail bool) (*PhotoImage, error) {
	if !models.ValidVersionType(version) {
		return nil, fmt.Errorf("%w: unknown version type %q", ErrValidation, version)
	}

	row, err := repository.GetPhotoVersion(db, photo.ID, version)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: photo has no %s version", ErrNotFound, version)
	}

	if thumbnail {
		return fetchThumbnail(ctx, store, photo, row, version, width, height)
	}

	data, err := store.Download(ctx, row.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: photo bytes missing from storage", ErrNotFound)
	}

	if width > 0 || height > 0 {
		resized, resizeErr := imaging.Resize(data, width, height)
		if resizeErr == nil {
			data = resized
		}
	}

	return &PhotoImage{Data: data, ContentType: "image/jpeg", Filename: photo.Filename}, nil
}

// fetchThumbnail serves the WebP rendition. The cache holds the unresized
// conversion only; the requested dimensions are applied per request so two
// requests with different sizes never see each other's output.
func fetchThumbnail(ctx context.Context, store storage.ObjectStorage, photo *models.Photo, row *models.PhotoVersion, version string, width, height int) (*PhotoImage, error) {
	stem := strings.TrimSuffix(photo.Filename, path.Ext(photo.Filename))
	thumbKey := storage.ObjectKey(photo.ProjectID.String(), version, stem+".webp")
	thumbName := stem + ".webp"

	webpData, err := store.Download(ctx, thumbKey)
	if err != nil || webpData == nil {
		data, err := store.Download(ctx, row.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to download photo: %w", err)
		}
		if data == nil {
			return nil, fmt.Errorf("%w: photo bytes missing from storage", ErrNotFound)
		}

		webpData, err = imaging.ToWebP(data, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to build thumbnail: %w", err)
		}

		// Best effort cache write; the response does not depend on it.
		_ = store.Upload(ctx, thumbKey, webpData, "image/webp")
	}

	if width > 0 || height > 0 {
		resized, resizeErr := imaging.ToWebP(webpData, width, height)
		if resizeErr == nil {
			webpData = resized
		}
	}

	return &PhotoImage{Data: webpData, ContentType: "image/webp", Filename: thumbName}, nil
}
