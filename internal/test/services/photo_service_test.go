package services_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/services"
	"photoproof-backend/internal/storage"
)

const testMaxUpload = 10 * 1024 * 1024

func newPhotoFixture(t *testing.T) (*services.PhotoService, *projectFixture, *models.Project) {
	t.Helper()
	f := newProjectFixture(t)
	svc := services.NewPhotoService(f.db, f.store, testMaxUpload)

	project, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding"})
	require.NoError(t, err)
	return svc, f, project
}

func TestUploadPhoto_StoresBytesAndVersionRow(t *testing.T) {
	svc, f, project := newPhotoFixture(t)

	photo, err := svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.jpg", "image/jpeg", []byte("jpeg-bytes"))
	assert.NoError(t, err)
	require.NotNil(t, photo)

	version, err := repository.GetPhotoVersion(f.db, photo.ID, models.VersionOriginal)
	require.NoError(t, err)
	require.NotNil(t, version)

	key := storage.ObjectKey(project.ID.String(), models.VersionOriginal, "a.jpg")
	data, err := f.store.Download(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestUploadPhoto_DuplicateFilenameConflicts(t *testing.T) {
	svc, f, project := newPhotoFixture(t)

	_, err := svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.jpg", "image/jpeg", []byte("x"))
	require.NoError(t, err)

	_, err = svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.jpg", "image/jpeg", []byte("y"))
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestUploadPhoto_RejectsNonJPEG(t *testing.T) {
	svc, f, project := newPhotoFixture(t)

	_, err := svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.png", "image/png", []byte("x"))
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.jpg", "image/png", []byte("x"))
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.jpg", "image/jpeg", nil)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestUploadPhoto_SizeLimit(t *testing.T) {
	f := newProjectFixture(t)
	svc := services.NewPhotoService(f.db, f.store, 8)

	project, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding"})
	require.NoError(t, err)

	_, err = svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.jpg", "image/jpeg", []byte("way too large"))
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestUploadEditedPhoto_ResolvesVariantSuffix(t *testing.T) {
	svc, f, project := newPhotoFixture(t)

	base, err := svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "IMG_1.JPG", "image/jpeg", []byte("orig"))
	require.NoError(t, err)
	require.NoError(t, repository.SetPhotoSelected(f.db, base.ID, true))

	photo, err := svc.UploadEditedPhoto(context.Background(), f.owner.ID, project.ID, "IMG_1_edited.JPG", "image/jpeg", []byte("edited"))
	assert.NoError(t, err)
	assert.Equal(t, base.ID, photo.ID)

	version, err := repository.GetPhotoVersion(f.db, base.ID, models.VersionEdited)
	require.NoError(t, err)
	require.NotNil(t, version)
}

func TestUploadEditedPhoto_RequiresSelectedBase(t *testing.T) {
	svc, f, project := newPhotoFixture(t)

	_, err := svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "IMG_1.JPG", "image/jpeg", []byte("orig"))
	require.NoError(t, err)

	_, err = svc.UploadEditedPhoto(context.Background(), f.owner.ID, project.ID, "IMG_1_edited.JPG", "image/jpeg", []byte("edited"))
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestUploadEditedPhoto_UnknownBaseNotFound(t *testing.T) {
	svc, f, project := newPhotoFixture(t)

	_, err := svc.UploadEditedPhoto(context.Background(), f.owner.ID, project.ID, "IMG_unknown.JPG", "image/jpeg", []byte("edited"))
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil))
	return buf.Bytes()
}

func decodeWebP(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := webp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestGetPhotoImage_ThumbnailResizedPerRequest(t *testing.T) {
	svc, f, project := newPhotoFixture(t)

	photo, err := svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.jpg", "image/jpeg", makeJPEG(t, 400, 400))
	require.NoError(t, err)

	first, err := svc.GetPhotoImage(context.Background(), f.owner.ID, photo.ID, models.VersionOriginal, 100, 100, true)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", first.ContentType)
	assert.Equal(t, "a.webp", first.Filename)
	assert.Equal(t, image.Pt(100, 100), decodeWebP(t, first.Data).Bounds().Size())

	// A later request with other dimensions gets its own size, not the
	// first request's bytes.
	second, err := svc.GetPhotoImage(context.Background(), f.owner.ID, photo.ID, models.VersionOriginal, 300, 300, true)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(300, 300), decodeWebP(t, second.Data).Bounds().Size())

	// Without dimensions the full-size conversion comes back.
	plain, err := svc.GetPhotoImage(context.Background(), f.owner.ID, photo.ID, models.VersionOriginal, 0, 0, true)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(400, 400), decodeWebP(t, plain.Data).Bounds().Size())

	// The cache itself holds the unresized conversion.
	thumbKey := storage.ObjectKey(project.ID.String(), models.VersionOriginal, "a.webp")
	cached, err := f.store.Download(context.Background(), thumbKey)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, image.Pt(400, 400), decodeWebP(t, cached).Bounds().Size())
}

func TestSetPhotoFlags_ReportsEditedVersion(t *testing.T) {
	svc, f, project := newPhotoFixture(t)

	photo, err := svc.UploadPhoto(context.Background(), f.owner.ID, project.ID, "a.jpg", "image/jpeg", []byte("orig"))
	require.NoError(t, err)
	_, err = repository.CreatePhotoVersion(f.db, photo.ID, models.VersionEdited, "key")
	require.NoError(t, err)

	approved := true
	updated, hasEdited, err := svc.SetPhotoFlags(f.owner.ID, photo.ID, &approved, nil)
	assert.NoError(t, err)
	assert.True(t, hasEdited)
	assert.True(t, updated.IsApproved)

	stored, err := repository.GetPhotoByID(f.db, photo.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)
}
