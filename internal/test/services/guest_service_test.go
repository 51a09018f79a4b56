package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/services"
	"photoproof-backend/internal/storage"
	"photoproof-backend/internal/test/testutil"
)

type guestFixture struct {
	db      *gorm.DB
	store   *testutil.MemoryStorage
	guests  *services.GuestService
	project *models.Project
	token   string
}

func newGuestFixture(t *testing.T) *guestFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	store := testutil.NewMemoryStorage()
	sessions := services.NewSessionService(db)
	project := seedProject(t, db, "Wedding")

	session, err := sessions.CreateClientSession(project.ID, "", 0)
	require.NoError(t, err)

	return &guestFixture{
		db:      db,
		store:   store,
		guests:  services.NewGuestService(db, store, sessions),
		project: project,
		token:   session.Token,
	}
}

func (f *guestFixture) addPhoto(t *testing.T, filename string) *models.Photo {
	t.Helper()
	photo, err := repository.CreatePhoto(f.db, f.project.ID, filename)
	require.NoError(t, err)
	return photo
}

func TestSelectPhoto_PersistsFlagAndComment(t *testing.T) {
	f := newGuestFixture(t)
	photo := f.addPhoto(t, "a.jpg")

	err := f.guests.SelectPhoto(photo.ID, f.token, "", "love this one")
	assert.NoError(t, err)

	stored, err := repository.GetPhotoByID(f.db, photo.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsSelected)

	comments, err := repository.GetCommentsByPhoto(f.db, photo.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "love this one", comments[0].Content)
	assert.Equal(t, models.AuthorTypeClient, comments[0].AuthorType)
}

func TestUnselectPhoto_ClearsFlag(t *testing.T) {
	f := newGuestFixture(t)
	photo := f.addPhoto(t, "a.jpg")

	require.NoError(t, f.guests.SelectPhoto(photo.ID, f.token, "", ""))
	require.NoError(t, f.guests.UnselectPhoto(photo.ID, f.token, "", ""))

	stored, err := repository.GetPhotoByID(f.db, photo.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSelected)
}

func TestSelectPhoto_InvalidTokenUnauthorized(t *testing.T) {
	f := newGuestFixture(t)
	photo := f.addPhoto(t, "a.jpg")

	err := f.guests.SelectPhoto(photo.ID, "deadbeefdeadbeefdeadbeefdeadbeef", "", "")
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	stored, err := repository.GetPhotoByID(f.db, photo.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSelected)
}

func TestSelectPhoto_CommentFailureRollsBackSelection(t *testing.T) {
	f := newGuestFixture(t)
	photo := f.addPhoto(t, "a.jpg")

	// Break the comment write so the transaction fails after the flag flip.
	require.NoError(t, f.db.Migrator().DropTable(&models.PhotoComment{}))

	err := f.guests.SelectPhoto(photo.ID, f.token, "", "love this one")
	assert.Error(t, err)

	stored, err := repository.GetPhotoByID(f.db, photo.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSelected)
}

func TestSelectPhoto_CrossProjectIsNotFound(t *testing.T) {
	f := newGuestFixture(t)

	// A photo in a different project must look absent, never forbidden.
	otherOwner, err := repository.CreateUser(f.db, uuid.NewString(), "other@example.com", "Other")
	require.NoError(t, err)
	otherProject, err := repository.CreateProject(f.db, otherOwner.ID, "Portraits", "", "", nil)
	require.NoError(t, err)
	foreign, err := repository.CreatePhoto(f.db, otherProject.ID, "x.jpg")
	require.NoError(t, err)

	err = f.guests.SelectPhoto(foreign.ID, f.token, "", "")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.NotErrorIs(t, err, services.ErrForbidden)
}

func TestGetProjectPhotosGuest_ScopedToSessionProject(t *testing.T) {
	f := newGuestFixture(t)
	f.addPhoto(t, "a.jpg")
	f.addPhoto(t, "b.jpg")

	otherOwner, err := repository.CreateUser(f.db, uuid.NewString(), "other@example.com", "Other")
	require.NoError(t, err)
	otherProject, err := repository.CreateProject(f.db, otherOwner.ID, "Portraits", "", "", nil)
	require.NoError(t, err)
	_, err = repository.CreatePhoto(f.db, otherProject.ID, "foreign.jpg")
	require.NoError(t, err)

	photos, total, err := f.guests.GetProjectPhotosGuest(f.token, "", models.DefaultPagination(0, 20), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, photo := range photos {
		assert.NotEqual(t, "foreign.jpg", photo.Filename)
	}
}

func TestGetProjectPhotosGuest_EditedVersionFlag(t *testing.T) {
	f := newGuestFixture(t)
	withEdit := f.addPhoto(t, "a.jpg")
	f.addPhoto(t, "b.jpg")

	_, err := repository.CreatePhotoVersion(f.db, withEdit.ID, models.VersionEdited, "key")
	require.NoError(t, err)

	photos, _, err := f.guests.GetProjectPhotosGuest(f.token, "", models.DefaultPagination(0, 20), nil)
	require.NoError(t, err)
	require.Len(t, photos, 2)

	byName := map[string]bool{}
	for _, photo := range photos {
		byName[photo.Filename] = photo.EditedVersion
	}
	assert.True(t, byName["a.jpg"])
	assert.False(t, byName["b.jpg"])
}

func TestGetPhotoMetaByIDGuest_CommentsNewestFirst(t *testing.T) {
	f := newGuestFixture(t)
	photo := f.addPhoto(t, "a.jpg")

	require.NoError(t, f.guests.SelectPhoto(photo.ID, f.token, "", "first"))
	require.NoError(t, f.guests.UnselectPhoto(photo.ID, f.token, "", "changed my mind"))

	meta, err := f.guests.GetPhotoMetaByIDGuest(photo.ID, f.token, "")
	assert.NoError(t, err)
	require.Len(t, meta.Comments, 2)
	assert.Equal(t, "changed my mind", meta.Comments[0].Content)
}

func TestGetPhotoImageGuest_OriginalRoundTrip(t *testing.T) {
	f := newGuestFixture(t)
	photo := f.addPhoto(t, "a.jpg")

	original := []byte("jpeg-bytes-go-here")
	key := storage.ObjectKey(f.project.ID.String(), models.VersionOriginal, "a.jpg")
	require.NoError(t, f.store.Upload(context.Background(), key, original, "image/jpeg"))
	_, err := repository.CreatePhotoVersion(f.db, photo.ID, models.VersionOriginal, key)
	require.NoError(t, err)

	image, err := f.guests.GetPhotoImageGuest(context.Background(), photo.ID, f.token, "", models.VersionOriginal, 0, 0, false)
	assert.NoError(t, err)
	require.NotNil(t, image)
	assert.Equal(t, original, image.Data)
	assert.Equal(t, "image/jpeg", image.ContentType)
	assert.Equal(t, "a.jpg", image.Filename)
}

func TestGetPhotoImageGuest_MissingVersionIsNotFound(t *testing.T) {
	f := newGuestFixture(t)
	photo := f.addPhoto(t, "a.jpg")

	_, err := f.guests.GetPhotoImageGuest(context.Background(), photo.ID, f.token, "", models.VersionEdited, 0, 0, false)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
