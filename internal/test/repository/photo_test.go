package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/test/testutil"
)

func seedProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()
	user, err := repository.CreateUser(db, uuid.NewString(), "owner@example.com", "Owner")
	require.NoError(t, err)
	project, err := repository.CreateProject(db, user.ID, "Wedding", "", "", nil)
	require.NoError(t, err)
	return project
}

func TestGetPhotoByFilenameWithVariant_ExactMatch(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)

	base, err := repository.CreatePhoto(db, project.ID, "IMG_1.JPG")
	require.NoError(t, err)

	found, err := repository.GetPhotoByFilenameWithVariant(db, project.ID, "IMG_1.JPG")
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, base.ID, found.ID)
}

func TestGetPhotoByFilenameWithVariant_SuffixResolvesToBase(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)

	base, err := repository.CreatePhoto(db, project.ID, "IMG_1.JPG")
	require.NoError(t, err)

	found, err := repository.GetPhotoByFilenameWithVariant(db, project.ID, "IMG_1_edited.JPG")
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, base.ID, found.ID)
}

func TestGetPhotoByFilenameWithVariant_UnknownReturnsNil(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)

	_, err := repository.CreatePhoto(db, project.ID, "IMG_1.JPG")
	require.NoError(t, err)

	found, err := repository.GetPhotoByFilenameWithVariant(db, project.ID, "IMG_unknown.JPG")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetPhotoByFilenameWithVariant_ScopedToProject(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)
	other := seedOtherProject(t, db)

	_, err := repository.CreatePhoto(db, other.ID, "IMG_1.JPG")
	require.NoError(t, err)

	found, err := repository.GetPhotoByFilenameWithVariant(db, project.ID, "IMG_1_edited.JPG")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func seedOtherProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()
	user, err := repository.CreateUser(db, uuid.NewString(), "other@example.com", "Other")
	require.NoError(t, err)
	project, err := repository.CreateProject(db, user.ID, "Portraits", "", "", nil)
	require.NoError(t, err)
	return project
}

func TestGetPhotosByProject_SelectionFilterAndCount(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)

	a, err := repository.CreatePhoto(db, project.ID, "a.jpg")
	require.NoError(t, err)
	_, err = repository.CreatePhoto(db, project.ID, "b.jpg")
	require.NoError(t, err)

	require.NoError(t, repository.SetPhotoSelected(db, a.ID, true))

	selected := true
	photos, err := repository.GetPhotosByProject(db, project.ID, models.DefaultPagination(0, 20), &selected)
	assert.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "a.jpg", photos[0].Filename)

	count, err := repository.CountPhotosByProject(db, project.ID, &selected)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	total, err := repository.CountPhotosByProject(db, project.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGetPhotosByProject_SortKeyWhitelist(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)

	_, err := repository.CreatePhoto(db, project.ID, "b.jpg")
	require.NoError(t, err)
	_, err = repository.CreatePhoto(db, project.ID, "a.jpg")
	require.NoError(t, err)

	p := models.DefaultPagination(0, 20)
	p.SortBy = "filename"
	photos, err := repository.GetPhotosByProject(db, project.ID, p, nil)
	assert.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, "a.jpg", photos[0].Filename)

	// Unknown sort keys fall back to the default instead of reaching SQL.
	p.SortBy = "filename; DROP TABLE photos"
	photos, err = repository.GetPhotosByProject(db, project.ID, p, nil)
	assert.NoError(t, err)
	assert.Len(t, photos, 2)
}

func TestCreatePhotoVersion_GetOrCreate(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)

	photo, err := repository.CreatePhoto(db, project.ID, "a.jpg")
	require.NoError(t, err)

	first, err := repository.CreatePhotoVersion(db, photo.ID, models.VersionEdited, "key-1")
	require.NoError(t, err)

	// A second create for the same type returns the existing row unchanged.
	second, err := repository.CreatePhotoVersion(db, photo.ID, models.VersionEdited, "key-2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "key-1", second.ImageURL)
}

func TestEditedVersionSet(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)

	withEdit, err := repository.CreatePhoto(db, project.ID, "a.jpg")
	require.NoError(t, err)
	plain, err := repository.CreatePhoto(db, project.ID, "b.jpg")
	require.NoError(t, err)

	_, err = repository.CreatePhotoVersion(db, withEdit.ID, models.VersionEdited, "key")
	require.NoError(t, err)

	set, err := repository.EditedVersionSet(db, []uuid.UUID{withEdit.ID, plain.ID})
	assert.NoError(t, err)
	assert.True(t, set[withEdit.ID])
	assert.False(t, set[plain.ID])
}

func TestGetCommentsByPhoto_NewestFirst(t *testing.T) {
	db := testutil.OpenDB(t)
	project := seedProject(t, db)

	photo, err := repository.CreatePhoto(db, project.ID, "a.jpg")
	require.NoError(t, err)

	for _, content := range []string{"first", "second", "third"} {
		_, err := repository.CreatePhotoComment(db, photo.ID, models.AuthorTypeClient, content)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	comments, err := repository.GetCommentsByPhoto(db, photo.ID, 0, 10)
	assert.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "first", comments[2].Content)

	latest, err := repository.LatestCommentByPhoto(db, photo.ID)
	assert.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "third", latest.Content)
}
