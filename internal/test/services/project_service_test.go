package services_test

import (
	"context"
	"testing"
	"time"

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

type projectFixture struct {
	db    *gorm.DB
	store *testutil.MemoryStorage
	svc   *services.ProjectService
	owner *models.User
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	store := testutil.NewMemoryStorage()
	sessions := services.NewSessionService(db)

	owner, err := repository.CreateUser(db, uuid.NewString(), "owner@example.com", "Owner")
	require.NoError(t, err)

	return &projectFixture{
		db:    db,
		store: store,
		svc:   services.NewProjectService(db, store, sessions),
		owner: owner,
	}
}

func TestCreateProject_DuplicateTitleConflicts(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding"})
	require.NoError(t, err)

	_, err = f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding"})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestCreateProject_InvalidStatusRejected(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding", Status: "archived"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetProject_ForeignOwnerForbidden(t *testing.T) {
	f := newProjectFixture(t)

	project, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding"})
	require.NoError(t, err)

	_, err = f.svc.GetProject(uuid.New(), project.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestCreateProjectToken_OwnerGate(t *testing.T) {
	f := newProjectFixture(t)

	project, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding"})
	require.NoError(t, err)

	_, err = f.svc.CreateProjectToken(uuid.New(), models.CreateProjectTokenRequest{ProjectID: project.ID})
	assert.ErrorIs(t, err, services.ErrForbidden)

	session, err := f.svc.CreateProjectToken(f.owner.ID, models.CreateProjectTokenRequest{ProjectID: project.ID, Password: "hunter2"})
	assert.NoError(t, err)
	assert.True(t, session.HasPassword())
}

func TestVerifyProjectToken_ResolvesSessionAndProject(t *testing.T) {
	f := newProjectFixture(t)

	project, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding"})
	require.NoError(t, err)
	created, err := f.svc.CreateProjectToken(f.owner.ID, models.CreateProjectTokenRequest{ProjectID: project.ID})
	require.NoError(t, err)

	session, resolved, err := f.svc.VerifyProjectToken(created.Token, "")
	assert.NoError(t, err)
	assert.Equal(t, project.ID, session.ProjectID)
	assert.Equal(t, "Wedding", resolved.Title)

	_, _, err = f.svc.VerifyProjectToken("deadbeefdeadbeefdeadbeefdeadbeef", "")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestDeleteProject_RemovesSessionsAndObjects(t *testing.T) {
	f := newProjectFixture(t)

	project, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Wedding"})
	require.NoError(t, err)
	created, err := f.svc.CreateProjectToken(f.owner.ID, models.CreateProjectTokenRequest{ProjectID: project.ID})
	require.NoError(t, err)

	key := storage.ObjectKey(project.ID.String(), models.VersionOriginal, "a.jpg")
	require.NoError(t, f.store.Upload(context.Background(), key, []byte("jpeg-bytes"), "image/jpeg"))

	require.NoError(t, f.svc.DeleteProject(context.Background(), f.owner.ID, project.ID))

	assert.Equal(t, 0, f.store.Len())
	_, err = f.svc.GetProject(f.owner.ID, project.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, _, err = f.svc.VerifyProjectToken(created.Token, "")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestCleanupExpiredProjects(t *testing.T) {
	f := newProjectFixture(t)

	fresh, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Fresh", ExpiredDays: 30})
	require.NoError(t, err)

	expired, err := f.svc.CreateProject(f.owner.ID, models.CreateProjectRequest{Title: "Stale"})
	require.NoError(t, err)
	past := time.Now().Add(-24 * time.Hour)
	require.NoError(t, f.db.Model(&models.Project{}).Where("id = ?", expired.ID).Update("expired_date", past).Error)

	removed, err := f.svc.CleanupExpiredProjects(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = f.svc.GetProject(f.owner.ID, fresh.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetProject(f.owner.ID, expired.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
