package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/listnorm"
)

type stubStorage struct {
	url string
	err error
}

func (s stubStorage) SaveImage(*multipart.FileHeader) (string, error) { return s.url, s.err }

func (s stubStorage) DeleteFile(string) error { return nil }

func newProfileService(w *world, storage stubStorage) ProfileService {
	return NewProfileService(fakeUsers{w}, fakeEvents{w}, fakeRegistrations{w}, storage, testLogger)
}

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	w := newWorld()
	w.addUser("ann")
	for i, id := range []string{"e1", "e2", "e3", "e4"} {
		w.addEvent(id, "ann", time.Duration(i)*time.Hour)
	}
	w.addEvent("e5", "org", time.Hour)
	w.judges["e5"] = map[string]bool{"ann": true}
	w.register("e5", "ann")

	resp, err := newProfileService(w, stubStorage{}).GetProfile(context.Background(), "ann")
	require.NoError(t, err)

	assert.Equal(t, dto.ProfileCounts{Registrations: 1, OrganizedEvents: 4, JudgedEvents: 1}, resp.Counts)
	assert.Len(t, resp.RecentOrganized, 3)
	require.Len(t, resp.RecentJudged, 1)
	assert.Equal(t, "e5", resp.RecentJudged[0].ID)
	assert.Equal(t, []string{}, resp.Skills)
}

func TestUpdateProfile(t *testing.T) {
	w := newWorld()
	w.addUser("ann")
	svc := newProfileService(w, stubStorage{})

	resp, err := svc.UpdateProfile(context.Background(), "ann", &dto.UpdateProfileRequest{
		Bio:    strPtr("  Builds compilers  "),
		Skills: listnorm.FlexibleList{Values: []string{"go", "sql"}, Present: true},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Bio)
	assert.Equal(t, "Builds compilers", *resp.Bio)
	assert.Equal(t, []string{"go", "sql"}, resp.Skills)
	assert.Equal(t, "ANN", resp.Name)
}

func TestUpdateProfileWithoutFields(t *testing.T) {
	w := newWorld()
	w.addUser("ann")

	_, err := newProfileService(w, stubStorage{}).UpdateProfile(context.Background(), "ann", &dto.UpdateProfileRequest{Name: strPtr("   ")})
	assert.ErrorIs(t, err, ErrNoProfileFields)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestDeleteProfile(t *testing.T) {
	w := newWorld()
	w.addUser("ann")
	w.addUser("bob")
	w.addEvent("e1", "ann", time.Hour)
	w.register("e1", "bob")
	svc := newProfileService(w, stubStorage{})

	err := svc.DeleteProfile(context.Background(), "ann")
	require.ErrorIs(t, err, apperrors.ErrConflict)
	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, 1, custom.Details["organizedEvents"])
	assert.Contains(t, w.users, "ann")

	require.NoError(t, svc.DeleteProfile(context.Background(), "bob"))
	assert.NotContains(t, w.users, "bob")
	assert.Empty(t, w.regs)

	assert.ErrorIs(t, svc.DeleteProfile(context.Background(), "bob"), ErrUserNotFound)
}

func TestFindByEmail(t *testing.T) {
	w := newWorld()
	w.addUser("ann")
	svc := newProfileService(w, stubStorage{})

	resp, err := svc.FindByEmail(context.Background(), " ANN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ann", resp.ID)

	_, err = svc.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.FindByEmail(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDashboard(t *testing.T) {
	w := newWorld()
	w.addUser("ann")
	w.addEvent("e1", "org", time.Hour)
	w.addEvent("e2", "ann", 2*time.Hour)
	w.addEvent("e3", "org", 3*time.Hour)
	w.register("e1", "ann")
	w.register("e2", "bob")
	w.judges["e3"] = map[string]bool{"ann": true}

	resp, err := newProfileService(w, stubStorage{}).Dashboard(context.Background(), "ann")
	require.NoError(t, err)

	require.Len(t, resp.Registrations, 1)
	assert.Equal(t, "e1", resp.Registrations[0].Event.ID)
	require.Len(t, resp.Organized, 1)
	assert.Equal(t, 1, resp.Organized[0].RegistrationCount)
	require.Len(t, resp.Judging, 1)
	assert.Equal(t, "e3", resp.Judging[0].ID)
}

func TestUpload(t *testing.T) {
	svc := newProfileService(newWorld(), stubStorage{url: "http://localhost:8080/uploads/a.png"})
	resp, err := svc.Upload(context.Background(), "ann", &multipart.FileHeader{Filename: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/a.png", resp.URL)

	rejected := apperrors.NewValidationError("file", "unsupported image type")
	svc = newProfileService(newWorld(), stubStorage{err: rejected})
	_, err = svc.Upload(context.Background(), "ann", &multipart.FileHeader{Filename: "a.exe"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
