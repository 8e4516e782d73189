package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openhacks/internal/app/auth"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

func newRegistrationService(w *world) RegistrationService {
	return NewRegistrationService(fakeEvents{w}, fakeRegistrations{w}, fakeTeams{w}, fakeUsers{w}, w.authz(), testClock, testLogger)
}

func TestRegister(t *testing.T) {
	w := newWorld()
	w.addUser("ann")
	w.addEvent("e1", "org", time.Hour)
	svc := newRegistrationService(w)

	resp, err := svc.Register(context.Background(), "ann", "e1")
	require.NoError(t, err)
	assert.Equal(t, "ann", resp.UserID)
	assert.Equal(t, "ANN", resp.User.Name)

	_, err = svc.Register(context.Background(), "ann", "e1")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Register(context.Background(), "ann", "missing")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUnregisterWithdrawsFromTeams(t *testing.T) {
	w := newWorld()
	for _, id := range []string{"ann", "bob"} {
		w.addUser(id)
	}
	w.addEvent("e1", "org", time.Hour)
	w.register("e1", "ann")
	w.register("e1", "bob")
	w.addTeam("t1", "e1", "ann")
	w.addMember("t1", "bob")
	w.invites["i1"] = &models.TeamInvite{ID: "i1", TeamID: "t1", InviterID: "ann", InviteeID: "bob", Status: models.InvitePending}
	svc := newRegistrationService(w)

	require.NoError(t, svc.Unregister(context.Background(), "bob", "e1"))

	registered, err := svc.IsRegistered(context.Background(), "bob", "e1")
	require.NoError(t, err)
	assert.False(t, registered)
	assert.False(t, w.isMember("t1", "bob"))
	assert.Equal(t, models.InviteDeclined, w.invites["i1"].Status)
}

func TestUnregisterAfterStart(t *testing.T) {
	w := newWorld()
	for _, id := range []string{"ann", "bob", "cat"} {
		w.addUser(id)
	}
	w.addEvent("e1", "org", -time.Hour)
	for _, id := range []string{"ann", "bob", "cat"} {
		w.register("e1", id)
	}
	w.addTeam("t1", "e1", "ann")
	w.addMember("t1", "bob")
	svc := newRegistrationService(w)

	err := svc.Unregister(context.Background(), "bob", "e1")
	assert.ErrorIs(t, err, apperrors.ErrEventStarted)
	assert.True(t, w.isMember("t1", "bob"))
	assert.Contains(t, w.regs, regKey("e1", "bob"))

	// Without a team there is nothing to lock
	require.NoError(t, svc.Unregister(context.Background(), "cat", "e1"))
	assert.NotContains(t, w.regs, regKey("e1", "cat"))
}

func TestUnregisterBlockedForTeamOwner(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)
	w.register("e1", "ann")
	w.addTeam("t1", "e1", "ann")

	err := newRegistrationService(w).Unregister(context.Background(), "ann", "e1")
	assert.ErrorIs(t, err, ErrOwnsTeam)
	assert.Contains(t, w.regs, regKey("e1", "ann"))
}

func TestUnregisterWithoutRegistration(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)

	err := newRegistrationService(w).Unregister(context.Background(), "ann", "e1")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestIsRegisteredAnonymous(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)

	registered, err := newRegistrationService(w).IsRegistered(context.Background(), "", "e1")
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestListRegistrationsRequiresStaff(t *testing.T) {
	w := newWorld()
	w.addUser("ann")
	w.addEvent("e1", "org", time.Hour)
	w.judges["e1"] = map[string]bool{"jay": true}
	w.register("e1", "ann")
	svc := newRegistrationService(w)

	_, err := svc.ListRegistrations(context.Background(), "ann", "e1")
	assert.ErrorIs(t, err, auth.ErrNotStaff)

	for _, caller := range []string{"org", "jay"} {
		regs, err := svc.ListRegistrations(context.Background(), caller, "e1")
		require.NoError(t, err)
		require.Len(t, regs, 1)
		assert.Equal(t, "ann", regs[0].User.ID)
	}
}
