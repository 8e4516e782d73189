package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openhacks/internal/app/auth"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/helpers"
	"github.com/yigit/openhacks/internal/pkg/listnorm"
	"github.com/yigit/openhacks/internal/pkg/search"
)

type stubIndex struct {
	enabled   bool
	indexed   []search.EventDocument
	deleted   []string
	ids       []string
	searchErr error
	indexErr  error
}

func (s *stubIndex) Enabled() bool { return s.enabled }

func (s *stubIndex) IndexEvent(_ context.Context, doc search.EventDocument) error {
	s.indexed = append(s.indexed, doc)
	return s.indexErr
}

func (s *stubIndex) DeleteEvent(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubIndex) SearchEvents(context.Context, string, int) ([]string, error) {
	return s.ids, s.searchErr
}

func newEventService(w *world, idx search.Index) EventService {
	return NewEventService(fakeEvents{w}, fakeUsers{w}, fakeRegistrations{w}, fakeTeams{w},
		fakeSubmissions{w}, fakeAnnouncements{w: w}, w.authz(), idx, testLogger)
}

func createEventRequest() *dto.CreateEventRequest {
	theme := "  "
	return &dto.CreateEventRequest{
		Title:       " Campus Hack ",
		Description: "48 hours of building things",
		Mode:        "HYBRID",
		StartAt:     testNow.Add(24 * time.Hour),
		EndAt:       testNow.Add(72 * time.Hour),
		Theme:       &theme,
		Tracks:      listnorm.FlexibleList{Values: []string{"AI", "Web"}, Present: true},
		FAQs:        []dto.FAQRequest{{Question: "Cost?", Answer: "Free"}, {Question: "Food?", Answer: "Yes"}},
	}
}

func TestCreateEvent(t *testing.T) {
	w := newWorld()
	w.addUser("org")
	idx := &stubIndex{enabled: true}
	svc := newEventService(w, idx)

	resp, err := svc.CreateEvent(context.Background(), "org", createEventRequest())
	require.NoError(t, err)

	assert.Equal(t, "Campus Hack", resp.Title)
	assert.Equal(t, "org", resp.OrganizerID)
	assert.Nil(t, resp.Theme)
	assert.Nil(t, resp.Timeline)
	assert.Equal(t, []string{"AI", "Web"}, resp.Tracks)
	require.Len(t, resp.FAQs, 2)
	assert.Equal(t, "Cost?", resp.FAQs[0].Question)

	require.Len(t, idx.indexed, 1)
	assert.Equal(t, resp.ID, idx.indexed[0].ID)
}

func TestCreateEventRejectsEndBeforeStart(t *testing.T) {
	w := newWorld()
	svc := newEventService(w, nil)

	req := createEventRequest()
	req.EndAt = req.StartAt

	_, err := svc.CreateEvent(context.Background(), "org", req)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "endAt")
	assert.Empty(t, w.events)
}

func TestCreateEventIndexFailureIsIgnored(t *testing.T) {
	w := newWorld()
	svc := newEventService(w, &stubIndex{enabled: true, indexErr: errors.New("es down")})

	resp, err := svc.CreateEvent(context.Background(), "org", createEventRequest())
	require.NoError(t, err)
	assert.Contains(t, w.events, resp.ID)
}

func TestGetEventDetail(t *testing.T) {
	w := newWorld()
	w.addUser("org")
	w.addUser("ann")
	w.addUser("bob")
	w.addEvent("e1", "org", time.Hour)
	w.judges["e1"] = map[string]bool{"bob": true}
	w.register("e1", "ann")
	w.addTeam("t1", "e1", "ann")

	resp, err := newEventService(w, nil).GetEvent(context.Background(), "e1")
	require.NoError(t, err)

	require.NotNil(t, resp.Organizer)
	assert.Equal(t, "ORG", resp.Organizer.Name)
	require.Len(t, resp.Judges, 1)
	assert.Equal(t, "bob", resp.Judges[0].ID)
	require.Len(t, resp.Teams, 1)
	assert.Equal(t, "ann", resp.Teams[0].OwnerID)
	require.Len(t, resp.Registrations, 1)
	assert.Equal(t, "ann", resp.Registrations[0].User.ID)
}

func TestGetEventNotFound(t *testing.T) {
	_, err := newEventService(newWorld(), nil).GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestListEventsPaginates(t *testing.T) {
	w := newWorld()
	for i, id := range []string{"e1", "e2", "e3"} {
		w.addEvent(id, "org", time.Duration(i+1)*time.Hour)
	}
	svc := newEventService(w, nil)

	page, err := svc.ListEvents(context.Background(), helpers.CursorParams{Limit: 2, SortBy: helpers.SortByStartAt}, "")
	require.NoError(t, err)
	require.Len(t, page.Events, 2)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "e3", *page.NextCursor)

	page, err = svc.ListEvents(context.Background(), helpers.CursorParams{Limit: 2, Cursor: *page.NextCursor}, "")
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Nil(t, page.NextCursor)
}

func TestListEventsFollowsCursor(t *testing.T) {
	w := newWorld()
	for i, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		e := w.addEvent(id, "org", time.Duration(i+1)*time.Hour)
		if i%2 == 0 {
			e.Mode = models.ModeHybrid
		}
	}
	svc := newEventService(w, nil)

	walk := func(params helpers.CursorParams, mode string) []string {
		ids := []string{}
		for i := 0; i < 10; i++ {
			page, err := svc.ListEvents(context.Background(), params, mode)
			require.NoError(t, err)
			for _, e := range page.Events {
				ids = append(ids, e.ID)
			}
			if page.NextCursor == nil {
				return ids
			}
			params.Cursor = *page.NextCursor
		}
		t.Fatal("cursor never ended")
		return nil
	}

	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "e5"},
		walk(helpers.CursorParams{Limit: 2, SortBy: helpers.SortByStartAt}, ""))
	assert.Equal(t, []string{"e5", "e4", "e3", "e2", "e1"},
		walk(helpers.CursorParams{Limit: 2, SortBy: helpers.SortByStartAt, Desc: true}, ""))
	assert.Equal(t, []string{"e5", "e3", "e1"},
		walk(helpers.CursorParams{Limit: 1, SortBy: helpers.SortByStartAt, Desc: true}, "HYBRID"))
}

func TestListEventsInvalidInput(t *testing.T) {
	svc := newEventService(newWorld(), nil)

	_, err := svc.ListEvents(context.Background(), helpers.CursorParams{Limit: 2}, "underwater")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.ListEvents(context.Background(), helpers.CursorParams{Limit: 2, Cursor: "nope"}, "")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestSearchEvents(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour).Title = "Climate Hack"
	w.addEvent("e2", "org", 2*time.Hour).Title = "Fintech Jam"

	t.Run("uses the index order", func(t *testing.T) {
		svc := newEventService(w, &stubIndex{enabled: true, ids: []string{"e2", "e1"}})
		resp, err := svc.SearchEvents(context.Background(), "hack", 10)
		require.NoError(t, err)
		require.Len(t, resp.Events, 2)
		assert.Equal(t, "e2", resp.Events[0].ID)
	})

	t.Run("falls back to the database", func(t *testing.T) {
		svc := newEventService(w, &stubIndex{enabled: true, searchErr: errors.New("timeout")})
		resp, err := svc.SearchEvents(context.Background(), "climate", 10)
		require.NoError(t, err)
		require.Len(t, resp.Events, 1)
		assert.Equal(t, "e1", resp.Events[0].ID)
	})

	t.Run("disabled index", func(t *testing.T) {
		resp, err := newEventService(w, nil).SearchEvents(context.Background(), "jam", 10)
		require.NoError(t, err)
		require.Len(t, resp.Events, 1)
		assert.Equal(t, "Fintech Jam", resp.Events[0].Title)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := newEventService(w, nil).SearchEvents(context.Background(), "  ", 10)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestUpdateEvent(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)
	idx := &stubIndex{enabled: true}
	svc := newEventService(w, idx)

	title := "Renamed Hack"
	resp, err := svc.UpdateEvent(context.Background(), "org", "e1", &dto.UpdateEventRequest{
		Title:  &title,
		Tracks: listnorm.FlexibleList{Present: true},
		FAQs:   []dto.FAQRequest{{Question: "Where?", Answer: "Online"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Hack", resp.Title)
	assert.Equal(t, "A hackathon for testing", resp.Description)
	assert.Equal(t, []string{}, resp.Tracks)
	require.Len(t, w.events["e1"].FAQs, 1)
	assert.Len(t, idx.indexed, 1)
}

func TestUpdateEventAuthorization(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)
	svc := newEventService(w, nil)
	title := "Hijacked"

	_, err := svc.UpdateEvent(context.Background(), "mallory", "e1", &dto.UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, auth.ErrNotOrganizer)

	_, err = svc.UpdateEvent(context.Background(), "org", "missing", &dto.UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUpdateEventRejectsInvertedDates(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)
	end := testNow

	_, err := newEventService(w, nil).UpdateEvent(context.Background(), "org", "e1", &dto.UpdateEventRequest{EndAt: &end})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteEventCleansUp(t *testing.T) {
	w := newWorld()
	w.addEvent("e1", "org", time.Hour)
	w.addEvent("e2", "org", time.Hour)
	w.addSubmission("e1", "t1")
	w.addSubmission("e2", "t2")
	idx := &stubIndex{enabled: true}
	svc := newEventService(w, idx)

	assert.ErrorIs(t, svc.DeleteEvent(context.Background(), "ann", "e1"), apperrors.ErrPermissionDenied)

	require.NoError(t, svc.DeleteEvent(context.Background(), "org", "e1"))
	assert.NotContains(t, w.events, "e1")
	assert.Len(t, w.subs, 1)
	assert.Equal(t, []string{"e1"}, idx.deleted)
}

func TestJudges(t *testing.T) {
	w := newWorld()
	w.addUser("bob")
	w.addEvent("e1", "org", time.Hour)
	svc := newEventService(w, nil)

	judges, err := svc.AddJudge(context.Background(), "org", "e1", "bob")
	require.NoError(t, err)
	require.Len(t, judges, 1)
	assert.Equal(t, "BOB", judges[0].Name)

	_, err = svc.AddJudge(context.Background(), "org", "e1", "ghost")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	require.NoError(t, svc.RemoveJudge(context.Background(), "org", "e1", "bob"))
	assert.ErrorIs(t, svc.RemoveJudge(context.Background(), "org", "e1", "bob"), apperrors.ErrResourceNotFound)
}
