package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/middleware"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

// newRouter returns an engine that authenticates every request as userID
func newRouter(userID string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
		}
		c.Next()
	})
	return r
}

func perform(r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

type stubEvents struct {
	services.EventService
	userID  string
	created *dto.CreateEventRequest
	params  helpers.CursorParams
	mode    string
	err     error
}

func (s *stubEvents) CreateEvent(_ context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	s.userID, s.created = userID, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.EventResponse{ID: "e1", Title: req.Title, OrganizerID: userID}, nil
}

func (s *stubEvents) GetEvent(_ context.Context, id string) (*dto.EventDetailResponse, error) {
	return nil, s.err
}

func (s *stubEvents) ListEvents(_ context.Context, params helpers.CursorParams, mode string) (*dto.EventPageResponse, error) {
	s.params, s.mode = params, mode
	return &dto.EventPageResponse{Events: []dto.EventResponse{}}, nil
}

func TestCreateEvent(t *testing.T) {
	events := &stubEvents{}
	r := newRouter("org")
	r.POST("/events", NewEventController(events).CreateEvent)

	w, env := perform(r, http.MethodPost, "/events", map[string]any{
		"title":       "Campus Hack",
		"description": "Two days of building things",
		"mode":        "HYBRID",
		"startAt":     "2026-06-01T09:00:00Z",
		"endAt":       "2026-06-03T17:00:00Z",
		"tracks":      "ai, web",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "org", events.userID)
	require.NotNil(t, events.created)
	assert.Equal(t, []string{"ai", "web"}, events.created.Tracks.List())
}

func TestCreateEventValidation(t *testing.T) {
	events := &stubEvents{}
	r := newRouter("org")
	r.POST("/events", NewEventController(events).CreateEvent)

	w, env := perform(r, http.MethodPost, "/events", map[string]any{
		"title":       "CH",
		"description": "Two days of building things",
		"mode":        "ONLINE",
		"startAt":     "2026-06-01T09:00:00Z",
		"endAt":       "2026-06-03T17:00:00Z",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(dto.ErrorCodeValidationFailed), env.Error.Code)
	assert.Equal(t, "title", env.Error.Field)
	assert.Nil(t, events.created)
}

func TestGetEventNotFound(t *testing.T) {
	r := newRouter("")
	r.GET("/events/:id", NewEventController(&stubEvents{err: apperrors.NewResourceNotFoundError("event not found")}).GetEvent)

	w, env := perform(r, http.MethodGet, "/events/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "event not found", env.Error.Message)
}

func TestListEventsParsesQuery(t *testing.T) {
	events := &stubEvents{}
	r := newRouter("")
	r.GET("/events", NewEventController(events).ListEvents)

	w, _ := perform(r, http.MethodGet, "/events?limit=500&cursor=e9&sortBy=createdAt&order=desc&mode=ONLINE", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, helpers.CursorParams{Limit: helpers.MaxPageSize, Cursor: "e9", SortBy: helpers.SortByCreatedAt, Desc: true}, events.params)
	assert.Equal(t, "ONLINE", events.mode)
}

type stubSubmissions struct {
	services.SubmissionService
	judged bool
	teamID string
}

func (s *stubSubmissions) GetTeamSubmission(_ context.Context, _, teamID string) (*dto.SubmissionResponse, error) {
	s.teamID = teamID
	return nil, nil
}

func (s *stubSubmissions) ListForJudging(context.Context, string, string) ([]dto.JudgeSubmissionResponse, error) {
	s.judged = true
	return []dto.JudgeSubmissionResponse{}, nil
}

func TestGetSubmissions(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantJudged bool
		wantTeam   string
	}{
		{name: "team view", query: "?teamId=t1", wantStatus: http.StatusOK, wantTeam: "t1"},
		{name: "judge view", query: "?judge=true", wantStatus: http.StatusOK, wantJudged: true},
		{name: "neither", query: "", wantStatus: http.StatusBadRequest},
		{name: "judge false", query: "?judge=false", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := &stubSubmissions{}
			r := newRouter("u1")
			r.GET("/events/:id/submissions", NewSubmissionController(subs).GetSubmissions)

			w, env := perform(r, http.MethodGet, "/events/e1/submissions"+tt.query, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantJudged, subs.judged)
			assert.Equal(t, tt.wantTeam, subs.teamID)
			if tt.wantTeam != "" {
				assert.Equal(t, "null", string(env.Data))
			}
		})
	}
}

type stubInvites struct {
	services.InviteService
	created bool
	action  models.InviteAction
}

func (s *stubInvites) InviteMember(_ context.Context, _, teamID string, req *dto.InviteMemberRequest) (*dto.InviteResponse, bool, error) {
	return &dto.InviteResponse{ID: "i1", TeamID: teamID, InviteeID: req.InviteeID}, s.created, nil
}

func (s *stubInvites) RespondToInvite(_ context.Context, userID, inviteID string, action models.InviteAction) (*dto.InviteResponse, error) {
	s.action = action
	return &dto.InviteResponse{ID: inviteID, InviteeID: userID, Status: string(models.InviteAccepted)}, nil
}

func TestInviteMemberStatus(t *testing.T) {
	for _, created := range []bool{true, false} {
		r := newRouter("owner")
		r.POST("/teams/:teamId/invites", NewTeamController(nil, &stubInvites{created: created}).InviteMember)

		w, _ := perform(r, http.MethodPost, "/teams/t1/invites", map[string]string{"inviteeId": "bob"})

		if created {
			assert.Equal(t, http.StatusCreated, w.Code)
		} else {
			assert.Equal(t, http.StatusOK, w.Code)
		}
	}
}

func TestInviteMemberRequiresInvitee(t *testing.T) {
	r := newRouter("owner")
	r.POST("/teams/:teamId/invites", NewTeamController(nil, &stubInvites{}).InviteMember)

	w, env := perform(r, http.MethodPost, "/teams/t1/invites", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(dto.ErrorCodeValidationFailed), env.Error.Code)
}

func TestRespondToInvite(t *testing.T) {
	invites := &stubInvites{}
	r := newRouter("bob")
	r.POST("/invites/:inviteId/respond", NewTeamController(nil, invites).RespondToInvite)

	w, _ := perform(r, http.MethodPost, "/invites/i1/respond", map[string]string{"action": "ACCEPT"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.InviteActionAccept, invites.action)

	w, _ = perform(r, http.MethodPost, "/invites/i1/respond", map[string]string{"action": "MAYBE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubTeams struct {
	services.TeamService
	err error
}

func (s *stubTeams) DeleteTeam(context.Context, string, string) error {
	return s.err
}

func TestDeleteTeamAfterStart(t *testing.T) {
	r := newRouter("owner")
	r.DELETE("/teams/:teamId", NewTeamController(&stubTeams{err: apperrors.NewEventStartedError()}, nil).DeleteTeam)

	w, env := perform(r, http.MethodDelete, "/teams/t1", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(dto.ErrorCodeEventStarted), env.Error.Code)
}

type stubJudging struct {
	services.JudgingService
	eventID string
}

func (s *stubJudging) ListRounds(_ context.Context, eventID string) ([]dto.RoundResponse, error) {
	s.eventID = eventID
	return []dto.RoundResponse{}, nil
}

func TestListRoundsRequiresEvent(t *testing.T) {
	judging := &stubJudging{}
	r := newRouter("u1")
	r.GET("/rounds", NewJudgingController(judging).ListRounds)

	w, env := perform(r, http.MethodGet, "/rounds", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "eventId", env.Error.Field)

	w, _ = perform(r, http.MethodGet, "/rounds?eventId=e1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "e1", judging.eventID)
}

type stubProfiles struct {
	services.ProfileService
	filename string
}

func (s *stubProfiles) Upload(_ context.Context, _ string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	s.filename = file.Filename
	return &dto.UploadResponse{URL: "http://localhost/uploads/x.png"}, nil
}

func TestUpload(t *testing.T) {
	profiles := &stubProfiles{}
	r := newRouter("u1")
	r.POST("/uploads", NewProfileController(profiles).Upload)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "logo.png", profiles.filename)
	assert.True(t, strings.Contains(w.Body.String(), "/uploads/x.png"))
}

func TestUploadWithoutFile(t *testing.T) {
	profiles := &stubProfiles{}
	r := newRouter("u1")
	r.POST("/uploads", NewProfileController(profiles).Upload)

	w, env := perform(r, http.MethodPost, "/uploads", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "file", env.Error.Field)
	assert.Empty(t, profiles.filename)
}
