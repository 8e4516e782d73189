package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/helpers"
	"github.com/yigit/openhacks/internal/pkg/metrics"
	"github.com/yigit/openhacks/internal/pkg/search"
)

// Event errors
var (
	ErrEventNotFound = apperrors.NewResourceNotFoundError("event not found")
	ErrUserNotFound  = apperrors.NewResourceNotFoundError("user not found")
)

// EventService defines the interface for event operations
type EventService interface {
	CreateEvent(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetEvent(ctx context.Context, id string) (*dto.EventDetailResponse, error)
	ListEvents(ctx context.Context, params helpers.CursorParams, mode string) (*dto.EventPageResponse, error)
	SearchEvents(ctx context.Context, query string, limit int) (*dto.EventSearchResponse, error)
	UpdateEvent(ctx context.Context, userID, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, userID, id string) error
	AddJudge(ctx context.Context, userID, eventID, judgeID string) ([]models.UserSummary, error)
	RemoveJudge(ctx context.Context, userID, eventID, judgeID string) error
}

type eventServiceImpl struct {
	events        EventStore
	users         UserStore
	registrations RegistrationStore
	teams         TeamStore
	submissions   SubmissionStore
	announcements AnnouncementStore
	authz         Authorizer
	index         search.Index
	logger        zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	events EventStore,
	users UserStore,
	registrations RegistrationStore,
	teams TeamStore,
	submissions SubmissionStore,
	announcements AnnouncementStore,
	authz Authorizer,
	index search.Index,
	logger zerolog.Logger,
) EventService {
	if index == nil {
		index = search.Disabled{}
	}
	return &eventServiceImpl{
		events:        events,
		users:         users,
		registrations: registrations,
		teams:         teams,
		submissions:   submissions,
		announcements: announcements,
		authz:         authz,
		index:         index,
		logger:        logger,
	}
}

func checkDates(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.NewValidationError("endAt", "end date must be after the start date")
	}
	return nil
}

// CreateEvent creates an event organized by the caller
func (s *eventServiceImpl) CreateEvent(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if err := checkDates(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Mode:        models.EventMode(req.Mode),
		StartAt:     req.StartAt.UTC(),
		EndAt:       req.EndAt.UTC(),
		Theme:       helpers.NullIfBlank(req.Theme),
		Rules:       helpers.NullIfBlank(req.Rules),
		Prizes:      helpers.NullIfBlank(req.Prizes),
		Thumbnail:   helpers.NullIfBlank(req.Thumbnail),
		Banner:      helpers.NullIfBlank(req.Banner),
		Tracks:      req.Tracks.List(),
		Timeline:    req.Timeline.List(),
		Organizers:  req.Organizers.List(),
		OrganizerID: userID,
		FAQs:        faqsFromRequest(req.FAQs),
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to create event")
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	s.syncIndex(ctx, event)

	resp := dto.FromEvent(event)
	return &resp, nil
}

// GetEvent returns the event with organizer, judges, teams and registrations
func (s *eventServiceImpl) GetEvent(ctx context.Context, id string) (*dto.EventDetailResponse, error) {
	event, err := s.findEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	organizers, err := s.users.FindSummaries(ctx, []string{event.OrganizerID})
	if err != nil {
		return nil, fmt.Errorf("error loading organizer: %w", err)
	}
	judges, err := s.events.ListJudges(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading judges: %w", err)
	}
	teams, members, err := s.teams.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading teams: %w", err)
	}
	registrations, err := s.registrations.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading registrations: %w", err)
	}

	resp := &dto.EventDetailResponse{
		EventResponse: dto.FromEvent(event),
		Judges:        judges,
		Teams:         make([]dto.TeamSummaryResponse, 0, len(teams)),
		Registrations: make([]dto.RegistrationResponse, 0, len(registrations)),
	}
	if organizer, ok := organizers[event.OrganizerID]; ok {
		resp.Organizer = &organizer
	}
	for i := range teams {
		resp.Teams = append(resp.Teams, teamSummary(&teams[i], members[teams[i].ID]))
	}
	for _, r := range registrations {
		resp.Registrations = append(resp.Registrations, dto.RegistrationResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
			User:      r.User,
		})
	}
	return resp, nil
}

// ListEvents returns one keyset page of events
func (s *eventServiceImpl) ListEvents(ctx context.Context, params helpers.CursorParams, mode string) (*dto.EventPageResponse, error) {
	query := models.EventListQuery{
		Limit:  params.Limit,
		Cursor: params.Cursor,
		SortBy: params.SortBy,
		Desc:   params.Desc,
	}
	if mode = strings.ToUpper(strings.TrimSpace(mode)); mode != "" {
		m := models.EventMode(mode)
		if !m.Valid() {
			return nil, apperrors.NewValidationError("mode", "mode must be one of ONLINE, OFFLINE, HYBRID")
		}
		query.Mode = &m
	}

	events, next, err := s.events.List(ctx, query)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrBadRequest) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("Failed to list events")
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	return &dto.EventPageResponse{Events: eventResponses(events), NextCursor: next}, nil
}

// SearchEvents runs a full text search, using the index when it is configured
func (s *eventServiceImpl) SearchEvents(ctx context.Context, query string, limit int) (*dto.EventSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("q", "search query is required")
	}
	if limit < helpers.MinPageSize || limit > helpers.MaxPageSize {
		limit = helpers.DefaultPageSize
	}

	var (
		events []models.Event
		err    error
	)
	if s.index.Enabled() {
		var ids []string
		ids, err = s.index.SearchEvents(ctx, query, limit)
		if err == nil {
			events, err = s.events.FindByIDs(ctx, ids)
		} else {
			metrics.SearchIndexErrors.WithLabelValues("search").Inc()
			s.logger.Warn().Err(err).Str("query", query).Msg("Search index unavailable, falling back to database")
		}
	}
	if events == nil {
		events, err = s.events.SearchByText(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("error searching events: %w", err)
	}

	return &dto.EventSearchResponse{Query: query, Events: eventResponses(events)}, nil
}

// UpdateEvent applies a partial update. Only the organizer may update.
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, userID, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.authz.ValidateOrganizer(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = strings.TrimSpace(*req.Description)
	}
	if req.Mode != nil {
		event.Mode = models.EventMode(*req.Mode)
	}
	if req.StartAt != nil {
		event.StartAt = req.StartAt.UTC()
	}
	if req.EndAt != nil {
		event.EndAt = req.EndAt.UTC()
	}
	if err := checkDates(event.StartAt, event.EndAt); err != nil {
		return nil, err
	}
	if req.Theme != nil {
		event.Theme = helpers.NullIfBlank(req.Theme)
	}
	if req.Rules != nil {
		event.Rules = helpers.NullIfBlank(req.Rules)
	}
	if req.Prizes != nil {
		event.Prizes = helpers.NullIfBlank(req.Prizes)
	}
	if req.Thumbnail != nil {
		event.Thumbnail = helpers.NullIfBlank(req.Thumbnail)
	}
	if req.Banner != nil {
		event.Banner = helpers.NullIfBlank(req.Banner)
	}
	if req.Tracks.Present {
		event.Tracks = req.Tracks.List()
	}
	if req.Timeline.Present {
		event.Timeline = req.Timeline.List()
	}
	if req.Organizers.Present {
		event.Organizers = req.Organizers.List()
	}
	replaceFAQs := req.FAQs != nil
	if replaceFAQs {
		event.FAQs = faqsFromRequest(req.FAQs)
	}

	if err := s.events.Update(ctx, event, replaceFAQs); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error().Err(err).Str("eventID", id).Msg("Failed to update event")
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	s.syncIndex(ctx, event)

	resp := dto.FromEvent(event)
	return &resp, nil
}

// DeleteEvent removes the event and, best effort, its documents and index entry
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, userID, id string) error {
	if _, err := s.authz.ValidateOrganizer(ctx, id, userID); err != nil {
		return err
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("error deleting event: %w", err)
	}

	if err := s.submissions.DeleteByEvent(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("eventID", id).Msg("Failed to delete submissions of removed event")
	}
	if err := s.announcements.DeleteByEvent(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("eventID", id).Msg("Failed to delete announcements of removed event")
	}
	if err := s.index.DeleteEvent(ctx, id); err != nil {
		metrics.SearchIndexErrors.WithLabelValues("delete").Inc()
		s.logger.Warn().Err(err).Str("eventID", id).Msg("Failed to remove event from search index")
	}
	return nil
}

// AddJudge links a judge to the event and returns the judge list
func (s *eventServiceImpl) AddJudge(ctx context.Context, userID, eventID, judgeID string) ([]models.UserSummary, error) {
	if _, err := s.authz.ValidateOrganizer(ctx, eventID, userID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, judgeID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading judge: %w", err)
	}

	if err := s.events.AddJudge(ctx, eventID, judgeID); err != nil {
		return nil, fmt.Errorf("error adding judge: %w", err)
	}
	return s.events.ListJudges(ctx, eventID)
}

// RemoveJudge unlinks a judge from the event
func (s *eventServiceImpl) RemoveJudge(ctx context.Context, userID, eventID, judgeID string) error {
	if _, err := s.authz.ValidateOrganizer(ctx, eventID, userID); err != nil {
		return err
	}
	return s.events.RemoveJudge(ctx, eventID, judgeID)
}

func (s *eventServiceImpl) findEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error loading event: %w", err)
	}
	return event, nil
}

// syncIndex writes the event to the search index. Failures never fail the caller.
func (s *eventServiceImpl) syncIndex(ctx context.Context, event *models.Event) {
	if err := s.index.IndexEvent(ctx, eventDocument(event)); err != nil {
		metrics.SearchIndexErrors.WithLabelValues("index").Inc()
		s.logger.Warn().Err(err).Str("eventID", event.ID).Msg("Failed to index event")
	}
}
