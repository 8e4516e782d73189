package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/metrics"
	"github.com/yigit/openhacks/internal/pkg/relay"
)

// AnnouncementService defines the interface for organizer broadcasts
type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, userID string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	ListAnnouncements(ctx context.Context, eventID string) ([]dto.AnnouncementResponse, error)
}

type announcementServiceImpl struct {
	events        EventStore
	announcements AnnouncementStore
	publisher     relay.Publisher
	authz         Authorizer
	logger        zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(
	events EventStore,
	announcements AnnouncementStore,
	publisher relay.Publisher,
	authz Authorizer,
	logger zerolog.Logger,
) AnnouncementService {
	return &announcementServiceImpl{
		events:        events,
		announcements: announcements,
		publisher:     publisher,
		authz:         authz,
		logger:        logger,
	}
}

// CreateAnnouncement stores the announcement, then relays it to live subscribers.
// Relay failures are logged and counted but never fail the request.
func (s *announcementServiceImpl) CreateAnnouncement(ctx context.Context, userID string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	if _, err := s.authz.ValidateOrganizer(ctx, req.EventID, userID); err != nil {
		return nil, err
	}

	a := &models.Announcement{
		EventID:  req.EventID,
		Title:    strings.TrimSpace(req.Title),
		Message:  strings.TrimSpace(req.Message),
		AuthorID: userID,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		s.logger.Error().Err(err).Str("eventID", req.EventID).Msg("Failed to store announcement")
		return nil, fmt.Errorf("error storing announcement: %w", err)
	}

	resp := dto.FromAnnouncement(a)
	s.publish(ctx, resp)
	return &resp, nil
}

func (s *announcementServiceImpl) publish(ctx context.Context, resp dto.AnnouncementResponse) {
	payload, err := json.Marshal(resp)
	if err == nil {
		err = s.publisher.Publish(ctx, resp.EventID, payload)
	}
	metrics.RecordAnnouncementPublish(err)
	if err != nil {
		s.logger.Warn().Err(err).Str("eventID", resp.EventID).Str("announcementID", resp.ID).Msg("Failed to relay announcement")
	}
}

// ListAnnouncements returns the event's announcement history, newest first
func (s *announcementServiceImpl) ListAnnouncements(ctx context.Context, eventID string) ([]dto.AnnouncementResponse, error) {
	exists, err := s.events.EventExists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error checking event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	list, err := s.announcements.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	out := make([]dto.AnnouncementResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromAnnouncement(&list[i]))
	}
	return out, nil
}
