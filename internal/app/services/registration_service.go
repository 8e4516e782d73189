package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

// Registration errors
var (
	ErrAlreadyRegistered    = apperrors.NewConflictError("already registered")
	ErrRegistrationNotFound = apperrors.NewResourceNotFoundError("registration not found")
	ErrOwnsTeam             = apperrors.NewConflictError("delete your team before unregistering")
)

// RegistrationService defines the interface for event registration operations
type RegistrationService interface {
	Register(ctx context.Context, userID, eventID string) (*dto.RegistrationResponse, error)
	Unregister(ctx context.Context, userID, eventID string) error
	IsRegistered(ctx context.Context, userID, eventID string) (bool, error)
	ListRegistrations(ctx context.Context, userID, eventID string) ([]dto.RegistrationResponse, error)
}

type registrationServiceImpl struct {
	events        EventStore
	registrations RegistrationStore
	teams         TeamStore
	users         UserStore
	authz         Authorizer
	now           Clock
	logger        zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	events EventStore,
	registrations RegistrationStore,
	teams TeamStore,
	users UserStore,
	authz Authorizer,
	now Clock,
	logger zerolog.Logger,
) RegistrationService {
	if now == nil {
		now = time.Now
	}
	return &registrationServiceImpl{
		events:        events,
		registrations: registrations,
		teams:         teams,
		users:         users,
		authz:         authz,
		now:           now,
		logger:        logger,
	}
}

func (s *registrationServiceImpl) requireEvent(ctx context.Context, eventID string) error {
	exists, err := s.events.EventExists(ctx, eventID)
	if err != nil {
		return fmt.Errorf("error checking event: %w", err)
	}
	if !exists {
		return ErrEventNotFound
	}
	return nil
}

// Register signs the caller up for the event
func (s *registrationServiceImpl) Register(ctx context.Context, userID, eventID string) (*dto.RegistrationResponse, error) {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	registered, err := s.registrations.Exists(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("error checking registration: %w", err)
	}
	if registered {
		return nil, ErrAlreadyRegistered
	}

	reg, err := s.registrations.Create(ctx, eventID, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyRegistered
		}
		s.logger.Error().Err(err).Str("eventID", eventID).Str("userID", userID).Msg("Failed to register")
		return nil, fmt.Errorf("error registering: %w", err)
	}

	resp := &dto.RegistrationResponse{ID: reg.ID, UserID: reg.UserID, CreatedAt: reg.CreatedAt}
	if summaries, err := s.users.FindSummaries(ctx, []string{userID}); err == nil {
		resp.User = summaries[userID]
	}
	return resp, nil
}

// Unregister withdraws the caller, leaving the event's teams and declining pending invites.
// Once the event has started, team members can no longer withdraw.
func (s *registrationServiceImpl) Unregister(ctx context.Context, userID, eventID string) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("error loading event: %w", err)
	}

	registered, err := s.registrations.Exists(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("error checking registration: %w", err)
	}
	if !registered {
		return ErrRegistrationNotFound
	}

	owns, err := s.teams.OwnsTeamInEvent(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("error checking team ownership: %w", err)
	}
	if owns {
		return ErrOwnsTeam
	}

	if event.HasStarted(s.now()) {
		member, err := s.teams.IsMemberInEvent(ctx, eventID, userID)
		if err != nil {
			return fmt.Errorf("error checking team membership: %w", err)
		}
		if member {
			return apperrors.NewEventStartedError()
		}
	}

	if err := s.registrations.Withdraw(ctx, eventID, userID); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return ErrRegistrationNotFound
		}
		s.logger.Error().Err(err).Str("eventID", eventID).Str("userID", userID).Msg("Failed to unregister")
		return fmt.Errorf("error unregistering: %w", err)
	}
	return nil
}

// IsRegistered reports the caller's registration. Anonymous callers are never registered.
func (s *registrationServiceImpl) IsRegistered(ctx context.Context, userID, eventID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.registrations.Exists(ctx, eventID, userID)
}

// ListRegistrations returns the event's registrations to its organizer and judges
func (s *registrationServiceImpl) ListRegistrations(ctx context.Context, userID, eventID string) ([]dto.RegistrationResponse, error) {
	if _, err := s.authz.ValidateStaff(ctx, eventID, userID); err != nil {
		return nil, err
	}

	views, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	out := make([]dto.RegistrationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.RegistrationResponse{ID: v.ID, UserID: v.UserID, CreatedAt: v.CreatedAt, User: v.User})
	}
	return out, nil
}
