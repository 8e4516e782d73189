package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/logger"
)

// Authorization failures reported to callers
var (
	ErrNotOrganizer = apperrors.NewForbiddenError("only the event organizer can perform this action")
	ErrNotJudge     = apperrors.NewForbiddenError("only judges of this event can perform this action")
	ErrNotStaff     = apperrors.NewForbiddenError("only the organizer or judges of this event can perform this action")
	ErrNotTeamOwner = apperrors.NewForbiddenError("only the team owner can perform this action")
)

// Not found failures. They take precedence over the permission checks.
var (
	ErrEventNotFound = apperrors.NewResourceNotFoundError("event not found")
	ErrTeamNotFound  = apperrors.NewResourceNotFoundError("team not found")
)

// EventLookup reads events and judge links
type EventLookup interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
	IsJudge(ctx context.Context, eventID, userID string) (bool, error)
}

// TeamLookup reads teams
type TeamLookup interface {
	FindByID(ctx context.Context, id string) (*models.Team, error)
}

// AuthorizationService answers who may act on events and teams. Every check is a pure read.
type AuthorizationService struct {
	events EventLookup
	teams  TeamLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(events EventLookup, teams TeamLookup) *AuthorizationService {
	return &AuthorizationService{
		events: events,
		teams:  teams,
	}
}

func (s *AuthorizationService) loadEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", eventID).Msg("Error loading event for authorization")
		return nil, fmt.Errorf("error loading event: %w", err)
	}
	return event, nil
}

func (s *AuthorizationService) loadTeam(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrTeamNotFound
		}
		logger.Error().Err(err).Str("teamID", teamID).Msg("Error loading team for authorization")
		return nil, fmt.Errorf("error loading team: %w", err)
	}
	return team, nil
}

// IsOrganizer checks if the user organizes the event
func (s *AuthorizationService) IsOrganizer(ctx context.Context, eventID, userID string) (bool, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	return event.OrganizerID == userID, nil
}

// IsJudge checks if the user judges the event
func (s *AuthorizationService) IsJudge(ctx context.Context, eventID, userID string) (bool, error) {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return false, err
	}
	return s.events.IsJudge(ctx, eventID, userID)
}

// IsStaff checks if the user organizes or judges the event
func (s *AuthorizationService) IsStaff(ctx context.Context, eventID, userID string) (bool, error) {
	_, ok, err := s.staff(ctx, eventID, userID)
	return ok, err
}

func (s *AuthorizationService) staff(ctx context.Context, eventID, userID string) (*models.Event, bool, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	if event.OrganizerID == userID {
		return event, true, nil
	}
	judge, err := s.events.IsJudge(ctx, eventID, userID)
	if err != nil {
		return nil, false, err
	}
	return event, judge, nil
}

// IsTeamOwner checks if the user owns the team
func (s *AuthorizationService) IsTeamOwner(ctx context.Context, teamID, userID string) (bool, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return false, err
	}
	return team.OwnerID == userID, nil
}

// ValidateOrganizer returns the event when the user organizes it
func (s *AuthorizationService) ValidateOrganizer(ctx context.Context, eventID, userID string) (*models.Event, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID {
		return nil, ErrNotOrganizer
	}
	return event, nil
}

// ValidateJudge returns the event when the user judges it
func (s *AuthorizationService) ValidateJudge(ctx context.Context, eventID, userID string) (*models.Event, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	judge, err := s.events.IsJudge(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !judge {
		return nil, ErrNotJudge
	}
	return event, nil
}

// ValidateStaff returns the event when the user organizes or judges it
func (s *AuthorizationService) ValidateStaff(ctx context.Context, eventID, userID string) (*models.Event, error) {
	event, ok, err := s.staff(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotStaff
	}
	return event, nil
}

// ValidateTeamOwner returns the team when the user owns it
func (s *AuthorizationService) ValidateTeamOwner(ctx context.Context, teamID, userID string) (*models.Team, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.OwnerID != userID {
		return nil, ErrNotTeamOwner
	}
	return team, nil
}
