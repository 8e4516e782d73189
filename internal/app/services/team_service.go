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
)

// Team errors
var (
	ErrTeamNotFound        = apperrors.NewResourceNotFoundError("team not found")
	ErrMemberNotFound      = apperrors.NewResourceNotFoundError("member not found")
	ErrMustRegister        = apperrors.NewBadRequestError("must register before creating a team")
	ErrMemberNotRegistered = apperrors.NewBadRequestError("member must be registered for the event")
	ErrCannotRemoveOwner   = apperrors.NewBadRequestError("the team owner cannot be removed")
	ErrAlreadyOwnsTeam     = apperrors.NewConflictError("you already own a team in this event")
	ErrAlreadyTeamMember   = apperrors.NewConflictError("user is already a member of this team")
)

// ensureNotStarted is the time gate for team mutations
func ensureNotStarted(event *models.Event, now time.Time) error {
	if event.HasStarted(now) {
		return apperrors.NewEventStartedError()
	}
	return nil
}

// TeamService defines the interface for team operations
type TeamService interface {
	CreateTeam(ctx context.Context, userID string, req *dto.CreateTeamRequest) (*dto.TeamResponse, error)
	GetTeam(ctx context.Context, teamID string) (*dto.TeamResponse, error)
	RenameTeam(ctx context.Context, userID, teamID, name string) (*dto.TeamResponse, error)
	DeleteTeam(ctx context.Context, userID, teamID string) error
	AddMember(ctx context.Context, userID, teamID, memberID string) (*dto.TeamResponse, error)
	RemoveMember(ctx context.Context, userID, teamID, memberID string) error
}

type teamServiceImpl struct {
	events        EventStore
	teams         TeamStore
	registrations RegistrationStore
	users         UserStore
	authz         Authorizer
	now           Clock
	logger        zerolog.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(
	events EventStore,
	teams TeamStore,
	registrations RegistrationStore,
	users UserStore,
	authz Authorizer,
	now Clock,
	logger zerolog.Logger,
) TeamService {
	if now == nil {
		now = time.Now
	}
	return &teamServiceImpl{
		events:        events,
		teams:         teams,
		registrations: registrations,
		users:         users,
		authz:         authz,
		now:           now,
		logger:        logger,
	}
}

func (s *teamServiceImpl) loadEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error loading event: %w", err)
	}
	return event, nil
}

// ownedOpenTeam checks ownership, then the time gate, and returns the team and its event
func (s *teamServiceImpl) ownedOpenTeam(ctx context.Context, userID, teamID string) (*models.Team, *models.Event, error) {
	team, err := s.authz.ValidateTeamOwner(ctx, teamID, userID)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.loadEvent(ctx, team.EventID)
	if err != nil {
		return nil, nil, err
	}
	if err := ensureNotStarted(event, s.now()); err != nil {
		return nil, nil, err
	}
	return team, event, nil
}

func (s *teamServiceImpl) teamResponse(ctx context.Context, team *models.Team, event *models.Event) (*dto.TeamResponse, error) {
	members, err := s.teams.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading members: %w", err)
	}
	resp := dto.FromTeam(team, members)
	if event != nil {
		summary := dto.ToEventSummary(event)
		resp.Event = &summary
	}
	return &resp, nil
}

// CreateTeam creates a team owned by the caller, who must be registered for the event
func (s *teamServiceImpl) CreateTeam(ctx context.Context, userID string, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	event, err := s.loadEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	registered, err := s.registrations.Exists(ctx, event.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("error checking registration: %w", err)
	}
	if !registered {
		return nil, ErrMustRegister
	}

	owns, err := s.teams.OwnsTeamInEvent(ctx, event.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("error checking team ownership: %w", err)
	}
	if owns {
		return nil, ErrAlreadyOwnsTeam
	}

	team := &models.Team{Name: strings.TrimSpace(req.Name), EventID: event.ID, OwnerID: userID}
	if err := s.teams.Create(ctx, team); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyOwnsTeam
		}
		s.logger.Error().Err(err).Str("eventID", event.ID).Str("userID", userID).Msg("Failed to create team")
		return nil, fmt.Errorf("error creating team: %w", err)
	}
	return s.teamResponse(ctx, team, event)
}

// GetTeam returns the team with its owner, members and event
func (s *teamServiceImpl) GetTeam(ctx context.Context, teamID string) (*dto.TeamResponse, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("error loading team: %w", err)
	}
	event, err := s.loadEvent(ctx, team.EventID)
	if err != nil {
		return nil, err
	}
	return s.teamResponse(ctx, team, event)
}

// RenameTeam renames a team. Only the owner may rename.
func (s *teamServiceImpl) RenameTeam(ctx context.Context, userID, teamID, name string) (*dto.TeamResponse, error) {
	if _, err := s.authz.ValidateTeamOwner(ctx, teamID, userID); err != nil {
		return nil, err
	}
	team, err := s.teams.Rename(ctx, teamID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("error renaming team: %w", err)
	}
	return s.teamResponse(ctx, team, nil)
}

// DeleteTeam removes the team before the event starts
func (s *teamServiceImpl) DeleteTeam(ctx context.Context, userID, teamID string) error {
	if _, _, err := s.ownedOpenTeam(ctx, userID, teamID); err != nil {
		return err
	}
	if err := s.teams.Delete(ctx, teamID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return ErrTeamNotFound
		}
		s.logger.Error().Err(err).Str("teamID", teamID).Msg("Failed to delete team")
		return fmt.Errorf("error deleting team: %w", err)
	}
	return nil
}

// AddMember adds a registered user to the team directly
func (s *teamServiceImpl) AddMember(ctx context.Context, userID, teamID, memberID string) (*dto.TeamResponse, error) {
	team, event, err := s.ownedOpenTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading member: %w", err)
	}
	registered, err := s.registrations.Exists(ctx, event.ID, memberID)
	if err != nil {
		return nil, fmt.Errorf("error checking registration: %w", err)
	}
	if !registered {
		return nil, ErrMemberNotRegistered
	}

	if err := s.teams.AddMember(ctx, teamID, memberID); err != nil {
		return nil, fmt.Errorf("error adding member: %w", err)
	}
	return s.teamResponse(ctx, team, event)
}

// RemoveMember removes a member. The owner can never be removed.
func (s *teamServiceImpl) RemoveMember(ctx context.Context, userID, teamID, memberID string) error {
	team, err := s.authz.ValidateTeamOwner(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if memberID == team.OwnerID {
		return ErrCannotRemoveOwner
	}

	event, err := s.loadEvent(ctx, team.EventID)
	if err != nil {
		return err
	}
	if err := ensureNotStarted(event, s.now()); err != nil {
		return err
	}

	removed, err := s.teams.RemoveMember(ctx, teamID, memberID)
	if err != nil {
		return fmt.Errorf("error removing member: %w", err)
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}
