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

// Invite errors
var (
	ErrInviteNotFound       = apperrors.NewResourceNotFoundError("invite not found")
	ErrInviteProcessed      = apperrors.NewConflictError("invite already processed")
	ErrInviteeNotRegistered = apperrors.NewBadRequestError("invitee must be registered")
)

// InviteService defines the interface for team invite operations
type InviteService interface {
	// InviteMember returns the pending invite and whether it was newly created
	InviteMember(ctx context.Context, userID, teamID string, req *dto.InviteMemberRequest) (*dto.InviteResponse, bool, error)
	RespondToInvite(ctx context.Context, userID, inviteID string, action models.InviteAction) (*dto.InviteResponse, error)
	ListTeamInvites(ctx context.Context, userID, teamID string) ([]dto.InviteResponse, error)
	ListMyInvites(ctx context.Context, userID string) ([]dto.InviteResponse, error)
}

type inviteServiceImpl struct {
	events        EventStore
	teams         TeamStore
	invites       InviteStore
	registrations RegistrationStore
	users         UserStore
	authz         Authorizer
	now           Clock
	logger        zerolog.Logger
}

// NewInviteService creates a new InviteService
func NewInviteService(
	events EventStore,
	teams TeamStore,
	invites InviteStore,
	registrations RegistrationStore,
	users UserStore,
	authz Authorizer,
	now Clock,
	logger zerolog.Logger,
) InviteService {
	if now == nil {
		now = time.Now
	}
	return &inviteServiceImpl{
		events:        events,
		teams:         teams,
		invites:       invites,
		registrations: registrations,
		users:         users,
		authz:         authz,
		now:           now,
		logger:        logger,
	}
}

func (s *inviteServiceImpl) resolveInvitee(ctx context.Context, req *dto.InviteMemberRequest) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	if id := strings.TrimSpace(req.InviteeID); id != "" {
		user, err = s.users.FindByID(ctx, id)
	} else {
		user, err = s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading invitee: %w", err)
	}
	return user, nil
}

// InviteMember invites a registered user to the caller's team. A pending invite for the
// same pair is returned instead of creating a second one.
func (s *inviteServiceImpl) InviteMember(ctx context.Context, userID, teamID string, req *dto.InviteMemberRequest) (*dto.InviteResponse, bool, error) {
	team, err := s.authz.ValidateTeamOwner(ctx, teamID, userID)
	if err != nil {
		return nil, false, err
	}

	invitee, err := s.resolveInvitee(ctx, req)
	if err != nil {
		return nil, false, err
	}

	member, err := s.teams.IsMember(ctx, teamID, invitee.ID)
	if err != nil {
		return nil, false, fmt.Errorf("error checking membership: %w", err)
	}
	if member {
		return nil, false, ErrAlreadyTeamMember
	}

	registered, err := s.registrations.Exists(ctx, team.EventID, invitee.ID)
	if err != nil {
		return nil, false, fmt.Errorf("error checking registration: %w", err)
	}
	if !registered {
		return nil, false, ErrInviteeNotRegistered
	}

	existing, err := s.invites.FindPending(ctx, teamID, invitee.ID)
	switch {
	case err == nil:
		resp := dto.FromInvite(existing)
		return &resp, false, nil
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, false, fmt.Errorf("error checking pending invite: %w", err)
	}

	invite, created, err := s.invites.Create(ctx, teamID, userID, invitee.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("teamID", teamID).Str("inviteeID", invitee.ID).Msg("Failed to create invite")
		return nil, false, fmt.Errorf("error creating invite: %w", err)
	}
	resp := dto.FromInvite(invite)
	return &resp, created, nil
}

// RespondToInvite accepts or declines an invite addressed to the caller.
// Invites addressed to someone else are reported as missing.
func (s *inviteServiceImpl) RespondToInvite(ctx context.Context, userID, inviteID string, action models.InviteAction) (*dto.InviteResponse, error) {
	invite, err := s.invites.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("error loading invite: %w", err)
	}
	if invite.InviteeID != userID {
		return nil, ErrInviteNotFound
	}
	if invite.Status != models.InvitePending {
		return nil, ErrInviteProcessed
	}

	switch action {
	case models.InviteActionDecline:
		invite, err = s.invites.Decline(ctx, inviteID)
	case models.InviteActionAccept:
		team, teamErr := s.teams.FindByID(ctx, invite.TeamID)
		if teamErr != nil {
			if errors.Is(teamErr, apperrors.ErrResourceNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("error loading team: %w", teamErr)
		}
		event, eventErr := s.events.FindByID(ctx, team.EventID)
		if eventErr != nil {
			if errors.Is(eventErr, apperrors.ErrResourceNotFound) {
				return nil, ErrEventNotFound
			}
			return nil, fmt.Errorf("error loading event: %w", eventErr)
		}
		if err := ensureNotStarted(event, s.now()); err != nil {
			return nil, err
		}
		invite, err = s.invites.Accept(ctx, inviteID)
	default:
		return nil, apperrors.NewValidationError("action", "action must be one of ACCEPT, DECLINE")
	}

	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, ErrInviteProcessed
		}
		s.logger.Error().Err(err).Str("inviteID", inviteID).Str("action", string(action)).Msg("Failed to respond to invite")
		return nil, fmt.Errorf("error responding to invite: %w", err)
	}
	resp := dto.FromInvite(invite)
	return &resp, nil
}

// ListTeamInvites returns every invite of the caller's team, newest first
func (s *inviteServiceImpl) ListTeamInvites(ctx context.Context, userID, teamID string) ([]dto.InviteResponse, error) {
	if _, err := s.authz.ValidateTeamOwner(ctx, teamID, userID); err != nil {
		return nil, err
	}
	views, err := s.invites.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing invites: %w", err)
	}
	return inviteResponses(views), nil
}

// ListMyInvites returns the caller's pending invites, newest first
func (s *inviteServiceImpl) ListMyInvites(ctx context.Context, userID string) ([]dto.InviteResponse, error) {
	views, err := s.invites.ListPendingForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing invites: %w", err)
	}
	return inviteResponses(views), nil
}

func inviteResponses(views []models.InviteView) []dto.InviteResponse {
	out := make([]dto.InviteResponse, 0, len(views))
	for i := range views {
		out = append(out, dto.FromInviteView(&views[i]))
	}
	return out
}
