package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/validation"
)

// Submission errors
var (
	ErrSubmissionNotFound = apperrors.NewResourceNotFoundError("submission not found")
	ErrAlreadySubmitted   = apperrors.NewConflictError("this team has already submitted a project")
	ErrNotTeamMember      = apperrors.NewForbiddenError("only team members can submit for this team")
)

// SubmissionService defines the interface for project submission operations
type SubmissionService interface {
	CreateSubmission(ctx context.Context, userID, eventID string, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error)
	// GetTeamSubmission returns nil when the team has not submitted
	GetTeamSubmission(ctx context.Context, eventID, teamID string) (*dto.SubmissionResponse, error)
	ListForJudging(ctx context.Context, userID, eventID string) ([]dto.JudgeSubmissionResponse, error)
}

type submissionServiceImpl struct {
	events       EventStore
	teams        TeamStore
	submissions  SubmissionStore
	authz        Authorizer
	allowedHosts []string
	logger       zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService accepting repositories on allowedHosts
func NewSubmissionService(
	events EventStore,
	teams TeamStore,
	submissions SubmissionStore,
	authz Authorizer,
	allowedHosts []string,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionServiceImpl{
		events:       events,
		teams:        teams,
		submissions:  submissions,
		authz:        authz,
		allowedHosts: allowedHosts,
		logger:       logger,
	}
}

// CreateSubmission records the project of a team the caller belongs to
func (s *submissionServiceImpl) CreateSubmission(ctx context.Context, userID, eventID string, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error) {
	if !validation.IsCodeHostURL(req.RepositoryURL, s.allowedHosts) {
		return nil, apperrors.NewValidationError("repositoryUrl",
			"repository URL must point to one of: "+strings.Join(s.allowedHosts, ", "))
	}

	exists, err := s.events.EventExists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error checking event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	team, err := s.teams.FindByID(ctx, req.TeamID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("error loading team: %w", err)
	}
	if team.EventID != eventID {
		return nil, ErrTeamNotFound
	}

	if team.OwnerID != userID {
		member, err := s.teams.IsMember(ctx, team.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("error checking membership: %w", err)
		}
		if !member {
			return nil, ErrNotTeamMember
		}
	}

	if _, err := s.submissions.FindByEventAndTeam(ctx, eventID, team.ID); err == nil {
		return nil, ErrAlreadySubmitted
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, fmt.Errorf("error checking submission: %w", err)
	}

	sub := &models.Submission{
		EventID:       eventID,
		TeamID:        team.ID,
		ProjectName:   strings.TrimSpace(req.ProjectName),
		Description:   strings.TrimSpace(req.Description),
		RepositoryURL: strings.TrimSpace(req.RepositoryURL),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadySubmitted
		}
		s.logger.Error().Err(err).Str("eventID", eventID).Str("teamID", team.ID).Msg("Failed to create submission")
		return nil, fmt.Errorf("error creating submission: %w", err)
	}

	resp := dto.FromSubmission(sub)
	return &resp, nil
}

// GetTeamSubmission returns the team's submission for the event
func (s *submissionServiceImpl) GetTeamSubmission(ctx context.Context, eventID, teamID string) (*dto.SubmissionResponse, error) {
	sub, err := s.submissions.FindByEventAndTeam(ctx, eventID, teamID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading submission: %w", err)
	}
	resp := dto.FromSubmission(sub)
	return &resp, nil
}

// ListForJudging returns every submission of the event with its team to the organizer and judges
func (s *submissionServiceImpl) ListForJudging(ctx context.Context, userID, eventID string) ([]dto.JudgeSubmissionResponse, error) {
	if _, err := s.authz.ValidateStaff(ctx, eventID, userID); err != nil {
		return nil, err
	}

	subs, err := s.submissions.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	teams, members, err := s.teams.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error loading teams: %w", err)
	}
	byID := make(map[string]*models.Team, len(teams))
	for i := range teams {
		byID[teams[i].ID] = &teams[i]
	}

	out := make([]dto.JudgeSubmissionResponse, 0, len(subs))
	for i := range subs {
		item := dto.JudgeSubmissionResponse{SubmissionResponse: dto.FromSubmission(&subs[i])}
		if team, ok := byID[subs[i].TeamID]; ok {
			summary := teamSummary(team, members[team.ID])
			item.Team = &summary
		}
		out = append(out, item)
	}
	return out, nil
}
