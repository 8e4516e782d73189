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
)

// Judging errors
var (
	ErrRoundNotFound   = apperrors.NewResourceNotFoundError("round not found")
	ErrRoundOtherEvent = apperrors.NewBadRequestError("round does not belong to the submission's event")
)

// ScoreBounds is the inclusive range a score must lie in
type ScoreBounds struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the bounds
func (b ScoreBounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// JudgingService defines the interface for rounds and scores
type JudgingService interface {
	CreateRound(ctx context.Context, userID string, req *dto.CreateRoundRequest) (*dto.RoundResponse, error)
	ListRounds(ctx context.Context, eventID string) ([]dto.RoundResponse, error)
	SubmitScore(ctx context.Context, userID string, req *dto.CreateScoreRequest) (*dto.ScoreResponse, error)
	ListScores(ctx context.Context, userID, submissionID string) ([]dto.ScoreResponse, error)
}

type judgingServiceImpl struct {
	events      EventStore
	rounds      RoundStore
	scores      ScoreStore
	submissions SubmissionStore
	users       UserStore
	authz       Authorizer
	bounds      ScoreBounds
	logger      zerolog.Logger
}

// NewJudgingService creates a new JudgingService
func NewJudgingService(
	events EventStore,
	rounds RoundStore,
	scores ScoreStore,
	submissions SubmissionStore,
	users UserStore,
	authz Authorizer,
	bounds ScoreBounds,
	logger zerolog.Logger,
) JudgingService {
	return &judgingServiceImpl{
		events:      events,
		rounds:      rounds,
		scores:      scores,
		submissions: submissions,
		users:       users,
		authz:       authz,
		bounds:      bounds,
		logger:      logger,
	}
}

// CreateRound adds a judging round. Only the organizer may add rounds.
func (s *judgingServiceImpl) CreateRound(ctx context.Context, userID string, req *dto.CreateRoundRequest) (*dto.RoundResponse, error) {
	if _, err := s.authz.ValidateOrganizer(ctx, req.EventID, userID); err != nil {
		return nil, err
	}

	round := &models.Round{EventID: req.EventID, Name: strings.TrimSpace(req.Name), Index: req.Index}
	if err := s.rounds.Create(ctx, round); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("eventID", req.EventID).Msg("Failed to create round")
		return nil, fmt.Errorf("error creating round: %w", err)
	}
	resp := dto.FromRound(round)
	return &resp, nil
}

// ListRounds returns the event's rounds ordered by index
func (s *judgingServiceImpl) ListRounds(ctx context.Context, eventID string) ([]dto.RoundResponse, error) {
	exists, err := s.events.EventExists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error checking event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	rounds, err := s.rounds.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing rounds: %w", err)
	}
	out := make([]dto.RoundResponse, 0, len(rounds))
	for i := range rounds {
		out = append(out, dto.FromRound(&rounds[i]))
	}
	return out, nil
}

func (s *judgingServiceImpl) loadSubmission(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error loading submission: %w", err)
	}
	return sub, nil
}

// SubmitScore records or replaces the caller's score. The caller must judge the
// event the submission belongs to.
func (s *judgingServiceImpl) SubmitScore(ctx context.Context, userID string, req *dto.CreateScoreRequest) (*dto.ScoreResponse, error) {
	sub, err := s.loadSubmission(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.ValidateJudge(ctx, sub.EventID, userID); err != nil {
		return nil, err
	}

	round, err := s.rounds.FindByID(ctx, req.RoundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("error loading round: %w", err)
	}
	if round.EventID != sub.EventID {
		return nil, ErrRoundOtherEvent
	}

	if req.Score == nil || !s.bounds.Contains(*req.Score) {
		return nil, apperrors.NewValidationError("score",
			fmt.Sprintf("score must be between %g and %g", s.bounds.Min, s.bounds.Max))
	}

	score := &models.Score{
		SubmissionID: req.SubmissionID,
		RoundID:      round.ID,
		JudgeID:      userID,
		Score:        *req.Score,
		Feedback:     req.Feedback,
	}
	if err := s.scores.Upsert(ctx, score); err != nil {
		s.logger.Error().Err(err).Str("submissionID", req.SubmissionID).Str("judgeID", userID).Msg("Failed to save score")
		return nil, fmt.Errorf("error saving score: %w", err)
	}

	resp := dto.FromScore(score)
	if judges, err := s.users.FindSummaries(ctx, []string{userID}); err == nil {
		if judge, ok := judges[userID]; ok {
			resp.Judge = &judge
		}
	}
	return &resp, nil
}

// ListScores returns every score of a submission to the organizer and judges of its event
func (s *judgingServiceImpl) ListScores(ctx context.Context, userID, submissionID string) ([]dto.ScoreResponse, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.ValidateStaff(ctx, sub.EventID, userID); err != nil {
		return nil, err
	}

	views, err := s.scores.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("error listing scores: %w", err)
	}
	out := make([]dto.ScoreResponse, 0, len(views))
	for i := range views {
		resp := dto.FromScore(&views[i].Score)
		judge := views[i].Judge
		resp.Judge = &judge
		out = append(out, resp)
	}
	return out, nil
}
