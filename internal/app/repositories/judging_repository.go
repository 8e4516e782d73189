package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/dberrors"
	"github.com/yigit/openhacks/internal/pkg/logger"
)

// RoundRepository handles judging round database operations
type RoundRepository struct {
	db *pgxpool.Pool
}

// NewRoundRepository creates a new RoundRepository
func NewRoundRepository(db *pgxpool.Pool) *RoundRepository {
	return &RoundRepository{db: db}
}

// Create inserts a round
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	if round.ID == "" {
		round.ID = uuid.NewString()
	}
	sql, args, err := psql.Insert("rounds").
		Columns("id", "event_id", "name", "position").
		Values(round.ID, round.EventID, round.Name, round.Index).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&round.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("a round with this index already exists")
		}
		logger.Error().Err(err).Str("eventID", round.EventID).Msg("Error creating round")
		return fmt.Errorf("error creating round: %w", err)
	}
	return nil
}

// FindByID retrieves a round by ID
func (r *RoundRepository) FindByID(ctx context.Context, id string) (*models.Round, error) {
	round := &models.Round{}
	err := r.db.QueryRow(ctx, `SELECT id, event_id, name, position, created_at FROM rounds WHERE id = $1`, id).
		Scan(&round.ID, &round.EventID, &round.Name, &round.Index, &round.CreatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting round: %w", err)
	}
	return round, nil
}

// ListByEvent returns the event's rounds ordered by index
func (r *RoundRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Round, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, name, position, created_at FROM rounds WHERE event_id = $1 ORDER BY position, created_at`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	rounds := []models.Round{}
	for rows.Next() {
		var round models.Round
		if err := rows.Scan(&round.ID, &round.EventID, &round.Name, &round.Index, &round.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning round row: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// ScoreRepository handles score database operations
type ScoreRepository struct {
	db *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository
func NewScoreRepository(db *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Upsert records the judge's score, replacing an earlier one for the same submission and round
func (r *ScoreRepository) Upsert(ctx context.Context, score *models.Score) error {
	sql, args, err := psql.Insert("scores").
		Columns("id", "submission_id", "round_id", "judge_id", "score", "feedback").
		Values(uuid.NewString(), score.SubmissionID, score.RoundID, score.JudgeID, score.Score, score.Feedback).
		Suffix(`ON CONFLICT (submission_id, round_id, judge_id)
			DO UPDATE SET score = EXCLUDED.score, feedback = EXCLUDED.feedback, updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&score.ID, &score.CreatedAt, &score.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("submissionID", score.SubmissionID).Msg("Error saving score")
		return fmt.Errorf("error saving score: %w", err)
	}
	return nil
}

// ListBySubmission returns every score of a submission with its judge
func (r *ScoreRepository) ListBySubmission(ctx context.Context, submissionID string) ([]models.ScoreView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.submission_id, s.round_id, s.judge_id, s.score, s.feedback, s.created_at, s.updated_at,
		       u.id, u.name, u.email, u.avatar
		FROM scores s
		JOIN rounds r ON r.id = s.round_id
		JOIN users u ON u.id = s.judge_id
		WHERE s.submission_id = $1
		ORDER BY r.position, s.created_at`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("error querying scores: %w", err)
	}
	defer rows.Close()

	scores := []models.ScoreView{}
	for rows.Next() {
		var s models.ScoreView
		err := rows.Scan(&s.ID, &s.SubmissionID, &s.RoundID, &s.JudgeID, &s.Score.Score, &s.Feedback, &s.CreatedAt,
			&s.UpdatedAt, &s.Judge.ID, &s.Judge.Name, &s.Judge.Email, &s.Judge.Avatar)
		if err != nil {
			return nil, fmt.Errorf("error scanning score row: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
