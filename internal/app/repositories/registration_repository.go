package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/db"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/dberrors"
	"github.com/yigit/openhacks/internal/pkg/logger"
)

// ErrAlreadyRegistered is returned for a second registration of the same user
var ErrAlreadyRegistered = apperrors.NewConflictError("already registered")

// ErrRegistrationNotFound is returned when withdrawing a registration that does not exist
var ErrRegistrationNotFound = apperrors.NewResourceNotFoundError("registration not found")

// RegistrationRepository handles registration database operations
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create registers the user for the event
func (r *RegistrationRepository) Create(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	reg := &models.Registration{ID: uuid.NewString(), EventID: eventID, UserID: userID}

	sql, args, err := psql.Insert("registrations").
		Columns("id", "event_id", "user_id").
		Values(reg.ID, eventID, userID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&reg.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "registrations_event_user_key") {
			return nil, ErrAlreadyRegistered
		}
		logger.Error().Err(err).Str("eventID", eventID).Str("userID", userID).Msg("Error creating registration")
		return nil, fmt.Errorf("error creating registration: %w", err)
	}
	return reg, nil
}

// Exists reports whether the user is registered for the event
func (r *RegistrationRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE event_id = $1 AND user_id = $2)`, eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking registration: %w", err)
	}
	return exists, nil
}

// Withdraw deletes the registration, drops the user from the event's teams and declines
// their pending invites to those teams, all in one transaction.
func (r *RegistrationRepository) Withdraw(ctx context.Context, eventID, userID string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
		if err != nil {
			return fmt.Errorf("error deleting registration: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrRegistrationNotFound
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM team_members
			WHERE user_id = $2 AND team_id IN (SELECT id FROM teams WHERE event_id = $1)`, eventID, userID)
		if err != nil {
			return fmt.Errorf("error removing memberships: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE team_invites SET status = 'DECLINED', updated_at = NOW()
			WHERE invitee_id = $2 AND status = 'PENDING'
			  AND team_id IN (SELECT id FROM teams WHERE event_id = $1)`, eventID, userID)
		if err != nil {
			return fmt.Errorf("error declining invites: %w", err)
		}
		return nil
	})
}

// ListByEvent returns the event's registrations with user summaries, oldest first
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.event_id, r.user_id, r.created_at, u.id, u.name, u.email, u.avatar
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at, r.id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	out := []models.RegistrationView{}
	for rows.Next() {
		var v models.RegistrationView
		err := rows.Scan(&v.ID, &v.EventID, &v.UserID, &v.CreatedAt, &v.User.ID, &v.User.Name, &v.User.Email, &v.User.Avatar)
		if err != nil {
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListByUser returns the user's registrations with their events, ordered by event start
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]models.RegistrationEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.event_id, r.user_id, r.created_at, e.id, e.title, e.mode, e.start_at, e.end_at
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY e.start_at, e.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	out := []models.RegistrationEvent{}
	for rows.Next() {
		var v models.RegistrationEvent
		err := rows.Scan(&v.ID, &v.EventID, &v.UserID, &v.CreatedAt,
			&v.Event.ID, &v.Event.Title, &v.Event.Mode, &v.Event.StartAt, &v.Event.EndAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
