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

// ErrInviteProcessed is returned when an invite is no longer pending
var ErrInviteProcessed = apperrors.NewConflictError("invite already processed")

const inviteReturning = "RETURNING id, team_id, inviter_id, invitee_id, status, created_at, updated_at"

// InviteRepository handles team invite database operations
type InviteRepository struct {
	db *pgxpool.Pool
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{db: db}
}

func scanInvite(row pgx.Row) (*models.TeamInvite, error) {
	inv := &models.TeamInvite{}
	err := row.Scan(&inv.ID, &inv.TeamID, &inv.InviterID, &inv.InviteeID, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InviteRepository) findOne(ctx context.Context, where string, args ...any) (*models.TeamInvite, error) {
	inv, err := scanInvite(r.db.QueryRow(ctx, `
		SELECT id, team_id, inviter_id, invitee_id, status, created_at, updated_at
		FROM team_invites WHERE `+where, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting invite: %w", err)
	}
	return inv, nil
}

// FindByID retrieves an invite by ID
func (r *InviteRepository) FindByID(ctx context.Context, id string) (*models.TeamInvite, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindPending returns the pending invite for the (team, invitee) pair
func (r *InviteRepository) FindPending(ctx context.Context, teamID, inviteeID string) (*models.TeamInvite, error) {
	return r.findOne(ctx, "team_id = $1 AND invitee_id = $2 AND status = 'PENDING'", teamID, inviteeID)
}

// Create inserts a pending invite. When a concurrent request created the same pending
// invite first, that one is returned and created is false.
func (r *InviteRepository) Create(ctx context.Context, teamID, inviterID, inviteeID string) (*models.TeamInvite, bool, error) {
	sql, args, err := psql.Insert("team_invites").
		Columns("id", "team_id", "inviter_id", "invitee_id", "status").
		Values(uuid.NewString(), teamID, inviterID, inviteeID, models.InvitePending).
		Suffix(inviteReturning).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("error building SQL: %w", err)
	}

	inv, err := scanInvite(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "team_invites_pending_key") {
			existing, findErr := r.FindPending(ctx, teamID, inviteeID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		logger.Error().Err(err).Str("teamID", teamID).Str("inviteeID", inviteeID).Msg("Error creating invite")
		return nil, false, fmt.Errorf("error creating invite: %w", err)
	}
	return inv, true, nil
}

func transition(ctx context.Context, q db.Querier, id string, status models.InviteStatus) (*models.TeamInvite, error) {
	inv, err := scanInvite(q.QueryRow(ctx, `
		UPDATE team_invites SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' `+inviteReturning, id, status))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrInviteProcessed
		}
		return nil, fmt.Errorf("error updating invite: %w", err)
	}
	return inv, nil
}

// Decline moves a pending invite to DECLINED
func (r *InviteRepository) Decline(ctx context.Context, id string) (*models.TeamInvite, error) {
	return transition(ctx, r.db, id, models.InviteDeclined)
}

// Accept moves a pending invite to ACCEPTED and adds the invitee to the team in one transaction
func (r *InviteRepository) Accept(ctx context.Context, id string) (*models.TeamInvite, error) {
	var accepted *models.TeamInvite
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		inv, err := transition(ctx, tx, id, models.InviteAccepted)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT (team_id, user_id) DO NOTHING`,
			inv.TeamID, inv.InviteeID)
		if err != nil {
			return fmt.Errorf("error adding member: %w", err)
		}
		accepted = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

func (r *InviteRepository) queryViews(ctx context.Context, where string, arg string) ([]models.InviteView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.team_id, i.inviter_id, i.invitee_id, i.status, i.created_at, i.updated_at,
		       t.name, e.id, e.title,
		       ie.id, ie.name, ie.email, ie.avatar,
		       ir.id, ir.name, ir.email, ir.avatar
		FROM team_invites i
		JOIN teams t ON t.id = i.team_id
		JOIN events e ON e.id = t.event_id
		JOIN users ie ON ie.id = i.invitee_id
		JOIN users ir ON ir.id = i.inviter_id
		WHERE `+where+`
		ORDER BY i.created_at DESC, i.id DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("error querying invites: %w", err)
	}
	defer rows.Close()

	out := []models.InviteView{}
	for rows.Next() {
		var v models.InviteView
		err := rows.Scan(&v.ID, &v.TeamID, &v.InviterID, &v.InviteeID, &v.Status, &v.CreatedAt, &v.UpdatedAt,
			&v.TeamName, &v.EventID, &v.EventTitle,
			&v.Invitee.ID, &v.Invitee.Name, &v.Invitee.Email, &v.Invitee.Avatar,
			&v.Inviter.ID, &v.Inviter.Name, &v.Inviter.Email, &v.Inviter.Avatar)
		if err != nil {
			return nil, fmt.Errorf("error scanning invite row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListByTeam returns every invite of the team, newest first
func (r *InviteRepository) ListByTeam(ctx context.Context, teamID string) ([]models.InviteView, error) {
	return r.queryViews(ctx, "i.team_id = $1", teamID)
}

// ListPendingForUser returns the user's pending invites, newest first
func (r *InviteRepository) ListPendingForUser(ctx context.Context, userID string) ([]models.InviteView, error) {
	return r.queryViews(ctx, "i.invitee_id = $1 AND i.status = 'PENDING'", userID)
}
