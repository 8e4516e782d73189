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

// ErrTeamAlreadyOwned is returned when the owner already has a team in the event
var ErrTeamAlreadyOwned = apperrors.NewConflictError("you already own a team in this event")

// TeamRepository handles team and membership database operations
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts the team and the owner's membership in one transaction
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}

	sql, args, err := psql.Insert("teams").
		Columns("id", "name", "event_id", "owner_id").
		Values(team.ID, team.Name, team.EventID, team.OwnerID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&team.CreatedAt, &team.UpdatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "teams_event_owner_key") {
				return ErrTeamAlreadyOwned
			}
			logger.Error().Err(err).Str("eventID", team.EventID).Msg("Error creating team")
			return fmt.Errorf("error creating team: %w", err)
		}
		_, err := tx.Exec(ctx, `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`, team.ID, team.OwnerID)
		if err != nil {
			return fmt.Errorf("error adding team owner: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a team by ID
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.Team, error) {
	t := &models.Team{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, event_id, owner_id, created_at, updated_at FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.EventID, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting team: %w", err)
	}
	return t, nil
}

// OwnsTeamInEvent reports whether the user owns a team in the event
func (r *TeamRepository) OwnsTeamInEvent(ctx context.Context, eventID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM teams WHERE event_id = $1 AND owner_id = $2)`, eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking team ownership: %w", err)
	}
	return exists, nil
}

// Rename changes the team name
func (r *TeamRepository) Rename(ctx context.Context, id, name string) (*models.Team, error) {
	t := &models.Team{}
	err := r.db.QueryRow(ctx, `
		UPDATE teams SET name = $2, updated_at = NOW() WHERE id = $1
		RETURNING id, name, event_id, owner_id, created_at, updated_at`, id, name).
		Scan(&t.ID, &t.Name, &t.EventID, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error renaming team: %w", err)
	}
	return t, nil
}

// Delete removes the team. Members and invites cascade.
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("teamID", id).Msg("Error deleting team")
		return fmt.Errorf("error deleting team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TeamRepository) queryMembers(ctx context.Context, where string, arg string) ([]models.TeamMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.team_id, m.user_id, m.joined_at, u.id, u.name, u.email, u.avatar
		FROM team_members m
		JOIN users u ON u.id = m.user_id
		WHERE `+where+`
		ORDER BY m.joined_at, m.user_id`, arg)
	if err != nil {
		return nil, fmt.Errorf("error querying members: %w", err)
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var m models.TeamMember
		err := rows.Scan(&m.TeamID, &m.UserID, &m.JoinedAt, &m.User.ID, &m.User.Name, &m.User.Email, &m.User.Avatar)
		if err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListMembers returns the team's members in join order
func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	return r.queryMembers(ctx, "m.team_id = $1", teamID)
}

// ListByEvent returns the event's teams and their members keyed by team id
func (r *TeamRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Team, map[string][]models.TeamMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, event_id, owner_id, created_at, updated_at
		FROM teams WHERE event_id = $1 ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying teams: %w", err)
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.EventID, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, nil, fmt.Errorf("error scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	members, err := r.queryMembers(ctx, "m.team_id IN (SELECT id FROM teams WHERE event_id = $1)", eventID)
	if err != nil {
		return nil, nil, err
	}
	byTeam := make(map[string][]models.TeamMember, len(teams))
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m)
	}
	return teams, byTeam, nil
}

// IsMember reports whether the user belongs to the team
func (r *TeamRepository) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`, teamID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}

// IsMemberInEvent reports whether the user belongs to any team of the event
func (r *TeamRepository) IsMemberInEvent(ctx context.Context, eventID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM team_members tm JOIN teams t ON t.id = tm.team_id
			WHERE t.event_id = $1 AND tm.user_id = $2)`, eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking event membership: %w", err)
	}
	return exists, nil
}

// AddMember inserts the membership. Adding an existing member is a no-op.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT (team_id, user_id) DO NOTHING`,
		teamID, userID)
	if err != nil {
		return fmt.Errorf("error adding member: %w", err)
	}
	return nil
}

// RemoveMember deletes the membership and reports whether one existed
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("error removing member: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
