package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/db"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/dberrors"
	"github.com/yigit/openhacks/internal/pkg/logger"
)

// ErrEmailTaken is returned when another account already uses the email
var ErrEmailTaken = apperrors.NewConflictError("email is already used by another account")

var userColumns = []string{
	"id", "email", "name", "bio", "avatar", "website", "github", "linkedin", "twitter",
	"university", "graduation_year", "skills", "created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	var skills []byte
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Bio, &u.Avatar, &u.Website, &u.GitHub, &u.LinkedIn, &u.Twitter,
		&u.University, &u.GraduationYear, &skills, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Skills, err = decodeList(skills); err != nil {
		return nil, err
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return u, nil
}

// Upsert inserts the user or refreshes email and name from the latest identity claims
func (r *UserRepository) Upsert(ctx context.Context, id, email, name string) (*models.User, error) {
	sql, args, err := psql.Insert("users").
		Columns("id", "email", "name").
		Values(id, email, name).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = NOW()").
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return nil, ErrEmailTaken
		}
		logger.Error().Err(err).Str("userID", id).Msg("Error upserting user")
		return nil, fmt.Errorf("error upserting user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

// FindSummaries returns the short form of every listed user that exists
func (r *UserRepository) FindSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	sql, args, err := psql.Select("id", "name", "email", "avatar").From("users").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Avatar); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

// UpdateProfile applies the non-nil fields of update
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	set := map[string]interface{}{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}
	if update.GitHub != nil {
		set["github"] = *update.GitHub
	}
	if update.LinkedIn != nil {
		set["linkedin"] = *update.LinkedIn
	}
	if update.Twitter != nil {
		set["twitter"] = *update.Twitter
	}
	if update.University != nil {
		set["university"] = *update.University
	}
	if update.GraduationYear != nil {
		set["graduation_year"] = *update.GraduationYear
	}
	if update.Skills != nil {
		skills, err := encodeList(update.Skills)
		if err != nil {
			return nil, err
		}
		set["skills"] = skills
	}

	sql, args, err := psql.Update("users").SetMap(set).Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(userColumns)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}

// ActivityCounts returns how many events the user registered for, organizes, judges, and how many teams they own
func (r *UserRepository) ActivityCounts(ctx context.Context, id string) (models.ActivityCounts, error) {
	var c models.ActivityCounts
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM registrations WHERE user_id = $1),
			(SELECT COUNT(*) FROM events WHERE organizer_id = $1),
			(SELECT COUNT(*) FROM event_judges WHERE user_id = $1),
			(SELECT COUNT(*) FROM teams WHERE owner_id = $1)`, id).
		Scan(&c.Registrations, &c.OrganizedEvents, &c.JudgedEvents, &c.OwnedTeams)
	if err != nil {
		return c, fmt.Errorf("error counting user activity: %w", err)
	}
	return c, nil
}

// Delete removes the account and everything that references it in one transaction.
// Callers must make sure the user organizes no events and owns no teams.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		statements := []string{
			`DELETE FROM registrations WHERE user_id = $1`,
			`DELETE FROM scores WHERE judge_id = $1`,
			`DELETE FROM team_members WHERE user_id = $1`,
			`DELETE FROM event_judges WHERE user_id = $1`,
			`DELETE FROM team_invites WHERE invitee_id = $1 OR inviter_id = $1`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("error deleting user data: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
