package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

// ErrNotFound is returned when a single-row lookup matches nothing
var ErrNotFound = apperrors.ErrResourceNotFound

// psql is the squirrel builder for PostgreSQL placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the relational repository instances
type Repositories struct {
	UserRepository         *UserRepository
	EventRepository        *EventRepository
	RegistrationRepository *RegistrationRepository
	TeamRepository         *TeamRepository
	InviteRepository       *InviteRepository
	RoundRepository        *RoundRepository
	ScoreRepository        *ScoreRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		EventRepository:        NewEventRepository(db),
		RegistrationRepository: NewRegistrationRepository(db),
		TeamRepository:         NewTeamRepository(db),
		InviteRepository:       NewInviteRepository(db),
		RoundRepository:        NewRoundRepository(db),
		ScoreRepository:        NewScoreRepository(db),
	}
}

// encodeList renders a list as a JSONB argument. nil stays SQL NULL.
func encodeList(values []string) (any, error) {
	if values == nil {
		return nil, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("error encoding list: %w", err)
	}
	return string(raw), nil
}

// decodeList reads a JSONB column. SQL NULL yields nil.
func decodeList(raw []byte) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("error decoding list: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// joinColumns renders a column list for RETURNING clauses
func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// prefixColumns qualifies every column with a table alias
func prefixColumns(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
