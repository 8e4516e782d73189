package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/db"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/dberrors"
	"github.com/yigit/openhacks/internal/pkg/helpers"
	"github.com/yigit/openhacks/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "title", "description", "mode", "start_at", "end_at", "theme", "rules", "prizes",
	"thumbnail", "banner", "tracks", "timeline", "organizers", "organizer_id", "created_at", "updated_at",
}

// EventRepository handles event, FAQ and judge database operations
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	var tracks, timeline, organizers []byte
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Mode, &e.StartAt, &e.EndAt, &e.Theme, &e.Rules, &e.Prizes,
		&e.Thumbnail, &e.Banner, &tracks, &timeline, &organizers, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := decodeEventLists(e, tracks, timeline, organizers); err != nil {
		return nil, err
	}
	return e, nil
}

// decodeEventLists fills the JSONB list columns of e
func decodeEventLists(e *models.Event, tracks, timeline, organizers []byte) error {
	var err error
	if e.Tracks, err = decodeList(tracks); err != nil {
		return err
	}
	if e.Timeline, err = decodeList(timeline); err != nil {
		return err
	}
	if e.Organizers, err = decodeList(organizers); err != nil {
		return err
	}
	return nil
}

func (r *EventRepository) queryEvents(ctx context.Context, q squirrel.SelectBuilder) ([]models.Event, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying events")
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

// listArgs encodes the three JSONB list columns
func listArgs(e *models.Event) (tracks, timeline, organizers any, err error) {
	if tracks, err = encodeList(e.Tracks); err != nil {
		return
	}
	if timeline, err = encodeList(e.Timeline); err != nil {
		return
	}
	organizers, err = encodeList(e.Organizers)
	return
}

func insertFAQs(ctx context.Context, tx pgx.Tx, eventID string, faqs []models.EventFAQ) error {
	for i := range faqs {
		faqs[i].ID = uuid.NewString()
		faqs[i].EventID = eventID
		faqs[i].Position = i
		_, err := tx.Exec(ctx,
			`INSERT INTO event_faqs (id, event_id, question, answer, position) VALUES ($1, $2, $3, $4, $5)`,
			faqs[i].ID, eventID, faqs[i].Question, faqs[i].Answer, i)
		if err != nil {
			return fmt.Errorf("error inserting FAQ: %w", err)
		}
	}
	return nil
}

// Create inserts the event and its FAQs in one transaction
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	tracks, timeline, organizers, err := listArgs(event)
	if err != nil {
		return err
	}

	sql, args, err := psql.Insert("events").
		Columns("id", "title", "description", "mode", "start_at", "end_at", "theme", "rules", "prizes",
			"thumbnail", "banner", "tracks", "timeline", "organizers", "organizer_id").
		Values(event.ID, event.Title, event.Description, event.Mode, event.StartAt, event.EndAt, event.Theme,
			event.Rules, event.Prizes, event.Thumbnail, event.Banner, tracks, timeline, organizers, event.OrganizerID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&event.CreatedAt, &event.UpdatedAt); err != nil {
			logger.Error().Err(err).Str("title", event.Title).Msg("Error creating event")
			return fmt.Errorf("error creating event: %w", err)
		}
		if event.FAQs == nil {
			event.FAQs = []models.EventFAQ{}
		}
		return insertFAQs(ctx, tx, event.ID, event.FAQs)
	})
}

// FindByID retrieves an event with its FAQs
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	sql, args, err := psql.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting event: %w", err)
	}

	if event.FAQs, err = r.listFAQs(ctx, id); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) listFAQs(ctx context.Context, eventID string) ([]models.EventFAQ, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, question, answer, position FROM event_faqs WHERE event_id = $1 ORDER BY position, id`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("error querying FAQs: %w", err)
	}
	defer rows.Close()

	faqs := []models.EventFAQ{}
	for rows.Next() {
		var f models.EventFAQ
		if err := rows.Scan(&f.ID, &f.EventID, &f.Question, &f.Answer, &f.Position); err != nil {
			return nil, fmt.Errorf("error scanning FAQ row: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

// EventExists reports whether an event with the id exists
func (r *EventRepository) EventExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking event: %w", err)
	}
	return exists, nil
}

// sortColumn maps the public sort key to its column
func sortColumn(sortBy string) string {
	if sortBy == helpers.SortByCreatedAt {
		return "created_at"
	}
	return "start_at"
}

// listEventsQuery builds the keyset page query. With an anchor, rows start at the cursor
// row (anchor, cursor id) in the requested direction. One extra row is fetched to detect a next page.
func listEventsQuery(query models.EventListQuery, anchor *time.Time) squirrel.SelectBuilder {
	column := sortColumn(query.SortBy)
	direction, cmp := "ASC", ">="
	if query.Desc {
		direction, cmp = "DESC", "<="
	}

	q := psql.Select(eventColumns...).From("events")
	if query.Mode != nil {
		q = q.Where(squirrel.Eq{"mode": string(*query.Mode)})
	}
	if anchor != nil {
		q = q.Where(squirrel.Expr(fmt.Sprintf("(%s, id) %s (?, ?)", column, cmp), *anchor, query.Cursor))
	}
	return q.OrderBy(column+" "+direction, "id "+direction).Limit(uint64(query.Limit + 1))
}

// splitPage trims the look-ahead row and returns its id as the next cursor
func splitPage(events []models.Event, limit int) ([]models.Event, *string) {
	if len(events) <= limit {
		return events, nil
	}
	next := events[limit].ID
	return events[:limit], &next
}

// List returns one page ordered by (sort column, id) and the id of the first row of the next page.
// The cursor row itself is the first row of the returned page.
func (r *EventRepository) List(ctx context.Context, query models.EventListQuery) ([]models.Event, *string, error) {
	var anchor *time.Time
	if query.Cursor != "" {
		var at time.Time
		err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, sortColumn(query.SortBy)), query.Cursor).
			Scan(&at)
		if err != nil {
			if dberrors.IsNoRows(err) {
				return nil, nil, apperrors.NewBadRequestError("invalid cursor")
			}
			return nil, nil, fmt.Errorf("error resolving cursor: %w", err)
		}
		anchor = &at
	}

	events, err := r.queryEvents(ctx, listEventsQuery(query, anchor))
	if err != nil {
		return nil, nil, err
	}

	page, next := splitPage(events, query.Limit)
	return page, next, nil
}

// SearchByText matches the term against title, description, theme and tracks
func (r *EventRepository) SearchByText(ctx context.Context, term string, limit int) ([]models.Event, error) {
	pattern := "%" + term + "%"
	q := psql.Select(eventColumns...).From("events").
		Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"theme": pattern},
			squirrel.Expr("tracks::text ILIKE ?", pattern),
		}).
		OrderBy("start_at ASC", "id ASC").
		Limit(uint64(limit))
	return r.queryEvents(ctx, q)
}

// FindByIDs loads the listed events in the order of ids, skipping any that no longer exist
func (r *EventRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	found, err := r.queryEvents(ctx, psql.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Event, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	events := make([]models.Event, 0, len(found))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			events = append(events, e)
		}
	}
	return events, nil
}

// Update writes every column of the merged event. When replaceFAQs is set the FAQ rows
// are recreated from event.FAQs inside the same transaction.
func (r *EventRepository) Update(ctx context.Context, event *models.Event, replaceFAQs bool) error {
	tracks, timeline, organizers, err := listArgs(event)
	if err != nil {
		return err
	}

	sql, args, err := psql.Update("events").
		SetMap(map[string]interface{}{
			"title":       event.Title,
			"description": event.Description,
			"mode":        event.Mode,
			"start_at":    event.StartAt,
			"end_at":      event.EndAt,
			"theme":       event.Theme,
			"rules":       event.Rules,
			"prizes":      event.Prizes,
			"thumbnail":   event.Thumbnail,
			"banner":      event.Banner,
			"tracks":      tracks,
			"timeline":    timeline,
			"organizers":  organizers,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": event.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&event.UpdatedAt); err != nil {
			if dberrors.IsNoRows(err) {
				return ErrNotFound
			}
			logger.Error().Err(err).Str("eventID", event.ID).Msg("Error updating event")
			return fmt.Errorf("error updating event: %w", err)
		}
		if !replaceFAQs {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM event_faqs WHERE event_id = $1`, event.ID); err != nil {
			return fmt.Errorf("error deleting FAQs: %w", err)
		}
		if event.FAQs == nil {
			event.FAQs = []models.EventFAQ{}
		}
		return insertFAQs(ctx, tx, event.ID, event.FAQs)
	})
}

// Delete removes the event. FAQs, judges, registrations, teams, invites and rounds cascade.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("eventID", id).Msg("Error deleting event")
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddJudge links a judge to the event. Adding an existing judge is a no-op.
func (r *EventRepository) AddJudge(ctx context.Context, eventID, userID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO event_judges (event_id, user_id) VALUES ($1, $2) ON CONFLICT (event_id, user_id) DO NOTHING`,
		eventID, userID)
	if err != nil {
		return fmt.Errorf("error adding judge: %w", err)
	}
	return nil
}

// RemoveJudge unlinks a judge from the event
func (r *EventRepository) RemoveJudge(ctx context.Context, eventID, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM event_judges WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("error removing judge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("judge not found")
	}
	return nil
}

// IsJudge reports whether the user judges the event
func (r *EventRepository) IsJudge(ctx context.Context, eventID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM event_judges WHERE event_id = $1 AND user_id = $2)`, eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking judge: %w", err)
	}
	return exists, nil
}

// ListJudges returns the judges of the event ordered by name
func (r *EventRepository) ListJudges(ctx context.Context, eventID string) ([]models.UserSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.email, u.avatar
		FROM event_judges j
		JOIN users u ON u.id = j.user_id
		WHERE j.event_id = $1
		ORDER BY u.name, u.id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("error querying judges: %w", err)
	}
	defer rows.Close()

	judges := []models.UserSummary{}
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Avatar); err != nil {
			return nil, fmt.Errorf("error scanning judge row: %w", err)
		}
		judges = append(judges, s)
	}
	return judges, rows.Err()
}

// ListOrganizedBy returns the user's events newest first with their registration counts.
// A limit of zero returns all of them.
func (r *EventRepository) ListOrganizedBy(ctx context.Context, userID string, limit int) ([]models.OrganizedEvent, error) {
	columns := append(prefixColumns("e", eventColumns),
		"(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id) AS registration_count")
	q := psql.Select(columns...).From("events e").
		Where(squirrel.Eq{"e.organizer_id": userID}).
		OrderBy("e.created_at DESC", "e.id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying organized events: %w", err)
	}
	defer rows.Close()

	out := []models.OrganizedEvent{}
	for rows.Next() {
		var o models.OrganizedEvent
		var tracks, timeline, organizers []byte
		err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.Mode, &o.StartAt, &o.EndAt, &o.Theme, &o.Rules,
			&o.Prizes, &o.Thumbnail, &o.Banner, &tracks, &timeline, &organizers, &o.OrganizerID, &o.CreatedAt,
			&o.UpdatedAt, &o.RegistrationCount)
		if err != nil {
			return nil, fmt.Errorf("error scanning organized event row: %w", err)
		}
		if err := decodeEventLists(&o.Event, tracks, timeline, organizers); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListJudgedBy returns the events the user judges ordered by start time.
// A limit of zero returns all of them.
func (r *EventRepository) ListJudgedBy(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	q := psql.Select(prefixColumns("e", eventColumns)...).From("events e").
		Join("event_judges j ON j.event_id = e.id").
		Where(squirrel.Eq{"j.user_id": userID}).
		OrderBy("e.start_at ASC", "e.id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.queryEvents(ctx, q)
}
