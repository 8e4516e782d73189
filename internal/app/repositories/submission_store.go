package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/dberrors"
	"github.com/yigit/openhacks/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionsCollection is the document collection holding project submissions
const SubmissionsCollection = "submissions"

// ErrAlreadySubmitted is returned for a second submission of the same team
var ErrAlreadySubmitted = apperrors.NewConflictError("this team has already submitted a project")

// SubmissionStore persists submissions in MongoDB
type SubmissionStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewSubmissionStore creates a SubmissionStore on the database
func NewSubmissionStore(db *mongo.Database) *SubmissionStore {
	return &SubmissionStore{coll: db.Collection(SubmissionsCollection), now: time.Now}
}

// EnsureIndexes creates the unique (eventId, teamId) index
func (s *SubmissionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "teamId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("event_team_unique"),
	})
	if err != nil {
		return fmt.Errorf("error creating submission index: %w", err)
	}
	return nil
}

// Create inserts the submission and sets its ID
func (s *SubmissionStore) Create(ctx context.Context, sub *models.Submission) error {
	now := s.now().UTC()
	sub.CreatedAt, sub.UpdatedAt = now, now

	res, err := s.coll.InsertOne(ctx, sub)
	if err != nil {
		if dberrors.IsDuplicateKey(err) {
			return ErrAlreadySubmitted
		}
		logger.Error().Err(err).Str("eventID", sub.EventID).Str("teamID", sub.TeamID).Msg("Error inserting submission")
		return fmt.Errorf("error inserting submission: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		sub.ID = id
	}
	return nil
}

func (s *SubmissionStore) findOne(ctx context.Context, filter bson.D) (*models.Submission, error) {
	var sub models.Submission
	if err := s.coll.FindOne(ctx, filter).Decode(&sub); err != nil {
		if dberrors.IsNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding submission: %w", err)
	}
	return &sub, nil
}

// FindByEventAndTeam returns the team's submission for the event
func (s *SubmissionStore) FindByEventAndTeam(ctx context.Context, eventID, teamID string) (*models.Submission, error) {
	return s.findOne(ctx, bson.D{{Key: "eventId", Value: eventID}, {Key: "teamId", Value: teamID}})
}

// FindByID returns the submission with the hex object id. A malformed id is treated as missing.
func (s *SubmissionStore) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// ListByEvent returns every submission of the event, oldest first
func (s *SubmissionStore) ListByEvent(ctx context.Context, eventID string) ([]models.Submission, error) {
	cursor, err := s.coll.Find(ctx, bson.D{{Key: "eventId", Value: eventID}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	defer cursor.Close(ctx)

	subs := []models.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error decoding submissions: %w", err)
	}
	return subs, nil
}

// DeleteByEvent removes every submission of the event
func (s *SubmissionStore) DeleteByEvent(ctx context.Context, eventID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{{Key: "eventId", Value: eventID}}); err != nil {
		return fmt.Errorf("error deleting submissions: %w", err)
	}
	return nil
}
