package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnnouncementsCollection is the document collection holding announcement history
const AnnouncementsCollection = "announcements"

// AnnouncementStore persists announcements in MongoDB
type AnnouncementStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAnnouncementStore creates an AnnouncementStore on the database
func NewAnnouncementStore(db *mongo.Database) *AnnouncementStore {
	return &AnnouncementStore{coll: db.Collection(AnnouncementsCollection), now: time.Now}
}

// EnsureIndexes creates the (eventId, createdAt desc) index
func (s *AnnouncementStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("event_recent"),
	})
	if err != nil {
		return fmt.Errorf("error creating announcement index: %w", err)
	}
	return nil
}

// Create inserts the announcement and sets its ID and timestamp
func (s *AnnouncementStore) Create(ctx context.Context, a *models.Announcement) error {
	a.CreatedAt = s.now().UTC()

	res, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		logger.Error().Err(err).Str("eventID", a.EventID).Msg("Error inserting announcement")
		return fmt.Errorf("error inserting announcement: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

// ListByEvent returns the event's announcements newest first
func (s *AnnouncementStore) ListByEvent(ctx context.Context, eventID string) ([]models.Announcement, error) {
	cursor, err := s.coll.Find(ctx, bson.D{{Key: "eventId", Value: eventID}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Announcement{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding announcements: %w", err)
	}
	return out, nil
}

// DeleteByEvent removes the event's announcement history
func (s *AnnouncementStore) DeleteByEvent(ctx context.Context, eventID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{{Key: "eventId", Value: eventID}}); err != nil {
		return fmt.Errorf("error deleting announcements: %w", err)
	}
	return nil
}
