package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Round is a judging round of an event
type Round struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"eventId" db:"event_id"`
	Name      string    `json:"name" db:"name"`
	Index     int       `json:"index" db:"position"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Score is one judge's score for a submission in a round
type Score struct {
	ID           string    `json:"id" db:"id"`
	SubmissionID string    `json:"submissionId" db:"submission_id"`
	RoundID      string    `json:"roundId" db:"round_id"`
	JudgeID      string    `json:"judgeId" db:"judge_id"`
	Score        float64   `json:"score" db:"score"`
	Feedback     *string   `json:"feedback,omitempty" db:"feedback"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Submission is a team's project entry, stored in the 'submissions' collection
type Submission struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID       string             `json:"eventId" bson:"eventId"`
	TeamID        string             `json:"teamId" bson:"teamId"`
	ProjectName   string             `json:"projectName" bson:"projectName"`
	Description   string             `json:"description" bson:"description"`
	RepositoryURL string             `json:"repositoryUrl" bson:"repositoryUrl"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Announcement is an organizer broadcast, stored in the 'announcements' collection
type Announcement struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID   string             `json:"eventId" bson:"eventId"`
	Title     string             `json:"title,omitempty" bson:"title,omitempty"`
	Message   string             `json:"message" bson:"message"`
	AuthorID  string             `json:"authorId" bson:"authorId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// ScoreView is a score with the judge who gave it
type ScoreView struct {
	Score
	Judge UserSummary
}
