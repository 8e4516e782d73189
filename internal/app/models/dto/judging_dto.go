package dto

import (
	"time"

	"github.com/yigit/openhacks/internal/app/models"
)

// CreateSubmissionRequest represents a project submission
type CreateSubmissionRequest struct {
	TeamID        string `json:"teamId" validate:"required,notblank"`
	ProjectName   string `json:"projectName" validate:"required,notblank,min=1,max=100" example:"TrailMix"`
	Description   string `json:"description" validate:"required,min=10,max=1000"`
	RepositoryURL string `json:"repositoryUrl" validate:"required,http_url" example:"https://github.com/acme/trailmix"`
}

// SubmissionResponse represents a submission
type SubmissionResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"eventId"`
	TeamID        string    `json:"teamId"`
	ProjectName   string    `json:"projectName"`
	Description   string    `json:"description"`
	RepositoryURL string    `json:"repositoryUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// JudgeSubmissionResponse is a submission with the team behind it
type JudgeSubmissionResponse struct {
	SubmissionResponse
	Team *TeamSummaryResponse `json:"team,omitempty"`
}

// CreateRoundRequest creates a judging round
type CreateRoundRequest struct {
	EventID string `json:"eventId" validate:"required,notblank"`
	Name    string `json:"name" validate:"required,notblank,max=100" example:"Finals"`
	Index   int    `json:"index" validate:"min=0" example:"1"`
}

// RoundResponse represents a judging round
type RoundResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Index     int       `json:"index"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateScoreRequest scores a submission in a round
type CreateScoreRequest struct {
	SubmissionID string   `json:"submissionId" validate:"required,notblank"`
	RoundID      string   `json:"roundId" validate:"required,notblank"`
	Score        *float64 `json:"score" validate:"required" example:"8.5"`
	Feedback     *string  `json:"feedback" validate:"omitempty,max=2000"`
}

// ScoreResponse represents a judge's score
type ScoreResponse struct {
	ID           string              `json:"id"`
	SubmissionID string              `json:"submissionId"`
	RoundID      string              `json:"roundId"`
	JudgeID      string              `json:"judgeId"`
	Score        float64             `json:"score"`
	Feedback     *string             `json:"feedback,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Judge        *models.UserSummary `json:"judge,omitempty"`
}

// CreateAnnouncementRequest is an organizer broadcast
type CreateAnnouncementRequest struct {
	EventID string `json:"eventId" validate:"required,notblank"`
	Title   string `json:"title" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

// AnnouncementResponse is both the API shape and the relayed payload
type AnnouncementResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromSubmission converts a models.Submission
func FromSubmission(s *models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:            s.ID.Hex(),
		EventID:       s.EventID,
		TeamID:        s.TeamID,
		ProjectName:   s.ProjectName,
		Description:   s.Description,
		RepositoryURL: s.RepositoryURL,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// FromRound converts a models.Round
func FromRound(r *models.Round) RoundResponse {
	return RoundResponse{ID: r.ID, EventID: r.EventID, Name: r.Name, Index: r.Index, CreatedAt: r.CreatedAt}
}

// FromScore converts a models.Score
func FromScore(s *models.Score) ScoreResponse {
	return ScoreResponse{
		ID:           s.ID,
		SubmissionID: s.SubmissionID,
		RoundID:      s.RoundID,
		JudgeID:      s.JudgeID,
		Score:        s.Score,
		Feedback:     s.Feedback,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// FromAnnouncement converts a models.Announcement
func FromAnnouncement(a *models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID.Hex(),
		EventID:   a.EventID,
		Title:     a.Title,
		Message:   a.Message,
		AuthorID:  a.AuthorID,
		CreatedAt: a.CreatedAt,
	}
}
