package dto

import (
	"time"

	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/listnorm"
)

// FAQRequest is one question/answer pair of an event
type FAQRequest struct {
	Question string `json:"question" validate:"required,notblank,max=500"`
	Answer   string `json:"answer" validate:"required,notblank,max=5000"`
}

// CreateEventRequest represents the event creation payload
type CreateEventRequest struct {
	Title       string                `json:"title" validate:"required,min=3,max=100" example:"Campus Hack 2025"`
	Description string                `json:"description" validate:"required,min=10" example:"48 hours of building things"`
	Mode        string                `json:"mode" validate:"required,oneof=ONLINE OFFLINE HYBRID" example:"HYBRID"`
	StartAt     time.Time             `json:"startAt" validate:"required" example:"2025-05-01T09:00:00Z"`
	EndAt       time.Time             `json:"endAt" validate:"required" example:"2025-05-03T17:00:00Z"`
	Thumbnail   *string               `json:"thumbnail" validate:"omitempty,url"`
	Banner      *string               `json:"banner" validate:"omitempty,url"`
	Theme       *string               `json:"theme" validate:"omitempty,max=200"`
	Rules       *string               `json:"rules"`
	Prizes      *string               `json:"prizes"`
	FAQs        []FAQRequest          `json:"faqs" validate:"omitempty,dive"`
	Tracks      listnorm.FlexibleList `json:"tracks" swaggertype:"array,string"`
	Timeline    listnorm.FlexibleList `json:"timeline" swaggertype:"array,string"`
	Organizers  listnorm.FlexibleList `json:"organizers" swaggertype:"array,string"`
}

// UpdateEventRequest represents a partial event update; absent fields keep their value
type UpdateEventRequest struct {
	Title       *string               `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string               `json:"description" validate:"omitempty,min=10"`
	Mode        *string               `json:"mode" validate:"omitempty,oneof=ONLINE OFFLINE HYBRID"`
	StartAt     *time.Time            `json:"startAt"`
	EndAt       *time.Time            `json:"endAt"`
	Thumbnail   *string               `json:"thumbnail" validate:"omitempty,url"`
	Banner      *string               `json:"banner" validate:"omitempty,url"`
	Theme       *string               `json:"theme" validate:"omitempty,max=200"`
	Rules       *string               `json:"rules"`
	Prizes      *string               `json:"prizes"`
	FAQs        []FAQRequest          `json:"faqs" validate:"omitempty,dive"`
	Tracks      listnorm.FlexibleList `json:"tracks" swaggertype:"array,string"`
	Timeline    listnorm.FlexibleList `json:"timeline" swaggertype:"array,string"`
	Organizers  listnorm.FlexibleList `json:"organizers" swaggertype:"array,string"`
}

// AddJudgeRequest adds a judge to an event
type AddJudgeRequest struct {
	JudgeID string `json:"judgeId" validate:"required,notblank"`
}

// FAQResponse is an event FAQ
type FAQResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Mode        string              `json:"mode"`
	StartAt     time.Time           `json:"startAt"`
	EndAt       time.Time           `json:"endAt"`
	Theme       *string             `json:"theme,omitempty"`
	Rules       *string             `json:"rules,omitempty"`
	Prizes      *string             `json:"prizes,omitempty"`
	Thumbnail   *string             `json:"thumbnail,omitempty"`
	Banner      *string             `json:"banner,omitempty"`
	Tracks      []string            `json:"tracks,omitempty"`
	Timeline    []string            `json:"timeline,omitempty"`
	Organizers  []string            `json:"organizers,omitempty"`
	OrganizerID string              `json:"organizerId"`
	Organizer   *models.UserSummary `json:"organizer,omitempty"`
	FAQs        []FAQResponse       `json:"faqs"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TeamSummaryResponse is a team with its owner and members
type TeamSummaryResponse struct {
	ID      string               `json:"id"`
	Name    string               `json:"name"`
	OwnerID string               `json:"ownerId"`
	Owner   *models.UserSummary  `json:"owner,omitempty"`
	Members []models.UserSummary `json:"members"`
}

// RegistrationResponse is a registration with its user
type RegistrationResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	CreatedAt time.Time          `json:"createdAt"`
	User      models.UserSummary `json:"user"`
}

// EventDetailResponse is a single event with its people
type EventDetailResponse struct {
	EventResponse
	Judges        []models.UserSummary   `json:"judges"`
	Teams         []TeamSummaryResponse  `json:"teams"`
	Registrations []RegistrationResponse `json:"registrations"`
}

// EventPageResponse is one page of the event listing
type EventPageResponse struct {
	Events     []EventResponse `json:"events"`
	NextCursor *string         `json:"nextCursor"`
}

// EventSearchResponse holds search results, best match first
type EventSearchResponse struct {
	Query  string          `json:"query"`
	Events []EventResponse `json:"events"`
}

// RegistrationStatusResponse reports whether the caller is registered
type RegistrationStatusResponse struct {
	IsRegistered bool `json:"isRegistered"`
}

// FromEvent converts a models.Event to an EventResponse
func FromEvent(event *models.Event) EventResponse {
	faqs := make([]FAQResponse, 0, len(event.FAQs))
	for _, f := range event.FAQs {
		faqs = append(faqs, FAQResponse{ID: f.ID, Question: f.Question, Answer: f.Answer})
	}

	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Mode:        string(event.Mode),
		StartAt:     event.StartAt,
		EndAt:       event.EndAt,
		Theme:       event.Theme,
		Rules:       event.Rules,
		Prizes:      event.Prizes,
		Thumbnail:   event.Thumbnail,
		Banner:      event.Banner,
		Tracks:      event.Tracks,
		Timeline:    event.Timeline,
		Organizers:  event.Organizers,
		OrganizerID: event.OrganizerID,
		FAQs:        faqs,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

// ToEventSummary converts a models.Event to its short form
func ToEventSummary(event *models.Event) EventSummary {
	return EventSummary{
		ID:      event.ID,
		Title:   event.Title,
		Mode:    string(event.Mode),
		StartAt: event.StartAt,
		EndAt:   event.EndAt,
	}
}
