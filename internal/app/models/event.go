package models

import "time"

// Event defines the event model based on the 'events' table
type Event struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Mode        EventMode `json:"mode" db:"mode"`
	StartAt     time.Time `json:"startAt" db:"start_at"`
	EndAt       time.Time `json:"endAt" db:"end_at"`
	Theme       *string   `json:"theme,omitempty" db:"theme"`
	Rules       *string   `json:"rules,omitempty" db:"rules"`
	Prizes      *string   `json:"prizes,omitempty" db:"prizes"`
	Thumbnail   *string   `json:"thumbnail,omitempty" db:"thumbnail"`
	Banner      *string   `json:"banner,omitempty" db:"banner"`
	// nil means the list was never provided
	Tracks      []string   `json:"tracks,omitempty" db:"tracks"`
	Timeline    []string   `json:"timeline,omitempty" db:"timeline"`
	Organizers  []string   `json:"organizers,omitempty" db:"organizers"`
	OrganizerID string     `json:"organizerId" db:"organizer_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	FAQs        []EventFAQ `json:"faqs,omitempty"`
}

// HasStarted reports whether now is past the start time
func (e *Event) HasStarted(now time.Time) bool {
	return now.After(e.StartAt)
}

// EventFAQ is a question/answer pair attached to an event
type EventFAQ struct {
	ID       string `json:"id" db:"id"`
	EventID  string `json:"eventId" db:"event_id"`
	Question string `json:"question" db:"question"`
	Answer   string `json:"answer" db:"answer"`
	Position int    `json:"position" db:"position"`
}

// EventUpdate carries the optional event fields. FAQs replaces the whole list when non-nil.
type EventUpdate struct {
	Title       *string
	Description *string
	Mode        *EventMode
	StartAt     *time.Time
	EndAt       *time.Time
	Theme       *string
	Rules       *string
	Prizes      *string
	Thumbnail   *string
	Banner      *string
	Tracks      []string
	Timeline    []string
	Organizers  []string
	FAQs        []EventFAQ
}

// EventListQuery describes one page of the event listing
type EventListQuery struct {
	Limit  int
	Cursor string
	SortBy string
	Desc   bool
	Mode   *EventMode
}

// OrganizedEvent is an event with the number of registrations it has
type OrganizedEvent struct {
	Event
	RegistrationCount int
}
