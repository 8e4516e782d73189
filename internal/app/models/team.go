package models

import "time"

// Registration links a user to an event
type Registration struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"eventId" db:"event_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Team defines the team model based on the 'teams' table
type Team struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	EventID   string    `json:"eventId" db:"event_id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TeamMember is a row of 'team_members'
type TeamMember struct {
	TeamID   string      `json:"teamId" db:"team_id"`
	UserID   string      `json:"userId" db:"user_id"`
	JoinedAt time.Time   `json:"joinedAt" db:"joined_at"`
	User     UserSummary `json:"user"`
}

// TeamInvite defines the invite model based on the 'team_invites' table
type TeamInvite struct {
	ID        string       `json:"id" db:"id"`
	TeamID    string       `json:"teamId" db:"team_id"`
	InviterID string       `json:"inviterId" db:"inviter_id"`
	InviteeID string       `json:"inviteeId" db:"invitee_id"`
	Status    InviteStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
}

// InviteView is an invite joined with its team, event and invitee
type InviteView struct {
	TeamInvite
	TeamName   string
	EventID    string
	EventTitle string
	Invitee    UserSummary
	Inviter    UserSummary
}

// RegistrationView is a registration joined with the registered user
type RegistrationView struct {
	Registration
	User UserSummary
}

// RegistrationEvent is a registration joined with its event
type RegistrationEvent struct {
	Registration
	Event Event
}
