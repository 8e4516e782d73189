package services

import (
	"context"
	"time"

	"github.com/yigit/openhacks/internal/app/models"
)

// Clock returns the current time. Services take one so time gates can be tested.
type Clock func() time.Time

// UserStore is the user persistence the services need
type UserStore interface {
	Upsert(ctx context.Context, id, email, name string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)
	ActivityCounts(ctx context.Context, id string) (models.ActivityCounts, error)
	Delete(ctx context.Context, id string) error
}

// EventStore is the event persistence the services need
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	EventExists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, query models.EventListQuery) ([]models.Event, *string, error)
	SearchByText(ctx context.Context, term string, limit int) ([]models.Event, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event, replaceFAQs bool) error
	Delete(ctx context.Context, id string) error
	AddJudge(ctx context.Context, eventID, userID string) error
	RemoveJudge(ctx context.Context, eventID, userID string) error
	IsJudge(ctx context.Context, eventID, userID string) (bool, error)
	ListJudges(ctx context.Context, eventID string) ([]models.UserSummary, error)
	ListOrganizedBy(ctx context.Context, userID string, limit int) ([]models.OrganizedEvent, error)
	ListJudgedBy(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

// RegistrationStore is the registration persistence the services need
type RegistrationStore interface {
	Create(ctx context.Context, eventID, userID string) (*models.Registration, error)
	Exists(ctx context.Context, eventID, userID string) (bool, error)
	Withdraw(ctx context.Context, eventID, userID string) error
	ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationView, error)
	ListByUser(ctx context.Context, userID string) ([]models.RegistrationEvent, error)
}

// TeamStore is the team persistence the services need
type TeamStore interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id string) (*models.Team, error)
	OwnsTeamInEvent(ctx context.Context, eventID, userID string) (bool, error)
	Rename(ctx context.Context, id, name string) (*models.Team, error)
	Delete(ctx context.Context, id string) error
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Team, map[string][]models.TeamMember, error)
	IsMember(ctx context.Context, teamID, userID string) (bool, error)
	IsMemberInEvent(ctx context.Context, eventID, userID string) (bool, error)
	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) (bool, error)
}

// InviteStore is the invite persistence the services need
type InviteStore interface {
	FindByID(ctx context.Context, id string) (*models.TeamInvite, error)
	FindPending(ctx context.Context, teamID, inviteeID string) (*models.TeamInvite, error)
	Create(ctx context.Context, teamID, inviterID, inviteeID string) (*models.TeamInvite, bool, error)
	Decline(ctx context.Context, id string) (*models.TeamInvite, error)
	Accept(ctx context.Context, id string) (*models.TeamInvite, error)
	ListByTeam(ctx context.Context, teamID string) ([]models.InviteView, error)
	ListPendingForUser(ctx context.Context, userID string) ([]models.InviteView, error)
}

// RoundStore is the round persistence the services need
type RoundStore interface {
	Create(ctx context.Context, round *models.Round) error
	FindByID(ctx context.Context, id string) (*models.Round, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Round, error)
}

// ScoreStore is the score persistence the services need
type ScoreStore interface {
	Upsert(ctx context.Context, score *models.Score) error
	ListBySubmission(ctx context.Context, submissionID string) ([]models.ScoreView, error)
}

// SubmissionStore is the submission document store the services need
type SubmissionStore interface {
	Create(ctx context.Context, sub *models.Submission) error
	FindByEventAndTeam(ctx context.Context, eventID, teamID string) (*models.Submission, error)
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Submission, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

// AnnouncementStore is the announcement document store the services need
type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	ListByEvent(ctx context.Context, eventID string) ([]models.Announcement, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

// Authorizer answers organizer, judge and team owner checks
type Authorizer interface {
	IsStaff(ctx context.Context, eventID, userID string) (bool, error)
	ValidateOrganizer(ctx context.Context, eventID, userID string) (*models.Event, error)
	ValidateJudge(ctx context.Context, eventID, userID string) (*models.Event, error)
	ValidateStaff(ctx context.Context, eventID, userID string) (*models.Event, error)
	ValidateTeamOwner(ctx context.Context, teamID, userID string) (*models.Team, error)
}
