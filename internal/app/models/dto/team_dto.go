package dto

import (
	"time"

	"github.com/yigit/openhacks/internal/app/models"
)

// CreateTeamRequest represents the team creation payload
type CreateTeamRequest struct {
	EventID string `json:"eventId" validate:"required,notblank"`
	Name    string `json:"name" validate:"required,min=3,max=50" example:"Null Pointers"`
}

// RenameTeamRequest renames a team
type RenameTeamRequest struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
}

// InviteMemberRequest identifies the invitee by id or email
type InviteMemberRequest struct {
	InviteeID string `json:"inviteeId" validate:"required_without=Email"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// RespondInviteRequest answers an invite
type RespondInviteRequest struct {
	Action string `json:"action" validate:"required,oneof=ACCEPT DECLINE" example:"ACCEPT"`
}

// AddMemberRequest adds a registered user to a team directly
type AddMemberRequest struct {
	MemberID string `json:"memberId" validate:"required,notblank"`
}

// MemberResponse is a team member
type MemberResponse struct {
	UserID   string             `json:"userId"`
	JoinedAt time.Time          `json:"joinedAt"`
	User     models.UserSummary `json:"user"`
}

// TeamResponse represents a team in API responses
type TeamResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	EventID   string              `json:"eventId"`
	OwnerID   string              `json:"ownerId"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Owner     *models.UserSummary `json:"owner,omitempty"`
	Members   []MemberResponse    `json:"members"`
	Event     *EventSummary       `json:"event,omitempty"`
}

// InviteResponse represents a team invite
type InviteResponse struct {
	ID        string              `json:"id"`
	TeamID    string              `json:"teamId"`
	InviterID string              `json:"inviterId"`
	InviteeID string              `json:"inviteeId"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Team      *TeamRef            `json:"team,omitempty"`
	Event     *EventRef           `json:"event,omitempty"`
	Invitee   *models.UserSummary `json:"invitee,omitempty"`
	Inviter   *models.UserSummary `json:"inviter,omitempty"`
}

// EventRef identifies an event by id and title
type EventRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FromTeam converts a models.Team and its members to a TeamResponse
func FromTeam(team *models.Team, members []models.TeamMember) TeamResponse {
	resp := TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		EventID:   team.EventID,
		OwnerID:   team.OwnerID,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
		Members:   make([]MemberResponse, 0, len(members)),
	}
	for _, m := range members {
		if m.UserID == team.OwnerID {
			owner := m.User
			resp.Owner = &owner
		}
		resp.Members = append(resp.Members, MemberResponse{UserID: m.UserID, JoinedAt: m.JoinedAt, User: m.User})
	}
	return resp
}

// FromInvite converts a bare invite
func FromInvite(invite *models.TeamInvite) InviteResponse {
	return InviteResponse{
		ID:        invite.ID,
		TeamID:    invite.TeamID,
		InviterID: invite.InviterID,
		InviteeID: invite.InviteeID,
		Status:    string(invite.Status),
		CreatedAt: invite.CreatedAt,
		UpdatedAt: invite.UpdatedAt,
	}
}

// FromInviteView converts an invite joined with its team, event and people
func FromInviteView(view *models.InviteView) InviteResponse {
	resp := FromInvite(&view.TeamInvite)
	resp.Team = &TeamRef{ID: view.TeamID, Name: view.TeamName}
	resp.Event = &EventRef{ID: view.EventID, Title: view.EventTitle}
	invitee, inviter := view.Invitee, view.Inviter
	resp.Invitee = &invitee
	resp.Inviter = &inviter
	return resp
}
