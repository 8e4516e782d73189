package dto

import (
	"time"

	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/pkg/listnorm"
)

// UpdateProfileRequest is a partial profile update
type UpdateProfileRequest struct {
	Name           *string               `json:"name" validate:"omitempty,notblank,max=100"`
	Bio            *string               `json:"bio" validate:"omitempty,max=1000"`
	Avatar         *string               `json:"avatar" validate:"omitempty,url"`
	Website        *string               `json:"website" validate:"omitempty,url"`
	GitHub         *string               `json:"github" validate:"omitempty,max=200"`
	LinkedIn       *string               `json:"linkedin" validate:"omitempty,max=200"`
	Twitter        *string               `json:"twitter" validate:"omitempty,max=200"`
	University     *string               `json:"university" validate:"omitempty,max=200"`
	GraduationYear *int                  `json:"graduationYear" validate:"omitempty,min=1901,max=2099"`
	Skills         listnorm.FlexibleList `json:"skills" swaggertype:"array,string"`
}

// ProfileCounts are the caller's activity totals
type ProfileCounts struct {
	Registrations   int `json:"registrations"`
	OrganizedEvents int `json:"organizedEvents"`
	JudgedEvents    int `json:"judgedEvents"`
}

// ProfileResponse is the caller's profile
type ProfileResponse struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	Name            string         `json:"name"`
	Bio             *string        `json:"bio,omitempty"`
	Avatar          *string        `json:"avatar,omitempty"`
	Website         *string        `json:"website,omitempty"`
	GitHub          *string        `json:"github,omitempty"`
	LinkedIn        *string        `json:"linkedin,omitempty"`
	Twitter         *string        `json:"twitter,omitempty"`
	University      *string        `json:"university,omitempty"`
	GraduationYear  *int           `json:"graduationYear,omitempty"`
	Skills          []string       `json:"skills"`
	CreatedAt       time.Time      `json:"createdAt"`
	Counts          ProfileCounts  `json:"counts"`
	RecentOrganized []EventSummary `json:"recentOrganized"`
	RecentJudged    []EventSummary `json:"recentJudged"`
}

// UserLookupResponse is the result of a directory lookup
type UserLookupResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DashboardRegistration is a registration with its event
type DashboardRegistration struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Event     EventSummary `json:"event"`
}

// OrganizedEventResponse is an organized event with its registration count
type OrganizedEventResponse struct {
	EventSummary
	RegistrationCount int       `json:"registrationCount"`
	CreatedAt         time.Time `json:"createdAt"`
}

// DashboardResponse is the caller's overview
type DashboardResponse struct {
	Registrations []DashboardRegistration  `json:"registrations"`
	Organized     []OrganizedEventResponse `json:"organized"`
	Judging       []EventSummary           `json:"judging"`
}

// UploadResponse carries the URL of an uploaded file
type UploadResponse struct {
	URL string `json:"url"`
}

// FromUser converts a models.User to a ProfileResponse without counts
func FromUser(u *models.User) ProfileResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Bio:             u.Bio,
		Avatar:          u.Avatar,
		Website:         u.Website,
		GitHub:          u.GitHub,
		LinkedIn:        u.LinkedIn,
		Twitter:         u.Twitter,
		University:      u.University,
		GraduationYear:  u.GraduationYear,
		Skills:          skills,
		CreatedAt:       u.CreatedAt,
		RecentOrganized: []EventSummary{},
		RecentJudged:    []EventSummary{},
	}
}
