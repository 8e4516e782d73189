package models

import (
	"time"
)

// User defines the user model based on the 'users' table. The ID is the identity provider subject.
type User struct {
	ID             string    `json:"id" db:"id" example:"auth0|65a1b2c3"`
	Email          string    `json:"email" db:"email" example:"ada@example.com"`
	Name           string    `json:"name" db:"name" example:"Ada Lovelace"`
	Bio            *string   `json:"bio,omitempty" db:"bio"`
	Avatar         *string   `json:"avatar,omitempty" db:"avatar"`
	Website        *string   `json:"website,omitempty" db:"website"`
	GitHub         *string   `json:"github,omitempty" db:"github"`
	LinkedIn       *string   `json:"linkedin,omitempty" db:"linkedin"`
	Twitter        *string   `json:"twitter,omitempty" db:"twitter"`
	University     *string   `json:"university,omitempty" db:"university"`
	GraduationYear *int      `json:"graduationYear,omitempty" db:"graduation_year"`
	Skills         []string  `json:"skills" db:"skills"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the short user shape embedded in other records
type UserSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
}

// Summary returns the short form of the user
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

// ProfileUpdate carries the optional profile fields. A nil field is left unchanged.
type ProfileUpdate struct {
	Name           *string
	Bio            *string
	Avatar         *string
	Website        *string
	GitHub         *string
	LinkedIn       *string
	Twitter        *string
	University     *string
	GraduationYear *int
	Skills         []string
}

// IsEmpty reports whether no field is set
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Bio == nil && p.Avatar == nil && p.Website == nil &&
		p.GitHub == nil && p.LinkedIn == nil && p.Twitter == nil && p.University == nil &&
		p.GraduationYear == nil && p.Skills == nil
}

// ActivityCounts summarizes what a user takes part in
type ActivityCounts struct {
	Registrations   int
	OrganizedEvents int
	JudgedEvents    int
	OwnedTeams      int
}
