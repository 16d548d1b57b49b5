package models

import (
	"time"
)

// User represents a user account. InternalID is the immutable storage
// identity and is never exposed; ID is the public identity, generated at
// registration and re-keyed once the external identity provider issues
// the final id.
type User struct {
	InternalID     int64     `json:"-" db:"internal_id"`
	ID             string    `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Name           *string   `json:"name,omitempty" db:"name"`
	Email          string    `json:"email" db:"email"`
	ProfilePicture *string   `json:"profile_picture,omitempty" db:"profile_picture"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// UserProfile is the optional one-to-one extension of a user. Absence of
// a profile is a valid state; all fields read as null.
type UserProfile struct {
	UserID       string   `json:"user_id" db:"user_id"`
	Birthdate    *string  `json:"birthdate,omitempty" db:"birthdate"`
	LocationLat  *float64 `json:"location_lat,omitempty" db:"location_lat"`
	LocationLong *float64 `json:"location_long,omitempty" db:"location_long"`
	Interests    *string  `json:"interests,omitempty" db:"interests"`
	Description  *string  `json:"description,omitempty" db:"description"`
}

// UserView is the public projection of a user, returned by listings,
// searches and graph traversals.
type UserView struct {
	ID             string    `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Name           *string   `json:"name,omitempty" db:"name"`
	Email          string    `json:"email" db:"email"`
	ProfilePicture *string   `json:"profile_picture,omitempty" db:"profile_picture"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// UserDetailView merges the user with its profile. Profile fields are
// null when no profile row exists.
type UserDetailView struct {
	UserView
	Birthdate    *string  `json:"birthdate,omitempty" db:"birthdate"`
	LocationLat  *float64 `json:"location_lat,omitempty" db:"location_lat"`
	LocationLong *float64 `json:"location_long,omitempty" db:"location_long"`
	Interests    *string  `json:"interests,omitempty" db:"interests"`
	Description  *string  `json:"description,omitempty" db:"description"`
}

// MatchView is the projection returned by proximity and interest
// matching: the public view plus the fields the match was computed on.
type MatchView struct {
	UserView
	LocationLat  *float64 `json:"location_lat,omitempty" db:"location_lat"`
	LocationLong *float64 `json:"location_long,omitempty" db:"location_long"`
	Interests    *string  `json:"interests,omitempty" db:"interests"`
}

// View returns the public projection of the user.
func (u *User) View() UserView {
	return UserView{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
	}
}

// NewUserInput carries the fields required to register a user.
type NewUserInput struct {
	Username string  `json:"username"`
	Name     *string `json:"name,omitempty"`
	Email    string  `json:"email"`
}

// IdentityInput carries the "complete registration" payload: the
// externally issued id the account is re-keyed to, plus the initial
// profile data collected at that step.
type IdentityInput struct {
	ExternalID     string   `json:"external_id"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	Birthdate      *string  `json:"birthdate,omitempty"`
	LocationLat    *float64 `json:"location_lat,omitempty"`
	LocationLong   *float64 `json:"location_long,omitempty"`
}

// ProfileUpdateInput is the sparse profile edit payload. Only non-nil,
// non-empty fields overwrite stored values.
type ProfileUpdateInput struct {
	Name           *string `json:"name,omitempty"`
	Birthdate      *string `json:"birthdate,omitempty"`
	Interests      *string `json:"interests,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	Description    *string `json:"description,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (p *ProfileUpdateInput) IsEmpty() bool {
	return p.Name == nil && p.Birthdate == nil && p.Interests == nil &&
		p.ProfilePicture == nil && p.Description == nil
}

// EmailCheck is the response shape of the email existence probe.
type EmailCheck struct {
	Exists bool `json:"exists"`
}
