package model

import "time"

// Role distinguishes regular users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Ref returns the display reference used when a user is attached to a donation.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Identity is the authenticated caller as resolved from a bearer token.
type Identity struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the identity holds the administrative role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
