package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a donation. Only the values declared below are valid.
type Status string

const (
	StatusAvailable Status = "available"
	StatusClaimed   Status = "claimed"
	StatusExpired   Status = "expired"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusClaimed, StatusExpired:
		return true
	}
	return false
}

// UserRef is a reference to a user together with the display identity used in listings.
// Name and Email are empty when the reference was not expanded.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Donation is a surplus food item posted by a donor.
// This is a pure domain model with no database-specific dependencies or tags.
type Donation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Location    string    `json:"location"`
	ExpiryDate  time.Time `json:"expiryDate"`
	Status      Status    `json:"status"`
	Donor       UserRef   `json:"donor"`
	Recipient   *UserRef  `json:"recipient"`
	PhotoKey    string    `json:"photoKey,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Expired is the read-time expiry classification. It never changes stored state.
func (d *Donation) Expired(now time.Time) bool {
	return d.Status == StatusExpired || d.ExpiryDate.Before(now)
}

// OwnedBy reports whether the donation was created by the given user.
func (d *Donation) OwnedBy(userID string) bool {
	return SameIdentity(d.Donor.ID, userID)
}

// ClaimedBy reports whether the donation was claimed by the given user.
func (d *Donation) ClaimedBy(userID string) bool {
	return d.Recipient != nil && SameIdentity(d.Recipient.ID, userID)
}

// CanonicalID normalizes a user or donation identifier for comparison.
// UUIDs are rendered in their canonical lower-case form; anything else is trimmed and lower-cased.
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return strings.ToLower(id)
}

// SameIdentity reports whether two identifiers denote the same entity.
func SameIdentity(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return CanonicalID(a) == CanonicalID(b)
}
