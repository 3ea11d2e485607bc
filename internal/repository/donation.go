package repository

import (
	"context"
	"errors"
	"time"

	"foodshare/internal/model"
)

// ErrEmptyPatch is returned by UpdateByID when the patch sets no column.
var ErrEmptyPatch = errors.New("update patch is empty")

// DonationRepository defines data access for donations using SQL queries only.
// No business logic here; state rules live in the service layer.
type DonationRepository interface {
	// Insert stores a new donation and returns its identifier.
	// Donor must be set; Recipient is ignored because new donations are never claimed.
	Insert(ctx context.Context, d *model.Donation) (string, error)

	// FindAll returns every donation with expanded donor/recipient, newest first.
	FindAll(ctx context.Context) ([]model.Donation, error)

	// FindByID returns a donation by its ID, or sql.ErrNoRows when it does not exist.
	FindByID(ctx context.Context, id string) (*model.Donation, error)

	// FindByParticipant returns donations where userID is the donor or the recipient, newest first.
	FindByParticipant(ctx context.Context, userID string) ([]model.Donation, error)

	// UpdateByID applies patch to a single row. When cond is non-nil the write only happens if the
	// row still matches it at write time. It reports whether a row was changed.
	UpdateByID(ctx context.Context, id string, patch DonationPatch, cond *UpdateCondition) (bool, error)

	// DeleteByID removes a donation and reports whether a row existed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// DonationPatch lists the columns to change; nil fields are left untouched.
type DonationPatch struct {
	Title       *string
	Description *string
	Quantity    *int
	Location    *string
	ExpiryDate  *time.Time
	Status      *model.Status
	RecipientID *string
	PhotoKey    *string
}

// Empty reports whether the patch changes nothing.
func (p DonationPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Quantity == nil && p.Location == nil &&
		p.ExpiryDate == nil && p.Status == nil && p.RecipientID == nil && p.PhotoKey == nil
}

// UpdateCondition guards a conditional update.
type UpdateCondition struct {
	// Status the row must currently have for the update to apply.
	Status model.Status
}
