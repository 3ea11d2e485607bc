package service

import (
	"strings"
	"time"

	"foodshare/internal/model"
	"foodshare/internal/repository"
)

// CreateDonationInput is the payload for posting a new donation.
type CreateDonationInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
	ExpiryDate  string `json:"expiryDate"`
}

// UpdateDonationInput is a partial edit. Nil or blank fields keep their stored value.
// Status is accepted only so that an attempt to write it can be rejected explicitly.
type UpdateDonationInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
	Location    *string `json:"location,omitempty"`
	ExpiryDate  *string `json:"expiryDate,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// expiryLayouts are tried in order. Date-only values come from HTML date inputs.
var expiryLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseExpiry(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type problems []string

func (p *problems) add(msg string) { *p = append(*p, msg) }

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return newError(ErrValidation, "%s", strings.Join(p, "; "))
}

// checkExpiry validates a non-blank expiry value and returns the parsed time.
func checkExpiry(raw string, now time.Time, rejectPast bool, p *problems) time.Time {
	t, ok := parseExpiry(raw)
	switch {
	case !ok:
		p.add("expiryDate must be a date (YYYY-MM-DD or RFC 3339)")
	case rejectPast && !t.After(now):
		p.add("expiryDate must be in the future")
	}
	return t
}

// newDonation validates a create payload and builds the record to insert.
// ID, donor and timestamps are filled in by the caller.
func newDonation(in CreateDonationInput, now time.Time, rejectPast bool) (*model.Donation, error) {
	var p problems

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	location := strings.TrimSpace(in.Location)

	if title == "" {
		p.add("title is required")
	}
	if description == "" {
		p.add("description is required")
	}
	if in.Quantity < 1 {
		p.add("quantity must be at least 1")
	}
	if location == "" {
		p.add("location is required")
	}

	var expiry time.Time
	if strings.TrimSpace(in.ExpiryDate) == "" {
		p.add("expiryDate is required")
	} else {
		expiry = checkExpiry(in.ExpiryDate, now, rejectPast, &p)
	}

	if err := p.err(); err != nil {
		return nil, err
	}

	return &model.Donation{
		Title:       title,
		Description: description,
		Quantity:    in.Quantity,
		Location:    location,
		ExpiryDate:  expiry,
		Status:      model.StatusAvailable,
	}, nil
}

// editPatch validates a partial update and converts it into a repository patch.
// Status is never writable here; claim and expire are the only status transitions.
func editPatch(in UpdateDonationInput, now time.Time, rejectPast bool) (repository.DonationPatch, error) {
	var (
		p     problems
		patch repository.DonationPatch
	)

	if in.Status != nil {
		p.add("status cannot be set directly; use the claim or expire operation")
	}

	nonBlank := func(v *string) *string {
		if v == nil {
			return nil
		}
		s := strings.TrimSpace(*v)
		if s == "" {
			return nil
		}
		return &s
	}
	patch.Title = nonBlank(in.Title)
	patch.Description = nonBlank(in.Description)
	patch.Location = nonBlank(in.Location)

	if in.Quantity != nil {
		if *in.Quantity < 1 {
			p.add("quantity must be at least 1")
		} else {
			q := *in.Quantity
			patch.Quantity = &q
		}
	}

	if raw := nonBlank(in.ExpiryDate); raw != nil {
		t := checkExpiry(*raw, now, rejectPast, &p)
		patch.ExpiryDate = &t
	}

	if err := p.err(); err != nil {
		return repository.DonationPatch{}, err
	}
	return patch, nil
}
