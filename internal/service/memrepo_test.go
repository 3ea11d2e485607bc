package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/google/uuid"

	"foodshare/internal/model"
	"foodshare/internal/repository"
)

// memDonations is an in-memory DonationRepository with the same conditional-write
// semantics as the postgres implementation, including the recipient/status check constraint.
type memDonations struct {
	mu    sync.Mutex
	rows  map[string]model.Donation
	order []string
}

func newMemDonations() *memDonations {
	return &memDonations{rows: make(map[string]model.Donation)}
}

var errCheckViolation = errors.New("donations_recipient_iff_claimed violated")

func clone(d model.Donation) model.Donation {
	if d.Recipient != nil {
		r := *d.Recipient
		d.Recipient = &r
	}
	return d
}

func (m *memDonations) Insert(_ context.Context, d *model.Donation) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := clone(*d)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.Recipient = nil
	m.rows[row.ID] = row
	m.order = append(m.order, row.ID)
	return row.ID, nil
}

func (m *memDonations) list(keep func(model.Donation) bool) []model.Donation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []model.Donation{}
	for i := len(m.order) - 1; i >= 0; i-- {
		d, ok := m.rows[m.order[i]]
		if ok && keep(d) {
			out = append(out, clone(d))
		}
	}
	return out
}

func (m *memDonations) FindAll(context.Context) ([]model.Donation, error) {
	return m.list(func(model.Donation) bool { return true }), nil
}

func (m *memDonations) FindByParticipant(_ context.Context, userID string) ([]model.Donation, error) {
	return m.list(func(d model.Donation) bool {
		return d.Donor.ID == userID || (d.Recipient != nil && d.Recipient.ID == userID)
	}), nil
}

func (m *memDonations) FindByID(_ context.Context, id string) (*model.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d = clone(d)
	return &d, nil
}

func (m *memDonations) UpdateByID(_ context.Context, id string, p repository.DonationPatch, cond *repository.UpdateCondition) (bool, error) {
	if p.Empty() {
		return false, repository.ErrEmptyPatch
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.rows[id]
	if !ok || (cond != nil && d.Status != cond.Status) {
		return false, nil
	}
	d = clone(d)

	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Quantity != nil {
		d.Quantity = *p.Quantity
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.ExpiryDate != nil {
		d.ExpiryDate = *p.ExpiryDate
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.RecipientID != nil {
		d.Recipient = &model.UserRef{ID: *p.RecipientID}
	}
	if p.PhotoKey != nil {
		d.PhotoKey = *p.PhotoKey
	}

	if (d.Status == model.StatusClaimed) != (d.Recipient != nil) {
		return false, errCheckViolation
	}
	if d.Recipient != nil && d.Recipient.ID == d.Donor.ID {
		return false, errCheckViolation
	}

	m.rows[id] = d
	return true, nil
}

func (m *memDonations) DeleteByID(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}
