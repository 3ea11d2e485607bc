package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"foodshare/internal/model"
	"foodshare/internal/repository"
)

// DonationPostgres is a PostgreSQL implementation of repository.DonationRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DonationPostgres struct {
	db *sql.DB
}

// NewDonationPostgres creates a new DonationPostgres repository.
func NewDonationPostgres(db *sql.DB) *DonationPostgres {
	return &DonationPostgres{db: db}
}

var _ repository.DonationRepository = (*DonationPostgres)(nil)

// selectDonations expands donor and recipient into their display identity.
const selectDonations = `
		SELECT d.id, d.title, d.description, d.quantity, d.location, d.expiry_date, d.status,
		       d.donor_id, COALESCE(du.name, ''), COALESCE(du.email, ''),
		       d.recipient_id, ru.name, ru.email,
		       d.photo_key, d.created_at
		FROM donations d
		LEFT JOIN users du ON du.id = d.donor_id
		LEFT JOIN users ru ON ru.id = d.recipient_id
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*model.Donation, error) {
	var (
		d                                 model.Donation
		status                            string
		recipientID, recipName, recipMail sql.NullString
		photoKey                          sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.Quantity,
		&d.Location,
		&d.ExpiryDate,
		&status,
		&d.Donor.ID,
		&d.Donor.Name,
		&d.Donor.Email,
		&recipientID,
		&recipName,
		&recipMail,
		&photoKey,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.Status = model.Status(status)
	if recipientID.Valid {
		d.Recipient = &model.UserRef{
			ID:    recipientID.String,
			Name:  recipName.String,
			Email: recipMail.String,
		}
	}
	d.PhotoKey = photoKey.String
	return &d, nil
}

func (r *DonationPostgres) queryList(ctx context.Context, q string, args ...any) ([]model.Donation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Insert stores a new donation row and returns its ID.
func (r *DonationPostgres) Insert(ctx context.Context, d *model.Donation) (string, error) {
	const q = `
		INSERT INTO donations (id, title, description, quantity, location, expiry_date, status, donor_id, photo_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, q,
		d.ID,
		d.Title,
		d.Description,
		d.Quantity,
		d.Location,
		d.ExpiryDate,
		string(d.Status),
		d.Donor.ID,
		sql.NullString{String: d.PhotoKey, Valid: d.PhotoKey != ""},
		d.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// FindAll returns all donations, newest first.
func (r *DonationPostgres) FindAll(ctx context.Context) ([]model.Donation, error) {
	return r.queryList(ctx, selectDonations+`
		ORDER BY d.created_at DESC, d.id DESC
	`)
}

// FindByID fetches a single donation by its ID.
func (r *DonationPostgres) FindByID(ctx context.Context, id string) (*model.Donation, error) {
	row := r.db.QueryRowContext(ctx, selectDonations+`
		WHERE d.id = $1
	`, id)
	return scanDonation(row)
}

// FindByParticipant returns donations the user gave or claimed. A row matches at most once.
func (r *DonationPostgres) FindByParticipant(ctx context.Context, userID string) ([]model.Donation, error) {
	return r.queryList(ctx, selectDonations+`
		WHERE d.donor_id = $1 OR d.recipient_id = $1
		ORDER BY d.created_at DESC, d.id DESC
	`, userID)
}

// UpdateByID writes the patched columns in a single statement. The optional condition is part of
// the same WHERE clause, so check and write are atomic with respect to concurrent updates.
func (r *DonationPostgres) UpdateByID(ctx context.Context, id string, patch repository.DonationPatch, cond *repository.UpdateCondition) (bool, error) {
	if patch.Empty() {
		return false, repository.ErrEmptyPatch
	}

	sets := make([]string, 0, 8)
	args := make([]any, 0, 10)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Quantity != nil {
		set("quantity", *patch.Quantity)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.ExpiryDate != nil {
		set("expiry_date", *patch.ExpiryDate)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.RecipientID != nil {
		set("recipient_id", *patch.RecipientID)
	}
	if patch.PhotoKey != nil {
		set("photo_key", sql.NullString{String: *patch.PhotoKey, Valid: *patch.PhotoKey != ""})
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE donations SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if cond != nil {
		args = append(args, string(cond.Status))
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByID removes a donation by ID.
func (r *DonationPostgres) DeleteByID(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM donations WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
