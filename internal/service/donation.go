package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"foodshare/internal/model"
	"foodshare/internal/repository"
)

// DonationService is the authoritative gate for every read and mutation of a donation.
//
// The lifecycle is available -> claimed and available -> expired; both targets are terminal.
// Field edits are allowed only while a donation is available. Deletion is allowed in any state.
type DonationService interface {
	// Create posts a new available donation owned by actor.
	Create(ctx context.Context, in CreateDonationInput, actor model.Identity) (*model.Donation, error)

	// List returns all donations, newest first.
	List(ctx context.Context) ([]model.Donation, error)

	// ListForUser returns donations the user donated or claimed, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.Donation, error)

	// Get returns a single donation.
	Get(ctx context.Context, id string) (*model.Donation, error)

	// Update applies a partial edit. Only the donor or an admin may edit.
	Update(ctx context.Context, id string, in UpdateDonationInput, actor model.Identity) (*model.Donation, error)

	// Remove deletes a donation. Only the donor or an admin may delete.
	Remove(ctx context.Context, id string, actor model.Identity) error

	// Claim assigns actor as recipient. Exactly one of any number of concurrent claims succeeds.
	Claim(ctx context.Context, id string, actor model.Identity) (*model.Donation, error)

	// Expire withdraws an available donation. Only the donor or an admin may expire it.
	Expire(ctx context.Context, id string, actor model.Identity) (*model.Donation, error)
}

// DonationOptions tunes the lifecycle service. Zero values select defaults.
type DonationOptions struct {
	// StoreTimeout bounds every individual repository call.
	StoreTimeout time.Duration
	// RejectPastExpiry refuses expiry dates that are not in the future on create and update.
	RejectPastExpiry bool
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

const defaultStoreTimeout = 5 * time.Second

type donationService struct {
	repo repository.DonationRepository
	opts DonationOptions
}

// NewDonationService constructs a new DonationService.
func NewDonationService(repo repository.DonationRepository, opts DonationOptions) DonationService {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &donationService{repo: repo, opts: opts}
}

func errDonationNotFound() error {
	return newError(ErrNotFound, "Donation not found")
}

func errAlready(status model.Status) error {
	return newError(ErrConflict, "Donation is already %s", status)
}

func requireActor(actor model.Identity) error {
	if actor.ID == "" {
		return newError(ErrUnauthorized, "authentication required")
	}
	return nil
}

func canManage(d *model.Donation, actor model.Identity) bool {
	return actor.IsAdmin() || d.OwnedBy(actor.ID)
}

func (s *donationService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.StoreTimeout)
}

func (s *donationService) find(ctx context.Context, id string) (*model.Donation, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errDonationNotFound()
		}
		return nil, fmt.Errorf("find donation: %w", err)
	}
	return d, nil
}

func (s *donationService) update(ctx context.Context, id string, patch repository.DonationPatch, cond *repository.UpdateCondition) (bool, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	applied, err := s.repo.UpdateByID(ctx, id, patch, cond)
	if err != nil {
		return false, fmt.Errorf("update donation: %w", err)
	}
	return applied, nil
}

// lostRace explains why a conditional write matched no row: the donation is gone, or another
// request moved it out of the expected state first.
func (s *donationService) lostRace(ctx context.Context, id string) error {
	cur, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return errAlready(cur.Status)
}

// transition moves an available donation to status, guarded by a conditional write so that
// concurrent transitions on the same row cannot both succeed.
func (s *donationService) transition(ctx context.Context, id string, patch repository.DonationPatch) (*model.Donation, error) {
	applied, err := s.update(ctx, id, patch, &repository.UpdateCondition{Status: model.StatusAvailable})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.lostRace(ctx, id)
	}
	return s.find(ctx, id)
}

func (s *donationService) Create(ctx context.Context, in CreateDonationInput, actor model.Identity) (*model.Donation, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	now := s.opts.Now().UTC()
	d, err := newDonation(in, now, s.opts.RejectPastExpiry)
	if err != nil {
		return nil, err
	}
	d.ID = uuid.NewString()
	d.Donor = model.UserRef{ID: model.CanonicalID(actor.ID)}
	d.CreatedAt = now

	insertCtx, cancel := s.storeCtx(ctx)
	id, err := s.repo.Insert(insertCtx, d)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}

	return s.find(ctx, id)
}

func (s *donationService) List(ctx context.Context) ([]model.Donation, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return items, nil
}

func (s *donationService) ListForUser(ctx context.Context, userID string) ([]model.Donation, error) {
	if userID == "" {
		return nil, newError(ErrUnauthorized, "authentication required")
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	items, err := s.repo.FindByParticipant(ctx, model.CanonicalID(userID))
	if err != nil {
		return nil, fmt.Errorf("list user donations: %w", err)
	}
	return items, nil
}

func (s *donationService) Get(ctx context.Context, id string) (*model.Donation, error) {
	if id == "" {
		return nil, errDonationNotFound()
	}
	return s.find(ctx, model.CanonicalID(id))
}

func (s *donationService) Update(ctx context.Context, id string, in UpdateDonationInput, actor model.Identity) (*model.Donation, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	id = model.CanonicalID(id)

	cur, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(cur, actor) {
		return nil, newError(ErrUnauthorized, "Not authorized to update this donation")
	}

	patch, err := editPatch(in, s.opts.Now().UTC(), s.opts.RejectPastExpiry)
	if err != nil {
		return nil, err
	}
	if cur.Status != model.StatusAvailable {
		return nil, errAlready(cur.Status)
	}
	if patch.Empty() {
		return cur, nil
	}

	return s.transition(ctx, id, patch)
}

func (s *donationService) Remove(ctx context.Context, id string, actor model.Identity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	id = model.CanonicalID(id)

	cur, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(cur, actor) {
		return newError(ErrUnauthorized, "Not authorized to delete this donation")
	}

	delCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	removed, err := s.repo.DeleteByID(delCtx, id)
	if err != nil {
		return fmt.Errorf("delete donation: %w", err)
	}
	if !removed {
		return errDonationNotFound()
	}
	return nil
}

func (s *donationService) Claim(ctx context.Context, id string, actor model.Identity) (*model.Donation, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	id = model.CanonicalID(id)

	cur, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	// Self-claim is rejected before the status check so it holds in every state.
	if cur.OwnedBy(actor.ID) {
		return nil, newError(ErrInvalidOperation, "Cannot claim your own donation")
	}
	if cur.Status != model.StatusAvailable {
		return nil, errAlready(cur.Status)
	}

	status := model.StatusClaimed
	recipient := model.CanonicalID(actor.ID)
	return s.transition(ctx, id, repository.DonationPatch{Status: &status, RecipientID: &recipient})
}

func (s *donationService) Expire(ctx context.Context, id string, actor model.Identity) (*model.Donation, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	id = model.CanonicalID(id)

	cur, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(cur, actor) {
		return nil, newError(ErrUnauthorized, "Not authorized to expire this donation")
	}
	if cur.Status != model.StatusAvailable {
		return nil, errAlready(cur.Status)
	}

	status := model.StatusExpired
	return s.transition(ctx, id, repository.DonationPatch{Status: &status})
}
