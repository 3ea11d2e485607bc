package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"foodshare/internal/model"
	"foodshare/internal/repository"
	"foodshare/internal/storage"
)

const photoURLExpiry = 15 * time.Minute

// PhotoService manages the optional photo attached to a donation.
type PhotoService interface {
	// Attach uploads a photo and links it to the donation, replacing any previous one.
	// Only the donor or an admin may attach a photo.
	Attach(ctx context.Context, id string, actor model.Identity, r io.Reader, filename, contentType string, size int64) (*model.Donation, error)

	// URL returns a time-limited download URL for the donation's photo.
	URL(ctx context.Context, id string) (string, error)
}

type photoService struct {
	store        storage.Storage
	repo         repository.DonationRepository
	donations    DonationService
	storeTimeout time.Duration
}

// NewPhotoService constructs a new PhotoService. donations must wrap the same repository.
// storeTimeout bounds the repository write; zero selects the default.
func NewPhotoService(store storage.Storage, repo repository.DonationRepository, donations DonationService, storeTimeout time.Duration) PhotoService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &photoService{store: store, repo: repo, donations: donations, storeTimeout: storeTimeout}
}

func (s *photoService) setPhotoKey(ctx context.Context, id, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.UpdateByID(ctx, id, repository.DonationPatch{PhotoKey: &key}, nil)
}

func (s *photoService) Attach(ctx context.Context, id string, actor model.Identity, r io.Reader, filename, contentType string, size int64) (*model.Donation, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, newError(ErrValidation, "photo is required")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, newError(ErrValidation, "photo must be an image")
	}
	id = model.CanonicalID(id)

	cur, err := s.donations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(cur, actor) {
		return nil, newError(ErrUnauthorized, "Not authorized to change this donation")
	}

	key := path.Join("donations", id, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
			"donation-id":       id,
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	applied, err := s.setPhotoKey(ctx, id, key)
	if err == nil && !applied {
		err = errDonationNotFound()
	}
	if err != nil {
		// Rollback: the row was not updated, so the object would be orphaned.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if cur.PhotoKey != "" && cur.PhotoKey != key {
		// The previous object is unreachable now; a failed delete only leaks storage.
		_ = s.store.Delete(ctx, cur.PhotoKey)
	}

	return s.donations.Get(ctx, id)
}

func (s *photoService) URL(ctx context.Context, id string) (string, error) {
	d, err := s.donations.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if d.PhotoKey == "" {
		return "", newError(ErrNotFound, "Donation has no photo")
	}

	u, err := s.store.PresignGet(ctx, d.PhotoKey, photoURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign photo: %w", err)
	}
	return u, nil
}
