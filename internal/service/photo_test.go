package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"foodshare/internal/model"
	"foodshare/internal/repository"
	repoMocks "foodshare/internal/repository/mocks"
	"foodshare/internal/storage"
	storeMocks "foodshare/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func isPhotoKey(key string) bool {
	return strings.HasPrefix(key, "donations/d-1/") && strings.HasSuffix(key, ".jpg")
}

func photoPatch() any {
	return mock.MatchedBy(func(p repository.DonationPatch) bool {
		return p.PhotoKey != nil && isPhotoKey(*p.PhotoKey) && p.Status == nil && p.Title == nil
	})
}

func TestPhotoService_Attach(t *testing.T) {
	withPhoto := func(key string) *model.Donation {
		d := availableDonation()
		d.PhotoKey = key
		return d
	}

	tests := []struct {
		name        string
		actor       model.Identity
		contentType string
		setupMocks  func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDonationRepository)
		wantErr     error
		wantErrMsg  string
	}{
		{
			name:        "happy path",
			actor:       donor,
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDonationRepository) {
				mRepo.On("FindByID", mock.Anything, "d-1").Return(availableDonation(), nil).Once()
				mStore.On("Put", mock.Anything, mock.MatchedBy(isPhotoKey), mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.Size == 4 && o.ContentType == "image/jpeg" && o.Metadata["original-filename"] == "Bread.JPG"
				})).Return(storage.ObjectInfo{Key: "donations/d-1/x.jpg"}, nil)
				mRepo.On("UpdateByID", mock.Anything, "d-1", photoPatch(), (*repository.UpdateCondition)(nil)).Return(true, nil)
				mRepo.On("FindByID", mock.Anything, "d-1").Return(withPhoto("donations/d-1/x.jpg"), nil).Once()
			},
		},
		{
			name:        "replaces previous photo",
			actor:       admin,
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDonationRepository) {
				mRepo.On("FindByID", mock.Anything, "d-1").Return(withPhoto("donations/d-1/old.jpg"), nil).Once()
				mStore.On("Put", mock.Anything, mock.MatchedBy(isPhotoKey), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("UpdateByID", mock.Anything, "d-1", photoPatch(), (*repository.UpdateCondition)(nil)).Return(true, nil)
				mStore.On("Delete", mock.Anything, "donations/d-1/old.jpg").Return(errors.New("already gone"))
				mRepo.On("FindByID", mock.Anything, "d-1").Return(withPhoto("donations/d-1/new.jpg"), nil).Once()
			},
		},
		{
			name:        "not an image",
			actor:       donor,
			contentType: "application/pdf",
			setupMocks:  func(*storeMocks.MockStorage, *repoMocks.MockDonationRepository) {},
			wantErr:     ErrValidation,
		},
		{
			name:        "non-owner",
			actor:       other,
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDonationRepository) {
				mRepo.On("FindByID", mock.Anything, "d-1").Return(availableDonation(), nil)
			},
			wantErr: ErrUnauthorized,
		},
		{
			name:        "storage error",
			actor:       donor,
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDonationRepository) {
				mRepo.On("FindByID", mock.Anything, "d-1").Return(availableDonation(), nil)
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:        "db error triggers rollback",
			actor:       donor,
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDonationRepository) {
				mRepo.On("FindByID", mock.Anything, "d-1").Return(availableDonation(), nil)
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("UpdateByID", mock.Anything, "d-1", mock.Anything, mock.Anything).Return(false, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.MatchedBy(isPhotoKey)).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:        "db error and rollback error",
			actor:       donor,
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDonationRepository) {
				mRepo.On("FindByID", mock.Anything, "d-1").Return(availableDonation(), nil)
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("UpdateByID", mock.Anything, "d-1", mock.Anything, mock.Anything).Return(false, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "db save failed: db fail; rollback delete failed: delete fail",
		},
		{
			name:        "donation removed during upload",
			actor:       donor,
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDonationRepository) {
				mRepo.On("FindByID", mock.Anything, "d-1").Return(availableDonation(), nil)
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("UpdateByID", mock.Anything, "d-1", mock.Anything, mock.Anything).Return(false, nil)
				mStore.On("Delete", mock.Anything, mock.Anything).Return(nil)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDonationRepository)
			tt.setupMocks(mStore, mRepo)
			svc := NewPhotoService(mStore, mRepo, newTestDonationService(mRepo), 0)

			var r io.Reader = strings.NewReader("jpeg")
			got, err := svc.Attach(context.Background(), "d-1", tt.actor, r, "Bread.JPG", tt.contentType, 4)

			if tt.wantErr != nil || tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Nil(t, got)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				if tt.wantErrMsg != "" {
					assert.EqualError(t, err, tt.wantErrMsg)
				}
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, got.PhotoKey)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestPhotoService_URL(t *testing.T) {
	t.Run("presigned", func(t *testing.T) {
		d := availableDonation()
		d.PhotoKey = "donations/d-1/a.jpg"

		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDonationRepository)
		mRepo.On("FindByID", mock.Anything, "d-1").Return(d, nil)
		mStore.On("PresignGet", mock.Anything, "donations/d-1/a.jpg", photoURLExpiry).Return("https://minio.local/a.jpg?sig", nil)

		u, err := NewPhotoService(mStore, mRepo, newTestDonationService(mRepo), 0).URL(context.Background(), "d-1")

		require.NoError(t, err)
		assert.Equal(t, "https://minio.local/a.jpg?sig", u)
	})

	t.Run("no photo", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDonationRepository)
		mRepo.On("FindByID", mock.Anything, "d-1").Return(availableDonation(), nil)

		_, err := NewPhotoService(mStore, mRepo, newTestDonationService(mRepo), 0).URL(context.Background(), "d-1")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Donation has no photo", Message(err))
		mStore.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPhotoService_Attach_BoundsRepositoryWrite(t *testing.T) {
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockDonationRepository)

	bounded := mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 50*time.Millisecond
	})
	mRepo.On("FindByID", mock.Anything, "d-1").Return(availableDonation(), nil)
	mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
	mRepo.On("UpdateByID", bounded, "d-1", photoPatch(), (*repository.UpdateCondition)(nil)).Return(true, nil)

	svc := NewPhotoService(mStore, mRepo, newTestDonationService(mRepo), 50*time.Millisecond)
	_, err := svc.Attach(context.Background(), "d-1", donor, strings.NewReader("jpeg"), "Bread.JPG", "image/jpeg", 4)

	require.NoError(t, err)
	mRepo.AssertExpectations(t)
}
