package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusAvailable.Valid())
	assert.True(t, StatusClaimed.Valid())
	assert.True(t, StatusExpired.Valid())
	assert.False(t, Status("pending").Valid())
	assert.False(t, Status("").Valid())
}

func TestSameIdentity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical uuid", "6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b", "6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b", true},
		{"uuid case and braces", "6F1C2A8E-3B4D-4E5F-8A9B-0C1D2E3F4A5B", "{6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b}", true},
		{"uuid without hyphens", "6f1c2a8e3b4d4e5f8a9b0c1d2e3f4a5b", "6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b", true},
		{"plain ids with whitespace", " user-1 ", "USER-1", true},
		{"different", "user-1", "user-2", false},
		{"empty never matches", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameIdentity(tt.a, tt.b))
		})
	}
}

func TestDonation_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	d := &Donation{Status: StatusAvailable, ExpiryDate: now.Add(time.Hour)}
	assert.False(t, d.Expired(now))

	d.ExpiryDate = now.Add(-time.Hour)
	assert.True(t, d.Expired(now))

	d = &Donation{Status: StatusExpired, ExpiryDate: now.Add(24 * time.Hour)}
	assert.True(t, d.Expired(now))
}

func TestDonation_Participants(t *testing.T) {
	d := &Donation{
		Donor:     UserRef{ID: "u1"},
		Recipient: &UserRef{ID: "u2"},
	}
	assert.True(t, d.OwnedBy("U1"))
	assert.False(t, d.OwnedBy("u2"))
	assert.True(t, d.ClaimedBy("u2"))
	assert.False(t, d.ClaimedBy("u1"))

	d.Recipient = nil
	assert.False(t, d.ClaimedBy("u2"))
}
