package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations, migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "00001_create_users.sql", entries[0].Name())
	assert.Equal(t, "00002_create_donations.sql", entries[1].Name())

	for _, e := range entries {
		body, err := fs.ReadFile(migrations, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"), e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
}

func TestDonationsSchemaGuardsInvariants(t *testing.T) {
	body, err := fs.ReadFile(migrations, migrationsDir+"/00002_create_donations.sql")
	require.NoError(t, err)

	schema := string(body)
	assert.Contains(t, schema, "CHECK (quantity >= 1)")
	assert.Contains(t, schema, "CHECK ((status = 'claimed') = (recipient_id IS NOT NULL))")
	assert.Contains(t, schema, "recipient_id <> donor_id")
}
