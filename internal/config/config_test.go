package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("ADMIN_EMAILS", "Root@Example.com, ,ops@example.com")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("DONATION_REJECT_PAST_EXPIRY", "true")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, 750*time.Millisecond, cfg.Donation.StoreTimeout)
	assert.True(t, cfg.Donation.RejectPastExpiry)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("STORE_TIMEOUT", "")

	cfg := Load()

	assert.False(t, cfg.MinIO.Enabled())
	assert.Equal(t, "donation-photos", cfg.MinIO.Bucket)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Donation.StoreTimeout)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"

	os.Setenv(key, "3s")
	assert.Equal(t, 3*time.Second, getEnvDuration(key, time.Second))

	os.Setenv(key, "-3s")
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))

	os.Setenv(key, "soon")
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))

	os.Unsetenv(key)
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))
}
