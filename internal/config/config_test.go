package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_NAME", "tripwise_test")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("FORECAST_CACHE_TTL", "5m")

	cfg := Load()

	assert.Equal(t, "tripwise_test", cfg.DBName)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 5*time.Minute, cfg.ForecastCacheTTL)
	assert.Contains(t, cfg.DSN(), "dbname=tripwise_test")
	assert.Contains(t, cfg.DSN(), "sslmode=")
}
