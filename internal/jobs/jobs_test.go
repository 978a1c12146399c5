package jobs

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/models"
	"tripwise/internal/testdb"
)

func TestPurgeSpecParses(t *testing.T) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(GeocodePurgeSpec)
	require.NoError(t, err)

	next := sched.Next(time.Date(2025, 3, 1, 4, 0, 0, 0, time.UTC))
	assert.True(t, next.Equal(time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)), next.String())
}

func TestStartAndPurge(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, db.Create(&[]models.GeocodeCache{
		{Query: "stale", ExpiresAt: time.Now().UTC().Add(-time.Hour)},
		{Query: "live", ExpiresAt: time.Now().UTC().Add(time.Hour)},
	}).Error)

	c, err := Start(db)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()

	PurgeGeocodeCache(db)

	var left []models.GeocodeCache
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "live", left[0].Query)
}
