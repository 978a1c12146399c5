// Package testdb opens a migrated in-memory SQLite database for tests.
package testdb

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tripwise/internal/models"
)

// Open returns a fresh database with every model migrated. A single
// connection keeps the in-memory database alive for the whole test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

// User inserts a user with the given email.
func User(t testing.TB, db *gorm.DB, email string, staff bool) models.User {
	t.Helper()
	u := models.User{Name: email, Email: email, Password: "x", IsStaff: staff}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// Trip inserts a trip owned by userID spanning days calendar days from start.
func Trip(t testing.TB, db *gorm.DB, userID uint, destination string, start time.Time, days int) models.Trip {
	t.Helper()
	trip := models.Trip{
		UserID:      userID,
		Destination: destination,
		Latitude:    48.8566,
		Longitude:   2.3522,
		StartDate:   models.DateOnly(start),
		EndDate:     models.DateOnly(start).AddDate(0, 0, days-1),
	}
	require.NoError(t, db.Create(&trip).Error)
	return trip
}
