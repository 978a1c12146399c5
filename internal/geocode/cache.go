package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripwise/internal/models"
)

// DefaultTTL is how long a resolved destination stays cached.
const DefaultTTL = 30 * 24 * time.Hour

// CachedGeocoder answers from the geocode_caches table and falls back to an
// upstream geocoder on a miss or an expired row.
type CachedGeocoder struct {
	db       *gorm.DB
	upstream Geocoder
	ttl      time.Duration
	now      func() time.Time
}

func NewCachedGeocoder(db *gorm.DB, upstream Geocoder, ttl time.Duration) *CachedGeocoder {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedGeocoder{db: db, upstream: upstream, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

func (g *CachedGeocoder) Lookup(ctx context.Context, query string) (Location, error) {
	key := normalizeQuery(query)
	if key == "" {
		return Location{}, ErrNotFound
	}

	var row models.GeocodeCache
	err := g.db.WithContext(ctx).Where("query = ? AND expires_at > ?", key, g.now()).First(&row).Error
	if err == nil {
		return Location{Latitude: row.Latitude, Longitude: row.Longitude}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Warn("geocode cache read failed")
	}

	loc, err := g.upstream.Lookup(ctx, query)
	if err != nil {
		return Location{}, err
	}

	row = models.GeocodeCache{
		Query:     key,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		ExpiresAt: g.now().Add(g.ttl),
	}
	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "expires_at"}),
	}).Create(&row).Error
	if err != nil {
		logrus.WithError(err).Warn("geocode cache write failed")
	}
	return loc, nil
}

// PurgeExpired deletes cache rows that expired before now.
func PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expires_at <= ?", now).Delete(&models.GeocodeCache{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge geocode cache: %w", res.Error)
	}
	return res.RowsAffected, nil
}
