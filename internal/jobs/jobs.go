// Package jobs runs scheduled housekeeping.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tripwise/internal/geocode"
)

// GeocodePurgeSpec runs the geocode cache purge every day at 03:00 UTC.
const GeocodePurgeSpec = "0 0 3 * * *"

// PurgeGeocodeCache removes expired geocode cache rows and logs the count.
func PurgeGeocodeCache(db *gorm.DB) {
	n, err := geocode.PurgeExpired(db, time.Now().UTC())
	if err != nil {
		logrus.WithError(err).Error("[GEOCODE CRON] purge failed")
		return
	}
	logrus.WithField("deleted", n).Info("[GEOCODE CRON] expired geocode cache rows purged")
}

// Start schedules the housekeeping jobs and starts the scheduler. Call Stop
// on the returned scheduler during shutdown.
func Start(db *gorm.DB) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(GeocodePurgeSpec, func() { PurgeGeocodeCache(db) }); err != nil {
		return nil, err
	}
	c.Start()
	logrus.Info("[GEOCODE CRON] scheduler started, expired geocode cache rows are purged daily at 03:00 UTC")
	return c, nil
}
