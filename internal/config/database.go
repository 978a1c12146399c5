package config

import (
	"fmt"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tripwise/internal/logger"
	"tripwise/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB
)

// DSN builds the postgres connection string from cfg.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimezone,
	)
}

// InitDB opens the database, migrates every model and assigns the global handle.
func InitDB(cfg *Config) {
	// lib/pq as the driver so unique violations surface as *pq.Error
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        cfg.DSN(),
	}), &gorm.Config{Logger: logger.GormLogger()})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	if err := models.Migrate(db); err != nil {
		logrus.Fatalf("auto-migration failed: %v", err)
	}

	// Assign to global
	DB = db
}

// GetDB returns the initialized DB handle
func GetDB() *gorm.DB {
	return DB
}
