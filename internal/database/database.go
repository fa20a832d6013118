package database

import (
	"log"
	"time"

	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

func Connect(cfg *config.Config) (*DB, error) {
	logLevel := logger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	// Register metrics plugin for Prometheus
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Printf("Failed to register metrics plugin: %v", err)
	} else {
		log.Println("Database metrics plugin registered")
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(300 * time.Second)
		log.Println("Database connection pool configured")
	}

	return &DB{db}, nil
}

// Migrate runs AutoMigrate for all models. A failure is fatal: the composite
// unique indexes it creates are what keeps concurrent route resolution from
// inserting duplicate rows, so the server must not come up without them.
func Migrate(db *DB) error {
	return db.AutoMigrate(
		// User domain
		&models.User{},
		&models.FCMDevice{},

		// Route domain
		&models.Location{},
		&models.Route{},
		&models.RouteCoordinate{},
		&models.RouteStep{},

		// Message domain
		&models.Message{},

		// Walk domain
		&models.WalkRequest{},
		&models.WalkBuddy{},
		&models.SOSAlert{},
	)
}

// campusLocations are the named points a route can start or end at. Seeding
// is idempotent: existing names are left untouched.
var campusLocations = []models.Location{
	{Name: "Central Library", Latitude: 32.729513, Longitude: -97.115278},
	{Name: "College Park Center", Latitude: 32.730382, Longitude: -97.108016},
	{Name: "Maverick Activities Center", Latitude: 32.731964, Longitude: -97.117024},
	{Name: "Engineering Research Building", Latitude: 32.733422, Longitude: -97.113224},
	{Name: "University Center", Latitude: 32.731654, Longitude: -97.111184},
	{Name: "Science Hall", Latitude: 32.730412, Longitude: -97.113824},
	{Name: "Arlington Hall", Latitude: 32.732734, Longitude: -97.110366},
	{Name: "West Campus Garage", Latitude: 32.731126, Longitude: -97.118742},
}

// Seed inserts the campus location catalog.
func Seed(db *DB) error {
	for _, loc := range campusLocations {
		var existing models.Location
		err := db.Where("name = ?", loc.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&loc).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d campus locations", len(campusLocations))
	return nil
}
