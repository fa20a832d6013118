package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database migrated with the full
// schema. cache=shared keeps the database alive across pooled connections.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.FCMDevice{},
		&models.Location{},
		&models.Route{},
		&models.RouteCoordinate{},
		&models.RouteStep{},
		&models.Message{},
		&models.WalkRequest{},
		&models.WalkBuddy{},
		&models.SOSAlert{},
	)
	require.NoError(t, err)

	return &database.DB{DB: gdb}
}

func seedLocation(t *testing.T, db *database.DB, name string, lat, lng float64) *models.Location {
	t.Helper()

	loc := models.Location{Name: name, Latitude: lat, Longitude: lng}
	require.NoError(t, db.Create(&loc).Error)
	return &loc
}

func seedUser(t *testing.T, db *database.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.edu",
		Password: "not-a-real-hash",
		Name:     username,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
