package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return &DB{db}
}

func TestMigrateCreatesRouteIndexes(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))

	// the composite unique indexes are what prevents duplicate rows under
	// concurrent first-time resolution
	assert.True(t, db.Migrator().HasIndex(&models.Route{}, "routes_start_end_key"))
	assert.True(t, db.Migrator().HasIndex(&models.RouteCoordinate{}, "route_coords_route_pos_key"))
	assert.True(t, db.Migrator().HasIndex(&models.RouteStep{}, "route_steps_route_num_key"))
}

func TestMigrateFailureIsReturned(t *testing.T) {
	db := openTestDB(t)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	require.Error(t, Migrate(db))
}

func TestSeedIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var count int64
	require.NoError(t, db.Model(&models.Location{}).Count(&count).Error)
	assert.EqualValues(t, len(campusLocations), count)
}
