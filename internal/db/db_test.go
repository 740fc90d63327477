package db

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vmplane/vmplane/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(database))
	t.Cleanup(func() {
		sqlDB, err := database.DB()
		if err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

func TestEnsureLifecycleColumnsIdempotent(t *testing.T) {
	database := newTestDB(t)

	// Columns already exist after migration, so repair must be a no-op both
	// times.
	require.NoError(t, EnsureLifecycleColumns(database))
	require.NoError(t, EnsureLifecycleColumns(database))

	migrator := database.Migrator()
	require.True(t, migrator.HasColumn(&models.VM{}, "status"))
	require.True(t, migrator.HasColumn(&models.VM{}, "result"))
}

func TestEnsureLifecycleColumnsAddsMissing(t *testing.T) {
	database := newTestDB(t)
	migrator := database.Migrator()

	require.NoError(t, migrator.DropColumn(&models.VM{}, "result"))
	require.False(t, migrator.HasColumn(&models.VM{}, "result"))

	require.NoError(t, EnsureLifecycleColumns(database))
	require.True(t, migrator.HasColumn(&models.VM{}, "result"))
}

func TestEnsureLifecycleColumnsMissingTable(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.Migrator().DropTable(&models.VM{}))

	err := EnsureLifecycleColumns(database)
	require.Error(t, err)
}
