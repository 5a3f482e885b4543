package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shayfa/internal/entities"
)

func TestDatabaseInitialization(t *testing.T) {
	t.Run("NewDatabase creates database file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "init_test.db")

		db, err := NewDatabase(dbPath)
		require.NoError(t, err)
		defer db.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("NewDatabase migrates record and audit tables", func(t *testing.T) {
		db, err := NewDatabaseWithOptions(":memory:", Options{LogLevel: logger.Silent})
		require.NoError(t, err)
		defer db.Close()

		assert.True(t, db.DB.Migrator().HasTable(&entities.StoredCollection{}))
		assert.True(t, db.DB.Migrator().HasTable(&entities.StoredRecord{}))
		assert.True(t, db.DB.Migrator().HasTable(&entities.AuditEvent{}))
	})

	t.Run("NewDatabase is idempotent", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "idempotent_test.db")

		db1, err := NewDatabase(dbPath)
		require.NoError(t, err)
		require.NoError(t, db1.DB.Create(&entities.StoredCollection{Name: "cart"}).Error)
		db1.Close()

		db2, err := NewDatabase(dbPath)
		require.NoError(t, err)
		defer db2.Close()

		var count int64
		require.NoError(t, db2.DB.Model(&entities.StoredCollection{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("NewDatabase fails for unreachable path", func(t *testing.T) {
		_, err := NewDatabase(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
		assert.Error(t, err)
	})

	t.Run("Ping fails after Close", func(t *testing.T) {
		db, err := NewDatabase(filepath.Join(t.TempDir(), "close_test.db"))
		require.NoError(t, err)

		assert.NoError(t, db.Ping())
		require.NoError(t, db.Close())
		assert.Error(t, db.Ping())
	})
}
