package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shayfa/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.AuditEvent{
		UserID:      "sys-admin",
		EventType:   entities.AuditEventAuth,
		Action:      "login",
		Description: "Logged in",
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(context.Background(), event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		event := &entities.AuditEvent{
			UserID:    "u1",
			EventType: entities.AuditEventCheckout,
			Action:    "checkout",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.LogEvent(ctx, event))
	}
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		UserID:    "u2",
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}))

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, EventFilter{UserID: "u1", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 10)
		// Most recent first
		assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))

		events, _, err = repo.GetEvents(ctx, EventFilter{UserID: "u1", Limit: 10, Offset: 10})
		require.NoError(t, err)
		assert.Len(t, events, 5)
	})

	t.Run("all users", func(t *testing.T) {
		_, total, err := repo.GetEvents(ctx, EventFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(16), total)
	})

	t.Run("by type", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, EventFilter{EventType: entities.AuditEventAuth})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "u2", events[0].UserID)
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{Action: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{Action: "new"}))

	deleted, err := repo.DeleteOldEvents(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.GetEvents(ctx, EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new", events[0].Action)
}
