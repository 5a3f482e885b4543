package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shayfa/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(&entities.StoredCollection{}, &entities.StoredRecord{})
	require.NoError(t, err)

	return NewRepository(db)
}

func TestRepository_EnsureCollections(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureCollections(ctx, []string{"cart", "users"}))
	// Second call is a no-op
	require.NoError(t, repo.EnsureCollections(ctx, []string{"cart", "users", "khatm"}))

	names, err := repo.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cart", "khatm", "users"}, names)
}

func TestRepository_UpsertAndGet(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	err := repo.Upsert(ctx, "products", "p1", []byte(`{"id":"p1","title":"Mat"}`))
	require.NoError(t, err)

	data, err := repo.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","title":"Mat"}`, string(data))
}

func TestRepository_UpsertReplaces(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "products", "p1", []byte(`{"id":"p1","title":"Mat","price":45}`)))
	require.NoError(t, repo.Upsert(ctx, "products", "p1", []byte(`{"id":"p1","title":"Prayer Mat"}`)))

	data, err := repo.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","title":"Prayer Mat"}`, string(data))

	count, err := repo.Count(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := setupTestDB(t)

	data, err := repo.Get(context.Background(), "products", "nope")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Upsert(ctx, "quran", id, []byte(`{"id":"`+id+`"}`)))
	}
	// Updating an existing record does not move it
	require.NoError(t, repo.Upsert(ctx, "quran", "c", []byte(`{"id":"c","v":2}`)))

	docs, err := repo.List(ctx, "quran")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.JSONEq(t, `{"id":"c","v":2}`, string(docs[0]))
	assert.JSONEq(t, `{"id":"a"}`, string(docs[1]))
	assert.JSONEq(t, `{"id":"b"}`, string(docs[2]))
}

func TestRepository_ListIsPerCollection(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "cart", "x", []byte(`{"id":"x"}`)))
	require.NoError(t, repo.Upsert(ctx, "orders", "x", []byte(`{"id":"x","order":true}`)))

	docs, err := repo.List(ctx, "cart")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"id":"x"}`, string(docs[0]))
}

func TestRepository_InsertRejectsDuplicate(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "orders", "ord-1", []byte(`{"id":"ord-1"}`)))

	err := repo.Insert(ctx, "orders", "ord-1", []byte(`{"id":"ord-1","total":5}`))
	assert.ErrorIs(t, err, ErrDuplicateID)

	data, err := repo.Get(ctx, "orders", "ord-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ord-1"}`, string(data))
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "cart", "c1", []byte(`{"id":"c1"}`)))

	existed, err := repo.Delete(ctx, "cart", "c1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "cart", "c1")
	require.NoError(t, err)
	assert.False(t, existed)
}
