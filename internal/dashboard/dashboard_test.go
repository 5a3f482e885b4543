package dashboard

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/entities"
	"github.com/mrlokans/shayfa/internal/recordstore"
	"github.com/mrlokans/shayfa/internal/token"
)

func TestCollect_Empty(t *testing.T) {
	client := api.NewClient(recordstore.NewMemory(), token.NewDevCodec(), api.Options{})

	summary, err := Collect(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Users)
	assert.Equal(t, 0, summary.Orders)
	assert.True(t, summary.Revenue.IsZero())
}

func TestCollect(t *testing.T) {
	ctx := context.Background()
	client := api.NewClient(recordstore.NewMemory(), token.NewDevCodec(), api.Options{})

	add := func(collection string, v any) {
		rec, err := api.Encode(v)
		require.NoError(t, err)
		_, err = client.Post(ctx, collection, rec)
		require.NoError(t, err)
	}

	add(entities.CollectionUsers, entities.User{ID: "u1", Email: "a@b.c"})
	add(entities.CollectionUsers, entities.User{ID: "u2", Email: "d@e.f"})
	add(entities.CollectionProducts, entities.Product{ID: "p1", Price: decimal.RequireFromString("45")})
	add(entities.CollectionOrders, entities.Order{ID: "o1", Total: decimal.RequireFromString("45.50"), Status: entities.OrderStatusPaid})
	add(entities.CollectionOrders, entities.Order{ID: "o2", Total: decimal.RequireFromString("15"), Status: entities.OrderStatusPaid})
	add(entities.CollectionOrders, entities.Order{ID: "o3", Total: decimal.RequireFromString("99"), Status: entities.OrderStatusFailed})

	summary, err := Collect(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Users)
	assert.Equal(t, 1, summary.Products)
	assert.Equal(t, 3, summary.Orders)
	assert.Equal(t, "60.5", summary.Revenue.String())
}
