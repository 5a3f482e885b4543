package entities

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Total(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: "p1", Price: decimal.RequireFromString("45.00"), Qty: 2},
			{ProductID: "p2", Price: decimal.RequireFromString("15.50"), Qty: 1},
		},
	}

	assert.True(t, decimal.RequireFromString("105.50").Equal(cart.Total()))
}

func TestCart_TotalEmpty(t *testing.T) {
	cart := &Cart{}
	assert.True(t, cart.Total().IsZero())
}

func TestCart_MarshalWritesDerivedTotal(t *testing.T) {
	cart := Cart{
		ID:     "cart-1",
		UserID: "u1",
		Status: CartStatusOpen,
		Items:  []CartItem{{ProductID: "p1", Price: decimal.NewFromInt(10), Qty: 3}},
	}

	rec, err := ToRecord(cart)
	require.NoError(t, err)
	assert.Equal(t, "cart-1", rec.ID())
	assert.Equal(t, "30", rec["total"])
	assert.Equal(t, "u1", rec["userId"])
}

func TestCart_DecodeIgnoresStoredTotal(t *testing.T) {
	rec := Record{
		"id":     "cart-1",
		"userId": "u1",
		"status": "open",
		"total":  999,
		"items": []any{
			map[string]any{"productId": "p1", "title": "Mat", "price": 45, "qty": 2},
		},
	}

	var cart Cart
	require.NoError(t, rec.Decode(&cart))
	assert.True(t, decimal.NewFromInt(90).Equal(cart.Total()))
}

func TestCart_MarshalEmptyItems(t *testing.T) {
	data, err := json.Marshal(Cart{ID: "c"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
	assert.Contains(t, string(data), `"total":"0"`)
}

func TestCart_CloneDoesNotShareItems(t *testing.T) {
	cart := &Cart{Items: []CartItem{{ProductID: "p1", Qty: 1}}}
	clone := cart.Clone()
	clone.Items[0].Qty = 5

	assert.Equal(t, 1, cart.Items[0].Qty)
}

func TestRecord_ID(t *testing.T) {
	assert.Equal(t, "", Record(nil).ID())
	assert.Equal(t, "", Record{"id": 12}.ID())
	assert.Equal(t, "abc", Record{"id": "abc"}.ID())
}

func TestRecord_CloneIsDeep(t *testing.T) {
	rec := Record{"id": "x", "nested": map[string]any{"a": "b"}}
	clone := rec.Clone()
	clone["nested"].(map[string]any)["a"] = "changed"

	assert.Equal(t, "b", rec["nested"].(map[string]any)["a"])
}

func TestIsKnownCollection(t *testing.T) {
	assert.True(t, IsKnownCollection(CollectionCart))
	assert.True(t, IsKnownCollection(CollectionKhatm))
	assert.False(t, IsKnownCollection("books"))
}
