package cart

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/audit"
	auditRepo "github.com/mrlokans/shayfa/internal/database/audit"
	"github.com/mrlokans/shayfa/internal/entities"
	"github.com/mrlokans/shayfa/internal/payment"
	"github.com/mrlokans/shayfa/internal/recordstore"
	"github.com/mrlokans/shayfa/internal/token"
)

var (
	prayerMat = entities.Product{ID: "p1", Title: "Premium Prayer Mat", Price: decimal.RequireFromString("45.00")}
	tasbih    = entities.Product{ID: "p2", Title: "Smart Tasbih", Price: decimal.RequireFromString("15.00")}
	validCard = &payment.PaymentDetails{CardNumber: "4242424242424242", Address: "1 Mosque Street"}
)

func setupTestClient(t *testing.T) *api.Client {
	t.Helper()
	return api.NewClient(recordstore.NewMemory(), token.NewDevCodec(), api.Options{})
}

func setupTestEngine(t *testing.T, userID string) (*Engine, *api.Client) {
	t.Helper()
	client := setupTestClient(t)
	engine := NewEngine(client, payment.NewSimulatedGateway(0), &singleflight.Group{}, nil)
	require.NoError(t, engine.Init(context.Background(), userID))
	return engine, client
}

func openCarts(t *testing.T, client *api.Client, userID string) []entities.Cart {
	t.Helper()
	carts, err := api.ListAs[entities.Cart](context.Background(), client, entities.CollectionCart)
	require.NoError(t, err)
	var open []entities.Cart
	for _, c := range carts {
		if c.UserID == userID && c.IsOpen() {
			open = append(open, c)
		}
	}
	return open
}

func TestEngine_InitCreatesCart(t *testing.T) {
	engine, client := setupTestEngine(t, "u1")

	c := engine.Cart()
	require.NotNil(t, c)
	assert.Equal(t, "u1", c.UserID)
	assert.True(t, c.IsOpen())
	assert.Empty(t, c.Items)
	assert.Contains(t, c.ID, "cart-")
	assert.Len(t, openCarts(t, client, "u1"), 1)
}

func TestEngine_InitReusesOpenCart(t *testing.T) {
	engine, client := setupTestEngine(t, "u1")
	ctx := context.Background()
	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)

	again := NewEngine(client, payment.NewSimulatedGateway(0), nil, nil)
	require.NoError(t, again.Init(ctx, "u1"))
	assert.Equal(t, engine.Cart().ID, again.Cart().ID)
	require.Len(t, again.Cart().Items, 1)
	assert.True(t, again.Cart().Total().Equal(decimal.RequireFromString("45")))
}

func TestEngine_GuestCart(t *testing.T) {
	engine, _ := setupTestEngine(t, "")
	assert.Equal(t, GuestUserID, engine.Cart().UserID)
}

func TestEngine_NotInitialized(t *testing.T) {
	engine := NewEngine(setupTestClient(t), payment.NewSimulatedGateway(0), nil, nil)
	ctx := context.Background()

	_, err := engine.AddToCart(ctx, prayerMat)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = engine.Checkout(ctx, validCard)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, engine.Cart())
}

func TestEngine_AddSameProductTwice(t *testing.T) {
	engine, client := setupTestEngine(t, "u1")
	ctx := context.Background()

	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	c, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Qty)
	assert.True(t, c.Total().Equal(prayerMat.Price.Mul(decimal.NewFromInt(2))))

	// Persisted as well
	stored := openCarts(t, client, "u1")
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].Items[0].Qty)
}

func TestEngine_TotalFollowsItems(t *testing.T) {
	engine, _ := setupTestEngine(t, "u1")
	ctx := context.Background()

	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	_, err = engine.AddToCart(ctx, tasbih)
	require.NoError(t, err)
	c, err := engine.UpdateQty(ctx, tasbih.ID, 3)
	require.NoError(t, err)

	assert.True(t, c.Total().Equal(decimal.RequireFromString("90")), c.Total().String())
}

func TestEngine_UpdateQtyZeroRemoves(t *testing.T) {
	engine, _ := setupTestEngine(t, "u1")
	ctx := context.Background()

	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	_, err = engine.AddToCart(ctx, tasbih)
	require.NoError(t, err)

	c, err := engine.UpdateQty(ctx, prayerMat.ID, 0)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, tasbih.ID, c.Items[0].ProductID)

	c, err = engine.UpdateQty(ctx, tasbih.ID, -1)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total().IsZero())
}

func TestEngine_UpdateQtyUnknownProductIsNoop(t *testing.T) {
	engine, _ := setupTestEngine(t, "u1")
	ctx := context.Background()

	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	before := engine.Cart()

	c, err := engine.UpdateQty(ctx, "nope", 5)
	require.NoError(t, err)
	assert.Equal(t, before.Items, c.Items)
	assert.Equal(t, before.UpdatedAt, engine.Cart().UpdatedAt)
}

func TestEngine_RemoveFromCart(t *testing.T) {
	engine, _ := setupTestEngine(t, "u1")
	ctx := context.Background()

	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	c, err := engine.RemoveFromCart(ctx, prayerMat.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestEngine_CartReturnsCopy(t *testing.T) {
	engine, _ := setupTestEngine(t, "u1")
	_, err := engine.AddToCart(context.Background(), prayerMat)
	require.NoError(t, err)

	c := engine.Cart()
	c.Items[0].Qty = 99
	assert.Equal(t, 1, engine.Cart().Items[0].Qty)
}

func TestEngine_CheckoutWithoutCardLeavesCartUntouched(t *testing.T) {
	engine, client := setupTestEngine(t, "u1")
	ctx := context.Background()

	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	before := engine.Cart()

	for _, details := range []*payment.PaymentDetails{nil, {Address: "somewhere"}} {
		_, err = engine.Checkout(ctx, details)
		assert.ErrorIs(t, err, payment.ErrPayment)
	}

	after := engine.Cart()
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Items, after.Items)
	assert.True(t, after.IsOpen())

	orders, err := client.List(ctx, entities.CollectionOrders)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestEngine_CheckoutEmptyCart(t *testing.T) {
	engine, _ := setupTestEngine(t, "u1")

	_, err := engine.Checkout(context.Background(), validCard)
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Payment details are checked before the cart contents
	_, err = engine.Checkout(context.Background(), nil)
	assert.ErrorIs(t, err, payment.ErrInvalidPayment)
}

func TestEngine_Checkout(t *testing.T) {
	engine, client := setupTestEngine(t, "u1")
	ctx := context.Background()

	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	_, err = engine.AddToCart(ctx, tasbih)
	require.NoError(t, err)
	old := engine.Cart()

	order, err := engine.Checkout(ctx, validCard)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusPaid, order.Status)
	assert.Equal(t, payment.MethodVisa, order.PaymentMethod)
	assert.Equal(t, old.ID, order.CartID)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, "1 Mosque Street", order.ShippingAddress)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("60")))
	assert.Len(t, order.Items, 2)

	orders, err := api.ListAs[entities.Order](ctx, client, entities.CollectionOrders)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.True(t, orders[0].Total.Equal(order.Total))

	converted, err := api.GetAs[entities.Cart](ctx, client, entities.CollectionCart, old.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.CartStatusConverted, converted.Status)

	fresh := engine.Cart()
	assert.NotEqual(t, old.ID, fresh.ID)
	assert.True(t, fresh.IsOpen())
	assert.Empty(t, fresh.Items)

	open := openCarts(t, client, "u1")
	require.Len(t, open, 1)
	assert.Equal(t, fresh.ID, open[0].ID)
}

type failingGateway struct{}

func (failingGateway) Charge(context.Context, *payment.PaymentDetails) (string, error) {
	return "", errors.New("card declined")
}

func TestEngine_CheckoutGatewayFailure(t *testing.T) {
	client := setupTestClient(t)
	engine := NewEngine(client, failingGateway{}, nil, nil)
	ctx := context.Background()
	require.NoError(t, engine.Init(ctx, "u1"))
	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)

	_, err = engine.Checkout(ctx, validCard)
	assert.ErrorContains(t, err, "card declined")
	assert.True(t, engine.Cart().IsOpen())
	assert.Len(t, engine.Cart().Items, 1)
}

func TestEngine_ConcurrentInitYieldsOneCart(t *testing.T) {
	store := recordstore.Open(filepath.Join(t.TempDir(), "shayfa.db"))
	t.Cleanup(func() { store.Close() })
	require.True(t, store.Ready())
	client := api.NewClient(store, token.NewDevCodec(), api.Options{})
	guard := &singleflight.Group{}

	const n = 10
	engines := make([]*Engine, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		engines[i] = NewEngine(client, payment.NewSimulatedGateway(0), guard, nil)
		wg.Add(1)
		go func(e *Engine) {
			defer wg.Done()
			assert.NoError(t, e.Init(context.Background(), "new-user"))
		}(engines[i])
	}
	wg.Wait()

	open := openCarts(t, client, "new-user")
	require.Len(t, open, 1)
	for _, e := range engines {
		assert.Equal(t, open[0].ID, e.Cart().ID)
	}
}

func TestEngine_CheckoutIsAudited(t *testing.T) {
	store := recordstore.Open(filepath.Join(t.TempDir(), "shayfa.db"))
	t.Cleanup(func() { store.Close() })
	require.True(t, store.Ready())

	repo := auditRepo.NewRepository(store.Database().DB)
	auditService := audit.NewService(repo)
	client := api.NewClient(store, token.NewDevCodec(), api.Options{})
	engine := NewEngine(client, payment.NewSimulatedGateway(0), nil, auditService)
	ctx := context.Background()

	require.NoError(t, engine.Init(ctx, "u1"))
	_, err := engine.AddToCart(ctx, tasbih)
	require.NoError(t, err)
	order, err := engine.Checkout(ctx, validCard)
	require.NoError(t, err)
	auditService.Wait()

	events, total, err := repo.GetEvents(ctx, auditRepo.EventFilter{EventType: entities.AuditEventCheckout})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, order.ID, events[0].EntityID)
	assert.Equal(t, entities.AuditStatusSuccess, events[0].Status)
}

func TestRegistry(t *testing.T) {
	client := setupTestClient(t)
	guard := &singleflight.Group{}
	registry := NewRegistry(func() *Engine {
		return NewEngine(client, payment.NewSimulatedGateway(0), guard, nil)
	})
	ctx := context.Background()

	a, err := registry.For(ctx, "u1")
	require.NoError(t, err)
	b, err := registry.For(ctx, "u1")
	require.NoError(t, err)
	assert.Same(t, a, b)

	guest, err := registry.For(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, GuestUserID, guest.Cart().UserID)

	registry.Forget("u1")
	c, err := registry.For(ctx, "u1")
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, a.Cart().ID, c.Cart().ID)
}

// cartInsertFailingStore fails new cart inserts while failCartInserts is set.
type cartInsertFailingStore struct {
	*recordstore.Store
	failCartInserts atomic.Bool
}

func (s *cartInsertFailingStore) Insert(ctx context.Context, collection string, rec entities.Record) (entities.Record, error) {
	if collection == entities.CollectionCart && s.failCartInserts.Load() {
		return nil, errors.New("disk full")
	}
	return s.Store.Insert(ctx, collection, rec)
}

func TestEngine_CheckoutKeepsConvertedCartWhenNextCartFails(t *testing.T) {
	store := &cartInsertFailingStore{Store: recordstore.NewMemory()}
	client := api.NewClient(store, token.NewDevCodec(), api.Options{})
	engine := NewEngine(client, payment.NewSimulatedGateway(0), nil, nil)
	ctx := context.Background()

	require.NoError(t, engine.Init(ctx, "u1"))
	_, err := engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	paid := engine.Cart()

	store.failCartInserts.Store(true)
	_, err = engine.Checkout(ctx, validCard)
	require.ErrorContains(t, err, "disk full")

	held := engine.Cart()
	assert.Equal(t, paid.ID, held.ID)
	assert.Equal(t, entities.CartStatusConverted, held.Status)

	_, err = engine.AddToCart(ctx, tasbih)
	assert.ErrorIs(t, err, ErrCartClosed)
	_, err = engine.Checkout(ctx, validCard)
	assert.ErrorIs(t, err, ErrCartClosed)

	stored, err := api.GetAs[entities.Cart](ctx, client, entities.CollectionCart, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.CartStatusConverted, stored.Status)

	orders, err := api.ListAs[entities.Order](ctx, client, entities.CollectionOrders)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, paid.ID, orders[0].CartID)

	// Storage recovers: Init opens a fresh cart
	store.failCartInserts.Store(false)
	require.NoError(t, engine.Init(ctx, "u1"))
	assert.NotEqual(t, paid.ID, engine.Cart().ID)
	assert.True(t, engine.Cart().IsOpen())
}

func TestRegistry_ReinitializesClosedEngine(t *testing.T) {
	store := &cartInsertFailingStore{Store: recordstore.NewMemory()}
	client := api.NewClient(store, token.NewDevCodec(), api.Options{})
	registry := NewRegistry(func() *Engine {
		return NewEngine(client, payment.NewSimulatedGateway(0), nil, nil)
	})
	ctx := context.Background()

	engine, err := registry.For(ctx, "u1")
	require.NoError(t, err)
	_, err = engine.AddToCart(ctx, prayerMat)
	require.NoError(t, err)
	paid := engine.Cart().ID

	store.failCartInserts.Store(true)
	_, err = engine.Checkout(ctx, validCard)
	require.Error(t, err)
	store.failCartInserts.Store(false)

	again, err := registry.For(ctx, "u1")
	require.NoError(t, err)
	assert.Same(t, engine, again)
	assert.True(t, again.Cart().IsOpen())
	assert.NotEqual(t, paid, again.Cart().ID)
}
