// Package cart runs the shopping cart and checkout workflow.
//
// Every user has at most one open cart. Checkout charges the payment gateway, stores
// an immutable order snapshot, marks the cart converted and opens a fresh cart:
//
//	engine := cart.NewEngine(client, gateway, guard, auditService)
//	if err := engine.Init(ctx, userID); err != nil { ... }
//	engine.AddToCart(ctx, product)
//	order, err := engine.Checkout(ctx, &payment.PaymentDetails{CardNumber: "4242", Address: "..."})
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/audit"
	"github.com/mrlokans/shayfa/internal/entities"
	"github.com/mrlokans/shayfa/internal/payment"
)

// GuestUserID owns the cart of anonymous visitors.
const GuestUserID = "guest-user"

var (
	ErrNotInitialized = errors.New("cart engine is not initialized")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrCartClosed     = errors.New("cart is no longer open")
)

// Engine holds the open cart of one user.
type Engine struct {
	mu      sync.Mutex
	client  *api.Client
	gateway payment.Gateway
	guard   *singleflight.Group
	audit   *audit.Service
	now     func() time.Time

	cart *entities.Cart
}

// NewEngine creates an engine. guard must be shared by every engine of the process
// so concurrent Init calls for the same user agree on one cart. auditService may be nil.
func NewEngine(client *api.Client, gateway payment.Gateway, guard *singleflight.Group, auditService *audit.Service) *Engine {
	if guard == nil {
		guard = &singleflight.Group{}
	}
	return &Engine{
		client:  client,
		gateway: gateway,
		guard:   guard,
		audit:   auditService,
		now:     time.Now,
	}
}

// Init loads the open cart of userID, creating one when there is none.
// An empty userID selects the guest cart.
func (e *Engine) Init(ctx context.Context, userID string) error {
	if userID == "" {
		userID = GuestUserID
	}

	v, err, _ := e.guard.Do("cart:"+userID, func() (any, error) {
		return e.findOrCreate(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("failed to load cart for %s: %w", userID, err)
	}

	e.mu.Lock()
	e.cart = v.(*entities.Cart).Clone()
	e.mu.Unlock()
	return nil
}

// isOpen reports whether the engine holds a cart that can still be mutated.
func (e *Engine) isOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart != nil && e.cart.IsOpen()
}

// Cart returns a copy of the current cart, or nil before Init.
func (e *Engine) Cart() *entities.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone()
}

// AddToCart adds one unit of product.
func (e *Engine) AddToCart(ctx context.Context, product entities.Product) (*entities.Cart, error) {
	return e.mutate(ctx, func(c *entities.Cart) bool {
		for i := range c.Items {
			if c.Items[i].ProductID == product.ID {
				c.Items[i].Qty++
				return true
			}
		}
		c.Items = append(c.Items, entities.CartItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Qty:       1,
			Image:     product.Image,
		})
		return true
	})
}

// RemoveFromCart drops productID from the cart.
func (e *Engine) RemoveFromCart(ctx context.Context, productID string) (*entities.Cart, error) {
	return e.mutate(ctx, func(c *entities.Cart) bool {
		kept := c.Items[:0]
		for _, item := range c.Items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		c.Items = kept
		return true
	})
}

// UpdateQty sets the quantity of productID. A quantity of zero or less removes it,
// and products not in the cart are ignored.
func (e *Engine) UpdateQty(ctx context.Context, productID string, qty int) (*entities.Cart, error) {
	return e.mutate(ctx, func(c *entities.Cart) bool {
		for i := range c.Items {
			if c.Items[i].ProductID != productID {
				continue
			}
			if qty <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Qty = qty
			}
			return true
		}
		return false
	})
}

// Checkout charges the cart total and turns the cart into a paid order. A payment
// failure leaves the cart exactly as it was.
//
// Once the cart is stored as converted the engine keeps it, even if opening the
// next cart fails; further mutations then fail with ErrCartClosed until Init.
func (e *Engine) Checkout(ctx context.Context, details *payment.PaymentDetails) (*entities.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cart == nil {
		return nil, ErrNotInitialized
	}
	if !e.cart.IsOpen() {
		return nil, ErrCartClosed
	}
	if err := payment.Validate(details); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	current := e.cart.Clone()
	if len(current.Items) == 0 {
		return nil, ErrEmptyCart
	}
	total := current.Total()

	var charge *payment.PaymentDetails
	var address string
	if details != nil {
		d := *details
		d.Amount = total
		charge = &d
		address = details.Address
	}
	method, err := e.gateway.Charge(ctx, charge)
	if err != nil {
		e.audit.LogCheckout(current.UserID, current.ID, "", total, err)
		return nil, fmt.Errorf("checkout: %w", err)
	}

	now := e.now().UTC()
	order := entities.Order{
		ID:              "ord-" + uuid.NewString(),
		CartID:          current.ID,
		UserID:          current.UserID,
		Items:           current.Items,
		Total:           total,
		Status:          entities.OrderStatusPaid,
		PaymentMethod:   method,
		ShippingAddress: address,
		CreatedAt:       now,
	}
	if err := e.post(ctx, entities.CollectionOrders, order); err != nil {
		e.audit.LogCheckout(current.UserID, current.ID, "", total, err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	current.Status = entities.CartStatusConverted
	current.UpdatedAt = now
	if err := e.put(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to close cart %s: %w", current.ID, err)
	}
	e.cart = current

	fresh, err := e.create(ctx, current.UserID)
	if err != nil {
		log.Printf("Order %s stored but no new cart was opened for %s: %v", order.ID, current.UserID, err)
		e.audit.LogCheckout(order.UserID, order.CartID, order.ID, total, nil)
		return nil, fmt.Errorf("failed to open new cart: %w", err)
	}
	e.cart = fresh

	log.Printf("Checkout of cart %s completed as order %s (%s)", current.ID, order.ID, total.StringFixed(2))
	e.audit.LogCheckout(order.UserID, order.CartID, order.ID, total, nil)
	return &order, nil
}

// mutate applies change to a copy of the open cart and adopts it once persisted.
// change returns false when nothing changed and nothing needs saving.
func (e *Engine) mutate(ctx context.Context, change func(c *entities.Cart) bool) (*entities.Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cart == nil {
		return nil, ErrNotInitialized
	}
	if !e.cart.IsOpen() {
		return nil, ErrCartClosed
	}
	next := e.cart.Clone()
	if !change(next) {
		return next, nil
	}
	next.UpdatedAt = e.now().UTC()

	if err := e.put(ctx, next); err != nil {
		return nil, err
	}
	e.cart = next
	return next.Clone(), nil
}

func (e *Engine) findOrCreate(ctx context.Context, userID string) (*entities.Cart, error) {
	carts, err := api.ListAs[entities.Cart](ctx, e.client, entities.CollectionCart)
	if err != nil {
		return nil, err
	}
	for i := range carts {
		if carts[i].UserID == userID && carts[i].IsOpen() {
			return &carts[i], nil
		}
	}
	return e.create(ctx, userID)
}

func (e *Engine) create(ctx context.Context, userID string) (*entities.Cart, error) {
	now := e.now().UTC()
	c := &entities.Cart{
		ID:        "cart-" + uuid.NewString(),
		UserID:    userID,
		Items:     []entities.CartItem{},
		Status:    entities.CartStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.post(ctx, entities.CollectionCart, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (e *Engine) put(ctx context.Context, c *entities.Cart) error {
	rec, err := api.Encode(c)
	if err != nil {
		return err
	}
	_, err = e.client.Put(ctx, entities.CollectionCart, c.ID, rec)
	return err
}

func (e *Engine) post(ctx context.Context, collection string, v any) error {
	rec, err := api.Encode(v)
	if err != nil {
		return err
	}
	_, err = e.client.Post(ctx, collection, rec)
	return err
}
