package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusOpen      CartStatus = "open"
	CartStatusConverted CartStatus = "converted"
)

type CartItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	Image     string          `json:"image,omitempty"`
}

// Subtotal returns price × qty.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Cart has no stored total. Total is derived from Items whenever it is read or encoded,
// and any "total" found in a persisted record is ignored on decode.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	Status    CartStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Total returns the sum of price × qty over all items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsOpen returns true while the cart can still be mutated.
func (c *Cart) IsOpen() bool {
	return c.Status == CartStatusOpen
}

// Clone returns a copy that shares no item storage with c.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}

func (c Cart) MarshalJSON() ([]byte, error) {
	type cart Cart
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	c.Items = items
	return json.Marshal(struct {
		cart
		Total decimal.Decimal `json:"total"`
	}{cart(c), c.Total()})
}
