package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPaid   OrderStatus = "paid"
	OrderStatusFailed OrderStatus = "failed"
)

// Order is an immutable snapshot of a cart taken at checkout.
type Order struct {
	ID              string          `json:"id"`
	CartID          string          `json:"cartId"`
	UserID          string          `json:"userId"`
	Items           []CartItem      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress string          `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}
