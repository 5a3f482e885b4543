// Package payment charges customers at checkout.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPayment        = errors.New("payment failed")
	ErrInvalidPayment = fmt.Errorf("%w: invalid payment details", ErrPayment)
)

// MethodVisa is reported for every card the simulated gateway accepts.
const MethodVisa = "visa"

// PaymentDetails is what the customer submits at checkout.
type PaymentDetails struct {
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry,omitempty"`
	CVC        string `json:"cvc,omitempty"`
	Address    string `json:"address"`

	// Amount is filled in by the checkout flow.
	Amount decimal.Decimal `json:"-"`
}

// Gateway charges a payment and reports the method used.
type Gateway interface {
	Charge(ctx context.Context, details *PaymentDetails) (method string, err error)
}

// SimulatedGateway stands in for a card processor. It waits Delay, then accepts
// any details that carry a card number.
type SimulatedGateway struct {
	Delay time.Duration
}

func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay}
}

func (g *SimulatedGateway) Charge(ctx context.Context, details *PaymentDetails) (string, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	if err := Validate(details); err != nil {
		return "", err
	}

	log.Printf("Simulated charge of %s on card ending %s", details.Amount.StringFixed(2), lastDigits(details.CardNumber))
	return MethodVisa, nil
}

// Validate rejects missing details and details without a card number.
func Validate(details *PaymentDetails) error {
	if details == nil || strings.TrimSpace(details.CardNumber) == "" {
		return ErrInvalidPayment
	}
	return nil
}

func lastDigits(card string) string {
	card = strings.ReplaceAll(strings.TrimSpace(card), " ", "")
	if len(card) <= 4 {
		return card
	}
	return card[len(card)-4:]
}
