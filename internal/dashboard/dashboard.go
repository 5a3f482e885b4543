// Package dashboard aggregates the admin overview figures.
package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/entities"
)

// Summary is the admin overview.
type Summary struct {
	Users    int             `json:"users"`
	Orders   int             `json:"orders"`
	Products int             `json:"products"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Collect counts users, orders and products and sums order totals.
// Failed orders do not count towards revenue.
func Collect(ctx context.Context, client *api.Client) (Summary, error) {
	var summary Summary

	users, err := client.List(ctx, entities.CollectionUsers)
	if err != nil {
		return summary, fmt.Errorf("failed to count users: %w", err)
	}
	products, err := client.List(ctx, entities.CollectionProducts)
	if err != nil {
		return summary, fmt.Errorf("failed to count products: %w", err)
	}
	orders, err := api.ListAs[entities.Order](ctx, client, entities.CollectionOrders)
	if err != nil {
		return summary, fmt.Errorf("failed to load orders: %w", err)
	}

	summary.Users = len(users)
	summary.Products = len(products)
	summary.Orders = len(orders)
	summary.Revenue = decimal.Zero
	for _, o := range orders {
		if o.Status == entities.OrderStatusFailed {
			continue
		}
		summary.Revenue = summary.Revenue.Add(o.Total)
	}
	return summary, nil
}
