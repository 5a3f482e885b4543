package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/entities"
)

// Purger deletes converted carts. Orders keep their own item snapshot so nothing
// else refers to a converted cart.
type Purger struct {
	client *api.Client
	now    func() time.Time
}

func NewPurger(client *api.Client) *Purger {
	return &Purger{client: client, now: time.Now}
}

// PurgeConverted deletes converted carts last updated more than olderThan ago
// and returns how many were removed. Open carts are never touched.
func (p *Purger) PurgeConverted(ctx context.Context, olderThan time.Duration) (int, error) {
	carts, err := api.ListAs[entities.Cart](ctx, p.client, entities.CollectionCart)
	if err != nil {
		return 0, err
	}

	cutoff := p.now().Add(-olderThan)
	deleted := 0
	for _, c := range carts {
		if c.IsOpen() || !c.UpdatedAt.Before(cutoff) {
			continue
		}
		existed, err := p.client.Delete(ctx, entities.CollectionCart, c.ID)
		if err != nil {
			return deleted, fmt.Errorf("failed to purge cart %s: %w", c.ID, err)
		}
		if existed {
			deleted++
		}
	}
	return deleted, nil
}
