package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultCartRetentionHours applies when a task carries no cutoff.
const DefaultCartRetentionHours = 30 * 24

// ConvertedCartPurger deletes converted carts older than a cutoff.
type ConvertedCartPurger interface {
	PurgeConverted(ctx context.Context, olderThan time.Duration) (int, error)
}

// PurgeConvertedCartsTask deletes carts that were checked out more than
// OlderThanHours ago. Open carts are kept.
type PurgeConvertedCartsTask struct {
	OlderThanHours int `json:"older_than_hours"`
}

func (t PurgeConvertedCartsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_converted_carts",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeConvertedCartsProcessor creates the processor for PurgeConvertedCartsTask.
func PurgeConvertedCartsProcessor(purger ConvertedCartPurger) backlite.QueueProcessor[PurgeConvertedCartsTask] {
	return func(ctx context.Context, task PurgeConvertedCartsTask) error {
		if purger == nil {
			return fmt.Errorf("cart purger not configured")
		}

		hours := task.OlderThanHours
		if hours <= 0 {
			hours = DefaultCartRetentionHours
		}

		deleted, err := purger.PurgeConverted(ctx, time.Duration(hours)*time.Hour)
		if err != nil {
			return fmt.Errorf("purge converted carts: %w", err)
		}

		log.Printf("[TASK] Purged %d converted carts older than %dh", deleted, hours)
		return nil
	}
}

func NewPurgeConvertedCartsQueue(purger ConvertedCartPurger) backlite.Queue {
	return backlite.NewQueue(PurgeConvertedCartsProcessor(purger))
}
