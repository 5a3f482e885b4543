package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mrlokans/shayfa/internal/tasks"
)

// DirectRunner runs maintenance inline. It is used when the task queue is disabled.
type DirectRunner struct {
	Purger  tasks.ConvertedCartPurger
	Cleaner tasks.AuditEventCleaner
}

func (r DirectRunner) EnqueueMaintenance(ctx context.Context, cartRetention time.Duration, auditRetentionDays int) ([]string, error) {
	var errs []error
	var ran []string

	if r.Purger != nil {
		process := tasks.PurgeConvertedCartsProcessor(r.Purger)
		if err := process(ctx, tasks.PurgeConvertedCartsTask{OlderThanHours: int(cartRetention / time.Hour)}); err != nil {
			errs = append(errs, err)
		} else {
			ran = append(ran, "purge_converted_carts")
		}
	}
	if r.Cleaner != nil {
		process := tasks.CleanupAuditEventsProcessor(r.Cleaner)
		if err := process(ctx, tasks.CleanupAuditEventsTask{RetentionDays: auditRetentionDays}); err != nil {
			errs = append(errs, err)
		} else {
			ran = append(ran, "cleanup_audit_events")
		}
	}

	if len(errs) > 0 {
		log.Printf("Maintenance: %d of %d steps failed", len(errs), len(errs)+len(ran))
	}
	return ran, errors.Join(errs...)
}
