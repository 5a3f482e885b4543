// Package scheduler triggers periodic maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/shayfa/internal/audit"
	"github.com/mrlokans/shayfa/internal/config"
)

// DefaultSchedule runs maintenance daily at 03:00.
const DefaultSchedule = "0 3 * * *"

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Runner performs (or enqueues) one maintenance pass.
type Runner interface {
	EnqueueMaintenance(ctx context.Context, cartRetention time.Duration, auditRetentionDays int) ([]string, error)
}

// MaintenanceScheduler periodically hands maintenance to a Runner.
type MaintenanceScheduler struct {
	runner       Runner
	cfg          config.Maintenance
	auditService *audit.Service

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewMaintenanceScheduler(runner Runner, cfg config.Maintenance, auditService *audit.Service) *MaintenanceScheduler {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	return &MaintenanceScheduler{
		runner:       runner,
		cfg:          cfg,
		auditService: auditService,
		cron:         cron.New(cron.WithParser(parser)),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start schedules maintenance unless it is disabled. Cancelling ctx stops the scheduler.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}
	if err := ValidateSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule '%s'. Next run: %v",
		s.cfg.Schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running pass to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	log.Printf("Maintenance scheduler: stopped")
}

// RunNow performs one pass synchronously.
func (s *MaintenanceScheduler) RunNow(ctx context.Context) error {
	return s.run(ctx)
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next pass is due, or nil when not running.
func (s *MaintenanceScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *MaintenanceScheduler) run(ctx context.Context) error {
	ids, err := s.runner.EnqueueMaintenance(ctx, s.cfg.CartRetention, s.cfg.AuditRetentionDays)
	if err != nil {
		log.Printf("Maintenance: %v", err)
		s.auditService.LogMaintenance("maintenance", "Maintenance run failed", err)
		return err
	}

	msg := fmt.Sprintf("Maintenance started (%d tasks)", len(ids))
	log.Printf("Maintenance: %s", msg)
	s.auditService.LogMaintenance("maintenance", msg, nil)
	return nil
}
