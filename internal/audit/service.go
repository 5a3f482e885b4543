// Package audit records who did what: logins, logouts, checkouts and maintenance runs.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrlokans/shayfa/internal/auth"
	"github.com/mrlokans/shayfa/internal/database/audit"
	"github.com/mrlokans/shayfa/internal/entities"
)

// Service provides high-level audit logging functionality. A nil *Service
// discards everything, which is what runs when storage is unavailable.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	if s == nil {
		return nil
	}
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if s == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every LogAsync write has finished.
func (s *Service) Wait() {
	if s == nil {
		return
	}
	s.pending.Wait()
}

// OnAuthEvent records logins and logouts delivered by auth.Session.
func (s *Service) OnAuthEvent(e auth.Event) {
	switch ev := e.(type) {
	case auth.LoginEvent:
		s.LogAuth(ev.User.ID, "login", true)
	case auth.LogoutEvent:
		s.LogAuth(ev.UserID, "logout", true)
	}
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID, action string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		Status:    entities.AuditStatusSuccess,
	}
	if !success {
		event.Status = entities.AuditStatusFailed
	}
	s.LogAsync(event)
}

// LogCheckout records a checkout attempt. orderID is empty when it failed.
func (s *Service) LogCheckout(userID, cartID, orderID string, total decimal.Decimal, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventCheckout,
		Action:      "checkout",
		Description: "Checkout of cart " + cartID + " for " + total.StringFixed(2),
		EntityType:  "order",
		EntityID:    orderID,
		Status:      entities.AuditStatusSuccess,
	}
	event.Metadata = metadata(map[string]any{
		"cart_id": cartID,
		"total":   total.String(),
	})

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.EntityType = "cart"
		event.EntityID = cartID
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogProgress records a khatm progress update.
func (s *Service) LogProgress(userID, khatmID string, page, progress int) {
	event := &entities.AuditEvent{
		UserID:     userID,
		EventType:  entities.AuditEventProgress,
		Action:     "progress_update",
		EntityType: "khatm",
		EntityID:   khatmID,
		Status:     entities.AuditStatusSuccess,
		Metadata: metadata(map[string]any{
			"page":     page,
			"progress": progress,
		}),
	}
	s.LogAsync(event)
}

// LogMaintenance records a background maintenance run.
func (s *Service) LogMaintenance(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, filter audit.EventFilter) ([]entities.AuditEvent, int64, error) {
	if s == nil {
		return nil, 0, nil
	}
	return s.repo.GetEvents(ctx, filter)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	if s == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func metadata(fields map[string]any) string {
	b, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
