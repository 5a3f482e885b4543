package khatm

import (
	"context"
	"sync"
)

// Registry keeps one initialized Tracker per user.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
	factory  func() *Tracker
}

func NewRegistry(factory func() *Tracker) *Registry {
	return &Registry{trackers: make(map[string]*Tracker), factory: factory}
}

// For returns the tracker of userID, initializing it on first use.
func (r *Registry) For(ctx context.Context, userID string) (*Tracker, error) {
	if userID == "" {
		userID = GuestUserID
	}

	r.mu.Lock()
	tracker, ok := r.trackers[userID]
	r.mu.Unlock()
	if ok {
		return tracker, nil
	}

	tracker = r.factory()
	if err := tracker.Init(ctx, userID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.trackers[userID]; ok {
		return existing, nil
	}
	r.trackers[userID] = tracker
	return tracker, nil
}
