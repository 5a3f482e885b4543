package cart

import (
	"context"
	"sync"
)

// Registry keeps one initialized Engine per user for multi-user front ends.
type Registry struct {
	mu      sync.Mutex
	engines map[string]*Engine
	factory func() *Engine
}

// NewRegistry creates a registry building engines with factory.
func NewRegistry(factory func() *Engine) *Registry {
	return &Registry{engines: make(map[string]*Engine), factory: factory}
}

// For returns the engine of userID, initializing it on first use. A cached engine
// left holding a converted cart is initialized again to pick up an open one.
func (r *Registry) For(ctx context.Context, userID string) (*Engine, error) {
	if userID == "" {
		userID = GuestUserID
	}

	r.mu.Lock()
	engine, ok := r.engines[userID]
	r.mu.Unlock()
	if ok {
		if !engine.isOpen() {
			if err := engine.Init(ctx, userID); err != nil {
				return nil, err
			}
		}
		return engine, nil
	}

	engine = r.factory()
	if err := engine.Init(ctx, userID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.engines[userID]; ok {
		return existing, nil
	}
	r.engines[userID] = engine
	return engine, nil
}

// Forget drops the cached engine of userID so the next For reloads it from storage.
func (r *Registry) Forget(userID string) {
	r.mu.Lock()
	delete(r.engines, userID)
	r.mu.Unlock()
}
