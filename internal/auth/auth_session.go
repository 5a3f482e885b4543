package auth

import (
	"context"
	"log"
	"sync"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/token"
)

// Client is the part of the request facade a session needs.
type Client interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Logout(ctx context.Context) error
	CurrentToken(ctx context.Context) (string, error)
}

// Session holds the identity of whoever is logged in on this client.
type Session struct {
	mu        sync.RWMutex
	client    Client
	codec     token.Codec
	token     string
	identity  *Identity
	observers []Observer
}

// NewSession restores the persisted session, if any. A malformed or expired token
// simply means nobody is logged in.
func NewSession(ctx context.Context, client Client, codec token.Codec, observers ...Observer) *Session {
	s := &Session{
		client:    client,
		codec:     codec,
		observers: observers,
	}

	tok, err := client.CurrentToken(ctx)
	if err != nil {
		log.Printf("Failed to read persisted session: %v", err)
		return s
	}
	if tok == "" {
		return s
	}

	claims, err := codec.Decode(tok)
	if err != nil {
		log.Printf("Ignoring persisted session token: %v", err)
		return s
	}
	s.token = tok
	s.identity = &Identity{ID: claims.ID, Role: claims.Role}
	return s
}

// Subscribe adds an observer for subsequent events.
func (s *Session) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Login authenticates and notifies observers with a LoginEvent.
func (s *Session) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = result.Token
	s.identity = &Identity{ID: result.User.ID, Role: result.User.Role}
	s.mu.Unlock()

	s.notify(LoginEvent{User: result.User})
	return result, nil
}

// Logout clears the persisted token and notifies observers with a LogoutEvent.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	var userID string
	if s.identity != nil {
		userID = s.identity.ID
	}
	s.token = ""
	s.identity = nil
	s.mu.Unlock()

	s.notify(LogoutEvent{UserID: userID})
	return nil
}

// LogoutToken ends the session of the caller holding tok. The persisted session is
// cleared only when it holds tok, so one caller cannot sign another out. Observers
// receive a LogoutEvent for identity either way.
func (s *Session) LogoutToken(ctx context.Context, tok string, identity Identity) error {
	s.mu.Lock()
	persisted, err := s.client.CurrentToken(ctx)
	if err == nil && persisted != "" && persisted == tok {
		err = s.client.Logout(ctx)
	}
	if err == nil && s.token == tok {
		s.token = ""
		s.identity = nil
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(LogoutEvent{UserID: identity.ID})
	return nil
}

// Identity returns a copy of the current identity, or nil.
func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Token returns the current token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CheckAuth reports whether requested may be shown. Only the admin surface needs a token.
func (s *Session) CheckAuth(requested Surface) bool {
	return s.Token() != "" || requested != SurfaceAdmin
}

func (s *Session) notify(e Event) {
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()

	for _, o := range observers {
		o.OnAuthEvent(e)
	}
}
