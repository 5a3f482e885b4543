package auth

import (
	"sync"

	"github.com/mrlokans/shayfa/internal/entities"
)

// Surface is a top level area of the application a user can be sent to.
type Surface string

const (
	SurfaceApp   Surface = "app"
	SurfaceAdmin Surface = "admin"
)

// Identity is who the current session belongs to.
type Identity struct {
	ID   string            `json:"id"`
	Role entities.UserRole `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == entities.UserRoleAdmin
}

// Event is delivered to observers on login and logout.
type Event interface {
	// Identity is the session identity after the event, nil once logged out.
	Identity() *Identity
}

type LoginEvent struct {
	User entities.User
}

func (e LoginEvent) Identity() *Identity {
	return &Identity{ID: e.User.ID, Role: e.User.Role}
}

type LogoutEvent struct {
	UserID string
}

func (LogoutEvent) Identity() *Identity {
	return nil
}

// Observer receives auth events.
type Observer interface {
	OnAuthEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnAuthEvent(e Event) { f(e) }

// Redirect decides where identity belongs. Admins go to the admin surface, everyone
// else to the app. The bool is false when current is already the right place.
func Redirect(identity *Identity, current Surface) (Surface, bool) {
	target := SurfaceApp
	if identity.IsAdmin() {
		target = SurfaceAdmin
	}
	if current == target {
		return current, false
	}
	// Non-admins are only moved when they sit on the admin surface.
	if target == SurfaceApp && current != SurfaceAdmin {
		return current, false
	}
	return target, true
}

// Navigator tracks the surface the user is on and follows redirects on auth events.
type Navigator struct {
	mu        sync.Mutex
	current   Surface
	redirects []Surface
}

func NewNavigator(start Surface) *Navigator {
	return &Navigator{current: start}
}

func (n *Navigator) OnAuthEvent(e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if target, ok := Redirect(e.Identity(), n.current); ok {
		n.current = target
		n.redirects = append(n.redirects, target)
	}
}

// Current returns the surface the user is on.
func (n *Navigator) Current() Surface {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Redirects returns every redirect followed so far.
func (n *Navigator) Redirects() []Surface {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Surface(nil), n.redirects...)
}
