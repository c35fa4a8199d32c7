// Package session turns auth state changes into the navigation root the
// shell shows: the signed-out command set or the signed-in one.
package session

import (
	"sync"

	"github.com/dmitrijs2005/imgvault/internal/auth"
	"github.com/dmitrijs2005/imgvault/internal/models"
)

// Route is the navigation root selected by the gate.
type Route int

const (
	RouteSignedOut Route = iota
	RouteSignedIn
)

func (r Route) String() string {
	if r == RouteSignedIn {
		return "signed-in"
	}
	return "signed-out"
}

// RouteFor is a pure function of the session's SignedIn flag.
func RouteFor(s models.Session) Route {
	if s.SignedIn {
		return RouteSignedIn
	}
	return RouteSignedOut
}

// Gate subscribes once to the auth provider and keeps the latest Session.
type Gate struct {
	mu          sync.RWMutex
	session     models.Session
	changes     chan Route
	unsubscribe func()
}

// NewGate subscribes to p. The provider reports the current state during
// Subscribe, so the gate starts with a valid session.
func NewGate(p auth.Provider) *Gate {
	g := &Gate{changes: make(chan Route, 1)}
	g.unsubscribe = p.Subscribe(g.onAuthStateChanged)
	return g
}

func (g *Gate) onAuthStateChanged(u *models.User) {
	next := models.Session{}
	if u != nil {
		next = models.Session{SignedIn: true, UserID: u.ID}
	}

	g.mu.Lock()
	prev := g.session
	g.session = next
	g.mu.Unlock()

	if RouteFor(prev) == RouteFor(next) {
		return
	}
	// keep only the latest route; the shell reads it between commands
	select {
	case <-g.changes:
	default:
	}
	select {
	case g.changes <- RouteFor(next):
	default:
	}
}

func (g *Gate) Session() models.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

func (g *Gate) Route() Route {
	return RouteFor(g.Session())
}

// UserID returns the signed-in user's ID or "".
func (g *Gate) UserID() string {
	return g.Session().UserID
}

// Changes delivers the new route after each transition.
func (g *Gate) Changes() <-chan Route {
	return g.changes
}

// Close unsubscribes from the provider.
func (g *Gate) Close() {
	g.unsubscribe()
}
