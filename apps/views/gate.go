package views

import (
	"context"
	"sync"

	"github.com/Mohan-b-dev/std-dash/core/session"
)

const (
	msgMustLogin    = "Please log in to continue."
	msgAdminOnly    = "Admin access required."
	msgUnauthorized = "Unauthorized access. Admin credentials required."
)

// Gate keeps a view behind a session: unauthenticated (or, for admin views, non-admin)
// callers are sent to the login page; otherwise the view's load step runs.
type Gate struct {
	store        session.Store
	page         *Page
	requireAdmin bool
	mustLoginMsg string
	onPass       func(s session.Session)

	mu         sync.Mutex
	unsub      session.Unsubscribe
	signingOut bool
}

func newGate(store session.Store, page *Page, requireAdmin bool, onPass func(s session.Session)) *Gate {
	msg := msgMustLogin
	if requireAdmin {
		msg = msgAdminOnly
	}
	return &Gate{
		store:        store,
		page:         page,
		requireAdmin: requireAdmin,
		mustLoginMsg: msg,
		onPass:       onPass,
	}
}

// Activate subscribes to session changes; the current session is checked right away.
func (g *Gate) Activate() {
	g.mu.Lock()
	if g.unsub != nil {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	unsub := g.store.OnSessionChange(g.check)

	g.mu.Lock()
	g.unsub = unsub
	g.mu.Unlock()
}

// Deactivate releases the subscription. Safe to call more than once.
func (g *Gate) Deactivate() {
	g.mu.Lock()
	unsub := g.unsub
	g.unsub = nil
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// SignOut signs the session out without the gate reporting the resulting empty session.
func (g *Gate) SignOut(ctx context.Context) error {
	g.setSigningOut(true)
	defer g.setSigningOut(false)
	return g.store.SignOut(ctx)
}

func (g *Gate) setSigningOut(v bool) {
	g.mu.Lock()
	g.signingOut = v
	g.mu.Unlock()
}

func (g *Gate) check(s *session.Session) {
	if s == nil {
		g.mu.Lock()
		quiet := g.signingOut
		g.mu.Unlock()
		if !quiet {
			g.page.Notify(LevelError, g.mustLoginMsg)
			g.page.Navigate(RouteLogin, 0)
		}
		return
	}
	if g.requireAdmin && !s.IsAdmin() {
		g.page.Notify(LevelError, msgUnauthorized)
		g.page.Navigate(RouteLogin, 0)
		return
	}
	g.onPass(*s)
}
