package guard

import (
	"sync"

	"frontdesk/internal/metrics"
	"frontdesk/internal/session"

	"github.com/rs/zerolog"
)

// Guard enforces the navigation policy: unauthenticated sessions land on
// the login page, non-admins bounce off admin pages, in that order.
type Guard struct {
	sessions *session.Store
	logger   *zerolog.Logger
}

func New(sessions *session.Store, logger *zerolog.Logger) *Guard {
	return &Guard{sessions: sessions, logger: logger}
}

// Decision is the guard's verdict for one navigation attempt.
type Decision struct {
	Allowed    bool
	RedirectTo RouteName
}

// Authorize re-synchronizes the session from persistence, then applies the
// precedence: auth check first, admin check second.
func (g *Guard) Authorize(target RouteName) Decision {
	g.sessions.CheckAuth()
	snapshot := g.sessions.Snapshot()
	route := RouteByName(target)

	if route.RequiresAuth && !snapshot.Authenticated {
		g.logger.Debug().Str("target", string(target)).Msg("guard: unauthenticated, redirecting to login")
		metrics.IncGuardRedirect(string(RouteLogin))
		return Decision{RedirectTo: RouteLogin}
	}

	if route.RequiresAdmin && !session.IsAdmin(snapshot) {
		g.logger.Debug().Str("target", string(target)).Msg("guard: admin required, redirecting home")
		metrics.IncGuardRedirect(string(RouteHome))
		return Decision{RedirectTo: RouteHome}
	}

	return Decision{Allowed: true}
}

// Router mirrors the console's client-side navigation state: a current
// route, moved by guarded navigation or forced by the error interceptor.
type Router struct {
	mu      sync.RWMutex
	current RouteName
	guard   *Guard
}

func NewRouter(g *Guard) *Router {
	return &Router{current: RouteLogin, guard: g}
}

// Navigate applies the guard and moves to the resulting route, which it
// returns.
func (r *Router) Navigate(target RouteName) RouteName {
	decision := r.guard.Authorize(target)
	next := target
	if !decision.Allowed {
		next = decision.RedirectTo
	}

	r.mu.Lock()
	r.current = next
	r.mu.Unlock()
	return next
}

// Current returns the route the console is on.
func (r *Router) Current() RouteName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
