package guard

import (
	"path/filepath"
	"testing"

	"frontdesk/internal/events"
	"frontdesk/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionStore(t *testing.T) *session.Store {
	t.Helper()
	persist, err := session.NewFilePersistence(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	logger := zerolog.Nop()
	return session.NewStore(session.NewStaticVerifier(nil), persist, events.NewEventBus(), &logger)
}

func TestAuthorize(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("UnauthenticatedRedirectsToLogin", func(t *testing.T) {
		g := New(newSessionStore(t), &logger)

		for _, target := range []RouteName{RouteHome, RouteReservationList, RouteReservationCreate, RouteHotelList} {
			decision := g.Authorize(target)
			assert.False(t, decision.Allowed, "route %s", target)
			assert.Equal(t, RouteLogin, decision.RedirectTo, "route %s", target)
		}
	})

	t.Run("PublicRoutesAlwaysAllowed", func(t *testing.T) {
		g := New(newSessionStore(t), &logger)

		for _, target := range []RouteName{RouteLogin, RouteNotFound} {
			decision := g.Authorize(target)
			assert.True(t, decision.Allowed, "route %s", target)
		}
	})

	t.Run("ReceptionistBouncesOffAdminRoutes", func(t *testing.T) {
		sessions := newSessionStore(t)
		require.True(t, sessions.Login("recep@example.com", "recep123"))
		g := New(sessions, &logger)

		decision := g.Authorize(RouteReservationCreate)
		assert.False(t, decision.Allowed)
		assert.Equal(t, RouteHome, decision.RedirectTo)

		decision = g.Authorize(RouteHotelList)
		assert.Equal(t, RouteHome, decision.RedirectTo)

		// Non-admin routes still pass
		assert.True(t, g.Authorize(RouteReservationList).Allowed)
		assert.True(t, g.Authorize(RouteReservationEdit).Allowed)
	})

	t.Run("AdminProceedsEverywhere", func(t *testing.T) {
		sessions := newSessionStore(t)
		require.True(t, sessions.Login("admin@example.com", "admin123"))
		g := New(sessions, &logger)

		for _, target := range []RouteName{RouteHome, RouteReservationCreate, RouteHotelList} {
			assert.True(t, g.Authorize(target).Allowed, "route %s", target)
		}
	})

	t.Run("AuthPrecedesAdminCheck", func(t *testing.T) {
		// Unauthenticated navigation to an admin page goes to login, not home
		g := New(newSessionStore(t), &logger)
		decision := g.Authorize(RouteHotelList)
		assert.Equal(t, RouteLogin, decision.RedirectTo)
	})

	t.Run("ResyncsFromPersistenceBeforeDeciding", func(t *testing.T) {
		persist, err := session.NewFilePersistence(filepath.Join(t.TempDir(), "session.json"))
		require.NoError(t, err)
		logger := zerolog.Nop()
		bus := events.NewEventBus()

		first := session.NewStore(session.NewStaticVerifier(nil), persist, bus, &logger)
		require.True(t, first.Login("admin@example.com", "admin123"))

		// A second store over the same persistence starts cold; the guard's
		// CheckAuth restores it per navigation
		second := session.NewStore(session.NewStaticVerifier(nil), persist, bus, &logger)
		g := New(second, &logger)
		assert.True(t, g.Authorize(RouteHotelList).Allowed)
	})
}

func TestRouter(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("GuardedNavigation", func(t *testing.T) {
		sessions := newSessionStore(t)
		router := NewRouter(New(sessions, &logger))

		assert.Equal(t, RouteLogin, router.Navigate(RouteReservationList))
		assert.Equal(t, RouteLogin, router.Current())

		require.True(t, sessions.Login("recep@example.com", "recep123"))
		assert.Equal(t, RouteReservationList, router.Navigate(RouteReservationList))
		assert.Equal(t, RouteHome, router.Navigate(RouteReservationCreate))
	})
}

func TestRouteByName(t *testing.T) {
	assert.Equal(t, RouteHome, RouteByName(RouteHome).Name)
	assert.True(t, RouteByName(RouteHotelList).RequiresAdmin)
	assert.False(t, RouteByName(RouteLogin).RequiresAuth)
	assert.Equal(t, RouteNotFound, RouteByName("Bogus").Name)
}
