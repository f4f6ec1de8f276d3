package session

import (
	"path/filepath"
	"testing"

	"frontdesk/internal/events"
	"frontdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, Persistence) {
	t.Helper()
	persist, err := NewFilePersistence(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	logger := zerolog.Nop()
	store := NewStore(NewStaticVerifier(nil), persist, events.NewEventBus(), &logger)
	return store, persist
}

func TestLogin(t *testing.T) {
	t.Run("AdminCredentials", func(t *testing.T) {
		store, persist := newTestStore(t)

		ok := store.Login("admin@example.com", "admin123")
		require.True(t, ok)
		assert.True(t, store.IsAuthenticated())
		assert.Empty(t, store.Error())
		assert.False(t, store.Loading())

		user := store.CurrentUser()
		require.NotNil(t, user)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.Equal(t, "Admin User", user.Name)

		// Both entries must land in persistence
		stored, err := persist.Get(models.SessionUserKey)
		require.NoError(t, err)
		assert.Contains(t, stored, `"role":"admin"`)
		flag, err := persist.Get(models.SessionAuthKey)
		require.NoError(t, err)
		assert.Equal(t, models.SessionAuthValue, flag)
	})

	t.Run("UnknownCredentials", func(t *testing.T) {
		store, _ := newTestStore(t)

		for _, pair := range [][2]string{
			{"admin@example.com", "wrong"},
			{"nobody@example.com", "admin123"},
			{"", ""},
		} {
			ok := store.Login(pair[0], pair[1])
			assert.False(t, ok)
			assert.False(t, store.IsAuthenticated())
			assert.Equal(t, errInvalidCredentials, store.Error())
		}
	})

	t.Run("ErrorClearedOnRetry", func(t *testing.T) {
		store, _ := newTestStore(t)

		store.Login("admin@example.com", "wrong")
		require.NotEmpty(t, store.Error())

		store.Login("admin@example.com", "admin123")
		assert.Empty(t, store.Error())
	})
}

func TestLogout(t *testing.T) {
	store, persist := newTestStore(t)

	require.True(t, store.Login("recep@example.com", "recep123"))
	store.Logout()

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.CurrentUser())

	stored, err := persist.Get(models.SessionUserKey)
	require.NoError(t, err)
	assert.Empty(t, stored)
	flag, err := persist.Get(models.SessionAuthKey)
	require.NoError(t, err)
	assert.Empty(t, flag)
}

func TestCheckAuth(t *testing.T) {
	t.Run("RestoresPersistedSession", func(t *testing.T) {
		store, persist := newTestStore(t)
		require.True(t, store.Login("recep@example.com", "recep123"))

		// A fresh store sharing the same persistence picks the session up
		logger := zerolog.Nop()
		restored := NewStore(NewStaticVerifier(nil), persist, events.NewEventBus(), &logger)
		assert.False(t, restored.IsAuthenticated())

		restored.CheckAuth()
		assert.True(t, restored.IsAuthenticated())
		user := restored.CurrentUser()
		require.NotNil(t, user)
		assert.EqualValues(t, 1, user.HotelID)
	})

	t.Run("NothingPersisted", func(t *testing.T) {
		store, _ := newTestStore(t)
		store.CheckAuth()
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("MissingFlag", func(t *testing.T) {
		store, persist := newTestStore(t)
		require.NoError(t, persist.Set(models.SessionUserKey, `{"id":"1","name":"X","role":"admin"}`))

		store.CheckAuth()
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("CorruptUserRecordForcesLogout", func(t *testing.T) {
		store, persist := newTestStore(t)
		require.True(t, store.Login("admin@example.com", "admin123"))

		// Simulate storage corruption
		require.NoError(t, persist.Set(models.SessionUserKey, "{not-json"))

		store.CheckAuth()
		assert.False(t, store.IsAuthenticated())

		stored, err := persist.Get(models.SessionUserKey)
		require.NoError(t, err)
		assert.Empty(t, stored)
		flag, err := persist.Get(models.SessionAuthKey)
		require.NoError(t, err)
		assert.Empty(t, flag)
	})
}

func TestSessionEvents(t *testing.T) {
	persist, err := NewFilePersistence(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	bus := events.NewEventBus()
	var published []string
	bus.Subscribe(events.EventSessionLogin, func(e *events.Event) error {
		published = append(published, e.Type)
		return nil
	})
	bus.Subscribe(events.EventSessionLogout, func(e *events.Event) error {
		published = append(published, e.Type)
		return nil
	})

	logger := zerolog.Nop()
	store := NewStore(NewStaticVerifier(nil), persist, bus, &logger)

	store.Login("admin@example.com", "wrong")
	assert.Empty(t, published)

	require.True(t, store.Login("admin@example.com", "admin123"))
	store.Logout()
	assert.Equal(t, []string{events.EventSessionLogin, events.EventSessionLogout}, published)
}
