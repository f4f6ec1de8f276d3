package session

import (
	"encoding/json"
	"sync"

	"frontdesk/internal/events"
	"frontdesk/internal/metrics"
	"frontdesk/internal/models"

	"github.com/rs/zerolog"
)

const errInvalidCredentials = "invalid email or password"

// Store holds the current staff identity and authentication flag. The
// in-memory state is a cache of what Persistence holds; CheckAuth
// re-synchronizes it before every navigation.
type Store struct {
	mu            sync.RWMutex
	currentUser   *models.User
	authenticated bool
	loading       bool
	lastErr       string

	verifier CredentialVerifier
	persist  Persistence
	bus      *events.EventBus
	logger   *zerolog.Logger
}

func NewStore(verifier CredentialVerifier, persist Persistence, bus *events.EventBus, logger *zerolog.Logger) *Store {
	return &Store{
		verifier: verifier,
		persist:  persist,
		bus:      bus,
		logger:   logger,
	}
}

// Login verifies the credential pair and, on match, stores the identity in
// memory and in persistence. It reports failure through the error message,
// never through an error value.
func (s *Store) Login(email, password string) bool {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	user, ok := s.verifier.Verify(email, password)
	if !ok {
		s.mu.Lock()
		s.lastErr = errInvalidCredentials
		s.mu.Unlock()
		metrics.IncLogin("failure")
		return false
	}

	s.mu.Lock()
	s.currentUser = user
	s.authenticated = true
	s.mu.Unlock()

	if data, err := json.Marshal(user); err == nil {
		if err := s.persist.Set(models.SessionUserKey, string(data)); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist session user")
		}
		if err := s.persist.Set(models.SessionAuthKey, models.SessionAuthValue); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist session flag")
		}
	}

	metrics.IncLogin("success")
	_ = s.bus.PublishJSON(events.EventSessionLogin, events.SessionEventPayload{
		UserID: user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
	})

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("staff logged in")
	return true
}

// Logout clears the in-memory session and erases both persisted entries.
func (s *Store) Logout() {
	s.mu.Lock()
	user := s.currentUser
	s.currentUser = nil
	s.authenticated = false
	s.mu.Unlock()

	if err := s.persist.Delete(models.SessionUserKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear session user")
	}
	if err := s.persist.Delete(models.SessionAuthKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear session flag")
	}

	if user != nil {
		_ = s.bus.PublishJSON(events.EventSessionLogout, events.SessionEventPayload{
			UserID: user.ID,
			Name:   user.Name,
			Role:   string(user.Role),
		})
	}
}

// CheckAuth restores the session from persistence when both entries are
// present. A record that no longer parses forces a logout so the store
// never carries inconsistent state.
func (s *Store) CheckAuth() {
	storedUser, err := s.persist.Get(models.SessionUserKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read persisted session")
		return
	}
	storedAuth, err := s.persist.Get(models.SessionAuthKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read persisted session flag")
		return
	}

	if storedUser == "" || storedAuth != models.SessionAuthValue {
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(storedUser), &user); err != nil {
		s.logger.Error().Err(err).Msg("persisted session user is corrupt, logging out")
		s.Logout()
		return
	}

	s.mu.Lock()
	s.currentUser = &user
	s.authenticated = true
	s.mu.Unlock()
}

// Snapshot returns the state capability predicates operate on.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var user *models.User
	if s.currentUser != nil {
		u := *s.currentUser
		user = &u
	}
	return Session{User: user, Authenticated: s.authenticated}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last login failure message, "" when none.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
