// Package store holds the console-side caches of server resources. Each
// store mirrors the last server-acknowledged state: list fetches replace
// the collection wholesale, mutations adjust it to exactly what the
// backend returned.
package store

import (
	"context"
	"sync"

	"frontdesk/internal/api"
	"frontdesk/internal/events"
	"frontdesk/internal/models"

	"github.com/rs/zerolog"
)

// ReservationAPI is the slice of the resource client the store drives.
type ReservationAPI interface {
	ListReservations(ctx context.Context, params *api.Params) ([]models.Reservation, int, error)
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	CreateReservation(ctx context.Context, draft *api.ReservationDraft) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, id string, patch map[string]any) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

type ReservationStore struct {
	mu           sync.RWMutex
	reservations []models.Reservation
	current      *models.Reservation
	totalCount   int
	loading      bool
	lastErr      string

	client ReservationAPI
	bus    *events.EventBus
	logger *zerolog.Logger
}

func NewReservationStore(client ReservationAPI, bus *events.EventBus, logger *zerolog.Logger) *ReservationStore {
	return &ReservationStore{client: client, bus: bus, logger: logger}
}

// Fetch replaces the cached collection with the server's result. A failure
// is swallowed: the previous cache stays untouched and only the error
// message records that the refresh did not happen.
func (s *ReservationStore) Fetch(ctx context.Context, params *api.Params) {
	s.begin()
	defer s.finish()

	reservations, total, err := s.client.ListReservations(ctx, params)
	if err != nil {
		s.setError("failed to load reservations")
		s.logger.Error().Err(err).Msg("fetch reservations failed")
		return
	}

	s.mu.Lock()
	s.reservations = reservations
	s.totalCount = total
	s.mu.Unlock()
}

// FetchOne loads a single reservation into the current slot and upserts it
// into the collection. Unlike Fetch, the failure propagates.
func (s *ReservationStore) FetchOne(ctx context.Context, id string) (*models.Reservation, error) {
	s.begin()
	defer s.finish()

	reservation, err := s.client.GetReservation(ctx, id)
	if err != nil {
		s.setError("failed to load reservation details")
		s.logger.Error().Err(err).Str("reservation_id", id).Msg("fetch reservation failed")
		return nil, err
	}

	s.mu.Lock()
	s.current = reservation
	s.upsertLocked(*reservation)
	s.mu.Unlock()
	return reservation, nil
}

// Create submits a draft and appends the server-acknowledged reservation,
// identifier and timestamp included, to the cache.
func (s *ReservationStore) Create(ctx context.Context, draft *api.ReservationDraft) (*models.Reservation, error) {
	s.begin()
	defer s.finish()

	created, err := s.client.CreateReservation(ctx, draft)
	if err != nil {
		s.setError("failed to create reservation")
		s.logger.Error().Err(err).Msg("create reservation failed")
		return nil, err
	}

	s.mu.Lock()
	s.reservations = append(s.reservations, *created)
	s.totalCount++
	s.mu.Unlock()

	_ = s.bus.PublishJSON(events.EventReservationCreated, payloadFor(created))
	return created, nil
}

// Update replaces the cached reservation with the server's resulting
// object.
func (s *ReservationStore) Update(ctx context.Context, id string, patch map[string]any) (*models.Reservation, error) {
	return s.update(ctx, id, patch, events.EventReservationUpdated)
}

// UpdateStatus moves a reservation to one of the three known codes.
func (s *ReservationStore) UpdateStatus(ctx context.Context, id string, status int64) (*models.Reservation, error) {
	return s.update(ctx, id, map[string]any{"status": status}, events.EventReservationStatusChanged)
}

// update is the shared mutation path; each caller announces the change
// as exactly one event.
func (s *ReservationStore) update(ctx context.Context, id string, patch map[string]any, eventType string) (*models.Reservation, error) {
	s.begin()
	defer s.finish()

	updated, err := s.client.UpdateReservation(ctx, id, patch)
	if err != nil {
		s.setError("failed to update reservation")
		s.logger.Error().Err(err).Str("reservation_id", id).Msg("update reservation failed")
		return nil, err
	}

	s.mu.Lock()
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			s.reservations[i] = *updated
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = updated
	}
	s.mu.Unlock()

	_ = s.bus.PublishJSON(eventType, payloadFor(updated))
	return updated, nil
}

// Delete removes the reservation from the backend and then from the cache.
func (s *ReservationStore) Delete(ctx context.Context, id string) error {
	s.begin()
	defer s.finish()

	var removed *models.Reservation
	s.mu.RLock()
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			r := s.reservations[i]
			removed = &r
			break
		}
	}
	s.mu.RUnlock()

	if err := s.client.DeleteReservation(ctx, id); err != nil {
		s.setError("failed to delete reservation")
		s.logger.Error().Err(err).Str("reservation_id", id).Msg("delete reservation failed")
		return err
	}

	s.mu.Lock()
	kept := s.reservations[:0]
	for _, r := range s.reservations {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.reservations = kept
	if s.totalCount > 0 {
		s.totalCount--
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	if removed != nil {
		_ = s.bus.PublishJSON(events.EventReservationDeleted, payloadFor(removed))
	}
	return nil
}

// Reservations returns a copy of the cached collection.
func (s *ReservationStore) Reservations() []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

// ByID looks a reservation up in the cache without touching the backend.
func (s *ReservationStore) ByID(id string) (models.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reservations {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reservation{}, false
}

func (s *ReservationStore) Current() *models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	r := *s.current
	return &r
}

func (s *ReservationStore) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalCount
}

func (s *ReservationStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last operation failure message, "" when none.
func (s *ReservationStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *ReservationStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *ReservationStore) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *ReservationStore) setError(message string) {
	s.mu.Lock()
	s.lastErr = message
	s.mu.Unlock()
}

// upsertLocked replaces a reservation in place or appends it. Callers hold
// the write lock.
func (s *ReservationStore) upsertLocked(reservation models.Reservation) {
	for i := range s.reservations {
		if s.reservations[i].ID == reservation.ID {
			s.reservations[i] = reservation
			return
		}
	}
	s.reservations = append(s.reservations, reservation)
}

func payloadFor(r *models.Reservation) events.ReservationEventPayload {
	return events.ReservationEventPayload{
		ReservationID: r.ID,
		HotelID:       r.HotelID,
		GuestName:     r.GuestName(),
		Status:        r.Status,
	}
}
