package store

import (
	"context"
	"sync"

	"frontdesk/internal/models"

	"github.com/rs/zerolog"
)

// HotelAPI is the slice of the resource client the hotel store drives.
// Hotels are read-mostly; there is no mutation surface.
type HotelAPI interface {
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	GetHotel(ctx context.Context, id string) (*models.Hotel, error)
}

type HotelStore struct {
	mu      sync.RWMutex
	hotels  []models.Hotel
	current *models.Hotel
	loading bool
	lastErr string

	client HotelAPI
	logger *zerolog.Logger
}

func NewHotelStore(client HotelAPI, logger *zerolog.Logger) *HotelStore {
	return &HotelStore{client: client, logger: logger}
}

// Fetch replaces the cached hotel collection. Failures are swallowed,
// matching the reservation list fetch.
func (s *HotelStore) Fetch(ctx context.Context) {
	s.begin()
	defer s.finish()

	hotels, err := s.client.ListHotels(ctx)
	if err != nil {
		s.setError("failed to load hotels")
		s.logger.Error().Err(err).Msg("fetch hotels failed")
		return
	}

	s.mu.Lock()
	s.hotels = hotels
	s.mu.Unlock()
}

// FetchOne loads one hotel, upserting it into the collection; the failure
// propagates to the caller.
func (s *HotelStore) FetchOne(ctx context.Context, id string) (*models.Hotel, error) {
	s.begin()
	defer s.finish()

	hotel, err := s.client.GetHotel(ctx, id)
	if err != nil {
		s.setError("failed to load hotel details")
		s.logger.Error().Err(err).Str("hotel_id", id).Msg("fetch hotel failed")
		return nil, err
	}

	s.mu.Lock()
	s.current = hotel
	found := false
	for i := range s.hotels {
		if s.hotels[i].ID == hotel.ID {
			s.hotels[i] = *hotel
			found = true
			break
		}
	}
	if !found {
		s.hotels = append(s.hotels, *hotel)
	}
	s.mu.Unlock()
	return hotel, nil
}

// Hotels returns a copy of the cached collection.
func (s *HotelStore) Hotels() []models.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Hotel, len(s.hotels))
	copy(out, s.hotels)
	return out
}

func (s *HotelStore) ByID(id string) (models.Hotel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.hotels {
		if h.ID == id {
			return h, true
		}
	}
	return models.Hotel{}, false
}

func (s *HotelStore) Current() *models.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	h := *s.current
	return &h
}

func (s *HotelStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *HotelStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *HotelStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *HotelStore) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *HotelStore) setError(message string) {
	s.mu.Lock()
	s.lastErr = message
	s.mu.Unlock()
}
