package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventReservationCreated       = "reservation_created"
	EventReservationUpdated       = "reservation_updated"
	EventReservationDeleted       = "reservation_deleted"
	EventReservationStatusChanged = "reservation_status_changed"
	EventSessionLogin             = "session_login"
	EventSessionLogout            = "session_logout"
)

// ReservationEventPayload is the minimal reservation snapshot for consumers.
type ReservationEventPayload struct {
	ReservationID string `json:"reservation_id"`
	HotelID       int64  `json:"hotel_id"`
	GuestName     string `json:"guest_name"`
	Status        int64  `json:"status"`
	Actor         string `json:"actor,omitempty"`
}

// SessionEventPayload describes a login or logout.
type SessionEventPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for console events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
