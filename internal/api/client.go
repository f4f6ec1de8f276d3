package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"frontdesk/internal/config"
	"frontdesk/internal/httperr"
	"frontdesk/internal/metrics"
	"frontdesk/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrorHook sees every failed request before it returns to the caller.
// It must re-raise: the returned error is handed to the caller as-is.
type ErrorHook interface {
	Intercept(ctx context.Context, err error) error
}

// Client is the typed HTTP accessor for the remote reservations API.
type Client struct {
	baseURL    string
	apiKey     string
	apiExtra   string
	httpClient *http.Client
	limiter    *rate.Limiter
	hook       ErrorHook
	logger     *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// ReservationDraft is the client-supplied part of a reservation; the
// backend assigns the identifier and creation timestamp.
type ReservationDraft struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalFee  string `json:"total_fee"`
	Status    int64  `json:"status"`
	HotelID   int64  `json:"hotel_id"`
}

// NewClient constructs a client for the configured backend.
func NewClient(cfg config.BackendConfig, hook ErrorHook, logger *zerolog.Logger) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		apiExtra:   cfg.APIExtra,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		hook:       hook,
		logger:     logger,
	}
	if cfg.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	}
	return c
}

// UseRedisCache configures optional Redis caching for hotel GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// ListReservations returns the reservation collection matching params and
// its total count.
func (c *Client) ListReservations(ctx context.Context, params *Params) ([]models.Reservation, int, error) {
	endpoint := fmt.Sprintf("%s/reservations", c.baseURL)
	if query := params.Values().Encode(); query != "" {
		endpoint += "?" + query
	}

	var reservations []models.Reservation
	if err := c.doJSON(ctx, http.MethodGet, "reservations", endpoint, nil, &reservations); err != nil {
		return nil, 0, err
	}
	return reservations, len(reservations), nil
}

// GetReservation fetches a single reservation by identifier.
func (c *Client) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	endpoint := fmt.Sprintf("%s/reservations/%s", c.baseURL, url.PathEscape(id))
	var reservation models.Reservation
	if err := c.doJSON(ctx, http.MethodGet, "reservations", endpoint, nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CreateReservation posts a draft; the returned reservation carries the
// server-assigned identifier and timestamp.
func (c *Client) CreateReservation(ctx context.Context, draft *ReservationDraft) (*models.Reservation, error) {
	endpoint := fmt.Sprintf("%s/reservations", c.baseURL)
	var created models.Reservation
	if err := c.doJSON(ctx, http.MethodPost, "reservations", endpoint, draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateReservation sends a full or partial field replacement and returns
// the server's resulting object.
func (c *Client) UpdateReservation(ctx context.Context, id string, patch map[string]any) (*models.Reservation, error) {
	endpoint := fmt.Sprintf("%s/reservations/%s", c.baseURL, url.PathEscape(id))
	var updated models.Reservation
	if err := c.doJSON(ctx, http.MethodPut, "reservations", endpoint, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteReservation removes a reservation by identifier.
func (c *Client) DeleteReservation(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/reservations/%s", c.baseURL, url.PathEscape(id))
	return c.doJSON(ctx, http.MethodDelete, "reservations", endpoint, nil, nil)
}

// ListHotels returns all hotels, served from the Redis cache when warm.
func (c *Client) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	var hotels []models.Hotel
	if c.readCache(ctx, "hotels", &hotels) {
		return hotels, nil
	}

	endpoint := fmt.Sprintf("%s/hotels", c.baseURL)
	if err := c.doJSON(ctx, http.MethodGet, "hotels", endpoint, nil, &hotels); err != nil {
		return nil, err
	}
	c.writeCache(ctx, "hotels", hotels)
	return hotels, nil
}

// GetHotel fetches a single hotel by identifier.
func (c *Client) GetHotel(ctx context.Context, id string) (*models.Hotel, error) {
	cacheKey := fmt.Sprintf("hotel:%s", id)
	var hotel models.Hotel
	if c.readCache(ctx, cacheKey, &hotel) {
		return &hotel, nil
	}

	endpoint := fmt.Sprintf("%s/hotels/%s", c.baseURL, url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodGet, "hotels", endpoint, nil, &hotel); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, hotel)
	return &hotel, nil
}

// Statuses returns the static status table. No request leaves the client.
func (c *Client) Statuses() []models.Status {
	return models.Statuses()
}

func (c *Client) doJSON(ctx context.Context, method, resource, endpoint string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.fail(ctx, resource, err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.addHeaders(req)

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	metrics.IncBackendRequest(resource, method)
	start := time.Now()
	c.logger.Debug().Str("request_id", requestID).Str("method", method).Str("endpoint", endpoint).Msg("backend request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Str("request_id", requestID).Err(err).Msg("backend request failed")
		return c.fail(ctx, resource, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend response")

	if resp.StatusCode >= 400 {
		return c.fail(ctx, resource, httperr.NewStatusError(resp.StatusCode, readErrorMessage(resp.Body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(ctx, resource, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// fail routes the error through the interceptor and re-raises whatever it
// returns. The interceptor never resolves the request.
func (c *Client) fail(ctx context.Context, resource string, err error) error {
	metrics.IncBackendError(httperr.Classify(err).String())
	if c.hook != nil {
		return c.hook.Intercept(ctx, err)
	}
	return err
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if c.apiExtra != "" {
		req.Header.Set("x-api-extra", c.apiExtra)
	}
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

// readErrorMessage extracts the backend's error message, if any.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var wrapped struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if wrapped.Error != "" {
			return wrapped.Error
		}
		if wrapped.Message != "" {
			return wrapped.Message
		}
	}
	return ""
}
