// Package worker runs export jobs off the request path. Workbook
// snapshots and Sheets roster updates can be slow and flaky, so they
// are queued and retried here instead of blocking console handlers.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"frontdesk/internal/events"
	"frontdesk/internal/models"
)

const (
	TaskWorkbook      = "workbook"
	TaskRosterReplace = "roster_replace"
	TaskRosterAppend  = "roster_append"
)

// ExportTask is one unit of export work.
type ExportTask struct {
	Type        string
	Reservation *models.Reservation
	CreatedAt   time.Time
}

// RosterSource supplies the reservation collection and hotel directory
// the exports are built from.
type RosterSource interface {
	Reservations() []models.Reservation
	Hotels() []models.Hotel
}

// WorkbookWriter produces a local xlsx snapshot and returns its path.
type WorkbookWriter interface {
	Write(reservations []models.Reservation, hotels []models.Hotel) (string, error)
}

// RosterWriter mirrors reservations into an external roster.
type RosterWriter interface {
	ReplaceRoster(ctx context.Context, reservations []models.Reservation) error
	AppendReservation(ctx context.Context, r *models.Reservation) error
}

// ExportWorker consumes export tasks from an in-memory queue.
type ExportWorker struct {
	source      RosterSource
	workbook    WorkbookWriter
	roster      RosterWriter
	retryPolicy RetryPolicy
	queue       chan ExportTask
	logger      zerolog.Logger
}

// NewExportWorker builds a worker with sane defaults. roster may be nil
// when the Sheets integration is not configured.
func NewExportWorker(source RosterSource, workbook WorkbookWriter, roster RosterWriter, retry RetryPolicy, logger zerolog.Logger) *ExportWorker {
	return &ExportWorker{
		source:      source,
		workbook:    workbook,
		roster:      roster,
		retryPolicy: retry.withDefaults(),
		queue:       make(chan ExportTask, 128),
		logger:      logger.With().Str("component", "export_worker").Logger(),
	}
}

// Enqueue schedules a task; returns an error when the queue is full so
// the caller can surface backpressure instead of blocking.
func (w *ExportWorker) Enqueue(task ExportTask) error {
	if task.Type == "" {
		return errors.New("task type is required")
	}
	if task.Type == TaskRosterAppend && task.Reservation == nil {
		return errors.New("reservation payload is required")
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	select {
	case w.queue <- task:
		return nil
	default:
		return errors.New("export queue is full")
	}
}

// Subscribe enqueues roster updates when reservations change. The bus
// delivery is best-effort; a full queue is logged and skipped because
// the next full export rewrites the roster anyway.
func (w *ExportWorker) Subscribe(bus *events.EventBus) {
	if w.roster == nil {
		return
	}
	for _, eventType := range []string{
		events.EventReservationCreated,
		events.EventReservationUpdated,
		events.EventReservationDeleted,
		events.EventReservationStatusChanged,
	} {
		bus.Subscribe(eventType, func(_ *events.Event) error {
			if err := w.Enqueue(ExportTask{Type: TaskRosterReplace}); err != nil {
				w.logger.Warn().Err(err).Msg("roster update not scheduled")
			}
			return nil
		})
	}
}

// Start launches the main loop; stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("started")
	defer w.logger.Info().Msg("stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.processTask(ctx, task)
		}
	}
}

func (w *ExportWorker) processTask(ctx context.Context, task ExportTask) {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		lastErr = w.handleTask(ctx, task)
		if lastErr == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().
			Err(lastErr).
			Str("task", task.Type).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("export task failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	w.logger.Error().Err(lastErr).Str("task", task.Type).Msg("export task abandoned")
}

func (w *ExportWorker) handleTask(ctx context.Context, task ExportTask) error {
	switch task.Type {
	case TaskWorkbook:
		path, err := w.workbook.Write(w.source.Reservations(), w.source.Hotels())
		if err != nil {
			return err
		}
		w.logger.Info().Str("path", path).Msg("workbook written")
		return nil
	case TaskRosterReplace:
		if w.roster == nil {
			return errors.New("roster writer is not configured")
		}
		return w.roster.ReplaceRoster(ctx, w.source.Reservations())
	case TaskRosterAppend:
		if w.roster == nil {
			return errors.New("roster writer is not configured")
		}
		return w.roster.AppendReservation(ctx, task.Reservation)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type)
	}
}
