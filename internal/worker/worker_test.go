package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/events"
	"frontdesk/internal/models"
)

type fakeSource struct {
	reservations []models.Reservation
	hotels       []models.Hotel
}

func (f *fakeSource) Reservations() []models.Reservation { return f.reservations }
func (f *fakeSource) Hotels() []models.Hotel             { return f.hotels }

type fakeWorkbook struct {
	calls atomic.Int32
	err   error
}

func (f *fakeWorkbook) Write(_ []models.Reservation, _ []models.Hotel) (string, error) {
	f.calls.Add(1)
	return "/tmp/reservations.xlsx", f.err
}

type fakeRoster struct {
	replaceCalls int
	appendCalls  int
	failFirst    bool
}

func (f *fakeRoster) ReplaceRoster(_ context.Context, _ []models.Reservation) error {
	f.replaceCalls++
	if f.failFirst && f.replaceCalls == 1 {
		return errors.New("quota exceeded")
	}
	return nil
}

func (f *fakeRoster) AppendReservation(_ context.Context, _ *models.Reservation) error {
	f.appendCalls++
	return nil
}

func newTestWorker(source RosterSource, workbook WorkbookWriter, roster RosterWriter, retry RetryPolicy) *ExportWorker {
	return NewExportWorker(source, workbook, roster, retry, zerolog.Nop())
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 5*time.Second, policy.NextDelay(4), "clamped to MaxDelay")
	assert.Equal(t, time.Second, policy.NextDelay(0), "attempt below 1 treated as 1")
}

func TestRetryPolicyDefaults(t *testing.T) {
	w := newTestWorker(&fakeSource{}, &fakeWorkbook{}, nil, RetryPolicy{})

	assert.Equal(t, 5, w.retryPolicy.MaxRetries)
	assert.Equal(t, 2*time.Second, w.retryPolicy.InitialDelay)
	assert.Equal(t, time.Minute, w.retryPolicy.MaxDelay)
	assert.Equal(t, float64(2), w.retryPolicy.BackoffFactor)

	partial := RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond}.withDefaults()
	assert.Equal(t, 2, partial.MaxRetries)
	assert.Equal(t, time.Millisecond, partial.InitialDelay)
	assert.Equal(t, time.Minute, partial.MaxDelay)
}

func TestEnqueueValidation(t *testing.T) {
	w := newTestWorker(&fakeSource{}, &fakeWorkbook{}, nil, RetryPolicy{})

	assert.Error(t, w.Enqueue(ExportTask{}))
	assert.Error(t, w.Enqueue(ExportTask{Type: TaskRosterAppend}))
	assert.NoError(t, w.Enqueue(ExportTask{Type: TaskWorkbook}))
}

func TestEnqueueFullQueue(t *testing.T) {
	w := newTestWorker(&fakeSource{}, &fakeWorkbook{}, nil, RetryPolicy{})

	for i := 0; i < cap(w.queue); i++ {
		require.NoError(t, w.Enqueue(ExportTask{Type: TaskWorkbook}))
	}
	assert.Error(t, w.Enqueue(ExportTask{Type: TaskWorkbook}))
}

func TestProcessWorkbookTask(t *testing.T) {
	source := &fakeSource{
		reservations: []models.Reservation{{ID: "7", Name: "Lena", HotelID: 1, Status: models.StatusPending}},
		hotels:       []models.Hotel{{ID: "1", Name: "Marina Bay"}},
	}
	workbook := &fakeWorkbook{}
	w := newTestWorker(source, workbook, nil, RetryPolicy{MaxRetries: 1})

	w.processTask(context.Background(), ExportTask{Type: TaskWorkbook})

	assert.Equal(t, int32(1), workbook.calls.Load())
}

func TestProcessRosterRetry(t *testing.T) {
	roster := &fakeRoster{failFirst: true}
	w := newTestWorker(&fakeSource{}, &fakeWorkbook{}, roster, RetryPolicy{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	})

	w.processTask(context.Background(), ExportTask{Type: TaskRosterReplace})

	assert.Equal(t, 2, roster.replaceCalls, "first attempt fails, second succeeds")
}

func TestProcessRosterAppend(t *testing.T) {
	roster := &fakeRoster{}
	w := newTestWorker(&fakeSource{}, &fakeWorkbook{}, roster, RetryPolicy{MaxRetries: 1})

	reservation := &models.Reservation{ID: "9", Name: "Ivan", Surname: "Petrov"}
	w.processTask(context.Background(), ExportTask{Type: TaskRosterAppend, Reservation: reservation})

	assert.Equal(t, 1, roster.appendCalls)
}

func TestRosterTaskWithoutWriter(t *testing.T) {
	w := newTestWorker(&fakeSource{}, &fakeWorkbook{}, nil, RetryPolicy{})

	err := w.handleTask(context.Background(), ExportTask{Type: TaskRosterReplace})
	assert.Error(t, err)
}

func TestUnknownTaskType(t *testing.T) {
	w := newTestWorker(&fakeSource{}, &fakeWorkbook{}, nil, RetryPolicy{})

	err := w.handleTask(context.Background(), ExportTask{Type: "bogus"})
	assert.Error(t, err)
}

func TestSubscribeSchedulesRosterReplace(t *testing.T) {
	roster := &fakeRoster{}
	w := newTestWorker(&fakeSource{}, &fakeWorkbook{}, roster, RetryPolicy{})

	bus := events.NewEventBus()
	w.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventReservationCreated, events.ReservationEventPayload{ReservationID: "5"}))

	select {
	case task := <-w.queue:
		assert.Equal(t, TaskRosterReplace, task.Type)
	default:
		t.Fatal("expected roster task in queue")
	}
}

func TestStartConsumesQueue(t *testing.T) {
	workbook := &fakeWorkbook{}
	w := newTestWorker(&fakeSource{}, workbook, nil, RetryPolicy{MaxRetries: 1})

	require.NoError(t, w.Enqueue(ExportTask{Type: TaskWorkbook}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return workbook.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
