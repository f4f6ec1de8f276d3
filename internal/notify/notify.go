package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Severity mirrors the toast levels the console shows to staff.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier delivers a user-facing notification. Implementations must not
// block the calling operation on delivery failure.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// LogNotifier writes notifications to the structured log. It is the
// default sink when no external channel is configured.
type LogNotifier struct {
	logger *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, severity Severity, message string) {
	event := n.logger.Info()
	switch severity {
	case SeverityWarning:
		event = n.logger.Warn()
	case SeverityError:
		event = n.logger.Error()
	}
	event.Str("notification", string(severity)).Msg(message)
}

// MultiNotifier fans a notification out to several sinks.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, severity Severity, message string) {
	for _, n := range m {
		n.Notify(ctx, severity, message)
	}
}
