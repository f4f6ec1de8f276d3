// Package interceptor is the single choke point for failed backend calls:
// it classifies the failure, shows the matching notification, applies the
// session and navigation side effects, and re-raises the original error.
package interceptor

import (
	"context"

	"frontdesk/internal/guard"
	"frontdesk/internal/httperr"
	"frontdesk/internal/notify"
	"frontdesk/internal/session"

	"github.com/rs/zerolog"
)

// User-facing notification texts by error kind.
var messages = map[httperr.Kind]string{
	httperr.KindUnauthorized: "Your session has expired. Please sign in again.",
	httperr.KindForbidden:    "You do not have permission to perform this action.",
	httperr.KindNotFound:     "The requested record was not found.",
	httperr.KindServer:       "The reservation service reported an error. Please try again later.",
	httperr.KindNetwork:      "Cannot reach the reservation service. Check your connection.",
}

const defaultMessage = "An unexpected error occurred."

type Interceptor struct {
	notifier notify.Notifier
	sessions *session.Store
	router   *guard.Router
	logger   *zerolog.Logger
}

func New(notifier notify.Notifier, sessions *session.Store, router *guard.Router, logger *zerolog.Logger) *Interceptor {
	return &Interceptor{
		notifier: notifier,
		sessions: sessions,
		router:   router,
		logger:   logger,
	}
}

// Intercept dispatches the side effects for a failed call and returns the
// error unchanged so the caller's own failure handling still runs.
func (i *Interceptor) Intercept(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	kind := httperr.Classify(err)
	i.logger.Warn().Err(err).Str("kind", kind.String()).Msg("backend call failed")

	switch kind {
	case httperr.KindUnauthorized:
		i.notifier.Notify(ctx, notify.SeverityError, messages[kind])
		i.sessions.Logout()
		i.router.Navigate(guard.RouteLogin)
	case httperr.KindForbidden:
		i.notifier.Notify(ctx, notify.SeverityError, messages[kind])
		i.router.Navigate(guard.RouteHome)
	case httperr.KindNotFound, httperr.KindServer, httperr.KindNetwork:
		i.notifier.Notify(ctx, notify.SeverityError, messages[kind])
	default:
		message := err.Error()
		if message == "" {
			message = defaultMessage
		}
		i.notifier.Notify(ctx, notify.SeverityError, message)
	}

	return err
}
