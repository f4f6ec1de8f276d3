package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogNotifier(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)
	n := NewLogNotifier(&logger)

	n.Notify(context.Background(), SeverityError, "session expired")

	out := buf.String()
	assert.Contains(t, out, "session expired")
	assert.Contains(t, out, `"notification":"error"`)
	assert.Contains(t, out, `"level":"error"`)
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestTelegramNotifier(t *testing.T) {
	logger := zerolog.Nop()
	sender := &fakeSender{}
	n := NewTelegramNotifier(sender, 42, &logger)

	n.Notify(context.Background(), SeverityError, "backend unreachable")

	assert.Len(t, sender.sent, 1)
	assert.EqualValues(t, 42, sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "backend unreachable")
}

func TestTelegramNotifierSendFailure(t *testing.T) {
	logger := zerolog.Nop()
	sender := &fakeSender{err: errors.New("telegram down")}
	n := NewTelegramNotifier(sender, 1, &logger)

	// Delivery failure must not panic or propagate
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), SeverityInfo, "hello")
	})
}

func TestMultiNotifier(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)
	sender := &fakeSender{}
	tgLogger := zerolog.Nop()

	multi := MultiNotifier{
		NewLogNotifier(&logger),
		NewTelegramNotifier(sender, 7, &tgLogger),
	}
	multi.Notify(context.Background(), SeverityWarning, "fan out")

	assert.Contains(t, buf.String(), "fan out")
	assert.Len(t, sender.sent, 1)
}
