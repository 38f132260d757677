package application

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast is a short user-facing message.
type Toast struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier shows a message to the user. It is fire-and-forget.
type Notifier interface {
	Notify(message string, severity Severity)
}

// ToastQueue collects toasts to be shown on the next rendered page.
type ToastQueue struct {
	mu     sync.Mutex
	toasts []Toast
}

func (q *ToastQueue) Notify(message string, severity Severity) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, Toast{Message: message, Severity: severity})
}

// Drain returns the queued toasts and empties the queue.
func (q *ToastQueue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	toasts := q.toasts
	q.toasts = nil
	return toasts
}

// LogNotifier writes notifications to the global logger.
type LogNotifier struct{}

func (LogNotifier) Notify(message string, severity Severity) {
	log.WithLevel(severityLevel(severity)).Str("severity", string(severity)).Msg(message)
}

func severityLevel(s Severity) zerolog.Level {
	switch s {
	case SeverityWarning:
		return zerolog.WarnLevel
	case SeverityError:
		return zerolog.ErrorLevel
	case SeverityInfo, SeveritySuccess:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// Notifiers fans a notification out to each notifier in turn.
type Notifiers []Notifier

func (ns Notifiers) Notify(message string, severity Severity) {
	for _, n := range ns {
		n.Notify(message, severity)
	}
}
