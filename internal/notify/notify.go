// Package notify delivers prompts, warnings and reminders to players.
package notify

//go:generate mockgen -destination=mock/mock_notifier.go -package=mocknotify -source=notify.go

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Kind classifies a notice
type Kind string

const (
	KindInfo     Kind = "info"
	KindPrompt   Kind = "prompt"
	KindWarning  Kind = "warning"
	KindReminder Kind = "reminder"
)

// Notice is a message for a player or the table
type Notice struct {
	Kind  Kind
	Title string
	Body  string
	// UserID is the player the notice is for; empty means the whole table
	UserID string
}

// Notifier delivers notices
type Notifier interface {
	Notify(ctx context.Context, notice *Notice) error
}

// LogNotifier writes notices to a logger
type LogNotifier struct {
	log logrus.FieldLogger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogNotifier{log: log.WithField("component", "notify")}
}

// Notify logs the notice. Warnings log at warn level.
func (n *LogNotifier) Notify(_ context.Context, notice *Notice) error {
	if notice == nil {
		return errors.New("notice is required")
	}
	entry := n.log.WithFields(logrus.Fields{
		"kind":    notice.Kind,
		"title":   notice.Title,
		"user_id": notice.UserID,
	})
	if notice.Kind == KindWarning {
		entry.Warn(notice.Body)
	} else {
		entry.Info(notice.Body)
	}
	return nil
}

// Multi fans a notice out to several notifiers
type Multi []Notifier

// Notify sends to every notifier and joins their errors
func (m Multi) Notify(ctx context.Context, notice *Notice) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
