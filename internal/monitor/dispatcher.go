package monitor

import (
	"fmt"

	"github.com/slametrics/sentinel/internal/datastore/entities"
	"github.com/slametrics/sentinel/internal/logger"
)

// NotificationCreator abstracts the notification channel for testability.
// Real delivery providers (email, chat, push) live outside the engine; the
// default implementation just logs.
type NotificationCreator interface {
	CreateAndBroadcast(title, message string) error
}

// Dispatcher turns newly created alerts into notifications.
type Dispatcher struct {
	creator NotificationCreator
	log     logger.Logger
}

// NewDispatcher creates a Dispatcher. creator may be nil, which disables
// dispatch entirely.
func NewDispatcher(creator NotificationCreator, log logger.Logger) *Dispatcher {
	return &Dispatcher{creator: creator, log: log}
}

// AlertCreated implements AlertCreatedFunc for the persister.
func (d *Dispatcher) AlertCreated(alert *entities.Alert) {
	if d.creator == nil {
		return
	}
	title := fmt.Sprintf("[%s] %s: %s", alert.Severity, alert.MonitoringType, alert.ItemID)
	message := fmt.Sprintf("alerta %s em %.2f%%", alert.AlertType, alert.CurrentPercent)
	if err := d.creator.CreateAndBroadcast(title, message); err != nil {
		d.log.Error("failed to dispatch alert notification",
			logger.Uint64("alert_id", uint64(alert.ID)),
			logger.Error(err))
	}
}

// LogNotifier is the default NotificationCreator: it writes notifications
// to the log and nothing else.
type LogNotifier struct {
	Log logger.Logger
}

func (n *LogNotifier) CreateAndBroadcast(title, message string) error {
	n.Log.Info("notification", logger.String("title", title), logger.String("message", message))
	return nil
}
