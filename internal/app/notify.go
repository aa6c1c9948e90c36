package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
)

// Notification is a toast shown in the top right corner until it expires.
type Notification struct {
	ID        string
	Message   string
	Type      string // "info" or "error"
	StartTime time.Time
	Duration  time.Duration
}

// Dialog is a message the user has to dismiss. Dialogs are queued and
// shown one at a time; while one is open it receives all input.
type Dialog struct {
	ID      string
	Title   string
	Message string
}

// Notify implements programs.Notifier.
func (d *Desktop) Notify(msg string) {
	d.ShowNotification(msg, "info", config.NotificationDuration)
}

// Alert implements programs.Notifier.
func (d *Desktop) Alert(title, msg string) {
	d.mu.Lock()
	d.dialogs = append(d.dialogs, Dialog{ID: uuid.NewString(), Title: title, Message: msg})
	d.mu.Unlock()
	d.logger.Warn(msg, "dialog", title)
}

// ShowNotification displays a temporary notification.
func (d *Desktop) ShowNotification(message, notifType string, duration time.Duration) {
	d.mu.Lock()
	d.notifications = append(d.notifications, Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      notifType,
		StartTime: d.now(),
		Duration:  duration,
	})
	d.mu.Unlock()

	if notifType == "error" {
		d.logger.Error(message)
	} else {
		d.logger.Info(message)
	}
}

// CleanupNotifications removes expired notifications.
func (d *Desktop) CleanupNotifications() {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	active := d.notifications[:0]
	for _, n := range d.notifications {
		if now.Sub(n.StartTime) < n.Duration {
			active = append(active, n)
		}
	}
	d.notifications = active
}

// Notifications returns the active notifications, oldest first.
func (d *Desktop) Notifications() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Notification(nil), d.notifications...)
}

// Dialog returns the open dialog.
func (d *Desktop) Dialog() (Dialog, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.dialogs) == 0 {
		return Dialog{}, false
	}
	return d.dialogs[0], true
}

// DismissDialog closes the open dialog and shows the next queued one.
func (d *Desktop) DismissDialog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.dialogs) > 0 {
		d.dialogs = d.dialogs[1:]
	}
}
