package client

import (
	"sync"
	"time"
)

// Severity grades a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification is one message surfaced to the user.
type Notification struct {
	ID       int64
	Severity Severity
	Message  string
}

// Notifier collects fire-and-forget notifications. Each auto-dismisses
// after a fixed duration and can be dismissed early; no call blocks.
type Notifier struct {
	mu      sync.Mutex
	nextID  int64
	active  []Notification
	ttl     time.Duration
	onEvent func()
}

// NewNotifier builds a Notifier. onEvent, when set, fires after every
// change so a view layer can re-render; it must not block.
func NewNotifier(ttl time.Duration, onEvent func()) *Notifier {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Notifier{ttl: ttl, onEvent: onEvent}
}

// Notify surfaces a message and schedules its dismissal.
func (n *Notifier) Notify(severity Severity, message string) int64 {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.active = append(n.active, Notification{ID: id, Severity: severity, Message: message})
	n.mu.Unlock()

	n.emit()
	time.AfterFunc(n.ttl, func() { n.Dismiss(id) })
	return id
}

func (n *Notifier) Success(message string) { n.Notify(SeveritySuccess, message) }
func (n *Notifier) Error(message string)   { n.Notify(SeverityError, message) }
func (n *Notifier) Info(message string)    { n.Notify(SeverityInfo, message) }
func (n *Notifier) Warning(message string) { n.Notify(SeverityWarning, message) }

// Dismiss removes a notification before its timer fires. Dismissing an
// already gone id is a no-op.
func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()
	kept := n.active[:0]
	removed := false
	for _, note := range n.active {
		if note.ID == id {
			removed = true
			continue
		}
		kept = append(kept, note)
	}
	n.active = kept
	n.mu.Unlock()

	if removed {
		n.emit()
	}
}

// Active returns a snapshot of the visible notifications.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.active))
	copy(out, n.active)
	return out
}

func (n *Notifier) emit() {
	if n.onEvent != nil {
		n.onEvent()
	}
}
