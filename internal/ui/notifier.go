package ui

import (
	"github.com/five82/palette/internal/logging"
)

// Notice is a message for the toast area.
type Notice struct {
	Message string
	Err     bool
}

// Notifier receives store notifications, logs them, and queues them for the
// UI. When the queue is full the oldest notice is dropped so the store never
// waits on the UI.
type Notifier struct {
	ch chan Notice
}

// NewNotifier returns a Notifier holding up to size undelivered notices.
func NewNotifier(size int) *Notifier {
	if size < 1 {
		size = 1
	}
	return &Notifier{ch: make(chan Notice, size)}
}

// NotifySuccess queues a success notice.
func (n *Notifier) NotifySuccess(message string) {
	logging.Info(logging.CatUI, "notify", "message", message)
	n.push(Notice{Message: message})
}

// NotifyError queues an error notice.
func (n *Notifier) NotifyError(message string) {
	logging.Warn(logging.CatUI, "notify error", "message", message)
	n.push(Notice{Message: message, Err: true})
}

// Notices returns the channel the UI reads from.
func (n *Notifier) Notices() <-chan Notice {
	return n.ch
}

func (n *Notifier) push(notice Notice) {
	for {
		select {
		case n.ch <- notice:
			return
		default:
		}
		select {
		case <-n.ch:
		default:
		}
	}
}
