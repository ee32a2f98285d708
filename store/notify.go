package store

import "log"

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing toast emitted by store operations.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Notifier receives user-facing notices from the stores. The websocket hub
// implements this to push toasts to connected clients.
type Notifier interface {
	Notify(n Notice)
}

// LogNotifier writes notices to the process log. Used as the fallback sink.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	switch n.Level {
	case NoticeError:
		log.Printf("❌ %s", n.Message)
	case NoticeWarning:
		log.Printf("⚠️ %s", n.Message)
	default:
		log.Printf("✅ %s", n.Message)
	}
}
