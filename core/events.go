package core

import "time"

const (
	// NotificationNegative colors error notifications
	NotificationNegative = "negative"

	// DefaultNotificationTimeout is how long a transient notification stays visible
	DefaultNotificationTimeout = 2 * time.Second

	// TelemetryExceptions is the category failed API calls are reported under
	TelemetryExceptions = "Exceptions"
)

// Notification is a transient message shown to the user
type Notification struct {
	Message  string        `json:"message"`
	Position string        `json:"position"`
	Timeout  time.Duration `json:"timeout"`
	Color    string        `json:"color"`
}

// NewErrorNotification builds the notification shown for a failed call
func NewErrorNotification(message string) Notification {
	return Notification{
		Message:  message,
		Position: "top",
		Timeout:  DefaultNotificationTimeout,
		Color:    NotificationNegative,
	}
}

// TelemetryEvent is an analytics event
type TelemetryEvent struct {
	Category string `json:"category"`
	Action   string `json:"action"`
	Label    string `json:"label"`
	Value    int64  `json:"value"`
}
