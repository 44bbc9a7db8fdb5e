package domain

import "time"

// NotificationType mirrors the severity levels the notification widget
// understands.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is the input contract of the external notification widget.
// The core only ever emits these; it never renders them.
type Notification struct {
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Icon       string           `json:"icon,omitempty"`
	Duration   time.Duration    `json:"duration,omitempty"`
	AutoRemove bool             `json:"auto_remove"`
	Actions    []RemedyAction   `json:"actions,omitempty"`
}
