package domain

import "time"

// Notification levels understood by the UI toaster.
const (
	NotificationError   = "error"
	NotificationWarning = "warning"
	NotificationSuccess = "success"
	NotificationInfo    = "info"
)

// Notification is a user-facing message pushed to connected back-office
// sessions.
type Notification struct {
	Level     string    `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Operation string    `json:"operation,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageReceipt is what a messaging provider returns for a sent message.
type MessageReceipt struct {
	MessageID string `json:"messageId"`
	To        string `json:"to"`
	Status    string `json:"status"`
}
