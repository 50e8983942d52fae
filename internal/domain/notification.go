package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a user-facing notification.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is the structured result of an operation that feeds directly
// into user-facing notification UI instead of returning an error.
type Notification struct {
	ID        string
	Type      NotificationType
	Title     string
	Message   string
	TxHash    string
	CreatedAt time.Time
}

// NewSuccessNotification builds a success notification carrying a tx hash.
func NewSuccessNotification(title, msg, txHash string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Type:      NotificationSuccess,
		Title:     title,
		Message:   msg,
		TxHash:    txHash,
		CreatedAt: time.Now().UTC(),
	}
}

// NewErrorNotification builds an error notification.
func NewErrorNotification(title, msg string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Type:      NotificationError,
		Title:     title,
		Message:   msg,
		CreatedAt: time.Now().UTC(),
	}
}
