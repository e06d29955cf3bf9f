package model

import "time"

type NotificationCategory string

const (
	NotificationSuccess NotificationCategory = "success"
	NotificationError   NotificationCategory = "error"
	NotificationInfo    NotificationCategory = "info"
	NotificationWarning NotificationCategory = "warning"
)

type Notification struct {
	ID          string               `json:"id"`
	Category    NotificationCategory `json:"category"`
	Message     string               `json:"message"`
	Duration    time.Duration        `json:"duration"`
	AutoDismiss bool                 `json:"autoDismiss"`
	CreatedAt   time.Time            `json:"createdAt"`
}
