package services

import "github.com/LovationAdmin/finance-api/models"

// Notifier is the sink for user-facing events. Delivery is best effort.
type Notifier interface {
	Notify(userID string, n models.Notification)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(string, models.Notification) {}
