package models

import "time"

// EventType тип события жизненного цикла подписки.
type EventType string

const (
	EventSubscriptionCreated  EventType = "subscription.created"
	EventSubscriptionRenewed  EventType = "subscription.renewed"
	EventSubscriptionCanceled EventType = "subscription.canceled"
)

// SubscriptionEvent публикуется в брокер после успешного изменения подписки.
type SubscriptionEvent struct {
	ID                     string    `json:"id"`
	Type                   EventType `json:"type"`
	SubscriptionID         int       `json:"subscription_id"`
	PreviousSubscriptionID int       `json:"previous_subscription_id,omitempty"`
	UserID                 int       `json:"user_id"`
	MagazineID             int       `json:"magazine_id"`
	PlanID                 int       `json:"plan_id"`
	Price                  float64   `json:"price"`
	RenewalDate            string    `json:"renewal_date"`
	OccurredAt             time.Time `json:"occurred_at"`
}
