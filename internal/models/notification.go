package models

import "time"

// Ключи маршрутизации событий, которые получает сервис уведомлений.
const (
	EventAccountRegistered     = "account.registered"
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionExpired   = "subscription.expired"
	EventLegalAdviceResponded  = "legal_advice.responded"
)

// Notification тело события в очереди уведомлений.
type Notification struct {
	Event      string    `json:"event"`
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Tier       Tier      `json:"tier,omitempty"`
	EndDate    time.Time `json:"end_date,omitzero"`
	Amount     int64     `json:"amount,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
