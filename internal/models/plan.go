package models

import "time"

// Plan тарифный план платной подписки.
type Plan struct {
	ID           Tier     `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	DurationDays int      `json:"duration"`
	Features     []string `json:"features"`
}

// Payment оплата подписки через платёжного провайдера.
type Payment struct {
	ID        string    `json:"id"`
	AccountID string    `json:"user"`
	Plan      Tier      `json:"plan"`
	Amount    int64     `json:"amount"`
	OrderID   string    `json:"razorpay_order_id"`
	PaymentID string    `json:"razorpay_payment_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}
