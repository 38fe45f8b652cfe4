package models

import "time"

// LegalAdvice обращение за юридической консультацией.
type LegalAdvice struct {
	ID          string           `json:"id"`
	AccountID   string           `json:"user"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Priority    string           `json:"priority"`
	Status      string           `json:"status"`
	AssignedTo  string           `json:"assigned_to,omitempty"`
	Responses   []AdviceResponse `json:"responses"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AdviceResponse ответ консультанта на обращение.
type AdviceResponse struct {
	ID            int64     `json:"id"`
	ResponderID   string    `json:"responder"`
	ResponderName string    `json:"responder_name,omitempty"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// Статусы обращения.
const (
	AdviceStatusPending    = "pending"
	AdviceStatusInProgress = "in-progress"
	AdviceStatusResolved   = "resolved"
	AdviceStatusClosed     = "closed"
)

// Приоритет по умолчанию.
const AdvicePriorityMedium = "medium"
