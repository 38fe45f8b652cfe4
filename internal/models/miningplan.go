package models

import "time"

// MiningPlan план горных работ, принадлежащий одной учётной записи.
type MiningPlan struct {
	ID                  string     `json:"id"`
	AccountID           string     `json:"user"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	MineType            string     `json:"mine_type"`
	MineralType         string     `json:"mineral_type"`
	EstimatedProduction Production `json:"estimated_production"`
	Timeline            Timeline   `json:"timeline"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Production плановый объём добычи.
type Production struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Timeline сроки работ по плану.
type Timeline struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Статусы плана горных работ.
const (
	PlanStatusDraft     = "draft"
	PlanStatusSubmitted = "submitted"
	PlanStatusApproved  = "approved"
	PlanStatusRejected  = "rejected"
)
