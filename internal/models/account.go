// Package models содержит доменные структуры сервиса: учётные записи со встроенной
// подпиской, электронные книги, планы горных работ, обращения за юридической
// консультацией, тарифные планы и события для уведомлений.
package models

import "time"

// Role роль учётной записи.
type Role string

// Роли учётных записей.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid сообщает, является ли роль известной.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Tier уровень подписки. Он же минимальный уровень доступа к контенту.
type Tier string

// Уровни подписки в порядке возрастания.
const (
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// Rank возвращает порядковый номер уровня: free < basic < premium.
// Для неизвестного уровня возвращает -1.
func (t Tier) Rank() int {
	switch t {
	case TierFree:
		return 0
	case TierBasic:
		return 1
	case TierPremium:
		return 2
	default:
		return -1
	}
}

// Valid сообщает, является ли уровень известным.
func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

// SubscriptionStatus статус подписки.
type SubscriptionStatus string

// Статусы подписки.
const (
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription подписка, встроенная в учётную запись.
type Subscription struct {
	Tier      Tier               `json:"type"`
	Status    SubscriptionStatus `json:"status"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
}

// Lapsed сообщает, прошла ли дата окончания подписки к моменту now.
// Подписка без даты окончания не истекает.
func (s Subscription) Lapsed(now time.Time) bool {
	return !s.EndDate.IsZero() && s.EndDate.Before(now)
}

// Account учётная запись пользователя. Подписка хранится в той же записи.
type Account struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	Subscription Subscription `json:"subscription"`
	CreatedAt    time.Time    `json:"created_at"`
}

// AccountView представление учётной записи в ответах API.
type AccountView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	Subscription Subscription `json:"subscription"`
}

// View возвращает публичное представление учётной записи.
func (a *Account) View() AccountView {
	return AccountView{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Role:         a.Role,
		Subscription: a.Subscription,
	}
}
