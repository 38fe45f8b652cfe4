// Package services содержит оформление платных подписок через Razorpay.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/paymentprovider"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

var (
	// ErrInvalidPlan неизвестный тарифный план.
	ErrInvalidPlan = errors.New("invalid plan selected")
	// ErrPaymentVerification подпись платежа не совпала.
	ErrPaymentVerification = errors.New("payment verification failed")
	// ErrPaymentProcessed платёж с таким идентификатором уже учтён.
	ErrPaymentProcessed = errors.New("payment already processed")
)

var plans = []models.Plan{
	{
		ID:           models.TierBasic,
		Name:         "Basic Plan",
		Price:        999,
		DurationDays: 30,
		Features: []string{
			"Access to basic e-books",
			"Basic mining plan templates",
			"Email support",
		},
	},
	{
		ID:           models.TierPremium,
		Name:         "Premium Plan",
		Price:        2999,
		DurationDays: 30,
		Features: []string{
			"Access to all e-books",
			"Advanced mining plan templates",
			"Priority legal consultation",
			"24/7 support",
		},
	},
}

// Plans возвращает доступные тарифные планы.
func Plans() []models.Plan {
	out := make([]models.Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID ищет тарифный план по идентификатору.
func PlanByID(id models.Tier) (models.Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.Plan{}, false
}

// PaymentRepository хранилище платежей.
type PaymentRepository interface {
	RecordPayment(ctx context.Context, p models.Payment) error
	ListPayments(ctx context.Context, accountID string) ([]models.Payment, error)
}

// PaymentProvider платёжный провайдер.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, params paymentprovider.OrderRequest) (*paymentprovider.Order, error)
	GetOrder(ctx context.Context, orderID string) (*paymentprovider.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// EventPublisher публикует события для сервиса уведомлений.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// OrderResult заказ провайдера вместе с публичным ключом для формы оплаты.
type OrderResult struct {
	Order *paymentprovider.Order `json:"order"`
	KeyID string                 `json:"key_id"`
	Plan  models.Plan            `json:"plan"`
}

// VerifyInput данные, которые клиент получает от провайдера после оплаты.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
	PlanID    models.Tier
}

// SubscriptionService оформляет платные подписки.
type SubscriptionService struct {
	repo     PaymentRepository
	provider PaymentProvider
	events   EventPublisher
	log      *slog.Logger
	currency string
	now      func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo PaymentRepository, provider PaymentProvider, events EventPublisher, log *slog.Logger, currency string) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		provider: provider,
		events:   events,
		log:      log,
		currency: currency,
		now:      time.Now,
	}
}

// CreateOrder создаёт заказ у провайдера на стоимость плана.
func (s *SubscriptionService) CreateOrder(ctx context.Context, account *models.Account, planID models.Tier) (*OrderResult, error) {
	const op = "services.subscription.CreateOrder"

	plan, ok := PlanByID(planID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlan)
	}

	order, err := s.provider.CreateOrder(ctx, paymentprovider.OrderRequest{
		Amount:   plan.Price * 100,
		Currency: s.currency,
		Receipt:  fmt.Sprintf("order_%d", s.now().UnixMilli()),
		Notes: map[string]string{
			"account_id": account.ID,
			"plan_id":    string(plan.ID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &OrderResult{Order: order, KeyID: s.provider.KeyID(), Plan: plan}, nil
}

// orderMatches сверяет notes и сумму заказа с оплачиваемым планом.
func orderMatches(order *paymentprovider.Order, accountID string, plan models.Plan) bool {
	return order.Notes["account_id"] == accountID &&
		order.Notes["plan_id"] == string(plan.ID) &&
		order.Amount == plan.Price*100
}

// Verify проверяет подпись платежа, сохраняет его и активирует подписку на
// срок плана. Обновлённая подписка записывается в account.
func (s *SubscriptionService) Verify(ctx context.Context, account *models.Account, in VerifyInput) (*models.Payment, error) {
	const op = "services.subscription.Verify"

	plan, ok := PlanByID(in.PlanID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlan)
	}
	if !s.provider.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentVerification)
	}

	order, err := s.provider.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !orderMatches(order, account.ID, plan) {
		s.log.Warn("order does not match payment",
			slog.String("op", op),
			slog.String("order_id", in.OrderID),
			slog.String("account_id", account.ID),
			slog.String("plan_id", string(plan.ID)),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentVerification)
	}

	now := s.now().UTC()
	payment := models.Payment{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Plan:      plan.ID,
		Amount:    plan.Price,
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		CreatedAt: now,
	}
	if err := s.repo.RecordPayment(ctx, payment); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrPaymentProcessed)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	account.Subscription = models.Subscription{
		Tier:      plan.ID,
		Status:    models.StatusActive,
		StartDate: payment.StartDate,
		EndDate:   payment.EndDate,
	}

	if s.events != nil {
		err := s.events.Publish(ctx, models.EventSubscriptionActivated, models.Notification{
			Event:      models.EventSubscriptionActivated,
			AccountID:  account.ID,
			Email:      account.Email,
			Name:       account.Name,
			Tier:       plan.ID,
			EndDate:    payment.EndDate,
			Amount:     plan.Price,
			OccurredAt: now,
		})
		if err != nil {
			s.log.Warn("failed to publish event",
				slog.String("event", models.EventSubscriptionActivated), sl.Err(err))
		}
	}
	return &payment, nil
}

// ListPayments возвращает историю платежей учётной записи.
func (s *SubscriptionService) ListPayments(ctx context.Context, accountID string) ([]models.Payment, error) {
	const op = "services.subscription.ListPayments"

	payments, err := s.repo.ListPayments(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
