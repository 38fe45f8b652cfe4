package access

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// SubscriptionStore сохраняет новый статус подписки.
type SubscriptionStore interface {
	UpdateSubscriptionStatus(ctx context.Context, accountID string, status models.SubscriptionStatus) error
}

// EventPublisher публикует события для сервиса уведомлений.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Evaluator оценивает подписку учётной записи и лениво переводит её в expired.
type Evaluator struct {
	store  SubscriptionStore
	events EventPublisher
	log    *slog.Logger
	now    func() time.Time
}

// EvaluatorOption настраивает Evaluator.
type EvaluatorOption func(*Evaluator)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

// WithEvents включает публикацию события subscription.expired.
func WithEvents(events EventPublisher) EvaluatorOption {
	return func(e *Evaluator) {
		e.events = events
	}
}

// NewEvaluator создаёт Evaluator.
func NewEvaluator(store SubscriptionStore, log *slog.Logger, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now возвращает текущее время по часам Evaluator.
func (e *Evaluator) Now() time.Time {
	return e.now()
}

// Refresh переводит активную подписку с прошедшей датой окончания в expired
// и сохраняет изменение. Возвращает true, если переход произошёл в этом вызове.
// Отказа в доступе Refresh не выносит.
func (e *Evaluator) Refresh(ctx context.Context, account *models.Account) (bool, error) {
	const op = "access.Refresh"

	sub := account.Subscription
	if sub.Status != models.StatusActive || !sub.Lapsed(e.now()) {
		return false, nil
	}

	if err := e.store.UpdateSubscriptionStatus(ctx, account.ID, models.StatusExpired); err != nil {
		return false, persistenceError(op, err)
	}
	account.Subscription.Status = models.StatusExpired

	e.log.Info("subscription expired",
		slog.String("op", op),
		slog.String("account_id", account.ID),
		slog.Time("end_date", sub.EndDate),
	)
	e.publishExpired(ctx, account)
	return true, nil
}

// CheckActive пропускает только активную и не истёкшую подписку.
// Неактивная подписка даёт ErrSubscriptionRequired, обнаруженное истечение даёт
// ErrSubscriptionExpired после сохранения статуса expired.
func (e *Evaluator) CheckActive(ctx context.Context, account *models.Account) error {
	const op = "access.CheckActive"

	if account.Subscription.Status != models.StatusActive {
		return fmt.Errorf("%s: %w", op, ErrSubscriptionRequired)
	}

	expired, err := e.Refresh(ctx, account)
	if err != nil {
		return err
	}
	if expired {
		return fmt.Errorf("%s: %w", op, ErrSubscriptionExpired)
	}
	return nil
}

// EffectiveTier возвращает уровень подписки, действующий в момент now:
// сохранённый уровень для активной и не истёкшей подписки, иначе free.
func EffectiveTier(account *models.Account, now time.Time) models.Tier {
	sub := account.Subscription
	if sub.Status != models.StatusActive || sub.Lapsed(now) || !sub.Tier.Valid() {
		return models.TierFree
	}
	return sub.Tier
}

func (e *Evaluator) publishExpired(ctx context.Context, account *models.Account) {
	if e.events == nil {
		return
	}
	err := e.events.Publish(ctx, models.EventSubscriptionExpired, models.Notification{
		Event:      models.EventSubscriptionExpired,
		AccountID:  account.ID,
		Email:      account.Email,
		Name:       account.Name,
		Tier:       account.Subscription.Tier,
		EndDate:    account.Subscription.EndDate,
		OccurredAt: e.now(),
	})
	if err != nil {
		e.log.Warn("failed to publish subscription expired event", sl.Err(err))
	}
}
