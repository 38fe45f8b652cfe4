// Package services содержит обращения за юридической консультацией и ответы на них.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/patch"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// ErrInvalidUpdates обновление содержит недопустимые поля или значения.
var ErrInvalidUpdates = patch.ErrInvalidUpdates

// UpdatableFields поля обращения, которые может менять владелец.
var UpdatableFields = []string{"title", "description", "category", "priority"}

// LegalAdviceRepository хранилище обращений.
type LegalAdviceRepository interface {
	CreateLegalAdvice(ctx context.Context, a *models.LegalAdvice) error
	ListLegalAdvice(ctx context.Context, accountID string) ([]models.LegalAdvice, error)
	GetLegalAdvice(ctx context.Context, id, accountID string) (*models.LegalAdvice, error)
	UpdateLegalAdvice(ctx context.Context, a *models.LegalAdvice) error
	DeleteLegalAdvice(ctx context.Context, id, accountID string) error
	AddAdviceResponse(ctx context.Context, adviceID string, r models.AdviceResponse, status string) error
}

// AccountGetter ищет учётную запись владельца обращения.
type AccountGetter interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// EventPublisher публикует события для сервиса уведомлений.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// LegalAdviceService реализует обращения владельца и ответы консультантов.
type LegalAdviceService struct {
	repo     LegalAdviceRepository
	accounts AccountGetter
	events   EventPublisher
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewLegalAdviceService создает новый экземпляр LegalAdviceService.
func NewLegalAdviceService(repo LegalAdviceRepository, accounts AccountGetter, events EventPublisher, log *slog.Logger) *LegalAdviceService {
	return &LegalAdviceService{
		repo:     repo,
		accounts: accounts,
		events:   events,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Create сохраняет обращение со статусом pending.
func (s *LegalAdviceService) Create(ctx context.Context, accountID string, a *models.LegalAdvice) error {
	const op = "services.legaladvice.Create"

	now := s.now().UTC()
	a.ID = uuid.NewString()
	a.AccountID = accountID
	a.Status = models.AdviceStatusPending
	if a.Priority == "" {
		a.Priority = models.AdvicePriorityMedium
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.check(a); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.CreateLegalAdvice(ctx, a); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List возвращает обращения accountID.
func (s *LegalAdviceService) List(ctx context.Context, accountID string) ([]models.LegalAdvice, error) {
	const op = "services.legaladvice.List"

	list, err := s.repo.ListLegalAdvice(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает обращение владельца с ответами.
func (s *LegalAdviceService) Get(ctx context.Context, id, accountID string) (*models.LegalAdvice, error) {
	const op = "services.legaladvice.Get"

	a, err := s.repo.GetLegalAdvice(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Update применяет частичное обновление к обращению владельца.
func (s *LegalAdviceService) Update(ctx context.Context, id, accountID string, updates map[string]json.RawMessage) (*models.LegalAdvice, error) {
	const op = "services.legaladvice.Update"

	a, err := s.repo.GetLegalAdvice(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = patch.Apply(a, updates, UpdatableFields); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.check(a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.UpdatedAt = s.now().UTC()
	if err = s.repo.UpdateLegalAdvice(ctx, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Delete удаляет обращение владельца.
func (s *LegalAdviceService) Delete(ctx context.Context, id, accountID string) error {
	const op = "services.legaladvice.Delete"

	if err := s.repo.DeleteLegalAdvice(ctx, id, accountID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Respond добавляет ответ консультанта к любому обращению и при необходимости
// меняет его статус. Владелец получает уведомление.
func (s *LegalAdviceService) Respond(ctx context.Context, id string, responder *models.Account, content, status string) (*models.LegalAdvice, error) {
	const op = "services.legaladvice.Respond"

	if status != "" {
		if err := s.validate.Var(status, "oneof=pending in-progress resolved closed"); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidUpdates, err)
		}
	}

	err := s.repo.AddAdviceResponse(ctx, id, models.AdviceResponse{
		ResponderID: responder.ID,
		Content:     content,
		CreatedAt:   s.now().UTC(),
	}, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a, err := s.repo.GetLegalAdvice(ctx, id, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.notifyOwner(ctx, a)
	return a, nil
}

func (s *LegalAdviceService) notifyOwner(ctx context.Context, a *models.LegalAdvice) {
	if s.events == nil || s.accounts == nil {
		return
	}
	log := s.log.With(slog.String("advice_id", a.ID))

	owner, err := s.accounts.GetAccount(ctx, a.AccountID)
	if err != nil {
		log.Warn("failed to load advice owner", sl.Err(err))
		return
	}
	err = s.events.Publish(ctx, models.EventLegalAdviceResponded, models.Notification{
		Event:      models.EventLegalAdviceResponded,
		AccountID:  owner.ID,
		Email:      owner.Email,
		Name:       owner.Name,
		Subject:    a.Title,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		log.Warn("failed to publish event", slog.String("event", models.EventLegalAdviceResponded), sl.Err(err))
	}
}

func (s *LegalAdviceService) check(a *models.LegalAdvice) error {
	rules := []struct {
		value any
		tag   string
	}{
		{a.Title, "required,max=200"},
		{a.Description, "required"},
		{a.Category, "required,oneof=environmental licensing safety labor other"},
		{a.Priority, "required,oneof=low medium high"},
	}
	for _, r := range rules {
		if err := s.validate.Var(r.value, r.tag); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUpdates, err)
		}
	}
	return nil
}
