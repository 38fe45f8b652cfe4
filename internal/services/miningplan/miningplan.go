// Package services содержит работу с планами горных работ владельца.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/patch"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// ErrInvalidUpdates обновление содержит недопустимые поля или значения.
var ErrInvalidUpdates = patch.ErrInvalidUpdates

// UpdatableFields поля плана, которые разрешено менять.
var UpdatableFields = []string{
	"title", "description", "location", "mine_type", "mineral_type",
	"estimated_production", "timeline", "status",
}

// MiningPlanRepository хранилище планов горных работ.
type MiningPlanRepository interface {
	CreateMiningPlan(ctx context.Context, p *models.MiningPlan) error
	ListMiningPlans(ctx context.Context, accountID string) ([]models.MiningPlan, error)
	GetMiningPlan(ctx context.Context, id, accountID string) (*models.MiningPlan, error)
	UpdateMiningPlan(ctx context.Context, p *models.MiningPlan) error
	DeleteMiningPlan(ctx context.Context, id, accountID string) error
}

// MiningPlanService реализует CRUD планов. Все операции ограничены владельцем.
type MiningPlanService struct {
	repo     MiningPlanRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewMiningPlanService создает новый экземпляр MiningPlanService.
func NewMiningPlanService(repo MiningPlanRepository) *MiningPlanService {
	return &MiningPlanService{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Create сохраняет план accountID. Статус по умолчанию draft.
func (s *MiningPlanService) Create(ctx context.Context, accountID string, p *models.MiningPlan) error {
	const op = "services.miningplan.Create"

	now := s.now().UTC()
	p.ID = uuid.NewString()
	p.AccountID = accountID
	if p.Status == "" {
		p.Status = models.PlanStatusDraft
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.check(p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.CreateMiningPlan(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List возвращает планы accountID.
func (s *MiningPlanService) List(ctx context.Context, accountID string) ([]models.MiningPlan, error) {
	const op = "services.miningplan.List"

	plans, err := s.repo.ListMiningPlans(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plans, nil
}

// Get возвращает план, если он принадлежит accountID.
func (s *MiningPlanService) Get(ctx context.Context, id, accountID string) (*models.MiningPlan, error) {
	const op = "services.miningplan.Get"

	p, err := s.repo.GetMiningPlan(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Update применяет частичное обновление к плану владельца.
func (s *MiningPlanService) Update(ctx context.Context, id, accountID string, updates map[string]json.RawMessage) (*models.MiningPlan, error) {
	const op = "services.miningplan.Update"

	p, err := s.repo.GetMiningPlan(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = patch.Apply(p, updates, UpdatableFields); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.check(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p.UpdatedAt = s.now().UTC()
	if err = s.repo.UpdateMiningPlan(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Delete удаляет план владельца.
func (s *MiningPlanService) Delete(ctx context.Context, id, accountID string) error {
	const op = "services.miningplan.Delete"

	if err := s.repo.DeleteMiningPlan(ctx, id, accountID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *MiningPlanService) check(p *models.MiningPlan) error {
	rules := []struct {
		value any
		tag   string
	}{
		{p.Title, "required,max=200"},
		{p.Location, "required"},
		{p.MineType, "required,oneof=opencast underground hybrid"},
		{p.MineralType, "required"},
		{p.EstimatedProduction.Value, "gte=0"},
		{p.EstimatedProduction.Unit, "omitempty,oneof=tons kg"},
		{p.Status, "required,oneof=draft submitted approved rejected"},
	}
	for _, r := range rules {
		if err := s.validate.Var(r.value, r.tag); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUpdates, err)
		}
	}
	if !p.Timeline.StartDate.IsZero() && !p.Timeline.EndDate.IsZero() &&
		p.Timeline.EndDate.Before(p.Timeline.StartDate) {
		return fmt.Errorf("%w: timeline ends before it starts", ErrInvalidUpdates)
	}
	return nil
}
