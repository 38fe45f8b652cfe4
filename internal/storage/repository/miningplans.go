package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

const miningPlanColumns = `id, account_id, title, description, location, mine_type, mineral_type,
	production_value, production_unit, timeline_start, timeline_end, status, created_at, updated_at`

// CreateMiningPlan сохраняет новый план горных работ.
func (s *Storage) CreateMiningPlan(ctx context.Context, p *models.MiningPlan) error {
	const op = "storage.CreateMiningPlan"

	_, err := s.DB.ExecContext(ctx, `INSERT INTO mining_plans (`+miningPlanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.AccountID, p.Title, p.Description, p.Location, p.MineType, p.MineralType,
		p.EstimatedProduction.Value, p.EstimatedProduction.Unit,
		nullTime(p.Timeline.StartDate), nullTime(p.Timeline.EndDate),
		p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// ListMiningPlans возвращает планы владельца, новые первыми.
func (s *Storage) ListMiningPlans(ctx context.Context, accountID string) ([]models.MiningPlan, error) {
	const op = "storage.ListMiningPlans"

	rows, err := s.DB.QueryContext(ctx, `SELECT `+miningPlanColumns+` FROM mining_plans
		WHERE account_id = $1
		ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.MiningPlan, 0)
	for rows.Next() {
		p, err := scanMiningPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetMiningPlan возвращает план, если он принадлежит accountID.
func (s *Storage) GetMiningPlan(ctx context.Context, id, accountID string) (*models.MiningPlan, error) {
	const op = "storage.GetMiningPlan"

	p, err := scanMiningPlan(s.DB.QueryRowContext(ctx, `SELECT `+miningPlanColumns+` FROM mining_plans
		WHERE id = $1 AND account_id = $2`, id, accountID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// UpdateMiningPlan перезаписывает изменяемые поля плана владельца.
func (s *Storage) UpdateMiningPlan(ctx context.Context, p *models.MiningPlan) error {
	const op = "storage.UpdateMiningPlan"

	res, err := s.DB.ExecContext(ctx, `
		UPDATE mining_plans
		SET title = $1, description = $2, location = $3, mine_type = $4, mineral_type = $5,
			production_value = $6, production_unit = $7, timeline_start = $8, timeline_end = $9,
			status = $10, updated_at = $11
		WHERE id = $12 AND account_id = $13`,
		p.Title, p.Description, p.Location, p.MineType, p.MineralType,
		p.EstimatedProduction.Value, p.EstimatedProduction.Unit,
		nullTime(p.Timeline.StartDate), nullTime(p.Timeline.EndDate),
		p.Status, p.UpdatedAt, p.ID, p.AccountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = expectOne(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteMiningPlan удаляет план владельца.
func (s *Storage) DeleteMiningPlan(ctx context.Context, id, accountID string) error {
	const op = "storage.DeleteMiningPlan"

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM mining_plans WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = expectOne(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanMiningPlan(row rowScanner) (*models.MiningPlan, error) {
	var (
		p          models.MiningPlan
		start, end sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.AccountID, &p.Title, &p.Description, &p.Location, &p.MineType,
		&p.MineralType, &p.EstimatedProduction.Value, &p.EstimatedProduction.Unit, &start, &end,
		&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Timeline.StartDate = start.Time
	p.Timeline.EndDate = end.Time
	return &p, nil
}
