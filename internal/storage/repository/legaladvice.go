package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

const legalAdviceColumns = `id, account_id, title, description, category, priority, status,
	COALESCE(assigned_to::text, ''), created_at, updated_at`

// CreateLegalAdvice сохраняет новое обращение.
func (s *Storage) CreateLegalAdvice(ctx context.Context, a *models.LegalAdvice) error {
	const op = "storage.CreateLegalAdvice"

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO legal_advice (id, account_id, title, description, category, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.AccountID, a.Title, a.Description, a.Category, a.Priority, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// ListLegalAdvice возвращает обращения владельца без ответов, новые первыми.
func (s *Storage) ListLegalAdvice(ctx context.Context, accountID string) ([]models.LegalAdvice, error) {
	const op = "storage.ListLegalAdvice"

	rows, err := s.DB.QueryContext(ctx, `SELECT `+legalAdviceColumns+` FROM legal_advice
		WHERE account_id = $1
		ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.LegalAdvice, 0)
	for rows.Next() {
		a, err := scanLegalAdvice(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.Responses = []models.AdviceResponse{}
		result = append(result, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetLegalAdvice возвращает обращение с ответами. Пустой accountID снимает
// проверку владельца (для консультантов).
func (s *Storage) GetLegalAdvice(ctx context.Context, id, accountID string) (*models.LegalAdvice, error) {
	const op = "storage.GetLegalAdvice"

	a, err := scanLegalAdvice(s.DB.QueryRowContext(ctx, `SELECT `+legalAdviceColumns+` FROM legal_advice
		WHERE id = $1 AND ($2 = '' OR account_id::text = $2)`, id, accountID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	a.Responses, err = s.listAdviceResponses(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// UpdateLegalAdvice перезаписывает изменяемые владельцем поля обращения.
func (s *Storage) UpdateLegalAdvice(ctx context.Context, a *models.LegalAdvice) error {
	const op = "storage.UpdateLegalAdvice"

	res, err := s.DB.ExecContext(ctx, `
		UPDATE legal_advice
		SET title = $1, description = $2, category = $3, priority = $4, updated_at = $5
		WHERE id = $6 AND account_id = $7`,
		a.Title, a.Description, a.Category, a.Priority, a.UpdatedAt, a.ID, a.AccountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = expectOne(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteLegalAdvice удаляет обращение владельца вместе с ответами.
func (s *Storage) DeleteLegalAdvice(ctx context.Context, id, accountID string) error {
	const op = "storage.DeleteLegalAdvice"

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM legal_advice WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = expectOne(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddAdviceResponse добавляет ответ консультанта, назначает его исполнителем
// и, если status не пуст, меняет статус обращения. Всё в одной транзакции.
func (s *Storage) AddAdviceResponse(ctx context.Context, adviceID string, r models.AdviceResponse, status string) error {
	const op = "storage.AddAdviceResponse"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE legal_advice
		SET status = COALESCE(NULLIF($1, ''), status),
			assigned_to = COALESCE(assigned_to, $2),
			updated_at = $3
		WHERE id = $4`, status, r.ResponderID, r.CreatedAt, adviceID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = expectOne(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO legal_advice_responses (advice_id, responder_id, content, created_at)
		VALUES ($1, $2, $3, $4)`, adviceID, r.ResponderID, r.Content, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) listAdviceResponses(ctx context.Context, adviceID string) ([]models.AdviceResponse, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT r.id, r.responder_id, a.name, r.content, r.created_at
		FROM legal_advice_responses r
		JOIN accounts a ON a.id = r.responder_id
		WHERE r.advice_id = $1
		ORDER BY r.created_at, r.id`, adviceID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	responses := make([]models.AdviceResponse, 0)
	for rows.Next() {
		var r models.AdviceResponse
		if err = rows.Scan(&r.ID, &r.ResponderID, &r.ResponderName, &r.Content, &r.CreatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func scanLegalAdvice(row rowScanner) (*models.LegalAdvice, error) {
	var a models.LegalAdvice
	if err := row.Scan(&a.ID, &a.AccountID, &a.Title, &a.Description, &a.Category, &a.Priority,
		&a.Status, &a.AssignedTo, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

