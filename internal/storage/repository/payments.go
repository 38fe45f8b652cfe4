package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// RecordPayment в одной транзакции сохраняет платёж и активирует оплаченную
// подписку учётной записи на срок платежа.
func (s *Storage) RecordPayment(ctx context.Context, p models.Payment) error {
	const op = "storage.RecordPayment"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscription_payments
			(id, account_id, plan, amount, razorpay_order_id, razorpay_payment_id, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.AccountID, p.Plan, p.Amount, p.OrderID, p.PaymentID, p.StartDate, p.EndDate, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET subscription_type = $1,
			subscription_status = $2,
			subscription_start = $3,
			subscription_end = $4
		WHERE id = $5`,
		p.Plan, models.StatusActive, p.StartDate, p.EndDate, p.AccountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = expectOne(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPayments возвращает платежи учётной записи, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, accountID string) ([]models.Payment, error) {
	const op = "storage.ListPayments"

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, account_id, plan, amount, razorpay_order_id, razorpay_payment_id,
			start_date, end_date, created_at
		FROM subscription_payments
		WHERE account_id = $1
		ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Payment, 0)
	for rows.Next() {
		var p models.Payment
		if err = rows.Scan(&p.ID, &p.AccountID, &p.Plan, &p.Amount, &p.OrderID, &p.PaymentID,
			&p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
