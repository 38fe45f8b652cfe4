package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

const accountColumns = `id, email, password_hash, name, role, subscription_type,
	subscription_status, subscription_start, subscription_end, created_at`

// CreateAccount сохраняет новую учётную запись вместе с подпиской.
// Занятый email даёт storage.ErrAlreadyExists.
func (s *Storage) CreateAccount(ctx context.Context, account *models.Account) error {
	const op = "storage.CreateAccount"

	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	sub := account.Subscription
	_, err := s.DB.ExecContext(ctx, query,
		account.ID, strings.ToLower(account.Email), account.PasswordHash, account.Name, account.Role,
		sub.Tier, sub.Status, sub.StartDate, nullTime(sub.EndDate), account.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetAccount возвращает учётную запись с подпиской по идентификатору.
func (s *Storage) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage.GetAccount"

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return account, nil
}

// GetAccountByEmail возвращает учётную запись по email без учёта регистра.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	account, err := scanAccount(s.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return account, nil
}

// UpdateSubscriptionStatus меняет только статус подписки.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, accountID string, status models.SubscriptionStatus) error {
	const op = "storage.UpdateSubscriptionStatus"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE accounts SET subscription_status = $1 WHERE id = $2`, status, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = expectOne(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a   models.Account
		end sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role,
		&a.Subscription.Tier, &a.Subscription.Status, &a.Subscription.StartDate, &end, &a.CreatedAt); err != nil {
		return nil, err
	}
	if end.Valid {
		a.Subscription.EndDate = end.Time
	}
	return &a, nil
}
