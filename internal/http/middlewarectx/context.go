// Package middlewarectx содержит HTTP middleware политики доступа и ограничения
// частоты запросов.
//
// Authenticate проверяет bearer-токен и кладёт учётную запись в контекст запроса,
// RequireSubscription и RequireRole выполняются после неё в этом порядке.
// Отказ завершает запрос сразу, ответ содержит только фиксированное сообщение.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// AccountKey ключ учётной записи, прошедшей аутентификацию.
const AccountKey Key = "account"

// WithAccount возвращает контекст с учётной записью.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}

// AccountFromContext извлекает учётную запись, положенную Authenticate.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(AccountKey).(*models.Account)
	return account, ok && account != nil
}
