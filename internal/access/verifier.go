// Package access реализует политику доступа сервиса: проверку bearer-токена
// (Verifier), оценку подписки с ленивым истечением (Evaluator) и композицию
// проверок роли и уровня контента (Gate).
//
// Все проверки синхронные и прерываются на первой неудаче. Единственная запись
// в хранилище: перевод подписки в статус expired при обнаружении истечения.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/jwt"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

const bearerPrefix = "Bearer "

// TokenParser проверяет подпись и срок действия токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// AccountFinder загружает учётную запись вместе с подпиской.
// Отсутствие записи сообщается ошибкой storage.ErrNotFound.
type AccountFinder interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// Verifier проверяет bearer-токен и находит по нему учётную запись.
type Verifier struct {
	tokens   TokenParser
	accounts AccountFinder
}

// NewVerifier создаёт Verifier. Секрет подписи живёт внутри tokens.
func NewVerifier(tokens TokenParser, accounts AccountFinder) *Verifier {
	return &Verifier{
		tokens:   tokens,
		accounts: accounts,
	}
}

// BearerToken извлекает токен из значения заголовка Authorization.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" || header == strings.TrimSpace(bearerPrefix) {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// Verify проверяет заголовок Authorization и возвращает полностью загруженную
// учётную запись. Любая проблема с токеном или отсутствие учётной записи дают
// ошибку класса KindAuthenticationFailure. Сбой хранилища даёт KindPersistenceFailure.
func (v *Verifier) Verify(ctx context.Context, authorizationHeader string) (*models.Account, error) {
	const op = "access.Verify"

	token, err := BearerToken(authorizationHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	claims, err := v.tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	account, err := v.accounts.GetAccount(ctx, claims.AccountID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	if err != nil {
		return nil, persistenceError(op, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return account, nil
}
