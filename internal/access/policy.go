package access

import (
	"context"
	"fmt"
	"slices"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// HasRole сообщает, входит ли role в множество allowed.
func HasRole(role models.Role, allowed ...models.Role) bool {
	return slices.Contains(allowed, role)
}

// CanAccess сообщает, открыт ли контент уровня level для подписки уровня tier:
// premium видит всё, basic видит free и basic, free видит только free.
func CanAccess(tier models.Tier, level models.Tier) bool {
	if !tier.Valid() || !level.Valid() {
		return false
	}
	return tier.Rank() >= level.Rank()
}

// Gate объединяет проверки в фиксированном порядке:
// аутентификация, подписка, роль, уровень контента.
type Gate struct {
	verifier  *Verifier
	evaluator *Evaluator
}

// NewGate создаёт Gate.
func NewGate(verifier *Verifier, evaluator *Evaluator) *Gate {
	return &Gate{
		verifier:  verifier,
		evaluator: evaluator,
	}
}

// Authenticate проверяет заголовок Authorization.
func (g *Gate) Authenticate(ctx context.Context, authorizationHeader string) (*models.Account, error) {
	return g.verifier.Verify(ctx, authorizationHeader)
}

// RequireSubscription требует активную и не истёкшую подписку.
func (g *Gate) RequireSubscription(ctx context.Context, account *models.Account) error {
	return g.evaluator.CheckActive(ctx, account)
}

// RequireRole требует, чтобы роль учётной записи входила в allowed.
func (g *Gate) RequireRole(account *models.Account, allowed ...models.Role) error {
	if !HasRole(account.Role, allowed...) {
		return fmt.Errorf("access.RequireRole: %w", ErrForbidden)
	}
	return nil
}

// EffectiveTier обновляет статус подписки (ленивое истечение) и возвращает
// действующий уровень учётной записи.
func (g *Gate) EffectiveTier(ctx context.Context, account *models.Account) (models.Tier, error) {
	if _, err := g.evaluator.Refresh(ctx, account); err != nil {
		return "", err
	}
	return EffectiveTier(account, g.evaluator.Now()), nil
}

// AuthorizeContent проверяет доступ учётной записи к ресурсу уровня level.
// Истёкшая подписка сначала переводится в expired и считается уровнем free.
func (g *Gate) AuthorizeContent(ctx context.Context, account *models.Account, level models.Tier) error {
	tier, err := g.EffectiveTier(ctx, account)
	if err != nil {
		return err
	}
	if !CanAccess(tier, level) {
		return fmt.Errorf("access.AuthorizeContent: %w", &TierError{Required: level, Actual: tier})
	}
	return nil
}
