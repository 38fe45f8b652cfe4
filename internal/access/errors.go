package access

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Внутренние причины отказа. Наружу несколько причин сворачиваются в одно сообщение,
// но errors.Is различает их для логов и тестов.
var (
	ErrMissingToken         = errors.New("access: missing bearer token")
	ErrInvalidToken         = errors.New("access: invalid token")
	ErrAccountNotFound      = errors.New("access: account not found")
	ErrSubscriptionRequired = errors.New("access: active subscription required")
	ErrSubscriptionExpired  = errors.New("access: subscription expired")
	ErrForbidden            = errors.New("access: role not allowed")
	ErrInsufficientTier     = errors.New("access: insufficient subscription tier")
	ErrPersistence          = errors.New("access: persistence failure")
)

// Kind класс ошибки доступа.
type Kind string

// Классы ошибок доступа.
const (
	KindNone                  Kind = ""
	KindAuthenticationFailure Kind = "authentication"
	KindSubscriptionInactive  Kind = "subscription"
	KindRoleDenied            Kind = "role"
	KindTierDenied            Kind = "tier"
	KindPersistenceFailure    Kind = "persistence"
)

// Сообщения, которые видит клиент.
const (
	MsgPleaseAuthenticate   = "Please authenticate"
	MsgSubscriptionRequired = "Active subscription required"
	MsgSubscriptionExpired  = "Subscription expired"
	MsgAccessDenied         = "Access denied"
	MsgServerError          = "Server error"
)

// TierError отказ по уровню подписки. Required: уровень доступа ресурса.
type TierError struct {
	Required models.Tier
	Actual   models.Tier
}

func (e *TierError) Error() string {
	return fmt.Sprintf("access: tier %q cannot access %q content", e.Actual, e.Required)
}

// Is позволяет сравнивать TierError с ErrInsufficientTier.
func (e *TierError) Is(target error) bool {
	return target == ErrInsufficientTier
}

// KindOf определяет класс ошибки доступа.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrPersistence):
		return KindPersistenceFailure
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrAccountNotFound):
		return KindAuthenticationFailure
	case errors.Is(err, ErrSubscriptionRequired), errors.Is(err, ErrSubscriptionExpired):
		return KindSubscriptionInactive
	case errors.Is(err, ErrForbidden):
		return KindRoleDenied
	case errors.Is(err, ErrInsufficientTier):
		return KindTierDenied
	default:
		return KindPersistenceFailure
	}
}

// HTTPStatus возвращает HTTP-статус для ошибки доступа.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNone:
		return http.StatusOK
	case KindAuthenticationFailure:
		return http.StatusUnauthorized
	case KindSubscriptionInactive, KindRoleDenied, KindTierDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage возвращает фиксированное сообщение для клиента без деталей причины.
func PublicMessage(err error) string {
	switch KindOf(err) {
	case KindAuthenticationFailure:
		return MsgPleaseAuthenticate
	case KindSubscriptionInactive:
		if errors.Is(err, ErrSubscriptionExpired) {
			return MsgSubscriptionExpired
		}
		return MsgSubscriptionRequired
	case KindRoleDenied:
		return MsgAccessDenied
	case KindTierDenied:
		var tierErr *TierError
		if errors.As(err, &tierErr) {
			switch tierErr.Required {
			case models.TierPremium:
				return "Premium subscription required"
			case models.TierBasic:
				return "Basic subscription required"
			}
		}
		return MsgAccessDenied
	case KindNone:
		return ""
	default:
		return MsgServerError
	}
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
