package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-consultancy/internal/access"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/metrics"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

const outcomeAllowed = "allowed"

// Gate описывает проверки политики доступа.
type Gate interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*models.Account, error)
	RequireSubscription(ctx context.Context, account *models.Account) error
	RequireRole(account *models.Account, allowed ...models.Role) error
}

// Authenticate проверяет заголовок Authorization и кладёт учётную запись в контекст.
// Любая причина отказа даёт 401 {"error":"Please authenticate"}.
func Authenticate(log *slog.Logger, gate Gate, rec metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			account, err := gate.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				deny(w, r, log, rec, metrics.CheckAuthentication, err)
				return
			}
			rec.AccessDecision(metrics.CheckAuthentication, outcomeAllowed)

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// RequireSubscription пропускает только учётные записи с активной и не истёкшей подпиской.
func RequireSubscription(log *slog.Logger, gate Gate, rec metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSubscription"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			account, ok := AccountFromContext(r.Context())
			if !ok {
				deny(w, r, log, rec, metrics.CheckSubscription, access.ErrMissingToken)
				return
			}
			if err := gate.RequireSubscription(r.Context(), account); err != nil {
				deny(w, r, log, rec, metrics.CheckSubscription, err)
				return
			}
			rec.AccessDecision(metrics.CheckSubscription, outcomeAllowed)

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole пропускает только учётные записи с одной из ролей roles.
func RequireRole(log *slog.Logger, gate Gate, rec metrics.Recorder, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			account, ok := AccountFromContext(r.Context())
			if !ok {
				deny(w, r, log, rec, metrics.CheckRole, access.ErrMissingToken)
				return
			}
			if err := gate.RequireRole(account, roles...); err != nil {
				deny(w, r, log, rec, metrics.CheckRole, err)
				return
			}
			rec.AccessDecision(metrics.CheckRole, outcomeAllowed)

			next.ServeHTTP(w, r)
		})
	}
}

// Deny пишет ответ с отказом доступа: статус и сообщение определяются классом ошибки.
// Используется также обработчиками, которые проверяют уровень контента.
func Deny(w http.ResponseWriter, r *http.Request, log *slog.Logger, rec metrics.Recorder, err error) {
	deny(w, r, log, rec, metrics.CheckTier, err)
}

func deny(w http.ResponseWriter, r *http.Request, log *slog.Logger, rec metrics.Recorder, check string, err error) {
	kind := access.KindOf(err)
	if kind == access.KindPersistenceFailure {
		log.Error("access check failed", slog.String("check", check), sl.Err(err))
	} else {
		log.Info("access denied", slog.String("check", check), slog.String("kind", string(kind)), sl.Err(err))
	}
	rec.AccessDecision(check, string(kind))

	render.Status(r, access.HTTPStatus(err))
	render.JSON(w, r, response.Error(access.PublicMessage(err)))
}
