package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация описания API для /docs.
	_ "github.com/magabrotheeeer/mining-consultancy/docs"

	"github.com/magabrotheeeer/mining-consultancy/internal/config"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/auth/register"
	ebookcreate "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/ebook/create"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/ebook/download"
	ebooklist "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/ebook/list"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/ebook/rate"
	ebookread "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/ebook/read"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/health"
	advicecreate "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/legaladvice/create"
	advicelist "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/legaladvice/list"
	adviceread "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/legaladvice/read"
	adviceremove "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/legaladvice/remove"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/legaladvice/respond"
	adviceupdate "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/legaladvice/update"
	plancreate "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/miningplan/create"
	planlist "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/miningplan/list"
	planread "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/miningplan/read"
	planremove "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/miningplan/remove"
	planupdate "github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/miningplan/update"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/subscription/order"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/subscription/payments"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/subscription/plans"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/subscription/verify"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/metrics"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	accountservice "github.com/magabrotheeeer/mining-consultancy/internal/services/account"
	ebookservice "github.com/magabrotheeeer/mining-consultancy/internal/services/ebook"
	adviceservice "github.com/magabrotheeeer/mining-consultancy/internal/services/legaladvice"
	planservice "github.com/magabrotheeeer/mining-consultancy/internal/services/miningplan"
	subservice "github.com/magabrotheeeer/mining-consultancy/internal/services/subscription"
)

// Gate политика доступа, нужная маршрутам.
type Gate interface {
	middlewarectx.Gate
	ebooklist.Gate
	ebookread.Gate
}

// Deps зависимости маршрутов.
type Deps struct {
	Logger    *slog.Logger
	Gate      Gate
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
	Limiter   *middlewarectx.Limiter
	Origins   []string
	Accounts  *accountservice.Service
	Subs      *subservice.SubscriptionService
	Ebooks    *ebookservice.EbookService
	Plans     *planservice.MiningPlanService
	Advice    *adviceservice.LegalAdviceService
	Readiness map[string]health.Pinger
}

func newLimiter(cfg config.HTTPServer) *middlewarectx.Limiter {
	return middlewarectx.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

// RegisterRoutes регистрирует все маршруты приложения.
//
// Проверки доступа выполняются в порядке: аутентификация, подписка, роль,
// уровень контента. Уровень проверяют обработчики книг после загрузки книги.
func RegisterRoutes(r chi.Router, d Deps) {
	log := d.Logger
	rec := d.Metrics

	// Глобальные middleware. RateLimit стоит до RealIP: лимит считается по
	// адресу сокета, а не по заголовкам X-Forwarded-For и X-Real-IP.
	r.Use(
		middleware.RequestID,
		middlewarectx.RateLimit(log, d.Limiter),
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		rec.Middleware,
		cors.New(cors.Options{
			AllowedOrigins: d.Origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}).Handler,
	)

	authenticate := middlewarectx.Authenticate(log, d.Gate, rec)
	subscribed := middlewarectx.RequireSubscription(log, d.Gate, rec)
	adminOnly := middlewarectx.RequireRole(log, d.Gate, rec, models.RoleAdmin)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"message": "Mining Consultancy API"})
	})
	r.Get("/health", health.New(log, d.Readiness).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", register.New(log, d.Accounts).ServeHTTP)
			r.Post("/login", login.New(log, d.Accounts).ServeHTTP)
			r.With(authenticate).Get("/me", me.New(log).ServeHTTP)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/plans", plans.New(log, subservice.Plans()).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/orders", order.New(log, d.Subs).ServeHTTP)
				r.Post("/verify", verify.New(log, d.Subs).ServeHTTP)
				r.Get("/payments", payments.New(log, d.Subs).ServeHTTP)
			})
		})

		r.Route("/ebooks", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", ebooklist.New(log, d.Ebooks, d.Gate, rec).ServeHTTP)
			r.Get("/{id}", ebookread.New(log, d.Ebooks, d.Gate, rec).ServeHTTP)
			r.Post("/{id}/download", download.New(log, d.Ebooks, d.Gate, rec).ServeHTTP)
			r.Post("/{id}/rate", rate.New(log, d.Ebooks, d.Gate, rec).ServeHTTP)
			r.With(adminOnly).Post("/", ebookcreate.New(log, d.Ebooks).ServeHTTP)
		})

		r.Route("/mining-plans", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", planlist.New(log, d.Plans).ServeHTTP)
			r.Get("/{id}", planread.New(log, d.Plans).ServeHTTP)
			r.Delete("/{id}", planremove.New(log, d.Plans).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(subscribed)
				r.Post("/", plancreate.New(log, d.Plans).ServeHTTP)
				r.Patch("/{id}", planupdate.New(log, d.Plans).ServeHTTP)
			})
		})

		r.Route("/legal-advice", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", advicelist.New(log, d.Advice).ServeHTTP)
			r.Get("/{id}", adviceread.New(log, d.Advice).ServeHTTP)
			r.Delete("/{id}", adviceremove.New(log, d.Advice).ServeHTTP)
			r.With(adminOnly).Post("/{id}/responses", respond.New(log, d.Advice).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(subscribed)
				r.Post("/", advicecreate.New(log, d.Advice).ServeHTTP)
				r.Patch("/{id}", adviceupdate.New(log, d.Advice).ServeHTTP)
			})
		})
	})
}
