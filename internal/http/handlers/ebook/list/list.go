// Package list реализует HTTP-обработчик каталога электронных книг.
//
// Каталог фильтруется по действующему уровню подписки: истёкшая подписка
// сначала переводится в expired и видит только бесплатные книги.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/metrics"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Result каталог и уровень, по которому он отфильтрован.
type Result struct {
	Tier   models.Tier    `json:"tier"`
	Ebooks []models.Ebook `json:"ebooks"`
}

// Service описывает чтение каталога.
type Service interface {
	List(ctx context.Context, tier models.Tier) ([]models.Ebook, error)
}

// Gate вычисляет действующий уровень подписки.
type Gate interface {
	EffectiveTier(ctx context.Context, account *models.Account) (models.Tier, error)
}

// Handler обрабатывает GET /ebooks.
type Handler struct {
	log     *slog.Logger
	service Service
	gate    Gate
	rec     metrics.Recorder
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, gate Gate, rec metrics.Recorder) *Handler {
	return &Handler{log: log, service: service, gate: gate, rec: rec}
}

// ServeHTTP godoc
// @Summary Каталог электронных книг
// @Tags Ebooks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Result}
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /ebooks [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ebook.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	account, ok := middlewarectx.AccountFromContext(r.Context())
	if !ok {
		log.Error("account not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Please authenticate"))
		return
	}

	tier, err := h.gate.EffectiveTier(r.Context(), account)
	if err != nil {
		middlewarectx.Deny(w, r, log, h.rec, err)
		return
	}

	ebooks, err := h.service.List(r.Context(), tier)
	if err != nil {
		log.Error("failed to list ebooks", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(Result{Tier: tier, Ebooks: ebooks}))
}
