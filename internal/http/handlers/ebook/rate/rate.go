// Package rate реализует HTTP-обработчик оценки электронной книги.
package rate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/metrics"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

// Request оценка и необязательный отзыв.
type Request struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"max=1000"`
}

// Service описывает чтение и оценку книги.
type Service interface {
	Get(ctx context.Context, id string) (*models.Ebook, error)
	Rate(ctx context.Context, ebookID, accountID string, rating int, review string) (*models.Ebook, error)
}

// Gate проверяет доступ к контенту по уровню подписки.
type Gate interface {
	AuthorizeContent(ctx context.Context, account *models.Account, level models.Tier) error
}

// Handler обрабатывает POST /ebooks/{id}/rate.
type Handler struct {
	log      *slog.Logger
	service  Service
	gate     Gate
	rec      metrics.Recorder
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, gate Gate, rec metrics.Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		gate:     gate,
		rec:      rec,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оценить книгу
// @Description Заменяет предыдущую оценку учётной записи.
// @Tags Ebooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID книги"
// @Param request body Request true "Оценка"
// @Success 200 {object} response.Response{data=models.Ebook}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "E-book not found"
// @Router /ebooks/{id}/rate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ebook.rate"
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

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id := chi.URLParam(r, "id")
	ebook, err := h.service.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("E-book not found"))
		return
	}
	if err != nil {
		log.Error("failed to get ebook", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}
	if err = h.gate.AuthorizeContent(r.Context(), account, ebook.AccessLevel); err != nil {
		middlewarectx.Deny(w, r, log, h.rec, err)
		return
	}

	rated, err := h.service.Rate(r.Context(), id, account.ID, req.Rating, req.Review)
	if err != nil {
		log.Error("failed to rate ebook", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(rated))
}
