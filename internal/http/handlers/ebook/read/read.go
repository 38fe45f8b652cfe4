// Package read реализует HTTP-обработчик карточки электронной книги.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/metrics"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

// Service описывает чтение книги.
type Service interface {
	Get(ctx context.Context, id string) (*models.Ebook, error)
}

// Gate проверяет доступ к контенту по уровню подписки.
type Gate interface {
	AuthorizeContent(ctx context.Context, account *models.Account, level models.Tier) error
}

// Handler обрабатывает GET /ebooks/{id}.
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
// @Summary Электронная книга
// @Tags Ebooks
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID книги"
// @Success 200 {object} response.Response{data=models.Ebook}
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Premium subscription required"
// @Failure 404 {object} response.ErrorResponse "E-book not found"
// @Router /ebooks/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ebook.read"
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

	ebook, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
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

	render.JSON(w, r, response.OKWithData(ebook))
}
