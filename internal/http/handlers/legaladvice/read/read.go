// Package read реализует HTTP-обработчик чтения обращения вместе с ответами.
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
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

// Service описывает чтение обращения.
type Service interface {
	Get(ctx context.Context, id, accountID string) (*models.LegalAdvice, error)
}

// Handler обрабатывает GET /legal-advice/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обращение за консультацией
// @Tags LegalAdvice
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID обращения"
// @Success 200 {object} response.Response{data=models.LegalAdvice}
// @Failure 404 {object} response.ErrorResponse "Legal advice not found"
// @Router /legal-advice/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.legaladvice.read"
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

	advice, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), account.ID)
	if errors.Is(err, storage.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Legal advice not found"))
		return
	}
	if err != nil {
		log.Error("failed to get legal advice", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(advice))
}
