// Package remove реализует HTTP-обработчик удаления обращения.
package remove

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
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

// Service описывает удаление обращения.
type Service interface {
	Delete(ctx context.Context, id, accountID string) error
}

// Handler обрабатывает DELETE /legal-advice/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить обращение
// @Tags LegalAdvice
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID обращения"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Legal advice not found"
// @Router /legal-advice/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.legaladvice.remove"
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

	id := chi.URLParam(r, "id")
	err := h.service.Delete(r.Context(), id, account.ID)
	if errors.Is(err, storage.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Legal advice not found"))
		return
	}
	if err != nil {
		log.Error("failed to delete legal advice", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("legal advice deleted", slog.String("advice_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Legal advice deleted",
	}))
}
