// Package update реализует HTTP-обработчик изменения обращения владельцем.
// Статус меняет только консультант через ответ на обращение.
package update

import (
	"context"
	"encoding/json"
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
	adviceservice "github.com/magabrotheeeer/mining-consultancy/internal/services/legaladvice"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

// Service описывает изменение обращения.
type Service interface {
	Update(ctx context.Context, id, accountID string, updates map[string]json.RawMessage) (*models.LegalAdvice, error)
}

// Handler обрабатывает PATCH /legal-advice/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменить обращение
// @Description Разрешены title, description, category, priority.
// @Tags LegalAdvice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID обращения"
// @Param request body object true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.LegalAdvice}
// @Failure 400 {object} response.ErrorResponse "Invalid updates"
// @Failure 404 {object} response.ErrorResponse "Legal advice not found"
// @Router /legal-advice/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.legaladvice.update"
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

	var updates map[string]json.RawMessage
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	advice, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), account.ID, updates)
	switch {
	case errors.Is(err, adviceservice.ErrInvalidUpdates):
		log.Info("invalid updates", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid updates"))
		return
	case errors.Is(err, storage.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Legal advice not found"))
		return
	case err != nil:
		log.Error("failed to update legal advice", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(advice))
}
