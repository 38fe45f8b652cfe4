// Package update реализует HTTP-обработчик частичного обновления плана горных работ.
//
// Тело запроса: объект с изменяемыми полями. Ключ вне списка разрешённых
// отклоняет всё обновление.
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
	planservice "github.com/magabrotheeeer/mining-consultancy/internal/services/miningplan"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

// Service описывает обновление плана.
type Service interface {
	Update(ctx context.Context, id, accountID string, updates map[string]json.RawMessage) (*models.MiningPlan, error)
}

// Handler обрабатывает PATCH /mining-plans/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить план горных работ
// @Description Разрешены title, description, location, mine_type, mineral_type, estimated_production, timeline, status.
// @Tags MiningPlans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID плана"
// @Param request body object true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.MiningPlan}
// @Failure 400 {object} response.ErrorResponse "Invalid updates"
// @Failure 403 {object} response.ErrorResponse "Active subscription required"
// @Failure 404 {object} response.ErrorResponse "Mining plan not found"
// @Router /mining-plans/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.miningplan.update"
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

	plan, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), account.ID, updates)
	switch {
	case errors.Is(err, planservice.ErrInvalidUpdates):
		log.Info("invalid updates", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid updates"))
		return
	case errors.Is(err, storage.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Mining plan not found"))
		return
	case err != nil:
		log.Error("failed to update mining plan", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("mining plan updated", slog.String("plan_id", plan.ID))
	render.JSON(w, r, response.OKWithData(plan))
}
