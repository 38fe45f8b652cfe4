// Package create реализует HTTP-обработчик создания плана горных работ.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	planservice "github.com/magabrotheeeer/mining-consultancy/internal/services/miningplan"
)

// Request данные нового плана.
type Request struct {
	Title               string     `json:"title" validate:"required,max=200"`
	Description         string     `json:"description" validate:"required"`
	Location            string     `json:"location" validate:"required"`
	MineType            string     `json:"mine_type" validate:"required,oneof=opencast underground hybrid"`
	MineralType         string     `json:"mineral_type" validate:"required"`
	EstimatedProduction Production `json:"estimated_production"`
	Timeline            Timeline   `json:"timeline"`
}

// Production плановый объём добычи.
type Production struct {
	Value float64 `json:"value" validate:"gte=0"`
	Unit  string  `json:"unit" validate:"omitempty,oneof=tons kg"`
}

// Timeline сроки работ.
type Timeline struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Service описывает создание плана.
type Service interface {
	Create(ctx context.Context, accountID string, p *models.MiningPlan) error
}

// Handler обрабатывает POST /mining-plans.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать план горных работ
// @Tags MiningPlans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "План"
// @Success 201 {object} response.Response{data=models.MiningPlan}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Active subscription required"
// @Router /mining-plans [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.miningplan.create"
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

	plan := &models.MiningPlan{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		MineType:    req.MineType,
		MineralType: req.MineralType,
		EstimatedProduction: models.Production{
			Value: req.EstimatedProduction.Value,
			Unit:  req.EstimatedProduction.Unit,
		},
		Timeline: models.Timeline{
			StartDate: req.Timeline.StartDate,
			EndDate:   req.Timeline.EndDate,
		},
	}
	err := h.service.Create(r.Context(), account.ID, plan)
	if errors.Is(err, planservice.ErrInvalidUpdates) {
		log.Info("plan rejected", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid mining plan"))
		return
	}
	if err != nil {
		log.Error("failed to create mining plan", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("mining plan created", slog.String("plan_id", plan.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(plan))
}
