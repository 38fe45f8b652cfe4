// Package order реализует HTTP-обработчик создания заказа на оплату подписки.
package order

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	subservice "github.com/magabrotheeeer/mining-consultancy/internal/services/subscription"
)

// Request выбранный тарифный план.
type Request struct {
	PlanID models.Tier `json:"plan_id" validate:"required"`
}

// Service описывает создание заказа.
type Service interface {
	CreateOrder(ctx context.Context, account *models.Account, planID models.Tier) (*subservice.OrderResult, error)
}

// Handler обрабатывает POST /subscriptions/orders.
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
// @Summary Создать заказ
// @Description Создаёт заказ Razorpay на стоимость выбранного плана.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "План"
// @Success 200 {object} response.Response{data=subservice.OrderResult}
// @Failure 400 {object} response.ErrorResponse "Invalid plan selected"
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /subscriptions/orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.order"
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

	res, err := h.service.CreateOrder(r.Context(), account, req.PlanID)
	if errors.Is(err, subservice.ErrInvalidPlan) {
		log.Info("invalid plan", slog.String("plan_id", string(req.PlanID)))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid plan selected"))
		return
	}
	if err != nil {
		log.Error("failed to create order", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Error creating order"))
		return
	}

	log.Info("order created", slog.String("order_id", res.Order.ID))
	render.JSON(w, r, response.OKWithData(res))
}
