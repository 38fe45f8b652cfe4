// Package verify реализует HTTP-обработчик подтверждения оплаты подписки.
//
// Подпись Razorpay проверяется до записи платежа; после записи подписка
// учётной записи становится активной на срок плана.
package verify

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

// Request данные, которые форма оплаты возвращает клиенту.
type Request struct {
	OrderID   string      `json:"razorpay_order_id" validate:"required"`
	PaymentID string      `json:"razorpay_payment_id" validate:"required"`
	Signature string      `json:"razorpay_signature" validate:"required"`
	PlanID    models.Tier `json:"plan_id" validate:"required"`
}

// Result активированная подписка.
type Result struct {
	Message      string              `json:"message"`
	Subscription models.Subscription `json:"subscription"`
}

// Service описывает подтверждение оплаты.
type Service interface {
	Verify(ctx context.Context, account *models.Account, in subservice.VerifyInput) (*models.Payment, error)
}

// Handler обрабатывает POST /subscriptions/verify.
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
// @Summary Подтвердить оплату
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Данные платежа"
// @Success 200 {object} response.Response{data=Result}
// @Failure 400 {object} response.ErrorResponse "Payment verification failed"
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Payment already processed"
// @Failure 500 {object} response.ErrorResponse
// @Router /subscriptions/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.verify"
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

	_, err := h.service.Verify(r.Context(), account, subservice.VerifyInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		PlanID:    req.PlanID,
	})
	switch {
	case errors.Is(err, subservice.ErrPaymentVerification):
		log.Warn("payment signature mismatch", slog.String("order_id", req.OrderID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Payment verification failed"))
		return
	case errors.Is(err, subservice.ErrInvalidPlan):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid plan selected"))
		return
	case errors.Is(err, subservice.ErrPaymentProcessed):
		log.Info("payment already processed", slog.String("payment_id", req.PaymentID))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("Payment already processed"))
		return
	case err != nil:
		log.Error("failed to verify payment", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("subscription activated", slog.String("plan", string(req.PlanID)))
	render.JSON(w, r, response.OKWithData(Result{
		Message:      "Payment verified successfully",
		Subscription: account.Subscription,
	}))
}
