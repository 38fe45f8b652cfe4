// Package create реализует HTTP-обработчик нового обращения за юридической консультацией.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Request данные обращения.
type Request struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=environmental licensing safety labor other"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// Service описывает создание обращения.
type Service interface {
	Create(ctx context.Context, accountID string, a *models.LegalAdvice) error
}

// Handler обрабатывает POST /legal-advice.
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
// @Summary Создать обращение за консультацией
// @Tags LegalAdvice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Обращение"
// @Success 201 {object} response.Response{data=models.LegalAdvice}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Active subscription required"
// @Router /legal-advice [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.legaladvice.create"
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

	advice := &models.LegalAdvice{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	if err := h.service.Create(r.Context(), account.ID, advice); err != nil {
		log.Error("failed to create legal advice", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("legal advice created", slog.String("advice_id", advice.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(advice))
}
