// Package respond реализует HTTP-обработчик ответа консультанта на обращение.
package respond

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
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	adviceservice "github.com/magabrotheeeer/mining-consultancy/internal/services/legaladvice"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

// Request текст ответа и новый статус обращения.
type Request struct {
	Content string `json:"content" validate:"required"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=pending in-progress resolved closed"`
}

// Service описывает добавление ответа.
type Service interface {
	Respond(ctx context.Context, id string, responder *models.Account, content, status string) (*models.LegalAdvice, error)
}

// Handler обрабатывает POST /legal-advice/{id}/responses.
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
// @Summary Ответить на обращение
// @Description Доступно только администраторам.
// @Tags LegalAdvice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID обращения"
// @Param request body Request true "Ответ"
// @Success 201 {object} response.Response{data=models.LegalAdvice}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Access denied"
// @Failure 404 {object} response.ErrorResponse "Legal advice not found"
// @Router /legal-advice/{id}/responses [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.legaladvice.respond"
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

	advice, err := h.service.Respond(r.Context(), chi.URLParam(r, "id"), account, req.Content, req.Status)
	switch {
	case errors.Is(err, adviceservice.ErrInvalidUpdates):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid updates"))
		return
	case errors.Is(err, storage.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Legal advice not found"))
		return
	case err != nil:
		log.Error("failed to add response", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("legal advice answered",
		slog.String("advice_id", advice.ID),
		slog.String("responder_id", account.ID),
	)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(advice))
}
