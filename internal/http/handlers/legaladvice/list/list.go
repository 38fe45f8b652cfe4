// Package list реализует HTTP-обработчик списка обращений владельца.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Service описывает чтение списка обращений.
type Service interface {
	List(ctx context.Context, accountID string) ([]models.LegalAdvice, error)
}

// Handler обрабатывает GET /legal-advice.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обращения за консультацией
// @Tags LegalAdvice
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.LegalAdvice}
// @Failure 401 {object} response.ErrorResponse
// @Router /legal-advice [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.legaladvice.list"
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

	items, err := h.service.List(r.Context(), account.ID)
	if err != nil {
		log.Error("failed to list legal advice", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}
