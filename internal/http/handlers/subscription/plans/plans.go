// Package plans реализует HTTP-обработчик списка тарифных планов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Handler обрабатывает GET /subscriptions/plans.
type Handler struct {
	log   *slog.Logger
	plans []models.Plan
}

// New создает новый Handler со списком планов.
func New(log *slog.Logger, plans []models.Plan) *Handler {
	return &Handler{log: log, plans: plans}
}

// ServeHTTP godoc
// @Summary Тарифные планы
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Plan}
// @Router /subscriptions/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(h.plans))
}
