// Package login реализует HTTP-обработчик входа по email и паролю.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	accountservice "github.com/magabrotheeeer/mining-consultancy/internal/services/account"
)

// Request входные данные для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.Account, error)
}

// Handler обрабатывает POST /auth/login.
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
// @Summary Вход
// @Description Проверяет email и пароль и возвращает токен.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.Response{data=register.Result}
// @Failure 400 {object} response.ErrorResponse "Invalid credentials"
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	token, account, err := h.service.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, accountservice.ErrInvalidCredentials) {
		log.Info("invalid credentials")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid credentials"))
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("account logged in", slog.String("account_id", account.ID))
	render.JSON(w, r, response.OKWithData(register.Result{Token: token, User: account.View()}))
}
