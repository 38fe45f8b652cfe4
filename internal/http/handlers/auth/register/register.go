// Package register реализует HTTP-обработчик регистрации учётной записи.
//
// Новая учётная запись получает роль user и пробную подписку free; в ответе
// возвращается токен и публичное представление учётной записи.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/password"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	accountservice "github.com/magabrotheeeer/mining-consultancy/internal/services/account"
)

// Request входные данные для регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
}

// Result ответ на успешную регистрацию или вход.
type Result struct {
	Token string             `json:"token"`
	User  models.AccountView `json:"user"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, in accountservice.RegisterInput) (string, *models.Account, error)
}

// Handler обрабатывает POST /auth/register.
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
// @Summary Регистрация
// @Description Создаёт учётную запись с пробной подпиской и возвращает токен.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные регистрации"
// @Success 201 {object} response.Response{data=Result}
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или email занят"
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
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

	token, account, err := h.service.Register(r.Context(), accountservice.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if msg, ok := rejection(err); ok {
		log.Info("registration rejected", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msg))
		return
	}
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("account registered", slog.String("account_id", account.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(Result{Token: token, User: account.View()}))
}

func rejection(err error) (string, bool) {
	if errors.Is(err, accountservice.ErrEmailTaken) {
		return "Email already registered", true
	}
	for _, target := range []error{accountservice.ErrInvalidName, password.ErrTooShort, password.ErrTooWeak} {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	return "", false
}
