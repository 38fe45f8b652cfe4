// Package create реализует HTTP-обработчик добавления электронной книги в каталог.
// Маршрут доступен только роли admin.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Request данные новой книги. Файл задаётся ключом в бакете или внешней ссылкой.
type Request struct {
	Title       string      `json:"title" validate:"required,max=300"`
	Description string      `json:"description" validate:"required"`
	Author      string      `json:"author" validate:"required"`
	Category    string      `json:"category" validate:"required,oneof=mining_techniques safety_guidelines environmental_compliance legal_framework equipment_maintenance other"`
	FileKey     string      `json:"file_key" validate:"required_without=FileURL"`
	FileURL     string      `json:"file_url" validate:"omitempty,url"`
	CoverImage  string      `json:"cover_image" validate:"omitempty,url"`
	AccessLevel models.Tier `json:"access_level" validate:"omitempty,oneof=free basic premium"`
	FileSize    int64       `json:"file_size" validate:"gte=0"`
	FileFormat  string      `json:"file_format" validate:"required,oneof=pdf epub mobi"`
	Tags        []string    `json:"tags"`
}

// Service описывает добавление книги.
type Service interface {
	Create(ctx context.Context, ebook *models.Ebook) error
}

// Handler обрабатывает POST /ebooks.
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
// @Summary Добавить книгу
// @Tags Ebooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Книга"
// @Success 201 {object} response.Response{data=models.Ebook}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Access denied"
// @Router /ebooks [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ebook.create"
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

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	ebook := &models.Ebook{
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
		Category:    req.Category,
		FileKey:     req.FileKey,
		FileURL:     req.FileURL,
		CoverImage:  req.CoverImage,
		AccessLevel: req.AccessLevel,
		FileSize:    req.FileSize,
		FileFormat:  req.FileFormat,
		Tags:        tags,
		Ratings:     []models.Rating{},
	}
	if err := h.service.Create(r.Context(), ebook); err != nil {
		log.Error("failed to create ebook", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	log.Info("ebook created", slog.String("ebook_id", ebook.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(ebook))
}
