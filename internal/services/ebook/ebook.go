// Package services содержит каталог электронных книг с кешированием в redis.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// ErrInvalidRating оценка вне диапазона 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// EbookRepository хранилище электронных книг.
type EbookRepository interface {
	CreateEbook(ctx context.Context, e *models.Ebook) error
	GetEbook(ctx context.Context, id string) (*models.Ebook, error)
	ListEbooks(ctx context.Context, levels []models.Tier) ([]models.Ebook, error)
	RecordDownload(ctx context.Context, ebookID, accountID string) error
	UpsertRating(ctx context.Context, ebookID string, r models.Rating) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Presigner выдаёт временные ссылки на файлы в объектном хранилище.
type Presigner interface {
	PresignDownload(ctx context.Context, key string) (string, error)
}

// EbookService реализует каталог книг. Ошибки кеша не прерывают запрос.
type EbookService struct {
	repo      EbookRepository
	cache     Cache
	presigner Presigner
	log       *slog.Logger
	now       func() time.Time
}

// NewEbookService создает новый экземпляр EbookService. cache и presigner могут быть nil.
func NewEbookService(repo EbookRepository, cache Cache, presigner Presigner, log *slog.Logger) *EbookService {
	return &EbookService{
		repo:      repo,
		cache:     cache,
		presigner: presigner,
		log:       log,
		now:       time.Now,
	}
}

// cachedEbook сохраняет расположение файла, которое не попадает в JSON книги.
type cachedEbook struct {
	models.Ebook
	FileKey string `json:"file_key,omitempty"`
	FileURL string `json:"file_url,omitempty"`
}

func listKey(tier models.Tier) string {
	return "ebooks:list:" + string(tier)
}

func itemKey(id string) string {
	return "ebooks:" + id
}

// List возвращает книги, доступные уровню tier, новые первыми.
func (s *EbookService) List(ctx context.Context, tier models.Tier) ([]models.Ebook, error) {
	const op = "services.ebook.List"

	var cached []models.Ebook
	if s.fromCache(ctx, listKey(tier), &cached) {
		return cached, nil
	}

	ebooks, err := s.repo.ListEbooks(ctx, models.LevelsFor(tier))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, listKey(tier), ebooks)
	return ebooks, nil
}

// Get возвращает книгу с оценками.
func (s *EbookService) Get(ctx context.Context, id string) (*models.Ebook, error) {
	const op = "services.ebook.Get"

	var cached cachedEbook
	if s.fromCache(ctx, itemKey(id), &cached) {
		ebook := cached.Ebook
		ebook.FileKey, ebook.FileURL = cached.FileKey, cached.FileURL
		return &ebook, nil
	}

	ebook, err := s.repo.GetEbook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, itemKey(id), cachedEbook{Ebook: *ebook, FileKey: ebook.FileKey, FileURL: ebook.FileURL})
	return ebook, nil
}

// DownloadURL учитывает скачивание и возвращает ссылку на файл книги.
// Проверка уровня доступа выполняется вызывающим.
func (s *EbookService) DownloadURL(ctx context.Context, ebook *models.Ebook, accountID string) (string, error) {
	const op = "services.ebook.DownloadURL"

	if err := s.repo.RecordDownload(ctx, ebook.ID, accountID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if ebook.FileKey == "" || s.presigner == nil {
		return ebook.FileURL, nil
	}
	url, err := s.presigner.PresignDownload(ctx, ebook.FileKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return url, nil
}

// Rate заменяет оценку учётной записи и возвращает книгу с обновлёнными оценками.
func (s *EbookService) Rate(ctx context.Context, ebookID, accountID string, rating int, review string) (*models.Ebook, error) {
	const op = "services.ebook.Rate"

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRating)
	}
	err := s.repo.UpsertRating(ctx, ebookID, models.Rating{
		AccountID: accountID,
		Rating:    rating,
		Review:    review,
		Date:      s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, itemKey(ebookID))

	ebook, err := s.repo.GetEbook(ctx, ebookID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ebook, nil
}

// Create добавляет книгу в каталог.
func (s *EbookService) Create(ctx context.Context, ebook *models.Ebook) error {
	const op = "services.ebook.Create"

	now := s.now().UTC()
	ebook.ID = uuid.NewString()
	if ebook.AccessLevel == "" {
		ebook.AccessLevel = models.TierFree
	}
	if ebook.PublishDate.IsZero() {
		ebook.PublishDate = now
	}
	ebook.LastUpdated = now

	if err := s.repo.CreateEbook(ctx, ebook); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx,
		listKey(models.TierFree),
		listKey(models.TierBasic),
		listKey(models.TierPremium),
	)
	return nil
}

func (s *EbookService) fromCache(ctx context.Context, key string, result any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *EbookService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn("cache write failed", slog.String("key", key), sl.Err(err))
	}
}

func (s *EbookService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
}
