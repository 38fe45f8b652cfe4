package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

const ebookColumns = `id, title, description, author, category, file_key, file_url, cover_image,
	access_level, file_size, file_format, tags, publish_date, last_updated`

// rowScanner общий интерфейс *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateEbook сохраняет новую электронную книгу.
func (s *Storage) CreateEbook(ctx context.Context, e *models.Ebook) error {
	const op = "storage.CreateEbook"

	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := s.DB.ExecContext(ctx, `INSERT INTO ebooks (`+ebookColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.Title, e.Description, e.Author, e.Category, e.FileKey, e.FileURL, e.CoverImage,
		e.AccessLevel, e.FileSize, e.FileFormat, tags, e.PublishDate, e.LastUpdated)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetEbook возвращает книгу вместе с оценками.
func (s *Storage) GetEbook(ctx context.Context, id string) (*models.Ebook, error) {
	const op = "storage.GetEbook"

	e, err := scanEbook(s.DB.QueryRowContext(ctx, `SELECT `+ebookColumns+` FROM ebooks WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	e.Ratings, err = s.listRatings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListEbooks возвращает книги с уровнем доступа из levels, новые первыми.
// Оценки в список не входят.
func (s *Storage) ListEbooks(ctx context.Context, levels []models.Tier) ([]models.Ebook, error) {
	const op = "storage.ListEbooks"

	levelNames := make([]string, 0, len(levels))
	for _, l := range levels {
		levelNames = append(levelNames, string(l))
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+ebookColumns+` FROM ebooks
		WHERE access_level = ANY($1)
		ORDER BY publish_date DESC`, levelNames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Ebook, 0)
	for rows.Next() {
		e, err := scanEbook(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.Ratings = []models.Rating{}
		result = append(result, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RecordDownload учитывает скачивание книги учётной записью.
func (s *Storage) RecordDownload(ctx context.Context, ebookID, accountID string) error {
	const op = "storage.RecordDownload"

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO ebook_downloads (ebook_id, account_id) VALUES ($1, $2)`, ebookID, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// UpsertRating сохраняет оценку книги, заменяя предыдущую оценку той же учётной записи.
func (s *Storage) UpsertRating(ctx context.Context, ebookID string, r models.Rating) error {
	const op = "storage.UpsertRating"

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO ebook_ratings (ebook_id, account_id, rating, review, rated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ebook_id, account_id)
		DO UPDATE SET rating = EXCLUDED.rating, review = EXCLUDED.review, rated_at = EXCLUDED.rated_at`,
		ebookID, r.AccountID, r.Rating, r.Review, r.Date)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

func (s *Storage) listRatings(ctx context.Context, ebookID string) ([]models.Rating, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT account_id, rating, review, rated_at
		FROM ebook_ratings
		WHERE ebook_id = $1
		ORDER BY rated_at`, ebookID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var r models.Rating
		if err = rows.Scan(&r.AccountID, &r.Rating, &r.Review, &r.Date); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func scanEbook(row rowScanner) (*models.Ebook, error) {
	var (
		e    models.Ebook
		tags []string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Author, &e.Category, &e.FileKey, &e.FileURL,
		&e.CoverImage, &e.AccessLevel, &e.FileSize, &e.FileFormat, pgtype.NewMap().SQLScanner(&tags),
		&e.PublishDate, &e.LastUpdated); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	e.Tags = tags
	return &e, nil
}
