// Package objectstore выдаёт временные ссылки на файлы электронных книг
// в S3-совместимом хранилище.
package objectstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/magabrotheeeer/mining-consultancy/internal/config"
)

// Store подписывает ссылки на скачивание объектов из одного бакета.
type Store struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// New создаёт Store. Пустой Endpoint означает AWS S3, иначе используется
// path-style адресация (MinIO и аналоги).
func New(ctx context.Context, cfg config.S3) (*Store, error) {
	const op = "objectstore.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     cfg.PresignTTL,
	}, nil
}

// PresignDownload возвращает подписанную GET-ссылку на объект key.
func (s *Store) PresignDownload(ctx context.Context, key string) (string, error) {
	const op = "objectstore.PresignDownload"

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return req.URL, nil
}
