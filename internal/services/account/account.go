// Package services содержит регистрацию, вход и профиль учётной записи.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/jwt"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/password"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

var (
	// ErrEmailTaken email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials неизвестный email или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidName имя содержит что-то кроме букв и пробелов.
	ErrInvalidName = errors.New("name can only contain letters and spaces")
)

var namePattern = regexp.MustCompile(`^[\p{L} ]{2,50}$`)

// AccountRepository хранилище учётных записей.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// EventPublisher публикует события для сервиса уведомлений.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// RegisterInput данные регистрации.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Service регистрирует учётные записи и выдаёт токены.
type Service struct {
	repo      AccountRepository
	tokens    jwt.Maker
	events    EventPublisher
	log       *slog.Logger
	trialDays int
	now       func() time.Time
}

// NewService создаёт Service. Новые учётные записи получают пробную подписку
// free на trialDays дней.
func NewService(repo AccountRepository, tokens jwt.Maker, events EventPublisher, log *slog.Logger, trialDays int) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		events:    events,
		log:       log,
		trialDays: trialDays,
		now:       time.Now,
	}
}

// Register создаёт учётную запись с ролью user и пробной подпиской и возвращает токен.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, *models.Account, error) {
	const op = "services.account.Register"

	name := strings.TrimSpace(in.Name)
	if !namePattern.MatchString(name) {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidName)
	}
	if err := password.CheckStrength(in.Password); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.GetHash(in.Password)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Name:         name,
		Role:         models.RoleUser,
		Subscription: models.Subscription{
			Tier:      models.TierFree,
			Status:    models.StatusActive,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, s.trialDays),
		},
		CreatedAt: now,
	}

	if err = s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return "", nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokens.GenerateToken(account.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, models.Notification{
		Event:      models.EventAccountRegistered,
		AccountID:  account.ID,
		Email:      account.Email,
		Name:       account.Name,
		Tier:       account.Subscription.Tier,
		EndDate:    account.Subscription.EndDate,
		OccurredAt: now,
	})
	return token, account, nil
}

// Login проверяет пароль и возвращает токен. Неизвестный email и неверный
// пароль неразличимы для клиента.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.Account, error) {
	const op = "services.account.Login"

	account, err := s.repo.GetAccountByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(account.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, account, nil
}

func (s *Service) publish(ctx context.Context, n models.Notification) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, n.Event, n); err != nil {
		s.log.Warn("failed to publish event", slog.String("event", n.Event), sl.Err(err))
	}
}
