package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/mining-consultancy/internal/lib/jwt"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/password"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	services "github.com/magabrotheeeer/mining-consultancy/internal/services/account"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

// Мок для AccountRepository
type AccountRepoMock struct {
	mock.Mock
}

func (m *AccountRepoMock) CreateAccount(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountRepoMock) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(accountID string) (string, error) {
	args := m.Called(accountID)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

const strongPassword = "Passw0rd!"

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		input      services.RegisterInput
		setupMocks func(r *AccountRepoMock, j *JwtMakerMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name:  "успешная регистрация",
			input: services.RegisterInput{Email: " Ravi@Example.com ", Password: strongPassword, Name: "Ravi Kumar"},
			setupMocks: func(r *AccountRepoMock, j *JwtMakerMock, p *PublisherMock) {
				r.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a *models.Account) bool {
					return a.Email == "ravi@example.com" &&
						a.Role == models.RoleUser &&
						a.PasswordHash != strongPassword &&
						a.Subscription.Tier == models.TierFree &&
						a.Subscription.Status == models.StatusActive &&
						a.Subscription.EndDate.Sub(a.Subscription.StartDate) == 30*24*time.Hour
				})).Return(nil).Once()
				j.On("GenerateToken", mock.AnythingOfType("string")).Return("token", nil).Once()
				p.On("Publish", mock.Anything, models.EventAccountRegistered, mock.AnythingOfType("models.Notification")).
					Return(nil).Once()
			},
		},
		{
			name:       "слабый пароль",
			input:      services.RegisterInput{Email: "ravi@example.com", Password: "password", Name: "Ravi"},
			setupMocks: func(_ *AccountRepoMock, _ *JwtMakerMock, _ *PublisherMock) {},
			wantErr:    password.ErrTooWeak,
		},
		{
			name:       "имя с цифрами",
			input:      services.RegisterInput{Email: "ravi@example.com", Password: strongPassword, Name: "R2D2"},
			setupMocks: func(_ *AccountRepoMock, _ *JwtMakerMock, _ *PublisherMock) {},
			wantErr:    services.ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			tokens := new(JwtMakerMock)
			events := new(PublisherMock)
			tt.setupMocks(repo, tokens, events)

			svc := services.NewService(repo, tokens, events, sl.Discard(), 30)
			token, account, err := svc.Register(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "token", token)
				assert.Equal(t, "Ravi Kumar", account.Name)
			}
			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := new(AccountRepoMock)
	repo.On("CreateAccount", mock.Anything, mock.Anything).
		Return(errors.Join(errors.New("repository.CreateAccount"), storage.ErrAlreadyExists)).Once()

	svc := services.NewService(repo, new(JwtMakerMock), nil, sl.Discard(), 30)
	_, _, err := svc.Register(context.Background(), services.RegisterInput{
		Email: "taken@example.com", Password: strongPassword, Name: "Asha",
	})

	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestService_Register_PublishFailureIsIgnored(t *testing.T) {
	repo := new(AccountRepoMock)
	repo.On("CreateAccount", mock.Anything, mock.Anything).Return(nil).Once()
	tokens := new(JwtMakerMock)
	tokens.On("GenerateToken", mock.Anything).Return("token", nil).Once()
	events := new(PublisherMock)
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	svc := services.NewService(repo, tokens, events, sl.Discard(), 30)
	token, _, err := svc.Register(context.Background(), services.RegisterInput{
		Email: "asha@example.com", Password: strongPassword, Name: "Asha",
	})

	require.NoError(t, err)
	assert.Equal(t, "token", token)
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash(strongPassword)
	require.NoError(t, err)
	stored := &models.Account{ID: "acc-1", Email: "ravi@example.com", PasswordHash: hash}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *AccountRepoMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name:     "успешный вход",
			email:    "ravi@example.com",
			password: strongPassword,
			setupMocks: func(r *AccountRepoMock, j *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "ravi@example.com").Return(stored, nil).Once()
				j.On("GenerateToken", "acc-1").Return("token", nil).Once()
			},
		},
		{
			name:     "неизвестный email",
			email:    "ghost@example.com",
			password: strongPassword,
			setupMocks: func(r *AccountRepoMock, _ *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "ghost@example.com").
					Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "неверный пароль",
			email:    "ravi@example.com",
			password: "Wrong0ne!",
			setupMocks: func(r *AccountRepoMock, _ *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "ravi@example.com").Return(stored, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			tokens := new(JwtMakerMock)
			tt.setupMocks(repo, tokens)

			svc := services.NewService(repo, tokens, nil, sl.Discard(), 30)
			token, account, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "token", token)
				assert.Equal(t, "acc-1", account.ID)
			}
			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}
