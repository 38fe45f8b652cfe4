package access

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/jwt"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage"
)

const testSecret = "test_secret_key"

type AccountFinderMock struct {
	mock.Mock
}

func (m *AccountFinderMock) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*models.Account)
	return acc, args.Error(1)
}

type SubscriptionStoreMock struct {
	mock.Mock
}

func (m *SubscriptionStoreMock) UpdateSubscriptionStatus(ctx context.Context, accountID string, status models.SubscriptionStatus) error {
	return m.Called(ctx, accountID, status).Error(0)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newAccount(tier models.Tier, status models.SubscriptionStatus, end time.Time) *models.Account {
	return &models.Account{
		ID:    "acc-1",
		Email: "miner@example.com",
		Name:  "Ravi Kumar",
		Role:  models.RoleUser,
		Subscription: models.Subscription{
			Tier:      tier,
			Status:    status,
			StartDate: end.AddDate(0, 0, -30),
			EndDate:   end,
		},
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: ErrMissingToken},
		{name: "bare prefix", header: "Bearer", wantErr: ErrMissingToken},
		{name: "prefix with spaces", header: "Bearer   ", wantErr: ErrMissingToken},
		{name: "other scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifier_Verify(t *testing.T) {
	maker := jwt.NewJWTMaker(testSecret, time.Hour)
	validToken, err := maker.GenerateToken("acc-1")
	require.NoError(t, err)
	ghostToken, err := maker.GenerateToken("ghost")
	require.NoError(t, err)
	expiredToken, err := jwt.NewJWTMaker(testSecret, -time.Hour).GenerateToken("acc-1")
	require.NoError(t, err)
	foreignToken, err := jwt.NewJWTMaker("other_secret", time.Hour).GenerateToken("acc-1")
	require.NoError(t, err)

	account := newAccount(models.TierBasic, models.StatusActive, fixedNow.AddDate(0, 0, 5))

	tests := []struct {
		name       string
		header     string
		setupMocks func(*AccountFinderMock)
		wantErr    error
		wantKind   Kind
	}{
		{
			name:   "valid token",
			header: "Bearer " + validToken,
			setupMocks: func(m *AccountFinderMock) {
				m.On("GetAccount", mock.Anything, "acc-1").Return(account, nil).Once()
			},
		},
		{
			name:       "missing token",
			header:     "",
			setupMocks: func(*AccountFinderMock) {},
			wantErr:    ErrMissingToken,
			wantKind:   KindAuthenticationFailure,
		},
		{
			name:       "malformed token",
			header:     "Bearer not-a-jwt",
			setupMocks: func(*AccountFinderMock) {},
			wantErr:    ErrInvalidToken,
			wantKind:   KindAuthenticationFailure,
		},
		{
			name:       "expired token",
			header:     "Bearer " + expiredToken,
			setupMocks: func(*AccountFinderMock) {},
			wantErr:    ErrInvalidToken,
			wantKind:   KindAuthenticationFailure,
		},
		{
			name:       "foreign signature",
			header:     "Bearer " + foreignToken,
			setupMocks: func(*AccountFinderMock) {},
			wantErr:    ErrInvalidToken,
			wantKind:   KindAuthenticationFailure,
		},
		{
			name:   "account deleted",
			header: "Bearer " + ghostToken,
			setupMocks: func(m *AccountFinderMock) {
				m.On("GetAccount", mock.Anything, "ghost").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr:  ErrAccountNotFound,
			wantKind: KindAuthenticationFailure,
		},
		{
			name:   "storage failure",
			header: "Bearer " + validToken,
			setupMocks: func(m *AccountFinderMock) {
				m.On("GetAccount", mock.Anything, "acc-1").Return(nil, errors.New("connection refused")).Once()
			},
			wantErr:  ErrPersistence,
			wantKind: KindPersistenceFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := new(AccountFinderMock)
			tt.setupMocks(finder)
			verifier := NewVerifier(maker, finder)

			got, err := verifier.Verify(context.Background(), tt.header)
			if tt.wantErr != nil {
				assert.Nil(t, got)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantKind, KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, account, got)
			}
			finder.AssertExpectations(t)
		})
	}
}

func TestVerifier_AuthenticationFailuresShareOneMessage(t *testing.T) {
	for _, err := range []error{ErrMissingToken, ErrInvalidToken, ErrAccountNotFound} {
		assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
		assert.Equal(t, MsgPleaseAuthenticate, PublicMessage(err))
	}
}

func TestEvaluator_CheckActive(t *testing.T) {
	tests := []struct {
		name       string
		account    *models.Account
		setupMocks func(*SubscriptionStoreMock, *PublisherMock)
		wantErr    error
		wantStatus models.SubscriptionStatus
	}{
		{
			name:       "active and unexpired",
			account:    newAccount(models.TierBasic, models.StatusActive, fixedNow.Add(time.Hour)),
			setupMocks: func(*SubscriptionStoreMock, *PublisherMock) {},
			wantStatus: models.StatusActive,
		},
		{
			name:       "ends exactly now",
			account:    newAccount(models.TierBasic, models.StatusActive, fixedNow),
			setupMocks: func(*SubscriptionStoreMock, *PublisherMock) {},
			wantStatus: models.StatusActive,
		},
		{
			name:       "cancelled",
			account:    newAccount(models.TierPremium, models.StatusCancelled, fixedNow.Add(time.Hour)),
			setupMocks: func(*SubscriptionStoreMock, *PublisherMock) {},
			wantErr:    ErrSubscriptionRequired,
			wantStatus: models.StatusCancelled,
		},
		{
			name:       "already expired",
			account:    newAccount(models.TierPremium, models.StatusExpired, fixedNow.Add(-time.Hour)),
			setupMocks: func(*SubscriptionStoreMock, *PublisherMock) {},
			wantErr:    ErrSubscriptionRequired,
			wantStatus: models.StatusExpired,
		},
		{
			name:    "lapsed active subscription",
			account: newAccount(models.TierPremium, models.StatusActive, fixedNow.Add(-time.Minute)),
			setupMocks: func(s *SubscriptionStoreMock, p *PublisherMock) {
				s.On("UpdateSubscriptionStatus", mock.Anything, "acc-1", models.StatusExpired).Return(nil).Once()
				p.On("Publish", mock.Anything, models.EventSubscriptionExpired, mock.AnythingOfType("models.Notification")).Return(nil).Once()
			},
			wantErr:    ErrSubscriptionExpired,
			wantStatus: models.StatusExpired,
		},
		{
			name:    "lapsed and publish fails",
			account: newAccount(models.TierBasic, models.StatusActive, fixedNow.Add(-time.Minute)),
			setupMocks: func(s *SubscriptionStoreMock, p *PublisherMock) {
				s.On("UpdateSubscriptionStatus", mock.Anything, "acc-1", models.StatusExpired).Return(nil).Once()
				p.On("Publish", mock.Anything, models.EventSubscriptionExpired, mock.Anything).Return(errors.New("broker down")).Once()
			},
			wantErr:    ErrSubscriptionExpired,
			wantStatus: models.StatusExpired,
		},
		{
			name:    "lapsed and write fails",
			account: newAccount(models.TierBasic, models.StatusActive, fixedNow.Add(-time.Minute)),
			setupMocks: func(s *SubscriptionStoreMock, _ *PublisherMock) {
				s.On("UpdateSubscriptionStatus", mock.Anything, "acc-1", models.StatusExpired).Return(errors.New("deadlock")).Once()
			},
			wantErr:    ErrPersistence,
			wantStatus: models.StatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(SubscriptionStoreMock)
			events := new(PublisherMock)
			tt.setupMocks(store, events)
			evaluator := NewEvaluator(store, sl.Discard(), WithClock(func() time.Time { return fixedNow }), WithEvents(events))

			err := evaluator.CheckActive(context.Background(), tt.account)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, tt.account.Subscription.Status)
			store.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}

func TestEvaluator_LazyExpiryIsPersistedOnce(t *testing.T) {
	store := new(SubscriptionStoreMock)
	store.On("UpdateSubscriptionStatus", mock.Anything, "acc-1", models.StatusExpired).Return(nil).Once()
	evaluator := NewEvaluator(store, sl.Discard(), WithClock(func() time.Time { return fixedNow }))

	account := newAccount(models.TierPremium, models.StatusActive, fixedNow.AddDate(0, 0, -1))

	err := evaluator.CheckActive(context.Background(), account)
	require.ErrorIs(t, err, ErrSubscriptionExpired)
	assert.Equal(t, MsgSubscriptionExpired, PublicMessage(err))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(err))

	err = evaluator.CheckActive(context.Background(), account)
	require.ErrorIs(t, err, ErrSubscriptionRequired)
	assert.Equal(t, MsgSubscriptionRequired, PublicMessage(err))

	store.AssertNumberOfCalls(t, "UpdateSubscriptionStatus", 1)
}

func TestEffectiveTier(t *testing.T) {
	tests := []struct {
		name    string
		account *models.Account
		want    models.Tier
	}{
		{name: "active premium", account: newAccount(models.TierPremium, models.StatusActive, fixedNow.Add(time.Hour)), want: models.TierPremium},
		{name: "lapsed premium", account: newAccount(models.TierPremium, models.StatusActive, fixedNow.Add(-time.Hour)), want: models.TierFree},
		{name: "expired basic", account: newAccount(models.TierBasic, models.StatusExpired, fixedNow.Add(time.Hour)), want: models.TierFree},
		{name: "cancelled premium", account: newAccount(models.TierPremium, models.StatusCancelled, fixedNow.Add(time.Hour)), want: models.TierFree},
		{name: "no end date", account: newAccount(models.TierBasic, models.StatusActive, time.Time{}), want: models.TierBasic},
		{name: "unknown tier", account: newAccount("gold", models.StatusActive, fixedNow.Add(time.Hour)), want: models.TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveTier(tt.account, fixedNow))
		})
	}
}

func TestHasRole(t *testing.T) {
	assert.False(t, HasRole(models.RoleUser, models.RoleAdmin))
	assert.True(t, HasRole(models.RoleAdmin, models.RoleAdmin))
	assert.True(t, HasRole(models.RoleUser, models.RoleUser, models.RoleAdmin))
	assert.False(t, HasRole(models.RoleAdmin))
}

func TestCanAccess_Table(t *testing.T) {
	allowed := map[models.Tier][]models.Tier{
		models.TierFree:    {models.TierFree},
		models.TierBasic:   {models.TierFree, models.TierBasic},
		models.TierPremium: {models.TierFree, models.TierBasic, models.TierPremium},
	}
	levels := []models.Tier{models.TierFree, models.TierBasic, models.TierPremium}

	for tier, open := range allowed {
		for _, level := range levels {
			want := false
			for _, l := range open {
				if l == level {
					want = true
				}
			}
			assert.Equal(t, want, CanAccess(tier, level), "tier=%s level=%s", tier, level)
		}
		assert.Equal(t, open, models.LevelsFor(tier))
	}

	assert.False(t, CanAccess("gold", models.TierFree))
	assert.False(t, CanAccess(models.TierPremium, "gold"))
}

func TestCanAccess_Monotonic(t *testing.T) {
	levels := []models.Tier{models.TierFree, models.TierBasic, models.TierPremium}
	for _, tier := range levels {
		for i, level := range levels {
			if !CanAccess(tier, level) {
				continue
			}
			for _, lower := range levels[:i] {
				assert.True(t, CanAccess(tier, lower), "tier=%s level=%s lower=%s", tier, level, lower)
			}
		}
	}
}

func TestGate_RequireRole(t *testing.T) {
	gate := NewGate(nil, nil)

	user := newAccount(models.TierFree, models.StatusActive, fixedNow)
	err := gate.RequireRole(user, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, MsgAccessDenied, PublicMessage(err))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(err))

	admin := newAccount(models.TierFree, models.StatusActive, fixedNow)
	admin.Role = models.RoleAdmin
	assert.NoError(t, gate.RequireRole(admin, models.RoleAdmin))
}

func TestGate_AuthorizeContent(t *testing.T) {
	tests := []struct {
		name       string
		account    *models.Account
		level      models.Tier
		setupMocks func(*SubscriptionStoreMock)
		wantErr    bool
		wantMsg    string
	}{
		{
			name:       "basic requesting premium",
			account:    newAccount(models.TierBasic, models.StatusActive, fixedNow.AddDate(0, 0, 10)),
			level:      models.TierPremium,
			setupMocks: func(*SubscriptionStoreMock) {},
			wantErr:    true,
			wantMsg:    "Premium subscription required",
		},
		{
			name:       "free requesting basic",
			account:    newAccount(models.TierFree, models.StatusActive, fixedNow.AddDate(0, 0, 10)),
			level:      models.TierBasic,
			setupMocks: func(*SubscriptionStoreMock) {},
			wantErr:    true,
			wantMsg:    "Basic subscription required",
		},
		{
			name:       "premium requesting premium",
			account:    newAccount(models.TierPremium, models.StatusActive, fixedNow.AddDate(0, 0, 10)),
			level:      models.TierPremium,
			setupMocks: func(*SubscriptionStoreMock) {},
		},
		{
			name:    "lapsed premium requesting premium",
			account: newAccount(models.TierPremium, models.StatusActive, fixedNow.AddDate(0, 0, -1)),
			level:   models.TierPremium,
			setupMocks: func(s *SubscriptionStoreMock) {
				s.On("UpdateSubscriptionStatus", mock.Anything, "acc-1", models.StatusExpired).Return(nil).Once()
			},
			wantErr: true,
			wantMsg: "Premium subscription required",
		},
		{
			name:    "lapsed premium requesting free",
			account: newAccount(models.TierPremium, models.StatusActive, fixedNow.AddDate(0, 0, -1)),
			level:   models.TierFree,
			setupMocks: func(s *SubscriptionStoreMock) {
				s.On("UpdateSubscriptionStatus", mock.Anything, "acc-1", models.StatusExpired).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(SubscriptionStoreMock)
			tt.setupMocks(store)
			gate := NewGate(nil, NewEvaluator(store, sl.Discard(), WithClock(func() time.Time { return fixedNow })))

			err := gate.AuthorizeContent(context.Background(), tt.account, tt.level)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsufficientTier)
				assert.Equal(t, KindTierDenied, KindOf(err))
				assert.Equal(t, tt.wantMsg, PublicMessage(err))
			} else {
				assert.NoError(t, err)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestPublicMessage_PersistenceIsOpaque(t *testing.T) {
	err := persistenceError("op", errors.New("pq: password authentication failed for user \"admin\""))

	assert.Equal(t, KindPersistenceFailure, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.Equal(t, MsgServerError, PublicMessage(err))
}
