package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	"github.com/magabrotheeeer/mining-consultancy/internal/paymentprovider"
	subservice "github.com/magabrotheeeer/mining-consultancy/internal/services/subscription"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) CreateOrder(ctx context.Context, account *models.Account, planID models.Tier) (*subservice.OrderResult, error) {
	args := m.Called(ctx, account, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subservice.OrderResult), args.Error(1)
}

func TestOrderHandler(t *testing.T) {
	account := &models.Account{ID: "acc-1"}

	tests := []struct {
		name           string
		body           string
		withAccount    bool
		setupMock      func(m *ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "заказ создан",
			body:        `{"plan_id":"premium"}`,
			withAccount: true,
			setupMock: func(m *ServiceMock) {
				m.On("CreateOrder", mock.Anything, account, models.TierPremium).Return(&subservice.OrderResult{
					Order: &paymentprovider.Order{ID: "order_1", Amount: 299900, Currency: "INR"},
					KeyID: "rzp_test",
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"order_1"`,
		},
		{
			name:        "неизвестный план",
			body:        `{"plan_id":"gold"}`,
			withAccount: true,
			setupMock: func(m *ServiceMock) {
				m.On("CreateOrder", mock.Anything, account, models.Tier("gold")).
					Return(nil, fmt.Errorf("op: %w", subservice.ErrInvalidPlan)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Invalid plan selected"}`,
		},
		{
			name:        "провайдер недоступен",
			body:        `{"plan_id":"basic"}`,
			withAccount: true,
			setupMock: func(m *ServiceMock) {
				m.On("CreateOrder", mock.Anything, account, models.TierBasic).Return(nil, errors.New("timeout")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"Error creating order"}`,
		},
		{
			name:           "без аутентификации",
			body:           `{"plan_id":"basic"}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"Please authenticate"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/orders", strings.NewReader(tt.body))
			if tt.withAccount {
				req = req.WithContext(middlewarectx.WithAccount(req.Context(), account))
			}
			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
