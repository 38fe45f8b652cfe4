package list

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, accountID string) ([]models.LegalAdvice, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LegalAdvice), args.Error(1)
}

func TestListHandler(t *testing.T) {
	tests := []struct {
		name           string
		account        *models.Account
		items          []models.LegalAdvice
		err            error
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:    "обращения владельца",
			account: &models.Account{ID: "acc-1"},
			items: []models.LegalAdvice{
				{ID: "adv-1", AccountID: "acc-1", Title: "Lease renewal"},
				{ID: "adv-2", AccountID: "acc-1", Title: "Environmental clearance"},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"id":"adv-1"`, `"id":"adv-2"`, `"user":"acc-1"`},
		},
		{
			name:           "обращений нет",
			account:        &models.Account{ID: "acc-1"},
			items:          []models.LegalAdvice{},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"status":"OK"`},
		},
		{
			name:           "ошибка хранилища",
			account:        &models.Account{ID: "acc-1"},
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`"error":"Server error"`},
		},
		{
			name:           "без аккаунта в контексте",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   []string{`"error":"Please authenticate"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.account != nil {
				if tt.err != nil {
					svc.On("List", mock.Anything, tt.account.ID).Return(nil, tt.err).Once()
				} else {
					svc.On("List", mock.Anything, tt.account.ID).Return(tt.items, nil).Once()
				}
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/legal-advice", nil)
			if tt.account != nil {
				req = req.WithContext(middlewarectx.WithAccount(req.Context(), tt.account))
			}
			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, body := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), body)
			}
			svc.AssertExpectations(t)
		})
	}
}
