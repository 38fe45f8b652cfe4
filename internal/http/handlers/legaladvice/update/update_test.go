package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
	adviceservice "github.com/magabrotheeeer/mining-consultancy/internal/services/legaladvice"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Update(ctx context.Context, id, accountID string, updates map[string]json.RawMessage) (*models.LegalAdvice, error) {
	args := m.Called(ctx, id, accountID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LegalAdvice), args.Error(1)
}

func serve(svc Service, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/legal-advice/adv-1", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "adv-1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	req = req.WithContext(middlewarectx.WithAccount(ctx, &models.Account{ID: "acc-1"}))

	w := httptest.NewRecorder()
	New(sl.Discard(), svc).ServeHTTP(w, req)
	return w
}

func TestUpdateHandler_Priority(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Update", mock.Anything, "adv-1", "acc-1", mock.Anything).
		Return(&models.LegalAdvice{ID: "adv-1", Priority: "high"}, nil).Once()

	w := serve(svc, `{"priority":"high"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"priority":"high"`)
	svc.AssertExpectations(t)
}

func TestUpdateHandler_StatusByOwnerRejected(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Update", mock.Anything, "adv-1", "acc-1", mock.Anything).
		Return(nil, fmt.Errorf("services.legaladvice.Update: %w", adviceservice.ErrInvalidUpdates)).Once()

	w := serve(svc, `{"status":"closed"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"Invalid updates"}`, w.Body.String())
}
