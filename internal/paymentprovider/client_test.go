package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mining-consultancy/internal/config"
)

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_secret", pass)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(99900), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_Abc123",
			Entity:   "order",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient(config.Razorpay{KeyID: "rzp_test_key", KeySecret: "rzp_secret", APIURL: srv.URL})

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:   99900,
		Currency: "INR",
		Receipt:  "order_1700000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_Abc123", order.ID)
	assert.Equal(t, "order_1700000000000", order.Receipt)
}

func TestCreateOrder_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least INR 1.00"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.Razorpay{KeyID: "k", KeySecret: "s", APIURL: srv.URL})

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be at least INR 1.00")
}

func TestGetOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/order_Abc123", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"order_Abc123","entity":"order","amount":99900,"currency":"INR",` +
			`"status":"paid","notes":{"account_id":"acc-1","plan_id":"basic"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.Razorpay{KeyID: "k", KeySecret: "s", APIURL: srv.URL})

	order, err := client.GetOrder(context.Background(), "order_Abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(99900), order.Amount)
	assert.Equal(t, "acc-1", order.Notes["account_id"])
	assert.Equal(t, "basic", order.Notes["plan_id"])
}

func TestGetOrder_EmptyNotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"order_1","amount":100,"notes":[]}`))
	}))
	defer srv.Close()

	client := NewClient(config.Razorpay{KeyID: "k", KeySecret: "s", APIURL: srv.URL})

	order, err := client.GetOrder(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Empty(t, order.Notes["plan_id"])
}

func TestGetOrder_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.Razorpay{KeyID: "k", KeySecret: "s", APIURL: srv.URL})

	_, err := client.GetOrder(context.Background(), "order_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paymentprovider.GetOrder")
	assert.Contains(t, err.Error(), "does not exist")
}

func TestVerifySignature(t *testing.T) {
	client := NewClient(config.Razorpay{KeySecret: "rzp_secret"})
	valid := Sign("rzp_secret", "order_1", "pay_1")

	assert.True(t, client.VerifySignature("order_1", "pay_1", valid))
	assert.False(t, client.VerifySignature("order_1", "pay_2", valid))
	assert.False(t, client.VerifySignature("order_1", "pay_1", Sign("other", "order_1", "pay_1")))
	assert.False(t, client.VerifySignature("order_1", "pay_1", ""))
}
