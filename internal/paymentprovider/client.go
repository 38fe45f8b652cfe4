// Package paymentprovider реализует клиент Razorpay: создание заказов
// и проверку подписи оплаты, которую возвращает платёжный виджет.
package paymentprovider

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/magabrotheeeer/mining-consultancy/internal/config"
)

// Client клиент REST API Razorpay.
type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент Razorpay.
func NewClient(cfg config.Razorpay) *Client {
	return &Client{
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// KeyID публичный идентификатор ключа, который нужен виджету оплаты.
func (c *Client) KeyID() string {
	return c.keyID
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateOrder создаёт заказ на оплату.
func (c *Client) CreateOrder(ctx context.Context, params OrderRequest) (*Order, error) {
	const op = "paymentprovider.CreateOrder"

	req, err := c.newRequest(ctx, http.MethodPost, "/orders", params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order, err := c.doOrder(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// GetOrder загружает заказ по идентификатору вместе с notes,
// которые были переданы при создании.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	const op = "paymentprovider.GetOrder"

	req, err := c.newRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order, err := c.doOrder(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (c *Client) doOrder(req *http.Request) (*Order, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, apiErr.Error.Description)
	}

	var order Order
	if err = json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifySignature проверяет подпись оплаты:
// hex(HMAC-SHA256("<order_id>|<payment_id>", key_secret)).
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	expected := Sign(c.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign вычисляет подпись оплаты для пары заказ/платёж.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
