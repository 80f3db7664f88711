package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultTossBaseURL = "https://api.tosspayments.com"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrPaymentRejected = errors.New("payment rejected by gateway")
)

// ConfirmInput is the gateway confirmation triple: the payment key the
// gateway issued, our order id and the amount the client claims was charged.
type ConfirmInput struct {
	PaymentKey string
	OrderID    string
	Amount     int
}

// ConfirmResult is the subset of the gateway's confirm response the order
// flow consumes.
type ConfirmResult struct {
	PaymentKey  string
	OrderID     string
	Method      string
	Status      string
	TotalAmount int
}

// Confirmer finalizes a payment with the gateway. The order is only
// persisted after a successful confirmation.
type Confirmer interface {
	Confirm(ctx context.Context, in ConfirmInput) (ConfirmResult, error)
}

// TossClient confirms payments against the Toss Payments REST API using
// secret-key basic auth.
type TossClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewTossClient(httpClient *http.Client, baseURL, secretKey string) *TossClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultTossBaseURL
	}

	return &TossClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
	}
}

func (c *TossClient) Confirm(ctx context.Context, in ConfirmInput) (ConfirmResult, error) {
	if strings.TrimSpace(in.PaymentKey) == "" || strings.TrimSpace(in.OrderID) == "" || in.Amount <= 0 {
		return ConfirmResult{}, ErrInvalidInput
	}

	body, err := json.Marshal(map[string]any{
		"paymentKey": in.PaymentKey,
		"orderId":    in.OrderID,
		"amount":     in.Amount,
	})
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("marshal confirm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments/confirm", bytes.NewReader(body))
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("build confirm request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(c.secretKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("call payment gateway: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gatewayErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&gatewayErr)
		if gatewayErr.Message != "" {
			return ConfirmResult{}, fmt.Errorf("%w: %s (%s)", ErrPaymentRejected, gatewayErr.Message, gatewayErr.Code)
		}
		return ConfirmResult{}, fmt.Errorf("%w: status %d", ErrPaymentRejected, resp.StatusCode)
	}

	var payload struct {
		PaymentKey  string `json:"paymentKey"`
		OrderID     string `json:"orderId"`
		Method      string `json:"method"`
		Status      string `json:"status"`
		TotalAmount int    `json:"totalAmount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ConfirmResult{}, fmt.Errorf("decode confirm response: %w", err)
	}

	return ConfirmResult{
		PaymentKey:  payload.PaymentKey,
		OrderID:     payload.OrderID,
		Method:      payload.Method,
		Status:      payload.Status,
		TotalAmount: payload.TotalAmount,
	}, nil
}

// basicAuth encodes the secret key the way the gateway expects: the key
// followed by a colon and an empty password.
func basicAuth(secretKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
}
