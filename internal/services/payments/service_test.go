package payments

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConfirmSendsSecretKeyBasicAuth(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"paymentKey":  "pay_abc",
			"orderId":     "order_1",
			"method":      "card",
			"status":      "DONE",
			"totalAmount": 5000,
		})
	}))
	defer server.Close()

	client := NewTossClient(server.Client(), server.URL, "sk_test_secret")
	result, err := client.Confirm(context.Background(), ConfirmInput{
		PaymentKey: "pay_abc",
		OrderID:    "order_1",
		Amount:     5000,
	})
	if err != nil {
		t.Fatalf("unexpected confirm error: %v", err)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("sk_test_secret:"))
	if gotAuth != wantAuth {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if gotPath != "/v1/payments/confirm" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody["paymentKey"] != "pay_abc" || gotBody["orderId"] != "order_1" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
	if result.Status != "DONE" || result.TotalAmount != 5000 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestConfirmFailsFastOnGatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "INVALID_CARD",
			"message": "card declined",
		})
	}))
	defer server.Close()

	client := NewTossClient(server.Client(), server.URL, "sk_test_secret")
	_, err := client.Confirm(context.Background(), ConfirmInput{
		PaymentKey: "pay_abc",
		OrderID:    "order_1",
		Amount:     5000,
	})
	if !errors.Is(err, ErrPaymentRejected) {
		t.Fatalf("expected ErrPaymentRejected, got %v", err)
	}
}

func TestConfirmValidatesInput(t *testing.T) {
	client := NewTossClient(nil, "", "sk_test_secret")

	tests := []struct {
		name string
		in   ConfirmInput
	}{
		{name: "missing payment key", in: ConfirmInput{OrderID: "order_1", Amount: 5000}},
		{name: "missing order id", in: ConfirmInput{PaymentKey: "pay_abc", Amount: 5000}},
		{name: "zero amount", in: ConfirmInput{PaymentKey: "pay_abc", OrderID: "order_1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := client.Confirm(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
