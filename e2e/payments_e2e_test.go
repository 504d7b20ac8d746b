//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

const defaultPaymentsHTTPBase = "http://localhost:48080"

func paymentsHTTPBase() string {
	if base := os.Getenv("E2E_PAYMENTS_HTTP_BASE"); base != "" {
		return base
	}
	return defaultPaymentsHTTPBase
}

func paymentsAPIKey() string {
	return os.Getenv("E2E_PAYMENTS_API_KEY")
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) doJSON(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal failed: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", fmt.Sprintf("e2e-http-%d", time.Now().UnixNano()))
	if apiKey := paymentsAPIKey(); apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}

	return resp, bodyBytes
}

func waitForHTTP(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("http service not ready at %s", baseURL)
}

type paymentPayload struct {
	ID          uint64  `json:"id"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	SenderID    string  `json:"senderId"`
	RecipientID string  `json:"recipientId"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type errorPayload struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func TestMain(m *testing.M) {
	if err := waitForHTTP(paymentsHTTPBase(), 30*time.Second); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestPaymentLifecycle(t *testing.T) {
	client := newHTTPClient(paymentsHTTPBase())

	resp, body := client.doJSON(t, http.MethodPost, "/api/v1/payments", map[string]any{
		"amount":      100.50,
		"currency":    "USD",
		"senderId":    "user123",
		"recipientId": "user456",
		"description": "Payment for services",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", resp.StatusCode, body)
	}

	var created paymentPayload
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal created payment failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.Status != "PENDING" {
		t.Fatalf("expected PENDING, got %q", created.Status)
	}
	if created.CreatedAt != created.UpdatedAt {
		t.Fatalf("expected matching timestamps at creation, got %q and %q", created.CreatedAt, created.UpdatedAt)
	}

	paymentPath := fmt.Sprintf("/api/v1/payments/%d", created.ID)

	resp, body = client.doJSON(t, http.MethodGet, paymentPath, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.StatusCode, body)
	}

	resp, body = client.doJSON(t, http.MethodPatch, paymentPath+"/status?status=COMPLETED", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.StatusCode, body)
	}

	var updated paymentPayload
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("unmarshal updated payment failed: %v", err)
	}
	if updated.Status != "COMPLETED" {
		t.Fatalf("expected COMPLETED, got %q", updated.Status)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatalf("expected createdAt unchanged, got %q", updated.CreatedAt)
	}

	resp, body = client.doJSON(t, http.MethodGet, "/api/v1/payments?status=COMPLETED", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.StatusCode, body)
	}
	var listed []paymentPayload
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("unmarshal list failed: %v", err)
	}
	found := false
	for _, item := range listed {
		if item.ID == created.ID {
			found = true
		}
		if item.Status != "COMPLETED" {
			t.Fatalf("expected only COMPLETED payments, got %q", item.Status)
		}
	}
	if !found {
		t.Fatalf("expected payment %d in COMPLETED list", created.ID)
	}

	resp, body = client.doJSON(t, http.MethodDelete, paymentPath, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", resp.StatusCode, body)
	}

	resp, body = client.doJSON(t, http.MethodGet, paymentPath, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d body=%s", resp.StatusCode, body)
	}
}

func TestCreatePaymentValidationFailure(t *testing.T) {
	client := newHTTPClient(paymentsHTTPBase())

	resp, body := client.doJSON(t, http.MethodPost, "/api/v1/payments", map[string]any{
		"amount":   -10,
		"currency": "US",
		"senderId": "",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", resp.StatusCode, body)
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal error payload failed: %v", err)
	}
	if payload.Status != http.StatusBadRequest || payload.Timestamp == "" {
		t.Fatalf("unexpected error payload: %+v", payload)
	}
	for _, field := range []string{"amount", "currency", "senderId"} {
		if !strings.Contains(payload.Message, field) {
			t.Fatalf("expected message to mention %q, got %q", field, payload.Message)
		}
	}
}

func TestGetPaymentUnknownID(t *testing.T) {
	client := newHTTPClient(paymentsHTTPBase())

	resp, body := client.doJSON(t, http.MethodGet, "/api/v1/payments/999999999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", resp.StatusCode, body)
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal error payload failed: %v", err)
	}
	if payload.Message != "Payment with ID 999999999 not found" {
		t.Fatalf("unexpected message: %q", payload.Message)
	}
}
