package admin

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/coinharbor/coinharbor/internal/transaction"
)

func setupApp(t *testing.T) (*fiber.App, transaction.Store) {
	t.Helper()
	svc, transactions := newAdminService(t)
	h := NewHandler(svc)

	app := fiber.New()
	app.Get("/transactions", h.List)
	app.Post("/transactions/:id/approve", h.Approve)
	app.Post("/transactions/:id/reject", h.Reject)
	app.Get("/stats", h.Stats)

	return app, transactions
}

func TestApproveEndpoint(t *testing.T) {
	app, transactions := setupApp(t)

	transaction.Fixture(t, transactions, "u1", transaction.WithAmount("0.5"))

	req := httptest.NewRequest(fiber.MethodPost, "/transactions/1/approve",
		strings.NewReader(`{"external_reference":"0xabc123"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var body struct {
		Status            string `json:"status"`
		ExternalReference string `json:"external_reference"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "completed" {
		t.Fatalf("expected completed, got %s", body.Status)
	}
	if body.ExternalReference != "0xabc123" {
		t.Fatalf("expected external reference echoed, got %q", body.ExternalReference)
	}
}

func TestApproveEndpointConflictsOnSecondCall(t *testing.T) {
	app, transactions := setupApp(t)

	transaction.Fixture(t, transactions, "u1")

	first := httptest.NewRequest(fiber.MethodPost, "/transactions/1/approve", nil)
	resp1, err := app.Test(first)
	if err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if resp1.StatusCode != fiber.StatusOK {
		t.Fatalf("first approve status: %d", resp1.StatusCode)
	}

	second := httptest.NewRequest(fiber.MethodPost, "/transactions/1/approve", nil)
	resp, err := app.Test(second)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on repeated approval, got %d", resp.StatusCode)
	}
}

func TestApproveEndpointUnknownTransaction(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/transactions/99/approve", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRejectEndpoint(t *testing.T) {
	app, transactions := setupApp(t)

	transaction.Fixture(t, transactions, "u1", transaction.WithKind(transaction.KindWithdrawal))

	req := httptest.NewRequest(fiber.MethodPost, "/transactions/1/reject", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "failed" {
		t.Fatalf("expected failed, got %s", body.Status)
	}
}

func TestStatsEndpoint(t *testing.T) {
	app, transactions := setupApp(t)

	transaction.Fixture(t, transactions, "u1")
	transaction.Fixture(t, transactions, "u2",
		transaction.WithAmount("0.5"), transaction.WithStatus(transaction.StatusCompleted))

	req := httptest.NewRequest(fiber.MethodGet, "/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var body struct {
		PendingCount    int               `json:"pending_count"`
		CompletedVolume map[string]string `json:"completed_volume"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.PendingCount != 1 {
		t.Fatalf("expected 1 pending, got %d", body.PendingCount)
	}
	if body.CompletedVolume["BTC"] != "0.5" {
		t.Fatalf("expected BTC volume 0.5, got %q", body.CompletedVolume["BTC"])
	}
}
