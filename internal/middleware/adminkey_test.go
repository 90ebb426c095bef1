package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func setupAdminApp(t *testing.T, keyHash string) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(AdminKey(keyHash))
	app.Get("/stats", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAdminKeyAcceptsValidKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	app := setupAdminApp(t, string(hash))

	req := httptest.NewRequest(fiber.MethodGet, "/stats", nil)
	req.Header.Set(adminKeyHeader, "s3cret")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAdminKeyRejectsMissingOrWrongKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	app := setupAdminApp(t, string(hash))

	missing := httptest.NewRequest(fiber.MethodGet, "/stats", nil)
	resp, err := app.Test(missing)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}

	wrong := httptest.NewRequest(fiber.MethodGet, "/stats", nil)
	wrong.Header.Set(adminKeyHeader, "nope")
	resp, err = app.Test(wrong)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", resp.StatusCode)
	}
}

func TestAdminKeyDisabledWhenUnset(t *testing.T) {
	app := setupAdminApp(t, "")

	req := httptest.NewRequest(fiber.MethodGet, "/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with gate disabled, got %d", resp.StatusCode)
	}
}
