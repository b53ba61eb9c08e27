package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, 20, 0},
		{"explicit page", "page=3", 3, 20, 40},
		{"explicit limit", "page=2&limit=5", 2, 5, 5},
		{"zero page clamps to one", "page=0", 1, 20, 0},
		{"negative page clamps to one", "page=-4", 1, 20, 0},
		{"limit capped at 100", "limit=500", 1, 100, 0},
		{"garbage falls back to defaults", "page=abc&limit=xyz", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c fiber.Ctx) error {
				page, limit, offset := parsePagination(c)
				if page != tt.wantPage {
					t.Errorf("page = %d, want %d", page, tt.wantPage)
				}
				if limit != tt.wantLimit {
					t.Errorf("limit = %d, want %d", limit, tt.wantLimit)
				}
				if offset != tt.wantOffset {
					t.Errorf("offset = %d, want %d", offset, tt.wantOffset)
				}
				return c.SendString("ok")
			})

			req := httptest.NewRequest("GET", "/?"+tt.query, nil)
			if _, err := app.Test(req); err != nil {
				t.Fatalf("request failed: %v", err)
			}
		})
	}
}

func TestJSONEnvelopes(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error {
		return jsonSuccess(c, fiber.Map{"value": 42})
	})
	app.Get("/page", func(c fiber.Ctx) error {
		return jsonPage(c, []string{"a", "b"}, 2, 10, 37)
	})
	app.Get("/bad", func(c fiber.Ctx) error {
		return jsonError(c, fiber.StatusTeapot, "nope")
	})

	t.Run("success", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		body := decodeBody(t, resp.Body)
		if body["status"] != "ok" {
			t.Errorf("status field = %v, want ok", body["status"])
		}
		if body["data"] == nil {
			t.Error("data field missing")
		}
	})

	t.Run("page", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/page", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		body := decodeBody(t, resp.Body)
		pg, ok := body["pagination"].(map[string]any)
		if !ok {
			t.Fatalf("pagination field missing: %v", body)
		}
		if pg["page"] != float64(2) || pg["limit"] != float64(10) || pg["total"] != float64(37) {
			t.Errorf("pagination = %v, want page=2 limit=10 total=37", pg)
		}
	})

	t.Run("error", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/bad", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusTeapot {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusTeapot)
		}
		body := decodeBody(t, resp.Body)
		if body["status"] != "error" {
			t.Errorf("status field = %v, want error", body["status"])
		}
		if body["error"] != "nope" {
			t.Errorf("error field = %v, want nope", body["error"])
		}
	})
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", raw, err)
	}
	return body
}
