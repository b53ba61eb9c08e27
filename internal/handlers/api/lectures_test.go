package api

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"studyhub/internal/keywords"
	"studyhub/internal/models"
	"studyhub/internal/testutil"
)

func skipIfNoTestDB(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_DATABASE_URL") == "" && os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}
}

// stubStore satisfies storage.ObjectStore without a live bucket.
type stubStore struct{}

func (stubStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return nil
}

func (stubStore) Delete(ctx context.Context, key string) error { return nil }

func (stubStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://media.test/" + key, nil
}

func TestUpdateLecturePartial(t *testing.T) {
	skipIfNoTestDB(t)

	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	ownerID := testutil.CreateTestUser(t, database, "lec-owner", "lec-owner@example.com", models.RoleUser)
	lecID := testutil.CreateTestLecture(t, database, ownerID, "Listening Practice", true)
	categoryID := testutil.CreateTestCategory(t, database, "TOEIC", "toeic")

	_, err := database.Pool.Exec(ctx,
		`UPDATE lectures SET description = $1, category_id = $2 WHERE id = $3`,
		"Week one drills", categoryID, lecID)
	if err != nil {
		t.Fatalf("failed to seed lecture fields: %v", err)
	}

	handler := NewLectureHandler(database, stubStore{}, keywords.NewTracker(database))
	app := fiber.New()
	app.Put("/api/lectures/:id", func(c fiber.Ctx) error {
		c.Locals("user", &models.User{ID: ownerID, Role: models.RoleUser})
		return handler.Update(c)
	})

	doUpdate := func(t *testing.T, body string) {
		t.Helper()
		req := httptest.NewRequest("PUT", "/api/lectures/"+lecID.String(),
			bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
	}

	t.Run("omitted fields keep stored values", func(t *testing.T) {
		doUpdate(t, `{"title":"Listening Practice v2"}`)

		lec, err := database.GetLectureByID(ctx, lecID)
		if err != nil {
			t.Fatalf("GetLectureByID() error: %v", err)
		}
		if lec.Title != "Listening Practice v2" {
			t.Errorf("Title = %q, want %q", lec.Title, "Listening Practice v2")
		}
		if lec.Description != "Week one drills" {
			t.Errorf("Description = %q, want %q", lec.Description, "Week one drills")
		}
		if lec.CategoryID == nil || *lec.CategoryID != categoryID {
			t.Errorf("CategoryID = %v, want %v", lec.CategoryID, categoryID)
		}
	})

	t.Run("explicit null clears category", func(t *testing.T) {
		doUpdate(t, `{"category_id":null}`)

		lec, err := database.GetLectureByID(ctx, lecID)
		if err != nil {
			t.Fatalf("GetLectureByID() error: %v", err)
		}
		if lec.CategoryID != nil {
			t.Errorf("CategoryID = %v, want nil", lec.CategoryID)
		}
		if lec.Title != "Listening Practice v2" {
			t.Errorf("Title = %q, want %q", lec.Title, "Listening Practice v2")
		}
	})

	t.Run("empty description clears it when sent", func(t *testing.T) {
		doUpdate(t, `{"description":""}`)

		lec, err := database.GetLectureByID(ctx, lecID)
		if err != nil {
			t.Fatalf("GetLectureByID() error: %v", err)
		}
		if lec.Description != "" {
			t.Errorf("Description = %q, want empty", lec.Description)
		}
	})
}
