package api

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"studyhub/internal/models"
)

func TestParseKeywordField(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"json array", `["TOEIC", "Grammar"]`, []string{"TOEIC", "Grammar"}},
		{"json string", `"TOEIC, Grammar"`, []string{"TOEIC", "Grammar"}},
		{"single value string", `"Listening"`, []string{"Listening"}},
		{"empty array", `[]`, nil},
		{"empty string", `""`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseKeywordField(json.RawMessage(tt.raw))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseKeywordField(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPatchCategoryID(t *testing.T) {
	existing := uuid.New()

	t.Run("absent field is left untouched", func(t *testing.T) {
		dst := &existing
		if err := patchCategoryID(nil, nil, nil, &dst); err != nil {
			t.Fatalf("patchCategoryID(nil) error: %v", err)
		}
		if dst == nil || *dst != existing {
			t.Errorf("dst = %v, want %v", dst, existing)
		}
	})

	t.Run("explicit null clears", func(t *testing.T) {
		dst := &existing
		if err := patchCategoryID(nil, nil, json.RawMessage(`null`), &dst); err != nil {
			t.Fatalf("patchCategoryID(null) error: %v", err)
		}
		if dst != nil {
			t.Errorf("dst = %v, want nil", dst)
		}
	})

	t.Run("empty string clears", func(t *testing.T) {
		dst := &existing
		if err := patchCategoryID(nil, nil, json.RawMessage(`""`), &dst); err != nil {
			t.Fatalf("patchCategoryID(\"\") error: %v", err)
		}
		if dst != nil {
			t.Errorf("dst = %v, want nil", dst)
		}
	})

	t.Run("malformed value is rejected", func(t *testing.T) {
		dst := &existing
		err := patchCategoryID(nil, nil, json.RawMessage(`42`), &dst)
		var fe *fiber.Error
		if !errors.As(err, &fe) || fe.Code != fiber.StatusBadRequest {
			t.Fatalf("patchCategoryID(42) error = %v, want 400 fiber error", err)
		}
		if dst == nil || *dst != existing {
			t.Errorf("dst = %v, want %v unchanged", dst, existing)
		}
	})
}

func TestSanitizeAttachments(t *testing.T) {
	in := []models.Attachment{
		{Key: "qa/a.png", MimeType: "image/png", URL: "https://spoofed.example/x"},
		{Key: "", MimeType: "image/png"},
		{Key: "qa/b.pdf", MimeType: "application/pdf"},
	}

	got := sanitizeAttachments(in)
	want := []models.Attachment{
		{Key: "qa/a.png", MimeType: "image/png"},
		{Key: "qa/b.pdf", MimeType: "application/pdf"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sanitizeAttachments() = %v, want %v", got, want)
	}
}

func TestValidContentStatus(t *testing.T) {
	valid := []string{
		models.StatusPublished,
		models.StatusPending,
		models.StatusHidden,
		models.StatusDeleted,
	}
	for _, s := range valid {
		if !validContentStatus(s) {
			t.Errorf("validContentStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "archived", "PUBLISHED"} {
		if validContentStatus(s) {
			t.Errorf("validContentStatus(%q) = true, want false", s)
		}
	}
}
