package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}
	return path
}

func TestLoadCategorySeed(t *testing.T) {
	path := writeSeedFile(t, `
categories:
  - name_en: Grammar
    name_vi: Ngữ pháp
    description: English grammar lessons
    keywords:
      - grammar
      - tenses
  - name_en: TOEIC
    name_vi: Luyện thi TOEIC
`)

	cats, err := LoadCategorySeed(path)
	if err != nil {
		t.Fatalf("LoadCategorySeed() error = %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("LoadCategorySeed() returned %d categories, want 2", len(cats))
	}
	if cats[0].NameVi != "Ngữ pháp" {
		t.Errorf("NameVi = %q, want %q", cats[0].NameVi, "Ngữ pháp")
	}
	if len(cats[0].Keywords) != 2 {
		t.Errorf("Keywords = %v, want 2 entries", cats[0].Keywords)
	}
	if cats[1].Description != "" {
		t.Errorf("Description = %q, want empty", cats[1].Description)
	}
}

func TestLoadCategorySeed_MissingName(t *testing.T) {
	path := writeSeedFile(t, `
categories:
  - name_vi: Thiếu tên
`)
	if _, err := LoadCategorySeed(path); err == nil {
		t.Error("LoadCategorySeed() accepted entry without name_en")
	}
}

func TestLoadCategorySeed_FileMissing(t *testing.T) {
	if _, err := LoadCategorySeed(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadCategorySeed() succeeded on missing file")
	}
}
