package storage

import (
	"strings"
	"testing"
)

func TestNewKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		filename string
		wantExt  string
	}{
		{"video upload", PrefixMedia, "lesson-01.MP4", ".mp4"},
		{"pdf upload", PrefixFiles, "toeic handbook.pdf", ".pdf"},
		{"no extension", PrefixCover, "cover", ""},
		{"dotted name", PrefixQA, "notes.v2.final.png", ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewKey(tt.prefix, tt.filename)
			if !strings.HasPrefix(key, tt.prefix+"/") {
				t.Errorf("NewKey() = %q, want prefix %q", key, tt.prefix+"/")
			}
			if !strings.HasSuffix(key, tt.wantExt) {
				t.Errorf("NewKey() = %q, want extension %q", key, tt.wantExt)
			}
			if strings.Contains(key, " ") {
				t.Errorf("NewKey() = %q, contains spaces", key)
			}
		})
	}
}

func TestNewKeyUnique(t *testing.T) {
	a := NewKey(PrefixMedia, "a.mp4")
	b := NewKey(PrefixMedia, "a.mp4")
	if a == b {
		t.Errorf("NewKey() returned duplicate key %q", a)
	}
}
