package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid simple", "user@example.com", true},
		{"valid subdomain", "a.b@mail.example.co", true},
		{"valid plus tag", "user+tag@example.com", true},
		{"missing at", "userexample.com", false},
		{"missing tld", "user@example", false},
		{"contains space", "us er@example.com", false},
		{"empty", "", false},
		{"double at", "user@@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateEmail(tt.email); got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"local digits", "0912345678", true},
		{"international", "+84912345678", true},
		{"minimum length", "12345678", true},
		{"too short", "1234567", false},
		{"too long", "1234567890123456", false},
		{"letters", "09123456ab", false},
		{"spaces", "091 234 5678", false},
		{"plus in middle", "091+2345678", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePhone(tt.phone); got != tt.want {
				t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestValidateQuestionTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"valid", "How do I improve TOEIC listening?", true},
		{"exactly min", strings.Repeat("a", 10), true},
		{"too short", "Too short", false},
		{"too long", strings.Repeat("a", 151), false},
		{"exactly max", strings.Repeat("a", 150), true},
		{"whitespace padding ignored", "   short   ", false},
		{"unicode counts runes", strings.Repeat("ạ", 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ValidateQuestionTitle(tt.title)
			if got != tt.want {
				t.Errorf("ValidateQuestionTitle(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestValidateContentLengths(t *testing.T) {
	if ok, _ := ValidateQuestionContent(strings.Repeat("x", 29)); ok {
		t.Error("ValidateQuestionContent() accepted 29 chars")
	}
	if ok, _ := ValidateQuestionContent(strings.Repeat("x", 30)); !ok {
		t.Error("ValidateQuestionContent() rejected 30 chars")
	}
	if ok, _ := ValidateAnswerContent(strings.Repeat("x", 9)); ok {
		t.Error("ValidateAnswerContent() accepted 9 chars")
	}
	if ok, _ := ValidateAnswerContent(strings.Repeat("x", 10)); !ok {
		t.Error("ValidateAnswerContent() rejected 10 chars")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TOEIC Listening Practice", "toeic-listening-practice"},
		{"Ngữ pháp tiếng Anh", "ngu-phap-tieng-anh"},
		{"  Mixed -- Separators__here  ", "mixed-separators-here"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
