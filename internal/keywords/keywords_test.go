package keywords

import (
	"strings"
	"sync"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain lowercase", "toeic", "toeic"},
		{"uppercase folded", "TOEIC", "toeic"},
		{"surrounding whitespace", "  Toeic  ", "toeic"},
		{"vietnamese diacritics", "Từ vựng TOEIC", "tu vung toeic"},
		{"accented latin", "Élodie", "elodie"},
		{"punctuation to space", "c++/go", "c go"},
		{"collapsed interior runs", "a   -  b", "a b"},
		{"digits kept", "ielts 7.5", "ielts 7 5"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
		{"tabs and newlines", "listening\tpart\n1", "listening part 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Normalize runs simultaneously in request handlers and in the async
// tracker goroutines, so it must not share transformer state. Run with
// -race to catch regressions.
func TestNormalizeConcurrent(t *testing.T) {
	const (
		goroutines = 32
		iterations = 200
	)
	input := "Từ vựng TOEIC nâng cao"
	want := Normalize(input)

	var wg sync.WaitGroup
	errs := make(chan string, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if got := Normalize(input); got != want {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent Normalize(%q) = %q, want %q", input, got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"TOEIC", "Từ vựng nâng cao", "  a,b;c  ", "", "---", "ngữ pháp N5",
		"Résumé Writing 101", "foo    bar",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeAlphabet(t *testing.T) {
	inputs := []string{
		"TOEIC Listening!", "tiếng Việt có dấu", "  spaced   out  ",
		"mixed: CASE/slash", "números 123", "日本語 kanji",
	}
	for _, in := range inputs {
		out := Normalize(in)
		if out != strings.TrimSpace(out) {
			t.Errorf("Normalize(%q) = %q has leading/trailing space", in, out)
		}
		if strings.Contains(out, "  ") {
			t.Errorf("Normalize(%q) = %q has doubled space", in, out)
		}
		for _, r := range out {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' '
			if !ok {
				t.Errorf("Normalize(%q) = %q contains disallowed rune %q", in, out, r)
			}
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"csv", "toeic,listening", []string{"toeic", "listening"}},
		{"csv with spaces", " toeic , listening ", []string{"toeic", "listening"}},
		{"csv empty elements dropped", "toeic,,listening,", []string{"toeic", "listening"}},
		{"json array", `["toeic","listening"]`, []string{"toeic", "listening"}},
		{"json array trims", `[" toeic ", ""]`, []string{"toeic"}},
		{"json non-strings coerced", `["toeic", 7]`, []string{"toeic", "7"}},
		{"malformed json falls back to csv", `["toeic",listening`, []string{`["toeic"`, "listening"}},
		{"json non-array falls back to csv", `{"a":1}`, []string{`{"a":1}`}},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseList(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseList(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseList(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	pairs := Dedupe([]string{"TOEIC", "toeic", " Toeic "})
	if len(pairs) != 1 {
		t.Fatalf("Dedupe() = %d pairs, want 1", len(pairs))
	}
	if pairs[0].Key != "toeic" {
		t.Errorf("Dedupe() key = %q, want %q", pairs[0].Key, "toeic")
	}
	if pairs[0].DisplayName != "TOEIC" {
		t.Errorf("Dedupe() display name = %q, want first occurrence %q", pairs[0].DisplayName, "TOEIC")
	}
}

func TestDedupeOrderAndSkips(t *testing.T) {
	pairs := Dedupe([]string{"", "Grammar", "!!!", "Listening", "grammar"})
	want := []Pair{
		{DisplayName: "Grammar", Key: "grammar"},
		{DisplayName: "Listening", Key: "listening"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("Dedupe() = %v, want %v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("Dedupe()[%d] = %v, want %v", i, pairs[i], want[i])
		}
	}
}

func TestComputeDelta(t *testing.T) {
	d := ComputeDelta([]string{"a", "b"}, []string{"b", "c"})
	if len(d.Added) != 1 || d.Added[0].Key != "c" {
		t.Errorf("added = %v, want [c]", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0].Key != "a" {
		t.Errorf("removed = %v, want [a]", d.Removed)
	}
}

func TestComputeDeltaNoChange(t *testing.T) {
	lists := [][]string{
		nil,
		{"toeic"},
		{"TOEIC", "Listening", "ngữ pháp"},
	}
	for _, l := range lists {
		d := ComputeDelta(l, l)
		if !d.Empty() {
			t.Errorf("ComputeDelta(%v, same) = %+v, want empty", l, d)
		}
	}
}

func TestComputeDeltaCaseInsensitive(t *testing.T) {
	// Respelling a tag is not a change.
	d := ComputeDelta([]string{"TOEIC"}, []string{"toeic", "Listening"})
	if len(d.Removed) != 0 {
		t.Errorf("removed = %v, want none", d.Removed)
	}
	if len(d.Added) != 1 || d.Added[0].Key != "listening" {
		t.Fatalf("added = %v, want [listening]", d.Added)
	}
	if d.Added[0].DisplayName != "Listening" {
		t.Errorf("added display name = %q, want %q", d.Added[0].DisplayName, "Listening")
	}
}
