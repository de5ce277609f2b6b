package normalize

import (
	"strings"
	"testing"
)

func TestNormalizeHeadings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"large heading", "# Title\n\nSome text", "💠 Title\n\nSome text"},
		{"medium heading", "## Section", "🔷 Section"},
		{"small heading", "### Detail", "🔹 Detail"},
		{"hash without space left alone", "#hashtag", "#hashtag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// A line starting with "### " must map to the small heading glyph, never to
// the medium or large one.
func TestNormalizeLongestPrefixFirst(t *testing.T) {
	got := Normalize("### Small")
	if strings.HasPrefix(got, HeadingLarge) || strings.HasPrefix(got, HeadingMedium) {
		t.Fatalf("small heading mapped to a larger glyph: %q", got)
	}
	if got != HeadingSmall+"Small" {
		t.Errorf("expected %q, got %q", HeadingSmall+"Small", got)
	}
}

func TestNormalizeLists(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"star bullet", "* item", "• item"},
		{"dash bullet", "- item", "• item"},
		{"numbered keeps number", "1. first", "➤ 1. first"},
		{"two digit numbered", "12. twelfth", "➤ 12. twelfth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalizeNoteAndCode(t *testing.T) {
	if got := Normalize("> remember this"); got != "📌 remember this" {
		t.Errorf("blockquote: got %q", got)
	}
	if got := Normalize("use `go vet` often"); got != "use ⟦go vet⟧ often" {
		t.Errorf("inline code: got %q", got)
	}
	got := Normalize("```go\nfmt.Println(1)\n```")
	if got != "⟦fmt.Println(1)⟧" {
		t.Errorf("fenced code: got %q", got)
	}
}

// Fenced contents must never be re-read as headings or bullets.
func TestNormalizeFenceConsumedFirst(t *testing.T) {
	got := Normalize("```\n# not a heading\n- not a bullet\n```")
	if strings.Contains(got, HeadingLarge) || strings.Contains(got, Bullet) {
		t.Fatalf("fence interior was re-marked: %q", got)
	}
	if !strings.HasPrefix(got, CodeOpen) || !strings.HasSuffix(got, CodeClose) {
		t.Errorf("expected bracket-marked block, got %q", got)
	}
}

func TestNormalizeEmphasisAndLinks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bold stars", "**bold** text", "bold text"},
		{"bold underscores", "__bold__ text", "bold text"},
		{"italic stars", "*italic* text", "italic text"},
		{"link keeps text", "see [the docs](https://example.com) here", "see the docs here"},
		{"empty link text", "[](https://example.com)end", "end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalizeBlankRunsAndJoin(t *testing.T) {
	got := Normalize("first\n\n\n\n\nsecond\r\nthird")
	expected := "first\n\nsecond\n\nthird"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	input := "# Head\n\n* one\n* two\n\n> note with `code`"
	first := Normalize(input)
	for i := 0; i < 5; i++ {
		if got := Normalize(input); got != first {
			t.Fatalf("run %d differs: %q vs %q", i, got, first)
		}
	}
}

// Re-normalizing already-normalized text must not stack glyphs.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome text",
		"## Section\n* a\n* b\n3. c",
		"> note\n\n```\ncode block\n```",
		"**bold** and [link](http://x) and `span`",
		"already plain text",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestNormalizeCannedProviderResponse(t *testing.T) {
	// Every provider returning the same canned markdown must normalize to
	// the same glyph-marked text.
	canned := "# Title\n\nSome text"
	want := "💠 Title\n\nSome text"
	for i := 0; i < 3; i++ {
		if got := Normalize(canned); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
