package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestTextPlainKinds(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"txt by extension", "notes.txt", ""},
		{"markdown by extension", "readme.md", ""},
		{"csv by extension", "data.csv", ""},
		{"txt by content type", "upload", "text/plain"},
		{"content type with charset", "upload", "text/plain; charset=utf-8"},
		{"uppercase extension", "NOTES.TXT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.filename, tt.contentType, []byte("hello world"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "hello world" {
				t.Errorf("expected %q, got %q", "hello world", got)
			}
		})
	}
}

func TestTextUnsupportedKind(t *testing.T) {
	_, err := Text("binary.exe", "application/octet-stream", []byte{0x4d, 0x5a})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), "binary.exe") {
		t.Errorf("expected filename in error, got %q", err.Error())
	}
}

func TestTextOversizeRejected(t *testing.T) {
	big := strings.Repeat("a", MaxChars+1)
	text, err := Text("big.txt", "", []byte(big))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if text != "" {
		t.Error("oversize extraction must not return text")
	}
}

func TestTextAtSizeCap(t *testing.T) {
	exact := strings.Repeat("a", MaxChars)
	got, err := Text("exact.txt", "", []byte(exact))
	if err != nil {
		t.Fatalf("unexpected error at the cap: %v", err)
	}
	if len(got) != MaxChars {
		t.Errorf("expected %d chars, got %d", MaxChars, len(got))
	}
}

func TestResolvePrefersExtension(t *testing.T) {
	// A .txt file with a PDF content type must still use the plain
	// extractor; the declared type is only a fallback.
	fn, err := Resolve("notes.txt", "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := fn([]byte("plain"))
	if err != nil || got != "plain" {
		t.Errorf("expected plain extraction, got %q err %v", got, err)
	}
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	if _, err := Text("doc.pdf", "", []byte("not a pdf")); err == nil {
		t.Error("expected error for malformed pdf")
	}
}
