// Package extract turns uploaded files into plain text used to pre-fill a
// query. Supported kinds form a closed table; anything else is rejected up
// front rather than guessed at.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxChars caps the extracted text; larger files are rejected with
// ErrTooLarge and must not populate the query field.
const MaxChars = 50000

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = fmt.Errorf("extracted text exceeds %d characters", MaxChars)
)

// Extractor converts one file kind's raw bytes into plain text.
type Extractor func(content []byte) (string, error)

// extractors is the closed capability table, keyed by lowercase extension.
var extractors = map[string]Extractor{
	".pdf": extractPDF,
	".txt": extractPlain,
	".md":  extractPlain,
	".csv": extractPlain,
}

// mimeExtensions maps declared content types onto table keys for uploads
// that carry a type but no useful filename.
var mimeExtensions = map[string]string{
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"text/markdown":   ".md",
	"text/csv":        ".csv",
}

// Resolve picks the extractor for a file by extension, falling back to the
// declared content type. Returns ErrUnsupportedType when neither matches.
func Resolve(filename, contentType string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if fn, ok := extractors[ext]; ok {
		return fn, nil
	}
	if mapped, ok := mimeExtensions[baseMIME(contentType)]; ok {
		return extractors[mapped], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
}

// Text resolves, extracts, and enforces the size cap in one call.
func Text(filename, contentType string, content []byte) (string, error) {
	fn, err := Resolve(filename, contentType)
	if err != nil {
		return "", err
	}
	text, err := fn(content)
	if err != nil {
		return "", err
	}
	if len(text) > MaxChars {
		return "", ErrTooLarge
	}
	return text, nil
}

func baseMIME(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(strings.ToLower(base))
}

func extractPlain(content []byte) (string, error) {
	return string(content), nil
}

func extractPDF(content []byte) (string, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
