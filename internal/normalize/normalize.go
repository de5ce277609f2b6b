// Package normalize converts the markdown-like text coming back from LLM
// providers into a fixed glyph-marked markup. The presentation layer splits
// the result on blank lines and picks a rendering style from each
// paragraph's leading glyph, so the stored text stays display-independent.
package normalize

import (
	"regexp"
	"strings"
)

// Leading glyphs understood by the presentation layer.
const (
	HeadingLarge  = "💠 " // was "# "
	HeadingMedium = "🔷 " // was "## "
	HeadingSmall  = "🔹 " // was "### "
	Bullet        = "• "
	Numbered      = "➤ "
	Note          = "📌 "
	CodeOpen      = "⟦"
	CodeClose     = "⟧"
)

// ParagraphSeparator joins the normalized paragraphs.
const ParagraphSeparator = "\n\n"

var (
	blankRuns  = regexp.MustCompile(`\n{3,}`)
	fencedCode = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*\n?(.*?)```")
	inlineCode = regexp.MustCompile("`([^`\n]+)`")
	boldStars  = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnders = regexp.MustCompile(`__([^_]+)__`)
	italics    = regexp.MustCompile(`\*([^*\n]+)\*`)
	mdLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	numbered   = regexp.MustCompile(`^\d+\.\s`)
)

// glyphPrefixes lets already-normalized lines pass through unchanged, which
// keeps reapplication from stacking markers on top of each other.
var glyphPrefixes = []string{
	HeadingLarge, HeadingMedium, HeadingSmall,
	Bullet, Numbered, Note, CodeOpen,
}

// Normalize is a pure function: the same input always yields the same
// output, and normalized text survives a second pass unchanged.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")

	// Code fences are consumed before any line rule so their contents
	// never match heading or list markers.
	s = fencedCode.ReplaceAllStringFunc(s, func(block string) string {
		inner := fencedCode.FindStringSubmatch(block)[1]
		inner = strings.TrimSpace(inner)
		// A fenced block becomes a single bracket-marked paragraph.
		inner = strings.Join(strings.Fields(strings.ReplaceAll(inner, "\n", " ")), " ")
		return CodeOpen + inner + CodeClose
	})

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = markLine(strings.TrimSpace(line))
	}
	s = strings.Join(lines, "\n")

	s = inlineCode.ReplaceAllString(s, CodeOpen+"$1"+CodeClose)
	s = boldStars.ReplaceAllString(s, "$1")
	s = boldUnders.ReplaceAllString(s, "$1")
	s = italics.ReplaceAllString(s, "$1")
	s = mdLink.ReplaceAllString(s, "$1")

	var paragraphs []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return strings.Join(paragraphs, ParagraphSeparator)
}

// markLine rewrites one trimmed line's leading markdown marker to its glyph.
// Longest heading prefix wins so "### " is never read as "# ".
func markLine(line string) string {
	for _, g := range glyphPrefixes {
		if strings.HasPrefix(line, g) {
			return line
		}
	}
	switch {
	case strings.HasPrefix(line, "### "):
		return HeadingSmall + line[len("### "):]
	case strings.HasPrefix(line, "## "):
		return HeadingMedium + line[len("## "):]
	case strings.HasPrefix(line, "# "):
		return HeadingLarge + line[len("# "):]
	case strings.HasPrefix(line, "* "), strings.HasPrefix(line, "- "):
		return Bullet + line[2:]
	case numbered.MatchString(line):
		return Numbered + line
	case strings.HasPrefix(line, "> "):
		return Note + line[len("> "):]
	}
	return line
}
