// Package provider wraps the three external LLM HTTP APIs behind a single
// prompt-in, text-out contract. Each adapter issues one POST per call, never
// retries, and reports failures as errors that the orchestrator turns into
// display text; no provider failure crosses the adapter boundary as a panic
// or aborts the other providers.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fixed provider identifiers. These key the response bundle slots.
const (
	NameOpenAI     = "openai"
	NameGemini     = "gemini"
	NamePerplexity = "perplexity"
)

// callTimeout is the hard per-call deadline. A provider that has not
// answered by then resolves its slot with a timeout error.
const callTimeout = 30 * time.Second

// ErrMissingKey marks a provider configured without an API key. The
// provider still constructs; the error surfaces per call so the other two
// providers keep working.
var ErrMissingKey = errors.New("api key required")

// Client is the uniform capability each adapter implements.
type Client interface {
	Name() string
	Invoke(ctx context.Context, prompt string) (string, error)
}

// structureInstruction asks every provider for the markdown subset the
// normalizer understands, so the three answers render uniformly.
const structureInstruction = "Structure your answer with markdown: " +
	"use #, ## and ### headings, * bullet lists, numbered lists, " +
	"> blockquotes for notes, and fenced code blocks where helpful. " +
	"Answer the question below."

// Wrap prefixes a prompt with the standard structuring instruction header.
func Wrap(prompt string) string {
	return structureInstruction + "\n\n" + prompt
}

// ErrorText synthesizes the display string for a failed provider call.
func ErrorText(name string, err error) string {
	return fmt.Sprintf("Error (%s): %v", name, err)
}
