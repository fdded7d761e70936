// Package ai implements the LLM oracles behind newsbot: interest
// extraction from browser history, article relevance scoring, and summary
// enhancement. Providers are treated as black boxes that may return
// malformed output; parse failures degrade to fewer results rather than
// errors.
package ai

import (
	"context"
	"fmt"
	"strings"
)

// Provider is a minimal completion interface over an LLM API.
type Provider interface {
	// Complete sends a system prompt and user message and returns the
	// model's text response.
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ProviderConfig holds what is needed to construct a Provider.
type ProviderConfig struct {
	Provider string // "anthropic" | "openai"
	APIKey   string
	Model    string
}

// NewProvider creates the configured provider implementation.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// ClientError is an oracle failure the user can act on: the API was
// unreachable, rejected the credentials, or is misconfigured. It carries a
// remediation hint surfaced at the command boundary.
type ClientError struct {
	Err  error
	Hint string
}

func (e *ClientError) Error() string {
	return e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// extractJSON pulls the first JSON array out of a model response, handling
// responses wrapped in ```json fences or surrounded by prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if after, found := strings.CutPrefix(s, "```json"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		s = strings.TrimSpace(after)
	} else if after, found := strings.CutPrefix(s, "```"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		s = strings.TrimSpace(after)
	}

	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// clampScore forces a score into [0, 1].
func clampScore(score float64) float64 {
	return min(1.0, max(0.0, score))
}
