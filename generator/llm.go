package generator

import (
	"context"
	"time"
)

// LLMClient abstracts a text-generation backend so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the per-model configuration handed to concrete clients.
type LLMSettings struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	KeepAlive string
	Timeout   time.Duration
}
