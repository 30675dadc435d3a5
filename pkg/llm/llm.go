package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("llm: provider not configured")
	// ErrRateLimited is returned when an organization exhausted its budget
	// or the upstream API answered 429.
	ErrRateLimited = errors.New("llm: rate limited")
	// ErrUpstream wraps any other failure of the completion API.
	ErrUpstream = errors.New("llm: upstream error")
	// ErrNoAnswer is returned when the answer holds nothing usable.
	ErrNoAnswer = errors.New("llm: no usable answer")
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"

	defaultMaxTokens = 4096
	defaultTimeout   = 90 * time.Second
)

// Request is a single-turn completion request.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Completion is the text answer of a model.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Provider sends prompts to a completion API.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Config selects and configures a Provider.
type Config struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewProvider builds the provider named in cfg.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	switch cfg.Provider {
	case ProviderAnthropic, "":
		return NewAnthropic(cfg), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

func maxTokens(n int) int {
	if n <= 0 {
		return defaultMaxTokens
	}
	return n
}

// statusError classifies a non-2xx answer from a completion API.
func statusError(provider string, status int, msg string) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s returned %d", ErrRateLimited, provider, status)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("%w: %s returned %d: %s", ErrUpstream, provider, status, msg)
}
