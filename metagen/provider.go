package metagen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// ErrProviderUnavailable is returned when no text-generation endpoint is
// configured. Callers treat it like any other provider failure and fall
// back to deterministic generation.
var ErrProviderUnavailable = errors.New("text-generation provider not configured")

// Options bound a single generation call.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Provider converts a prompt into natural-language output. Implementations
// may time out, fail, or return unparsable text; callers must validate the
// output defensively.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// HTTPProvider calls a completion-style HTTP API.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewHTTPProvider creates a provider client with a bounded timeout.
func NewHTTPProvider(endpoint, apiKey, model string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// NewHTTPProviderFromEnv builds a provider from META_API_URL, META_API_KEY,
// META_API_MODEL and META_API_TIMEOUT (seconds).
func NewHTTPProviderFromEnv() *HTTPProvider {
	timeout := 15 * time.Second
	if v := os.Getenv("META_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return NewHTTPProvider(
		os.Getenv("META_API_URL"),
		os.Getenv("META_API_KEY"),
		os.Getenv("META_API_MODEL"),
		timeout,
	)
}

type completionRequest struct {
	Model       string  `json:"model,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Text    string `json:"text"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate posts the prompt to the configured endpoint and returns the raw
// completion text. Any non-2xx status or empty completion is an error.
func (p *HTTPProvider) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if p.endpoint == "" {
		return "", ErrProviderUnavailable
	}

	body, err := json.Marshal(completionRequest{
		Model:       p.model,
		Prompt:      prompt,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	var completion completionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	for _, choice := range completion.Choices {
		if choice.Text != "" {
			return choice.Text, nil
		}
		if choice.Message.Content != "" {
			return choice.Message.Content, nil
		}
	}

	return "", errors.New("provider returned no completion text")
}
