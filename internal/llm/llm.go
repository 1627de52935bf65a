// Package llm provides a minimal multi-provider LLM client.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rowanvale/chainlog/internal/output"
)

// Provider represents an LLM provider.
type Provider string

// Supported LLM providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	ProviderLocal     Provider = "local"
)

// Request represents an LLM completion request.
type Request struct {
	System      string  // System prompt
	Prompt      string  // User prompt
	Temperature float64 // Temperature (0 uses default)
	MaxTokens   int     // Max tokens (0 uses default)
}

// Response represents an LLM completion response.
type Response struct {
	Content string // Generated content
	Model   string // Model used
}

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a provider-agnostic LLM client.
type Client struct {
	provider   Provider
	model      string
	apiKey     string
	httpClient HTTPDoer
}

// New creates a new LLM client for the given model.
// Provider is inferred from the model name when not specified.
func New(model string, provider Provider) (*Client, error) {
	if provider == "" {
		provider = inferProvider(model)
	}

	model = resolveModelAlias(model, provider)

	apiKey, err := getAPIKey(provider)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// Complete generates a completion for the given request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	switch c.provider {
	case ProviderAnthropic:
		return c.completeAnthropic(ctx, req)
	case ProviderOpenAI:
		return c.completeOpenAI(ctx, req)
	case ProviderGoogle:
		return c.completeGoogle(ctx, req)
	case ProviderLocal:
		return c.completeLocal(ctx, req)
	default:
		return nil, output.NewUserError(fmt.Sprintf("unsupported provider: %s", c.provider))
	}
}

// providerPattern maps model substrings to providers.
type providerPattern struct {
	substring string
	provider  Provider
}

// providerPatterns checked in order; first match wins.
var providerPatterns = []providerPattern{
	{"claude", ProviderAnthropic},
	{"haiku", ProviderAnthropic},
	{"sonnet", ProviderAnthropic},
	{"opus", ProviderAnthropic},
	{"gpt", ProviderOpenAI},
	{"o1", ProviderOpenAI},
	{"o3", ProviderOpenAI},
	{"gemini", ProviderGoogle},
	{"flash", ProviderGoogle},
	{"local", ProviderLocal},
	{"qwen", ProviderLocal},
	{"llama", ProviderLocal},
}

// inferProvider guesses the provider from the model name.
func inferProvider(model string) Provider {
	modelLower := strings.ToLower(model)
	for _, p := range providerPatterns {
		if strings.Contains(modelLower, p.substring) {
			return p.provider
		}
	}
	return ProviderAnthropic
}

// Model aliases - convenient shorthands, users can pass full names directly.
var modelAliases = map[Provider]map[string]string{
	ProviderAnthropic: {
		"haiku":  "claude-haiku-4-5-20251001",
		"sonnet": "claude-sonnet-4-5-20250929",
	},
	ProviderOpenAI: {
		"nano": "gpt-5-nano",
		"mini": "gpt-5-mini",
	},
	ProviderGoogle: {
		"flash": "gemini-2.5-flash-lite",
	},
	ProviderLocal: {
		"local": "default",
	},
}

// resolveModelAlias expands shorthand aliases, passes through unknown names.
func resolveModelAlias(model string, provider Provider) string {
	if aliases, ok := modelAliases[provider]; ok {
		if resolved, ok := aliases[strings.ToLower(model)]; ok {
			return resolved
		}
	}
	return model
}

// envVarForProvider maps providers to their API key environment variables.
var envVarForProvider = map[Provider]string{
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderGoogle:    "GOOGLE_API_KEY",
	ProviderLocal:     "", // Local provider doesn't require an API key
}

// HasCredentials reports whether the provider's API key is present in
// the environment. The local provider never requires one.
func HasCredentials(provider Provider) bool {
	envVar, ok := envVarForProvider[provider]
	if !ok {
		return false
	}
	return envVar == "" || os.Getenv(envVar) != ""
}

func getAPIKey(provider Provider) (string, error) {
	envVar, ok := envVarForProvider[provider]
	if !ok {
		return "", output.NewUserError(fmt.Sprintf("unsupported provider: %s", provider))
	}

	if envVar == "" {
		return "not-needed", nil
	}

	key := os.Getenv(envVar)
	if key == "" {
		return "", output.NewUserError(envVar + " environment variable not set")
	}
	return key, nil
}

// LocalServerURL returns the URL for the local LLM server.
// Defaults to http://localhost:1234/v1 (LM Studio default).
func LocalServerURL() string {
	if url := os.Getenv("LOCAL_LLM_URL"); url != "" {
		return url
	}
	return "http://localhost:1234/v1"
}

// doRequest performs an HTTP POST request with JSON body.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Truncate error body to prevent sensitive data leakage
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, output.NewSystemError(fmt.Sprintf("API error (status %d): %s", resp.StatusCode, errBody))
	}

	return respBody, nil
}
