package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// healthProbeTimeout bounds the local runtime health check.
const healthProbeTimeout = 5 * time.Second

// OllamaProvider implements LocalProvider on an Ollama runtime.
type OllamaProvider struct {
	client  *ollama.LLM
	baseURL string
	model   string
	httpc   *http.Client
}

// NewOllamaProvider creates a provider for the runtime at baseURL serving
// the named model.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return &OllamaProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpc:   &http.Client{Timeout: healthProbeTimeout},
	}, nil
}

// Generate implements LocalProvider with a single-prompt completion.
func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, p.client, prompt)
	if err != nil {
		return "", fmt.Errorf("ollama completion: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// Ping probes GET /api/tags. Any transport error or non-200 status counts
// as unavailable; the caller is responsible for caching the result.
func (p *OllamaProvider) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.httpc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Model returns the configured local model name.
func (p *OllamaProvider) Model() string {
	return p.model
}
