// Package llm wraps the cloud and local language-model backends behind the
// capabilities the kiosk actually needs: category classification, complexity
// analysis, structured order-item extraction, and free-text generation.
package llm

import (
	"context"
	"errors"
)

// Backend identifies where a completion is served from.
type Backend string

const (
	BackendCloud Backend = "cloud"
	BackendLocal Backend = "local"
)

// Complexity grades how much reasoning a query needs, driving cloud tier
// selection.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Sensitivity grades the privacy risk of a query, driving the cloud-vs-local
// serving choice.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Message is a chat message sent to a backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompleteOptions tunes a single completion request.
type CompleteOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// CloudProvider serves completions from the hosted model API.
type CloudProvider interface {
	Complete(ctx context.Context, messages []Message, opts CompleteOptions) (string, error)
}

// LocalProvider serves completions from an on-premise model runtime.
type LocalProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Ping probes the runtime's health endpoint; false on any failure.
	Ping(ctx context.Context) bool
	Model() string
}

// ErrEmptyCompletion marks a backend response that contained no usable text.
var ErrEmptyCompletion = errors.New("llm: empty completion")
