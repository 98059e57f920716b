// Package llm provides the LLM sampling client used by the snapshot agents.
package llm

import "context"

// Request describes one sampling call.
type Request struct {
	Prompt       string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

// TokenUsage holds input/output token counts for one completion.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// Metadata describes how a completion was produced.
type Metadata struct {
	Model        string     `json:"model"`
	TokensUsed   TokenUsage `json:"tokens_used"`
	FinishReason string     `json:"finish_reason"`
}

// Response is the result of one sampling call.
type Response struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Sampler requests completions from a large language model.
type Sampler interface {
	Sample(ctx context.Context, req Request) (*Response, error)
}
