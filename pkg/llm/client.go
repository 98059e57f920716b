package llm

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/snapshotdev/snapshot-server/errors"
	"github.com/snapshotdev/snapshot-server/pkg/config"
)

// Client is a Sampler backed by an OpenAI-compatible chat completions API.
type Client struct {
	api        *openai.Client
	model      string
	maxRetries int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates an LLM client using values from the provided config.
func NewClient(cfg *config.LLMConfig, logger *zap.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:        openai.NewClientWithConfig(apiCfg),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// Sample requests one chat completion, retrying transient failures with
// exponential backoff. Authentication and bad-request failures are not
// retried.
func (c *Client) Sample(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}

	c.logger.Debug("requesting LLM sampling",
		zap.Int("prompt_length", len(req.Prompt)),
		zap.Int("system_prompt_length", len(req.SystemPrompt)),
		zap.Float32("temperature", req.Temperature),
		zap.Int("max_tokens", req.MaxTokens),
		zap.String("model", c.model),
	)

	var resp openai.ChatCompletionResponse
	sampleFn := func() error {
		var err error
		resp, err = c.api.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return classify(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.Multiplier = 2.0
	bo.MaxElapsedTime = c.timeout

	retries := backoff.WithMaxRetries(backoff.WithContext(bo, ctx), uint64(c.maxRetries))
	if err := backoff.Retry(sampleFn, retries); err != nil {
		c.logger.Error("LLM sampling failed", zap.Error(err))
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.ErrLLMSampling(stderrors.New("empty response from LLM"))
	}

	choice := resp.Choices[0]
	out := &Response{
		Content: choice.Message.Content,
		Metadata: Metadata{
			Model: resp.Model,
			TokensUsed: TokenUsage{
				Input:  resp.Usage.PromptTokens,
				Output: resp.Usage.CompletionTokens,
			},
			FinishReason: string(choice.FinishReason),
		},
	}

	c.logger.Info("LLM sampling completed",
		zap.Int("response_length", len(out.Content)),
		zap.String("model", out.Metadata.Model),
		zap.Int("input_tokens", out.Metadata.TokensUsed.Input),
		zap.Int("output_tokens", out.Metadata.TokensUsed.Output),
	)

	return out, nil
}

// classify maps transport failures to the application error taxonomy and
// marks non-retryable ones as permanent so backoff stops immediately.
func classify(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrLLMTimeout(err)
	}

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return errors.ErrLLMRateLimited(err)
		case apiErr.HTTPStatusCode == http.StatusUnauthorized,
			apiErr.HTTPStatusCode == http.StatusForbidden,
			apiErr.HTTPStatusCode == http.StatusBadRequest:
			return backoff.Permanent(errors.ErrLLMSampling(err))
		}
	}

	return errors.ErrLLMSampling(err)
}
