package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var (
	ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY is not set")
	ErrRateLimited   = errors.New("rate limit exceeded")
)

type Request struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int64
	// Schema requests structured JSON output when non-nil.
	Schema map[string]any
}

type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type AnthropicCompleter struct {
	client anthropic.Client
}

// NewAnthropicCompleter disables the SDK's own retries; rate limits surface
// as ErrRateLimited so the analyzer can apply its cool-down.
func NewAnthropicCompleter(cfg Config, opts ...option.RequestOption) (*AnthropicCompleter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &AnthropicCompleter{client: anthropic.NewClient(opts...)}, nil
}

func (c *AnthropicCompleter) Complete(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{
				Schema: req.Schema,
			},
		}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", nil
}
