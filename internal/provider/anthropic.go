package provider

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"idea-path/internal/common/errors"
)

// AnthropicMessager is the subset of the Anthropic client we use.
// It exists so tests can inject a mock.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicProvider calls the Claude messages API.
type AnthropicProvider struct {
	apiKey   string
	model    string
	messages AnthropicMessager
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	p := &AnthropicProvider{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
	if p.apiKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(p.apiKey))
		p.messages = &client.Messages
	}
	return p
}

func (p *AnthropicProvider) Name() string    { return "anthropic" }
func (p *AnthropicProvider) Available() bool { return p.apiKey != "" }

func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (string, error) {
	if !p.Available() {
		return "", errors.NewProviderAuthFailedError("anthropic")
	}

	resp, err := p.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewProviderTimeoutError("anthropic")
		}
		return "", errors.NewProviderUnavailableError("anthropic", err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", errors.NewProviderUnavailableError("anthropic", fmt.Errorf("empty response"))
	}
	return text, nil
}
