package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"idea-path/internal/common/errors"
)

// GeminiProvider calls the Gemini generateContent API. A fresh client is
// opened per call; the SDK keeps no useful connection state between calls.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

func (p *GeminiProvider) Name() string    { return "gemini" }
func (p *GeminiProvider) Available() bool { return p.apiKey != "" }

func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	if !p.Available() {
		return "", errors.NewProviderAuthFailedError("gemini")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", errors.NewProviderUnavailableError("gemini", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(p.model)
	temp := float32(req.Temperature)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		MaxOutputTokens:  ptrInt32(int32(req.MaxTokens)),
		ResponseMIMEType: "application/json",
	}
	if req.System != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewProviderTimeoutError("gemini")
		}
		return "", errors.NewProviderUnavailableError("gemini", err)
	}

	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return "", errors.NewProviderUnavailableError("gemini", fmt.Errorf("empty response"))
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrInt32(v int32) *int32 { return &v }
