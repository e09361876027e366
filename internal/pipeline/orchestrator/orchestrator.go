// Package orchestrator sequences the AI model calls: a creativity-biased
// primary generation pass, provider-level failover, JSON extraction from
// free-text output, and an optional low-temperature structuring pass.
package orchestrator

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"idea-path/internal/common/errors"
	"idea-path/internal/common/logger"
	"idea-path/internal/common/metrics"
	"idea-path/internal/models"
	"idea-path/internal/provider"
)

// TraceEntry is one step of the orchestration trace, kept in metadata for
// observability and never surfaced to end users.
type TraceEntry struct {
	Stage     string `json:"stage"`
	Provider  string `json:"provider"`
	ElapsedMS int64  `json:"elapsedMs"`
	Note      string `json:"note,omitempty"`
}

// Result carries the parsed model output plus the trace.
type Result struct {
	Output            *models.AIOutput
	PrimaryProvider   string
	SecondaryProvider string
	Trace             []TraceEntry
}

// Options tune one orchestrator instance.
type Options struct {
	Timeout              time.Duration
	MaxTokens            int64
	PrimaryTemperature   float64
	SecondaryTemperature float64
	SkipSecondary        bool
}

// Orchestrator drives the dual-model generation sequence. The fallback
// provider is tried only after the primary fails at the transport level.
type Orchestrator struct {
	primary  provider.Provider
	fallback provider.Provider
	log      logger.Logger
	opts     Options
}

func New(primary, fallback provider.Provider, log logger.Logger, opts Options) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = 55 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	return &Orchestrator{primary: primary, fallback: fallback, log: log, opts: opts}
}

// Availability reports whether each configured provider has credentials.
// Used by the health endpoint and the startup probe.
func (o *Orchestrator) Availability() (primary, fallback bool) {
	primary = o.primary != nil && o.primary.Available()
	fallback = o.fallback != nil && o.fallback.Available()
	return primary, fallback
}

// Orchestrate runs the full generation sequence. A parse failure is a hard
// failure with no retry; the caller is expected to serve canned fallback
// content instead.
func (o *Orchestrator) Orchestrate(ctx context.Context, prompts models.Prompts) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	result := &Result{}

	text, providerName, err := o.completeWithFailover(ctx, result, "generate", provider.Request{
		System:      prompts.System,
		User:        prompts.User,
		Temperature: o.opts.PrimaryTemperature,
		MaxTokens:   o.opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	result.PrimaryProvider = providerName

	jsonText, err := ExtractJSON(text)
	if err != nil {
		o.log.Error("primary output has no JSON object", map[string]interface{}{
			"provider": providerName,
			"raw":      text,
		})
		return nil, errors.NewModelParseFailedError("generate", err)
	}

	if !o.opts.SkipSecondary && prompts.StructuringSystem != "" {
		structured, secondaryName, err := o.completeWithFailover(ctx, result, "structure", provider.Request{
			System:      prompts.StructuringSystem,
			User:        jsonText,
			Temperature: o.opts.SecondaryTemperature,
			MaxTokens:   o.opts.MaxTokens,
		})
		if err != nil {
			// The primary output is already usable; a structuring
			// transport failure degrades rather than fails.
			o.log.Warn("structuring pass unavailable, using primary output", map[string]interface{}{
				"error": err.Error(),
			})
			result.Trace = append(result.Trace, TraceEntry{Stage: "structure", Note: "skipped: provider unavailable"})
		} else {
			result.SecondaryProvider = secondaryName
			extracted, err := ExtractJSON(structured)
			if err != nil {
				o.log.Error("structuring output has no JSON object", map[string]interface{}{
					"provider": secondaryName,
					"raw":      structured,
				})
				return nil, errors.NewModelParseFailedError("structure", err)
			}
			jsonText = extracted
			text = structured
		}
	}

	var output models.AIOutput
	if err := json.Unmarshal([]byte(jsonText), &output); err != nil {
		o.log.Error("model output is not valid JSON", map[string]interface{}{
			"raw": text,
		})
		return nil, errors.NewModelParseFailedError("parse", err)
	}
	output.RawModelText = text

	result.Output = &output
	return result, nil
}

// completeWithFailover tries the primary provider, then the fallback
// provider on transport failure. This is provider-level resilience, not a
// user-visible retry.
func (o *Orchestrator) completeWithFailover(ctx context.Context, result *Result, stage string, req provider.Request) (string, string, error) {
	providers := []provider.Provider{o.primary}
	if o.fallback != nil {
		providers = append(providers, o.fallback)
	}

	var lastErr error
	for _, p := range providers {
		if !p.Available() {
			continue
		}

		start := time.Now()
		text, err := p.Complete(ctx, req)
		elapsed := time.Since(start).Milliseconds()

		entry := TraceEntry{Stage: stage, Provider: p.Name(), ElapsedMS: elapsed}
		if err != nil {
			entry.Note = "failed"
			metrics.ProviderCalls.WithLabelValues(p.Name(), "error").Inc()
			o.log.Warn("provider call failed", map[string]interface{}{
				"stage":    stage,
				"provider": p.Name(),
				"elapsed":  elapsed,
				"error":    err.Error(),
			})
			result.Trace = append(result.Trace, entry)
			lastErr = err
			continue
		}

		metrics.ProviderCalls.WithLabelValues(p.Name(), "success").Inc()
		result.Trace = append(result.Trace, entry)
		return text, p.Name(), nil
	}

	if lastErr == nil {
		lastErr = errors.NewProviderAuthFailedError("none configured")
	}
	return "", "", lastErr
}

// ExtractJSON strips a free-text model response to its outermost {...}
// span. This is a recovery heuristic for prose- or fence-wrapped output,
// not a guarantee; malformed JSON remains a first-class failure mode.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", errNoJSONObject
	}
	return text[start : end+1], nil
}

var errNoJSONObject = stderrors.New("no JSON object found in model output")
