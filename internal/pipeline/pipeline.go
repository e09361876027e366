// Package pipeline drives the full generation sequence: normalization,
// input safety check, context building (with cache), AI orchestration,
// feasibility processing, output safety check, and formatting. The canned
// fallback is substitutable at any failure point after context building.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"idea-path/internal/common/errors"
	"idea-path/internal/common/logger"
	"idea-path/internal/common/metrics"
	"idea-path/internal/models"
	"idea-path/internal/pipeline/contextbuilder"
	"idea-path/internal/pipeline/fallback"
	"idea-path/internal/pipeline/feasibility"
	"idea-path/internal/pipeline/formatter"
	"idea-path/internal/pipeline/normalizer"
	"idea-path/internal/pipeline/orchestrator"
	"idea-path/internal/pipeline/safeguard"
	"idea-path/internal/storage"
)

// Options configure one pipeline instance.
type Options struct {
	// ModelNames maps provider name to its configured model identifier,
	// for response metadata.
	ModelNames map[string]string
}

// Pipeline wires the stages together. Each Generate call is an independent
// stateless unit of work; the stores are the only shared state.
type Pipeline struct {
	orch   *orchestrator.Orchestrator
	stores *storage.Stores
	log    logger.Logger
	opts   Options
}

func New(orch *orchestrator.Orchestrator, stores *storage.Stores, log logger.Logger, opts Options) *Pipeline {
	return &Pipeline{orch: orch, stores: stores, log: log, opts: opts}
}

// Availability reports provider credential status for the health endpoint.
func (p *Pipeline) Availability() (primary, fallback bool) {
	return p.orch.Availability()
}

// Generate runs one request through the full pipeline. Blocked input is the
// only error surfaced to callers besides internal failures; provider and
// parse failures degrade to canned fallback content.
func (p *Pipeline) Generate(ctx context.Context, raw models.RawInput) (*models.FinalResponse, error) {
	start := time.Now()

	stageStart := time.Now()
	profile := normalizer.Normalize(raw)
	metrics.StageDuration.WithLabelValues("normalize").Observe(time.Since(stageStart).Seconds())

	inputVerdict := safeguard.CheckInput(profile)
	if !inputVerdict.Safe {
		metrics.GenerateRequests.WithLabelValues("blocked_input").Inc()
		p.log.Warn("input blocked by safety filter", map[string]interface{}{
			"categories": len(inputVerdict.Findings),
		})
		return nil, errors.NewInputBlockedError(inputVerdict.Findings[0].Category)
	}
	if len(inputVerdict.Flagged) > 0 {
		p.log.Info("input flagged for extra scrutiny", map[string]interface{}{
			"flagged": inputVerdict.Flagged,
		})
	}

	pctx := p.buildContext(ctx, profile)
	prompts := contextbuilder.RenderPrompts(pctx)

	result, err := p.orch.Orchestrate(ctx, prompts)
	if err != nil {
		reason := fallback.ReasonProviderUnavailable
		if errors.Normalize(err).Code == errors.ErrCodeModelParseFailed {
			reason = fallback.ReasonParseFailure
		}
		p.log.Warn("orchestration failed, serving fallback", map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
		return p.serveFallback(ctx, pctx, profile.SessionID, reason, start)
	}

	output := feasibility.Process(result.Output, pctx)

	serialized, marshalErr := json.Marshal(output)
	if marshalErr != nil {
		return nil, errors.NewInternalError(marshalErr)
	}
	outputVerdict := safeguard.CheckOutput(string(serialized), output)
	if outputVerdict.Action == safeguard.ActionBlock {
		p.log.Warn("output blocked by safety filter", map[string]interface{}{
			"findings": len(outputVerdict.Findings),
		})
		return p.serveFallback(ctx, pctx, profile.SessionID, fallback.ReasonOutputBlocked, start)
	}
	if len(outputVerdict.Warnings) > 0 {
		output.DecisionSupport.Warnings = append(output.DecisionSupport.Warnings, outputVerdict.Warnings...)
	}

	meta := models.ResponseMetadata{
		GeneratedAt:    time.Now().UTC(),
		Model:          p.modelName(result.PrimaryProvider),
		SecondaryModel: p.modelName(result.SecondaryProvider),
		LatencyMS:      time.Since(start).Milliseconds(),
		Confidence:     feasibility.Confidence(pctx),
	}

	resp, err := formatter.Format(output, profile.SessionID, meta)
	if err != nil {
		// A schema violation after defaulting is a programming-contract
		// failure; alert loudly, then keep the demo alive.
		p.log.Error("formatted response failed schema validation", map[string]interface{}{
			"error": err.Error(),
		})
		return p.serveFallback(ctx, pctx, profile.SessionID, fallback.ReasonParseFailure, start)
	}

	p.persist(ctx, resp)
	metrics.GenerateRequests.WithLabelValues("success").Inc()
	return resp, nil
}

// buildContext serves the enriched context from cache when an identical
// profile was seen recently, rebinding the current request's profile so
// session identity never leaks across requests.
func (p *Pipeline) buildContext(ctx context.Context, profile models.NormalizedProfile) models.Context {
	hash := contextbuilder.ContentHash(profile)

	if cached, err := p.stores.GetCachedContext(ctx, hash); err == nil {
		cached.UserProfile = profile
		return *cached
	}

	stageStart := time.Now()
	built := contextbuilder.Build(profile)
	metrics.StageDuration.WithLabelValues("context").Observe(time.Since(stageStart).Seconds())

	if err := p.stores.CacheContext(ctx, hash, &built); err != nil {
		p.log.Warn("context cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return built
}

func (p *Pipeline) serveFallback(ctx context.Context, pctx models.Context, sessionID, reason string, start time.Time) (*models.FinalResponse, error) {
	resp := fallback.Get(pctx, sessionID, reason)
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()

	p.persist(ctx, resp)
	metrics.GenerateRequests.WithLabelValues("fallback").Inc()
	return resp, nil
}

// persist stores the result and updates session state. Storage failures are
// logged but never fail a request that already has a valid response.
func (p *Pipeline) persist(ctx context.Context, resp *models.FinalResponse) {
	if err := p.stores.SaveResult(ctx, resp); err != nil {
		p.log.Warn("result persistence failed", map[string]interface{}{"error": err.Error()})
	}
	if resp.SessionID != "" {
		rec := storage.SessionRecord{
			SessionID:    resp.SessionID,
			LastResultID: resp.ResultID,
			UpdatedAt:    time.Now().UTC(),
		}
		if err := p.stores.SaveSession(ctx, rec); err != nil {
			p.log.Warn("session persistence failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (p *Pipeline) modelName(providerName string) string {
	if providerName == "" {
		return ""
	}
	if model, ok := p.opts.ModelNames[providerName]; ok {
		return model
	}
	return providerName
}
