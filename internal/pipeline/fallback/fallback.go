// Package fallback serves pre-authored responses keyed by a coarse
// (budget tier, location type) pair. Templates are statically shaped to the
// output schema and keep the demo flowing when AI generation is
// unavailable or unsafe.
package fallback

import (
	"time"

	"github.com/google/uuid"

	"idea-path/internal/common/metrics"
	"idea-path/internal/models"
)

// Fallback reasons recorded in telemetry.
const (
	ReasonProviderUnavailable = "provider_unavailable"
	ReasonParseFailure        = "parse_failure"
	ReasonOutputBlocked       = "output_blocked"
	ReasonStartupProbe        = "startup_probe"
)

const fallbackDisclaimer = "Estimates are illustrative ranges based on budget tier, not predictions. Actual results depend on execution, demand, and local conditions."

type templateKey struct {
	tier     string
	location string
}

// Get returns a canned response for the context. The template is selected
// by nearest-key coarsening: tiers above "small" map to "small", location
// types other than "rural" map to "urban". Every response carries
// IsFallback and a "low" confidence.
func Get(ctx models.Context, sessionID, reason string) *models.FinalResponse {
	key := templateKey{
		tier:     coarseTier(ctx.Economic.Budget.Tier),
		location: coarseLocation(ctx.Economic.Location.Type),
	}

	template := templates[key]
	resp := template // value copy; templates are never mutated

	resp.ResultID = uuid.NewString()
	resp.SessionID = sessionID
	resp.Metadata = models.ResponseMetadata{
		GeneratedAt: time.Now().UTC(),
		Confidence:  "low",
	}
	resp.Fallback = models.FallbackMeta{IsFallback: true, Reason: reason}

	metrics.FallbackServed.WithLabelValues(reason).Inc()
	return &resp
}

func coarseTier(tier string) string {
	if tier == "micro" {
		return "micro"
	}
	return "small"
}

func coarseLocation(locationType string) string {
	if locationType == "rural" {
		return "rural"
	}
	return "urban"
}
