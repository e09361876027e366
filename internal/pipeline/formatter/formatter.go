// Package formatter assembles the final client payload: fresh result id,
// recursive sanitization, safe defaults for anything the model left out,
// internal-field stripping, and a schema gate that every response must pass
// before emission.
package formatter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"idea-path/internal/common/errors"
	"idea-path/internal/models"
)

var (
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
	jsURIPattern        = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
)

var defaultIdeas = []models.IdeaAlternative{
	{Name: "Local services", Description: "Offer a skill-based service to people nearby with minimal setup."},
	{Name: "Resale and sourcing", Description: "Source useful goods and resell them through channels you already reach."},
	{Name: "Teaching what you know", Description: "Turn an existing skill into paid lessons or workshops."},
}

// Format assembles, sanitizes, defaults, and schema-validates the final
// response. A validation failure after defaulting is a programming-contract
// violation surfaced as an internal error, never served partially.
func Format(enriched *models.AIOutput, sessionID string, meta models.ResponseMetadata) (*models.FinalResponse, error) {
	applyDefaults(enriched)

	resp := &models.FinalResponse{
		ResultID:          uuid.NewString(),
		SessionID:         sessionID,
		Results:           enriched.Results,
		Ideas:             enriched.Ideas,
		DecisionSupport:   enriched.DecisionSupport,
		EthicalSafeguards: enriched.EthicalSafeguards,
		LocalAdaptation:   enriched.LocalAdaptation,
		Metadata:          meta,
	}

	sanitized, err := sanitizeResponse(resp)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if err := Validate(sanitized); err != nil {
		return nil, err
	}
	return sanitized, nil
}

// Validate checks a response against the output schema. Fallback templates
// run through the same gate.
func Validate(resp *models.FinalResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return errors.NewInternalError(err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(responseSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return errors.NewSchemaViolationError(strings.Join(details, "; "))
	}
	return nil
}

// applyDefaults backfills structurally missing or short sections so the
// response always satisfies the full schema even under partial model
// output. Formatting an already-complete object changes nothing.
func applyDefaults(out *models.AIOutput) {
	if strings.TrimSpace(out.Results.BusinessIdea) == "" {
		out.Results.BusinessIdea = "A small service business built on your strongest existing skill."
	}
	if strings.TrimSpace(out.Results.PitchSummary) == "" {
		out.Results.PitchSummary = "A low-risk starting point matched to your budget and local market."
	}

	byCategory := make(map[string]models.FeasibilityScore, len(out.Results.FeasibilityScores))
	for _, s := range out.Results.FeasibilityScores {
		byCategory[s.Category] = s
	}
	scores := make([]models.FeasibilityScore, 0, len(models.ScoreCategoryOrder))
	for _, category := range models.ScoreCategoryOrder {
		s, ok := byCategory[category]
		if !ok {
			s = models.FeasibilityScore{Category: category, Value: 50}
		}
		if s.Value < 0 {
			s.Value = 0
		}
		if s.Value > 100 {
			s.Value = 100
		}
		scores = append(scores, s)
	}
	out.Results.FeasibilityScores = scores

	roadmap := out.Results.Roadmap
	if len(roadmap) > models.RoadmapPhaseCount {
		roadmap = roadmap[:models.RoadmapPhaseCount]
	}
	for len(roadmap) < models.RoadmapPhaseCount {
		roadmap = append(roadmap, models.RoadmapPhase{
			Title:   "Continue building",
			Actions: []string{"Review progress and plan the next step"},
		})
	}
	for i := range roadmap {
		roadmap[i].Phase = fmt.Sprintf("Phase %d", i+1)
		if strings.TrimSpace(roadmap[i].Title) == "" {
			roadmap[i].Title = "Continue building"
		}
		if len(roadmap[i].Actions) == 0 {
			roadmap[i].Actions = []string{"Review progress and plan the next step"}
		}
	}
	out.Results.Roadmap = roadmap

	for len(out.Ideas) < 3 {
		out.Ideas = append(out.Ideas, defaultIdeas[len(out.Ideas)%len(defaultIdeas)])
	}
	if len(out.Ideas) > 5 {
		out.Ideas = out.Ideas[:5]
	}

	ds := &out.DecisionSupport
	if len(ds.Pros) == 0 {
		ds.Pros = []string{"Matched to your stated budget and skills"}
	}
	if len(ds.Cons) == 0 {
		ds.Cons = []string{"Requires sustained personal effort to establish"}
	}
	if len(ds.Risks) == 0 {
		ds.Risks = []string{"Local demand may differ from expectations"}
	}
	if len(ds.Mitigations) == 0 {
		ds.Mitigations = []string{"Start small and validate demand before committing resources"}
	}
	if strings.TrimSpace(ds.Explainability) == "" {
		ds.Explainability = "This recommendation follows from your budget tier, location profile, and skill set."
	}
	if strings.TrimSpace(ds.RevenueSimulation.Disclaimer) == "" {
		ds.RevenueSimulation.Disclaimer = "Estimates are illustrative ranges, not predictions."
	}
	if ds.RevenueSimulation.BudgetSuitability == "" {
		ds.RevenueSimulation.BudgetSuitability = "moderate"
	}
	if ds.RevenueSimulation.EaseOfExecution == "" {
		ds.RevenueSimulation.EaseOfExecution = "moderate"
	}

	if len(out.EthicalSafeguards) == 0 {
		out.EthicalSafeguards = []string{"Price fairly for the local market", "Hire and pay people lawfully", "Be honest in all marketing claims"}
	}
	if strings.TrimSpace(out.LocalAdaptation) == "" {
		out.LocalAdaptation = "Adapt the offering to local preferences and purchasing power as you learn from early customers."
	}
}

// sanitizeResponse round-trips the response through a generic map so every
// string field at any depth is cleaned and internal keys (prefixed "_") are
// stripped before emission.
func sanitizeResponse(resp *models.FinalResponse) (*models.FinalResponse, error) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}

	var generic interface{}
	if err := json.Unmarshal(payload, &generic); err != nil {
		return nil, err
	}
	generic = sanitizeValue(generic)

	cleaned, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}

	var out models.FinalResponse
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func sanitizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case string:
		return SanitizeString(value)
	case []interface{}:
		for i := range value {
			value[i] = sanitizeValue(value[i])
		}
		return value
	case map[string]interface{}:
		for key, inner := range value {
			if strings.HasPrefix(key, "_") {
				delete(value, key)
				continue
			}
			value[key] = sanitizeValue(inner)
		}
		return value
	default:
		return v
	}
}

// SanitizeString neutralizes injected markup from model output before it
// reaches a rendering client.
func SanitizeString(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = jsURIPattern.ReplaceAllString(s, "")
	s = eventHandlerPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
