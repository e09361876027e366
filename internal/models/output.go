// internal/models/output.go
package models

import "time"

// Score categories, fixed order. feasibilityScores always has exactly one
// entry per category in this order.
const (
	ScoreCategoryMarket    = "market"
	ScoreCategoryExecution = "execution"
	ScoreCategoryCapital   = "capital"
	ScoreCategoryRisk      = "risk"
)

// ScoreCategoryOrder is the required ordering of feasibilityScores entries.
var ScoreCategoryOrder = []string{
	ScoreCategoryMarket,
	ScoreCategoryExecution,
	ScoreCategoryCapital,
	ScoreCategoryRisk,
}

// RoadmapPhaseCount is the required number of roadmap entries, labeled
// "Phase 1".."Phase 4" in order.
const RoadmapPhaseCount = 4

// FeasibilityScore is one scored dimension of the recommended idea.
type FeasibilityScore struct {
	Category    string `json:"category"`
	Value       int    `json:"value"`
	Explanation string `json:"explanation,omitempty"`
}

// RoadmapPhase is one of the four execution phases.
type RoadmapPhase struct {
	Phase    string   `json:"phase"`
	Title    string   `json:"title"`
	Actions  []string `json:"actions"`
	Duration string   `json:"duration,omitempty"`
}

// Results is the headline recommendation.
type Results struct {
	BusinessIdea      string             `json:"businessIdea"`
	FeasibilityScores []FeasibilityScore `json:"feasibilityScores"`
	Roadmap           []RoadmapPhase     `json:"roadmap"`
	PitchSummary      string             `json:"pitchSummary"`
}

// IdeaAlternative is one of the 3-5 alternative ideas.
type IdeaAlternative struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WhyItFits   string `json:"whyItFits,omitempty"`
}

// RevenueSimulation holds the bounded first-year projections. Any response
// carrying these figures also carries Disclaimer.
type RevenueSimulation struct {
	Year1RevenueMin   int    `json:"year1RevenueMin"`
	Year1RevenueMax   int    `json:"year1RevenueMax"`
	Year1ProfitMin    int    `json:"year1ProfitMin"`
	Year1ProfitMax    int    `json:"year1ProfitMax"`
	BudgetSuitability string `json:"budgetSuitability"`
	EaseOfExecution   string `json:"easeOfExecution"`
	Notes             string `json:"notes"`
	Disclaimer        string `json:"disclaimer"`
}

// DecisionSupport carries the explainable reasoning around the recommendation.
type DecisionSupport struct {
	Pros              []string          `json:"pros"`
	Cons              []string          `json:"cons"`
	Risks             []string          `json:"risks"`
	Mitigations       []string          `json:"mitigations"`
	RevenueSimulation RevenueSimulation `json:"revenueSimulation"`
	Explainability    string            `json:"explainability"`
	Warnings          []string          `json:"warnings,omitempty"`
}

// AIOutput is the parsed model output. It is mutable during pipeline
// post-processing (scores adjusted, revenue recomputed).
type AIOutput struct {
	Results           Results           `json:"results"`
	Ideas             []IdeaAlternative `json:"ideas"`
	DecisionSupport   DecisionSupport   `json:"decisionSupport"`
	EthicalSafeguards []string          `json:"ethicalSafeguards"`
	LocalAdaptation   string            `json:"localAdaptation"`

	// RawModelText is kept server-side for diagnostics only.
	RawModelText string `json:"-"`
}

// ResponseMetadata is attached to every FinalResponse.
type ResponseMetadata struct {
	GeneratedAt    time.Time `json:"generatedAt"`
	Model          string    `json:"model,omitempty"`
	SecondaryModel string    `json:"secondaryModel,omitempty"`
	LatencyMS      int64     `json:"latencyMs"`
	Confidence     string    `json:"confidence"`
}

// FallbackMeta tags canned responses for telemetry. It never serializes
// into client output; only a "low" metadata confidence leaks through.
type FallbackMeta struct {
	IsFallback bool
	Reason     string
}

// FinalResponse is the schema-validated, frontend-safe payload. Immutable
// once emitted; optionally persisted keyed by ResultID with an expiry.
type FinalResponse struct {
	ResultID          string            `json:"resultId"`
	SessionID         string            `json:"sessionId,omitempty"`
	Results           Results           `json:"results"`
	Ideas             []IdeaAlternative `json:"ideas"`
	DecisionSupport   DecisionSupport   `json:"decisionSupport"`
	EthicalSafeguards []string          `json:"ethicalSafeguards"`
	LocalAdaptation   string            `json:"localAdaptation"`
	Metadata          ResponseMetadata  `json:"metadata"`

	Fallback FallbackMeta `json:"-"`
}
