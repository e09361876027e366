// internal/models/context.go
package models

import "time"

// EconomyProfile describes the local economy used to ground idea generation.
type EconomyProfile struct {
	Name               string   `json:"name"`
	DominantSectors    []string `json:"dominantSectors"`
	Opportunities      []string `json:"opportunities"`
	Challenges         []string `json:"challenges"`
	DigitalPenetration string   `json:"digitalPenetration"`
}

// EconomicContext combines the user's budget and location with the local
// economy profile.
type EconomicContext struct {
	Budget   BudgetRange     `json:"budget"`
	Location LocationProfile `json:"location"`
	Economy  EconomyProfile  `json:"economy"`
}

// AudienceInsights is derived from the target-audience text by persona
// keyword matching.
type AudienceInsights struct {
	Personas         []string `json:"personas"`
	Characteristics  []string `json:"characteristics"`
	ReachChannels    []string `json:"reachChannels"`
	PriceSensitivity string   `json:"priceSensitivity"`
}

// ResourceConstraints lists what the budget tier can and cannot afford.
type ResourceConstraints struct {
	CanAfford   []string `json:"canAfford"`
	ShouldAvoid []string `json:"shouldAvoid"`
	Approach    string   `json:"approach"`
}

// OutputPreferences carry presentation hints into the AI prompts.
type OutputPreferences struct {
	Language string `json:"language"`
	Detail   string `json:"detail"`
}

// ContextMetadata identifies a built context for caching.
type ContextMetadata struct {
	ContentHash string    `json:"contentHash"`
	BuiltAt     time.Time `json:"builtAt"`
}

// Context is the enriched object passed to the AI and simulation stages.
// Built once per request (or served from cache) and read-only afterward.
type Context struct {
	UserProfile NormalizedProfile   `json:"userProfile"`
	Economic    EconomicContext     `json:"economicContext"`
	Audience    AudienceInsights    `json:"audienceInsights"`
	Constraints ResourceConstraints `json:"resourceConstraints"`
	Output      OutputPreferences   `json:"outputPreferences"`
	Metadata    ContextMetadata     `json:"metadata"`
}

// Prompts are the rendered prompt strings for the AI stage.
type Prompts struct {
	System            string `json:"system"`
	User              string `json:"user"`
	StructuringSystem string `json:"structuringSystem"`
}
