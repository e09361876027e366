// internal/models/input.go
package models

// RawInput is the request body of POST /generate, exactly as submitted.
// It is request-scoped and never mutated.
type RawInput struct {
	Skills         string `json:"skills"`
	Interests      string `json:"interests"`
	Budget         string `json:"budget"`
	LocationType   string `json:"locationType"`
	TargetAudience string `json:"targetAudience"`
	Goals          string `json:"goals,omitempty"`
	LocalData      string `json:"localData,omitempty"`
	Region         string `json:"region,omitempty"`
	Language       string `json:"language,omitempty"`
	SessionID      string `json:"sessionId,omitempty"`
}

// BudgetRange is a resolved budget bucket. Assumed is set when the raw
// budget text did not match any known key or keyword and the smallest tier
// was applied as a default.
type BudgetRange struct {
	Key     string `json:"key"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Label   string `json:"label"`
	Tier    string `json:"tier"`
	Assumed bool   `json:"assumed,omitempty"`
}

// LocationProfile is a resolved location type with its market attributes.
type LocationProfile struct {
	Type             string `json:"type"`
	MarketAccess     string `json:"marketAccess"`
	DigitalInfra     string `json:"digitalInfra"`
	CompetitionLevel string `json:"competitionLevel"`
	RentCost         string `json:"rentCost"`
	Assumed          bool   `json:"assumed,omitempty"`
}

// ProfileMeta records which fields were assumed during normalization, for
// downstream confidence scoring.
type ProfileMeta struct {
	AssumedFields []string `json:"assumedFields"`
}

// NormalizedProfile is RawInput in canonical structured form. Created once
// per request and immutable thereafter.
type NormalizedProfile struct {
	Skills          string          `json:"skills"`
	Interests       string          `json:"interests"`
	TargetAudience  string          `json:"targetAudience"`
	Goals           string          `json:"goals,omitempty"`
	LocalData       string          `json:"localData,omitempty"`
	Region          string          `json:"region,omitempty"`
	Language        string          `json:"language"`
	Budget          BudgetRange     `json:"budget"`
	Location        LocationProfile `json:"location"`
	SkillCategories []string        `json:"skillCategories"`
	SessionID       string          `json:"sessionId,omitempty"`
	Meta            ProfileMeta     `json:"_meta"`
}

// HasAssumed reports whether a specific field was assumed.
func (p *NormalizedProfile) HasAssumed(field string) bool {
	for _, f := range p.Meta.AssumedFields {
		if f == field {
			return true
		}
	}
	return false
}
