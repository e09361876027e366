// Package contextbuilder enriches a normalized profile with a local-economy
// profile, audience insights, and resource constraints, and renders the
// prompts for the AI stage. All lookups are deterministic tables; no AI
// calls happen here.
package contextbuilder

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"idea-path/internal/models"
)

// regionProfiles is matched by region-name substring before falling back to
// the location-type generic profiles.
var regionProfiles = []struct {
	match   string
	profile models.EconomyProfile
}{
	{
		match: "coastal",
		profile: models.EconomyProfile{
			Name:               "Coastal economy",
			DominantSectors:    []string{"fishing", "tourism", "hospitality", "trade"},
			Opportunities:      []string{"seasonal tourism services", "seafood value chains", "waterfront experiences"},
			Challenges:         []string{"seasonal demand swings", "weather disruption"},
			DigitalPenetration: "moderate",
		},
	},
	{
		match: "mountain",
		profile: models.EconomyProfile{
			Name:               "Mountain economy",
			DominantSectors:    []string{"tourism", "agriculture", "handicrafts"},
			Opportunities:      []string{"adventure tourism", "artisanal products", "homestays"},
			Challenges:         []string{"limited logistics", "seasonal access"},
			DigitalPenetration: "low",
		},
	},
	{
		match: "industrial",
		profile: models.EconomyProfile{
			Name:               "Industrial belt economy",
			DominantSectors:    []string{"manufacturing", "logistics", "services"},
			Opportunities:      []string{"B2B services", "workforce services", "maintenance and repair"},
			Challenges:         []string{"high competition for contracts"},
			DigitalPenetration: "high",
		},
	},
}

var locationEconomies = map[string]models.EconomyProfile{
	"urban": {
		Name:               "Urban economy",
		DominantSectors:    []string{"services", "retail", "technology", "food and beverage"},
		Opportunities:      []string{"niche online services", "convenience offerings", "premium personalization"},
		Challenges:         []string{"high competition", "high operating costs"},
		DigitalPenetration: "high",
	},
	"semi-urban": {
		Name:               "Semi-urban economy",
		DominantSectors:    []string{"retail", "education", "local services", "light manufacturing"},
		Opportunities:      []string{"underserved local demand", "bridging urban supply to local buyers"},
		Challenges:         []string{"moderate purchasing power", "patchy infrastructure"},
		DigitalPenetration: "moderate",
	},
	"rural": {
		Name:               "Rural economy",
		DominantSectors:    []string{"agriculture", "crafts", "basic services"},
		Opportunities:      []string{"local-first essentials", "agri value addition", "community services"},
		Challenges:         []string{"low market density", "limited digital reach"},
		DigitalPenetration: "low",
	},
}

// personaTable drives audience classification. Channels requiring
// infrastructure the location lacks are filtered afterwards.
var personaTable = []struct {
	persona         string
	keywords        []string
	characteristics []string
	channels        []string
	sensitivity     string
}{
	{
		persona:         "students",
		keywords:        []string{"student", "college", "school", "university", "young"},
		characteristics: []string{"price conscious", "trend driven", "digitally native"},
		channels:        []string{"social media", "campus events", "messaging groups"},
		sensitivity:     "high",
	},
	{
		persona:         "professionals",
		keywords:        []string{"professional", "office", "working", "corporate", "employee"},
		characteristics: []string{"time poor", "convenience seeking", "quality oriented"},
		channels:        []string{"social media", "professional networks", "workplace partnerships"},
		sensitivity:     "medium",
	},
	{
		persona:         "families",
		keywords:        []string{"family", "families", "parent", "household", "kids", "children"},
		characteristics: []string{"value driven", "trust dependent", "routine purchasers"},
		channels:        []string{"word of mouth", "community boards", "local events"},
		sensitivity:     "medium",
	},
	{
		persona:         "tourists",
		keywords:        []string{"tourist", "traveler", "visitor", "vacation"},
		characteristics: []string{"experience seeking", "short engagement window"},
		channels:        []string{"online travel platforms", "hotel partnerships", "local signage"},
		sensitivity:     "low",
	},
	{
		persona:         "local-community",
		keywords:        []string{"local", "community", "neighborhood", "neighbourhood", "village"},
		characteristics: []string{"relationship driven", "loyal once trusted"},
		channels:        []string{"word of mouth", "community boards", "local markets"},
		sensitivity:     "high",
	},
}

// digitalChannels need at least moderate digital infrastructure to reach
// anyone.
var digitalChannels = map[string]bool{
	"social media":            true,
	"professional networks":   true,
	"online travel platforms": true,
	"messaging groups":        true,
}

var tierConstraints = map[string]models.ResourceConstraints{
	"micro": {
		CanAfford:   []string{"home-based operation", "free digital tools", "word-of-mouth marketing", "secondhand equipment"},
		ShouldAvoid: []string{"rented premises", "paid advertising", "hired staff", "inventory stockpiling"},
		Approach:    "Start from home with zero fixed costs and reinvest early revenue.",
	},
	"small": {
		CanAfford:   []string{"basic equipment", "small marketing budget", "shared workspace", "simple website"},
		ShouldAvoid: []string{"long leases", "full-time staff", "large inventory"},
		Approach:    "Validate demand with a minimal setup before committing to fixed costs.",
	},
	"medium": {
		CanAfford:   []string{"dedicated small premises", "part-time help", "paid marketing", "professional tooling"},
		ShouldAvoid: []string{"premium locations", "unproven product lines at scale"},
		Approach:    "Build a repeatable operation in one location before expanding.",
	},
	"growth": {
		CanAfford:   []string{"staff hiring", "leased premises", "inventory", "brand marketing"},
		ShouldAvoid: []string{"multi-site expansion before unit economics prove out"},
		Approach:    "Invest in capacity where demand is already demonstrated.",
	},
	"scale": {
		CanAfford:   []string{"full team", "prime locations", "significant inventory", "multi-channel marketing"},
		ShouldAvoid: []string{"spreading across too many unrelated offerings"},
		Approach:    "Concentrate capital on one scalable model with clear margins.",
	},
}

// Build enriches the normalized profile into the full pipeline context.
// Pure and deterministic; cacheable by ContentHash.
func Build(profile models.NormalizedProfile) models.Context {
	economy := resolveEconomy(profile)
	audience := buildAudience(profile)
	constraints := buildConstraints(profile)

	return models.Context{
		UserProfile: profile,
		Economic: models.EconomicContext{
			Budget:   profile.Budget,
			Location: profile.Location,
			Economy:  economy,
		},
		Audience:    audience,
		Constraints: constraints,
		Output: models.OutputPreferences{
			Language: profile.Language,
			Detail:   "standard",
		},
		Metadata: models.ContextMetadata{
			ContentHash: ContentHash(profile),
			BuiltAt:     time.Now().UTC(),
		},
	}
}

// ContentHash derives a stable cache key from the normalization-relevant
// profile fields.
func ContentHash(profile models.NormalizedProfile) string {
	payload, _ := json.Marshal(struct {
		Skills    string `json:"skills"`
		Interests string `json:"interests"`
		Audience  string `json:"audience"`
		Goals     string `json:"goals"`
		LocalData string `json:"localData"`
		Region    string `json:"region"`
		Language  string `json:"language"`
		Budget    string `json:"budget"`
		Location  string `json:"location"`
	}{
		Skills:    profile.Skills,
		Interests: profile.Interests,
		Audience:  profile.TargetAudience,
		Goals:     profile.Goals,
		LocalData: profile.LocalData,
		Region:    profile.Region,
		Language:  profile.Language,
		Budget:    profile.Budget.Key,
		Location:  profile.Location.Type,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func resolveEconomy(profile models.NormalizedProfile) models.EconomyProfile {
	region := strings.ToLower(profile.Region)
	if region != "" {
		for _, rp := range regionProfiles {
			if strings.Contains(region, rp.match) {
				return rp.profile
			}
		}
	}
	return locationEconomies[profile.Location.Type]
}

func buildAudience(profile models.NormalizedProfile) models.AudienceInsights {
	text := strings.ToLower(profile.TargetAudience)

	insights := models.AudienceInsights{PriceSensitivity: "medium"}
	seenChannel := map[string]bool{}
	seenTrait := map[string]bool{}

	for _, entry := range personaTable {
		matched := false
		for _, word := range entry.keywords {
			if strings.Contains(text, word) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		insights.Personas = append(insights.Personas, entry.persona)
		insights.PriceSensitivity = entry.sensitivity
		for _, trait := range entry.characteristics {
			if !seenTrait[trait] {
				seenTrait[trait] = true
				insights.Characteristics = append(insights.Characteristics, trait)
			}
		}
		for _, ch := range entry.channels {
			if !seenChannel[ch] {
				seenChannel[ch] = true
				insights.ReachChannels = append(insights.ReachChannels, ch)
			}
		}
	}

	if len(insights.Personas) == 0 {
		insights.Personas = []string{"local-community"}
		insights.Characteristics = []string{"relationship driven", "loyal once trusted"}
		insights.ReachChannels = []string{"word of mouth", "community boards", "local markets"}
		insights.PriceSensitivity = "high"
	}

	// Channels that need connectivity are useless where digital infra is
	// limited.
	if profile.Location.DigitalInfra == "limited" {
		filtered := insights.ReachChannels[:0]
		for _, ch := range insights.ReachChannels {
			if !digitalChannels[ch] {
				filtered = append(filtered, ch)
			}
		}
		if len(filtered) == 0 {
			filtered = append(filtered, "word of mouth")
		}
		insights.ReachChannels = filtered
	}

	return insights
}

func buildConstraints(profile models.NormalizedProfile) models.ResourceConstraints {
	constraints := tierConstraints[profile.Budget.Tier]

	if profile.Location.RentCost == "high" {
		constraints.ShouldAvoid = append(append([]string{}, constraints.ShouldAvoid...), "location-dependent premises in premium areas")
		constraints.Approach += " Favor low-footprint or mobile formats given local rent levels."
	}

	return constraints
}
