// Package normalizer cleans and classifies raw request input into a
// structured profile. It never rejects vague input; unresolvable fields get
// a conservative default and are flagged as assumed.
package normalizer

import (
	"strings"

	"idea-path/internal/models"
)

// Length caps bound downstream prompt size.
const (
	maxBudgetLen    = 60
	maxSkillsLen    = 400
	maxInterestsLen = 400
	maxAudienceLen  = 200
	maxGoalsLen     = 300
	maxLocalDataLen = 500
	maxRegionLen    = 100
)

// budgetKeys is the canonical bucket ordering, smallest tier first.
var budgetKeys = []string{"under-1k", "1k-5k", "5k-20k", "20k-50k", "50k-plus"}

var budgetBuckets = map[string]models.BudgetRange{
	"under-1k": {Key: "under-1k", Min: 0, Max: 1000, Label: "Under $1,000", Tier: "micro"},
	"1k-5k":    {Key: "1k-5k", Min: 1000, Max: 5000, Label: "$1,000 - $5,000", Tier: "small"},
	"5k-20k":   {Key: "5k-20k", Min: 5000, Max: 20000, Label: "$5,000 - $20,000", Tier: "medium"},
	"20k-50k":  {Key: "20k-50k", Min: 20000, Max: 50000, Label: "$20,000 - $50,000", Tier: "growth"},
	"50k-plus": {Key: "50k-plus", Min: 50000, Max: 200000, Label: "$50,000+", Tier: "scale"},
}

// budgetKeywords maps free-text hints to bucket keys, checked in order.
var budgetKeywords = []struct {
	words []string
	key   string
}{
	{[]string{"under 1", "less than 1", "tiny", "micro", "minimal", "no money", "shoestring", "500", "small budget"}, "under-1k"},
	{[]string{"1k", "2k", "3k", "4k", "few thousand", "couple thousand", "5000", "5k"}, "1k-5k"},
	{[]string{"10k", "15k", "20k", "10000", "20000", "moderate"}, "5k-20k"},
	{[]string{"30k", "40k", "50k", "50000", "substantial"}, "20k-50k"},
	{[]string{"100k", "large", "plenty", "well funded", "investor"}, "50k-plus"},
}

var locationTypes = map[string]models.LocationProfile{
	"urban": {
		Type:             "urban",
		MarketAccess:     "high",
		DigitalInfra:     "strong",
		CompetitionLevel: "high",
		RentCost:         "high",
	},
	"semi-urban": {
		Type:             "semi-urban",
		MarketAccess:     "medium",
		DigitalInfra:     "moderate",
		CompetitionLevel: "medium",
		RentCost:         "medium",
	},
	"rural": {
		Type:             "rural",
		MarketAccess:     "low",
		DigitalInfra:     "limited",
		CompetitionLevel: "low",
		RentCost:         "low",
	},
}

var locationKeywords = []struct {
	words []string
	key   string
}{
	{[]string{"city", "metro", "downtown", "urban"}, "urban"},
	{[]string{"town", "suburb", "semi", "outskirts"}, "semi-urban"},
	{[]string{"village", "rural", "countryside", "farm", "remote"}, "rural"},
}

var supportedLanguages = map[string]bool{
	"en": true,
	"hi": true,
	"es": true,
	"fr": true,
}

// skillCategoryKeywords is a multi-label keyword classifier. A skill text
// can hit several categories; none yields ["general"].
var skillCategoryKeywords = map[string][]string{
	"technical":  {"programming", "coding", "software", "web", "app", "computer", "it ", "data", "tech"},
	"creative":   {"design", "art", "writing", "craft", "music", "photography", "video", "content"},
	"culinary":   {"cooking", "baking", "food", "catering", "chef", "recipe"},
	"education":  {"teaching", "tutoring", "training", "mentoring", "coaching", "education"},
	"trades":     {"carpentry", "plumbing", "electrical", "repair", "mechanic", "construction", "tailoring", "sewing"},
	"business":   {"sales", "marketing", "accounting", "management", "finance", "admin", "negotiation"},
	"care":       {"childcare", "nursing", "caregiving", "elderly", "health", "fitness", "wellness"},
	"agriculture": {"farming", "gardening", "livestock", "agriculture", "horticulture"},
}

// Normalize transforms raw input into a canonical profile. Pure function,
// never fails.
func Normalize(raw models.RawInput) models.NormalizedProfile {
	var assumed []string

	budget, budgetAssumed := resolveBudget(raw.Budget)
	if budgetAssumed {
		assumed = append(assumed, "budget")
	}

	location, locationAssumed := resolveLocation(raw.LocationType)
	if locationAssumed {
		assumed = append(assumed, "location")
	}

	language, languageAssumed := resolveLanguage(raw.Language)
	if languageAssumed {
		assumed = append(assumed, "language")
	}

	skills := cleanText(raw.Skills, maxSkillsLen)

	return models.NormalizedProfile{
		Skills:          skills,
		Interests:       cleanText(raw.Interests, maxInterestsLen),
		TargetAudience:  cleanText(raw.TargetAudience, maxAudienceLen),
		Goals:           cleanText(raw.Goals, maxGoalsLen),
		LocalData:       cleanText(raw.LocalData, maxLocalDataLen),
		Region:          cleanText(raw.Region, maxRegionLen),
		Language:        language,
		Budget:          budget,
		Location:        location,
		SkillCategories: classifySkills(skills),
		SessionID:       strings.TrimSpace(raw.SessionID),
		Meta:            models.ProfileMeta{AssumedFields: assumed},
	}
}

// cleanText collapses whitespace and caps length at maxLen runes.
func cleanText(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		s = strings.TrimSpace(string(runes[:maxLen]))
	}
	return s
}

// resolveBudget applies exact key lookup, then keyword fuzzy match, then the
// smallest tier as a flagged default.
func resolveBudget(raw string) (models.BudgetRange, bool) {
	key := strings.ToLower(cleanText(raw, maxBudgetLen))

	if b, ok := budgetBuckets[key]; ok {
		return b, false
	}

	for _, candidate := range budgetKeys {
		if strings.Contains(key, candidate) {
			return budgetBuckets[candidate], false
		}
	}

	for _, group := range budgetKeywords {
		for _, word := range group.words {
			if strings.Contains(key, word) {
				return budgetBuckets[group.key], false
			}
		}
	}

	b := budgetBuckets["under-1k"]
	b.Assumed = true
	return b, true
}

// resolveLocation applies exact key lookup, then keyword match, then the
// middle-ground semi-urban default.
func resolveLocation(raw string) (models.LocationProfile, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))

	if l, ok := locationTypes[key]; ok {
		return l, false
	}

	for _, group := range locationKeywords {
		for _, word := range group.words {
			if strings.Contains(key, word) {
				return locationTypes[group.key], false
			}
		}
	}

	l := locationTypes["semi-urban"]
	l.Assumed = true
	return l, true
}

func resolveLanguage(raw string) (string, bool) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" {
		return "en", false
	}
	if len(code) > 2 {
		code = code[:2]
	}
	if supportedLanguages[code] {
		return code, false
	}
	return "en", true
}

// classifySkills produces a non-empty, order-stable category tag set.
func classifySkills(skills string) []string {
	text := strings.ToLower(skills)

	var categories []string
	for _, category := range []string{"technical", "creative", "culinary", "education", "trades", "business", "care", "agriculture"} {
		for _, word := range skillCategoryKeywords[category] {
			if strings.Contains(text, word) {
				categories = append(categories, category)
				break
			}
		}
	}

	if len(categories) == 0 {
		categories = []string{"general"}
	}
	return categories
}
