// Package feasibility deterministically post-processes AI output: score
// adjustment from context signals, bounded revenue simulation, suitability
// and execution-ease classification, and a confidence tier. Pure functions,
// no I/O.
package feasibility

import (
	"fmt"
	"strings"

	"idea-path/internal/models"
)

const revenueDisclaimer = "Estimates are illustrative ranges based on budget tier, not predictions. Actual results depend on execution, demand, and local conditions."

// revenueMultipliers is keyed by budget tier. Smaller budgets can return
// proportionally more but are capped in absolute terms.
var revenueMultipliers = map[string]struct{ min, max float64 }{
	"micro":  {2.5, 5.0},
	"small":  {2.0, 4.0},
	"medium": {1.5, 3.0},
	"growth": {1.2, 2.5},
	"scale":  {1.0, 2.0},
}

// revenueSanityCap bounds AI-supplied revenue claims relative to the budget
// ceiling.
const revenueSanityCap = 5

// Margin band applied to the revenue range to derive profit bounds.
const (
	profitMarginMin = 0.10
	profitMarginMax = 0.30
)

// Confidence scoring.
const (
	confidenceBase          = 50
	confidenceLowThreshold  = 45
	confidenceHighThreshold = 70
)

// Process adjusts scores, recomputes the revenue simulation, and classifies
// suitability, execution ease, and confidence. The input is mutated and
// returned.
func Process(output *models.AIOutput, ctx models.Context) *models.AIOutput {
	EnforceScoreOrder(output)
	EnforceRoadmapPhases(output)

	adjustScores(output, ctx)
	simulateRevenue(output, ctx)

	output.DecisionSupport.RevenueSimulation.BudgetSuitability = classifySuitability(output, ctx)
	output.DecisionSupport.RevenueSimulation.EaseOfExecution = classifyExecutionEase(output, ctx)

	return output
}

// EnforceScoreOrder repairs the feasibilityScores array into exactly the
// fixed category order, synthesizing neutral entries for missing categories.
// Positional indexing downstream depends on this.
func EnforceScoreOrder(output *models.AIOutput) {
	byCategory := make(map[string]models.FeasibilityScore, len(output.Results.FeasibilityScores))
	for _, s := range output.Results.FeasibilityScores {
		byCategory[strings.ToLower(strings.TrimSpace(s.Category))] = s
	}

	ordered := make([]models.FeasibilityScore, 0, len(models.ScoreCategoryOrder))
	for _, category := range models.ScoreCategoryOrder {
		s, ok := byCategory[category]
		if !ok {
			s = models.FeasibilityScore{Category: category, Value: 50, Explanation: "No model assessment available; neutral default applied."}
		}
		s.Category = category
		s.Value = clamp(s.Value)
		ordered = append(ordered, s)
	}
	output.Results.FeasibilityScores = ordered
}

// EnforceRoadmapPhases repairs the roadmap into exactly four phases labeled
// "Phase 1".."Phase 4".
func EnforceRoadmapPhases(output *models.AIOutput) {
	roadmap := output.Results.Roadmap
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
		if len(roadmap[i].Actions) == 0 {
			roadmap[i].Actions = []string{"Review progress and plan the next step"}
		}
	}
	output.Results.Roadmap = roadmap
}

// adjustScores applies context-driven deltas to the four fixed categories.
// Deltas are additive then clamped; exact coefficients are tunable.
func adjustScores(output *models.AIOutput, ctx models.Context) {
	scores := output.Results.FeasibilityScores
	location := ctx.Economic.Location

	// market: cap when the location offers little market access.
	if location.MarketAccess == "low" && scores[0].Value > 65 {
		scores[0].Value = 65
		scores[0].Explanation = appendNote(scores[0].Explanation, "Capped for limited local market access.")
	}

	// execution: limited digital infrastructure makes most operations harder.
	if location.DigitalInfra == "limited" {
		scores[1].Value -= 10
		scores[1].Explanation = appendNote(scores[1].Explanation, "Reduced for limited digital infrastructure.")
	}

	// capital: a micro-budget idea scoring poorly on capital efficiency is
	// presumptively miscalibrated; low-budget feasibility is the defining
	// constraint satisfied by construction.
	if ctx.Economic.Budget.Tier == "micro" && scores[2].Value < 60 {
		scores[2].Value = 60
		scores[2].Explanation = appendNote(scores[2].Explanation, "Floored: the idea is scoped to a micro budget by construction.")
	}

	// risk: every assumed field means less certainty, so more stated risk.
	if assumed := len(ctx.UserProfile.Meta.AssumedFields); assumed > 0 {
		scores[3].Value += 5 * assumed
		scores[3].Explanation = appendNote(scores[3].Explanation, "Raised to reflect assumptions made about missing inputs.")
	}

	for i := range scores {
		scores[i].Value = clamp(scores[i].Value)
	}
}

// simulateRevenue derives a bounded first-year revenue and profit range
// from the budget tier, sanity-capping any AI-supplied figures.
func simulateRevenue(output *models.AIOutput, ctx models.Context) {
	budgetMax := ctx.Economic.Budget.Max
	mult, ok := revenueMultipliers[ctx.Economic.Budget.Tier]
	if !ok {
		mult = revenueMultipliers["micro"]
	}

	sim := &output.DecisionSupport.RevenueSimulation
	ceiling := revenueSanityCap * budgetMax

	if sim.Year1RevenueMin > 0 || sim.Year1RevenueMax > 0 {
		if sim.Year1RevenueMax > ceiling {
			sim.Year1RevenueMax = ceiling
		}
		if sim.Year1RevenueMin > sim.Year1RevenueMax {
			sim.Year1RevenueMin = sim.Year1RevenueMax
		}
		if sim.Year1RevenueMin < 0 {
			sim.Year1RevenueMin = 0
		}
		sim.Notes = fmt.Sprintf("Model estimate bounded to at most %dx the %s budget ceiling.", revenueSanityCap, ctx.Economic.Budget.Label)
	} else {
		sim.Year1RevenueMin = int(float64(budgetMax) * mult.min)
		sim.Year1RevenueMax = int(float64(budgetMax) * mult.max)
		sim.Notes = fmt.Sprintf("Derived from the %s budget ceiling using %s-tier multipliers.", ctx.Economic.Budget.Label, ctx.Economic.Budget.Tier)
	}

	sim.Year1ProfitMin = int(float64(sim.Year1RevenueMin) * profitMarginMin)
	sim.Year1ProfitMax = int(float64(sim.Year1RevenueMax) * profitMarginMax)
	sim.Disclaimer = revenueDisclaimer
}

// classifySuitability rates how well the idea fits the budget tier.
// A micro budget can never rate "excellent"; intersecting the avoid list
// always downgrades to "challenging".
func classifySuitability(output *models.AIOutput, ctx models.Context) string {
	ideaText := strings.ToLower(output.Results.BusinessIdea + " " + output.LocalAdaptation + " " + output.DecisionSupport.Explainability)
	for _, avoid := range ctx.Constraints.ShouldAvoid {
		if strings.Contains(ideaText, strings.ToLower(avoid)) {
			return "challenging"
		}
	}

	switch ctx.Economic.Budget.Tier {
	case "micro":
		return "moderate"
	case "small":
		return "good"
	default:
		return "excellent"
	}
}

// classifyExecutionEase buckets the adjusted execution score with bonuses
// for skill breadth and strong infrastructure.
func classifyExecutionEase(output *models.AIOutput, ctx models.Context) string {
	score := output.Results.FeasibilityScores[1].Value

	if len(ctx.UserProfile.SkillCategories) >= 2 {
		score += 10
	}
	switch ctx.Economic.Location.DigitalInfra {
	case "strong":
		score += 5
	case "limited":
		score -= 5
	}

	switch {
	case score >= 75:
		return "easy"
	case score >= 55:
		return "moderate"
	case score >= 35:
		return "challenging"
	default:
		return "difficult"
	}
}

// Confidence rates how much signal backed the recommendation: richer
// context raises it, assumed critical fields lower it.
func Confidence(ctx models.Context) string {
	score := confidenceBase

	if ctx.UserProfile.Skills != "" {
		score += 10
	}
	if ctx.UserProfile.TargetAudience != "" {
		score += 10
	}
	if ctx.UserProfile.LocalData != "" || ctx.UserProfile.Region != "" {
		score += 15
	}
	if ctx.UserProfile.HasAssumed("budget") {
		score -= 10
	}
	if ctx.UserProfile.HasAssumed("location") {
		score -= 10
	}

	switch {
	case score < confidenceLowThreshold:
		return "low"
	case score < confidenceHighThreshold:
		return "medium"
	default:
		return "high"
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func appendNote(explanation, note string) string {
	if explanation == "" {
		return note
	}
	return explanation + " " + note
}
