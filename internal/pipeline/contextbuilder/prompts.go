package contextbuilder

import (
	"fmt"
	"strings"

	"idea-path/internal/models"
)

const systemPromptHeader = `You are a practical business advisor helping people with modest resources start realistic small businesses. You ground every recommendation in the person's actual budget, location, and skills. You never suggest ideas that require capital the person does not have, and you never promise or guarantee financial outcomes.

You MUST respond with valid JSON only: no markdown, no explanation outside the JSON.

The JSON must have these exact fields:
{
  "results": {
    "businessIdea": "<the single best idea, one sentence>",
    "feasibilityScores": [
      {"category": "market", "value": <0-100>, "explanation": "<brief>"},
      {"category": "execution", "value": <0-100>, "explanation": "<brief>"},
      {"category": "capital", "value": <0-100>, "explanation": "<brief>"},
      {"category": "risk", "value": <0-100>, "explanation": "<brief>"}
    ],
    "roadmap": [
      {"phase": "Phase 1", "title": "<title>", "actions": ["<action>", ...], "duration": "<e.g. weeks 1-4>"},
      {"phase": "Phase 2", "title": "<title>", "actions": ["<action>", ...], "duration": "<...>"},
      {"phase": "Phase 3", "title": "<title>", "actions": ["<action>", ...], "duration": "<...>"},
      {"phase": "Phase 4", "title": "<title>", "actions": ["<action>", ...], "duration": "<...>"}
    ],
    "pitchSummary": "<2-3 sentence pitch>"
  },
  "ideas": [<3 to 5 alternatives, each {"name", "description", "whyItFits"}>],
  "decisionSupport": {
    "pros": ["..."], "cons": ["..."], "risks": ["..."], "mitigations": ["..."],
    "revenueSimulation": {"year1RevenueMin": <int>, "year1RevenueMax": <int>},
    "explainability": "<why this recommendation follows from the inputs>"
  },
  "ethicalSafeguards": ["<commitments the business should keep>"],
  "localAdaptation": "<how to adapt the idea to the local context>"
}

Rules:
- feasibilityScores must have exactly those 4 categories in that order.
- roadmap must have exactly 4 phases labeled Phase 1 through Phase 4.
- ideas must contain between 3 and 5 entries.
- Stay strictly within the stated budget ceiling.
- Never use language implying guaranteed income or risk-free returns.`

const structuringSystemPrompt = `You are a formatting assistant. You will receive a JSON document describing business recommendations. Your ONLY job is to re-emit it as valid, well-formed JSON with the same field structure, simplified language, and a cautious tone.

Strict constraints:
- NEVER introduce new business ideas, claims, numbers, or recommendations.
- NEVER remove required fields.
- You may simplify wording, fix grammar, and add cautionary phrasing to financial statements.
- Respond with the JSON document only, no commentary.`

// RenderPrompts produces the primary system/user prompt pair and the
// structuring-only system prompt for the secondary model.
func RenderPrompts(ctx models.Context) models.Prompts {
	return models.Prompts{
		System:            systemPromptHeader,
		User:              renderUserPrompt(ctx),
		StructuringSystem: structuringSystemPrompt,
	}
}

func renderUserPrompt(ctx models.Context) string {
	p := ctx.UserProfile
	var b strings.Builder

	fmt.Fprintf(&b, "Recommend a business for this person.\n\n")
	fmt.Fprintf(&b, "Skills: %s\n", orNone(p.Skills))
	fmt.Fprintf(&b, "Skill categories: %s\n", strings.Join(p.SkillCategories, ", "))
	fmt.Fprintf(&b, "Interests: %s\n", orNone(p.Interests))
	fmt.Fprintf(&b, "Budget: %s (%s tier, ceiling %d)\n", p.Budget.Label, p.Budget.Tier, p.Budget.Max)
	fmt.Fprintf(&b, "Location: %s (market access %s, digital infrastructure %s, competition %s, rent %s)\n",
		p.Location.Type, p.Location.MarketAccess, p.Location.DigitalInfra, p.Location.CompetitionLevel, p.Location.RentCost)
	fmt.Fprintf(&b, "Target audience: %s\n", orNone(p.TargetAudience))
	if p.Goals != "" {
		fmt.Fprintf(&b, "Goals: %s\n", p.Goals)
	}
	if p.LocalData != "" {
		fmt.Fprintf(&b, "Local notes: %s\n", p.LocalData)
	}

	fmt.Fprintf(&b, "\nLocal economy (%s): dominant sectors %s; opportunities %s; challenges %s.\n",
		ctx.Economic.Economy.Name,
		strings.Join(ctx.Economic.Economy.DominantSectors, ", "),
		strings.Join(ctx.Economic.Economy.Opportunities, ", "),
		strings.Join(ctx.Economic.Economy.Challenges, ", "))
	fmt.Fprintf(&b, "Audience personas: %s. Reach channels that work here: %s. Price sensitivity: %s.\n",
		strings.Join(ctx.Audience.Personas, ", "),
		strings.Join(ctx.Audience.ReachChannels, ", "),
		ctx.Audience.PriceSensitivity)
	fmt.Fprintf(&b, "This budget can afford: %s. It should avoid: %s. Recommended approach: %s\n",
		strings.Join(ctx.Constraints.CanAfford, ", "),
		strings.Join(ctx.Constraints.ShouldAvoid, ", "),
		ctx.Constraints.Approach)
	fmt.Fprintf(&b, "\nRespond in language code %q. JSON only.", ctx.Output.Language)

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(not provided)"
	}
	return s
}
