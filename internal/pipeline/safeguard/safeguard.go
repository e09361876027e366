// Package safeguard scans input and output content for unsafe, exploitative,
// or biased material. Both checkpoints are pure functions of content: the
// same text always yields the same verdict. The pattern tables are plain
// data and deliberately tunable; substring matching is a known-imprecise
// tradeoff accepted for transparency.
package safeguard

import (
	"fmt"
	"sort"
	"strings"

	"idea-path/internal/common/metrics"
	"idea-path/internal/models"
)

// Severity levels for findings.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// Recommended actions.
const (
	ActionProceed             = "proceed"
	ActionProceedWithWarnings = "proceed_with_warnings"
	ActionBlock               = "block"
)

// Finding is one matched safety issue.
type Finding struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// InputVerdict is the pre-generation checkpoint result.
type InputVerdict struct {
	Safe     bool      `json:"safe"`
	Findings []Finding `json:"findings,omitempty"`
	Flagged  []string  `json:"flagged,omitempty"`
}

// OutputVerdict is the post-generation checkpoint result.
type OutputVerdict struct {
	Safe     bool      `json:"safe"`
	Action   string    `json:"action"`
	Findings []Finding `json:"findings,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// blockedTerms reject input outright and block output.
var blockedTerms = map[string][]string{
	"hate":      {"ethnic cleansing", "racial superiority", "hate group"},
	"violence":  {"weapons trafficking", "hitman", "violent attack"},
	"self_harm": {"suicide method", "self-harm"},
	"fraud":     {"ponzi", "pyramid scheme", "money laundering", "identity theft", "counterfeit"},
	"illegal":   {"drug dealing", "smuggling", "human trafficking", "poaching"},
}

// flaggedBusinessTypes are allowed but carried forward for extra scrutiny.
var flaggedBusinessTypes = map[string][]string{
	"gambling":          {"casino", "betting", "gambling", "lottery"},
	"adult_content":     {"adult content", "adult entertainment"},
	"predatory_lending": {"payday loan", "predatory lending", "loan shark"},
	"mlm":               {"multi-level marketing", "mlm", "network marketing recruit"},
}

// exploitativeLaborPatterns are critical in output.
var exploitativeLaborPatterns = []string{
	"unpaid work", "unpaid labor", "unpaid labour", "work for free",
	"below minimum wage", "below-minimum-wage", "forced labor", "forced labour",
	"child labor", "child labour",
}

// guaranteeLanguage is warning-level financial misinformation.
var guaranteeLanguage = []string{
	"guaranteed returns", "guaranteed profit", "guaranteed income",
	"risk-free", "risk free", "get-rich-quick", "get rich quick",
	"cannot fail", "sure profit",
}

// biasPatterns are critical demographic-exclusion phrasings.
var biasPatterns = []string{
	"women cannot", "women can't", "men cannot", "men can't",
	"only for men", "only for women", "not for the elderly",
	"too old to", "disabled people cannot", "the disabled cannot",
	"poor people cannot", "only the wealthy",
}

// CheckInput scans a normalized profile before generation. Blocked-term
// matches make the input unsafe; flagged business types are recorded but
// never block.
func CheckInput(profile models.NormalizedProfile) InputVerdict {
	text := strings.ToLower(strings.Join([]string{
		profile.Skills, profile.Interests, profile.TargetAudience,
		profile.Goals, profile.LocalData,
	}, " "))

	verdict := InputVerdict{Safe: true}

	for category, terms := range blockedTerms {
		for _, term := range terms {
			if strings.Contains(text, term) {
				verdict.Safe = false
				verdict.Findings = append(verdict.Findings, Finding{
					Category: category,
					Severity: SeverityCritical,
					Detail:   fmt.Sprintf("input matches blocked %s content", category),
				})
				metrics.SafetyFindings.WithLabelValues("input", SeverityCritical).Inc()
				break
			}
		}
	}

	for category, terms := range flaggedBusinessTypes {
		for _, term := range terms {
			if strings.Contains(text, term) {
				verdict.Flagged = append(verdict.Flagged, category)
				metrics.SafetyFindings.WithLabelValues("input", SeverityWarning).Inc()
				break
			}
		}
	}

	sortStrings(verdict.Flagged)
	sortFindings(verdict.Findings)
	return verdict
}

// CheckOutput scans serialized AI output. Any critical finding blocks the
// response (the caller routes to fallback); warning-only findings pass
// through with disclaimers.
func CheckOutput(serialized string, output *models.AIOutput) OutputVerdict {
	text := strings.ToLower(serialized)
	verdict := OutputVerdict{Safe: true, Action: ActionProceed}

	for category, terms := range blockedTerms {
		for _, term := range terms {
			if strings.Contains(text, term) {
				verdict.Findings = append(verdict.Findings, Finding{
					Category: category,
					Severity: SeverityCritical,
					Detail:   fmt.Sprintf("output matches blocked %s content", category),
				})
				break
			}
		}
	}

	for _, pattern := range exploitativeLaborPatterns {
		if strings.Contains(text, pattern) {
			verdict.Findings = append(verdict.Findings, Finding{
				Category: "exploitative_labor",
				Severity: SeverityCritical,
				Detail:   "output suggests exploitative labor practices",
			})
			break
		}
	}

	for _, pattern := range biasPatterns {
		if strings.Contains(text, pattern) {
			verdict.Findings = append(verdict.Findings, Finding{
				Category: "demographic_bias",
				Severity: SeverityCritical,
				Detail:   "output contains demographic-exclusion phrasing",
			})
			break
		}
	}

	verdict.Findings = append(verdict.Findings, financialFindings(text, output)...)
	sortFindings(verdict.Findings)

	critical := false
	for _, f := range verdict.Findings {
		metrics.SafetyFindings.WithLabelValues("output", f.Severity).Inc()
		if f.Severity == SeverityCritical {
			critical = true
		} else {
			verdict.Warnings = append(verdict.Warnings, warningText(f.Category))
		}
	}

	switch {
	case critical:
		verdict.Safe = false
		verdict.Action = ActionBlock
	case len(verdict.Findings) > 0:
		verdict.Action = ActionProceedWithWarnings
	}

	return verdict
}

// financialFindings detects misinformation signals: guarantee language, an
// implausibly wide revenue range, or an implied margin above 50%.
func financialFindings(text string, output *models.AIOutput) []Finding {
	var findings []Finding

	for _, pattern := range guaranteeLanguage {
		if strings.Contains(text, pattern) {
			findings = append(findings, Finding{
				Category: "financial_misinformation",
				Severity: SeverityWarning,
				Detail:   fmt.Sprintf("output uses guarantee language (%q)", pattern),
			})
			break
		}
	}

	if output != nil {
		sim := output.DecisionSupport.RevenueSimulation
		if sim.Year1RevenueMin > 0 && sim.Year1RevenueMax > 10*sim.Year1RevenueMin {
			findings = append(findings, Finding{
				Category: "financial_misinformation",
				Severity: SeverityWarning,
				Detail:   "revenue range is implausibly wide",
			})
		}
		if sim.Year1RevenueMax > 0 && float64(sim.Year1ProfitMax) > 0.5*float64(sim.Year1RevenueMax) {
			findings = append(findings, Finding{
				Category: "financial_misinformation",
				Severity: SeverityWarning,
				Detail:   "implied profit margin exceeds 50%",
			})
		}
	}

	return findings
}

func warningText(category string) string {
	switch category {
	case "financial_misinformation":
		return "Financial figures in this plan are estimates only; treat any confident revenue claims with caution."
	default:
		return "Parts of this plan were flagged for review; apply your own judgment."
	}
}

// Map iteration order is random; verdicts sort their findings so repeated
// checks of the same content compare equal.
func sortStrings(s []string) {
	sort.Strings(s)
}

func sortFindings(f []Finding) {
	sort.Slice(f, func(i, j int) bool { return f[i].Category < f[j].Category })
}
