package formatter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-path/internal/models"
)

func testMetadata() models.ResponseMetadata {
	return models.ResponseMetadata{
		GeneratedAt: time.Now().UTC(),
		Model:       "claude-sonnet-4-20250514",
		LatencyMS:   1200,
		Confidence:  "medium",
	}
}

func completeOutput() *models.AIOutput {
	return &models.AIOutput{
		Results: models.Results{
			BusinessIdea: "Home tiffin service",
			FeasibilityScores: []models.FeasibilityScore{
				{Category: "market", Value: 70},
				{Category: "execution", Value: 65},
				{Category: "capital", Value: 80},
				{Category: "risk", Value: 55},
			},
			Roadmap: []models.RoadmapPhase{
				{Phase: "Phase 1", Title: "Validate", Actions: []string{"talk to neighbors"}},
				{Phase: "Phase 2", Title: "Launch", Actions: []string{"first customers"}},
				{Phase: "Phase 3", Title: "Grow", Actions: []string{"weekly menu"}},
				{Phase: "Phase 4", Title: "Stabilize", Actions: []string{"delivery routes"}},
			},
			PitchSummary: "Affordable home-cooked meals.",
		},
		Ideas: []models.IdeaAlternative{
			{Name: "Tiffin", Description: "meal delivery"},
			{Name: "Catering", Description: "small events"},
			{Name: "Classes", Description: "cooking basics"},
		},
		DecisionSupport: models.DecisionSupport{
			Pros:        []string{"low cost"},
			Cons:        []string{"long hours"},
			Risks:       []string{"demand swings"},
			Mitigations: []string{"subscriptions"},
			RevenueSimulation: models.RevenueSimulation{
				Year1RevenueMin:   2500,
				Year1RevenueMax:   5000,
				Year1ProfitMin:    250,
				Year1ProfitMax:    1500,
				BudgetSuitability: "moderate",
				EaseOfExecution:   "moderate",
				Notes:             "derived",
				Disclaimer:        "Estimates only.",
			},
			Explainability: "fits budget and skills",
		},
		EthicalSafeguards: []string{"fair pricing"},
		LocalAdaptation:   "local tastes",
	}
}

func TestFormat_CompleteOutputValidates(t *testing.T) {
	resp, err := Format(completeOutput(), "sess-1", testMetadata())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ResultID)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "Home tiffin service", resp.Results.BusinessIdea)
	require.NoError(t, Validate(resp))
}

func TestFormat_FreshResultIDPerCall(t *testing.T) {
	a, err := Format(completeOutput(), "", testMetadata())
	require.NoError(t, err)
	b, err := Format(completeOutput(), "", testMetadata())
	require.NoError(t, err)

	assert.NotEqual(t, a.ResultID, b.ResultID)
}

func TestFormat_EmptyOutputFullyDefaulted(t *testing.T) {
	resp, err := Format(&models.AIOutput{}, "", testMetadata())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Results.BusinessIdea)
	assert.Len(t, resp.Results.FeasibilityScores, 4)
	assert.Len(t, resp.Results.Roadmap, 4)
	assert.GreaterOrEqual(t, len(resp.Ideas), 3)
	assert.NotEmpty(t, resp.DecisionSupport.Pros)
	assert.NotEmpty(t, resp.DecisionSupport.RevenueSimulation.Disclaimer)
	assert.NotEmpty(t, resp.EthicalSafeguards)
	assert.NotEmpty(t, resp.LocalAdaptation)
	require.NoError(t, Validate(resp))
}

func TestFormat_TooManyIdeasTrimmed(t *testing.T) {
	out := completeOutput()
	for i := 0; i < 5; i++ {
		out.Ideas = append(out.Ideas, models.IdeaAlternative{Name: "extra", Description: "d"})
	}

	resp, err := Format(out, "", testMetadata())
	require.NoError(t, err)
	assert.Len(t, resp.Ideas, 5)
}

func TestFormat_SanitizesInjectedMarkup(t *testing.T) {
	out := completeOutput()
	out.Results.BusinessIdea = `<script>alert(1)</script>Home tiffin service`
	out.LocalAdaptation = `Click <a href="javascript:steal()">here</a> onclick="x()" for details`
	out.DecisionSupport.Explainability = `<b>bold claim</b> with <img src=x onerror=pwn()>`

	resp, err := Format(out, "", testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "alert(1)Home tiffin service", resp.Results.BusinessIdea)
	assert.NotContains(t, resp.LocalAdaptation, "javascript:")
	assert.NotContains(t, resp.LocalAdaptation, "onclick")
	assert.NotContains(t, resp.DecisionSupport.Explainability, "<b>")
	assert.NotContains(t, resp.DecisionSupport.Explainability, "onerror")
}

func TestFormat_IdempotentModuloSanitization(t *testing.T) {
	first, err := Format(completeOutput(), "sess-1", testMetadata())
	require.NoError(t, err)

	again := &models.AIOutput{
		Results:           first.Results,
		Ideas:             first.Ideas,
		DecisionSupport:   first.DecisionSupport,
		EthicalSafeguards: first.EthicalSafeguards,
		LocalAdaptation:   first.LocalAdaptation,
	}
	second, err := Format(again, "sess-1", testMetadata())
	require.NoError(t, err)

	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.Ideas, second.Ideas)
	assert.Equal(t, first.DecisionSupport, second.DecisionSupport)
	assert.NotEqual(t, first.ResultID, second.ResultID)
}

func TestFormat_RoundTripPreservesFields(t *testing.T) {
	resp, err := Format(completeOutput(), "sess-1", testMetadata())
	require.NoError(t, err)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)

	var parsed models.FinalResponse
	require.NoError(t, json.Unmarshal(payload, &parsed))
	assert.Equal(t, resp.Results, parsed.Results)
	assert.Equal(t, resp.Ideas, parsed.Ideas)
	assert.Equal(t, resp.DecisionSupport, parsed.DecisionSupport)
	assert.Equal(t, resp.ResultID, parsed.ResultID)
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "just a plain sentence", want: "just a plain sentence"},
		{name: "html stripped", input: "<div>hello</div>", want: "hello"},
		{name: "js uri removed", input: "go to javascript:alert(1) now", want: "go to alert(1) now"},
		{name: "event handler removed", input: `text onclick="evil()" more`, want: "text  more"},
		{name: "whitespace trimmed", input: "  padded  ", want: "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeString(tt.input))
		})
	}
}

func TestValidate_RejectsBrokenShape(t *testing.T) {
	resp, err := Format(completeOutput(), "", testMetadata())
	require.NoError(t, err)

	resp.Results.FeasibilityScores = resp.Results.FeasibilityScores[:2]
	assert.Error(t, Validate(resp))
}
