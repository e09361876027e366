package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "idea-path/internal/common/errors"
	"idea-path/internal/common/logger"
	"idea-path/internal/models"
	"idea-path/internal/pipeline/orchestrator"
	"idea-path/internal/provider"
	"idea-path/internal/storage"
)

const validModelJSON = `{
	"results": {
		"businessIdea": "Home tiffin service",
		"feasibilityScores": [
			{"category": "market", "value": 70},
			{"category": "execution", "value": 65},
			{"category": "capital", "value": 80},
			{"category": "risk", "value": 55}
		],
		"roadmap": [
			{"phase": "Phase 1", "title": "Validate", "actions": ["talk to 10 neighbors"]},
			{"phase": "Phase 2", "title": "Launch", "actions": ["cook for first customers"]},
			{"phase": "Phase 3", "title": "Grow", "actions": ["add a weekly menu"]},
			{"phase": "Phase 4", "title": "Stabilize", "actions": ["set delivery routes"]}
		],
		"pitchSummary": "Affordable home-cooked meals for busy families."
	},
	"ideas": [
		{"name": "Tiffin service", "description": "Daily meal delivery"},
		{"name": "Weekend catering", "description": "Small events"},
		{"name": "Cooking classes", "description": "Teach basics"}
	],
	"decisionSupport": {
		"pros": ["low startup cost"], "cons": ["long hours"],
		"risks": ["demand swings"], "mitigations": ["start with subscriptions"],
		"revenueSimulation": {"year1RevenueMin": 1200, "year1RevenueMax": 3600},
		"explainability": "Matches cooking skills and micro budget."
	},
	"ethicalSafeguards": ["fair pricing"],
	"localAdaptation": "Menu follows local tastes."
}`

type scriptedProvider struct {
	name      string
	available bool
	response  string
	err       error
	calls     int
}

func (s *scriptedProvider) Name() string    { return s.name }
func (s *scriptedProvider) Available() bool { return s.available }

func (s *scriptedProvider) Complete(context.Context, provider.Request) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestPipeline(t *testing.T, primary provider.Provider) (*Pipeline, *storage.Stores) {
	t.Helper()

	backend := storage.NewMemoryStore()
	t.Cleanup(func() { backend.Close() })
	stores := storage.NewStores(backend, time.Hour, time.Hour, time.Minute)

	orch := orchestrator.New(primary, nil, logger.NewNoOpLogger(), orchestrator.Options{
		Timeout:       5 * time.Second,
		SkipSecondary: true,
	})
	p := New(orch, stores, logger.NewNoOpLogger(), Options{
		ModelNames: map[string]string{"anthropic": "claude-sonnet-4-20250514"},
	})
	return p, stores
}

func validInput() models.RawInput {
	return models.RawInput{
		Skills:         "teaching, cooking",
		Interests:      "community, food",
		Budget:         "under-1k",
		LocationType:   "rural",
		TargetAudience: "local families",
		SessionID:      "sess-1",
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	primary := &scriptedProvider{name: "anthropic", available: true, response: validModelJSON}
	p, stores := newTestPipeline(t, primary)

	resp, err := p.Generate(context.Background(), validInput())
	require.NoError(t, err)

	assert.False(t, resp.Fallback.IsFallback)
	assert.Equal(t, "Home tiffin service", resp.Results.BusinessIdea)
	assert.Equal(t, "claude-sonnet-4-20250514", resp.Metadata.Model)
	assert.NotEmpty(t, resp.ResultID)
	assert.Len(t, resp.Results.FeasibilityScores, 4)

	stored, err := stores.GetResult(context.Background(), resp.ResultID)
	require.NoError(t, err)
	assert.Equal(t, resp.ResultID, stored.ResultID)

	session, err := stores.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, resp.ResultID, session.LastResultID)
}

func TestGenerate_BlockedInput(t *testing.T) {
	primary := &scriptedProvider{name: "anthropic", available: true, response: validModelJSON}
	p, _ := newTestPipeline(t, primary)

	input := validInput()
	input.Interests = "running a ponzi operation"

	_, err := p.Generate(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInputBlocked, apperrors.Normalize(err).Code)
	assert.Zero(t, primary.calls, "blocked input must never reach the AI stage")
}

func TestGenerate_ProviderDownServesFallback(t *testing.T) {
	primary := &scriptedProvider{name: "anthropic", available: true, err: fmt.Errorf("connection refused")}
	p, _ := newTestPipeline(t, primary)

	resp, err := p.Generate(context.Background(), validInput())
	require.NoError(t, err, "provider outage must degrade, not fail")

	assert.True(t, resp.Fallback.IsFallback)
	assert.Equal(t, "provider_unavailable", resp.Fallback.Reason)
	assert.Equal(t, "low", resp.Metadata.Confidence)
}

func TestGenerate_UnparseableOutputServesFallback(t *testing.T) {
	primary := &scriptedProvider{name: "anthropic", available: true, response: "I am sorry, no JSON today"}
	p, _ := newTestPipeline(t, primary)

	resp, err := p.Generate(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, resp.Fallback.IsFallback)
	assert.Equal(t, "parse_failure", resp.Fallback.Reason)
}

// Output containing guarantee language returns with warnings attached, not
// blocked.
func TestGenerate_GuaranteeLanguageWarnsButServes(t *testing.T) {
	tainted := validModelJSON
	tainted = replaceOnce(tainted, "Matches cooking skills and micro budget.", "This plan has guaranteed returns for anyone.")
	primary := &scriptedProvider{name: "anthropic", available: true, response: tainted}
	p, _ := newTestPipeline(t, primary)

	resp, err := p.Generate(context.Background(), validInput())
	require.NoError(t, err)

	assert.False(t, resp.Fallback.IsFallback)
	assert.NotEmpty(t, resp.DecisionSupport.Warnings)
}

// Output containing exclusionary bias phrasing is replaced by fallback
// content, never served.
func TestGenerate_BiasedOutputReplacedByFallback(t *testing.T) {
	tainted := replaceOnce(validModelJSON, "Menu follows local tastes.", "Works here because women cannot run businesses.")
	primary := &scriptedProvider{name: "anthropic", available: true, response: tainted}
	p, _ := newTestPipeline(t, primary)

	resp, err := p.Generate(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, resp.Fallback.IsFallback)
	assert.Equal(t, "output_blocked", resp.Fallback.Reason)
	assert.NotContains(t, resp.LocalAdaptation, "women cannot")
}

// Identical sequential requests must produce distinct result ids even when
// the intermediate context is cache-hit.
func TestGenerate_DistinctResultIDsForIdenticalRequests(t *testing.T) {
	primary := &scriptedProvider{name: "anthropic", available: true, response: validModelJSON}
	p, _ := newTestPipeline(t, primary)

	input := validInput()
	input.SessionID = ""

	first, err := p.Generate(context.Background(), input)
	require.NoError(t, err)
	second, err := p.Generate(context.Background(), input)
	require.NoError(t, err)

	assert.NotEqual(t, first.ResultID, second.ResultID)
	assert.Equal(t, 2, primary.calls, "each request gets its own AI call")
}

func TestGenerate_ContextCacheReused(t *testing.T) {
	primary := &scriptedProvider{name: "anthropic", available: true, response: validModelJSON}
	p, stores := newTestPipeline(t, primary)

	input := validInput()
	_, err := p.Generate(context.Background(), input)
	require.NoError(t, err)

	counts, err := stores.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Contexts)

	_, err = p.Generate(context.Background(), input)
	require.NoError(t, err)

	counts, err = stores.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Contexts, "identical input must reuse the cached context")
}

func TestGenerate_RevenueSanityBound(t *testing.T) {
	primary := &scriptedProvider{name: "anthropic", available: true, response: validModelJSON}
	p, _ := newTestPipeline(t, primary)

	resp, err := p.Generate(context.Background(), validInput())
	require.NoError(t, err)

	sim := resp.DecisionSupport.RevenueSimulation
	assert.LessOrEqual(t, sim.Year1RevenueMax, 5*1000)
	assert.LessOrEqual(t, sim.Year1RevenueMin, sim.Year1RevenueMax)
	assert.NotEmpty(t, sim.Disclaimer)
}

func replaceOnce(s, old, new string) string {
	return strings.Replace(s, old, new, 1)
}
