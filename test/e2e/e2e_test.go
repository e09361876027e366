// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-path/internal/common/auth"
	"idea-path/internal/common/config"
	"idea-path/internal/common/logger"
	"idea-path/internal/models"
	"idea-path/internal/pipeline"
	"idea-path/internal/pipeline/orchestrator"
	"idea-path/internal/provider"
	"idea-path/internal/server"
	"idea-path/internal/storage"
)

const modelJSON = `{
	"results": {
		"businessIdea": "Mobile phone repair stall",
		"feasibilityScores": [
			{"category": "market", "value": 72},
			{"category": "execution", "value": 64},
			{"category": "capital", "value": 81},
			{"category": "risk", "value": 48}
		],
		"roadmap": [
			{"phase": "Phase 1", "title": "Validate", "actions": ["survey the weekly market"]},
			{"phase": "Phase 2", "title": "Launch", "actions": ["buy a starter toolkit"]},
			{"phase": "Phase 3", "title": "Grow", "actions": ["add accessory sales"]},
			{"phase": "Phase 4", "title": "Stabilize", "actions": ["train one helper"]}
		],
		"pitchSummary": "Same-day repairs where the nearest shop is an hour away."
	},
	"ideas": [
		{"name": "Phone repair", "description": "screen and battery swaps"},
		{"name": "Accessory stall", "description": "cases and chargers"},
		{"name": "Charging point", "description": "paid charging during outages"}
	],
	"decisionSupport": {
		"pros": ["steady demand"], "cons": ["parts supply"],
		"risks": ["cheap competitors"], "mitigations": ["warranty on repairs"],
		"revenueSimulation": {"year1RevenueMin": 900, "year1RevenueMax": 2800},
		"explainability": "Matches technical skills with a micro budget."
	},
	"ethicalSafeguards": ["transparent repair pricing"],
	"localAdaptation": "Stall hours follow the weekly market schedule."
}`

// scriptedProvider returns its queued responses in order, then repeats the
// last one. An empty script means transport failure on every call.
type scriptedProvider struct {
	name      string
	responses []string
	calls     int
}

func (p *scriptedProvider) Name() string    { return p.name }
func (p *scriptedProvider) Available() bool { return true }
func (p *scriptedProvider) Complete(_ context.Context, _ provider.Request) (string, error) {
	p.calls++
	if len(p.responses) == 0 {
		return "", fmt.Errorf("connection refused")
	}
	resp := p.responses[0]
	if len(p.responses) > 1 {
		p.responses = p.responses[1:]
	}
	return resp, nil
}

type env struct {
	ts     *httptest.Server
	stores *storage.Stores
	redis  *miniredis.Miniredis
}

func setup(t *testing.T, primary provider.Provider, verifyURL string) env {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	backend := storage.NewRedisStore(client)
	stores := storage.NewStores(backend, time.Hour, time.Hour, time.Minute)

	orch := orchestrator.New(primary, nil, logger.NewNoOpLogger(), orchestrator.Options{
		Timeout:       5 * time.Second,
		SkipSecondary: true,
	})
	p := pipeline.New(orch, stores, logger.NewNoOpLogger(), pipeline.Options{
		ModelNames: map[string]string{"anthropic": "claude-sonnet-4-20250514"},
	})

	cfg := &config.Config{
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
	verifier := auth.NewVerifier(verifyURL, time.Second)

	srv := server.New(p, stores, verifier, logger.NewNoOpLogger(), cfg, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return env{ts: ts, stores: stores, redis: mr}
}

func do(t *testing.T, method, url, body string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func post(t *testing.T, url, body string, headers map[string]string) (*http.Response, []byte) {
	return do(t, http.MethodPost, url, body, headers)
}

func get(t *testing.T, url string, headers map[string]string) (*http.Response, []byte) {
	return do(t, http.MethodGet, url, "", headers)
}

func TestGenerateFlowAgainstRedis(t *testing.T) {
	e := setup(t, &scriptedProvider{name: "anthropic", responses: []string{modelJSON}}, "")

	body := `{"skills":"electronics repair","budget":"under-1k","locationType":"rural","targetAudience":"local community","sessionId":"e2e-1"}`
	resp, data := post(t, e.ts.URL+"/generate", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var final models.FinalResponse
	require.NoError(t, json.Unmarshal(data, &final))
	assert.NotEmpty(t, final.ResultID)
	assert.Equal(t, "e2e-1", final.SessionID)
	assert.Len(t, final.Results.FeasibilityScores, 4)
	assert.Len(t, final.Results.Roadmap, 4)
	assert.NotEmpty(t, final.DecisionSupport.RevenueSimulation.Disclaimer)

	// Result and session must survive the round trip through redis.
	stored, err := e.stores.GetResult(context.Background(), final.ResultID)
	require.NoError(t, err)
	assert.Equal(t, final.Results.BusinessIdea, stored.Results.BusinessIdea)

	sessResp, sessData := get(t, e.ts.URL+"/session/e2e-1", nil)
	require.Equal(t, http.StatusOK, sessResp.StatusCode)
	assert.Contains(t, string(sessData), final.ResultID)

	resResp, _ := get(t, e.ts.URL+"/result/"+final.ResultID, nil)
	assert.Equal(t, http.StatusOK, resResp.StatusCode)
}

func TestFallbackWhenProviderDownAgainstRedis(t *testing.T) {
	e := setup(t, &scriptedProvider{name: "anthropic"}, "")

	body := `{"skills":"cooking","budget":"under-1k","locationType":"rural","targetAudience":"families","sessionId":"e2e-down"}`
	resp, data := post(t, e.ts.URL+"/generate", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var final models.FinalResponse
	require.NoError(t, json.Unmarshal(data, &final))
	assert.Equal(t, "low", final.Metadata.Confidence)
	assert.NotEmpty(t, final.ResultID)

	// The fallback marker never reaches the wire.
	assert.NotContains(t, string(data), "fallback")
}

func TestFeedbackAndHealthAgainstRedis(t *testing.T) {
	e := setup(t, &scriptedProvider{name: "anthropic", responses: []string{modelJSON}}, "")

	resp, _ := post(t, e.ts.URL+"/feedback", `{"sessionId":"e2e-fb","rating":"up","notes":"helpful"}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = post(t, e.ts.URL+"/feedback", `{"sessionId":"e2e-fb","rating":"sideways"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	hResp, hData := get(t, e.ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, hResp.StatusCode)
	assert.Contains(t, string(hData), `"status"`)
}

func TestAuthenticatedHistoryAgainstRedis(t *testing.T) {
	identity := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"uid": "user-9", "email": "u@example.com", "name": "U"})
	}))
	defer identity.Close()

	e := setup(t, &scriptedProvider{name: "anthropic", responses: []string{modelJSON}}, identity.URL)

	body := `{"skills":"electronics repair","budget":"under-1k","locationType":"rural","targetAudience":"local community","sessionId":"e2e-auth"}`
	headers := map[string]string{"Authorization": "Bearer good-token"}
	resp, data := post(t, e.ts.URL+"/generate", body, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var final models.FinalResponse
	require.NoError(t, json.Unmarshal(data, &final))

	histResp, histData := get(t, e.ts.URL+"/user/history", headers)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	assert.Contains(t, string(histData), final.ResultID)

	// No token, no history.
	noAuth, _ := get(t, e.ts.URL+"/user/history", nil)
	assert.Equal(t, http.StatusUnauthorized, noAuth.StatusCode)
}

func TestRedisExpiryEvictsContextCache(t *testing.T) {
	e := setup(t, &scriptedProvider{name: "anthropic", responses: []string{modelJSON, modelJSON}}, "")

	body := `{"skills":"electronics repair","budget":"under-1k","locationType":"rural","targetAudience":"local community","sessionId":"e2e-ttl"}`
	resp, _ := post(t, e.ts.URL+"/generate", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	counts, err := e.stores.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Contexts)

	e.redis.FastForward(2 * time.Minute)

	counts, err = e.stores.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Contexts)
}
