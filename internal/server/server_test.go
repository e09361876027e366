package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-path/internal/common/auth"
	"idea-path/internal/common/config"
	"idea-path/internal/common/logger"
	"idea-path/internal/models"
	"idea-path/internal/pipeline"
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
			{"phase": "Phase 1", "title": "Validate", "actions": ["talk to neighbors"]},
			{"phase": "Phase 2", "title": "Launch", "actions": ["first customers"]},
			{"phase": "Phase 3", "title": "Grow", "actions": ["weekly menu"]},
			{"phase": "Phase 4", "title": "Stabilize", "actions": ["delivery routes"]}
		],
		"pitchSummary": "Affordable home-cooked meals."
	},
	"ideas": [
		{"name": "Tiffin", "description": "meal delivery"},
		{"name": "Catering", "description": "small events"},
		{"name": "Classes", "description": "cooking basics"}
	],
	"decisionSupport": {
		"pros": ["low cost"], "cons": ["long hours"],
		"risks": ["demand swings"], "mitigations": ["subscriptions"],
		"revenueSimulation": {"year1RevenueMin": 1200, "year1RevenueMax": 3600},
		"explainability": "Matches cooking skills and micro budget."
	},
	"ethicalSafeguards": ["fair pricing"],
	"localAdaptation": "Menu follows local tastes."
}`

type stubProvider struct {
	response string
}

func (s *stubProvider) Name() string    { return "anthropic" }
func (s *stubProvider) Available() bool { return true }
func (s *stubProvider) Complete(context.Context, provider.Request) (string, error) {
	return s.response, nil
}

type testEnv struct {
	router http.Handler
	stores *storage.Stores
}

func setupServer(t *testing.T, verifyURL string) testEnv {
	t.Helper()

	backend := storage.NewMemoryStore()
	t.Cleanup(func() { backend.Close() })
	stores := storage.NewStores(backend, time.Hour, time.Hour, time.Minute)

	orch := orchestrator.New(&stubProvider{response: validModelJSON}, nil, logger.NewNoOpLogger(), orchestrator.Options{
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

	srv := New(p, stores, verifier, logger.NewNoOpLogger(), cfg, nil)
	return testEnv{router: srv.Router(), stores: stores}
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateEndpoint(t *testing.T) {
	env := setupServer(t, "")

	body := `{"skills":"teaching, cooking","budget":"under-1k","locationType":"rural","targetAudience":"local families","sessionId":"sess-1"}`
	rec := doJSON(t, env.router, http.MethodPost, "/generate", body, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.FinalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ResultID)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Len(t, resp.Results.FeasibilityScores, 4)
}

func TestGenerateEndpoint_ValidationFailure(t *testing.T) {
	env := setupServer(t, "")

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not json at all"},
		{name: "empty profile", body: `{"budget":"under-1k"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, env.router, http.MethodPost, "/generate", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestGenerateEndpoint_UnsafeInput(t *testing.T) {
	env := setupServer(t, "")

	body := `{"skills":"sales","interests":"starting a ponzi scheme","budget":"under-1k","locationType":"urban","targetAudience":"anyone"}`
	rec := doJSON(t, env.router, http.MethodPost, "/generate", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ponzi", "error bodies must not echo input")
}

func TestFeedbackEndpoint(t *testing.T) {
	env := setupServer(t, "")

	rec := doJSON(t, env.router, http.MethodPost, "/feedback", `{"sessionId":"sess-1","rating":"up"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doJSON(t, env.router, http.MethodPost, "/feedback", `{"sessionId":"sess-1","rating":"sideways"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	env := setupServer(t, "")

	rec := doJSON(t, env.router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status string `json:"status"`
		AI     struct {
			PrimaryAvailable bool `json:"primaryAvailable"`
		} `json:"ai"`
		Storage storage.Counts `json:"storage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.AI.PrimaryAvailable)
}

func TestResultAndSessionRetrieval(t *testing.T) {
	env := setupServer(t, "")

	body := `{"skills":"cooking","budget":"under-1k","locationType":"rural","targetAudience":"families","sessionId":"sess-9"}`
	rec := doJSON(t, env.router, http.MethodPost, "/generate", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.FinalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = doJSON(t, env.router, http.MethodGet, "/result/"+resp.ResultID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/session/sess-9", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/result/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/session/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserEndpoints_AuthRequired(t *testing.T) {
	env := setupServer(t, "")

	rec := doJSON(t, env.router, http.MethodGet, "/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/user/history", "", map[string]string{"Authorization": "Bearer bogus"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserEndpoints_WithVerifier(t *testing.T) {
	identity := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(auth.Claims{UID: "uid-1", Email: "user@example.com"})
	}))
	defer identity.Close()

	env := setupServer(t, identity.URL)
	authHeader := map[string]string{"Authorization": "Bearer good-token"}

	rec := doJSON(t, env.router, http.MethodGet, "/user/profile", "", authHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "uid-1")

	// An authenticated generate call lands in the user's history.
	body := `{"skills":"cooking","budget":"under-1k","locationType":"rural","targetAudience":"families"}`
	rec = doJSON(t, env.router, http.MethodPost, "/generate", body, authHeader)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/user/history", "", authHeader)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		History []storage.HistoryEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.History, 1)

	rec = doJSON(t, env.router, http.MethodGet, "/user/profile", "", map[string]string{"Authorization": "Bearer bad-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	assert.True(t, rl.allow("1.2.3.4"))
	assert.True(t, rl.allow("1.2.3.4"))
	assert.False(t, rl.allow("1.2.3.4"))
	assert.True(t, rl.allow("5.6.7.8"), "limits are per client")
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.allow("1.2.3.4"))
	assert.False(t, rl.allow("1.2.3.4"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.allow("1.2.3.4"))
}

func TestRateLimitMiddleware(t *testing.T) {
	backend := storage.NewMemoryStore()
	t.Cleanup(func() { backend.Close() })
	stores := storage.NewStores(backend, time.Hour, time.Hour, time.Minute)

	orch := orchestrator.New(&stubProvider{response: validModelJSON}, nil, logger.NewNoOpLogger(), orchestrator.Options{SkipSecondary: true})
	p := pipeline.New(orch, stores, logger.NewNoOpLogger(), pipeline.Options{})

	cfg := &config.Config{
		RateLimit: config.RateLimitConfig{Enabled: true, Requests: 1, WindowSeconds: 60},
	}
	srv := New(p, stores, auth.NewVerifier("", time.Second), logger.NewNoOpLogger(), cfg, nil)
	router := srv.Router()

	body := `{"skills":"cooking","budget":"under-1k","locationType":"rural","targetAudience":"families"}`
	first := doJSON(t, router, http.MethodPost, "/generate", body, nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, router, http.MethodPost, "/generate", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health stays reachable under rate limiting.
	health := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}
