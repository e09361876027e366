// internal/storage/stores.go
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"idea-path/internal/models"

	"github.com/google/uuid"
)

// Key prefixes for the typed stores sharing one backend.
const (
	prefixSession  = "session:"
	prefixResult   = "result:"
	prefixFeedback = "feedback:"
	prefixContext  = "ctx:"
	prefixHistory  = "history:"
)

// Stores bundles the typed views over one Store backend.
type Stores struct {
	backend    Store
	sessionTTL time.Duration
	resultTTL  time.Duration
	contextTTL time.Duration
}

func NewStores(backend Store, sessionTTL, resultTTL, contextTTL time.Duration) *Stores {
	return &Stores{
		backend:    backend,
		sessionTTL: sessionTTL,
		resultTTL:  resultTTL,
		contextTTL: contextTTL,
	}
}

func (s *Stores) Backend() Store { return s.backend }

// --- Results ---

func (s *Stores) SaveResult(ctx context.Context, resp *models.FinalResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return s.backend.Set(ctx, prefixResult+resp.ResultID, data, s.resultTTL)
}

func (s *Stores) GetResult(ctx context.Context, resultID string) (*models.FinalResponse, error) {
	data, err := s.backend.Get(ctx, prefixResult+resultID)
	if err != nil {
		return nil, err
	}
	var resp models.FinalResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &resp, nil
}

// --- Sessions ---

// SessionRecord correlates a session token with its latest result.
type SessionRecord struct {
	SessionID    string    `json:"sessionId"`
	LastResultID string    `json:"lastResultId"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (s *Stores) SaveSession(ctx context.Context, rec SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.backend.Set(ctx, prefixSession+rec.SessionID, data, s.sessionTTL)
}

func (s *Stores) GetSession(ctx context.Context, sessionID string) (*SessionRecord, error) {
	data, err := s.backend.Get(ctx, prefixSession+sessionID)
	if err != nil {
		return nil, err
	}
	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &rec, nil
}

// --- Feedback (append-only) ---

func (s *Stores) AppendFeedback(ctx context.Context, rec models.FeedbackRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	// One key per record; feedback is never overwritten or expired.
	key := prefixFeedback + rec.SessionID + ":" + uuid.NewString()
	return s.backend.Set(ctx, key, data, 0)
}

// --- Context cache ---

func (s *Stores) CacheContext(ctx context.Context, contentHash string, built *models.Context) error {
	data, err := json.Marshal(built)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	return s.backend.Set(ctx, prefixContext+contentHash, data, s.contextTTL)
}

func (s *Stores) GetCachedContext(ctx context.Context, contentHash string) (*models.Context, error) {
	data, err := s.backend.Get(ctx, prefixContext+contentHash)
	if err != nil {
		return nil, err
	}
	var built models.Context
	if err := json.Unmarshal(data, &built); err != nil {
		return nil, fmt.Errorf("unmarshal context: %w", err)
	}
	return &built, nil
}

// --- User history ---

// HistoryEntry is one generation recorded against an authenticated user.
type HistoryEntry struct {
	ResultID    string    `json:"resultId"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func (s *Stores) AppendHistory(ctx context.Context, uid string, entry HistoryEntry) error {
	key := prefixHistory + uid

	var entries []HistoryEntry
	if data, err := s.backend.Get(ctx, key); err == nil {
		_ = json.Unmarshal(data, &entries)
	}
	entries = append(entries, entry)

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return s.backend.Set(ctx, key, data, s.resultTTL)
}

func (s *Stores) GetHistory(ctx context.Context, uid string) ([]HistoryEntry, error) {
	data, err := s.backend.Get(ctx, prefixHistory+uid)
	if err != nil {
		if err == ErrNotFound {
			return []HistoryEntry{}, nil
		}
		return nil, err
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return entries, nil
}

// --- Health counts ---

// Counts reports entry counts per store for the /health endpoint.
type Counts struct {
	Sessions int `json:"sessions"`
	Results  int `json:"results"`
	Feedback int `json:"feedback"`
	Contexts int `json:"contexts"`
}

func (s *Stores) GetCounts(ctx context.Context) (Counts, error) {
	var counts Counts
	var err error

	if counts.Sessions, err = s.backend.Count(ctx, prefixSession); err != nil {
		return counts, err
	}
	if counts.Results, err = s.backend.Count(ctx, prefixResult); err != nil {
		return counts, err
	}
	if counts.Feedback, err = s.backend.Count(ctx, prefixFeedback); err != nil {
		return counts, err
	}
	if counts.Contexts, err = s.backend.Count(ctx, prefixContext); err != nil {
		return counts, err
	}
	return counts, nil
}
