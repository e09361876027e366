// internal/models/feedback.go
package models

import "time"

// FeedbackRecord is an append-only rating tied to a session. Records are
// never mutated after creation.
type FeedbackRecord struct {
	SessionID string    `json:"sessionId"`
	Rating    string    `json:"rating"` // "up" or "down"
	Notes     string    `json:"notes,omitempty"`
	ResultID  string    `json:"resultId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidRating reports whether a rating value is accepted.
func ValidRating(r string) bool {
	return r == "up" || r == "down"
}
