// internal/common/auth/verifier.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"idea-path/internal/common/errors"
)

// Claims are the identity fields produced by a successful token verification.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Verifier checks bearer tokens against an external identity endpoint.
// The endpoint is expected to answer a GET with the token in the
// Authorization header and return the claims as JSON.
type Verifier struct {
	verifyURL  string
	httpClient *http.Client
}

func NewVerifier(verifyURL string, timeout time.Duration) *Verifier {
	return &Verifier{
		verifyURL:  strings.TrimSuffix(verifyURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a verify endpoint is configured at all.
func (v *Verifier) Enabled() bool {
	return v.verifyURL != ""
}

// VerifyToken validates a bearer token and returns the caller's claims.
func (v *Verifier) VerifyToken(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, errors.NewAuthRequiredError()
	}
	if !v.Enabled() {
		return nil, errors.NewAuthInvalidError("no verifier configured")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", v.verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAuthInvalidError(fmt.Sprintf("verify request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewAuthInvalidError(fmt.Sprintf("verifier status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, errors.NewAuthInvalidError(fmt.Sprintf("decode claims: %v", err))
	}
	if claims.UID == "" {
		return nil, errors.NewAuthInvalidError("claims missing uid")
	}

	return &claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
