// Package backend mirrors wallet facts into the user profile service.
// The sync is strictly best-effort: connect flows never wait on it and
// never fail because of it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/walletbridge/internal/infra/metrics"
)

// TokenSource supplies the bearer token for profile calls. It returns an
// empty string when no user is signed in.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a TokenSource backed by a fixed configuration value.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) string { return string(t) }

// Syncer pushes the active wallet address to the profile endpoint.
type Syncer struct {
	url        string
	tokens     TokenSource
	httpClient *http.Client
	log        *slog.Logger
}

// NewSyncer creates a profile syncer against the given endpoint.
func NewSyncer(url string, tokens TokenSource, timeout time.Duration, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Syncer{
		url:    url,
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SyncAddress records the address on the signed-in user's profile. Without
// a session token the call is skipped silently. Failures are logged and
// counted but never surfaced to the caller.
func (s *Syncer) SyncAddress(ctx context.Context, address string) {
	token := s.tokens.Token(ctx)
	if token == "" {
		return
	}

	if err := s.push(ctx, token, address); err != nil {
		metrics.ProfileSyncFailuresTotal.Inc()
		s.log.Warn("Profile address sync failed", "error", err)
		return
	}

	s.log.Debug("Profile address synced", "address", address)
}

func (s *Syncer) push(ctx context.Context, token, address string) error {
	payload, err := json.Marshal(map[string]string{"address": address})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("profile call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("profile returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}
