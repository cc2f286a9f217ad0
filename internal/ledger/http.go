package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Payload is the wire body posted by HTTPReporter and accepted by the
// receiver.
type Payload struct {
	GID   string `json:"gid"`
	Score int    `json:"score"`
	Event Kind   `json:"event"`
}

// HTTPReporter posts each event as JSON to a URL.
type HTTPReporter struct {
	URL    string
	Client *http.Client
}

// Report performs one POST. Any non-2xx status is an error.
func (r HTTPReporter) Report(ctx context.Context, e Event) error {
	body, err := json.Marshal(Payload{GID: e.SessionID, Score: e.Score, Event: e.Kind})
	if err != nil {
		return fmt.Errorf("ledger: encode event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: post %s: %w", r.URL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ledger: post %s: unexpected status %s", r.URL, resp.Status)
	}
	return nil
}
