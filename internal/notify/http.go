package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTP relay implementations POST JSON to the mail service and the sheet
// bridge. Both collaborators are opaque and retryable; the dispatcher owns
// the retry policy, so a non-2xx here is just an error.

type HTTPMailer struct {
	url string
	hc  *http.Client
}

func NewHTTPMailer(url string) *HTTPMailer {
	return &HTTPMailer{url: url, hc: &http.Client{Timeout: 15 * time.Second}}
}

func (m *HTTPMailer) SendOnboardingEmail(ctx context.Context, msg OnboardingEmail) error {
	return postJSON(ctx, m.hc, m.url, msg)
}

type HTTPLedgerSync struct {
	url string
	hc  *http.Client
}

func NewHTTPLedgerSync(url string) *HTTPLedgerSync {
	return &HTTPLedgerSync{url: url, hc: &http.Client{Timeout: 15 * time.Second}}
}

func (s *HTTPLedgerSync) Append(ctx context.Context, rec LedgerRecord) error {
	return postJSON(ctx, s.hc, s.url, rec)
}

func postJSON(ctx context.Context, hc *http.Client, url string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("post %s failed: %s (%d)", url, string(body), res.StatusCode)
	}
	return nil
}
