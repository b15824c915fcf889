// Package transport is the single choke point for outbound HTTP to the
// city backend. Every request carries the same header contract: JSON
// bodies, `Authorization: Token ...` when a bearer is held, and the
// anti-forgery header on mutating verbs. Failures are classified into
// *Error; an authentication failure clears the held bearer as a side
// effect so later callers degrade to unauthenticated behavior instead
// of retrying a known-bad token.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"smartcity-ops/internal/observability/metrics"
	"smartcity-ops/internal/session"
)

// Client issues requests against one backend deployment.
type Client struct {
	baseURL string
	session *session.Store
	client  *http.Client
}

// NewClient constructs a transport over the given base URL.
func NewClient(baseURL string, sess *session.Store) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("transport: empty base url")
	}
	if sess == nil {
		return nil, errors.New("transport: nil session store")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Error is a classified non-2xx response.
type Error struct {
	Status int
	Body   any
	Raw    string
}

func (e *Error) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("transport: http %d: %s", e.Status, e.Raw)
	}
	return fmt.Sprintf("transport: http %d", e.Status)
}

// IsStatus reports whether err is a transport error with the given
// HTTP status.
func IsStatus(err error, status int) bool {
	var te *Error
	return errors.As(err, &te) && te.Status == status
}

// IsUnauthorized reports whether err is an authentication rejection.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Do performs one request. A nil body sends no payload; a non-nil out
// receives the decoded JSON response. No retries happen here: retry
// policy belongs to callers, and the dashboard's periodic polling is
// the de facto retry for reads.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("transport: encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	if mutating(method) {
		if csrf := c.session.CSRFToken(); csrf != "" {
			req.Header.Set("X-CSRFToken", csrf)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(method, metrics.ResultError, time.Since(start))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveAPIRequest(method, metrics.ResultError, time.Since(start))
		return c.failure(resp)
	}
	metrics.ObserveAPIRequest(method, metrics.ResultSuccess, time.Since(start))

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("transport: read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("transport: decode response: %w", err)
	}
	return nil
}

// failure builds an *Error from a non-2xx response. The body is read
// best effort: a JSON object is parsed, anything else is kept raw. The
// backend does not promise an error schema beyond the status code.
func (c *Client) failure(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		c.session.ClearToken()
	}

	raw := ""
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil {
		raw = strings.TrimSpace(string(data))
	}
	var parsed any
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			parsed = raw
		}
	}
	return &Error{Status: resp.StatusCode, Body: parsed, Raw: raw}
}
