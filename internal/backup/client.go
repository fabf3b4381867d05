// Package backup talks to the sheet-like remote endpoint used for backup, restore and
// the leaderboard.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("backup endpoint not configured")
	ErrMalformedData = errors.New("malformed backup data")
)

// StatusError is a non-2xx reply to a pull.
type StatusError struct {
	Code int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("backup server responded with status %d", e.Code)
}

// PushEvent is the body of a push. Field names match the sheet columns.
type PushEvent struct {
	User    string `json:"user"`
	Mission string `json:"mission"`
	Points  int    `json:"points"`
	Level   string `json:"level"`
}

type Client struct {
	endpoint string
	http     *http.Client
	log      *zap.Logger
	now      func() time.Time
}

// New returns a client for endpoint. An empty endpoint yields a client whose calls
// all return ErrNotConfigured.
func New(endpoint string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log,
		now:      time.Now,
	}
}

func (c *Client) Configured() bool { return c.endpoint != "" }

// Push sends one completed mission. Delivery is fire-and-forget: success means the
// request went out without a transport error. The reply status is logged but never
// treated as a failure, and nothing is retried.
func (c *Client) Push(ctx context.Context, ev PushEvent) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("push failed", zap.String("mission", ev.Mission), zap.Error(err))
		return fmt.Errorf("send push: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	c.log.Info("push dispatched",
		zap.String("mission", ev.Mission),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// FetchRows downloads every row of the sheet, bypassing caches.
func (c *Client) FetchRows(ctx context.Context) ([]Row, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse backup endpoint: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build pull request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, StatusError{Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pull body: %w", err)
	}
	rows, err := DecodeRows(body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("pulled backup rows", zap.Int("rows", len(rows)))
	return rows, nil
}

// DecodeRows accepts either a JSON array of rows or an object with a "data" array.
// Elements that are not JSON objects, such as header strings, are skipped.
func DecodeRows(body []byte) ([]Row, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: not JSON", ErrMalformedData)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil && items != nil {
		return decodeItems(items), nil
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil || len(wrapped.Data) == 0 {
		return nil, fmt.Errorf("%w: not a list", ErrMalformedData)
	}
	if err := json.Unmarshal(wrapped.Data, &items); err != nil || items == nil {
		return nil, fmt.Errorf("%w: not a list", ErrMalformedData)
	}
	return decodeItems(items), nil
}

func decodeItems(items []json.RawMessage) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		var r Row
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}
