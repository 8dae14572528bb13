// Package awclient reads buckets and events from the ActivityWatch REST API.
package awclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/suykerbuyk/aw-digest/internal/events"
)

// DefaultURL is where aw-server listens by default.
const DefaultURL = "http://localhost:5600"

// Client talks to one aw-server instance.
type Client struct {
	baseURL  string
	http     *http.Client
	lookback int
}

// New returns a client for baseURL. A zero timeout leaves requests bounded only
// by the caller's context. lookback <= 0 uses events.DefaultLookback.
func New(baseURL string, timeout time.Duration, lookback int) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if lookback <= 0 {
		lookback = events.DefaultLookback
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		lookback: lookback,
	}
}

// Buckets lists every bucket on the server keyed by bucket id.
func (c *Client) Buckets(ctx context.Context) (map[string]events.Bucket, error) {
	var raw map[string]bucketJSON
	if err := c.getJSON(ctx, "get bucket info", c.baseURL+"/api/0/buckets/", &raw); err != nil {
		return nil, err
	}

	out := make(map[string]events.Bucket, len(raw))
	for id, b := range raw {
		out[id] = events.Bucket{ID: id, Type: b.Type, Client: b.Client, Hostname: b.Hostname}
	}
	return out, nil
}

// Events returns the events of bucketID intersecting [start, end), including
// earlier events that run into the range.
func (c *Client) Events(ctx context.Context, bucketID string, start, end time.Time) ([]events.Event, error) {
	inRange, err := c.query(ctx, fmt.Sprintf("get bucket '%s' contents", bucketID), bucketID, url.Values{
		"start": {isoTime(start)},
		"end":   {isoTime(end)},
	})
	if err != nil {
		return nil, err
	}

	previous, err := c.query(ctx, fmt.Sprintf("get previous bucket '%s' contents", bucketID), bucketID, url.Values{
		"end":   {isoTime(start)},
		"limit": {strconv.Itoa(c.lookback)},
	})
	if err != nil {
		return nil, err
	}

	return events.WithLookback(inRange, previous, start), nil
}

func (c *Client) query(ctx context.Context, op, bucketID string, params url.Values) ([]events.Event, error) {
	u := c.baseURL + "/api/0/buckets/" + url.PathEscape(bucketID) + "/events?" + params.Encode()

	var evs []events.Event
	if err := c.getJSON(ctx, op, u, &evs); err != nil {
		return nil, err
	}
	return evs, nil
}

func (c *Client) getJSON(ctx context.Context, op, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &events.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &events.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return &events.TransportError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &events.TransportError{Op: op, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}

// isoTime formats t the way aw-server expects query timestamps.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
