package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client talks to the POS backend. It is a thin, stateless wrapper: it holds
// no entity caches and mutates nothing locally; callers re-fetch snapshots
// after transitions to pick up authoritative state.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	mu       sync.Mutex
	inflight map[string]struct{} // entity keys with an outstanding transition
}

// NewClient creates a client for the given base URL with a bearer token.
// A zero timeout disables the client-side deadline.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		http:     &http.Client{Timeout: timeout},
		inflight: make(map[string]struct{}),
	}
}

// errorBody is the backend's uniform error envelope.
type errorBody struct {
	Message string `json:"message"`
}

// do performs one request and decodes the response into out (when non-nil).
// Every failure comes back as *Error so callers can classify it.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb errorBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		_ = json.Unmarshal(data, &eb)
		return &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Op:      op,
			Status:  resp.StatusCode,
			Message: eb.Message,
			Err:     fmt.Errorf("http %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// acquire marks an entity as having an outstanding transition. It fails when
// one is already in flight, which is what keeps a double-clicked control from
// submitting the same transition twice.
func (c *Client) acquire(kind string, id int64) error {
	key := fmt.Sprintf("%s/%d", kind, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return ErrTransitionInFlight
	}
	c.inflight[key] = struct{}{}
	return nil
}

func (c *Client) release(kind string, id int64) {
	key := fmt.Sprintf("%s/%d", kind, id)
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}
