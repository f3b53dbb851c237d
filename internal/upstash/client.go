// Package upstash is a minimal client for the Upstash Redis REST API,
// covering just the list commands the mistake store needs.
package upstash

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
	"strings"
	"time"
)

// ErrUnavailable wraps every transport, protocol and decoding failure so
// callers can treat the remote store as a single yes/no concern and fall
// back locally.
var ErrUnavailable = errors.New("remote mistake store unavailable")

// DefaultTimeout bounds each REST call. Mistake writes sit on the quiz
// request path, so a hung remote must not hang the page.
const DefaultTimeout = 3 * time.Second

// Client talks to one Upstash Redis database over REST. A nil or
// unconfigured client reports every call as unavailable.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Command is one entry in a pipeline request body.
type Command struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

type result struct {
	Result any `json:"result"`
}

// New builds a client for the database at baseURL. Empty credentials
// yield a disabled client, which is how deployments without a remote
// store run.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Enabled reports whether the client has credentials to work with.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != "" && c.token != ""
}

// Do executes a single command as POST {base}/{COMMAND}/{arg}/... and
// returns the decoded result field.
func (c *Client) Do(ctx context.Context, command string, args ...string) (any, error) {
	if !c.Enabled() {
		return nil, ErrUnavailable
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, strings.ToUpper(command))
	for _, a := range args {
		parts = append(parts, url.PathEscape(a))
	}
	return c.post(ctx, c.baseURL+"/"+strings.Join(parts, "/"), nil)
}

// Pipeline executes several commands in one round trip. Results come
// back in command order.
func (c *Client) Pipeline(ctx context.Context, cmds []Command) ([]any, error) {
	if !c.Enabled() {
		return nil, ErrUnavailable
	}
	payload, err := json.Marshal(cmds)
	if err != nil {
		return nil, fmt.Errorf("%w: encode pipeline: %v", ErrUnavailable, err)
	}
	body, err := c.request(ctx, c.baseURL+"/pipeline", payload)
	if err != nil {
		return nil, err
	}
	var results []result
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: decode pipeline response: %v", ErrUnavailable, err)
	}
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = r.Result
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload []byte) (any, error) {
	body, err := c.request(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}
	var res result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return res.Result, nil
}

func (c *Client) request(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return body, nil
}

// ── Typed list commands ─────────────────────────────────────────────────

// LPush prepends value to the list at key and returns the new length.
func (c *Client) LPush(ctx context.Context, key, value string) (int64, error) {
	res, err := c.Do(ctx, "LPUSH", key, value)
	if err != nil {
		return 0, err
	}
	return asInt64(res)
}

// LLen returns the length of the list at key.
func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	res, err := c.Do(ctx, "LLEN", key)
	if err != nil {
		return 0, err
	}
	return asInt64(res)
}

// LRange returns the list elements between start and stop inclusive.
// Negative indexes count from the tail, so (0, -1) is the whole list.
func (c *Client) LRange(ctx context.Context, key string, start, stop int) ([]any, error) {
	res, err := c.Do(ctx, "LRANGE", key, strconv.Itoa(start), strconv.Itoa(stop))
	if err != nil {
		return nil, err
	}
	list, ok := res.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: LRANGE result is %T, want list", ErrUnavailable, res)
	}
	return list, nil
}

// LSet overwrites the element at index. Any non-error response counts as
// success.
func (c *Client) LSet(ctx context.Context, key string, index int, value string) error {
	_, err := c.Do(ctx, "LSET", key, strconv.Itoa(index), value)
	return err
}

func asInt64(v any) (int64, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: result is %T, want number", ErrUnavailable, v)
	}
	return int64(n), nil
}
