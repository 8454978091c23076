package hotelrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSessionExpired is returned when the backend dropped the session cookie.
var ErrSessionExpired = errors.New("hotelrpc: session expired")

// Client talks JSON-RPC 2.0 to the hotel backend. Routes under /hotel/* carry
// their own {success, error} envelope inside the JSON-RPC result.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Database   string
	Login      string
	APIKey     string

	mu     sync.Mutex
	authed bool
	seq    atomic.Int64
}

func New(baseURL, database, login, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout, Jar: jar},
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Database:   database,
		Login:      login,
		APIKey:     apiKey,
	}
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

func (e *RPCError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("hotel rpc error: code=%d %s: %s", e.Code, e.Message, e.Data.Message)
	}
	return fmt.Sprintf("hotel rpc error: code=%d %s", e.Code, e.Message)
}

func (e *RPCError) sessionExpired() bool {
	return e.Code == 100 || strings.HasSuffix(e.Data.Name, "SessionExpiredException")
}

// RouteError is a {success:false} answer from a /hotel/* route.
type RouteError struct {
	Route   string
	Message string
}

func (e *RouteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request failed", e.Route)
	}
	return fmt.Sprintf("%s: %s", e.Route, e.Message)
}

type envelope struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      int64  `json:"id"`
	Params  any    `json:"params"`
}

type reply struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, path string, params any, out any) (int, error) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if c.BaseURL == "" {
		return 0, fmt.Errorf("missing backend base url")
	}
	if params == nil {
		params = map[string]any{}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(envelope{
		JSONRPC: "2.0",
		Method:  "call",
		ID:      c.seq.Add(1),
		Params:  params,
	}); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(b) > 0 {
			return resp.StatusCode, fmt.Errorf("hotel backend error: status=%d body=%s", resp.StatusCode, string(b))
		}
		return resp.StatusCode, fmt.Errorf("hotel backend error: status=%d", resp.StatusCode)
	}

	var r reply
	if err := json.Unmarshal(b, &r); err != nil {
		return resp.StatusCode, fmt.Errorf("decode hotel response failed: %w body=%s", err, string(b))
	}
	if r.Error != nil {
		if r.Error.sessionExpired() {
			return resp.StatusCode, fmt.Errorf("%w: %s", ErrSessionExpired, r.Error.Error())
		}
		return resp.StatusCode, r.Error
	}
	if out != nil && len(r.Result) > 0 && string(r.Result) != "null" {
		if err := json.Unmarshal(r.Result, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s result failed: %w body=%s", path, err, string(r.Result))
		}
	}
	return resp.StatusCode, nil
}

// Authenticate opens a backend session. The session cookie lands in the
// client's jar.
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

func (c *Client) authenticateLocked(ctx context.Context) error {
	if c.Login == "" {
		// Anonymous mode: the backend sits behind a trusted proxy.
		c.authed = true
		return nil
	}
	var out struct {
		UID Many2One `json:"uid"`
	}
	_, err := c.doJSON(ctx, "/web/session/authenticate", map[string]any{
		"db":       c.Database,
		"login":    c.Login,
		"password": c.APIKey,
	}, &out)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	if out.UID.ID == 0 {
		return fmt.Errorf("authenticate: backend rejected login %q", c.Login)
	}
	c.authed = true
	return nil
}

func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authed {
		return nil
	}
	return c.authenticateLocked(ctx)
}

// call runs one RPC, re-authenticating once when the session has expired.
func (c *Client) call(ctx context.Context, path string, params any, out any) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	_, err := c.doJSON(ctx, path, params, out)
	if !errors.Is(err, ErrSessionExpired) || c.Login == "" {
		return err
	}

	c.mu.Lock()
	c.authed = false
	authErr := c.authenticateLocked(ctx)
	c.mu.Unlock()
	if authErr != nil {
		return authErr
	}
	_, err = c.doJSON(ctx, path, params, out)
	return err
}

// routeStatus is embedded by every /hotel/* result.
type routeStatus struct {
	Success bool `json:"success"`
	Error   Text `json:"error"`
}

func (s routeStatus) check(route string) error {
	if s.Success {
		return nil
	}
	return &RouteError{Route: route, Message: string(s.Error)}
}
