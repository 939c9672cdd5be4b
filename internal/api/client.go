// Package api is the authenticated REST client for the JE Bot CRM backend.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andresFJ158/frontend-je-bot-crm/internal/logger"
)

// APIError is a non-2xx response from the backend. Validation failures
// carry either a single message or a list of messages; both are kept.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("http %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// Client issues authenticated requests against the backend REST API.
// Every request except the login call carries the bearer token. The first
// 401 triggers the onUnauthorized callback exactly once for the lifetime
// of the client; the caller wires it to full session teardown.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string

	onUnauthorized func()
	teardownOnce   sync.Once
}

// New creates a client for the given backend base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers the teardown callback fired on the first 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the backend base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) Post(path string, body, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) Put(path string, body, out any) error {
	return c.do(http.MethodPut, path, body, out)
}

func (c *Client) Patch(path string, body, out any) error {
	return c.do(http.MethodPatch, path, body, out)
}

func (c *Client) Delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	// The login endpoint is the only public route
	if token := c.Token(); token != "" && path != loginPath {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && path != loginPath {
			c.handleUnauthorized()
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// handleUnauthorized runs the teardown callback at most once, no matter
// how many in-flight requests come back 401 while the session dies.
func (c *Client) handleUnauthorized() {
	c.teardownOnce.Do(func() {
		logger.Warn("authentication failed, tearing down session")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	})
}

// decodeError extracts the backend's message or messages field. The
// backend sends either {"message": "..."} or {"message": ["...", ...]}.
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return apiErr
	}

	if len(payload.Message) > 0 {
		var single string
		if json.Unmarshal(payload.Message, &single) == nil {
			apiErr.Messages = []string{single}
			return apiErr
		}
		var many []string
		if json.Unmarshal(payload.Message, &many) == nil {
			apiErr.Messages = many
			return apiErr
		}
	}
	if payload.Error != "" {
		apiErr.Messages = []string{payload.Error}
	}
	return apiErr
}

// ResolveBaseURL asks a same-origin probe endpoint where the backend
// lives. Deployments that fix the URL at install time never call this;
// it exists for setups where the dashboard and backend share an origin.
func ResolveBaseURL(origin string, timeout time.Duration) (string, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(strings.TrimSuffix(origin, "/") + "/api/config")
	if err != nil {
		return "", fmt.Errorf("config probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("config probe returned http %d", resp.StatusCode)
	}

	var payload struct {
		APIURL string `json:"apiUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("config probe returned invalid JSON: %w", err)
	}
	if payload.APIURL == "" {
		return "", fmt.Errorf("config probe returned no apiUrl")
	}
	return payload.APIURL, nil
}
