package robot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/copilette/misty/internal/shared"
)

// Client is the HTTP session shared by every method group. All commands hit
// the firmware's fixed base URL http://<host>/api/<endpoint>.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a session for the robot at host. The host may be a bare
// address ("192.168.1.100") or carry a scheme. A nil client falls back to
// [http.DefaultClient].
func NewClient(host string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	return &Client{
		baseURL:    strings.TrimRight(host, "/"),
		httpClient: client,
		logger:     shared.NewLogger(nil),
	}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// BaseURL returns the robot's base URL without the /api prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PubSubEndpoint returns the ws:// URL of the firmware's event socket.
func (c *Client) PubSubEndpoint() string {
	u := c.baseURL + "/pubsub"
	if strings.HasPrefix(u, "https://") {
		return "wss://" + u[len("https://"):]
	}
	if strings.HasPrefix(u, "http://") {
		return "ws://" + u[len("http://"):]
	}
	return u
}

func (c *Client) endpoint(path string, params url.Values) string {
	res := c.baseURL + "/api/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		res += "?" + params.Encode()
	}
	return res
}

// APIResponse is a raw firmware response.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// envelope is the wrapper the firmware puts around every JSON response.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Status string          `json:"status"`
	Error  string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, params), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("robot request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		if err := json.Unmarshal(respBody, &env); err == nil && env.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, env.Error)
		}
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// Get performs a GET against /api/<path> and returns the raw response.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// GetResult performs a GET and decodes the firmware's {"result": ...}
// envelope into result.
func (c *Client) GetResult(ctx context.Context, path string, params url.Values, result any) error {
	resp, err := c.Get(ctx, path, params)
	if err != nil {
		return err
	}
	return unwrap(resp.Body, result)
}

// Post performs a POST with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// PostResult performs a POST and decodes the result envelope into result.
func (c *Client) PostResult(ctx context.Context, path string, body, result any) error {
	resp, err := c.Post(ctx, path, body)
	if err != nil {
		return err
	}
	return unwrap(resp.Body, result)
}

// Delete performs a DELETE with an optional JSON body.
func (c *Client) Delete(ctx context.Context, path string, body any) (*APIResponse, error) {
	return c.do(ctx, http.MethodDelete, path, nil, body)
}

func unwrap(body []byte, result any) error {
	if result == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Result == nil {
		return fmt.Errorf("%w: response missing result", shared.ErrAPIRequest)
	}
	if err := json.Unmarshal(env.Result, result); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

// boolStr formats booleans the way the firmware expects them in query strings.
func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
