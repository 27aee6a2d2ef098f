// Package api is the portal's HTTP client for the remote learner-portal
// backend. It concatenates a configured base URL with endpoint paths,
// attaches the bearer token when one is stored, and normalizes every
// failure - transport or remote - into a single *Error shape.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rsjournalism/student-portal/internal/storage"
)

// defaultErrorMessage is used when a failure carries no usable message.
const defaultErrorMessage = "Unknown error occurred"

// Error is the uniform failure shape every request resolves to.
// Status is the remote HTTP status when one was received, 500 otherwise.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// AsError unwraps err into *Error if it is one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Envelope is the backend's common response wrapper. Data is left raw so
// each flow decodes its own payload shape.
type Envelope struct {
	Status  int             `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// TokenSource supplies the current bearer token, or "" when the caller is
// unauthenticated. Absence of a token means no Authorization header.
type TokenSource func() string

// TokenFromStorage reads the bearer token from the durable store on every
// request, so a token written by verify-otp is picked up immediately.
func TokenFromStorage(store storage.Store) TokenSource {
	return func() string {
		token, err := store.Get(storage.KeyAuthToken)
		if err != nil {
			return ""
		}
		return token
	}
}

// Client issues JSON requests against the backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

// NewClient creates a backend client. tokens may be nil for a client that
// never authenticates.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		logger: logger,
	}
}

// Get issues a GET request. See Do for decoding semantics.
func (c *Client) Get(ctx context.Context, path string, out any) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one request. Any non-2xx status or transport failure
// resolves to a *Error; on success the envelope is returned and, when out
// is non-nil and the envelope carries data, the data is decoded into out.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (*Envelope, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(method, path, 0, fmt.Sprintf("encode request body: %v", err))
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, c.fail(method, path, 0, fmt.Sprintf("create request: %v", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level failure: no response to take a status from.
		return nil, c.fail(method, path, 0, "")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(method, path, resp.StatusCode, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Prefer the backend's own message when the body parses.
		message := http.StatusText(resp.StatusCode)
		var remote Envelope
		if json.Unmarshal(raw, &remote) == nil && remote.Message != "" {
			message = remote.Message
		}
		return nil, c.fail(method, path, resp.StatusCode, message)
	}

	var env Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, c.fail(method, path, resp.StatusCode, fmt.Sprintf("decode response: %v", err))
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, c.fail(method, path, resp.StatusCode, fmt.Sprintf("decode response data: %v", err))
		}
	}

	return &env, nil
}

// fail builds the normalized *Error and logs the failure path.
func (c *Client) fail(method, path string, status int, message string) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = defaultErrorMessage
	}

	c.logger.Error("API request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("message", message),
	)

	return &Error{Status: status, Message: message}
}
