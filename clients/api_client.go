package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every upstream call unless overridden.
const DefaultTimeout = 30 * time.Second

// ErrUnauthorized is wrapped by every 401/403 APIError.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer from the FuelUp API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Envelope is the JSON wrapper the API puts around every payload.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Link    string          `json:"link,omitempty"`
}

// Success reports whether the API flagged the call as successful.
func (e *Envelope) Success() bool {
	return e.Status == "success"
}

// Decode unmarshals the data field into v. An empty data field leaves v alone.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// APIClient calls the FuelUp REST API. A client carries at most one bearer
// token; use WithToken to get a copy bound to a session.
type APIClient struct {
	baseURL string
	http    *http.Client
	token   string
	now     func() time.Time
}

type Option func(*APIClient)

func WithHTTPClient(c *http.Client) Option {
	return func(a *APIClient) { a.http = c }
}

// WithTimeout sets the request timeout on a copy of the current http
// client, leaving one passed to WithHTTPClient untouched.
func WithTimeout(d time.Duration) Option {
	return func(a *APIClient) {
		if d > 0 {
			c := *a.http
			c.Timeout = d
			a.http = &c
		}
	}
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *APIClient) { a.now = now }
}

func NewAPIClient(baseURL string, opts ...Option) *APIClient {
	a := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithToken returns a copy of the client that authenticates with token.
func (a *APIClient) WithToken(token string) *APIClient {
	c := *a
	c.token = token
	return &c
}

func (a *APIClient) Token() string { return a.token }

// Now is the client's clock.
func (a *APIClient) Now() time.Time { return a.now() }

// IsTokenExpired reports whether token is missing, unreadable or past its exp.
func (a *APIClient) IsTokenExpired(token string) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return !a.now().Before(exp)
}

func (a *APIClient) Get(ctx context.Context, path string, out any) (*Envelope, error) {
	return a.do(ctx, http.MethodGet, path, nil, out)
}

func (a *APIClient) Post(ctx context.Context, path string, body, out any) (*Envelope, error) {
	return a.do(ctx, http.MethodPost, path, body, out)
}

func (a *APIClient) Put(ctx context.Context, path string, body, out any) (*Envelope, error) {
	return a.do(ctx, http.MethodPut, path, body, out)
}

func (a *APIClient) Patch(ctx context.Context, path string, body, out any) (*Envelope, error) {
	return a.do(ctx, http.MethodPatch, path, body, out)
}

func (a *APIClient) Delete(ctx context.Context, path string, out any) (*Envelope, error) {
	return a.do(ctx, http.MethodDelete, path, nil, out)
}

func (a *APIClient) do(ctx context.Context, method, path string, body, out any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if msg == "" {
			msg = "request failed"
		}
		return &env, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if out != nil {
		if err := env.Decode(out); err != nil {
			return &env, err
		}
	}
	return &env, nil
}
