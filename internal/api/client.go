// Package api is the gateway to the finance tracker HTTP JSON API.
//
// Every call carries the host session token and every failure, whatever its
// cause, surfaces as *Error with a user-presentable message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "dompet/internal/log"
)

const (
	// SessionHeader carries the host-provided init data.
	SessionHeader   = "X-Telegram-Init-Data"
	RequestIDHeader = "X-Request-ID"

	maxBody      = 4 << 20
	maxErrorBody = 64 << 10
)

// Generic messages shown when the server gave nothing better.
const (
	MsgUnreachable     = "Tidak dapat menghubungi server."
	MsgInvalidResponse = "Respons server tidak valid."
)

// ErrNoSession is returned when no session token is available. The caller
// must treat it as running outside the host environment.
var ErrNoSession = errors.New("api: session token missing")

// Error is the single error type of the gateway.
type Error struct {
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message extracts the user-facing text of err, or fallback when err does
// not carry one.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logger  *applog.Logger
	now     func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the overall per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func WithLogger(l *applog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithClock replaces time.Now, used for cache-busting parameters.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a gateway for baseURL. An empty token yields ErrNoSession and
// no client: nothing may reach the network without a session.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoSession
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url scheme %q", u.Scheme)
	}
	c := &Client{
		baseURL: u,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentAPI),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Call issues method on path with the optional query and JSON body, and
// decodes a successful JSON response into out when out is non-nil.
func (c *Client) Call(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	raw, status, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &Error{Status: status, Message: MsgInvalidResponse, Err: io.ErrUnexpectedEOF}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: status, Message: MsgInvalidResponse, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// do performs the request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, int, error) {
	if c == nil || c.token == "" {
		return nil, 0, ErrNoSession
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, 0, &Error{Message: MsgInvalidResponse, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, &Error{Message: MsgUnreachable, Err: fmt.Errorf("build request: %w", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set(SessionHeader, c.token)
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "API request failed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, method,
			applog.FieldPath, path,
			applog.FieldError, err.Error())
		return nil, 0, &Error{Message: MsgUnreachable, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, &Error{Status: resp.StatusCode, Message: MsgUnreachable, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.DebugContext(ctx, "API request completed",
		applog.NewFields().
			WithRequestID(requestID).
			WithHTTPRequest(method, path, u.RawQuery).
			WithHTTPResponse(resp.StatusCode, time.Since(start).Milliseconds(), resp.StatusCode < 400).
			ToSlice()...)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	return raw, resp.StatusCode, nil
}

// errorMessage pulls "detail" or "error" out of a JSON error body and falls
// back to the status code.
func errorMessage(status int, raw []byte) string {
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, key := range []string{"detail", "error"} {
			v, ok := payload[key]
			if !ok || isEmptyJSON(v) {
				continue
			}
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				if s != "" {
					return s
				}
				continue
			}
			return string(compactJSON(v))
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

func isEmptyJSON(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 || bytes.Equal(t, []byte("null")) || bytes.Equal(t, []byte("false"))
}

func compactJSON(v json.RawMessage) []byte {
	var b bytes.Buffer
	if err := json.Compact(&b, v); err != nil {
		return v
	}
	return b.Bytes()
}
