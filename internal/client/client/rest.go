package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/common"
	"github.com/dmitrijs2005/quotehub/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseBody = 4 << 20
)

type authMode int

const (
	// authNone never sends a token.
	authNone authMode = iota
	// authOptional sends a token when one is available.
	authOptional
	// authRequired fails with common.ErrNotAuthenticated without a token.
	authRequired
)

type RESTClient struct {
	apiURL  string
	authURL string
	timeout time.Duration
	base    http.RoundTripper
	log     logging.Logger

	public *http.Client

	mu     sync.RWMutex
	source oauth2.TokenSource
	authed *http.Client
}

type Option func(*RESTClient)

func WithTimeout(d time.Duration) Option {
	return func(c *RESTClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport replaces the base round tripper used by both the public and
// the authenticated http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *RESTClient) { c.base = rt }
}

func WithLogger(l logging.Logger) Option {
	return func(c *RESTClient) { c.log = l }
}

func NewRESTClient(apiURL, authURL string, opts ...Option) *RESTClient {
	c := &RESTClient{
		apiURL:  strings.TrimRight(apiURL, "/"),
		authURL: strings.TrimRight(authURL, "/"),
		timeout: defaultTimeout,
		base:    http.DefaultTransport,
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	c.public = &http.Client{Transport: c.base}
	return c
}

// Bind attaches the token source used for authenticated requests. onDenied is
// called with the rejected token whenever the service answers 401 to a
// request that carried one.
func (c *RESTClient) Bind(src oauth2.TokenSource, onDenied func(token string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = src
	c.authed = &http.Client{
		Transport: &oauth2.Transport{
			Source: src,
			Base:   &denialTransport{base: c.base, onDenied: onDenied},
		},
	}
}

// denialTransport sits below oauth2.Transport so it sees the Authorization
// header that was actually sent.
type denialTransport struct {
	base     http.RoundTripper
	onDenied func(token string)
}

func (t *denialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || t.onDenied == nil {
		return resp, err
	}
	if token, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		t.onDenied(token)
	}
	return resp, err
}

// envelope is the common shape of the service's JSON responses. Not every
// endpoint fills every field.
type envelope struct {
	Success    *bool              `json:"success"`
	Message    string             `json:"message"`
	Error      string             `json:"error"`
	Token      string             `json:"token"`
	User       json.RawMessage    `json:"user"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type request struct {
	method string
	url    string
	auth   authMode
	body   any
	// op is the fallback message when the service does not provide one.
	op string
}

func (c *RESTClient) httpClient(mode authMode) (*http.Client, error) {
	if mode == authNone {
		return c.public, nil
	}

	c.mu.RLock()
	src, authed := c.source, c.authed
	c.mu.RUnlock()

	if authed == nil {
		if mode == authRequired {
			return nil, common.ErrNotAuthenticated
		}
		return c.public, nil
	}
	if mode == authOptional {
		if _, err := src.Token(); err != nil {
			return c.public, nil
		}
	}
	return authed, nil
}

// do sends r and decodes the response envelope. The raw body is returned for
// endpoints that answer without an envelope.
func (c *RESTClient) do(ctx context.Context, r request) (*envelope, []byte, error) {
	hc, err := c.httpClient(r.auth)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s request: %w", r.op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, nil, fmt.Errorf("build %s request: %w", r.op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", r.method, "url", r.url, "request_id", requestID, "error", err)
		return nil, nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	c.log.Debug(ctx, "request done",
		"method", r.method, "url", r.url, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	env := &envelope{}
	if len(bytes.TrimSpace(raw)) > 0 && json.Valid(raw) && bytes.TrimSpace(raw)[0] == '{' {
		_ = json.Unmarshal(raw, env)
	}

	if err := mapStatus(resp.StatusCode, env, r.op); err != nil {
		return nil, nil, err
	}
	return env, raw, nil
}

func mapTransportError(err error) error {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return common.ErrNotAuthenticated
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func mapStatus(status int, env *envelope, op string) error {
	msg := env.message()
	if msg == "" {
		msg = op
	}
	switch {
	case status == http.StatusUnauthorized:
		return &APIError{Status: status, Message: msg, Err: ErrUnauthorized}
	case status == http.StatusForbidden:
		return &APIError{Status: status, Message: msg, Err: ErrForbidden}
	case status == http.StatusNotFound:
		return &APIError{Status: status, Message: msg, Err: ErrNotFound}
	case status >= 500:
		return &APIError{Status: status, Message: msg, Err: ErrUnavailable}
	case status >= 400:
		return &APIError{Status: status, Message: msg, Err: ErrRejected}
	case status < 200 || status >= 300:
		return &APIError{Status: status, Message: msg, Err: ErrUnavailable}
	}
	if env.Success != nil && !*env.Success {
		return &APIError{Status: status, Message: msg, Err: ErrRejected}
	}
	return nil
}

func decode[T any](raw json.RawMessage, op string) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &APIError{Status: http.StatusOK, Message: op + ": empty response", Err: ErrRejected}
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	return &v, nil
}
