// Package api is the HTTP gateway to the remote talent service. It wraps
// every outbound request with the base URL, JSON content type and bearer
// credentials, and handles the one cross-cutting response rule: a 401 wipes
// the persisted token and forces navigation back to the login entry point.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/semanticsaas/talentctl/internal/token"
)

const basePath = "/api"

// LoginPath is where the unauthorized hook should send the user.
const LoginPath = "/login"

// Option configures a Client.
type Option func(c *Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithLogger attaches a structured logger; requests log method, URL, status,
// duration and request id.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger.Named("api") }
}

// WithUnauthorizedHook registers the navigation side effect fired on every
// 401 response, after the persisted token has been cleared. Concurrent 401s
// may fire it redundantly; hooks must tolerate that.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) { c.onUnauthorized = hook }
}

// Client is the gateway. Safe for concurrent use.
type Client struct {
	hc             *http.Client
	logger         *zap.Logger
	url            url.URL
	tokens         token.Store
	onUnauthorized func()
}

// Open builds a Client for the service at rawURL, reading credentials from
// tokens on every request.
func Open(rawURL string, tokens token.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", rawURL, err)
	}
	c := &Client{
		hc:     http.DefaultClient,
		logger: zap.NewNop(),
		url:    *u,
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do executes one JSON request. A present persisted token rides along as a
// bearer credential; an absent one sends the request unauthenticated and
// lets the server decide. out may be nil when the body is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	reqID := requestID()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.formatURL(path, params), reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, terr := c.tokens.Load(); terr == nil {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("url", req.URL.String()),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return newNetworkError(err, reqID)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Info(method,
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		// Global session teardown, before the error propagates. Clearing an
		// already-cleared token is a no-op, so concurrent 401s are harmless.
		_ = c.tokens.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return newError(resp.StatusCode, serverMessage(resp.Body), reqID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, serverMessage(resp.Body), reqID)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) formatURL(path string, params url.Values) string {
	u := c.url
	u.Path = basePath + path
	if params != nil {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// serverMessage pulls the human-readable message out of an error body.
// The service answers either {"message": ...} or {"success": false,
// "message": ...}; anything unreadable degrades to an empty message.
func serverMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func requestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}
