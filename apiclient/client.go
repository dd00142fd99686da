// Package apiclient is the authenticated HTTP client for the platform API.
//
// Every request gets the stored access token as a bearer credential. A 401
// triggers one shared refresh exchange and a single resubmission; a
// refresh failure, a second 401, or any 403/419/498 clears the stored
// session and sends the console back to the login screen.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	retry "github.com/appleboy/go-httpretry"
	"golang.org/x/sync/singleflight"

	"github.com/go-authgate/bet-console/session"
)

const (
	// EntryPath is the login surface.
	EntryPath = "/"
	// RefreshPath is the refresh exchange endpoint, relative to the API prefix.
	RefreshPath = "/auth/refresh"

	requestTimeout = 15 * time.Second
	refreshTimeout = 10 * time.Second
)

// Client sends requests to the API with credential handling.
type Client struct {
	baseURL  string
	hc       *http.Client
	retry    *retry.Client
	store    session.Store
	nav      Navigator
	observer Observer
	log      *slog.Logger

	// refreshes holds the in-flight refresh exchange, if any. singleflight
	// drops the entry as soon as the exchange returns.
	refreshes singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithRetryClient replaces the client used for the refresh exchange.
func WithRetryClient(rc *retry.Client) Option {
	return func(c *Client) { c.retry = rc }
}

// WithNavigator sets where the session invalidator redirects.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.nav = n }
}

// WithObserver reports refresh and invalidation events to o.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client for the API rooted at baseURL (scheme, host and
// prefix, e.g. "https://api.example.com/api").
func New(baseURL string, store session.Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got: %s", u.Scheme)
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		store:    store,
		observer: noopObserver{},
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.hc == nil {
		c.hc = &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	if c.retry == nil {
		c.retry, err = retry.NewBackgroundClient(retry.WithHTTPClient(c.hc))
		if err != nil {
			return nil, fmt.Errorf("failed to create retry client: %w", err)
		}
	}
	return c, nil
}

// Store returns the session store the client reads credentials from.
func (c *Client) Store() session.Store {
	return c.store
}

// Do sends r and returns the response for any 2xx answer. Every other
// outcome is an error: *APIError for HTTP failures, a wrapped transport
// error otherwise.
func (c *Client) Do(ctx context.Context, r *Request) (*Response, error) {
	payload, err := r.encodeBody()
	if err != nil {
		return nil, err
	}

	var token string
	if !r.Anonymous {
		b, err := c.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		token = b.AccessToken
	}

	// The retry marker belongs to this call, not to the caller's struct.
	req := *r
	req.retried = false
	return c.dispatch(ctx, &req, payload, token)
}

func (c *Client) dispatch(ctx context.Context, r *Request, payload []byte, token string) (*Response, error) {
	resp, requestID, err := c.send(ctx, r, payload, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	apiErr := newAPIError(r, resp, requestID)
	if r.Anonymous {
		return nil, apiErr
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized && !r.retried:
		c.observer.AccessTokenRejected()
		fresh, err := c.refreshToken(ctx, token)
		if err != nil {
			c.log.Warn("token refresh failed",
				"method", r.Method, "path", r.Path, "error", err)
			c.observer.RefreshFailed(err)
			return nil, c.invalidate(ctx, apiErr, "refresh failed: "+err.Error())
		}
		r.retried = true
		c.observer.TokenRefreshedRetrying()
		return c.dispatch(ctx, r, payload, fresh)

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.invalidate(ctx, apiErr, "access token rejected after refresh")

	case IsSessionInvalidStatus(resp.StatusCode):
		return nil, c.invalidate(ctx, apiErr, fmt.Sprintf("server answered %d", resp.StatusCode))
	}

	return nil, apiErr
}

func (c *Client) send(
	ctx context.Context,
	r *Request,
	payload []byte,
	token string,
) (*Response, string, error) {
	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range r.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if !r.Anonymous {
		AttachCredentials(req, token)
	}
	requestID := stampRequestID(req)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, requestID, fmt.Errorf("%s %s failed: %w", r.Method, r.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, requestID, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("api call",
		"method", r.Method,
		"path", r.Path,
		"status", resp.StatusCode,
		"retried", r.retried,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, requestID, nil
}

// JSON is a shorthand for Do followed by Decode into out (which may be nil).
func (c *Client) JSON(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) error {
	resp, err := c.Do(ctx, &Request{Method: method, Path: path, Query: query, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}
