// Package client provides the HTTP transport for portalauth. A Client owns
// one *http.Client with a dedicated cookie jar, so portal session cookies
// survive across the sequential round trips of a login attempt without
// leaking into any other client instance.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/mshiomi/portalauth/config"
)

// chromeUserAgent matches the Chrome version impersonated by the TLS dialer.
const chromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBodySize caps how much of a portal response is read into memory.
// Portal pages are small; anything larger indicates a response we are not
// interested in anyway.
const maxBodySize = 4 << 20

// Request describes one portal round trip. Exactly one of Form and JSON may
// be set; both nil means a bodyless request.
type Request struct {
	// Method is the HTTP method, e.g. http.MethodGet.
	Method string

	// URL is the absolute request URL.
	URL string

	// Header carries per-step headers, typically the anti-forgery token
	// entries built by page.CSRFHeader. Entries here override the client's
	// base browser headers.
	Header http.Header

	// Form is the URL-encoded request body for form submissions.
	Form url.Values

	// JSON is the raw JSON request body for the FIDO2 relay steps.
	JSON []byte

	// Referer, when non-empty, is sent as the Referer header. The
	// resource-list fetch requires the waiting-page URL here.
	Referer string
}

// Client is the transport collaborator of the login orchestrator. It is safe
// for concurrent use, but the orchestrator issues strictly sequential
// requests: the portal session is cookie-based, and overlapping requests on
// one jar would race server-side state.
type Client struct {
	httpClient *http.Client
	base       *browserHeaders
}

// New constructs a Client according to cfg. Returns an error if the proxy
// URL cannot be parsed.
func New(cfg *config.Config) (*Client, error) {
	transport, err := buildTransport(cfg)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: create cookie jar: %w", err)
	}

	base := defaultBrowserHeaders()
	if cfg.UserAgent != "" {
		base.Set("User-Agent", cfg.UserAgent)
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   cfg.RequestTimeout,
			// CheckRedirect is left nil: the portal's HTTP-level redirects
			// are followed automatically; the flow only cares about
			// script-level redirects, which it parses from response bodies.
		},
		base: base,
	}, nil
}

// Send performs one round trip and returns the response body as a string.
//
// The body is returned for any HTTP status: the portal reports flow errors
// inside page content, so validation is the caller's concern, not the
// transport's. Transport-level failures (DNS, TLS, timeout, context
// cancellation) are the only errors.
func (c *Client) Send(ctx context.Context, r Request) (string, error) {
	var body io.Reader
	contentType := ""
	switch {
	case r.Form != nil:
		body = strings.NewReader(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.JSON != nil:
		body = bytes.NewReader(r.JSON)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return "", fmt.Errorf("client: build %s %s: %w", r.Method, r.URL, err)
	}

	c.base.applyTo(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.Referer != "" {
		req.Header.Set("Referer", r.Referer)
	}
	for k, vs := range r.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("client: %s %s: %w", r.Method, r.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("client: read response of %s %s: %w", r.Method, r.URL, err)
	}
	return string(data), nil
}

// Jar exposes the cookie jar for introspection in tests.
func (c *Client) Jar() http.CookieJar {
	return c.httpClient.Jar
}

// Close releases transport resources by closing all idle connections. After
// Close returns the client must not be used.
func (c *Client) Close() {
	if t, ok := c.httpClient.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}
