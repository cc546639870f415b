package songlink

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultRedirectorPrefix is prepended to a platform URL to build the
	// song.link redirector request.
	DefaultRedirectorPrefix = "https://song.link/"

	// notFoundFragment marks a redirect target that song.link could not
	// resolve; such a target is a failure, not a smart link.
	notFoundFragment = "not-found"

	defaultHTTPTimeout = 10 * time.Second
)

// Client resolves platform URLs into cross-platform smart links by reading
// the redirect target song.link serves, without following it.
type Client struct {
	prefix     string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Redirect following is
// disabled on a copy of the supplied client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			clone := *client
			c.httpClient = &clone
		}
	}
}

// WithRedirectorPrefix overrides the redirector endpoint (useful for tests).
func WithRedirectorPrefix(prefix string) Option {
	return func(c *Client) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewClient constructs a smart-link resolver.
func NewClient(opts ...Option) *Client {
	client := &Client{
		prefix:     DefaultRedirectorPrefix,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

// Result is the outcome of a smart-link resolution attempt. Failures are
// reported through Err with an empty SmartLinkURL; Resolve itself never
// returns a Go error.
type Result struct {
	SmartLinkURL  string
	RedirectorURL string
	Err           string
}

// Resolve maps a platform URL to its smart link by issuing a request to
// the redirector and reading the Location header of the response.
func (c *Client) Resolve(ctx context.Context, platformURL string) Result {
	redirectorURL := c.prefix + platformURL
	result := Result{RedirectorURL: redirectorURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redirectorURL, nil)
	if err != nil {
		result.Err = fmt.Sprintf("build request: %s", err)
		return result
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = fmt.Sprintf("network failure: %s", err)
		return result
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if location == "" {
		result.Err = "no Location header in redirect response"
		return result
	}
	if strings.Contains(location, notFoundFragment) {
		result.Err = fmt.Sprintf("redirect target is %s: %s", notFoundFragment, location)
		return result
	}

	result.SmartLinkURL = location
	return result
}
