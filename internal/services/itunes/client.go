package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"muselink/internal/latex"
	"muselink/internal/services"
	"muselink/internal/textutil"
)

const (
	// DefaultBaseURL is the public iTunes Search API endpoint.
	DefaultBaseURL = "https://itunes.apple.com/search"

	defaultHTTPTimeout = 10 * time.Second
	defaultRetries     = 3
	defaultBackoffBase = 500 * time.Millisecond
	defaultCountry     = "us"
	defaultLimit       = 10
)

// Config captures the runtime settings for catalog search.
type Config struct {
	BaseURL        string
	Country        string
	Limit          int
	Retries        int
	BackoffBase    time.Duration
	TimeoutSeconds int
}

// Client queries the iTunes Search API and scores the results against the
// requested title and artist.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleeper    func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how retry backoff sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a search client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = defaultCountry
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaultRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Result is the outcome of a platform resolution attempt. Failures are
// reported in-band: a zero Confidence with an empty URL, never an error,
// so one unresolvable entity cannot abort the pipeline.
type Result struct {
	Platform   string
	URL        string
	Confidence float64
	Raw        json.RawMessage
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	CollectionName    string `json:"collectionName"`
	TrackName         string `json:"trackName"`
	ArtistName        string `json:"artistName"`
	CollectionViewURL string `json:"collectionViewUrl"`
	TrackViewURL      string `json:"trackViewUrl"`
	ReleaseDate       string `json:"releaseDate"`
}

var releaseYearPattern = regexp.MustCompile(`^(\d{4})`)

// Resolve maps the entity's descriptive metadata to a canonical platform
// URL. The only error it returns is for an unsupported kind; transport
// failures, empty result sets, and missing URL fields all come back as a
// zero-confidence Result.
func (c *Client) Resolve(ctx context.Context, name, artist string, kind latex.Kind, year int) (Result, error) {
	if !kind.Valid() {
		return Result{}, services.Wrap(services.ErrConfiguration, "itunes", "resolve", fmt.Sprintf("unsupported kind %q", kind), nil)
	}

	entity := "song"
	if kind == latex.KindAlbum {
		entity = "album"
	}
	term := strings.TrimSpace(name + " " + artist)

	query := url.Values{}
	query.Set("term", term)
	query.Set("entity", entity)
	query.Set("country", c.cfg.Country)
	query.Set("limit", strconv.Itoa(c.cfg.Limit))

	body, err := c.searchWithRetry(ctx, query)
	if err != nil {
		return Result{Raw: json.RawMessage(fmt.Sprintf(`{"error":%q}`, err.Error()))}, nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{Raw: json.RawMessage(fmt.Sprintf(`{"error":"decode response: %s"}`, err.Error()))}, nil
	}
	if len(parsed.Results) == 0 {
		return Result{Raw: body}, nil
	}

	best, score := bestMatch(parsed.Results, name, artist, kind, year)
	viewURL := best.CollectionViewURL
	if kind == latex.KindTrack {
		viewURL = best.TrackViewURL
	}
	if viewURL == "" {
		return Result{Raw: body}, nil
	}

	return Result{
		Platform:   "apple_music",
		URL:        viewURL,
		Confidence: clamp01(score),
		Raw:        body,
	}, nil
}

// searchWithRetry issues the GET request, retrying transport failures with
// exponential backoff. Empty result sets are not retried; they come back
// as a successful response body.
func (c *Client) searchWithRetry(ctx context.Context, query url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.Retries; attempt++ {
		body, err := c.searchOnce(ctx, query)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.cfg.Retries-1 {
			break
		}
		c.sleep(ctx, c.cfg.BackoffBase*(1<<attempt))
	}
	return nil, fmt.Errorf("search failed after %d attempts: %w", c.cfg.Retries, lastErr)
}

func (c *Client) searchOnce(ctx context.Context, query url.Values) ([]byte, error) {
	endpoint := c.cfg.BaseURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("itunes request: new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("itunes request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("itunes request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("itunes request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// bestMatch scores every result and returns the first maximum. Exact
// normalized title matches score 0.6, substring matches (either direction)
// 0.3, an artist substring match adds 0.3, and a year hint adds 0.2 for an
// exact match or 0.1 for a one-year difference.
func bestMatch(results []searchResult, name, artist string, kind latex.Kind, year int) (searchResult, float64) {
	normName := textutil.NormalizeForMatch(name)
	normArtist := textutil.NormalizeForMatch(artist)

	var best searchResult
	bestScore := -1.0
	for _, item := range results {
		title := item.CollectionName
		if kind == latex.KindTrack {
			title = item.TrackName
		}
		itemTitle := textutil.NormalizeForMatch(title)
		itemArtist := textutil.NormalizeForMatch(item.ArtistName)

		score := 0.0
		switch {
		case itemTitle == normName:
			score += 0.6
		case itemTitle != "" && (strings.Contains(itemTitle, normName) || strings.Contains(normName, itemTitle)):
			score += 0.3
		}
		if normArtist != "" && strings.Contains(itemArtist, normArtist) {
			score += 0.3
		}
		if year > 0 {
			if m := releaseYearPattern.FindStringSubmatch(item.ReleaseDate); m != nil {
				itemYear, _ := strconv.Atoi(m[1])
				diff := itemYear - year
				if diff < 0 {
					diff = -diff
				}
				switch diff {
				case 0:
					score += 0.2
				case 1:
					score += 0.1
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = item
		}
	}
	return best, bestScore
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
