// Package qloo implements the client for the Qloo taste-intelligence API.
// Trending lookups combine curated seed searches with insights enhancement;
// every call is rate limited and absorbs partial failures so callers see a
// best-effort entity list rather than an error per flaky upstream response.
package qloo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"trendletter/internal/core"
	"trendletter/internal/logger"
)

const (
	// DefaultBaseURL is the hackathon API host the service was built against.
	DefaultBaseURL = "https://hackathon.api.qloo.com"

	defaultTimeout = 15 * time.Second
	maxEntities    = 10
)

// Client talks to the Qloo API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the minimum interval between API requests.
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(interval), 1) }
}

// NewClient creates a Qloo client. An empty baseURL falls back to the
// default host.
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResult struct {
	Results []core.TrendEntity `json:"results"`
}

type insightsResult struct {
	Results []core.TrendEntity `json:"results"`
}

type demographicsResult struct {
	Results []core.Demographic `json:"results"`
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qloo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("qloo api error: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode qloo response: %w", err)
	}
	return nil
}

// Search looks an entity up by free-text query and returns the best match,
// or nil when nothing matched.
func (c *Client) Search(ctx context.Context, query string) (*core.TrendEntity, error) {
	u := c.baseURL + "/search?query=" + url.QueryEscape(query)
	var result searchResult
	if err := c.get(ctx, u, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	return &result.Results[0], nil
}

// entityFilters maps category names to insights entity filter types.
var entityFilters = map[string]string{
	"artists":  "urn:entity:artist",
	"movies":   "urn:entity:movie",
	"tv_shows": "urn:entity:tv_show",
	"books":    "urn:entity:book",
}

func filterType(category string) string {
	if f, ok := entityFilters[category]; ok {
		return f
	}
	return "urn:entity:movie"
}

// TrendingByCategory returns up to ten candidate entities for a category.
// It searches a sample of curated seed queries, then tries to enhance the
// result with the insights API (optionally location-biased). Individual
// lookup failures are logged and skipped; an error is returned only when no
// entity could be gathered at all.
func (c *Client) TrendingByCategory(ctx context.Context, category string, prefs *core.Preferences) ([]core.TrendEntity, error) {
	queries, sample := seedQueries(category)

	entities := make([]core.TrendEntity, 0, sample)
	var lastErr error
	for _, q := range sampleQueries(queries, sample) {
		entity, err := c.Search(ctx, q)
		if err != nil {
			lastErr = err
			logger.Debug("Seed search failed", "category", category, "query", q, "error", err.Error())
			continue
		}
		if entity != nil {
			entities = append(entities, *entity)
		}
	}

	if len(entities) > 0 {
		if enhanced, err := c.insightsEnhance(ctx, category, prefs); err != nil {
			logger.Warn("Insights enhancement failed, using search results", "category", category, "error", err.Error())
		} else if len(enhanced) > 0 {
			head := enhanced
			if len(head) > 5 {
				head = head[:5]
			}
			tail := entities
			if len(tail) > 5 {
				tail = tail[:5]
			}
			entities = append(head, tail...)
		}
	}

	if len(entities) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("no trending entities for %s: %w", category, lastErr)
		}
		return nil, fmt.Errorf("no trending entities for %s", category)
	}
	if len(entities) > maxEntities {
		entities = entities[:maxEntities]
	}
	return entities, nil
}

func (c *Client) insightsEnhance(ctx context.Context, category string, prefs *core.Preferences) ([]core.TrendEntity, error) {
	params := url.Values{}
	params.Set("filter.type", filterType(category))
	params.Set("limit", "10")
	if prefs != nil && prefs.Location != "" {
		params.Set("signal.location.query", prefs.Location)
	}
	var result insightsResult
	if err := c.get(ctx, c.baseURL+"/v2/insights?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Demographics returns audience-affinity signals for an entity.
func (c *Client) Demographics(ctx context.Context, entityID string) ([]core.Demographic, error) {
	params := url.Values{}
	params.Set("filter.type", "urn:demographics")
	params.Set("signal.interests.entities", entityID)
	var result demographicsResult
	if err := c.get(ctx, c.baseURL+"/v2/insights?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Recommendations returns personalized entities for a category using the
// caller's interest, location, demographic and tag signals.
func (c *Client) Recommendations(ctx context.Context, category string, prefs *core.Preferences, limit int) ([]core.TrendEntity, error) {
	if limit <= 0 {
		limit = maxEntities
	}
	params := url.Values{}
	params.Set("filter.type", filterType(category))
	params.Set("limit", strconv.Itoa(limit))
	if prefs != nil {
		if len(prefs.Interests) > 0 {
			params.Set("signal.interests.entities", joinComma(prefs.Interests))
		}
		if prefs.Location != "" {
			params.Set("signal.location.query", prefs.Location)
		}
		if len(prefs.Demographics) > 0 {
			params.Set("signal.demographics.audiences", joinComma(prefs.Demographics))
		}
		if len(prefs.Tags) > 0 {
			params.Set("signal.interests.tags", joinComma(prefs.Tags))
		}
	}
	var result insightsResult
	if err := c.get(ctx, c.baseURL+"/v2/insights?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func joinComma(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ","
		}
		out += v
	}
	return out
}

// sampleQueries returns up to n queries in randomized order for variety
// across generation runs.
func sampleQueries(queries []string, n int) []string {
	shuffled := make([]string, len(queries))
	copy(shuffled, queries)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}
