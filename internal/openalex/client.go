// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex is a rate-limited client for the OpenAlex API. It serves
// as the bibliographic graph API for citation expansion, the title search
// used to rescue missing DOIs, the author h-index lookup used for author
// authority, and the OpenAlex search source.
package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paperrank/internal/httputil"
	"github.com/pdiddy/paperrank/internal/identity"
	"github.com/pdiddy/paperrank/pkg/types"
)

const (
	// BaseURL is the OpenAlex API root.
	BaseURL = "https://api.openalex.org"

	// DefaultRateLimit keeps well inside the polite pool limit.
	DefaultRateLimit = 5.0

	// citingPageSize is the page size for incoming-citation queries.
	citingPageSize = 200

	maxRetries = 2

	workFields   = "id,doi,title,publication_year,primary_location,authorships,cited_by_count,referenced_works,best_oa_location"
	citingFields = "id,doi,referenced_works"
)

// Client talks to OpenAlex.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	email      string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEmail sets the mailto address for polite pool access.
func WithEmail(email string) Option {
	return func(c *Client) { c.email = email }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit sets the request rate. Zero or less disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewClient creates an OpenAlex client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    BaseURL,
		userAgent:  "paperrank/0.1",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WorksByDOIs returns the works with the given DOIs, including their
// referenced work identifiers.
func (c *Client) WorksByDOIs(ctx context.Context, dois []string) ([]types.Work, error) {
	var filter []string
	for _, d := range dois {
		if n := identity.NormalizeDOI(d); n != "" {
			filter = append(filter, "https://doi.org/"+n)
		}
	}
	if len(filter) == 0 {
		return nil, nil
	}
	return c.works(ctx, url.Values{
		"filter":   {"doi:" + strings.Join(filter, "|")},
		"per-page": {strconv.Itoa(len(filter))},
		"select":   {workFields},
	})
}

// WorksByIDs returns the works with the given OpenAlex identifiers.
func (c *Client) WorksByIDs(ctx context.Context, ids []string) ([]types.Work, error) {
	var filter []string
	for _, id := range ids {
		if s := ShortID(id); s != "" {
			filter = append(filter, s)
		}
	}
	if len(filter) == 0 {
		return nil, nil
	}
	return c.works(ctx, url.Values{
		"filter":   {"openalex_id:" + strings.Join(filter, "|")},
		"per-page": {strconv.Itoa(len(filter))},
		"select":   {workFields},
	})
}

// CitingWorks returns the first page of works that reference any of ids.
func (c *Client) CitingWorks(ctx context.Context, ids []string) ([]types.Work, error) {
	var filter []string
	for _, id := range ids {
		if s := ShortID(id); s != "" {
			filter = append(filter, s)
		}
	}
	if len(filter) == 0 {
		return nil, nil
	}
	return c.works(ctx, url.Values{
		"filter":   {"referenced_works:" + strings.Join(filter, "|")},
		"per-page": {strconv.Itoa(citingPageSize)},
		"select":   {citingFields},
	})
}

// Search runs a relevance search over works.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]types.Work, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}
	limit = max(1, min(limit, 200))
	return c.works(ctx, url.Values{
		"search":   {query},
		"per-page": {strconv.Itoa(limit)},
		"select":   {workFields},
	})
}

// DOIForTitle returns the DOI of the first work whose title matches title,
// or "" when there is none.
func (c *Client) DOIForTitle(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(strings.ReplaceAll(title, ",", " "))
	if title == "" {
		return "", nil
	}
	works, err := c.works(ctx, url.Values{
		"filter":   {"title.search:" + title},
		"per-page": {"1"},
		"select":   {"id,doi"},
	})
	if err != nil {
		return "", err
	}
	if len(works) == 0 {
		return "", nil
	}
	return identity.NormalizeDOI(works[0].DOI), nil
}

// Authority returns the h-index of the best match for an author name, or 0
// when no author matches.
func (c *Client) Authority(ctx context.Context, author string) (int, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return 0, nil
	}
	var resp authorsResponse
	err := c.get(ctx, "/authors", url.Values{
		"search":   {author},
		"per-page": {"1"},
	}, &resp)
	if err != nil {
		return 0, err
	}
	if len(resp.Results) == 0 {
		return 0, nil
	}
	return max(0, resp.Results[0].SummaryStats.HIndex), nil
}

func (c *Client) works(ctx context.Context, params url.Values) ([]types.Work, error) {
	var resp worksResponse
	if err := c.get(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}
	out := make([]types.Work, 0, len(resp.Results))
	for _, w := range resp.Results {
		out = append(out, w.toWork())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("openalex rate limit: %w", err)
	}
	if c.email != "" {
		params.Set("mailto", c.email)
	}
	reqURL := c.baseURL + path + "?" + params.Encode()
	headers := map[string]string{"User-Agent": c.userAgent}
	if err := httputil.GetJSON(ctx, c.httpClient, reqURL, headers, maxRetries, out); err != nil {
		return fmt.Errorf("openalex %s: %w", path, err)
	}
	return nil
}

// ShortID strips the "https://openalex.org/" prefix from an identifier.
func ShortID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return id
}
