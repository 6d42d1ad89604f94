package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Error definitions for the wiki client.
var (
	ErrPageMissing  = errors.New("wiki: page does not exist")
	ErrEmptySite    = errors.New("wiki: site must not be empty")
	ErrBadStatus    = errors.New("wiki: unexpected HTTP status")
	ErrAPIError     = errors.New("wiki: API returned an error")
	ErrEmptyContent = errors.New("wiki: API response contained no pages")
)

const (
	apiPath        = "/w/api.php"
	defaultTimeout = 30 * time.Second

	// revisionBatchMax asks the API for the largest batch an anonymous
	// client is allowed (500 revisions per request).
	revisionBatchMax = "max"
)

// Client talks to one MediaWiki site.
type Client struct {
	site       string
	userAgent  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the structured logger used for fetch progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBaseURL overrides the API endpoint URL. Intended for tests against
// local HTTP servers.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a client for the given site hostname, e.g.
// "en.wikipedia.org". The user agent is sent on every request; Wikimedia
// blocks generic agents, so callers should supply a descriptive one.
func NewClient(site, userAgent string, opts ...Option) (*Client, error) {
	if site == "" {
		return nil, ErrEmptySite
	}

	client := &Client{
		site:       site,
		userAgent:  userAgent,
		baseURL:    "https://" + site + apiPath,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Site returns the hostname this client talks to.
func (c *Client) Site() string {
	return c.site
}

// apiResponse mirrors the subset of the query API response we consume
// (formatversion=2).
type apiResponse struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
	Continue struct {
		RvContinue string `json:"rvcontinue"`
	} `json:"continue"`
	Query struct {
		Pages []struct {
			Title     string     `json:"title"`
			Missing   bool       `json:"missing"`
			Revisions []Revision `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

// Revisions fetches the full revision history of the titled page, oldest
// first, following continuation tokens until the history is exhausted.
// A missing page yields ErrPageMissing before any revision is returned.
func (c *Client) Revisions(ctx context.Context, title string) (*PageHistory, error) {
	history := &PageHistory{Title: title}
	rvContinue := ""

	for batch := 1; ; batch++ {
		resp, err := c.queryRevisions(ctx, title, rvContinue)
		if err != nil {
			return nil, err
		}

		if resp.Error != nil {
			return nil, fmt.Errorf("%w: %s (%s)", ErrAPIError, resp.Error.Info, resp.Error.Code)
		}

		if len(resp.Query.Pages) == 0 {
			return nil, ErrEmptyContent
		}

		page := resp.Query.Pages[0]
		if page.Missing {
			return nil, fmt.Errorf("%w: %q", ErrPageMissing, title)
		}

		if page.Title != "" {
			history.Title = page.Title
		}

		history.Revisions = append(history.Revisions, page.Revisions...)

		c.logger.Debug("fetched revision batch",
			"site", c.site, "title", history.Title,
			"batch", batch, "revisions", len(history.Revisions))

		if resp.Continue.RvContinue == "" {
			break
		}

		rvContinue = resp.Continue.RvContinue
	}

	return history, nil
}

func (c *Client) queryRevisions(ctx context.Context, title, rvContinue string) (*apiResponse, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "revisions")
	params.Set("titles", title)
	params.Set("rvprop", "user|size")
	params.Set("rvdir", "newer")
	params.Set("rvlimit", revisionBatchMax)

	if rvContinue != "" {
		params.Set("rvcontinue", rvContinue)
	}

	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.site, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var decoded apiResponse

	err = json.Unmarshal(body, &decoded)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &decoded, nil
}
