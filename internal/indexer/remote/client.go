// Package remote talks to a show server's add-show web endpoints.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/show-onboard/internal/indexer"
	"github.com/rs/zerolog"
)

const (
	languagesPath     = "/home/addShows/getIndexerLanguages"
	searchPath        = "/home/addShows/searchIndexersForShowName"
	sanitizePath      = "/home/addShows/sanitizeFileName"
	releaseGroupsPath = "/home/fetch_releasegroups"
	addShowPath       = "/home/addShows/addNewShow"

	apiKeyHeader = "X-Api-Key"
)

// ErrUnexpectedStatus wraps non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// DefaultIndexers are the indexers a server offers when none are configured.
var DefaultIndexers = []indexer.Indexer{
	{Key: 1, Name: "TheTVDB"},
	{Key: 2, Name: "TVRage"},
}

// Config configures a Client.
type Config struct {
	BaseURL  string
	APIKey   string
	Indexers []indexer.Indexer
	// Timeout bounds requests whose context carries no deadline. A caller's
	// deadline always takes precedence.
	Timeout time.Duration
}

// Client implements indexer.Service and indexer.Submitter over HTTP.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	apiKey     string
	indexers   []indexer.Indexer
	logger     zerolog.Logger
}

// NewClient creates a client for the server at cfg.BaseURL.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	indexers := cfg.Indexers
	if len(indexers) == 0 {
		indexers = DefaultIndexers
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		indexers:   append([]indexer.Indexer(nil), indexers...),
		logger:     logger.With().Str("component", "remote").Logger(),
	}
}

// Timeout returns the deadline applied to requests without one.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Indexers returns the indexers the server is known to offer.
func (c *Client) Indexers() []indexer.Indexer {
	return append([]indexer.Indexer(nil), c.indexers...)
}

// Languages fetches the indexer language list.
func (c *Client) Languages(ctx context.Context) (*indexer.LanguagesResponse, error) {
	var resp indexer.LanguagesResponse
	if err := c.getJSON(ctx, languagesPath, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search asks the server to search its indexers for a show name.
func (c *Client) Search(ctx context.Context, request indexer.SearchRequest) (*indexer.SearchResponse, error) {
	params := url.Values{}
	params.Set("search_term", request.Term)
	params.Set("lang", request.Language)
	params.Set("indexer", strconv.Itoa(request.Indexer))

	var resp indexer.SearchResponse
	if err := c.getJSON(ctx, searchPath, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SanitizeFileName returns the server's directory-safe form of name. The
// endpoint answers with plain text.
func (c *Client) SanitizeFileName(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("name", name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	resp, err := c.do(ctx, http.MethodGet, sanitizePath, params, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// ReleaseGroups fetches the release groups known for a show.
func (c *Client) ReleaseGroups(ctx context.Context, showName string) (*indexer.ReleaseGroupsResponse, error) {
	params := url.Values{}
	params.Set("show_name", showName)

	var resp indexer.ReleaseGroupsResponse
	if err := c.getJSON(ctx, releaseGroupsPath, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddShow posts the add-show form.
func (c *Client) AddShow(ctx context.Context, form url.Values) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	resp, err := c.do(ctx, http.MethodPost, addShowPath, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	resp, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// withTimeout bounds ctx by the client timeout unless it already has a
// deadline.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// do sends a request and returns the response when the status is 2xx.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("Server returned error status")
		return nil, fmt.Errorf("%s: %w %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp, nil
}
