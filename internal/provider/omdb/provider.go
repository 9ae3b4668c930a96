package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/show-onboard/internal/provider"
)

const (
	providerName = "omdb"
	titleURLBase = "https://www.imdb.com/title/"
)

// Provider implements the provider.Provider interface for OMDb.
type Provider struct {
	client     *omdb.Client
	httpClient *http.Client
	apiKey     string
	baseURL    string
	config     map[string]interface{}
}

// New creates a new OMDb provider instance.
func New() *Provider {
	return &Provider{
		baseURL: omdb.DefaultURL,
		config:  make(map[string]interface{}),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "Open Movie Database (OMDb)"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeMovie, provider.MediaTypeShow},
		RequiresAuth: true,
		Priority:     90,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "OMDb API key. Request one from https://www.omdbapi.com/apikey.aspx",
				Sensitive:   true,
				Validation: &provider.ConfigFieldValidation{
					MinLength: 8,
					MaxLength: 64,
					Pattern:   "^[A-Za-z0-9]+$",
				},
			},
		},
	}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	// Allow overriding the HTTP client before configuration (useful for tests).
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	p.apiKey = apiKey
	p.config = config
	p.client = omdb.NewClient(p.apiKey, p.httpClient)

	return nil
}

// Languages reports the single language OMDb serves.
func (p *Provider) Languages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{"en"}, nil
}

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
}

type searchResponse struct {
	Search   []searchItem `json:"Search"`
	Response string       `json:"Response"`
	Error    string       `json:"Error"`
}

// SearchShows lists OMDb series matching the name. When the list search
// finds nothing, an exact title lookup is tried before giving up.
func (p *Provider) SearchShows(ctx context.Context, request provider.SearchRequest) ([]provider.ShowResult, error) {
	if p.client == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "INVALID_REQUEST",
			Message:  "show search requires a title",
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, err := p.search(ctx, name)
	if err != nil && !provider.IsNotFound(err) {
		return nil, err
	}

	if len(items) == 0 {
		return p.exactTitle(ctx, name)
	}

	results := make([]provider.ShowResult, 0, len(items))
	for _, item := range items {
		if item.ImdbID == "" || !strings.EqualFold(item.Type, "series") {
			continue
		}
		results = append(results, provider.ShowResult{
			ID:         item.ImdbID,
			Title:      item.Title,
			FirstAired: omdb.FirstYear(item.Year),
			URLPrefix:  titleURLBase,
			URLSuffix:  item.ImdbID,
		})
	}
	return results, nil
}

func (p *Provider) search(ctx context.Context, name string) ([]searchItem, error) {
	req, err := p.buildRequest(ctx, map[string]string{"s": name, "type": "series"})
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, p.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, p.mapError(errors.New("invalid api key"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, p.mapError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, p.mapError(fmt.Errorf("decode search response: %w", err))
	}
	if !strings.EqualFold(body.Response, "true") {
		return nil, p.mapError(errors.New(body.Error))
	}
	return body.Search, nil
}

func (p *Provider) exactTitle(ctx context.Context, name string) ([]provider.ShowResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.client.SearchByTitle(omdb.QueryData{
		Title:      name,
		SearchType: "series",
	})
	if err != nil {
		return nil, p.mapError(err)
	}

	var series omdb.SeriesResult
	switch r := result.(type) {
	case omdb.SeriesResult:
		series = r
	case *omdb.SeriesResult:
		series = *r
	default:
		return nil, provider.NotFound(providerName, fmt.Sprintf("no results found for show: %s", name))
	}
	if series.ImdbID == "" {
		return nil, provider.NotFound(providerName, fmt.Sprintf("no results found for show: %s", name))
	}

	return []provider.ShowResult{{
		ID:         series.ImdbID,
		Title:      series.Title,
		FirstAired: omdb.FirstYear(series.Year),
		URLPrefix:  titleURLBase,
		URLSuffix:  series.ImdbID,
	}}, nil
}

func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "AUTH_FAILED",
			Message:  "OMDb authentication failed: " + msg,
			Retry:    false,
		}
	case strings.Contains(lower, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  msg,
			Retry:    false,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "RATE_LIMITED",
			Message:    msg,
			Retry:      true,
			RetryAfter: 5,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "UNKNOWN",
			Message:  msg,
			Retry:    false,
		}
	}
}

// buildRequest constructs an HTTP request with common parameters applied.
func (p *Provider) buildRequest(ctx context.Context, params map[string]string) (*http.Request, error) {
	if p.httpClient == nil {
		return nil, fmt.Errorf("http client not configured")
	}

	values := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	values.Set("apikey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = values.Encode()
	return req, nil
}
