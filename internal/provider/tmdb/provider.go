package tmdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/show-onboard/internal/provider"
	"github.com/ryanbradynd05/go-tmdb"
)

const (
	providerName = "tmdb"
	tvURLBase    = "https://www.themoviedb.org/tv/"
)

var languages = []string{"en", "de", "fr", "es", "it", "ja", "ko", "nl", "pt", "zh"}

// Provider implements the provider.Provider interface for TMDB
type Provider struct {
	client      TMDBClient
	language    string
	apiKey      string
	rateLimiter *rateLimiter
	config      map[string]interface{}
}

// TMDBClient is the subset of *tmdb.TMDb used for show searches
type TMDBClient interface {
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
}

// New creates a new TMDB provider instance
func New() *Provider {
	return &Provider{
		language: "en",
		config:   make(map[string]interface{}),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Description returns the provider description
func (p *Provider) Description() string {
	return "The Movie Database (TMDB)"
}

// Capabilities returns what this provider can do
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeMovie, provider.MediaTypeShow},
		RequiresAuth: true,
		Priority:     100,
	}
}

// ConfigSchema returns the configuration schema for this provider
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "TMDB API key (not the Read Access Token). Get it from themoviedb.org/settings/api",
				Sensitive:   true,
				Validation: &provider.ConfigFieldValidation{
					MinLength: 32,
					MaxLength: 32,
					Pattern:   "^[a-f0-9]{32}$",
				},
			},
			{
				Name:        "language",
				DisplayName: "Language",
				Type:        provider.ConfigFieldTypeSelect,
				Default:     "en",
				Description: "Fallback language when a search does not name one",
			},
		},
	}
}

// Configure applies configuration to the provider
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKey, ok := config["api_key"].(string)
	if !ok || strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("api_key is required")
	}

	p.config = config
	p.apiKey = strings.TrimSpace(apiKey)

	if language, ok := config["language"].(string); ok && language != "" {
		p.language = language
	}

	p.client = tmdb.Init(tmdb.Config{
		APIKey:   p.apiKey,
		Proxies:  nil,
		UseProxy: false,
	})

	p.rateLimiter = newRateLimiter(38, 10*time.Second) // 38 requests per 10 seconds

	return nil
}

// Languages returns the language codes TMDB can localize show titles into
func (p *Provider) Languages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string(nil), languages...), nil
}

// SearchShows searches TMDB's TV catalogue by name
func (p *Provider) SearchShows(ctx context.Context, request provider.SearchRequest) ([]provider.ShowResult, error) {
	if p.client == nil {
		return nil, fmt.Errorf("provider not configured")
	}

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "INVALID_REQUEST",
			Message:  "show search requires a name",
			Retry:    false,
		}
	}

	language := request.Language
	if language == "" {
		language = p.language
	}
	options := map[string]string{"language": language}

	if p.rateLimiter != nil {
		if err := p.rateLimiter.wait(ctx); err != nil {
			return nil, err
		}
	}

	results, err := p.client.SearchTv(name, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if results == nil || len(results.Results) == 0 {
		return nil, provider.NotFound(providerName, fmt.Sprintf("no results found for show: %s", request.Name))
	}

	shows := make([]provider.ShowResult, 0, len(results.Results))
	for _, show := range results.Results {
		if show.ID == 0 {
			continue
		}
		id := strconv.Itoa(show.ID)
		shows = append(shows, provider.ShowResult{
			ID:         id,
			Title:      show.Name,
			FirstAired: show.FirstAirDate,
			URLPrefix:  tvURLBase,
			URLSuffix:  id,
		})
	}

	return shows, nil
}

// mapError maps TMDB errors to provider errors
func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "AUTH_FAILED",
			Message:  "TMDB authentication failed: " + err.Error(),
			Retry:    false,
		}
	}
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "RATE_LIMITED",
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	}
	if strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "UNAVAILABLE",
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     "UNKNOWN",
		Message:  "TMDB error: " + err.Error(),
		Retry:    false,
	}
}
