package tvdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/show-onboard/internal/provider"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

const (
	providerName  = "tvdb"
	seriesURLBase = "https://thetvdb.com/?tab=series&id="
)

// languages TVDB can translate series records into.
var languages = []string{"en", "de", "fr", "es", "it", "nl", "pt", "sv", "ja", "zh"}

// TVDBClient captures the dashotv client methods used by this provider.
type TVDBClient interface {
	GetSearchResults(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error)
}

// Provider implements the provider.Provider interface for TVDB.
type Provider struct {
	client TVDBClient
	apiKey string
	config map[string]interface{}

	login func(apiKey string) (TVDBClient, error)
}

// New creates a new TVDB provider instance.
func New() *Provider {
	return &Provider{
		config: make(map[string]interface{}),
		login: func(apiKey string) (TVDBClient, error) {
			return tvdbapi.Login(apiKey)
		},
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "TheTVDB"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeShow},
		RequiresAuth: true,
		Priority:     95,
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
				Description: "TVDB API key. Generate one from your thetvdb.com account dashboard",
				Sensitive:   true,
				Validation: &provider.ConfigFieldValidation{
					MinLength: 8,
					MaxLength: 128,
					Pattern:   "^[A-Za-z0-9-]+$",
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

	client, err := p.login(apiKey)
	if err != nil {
		return p.mapError(err)
	}

	p.apiKey = apiKey
	p.config = config
	p.client = client

	return nil
}

// Languages returns the language codes TVDB records are translated into.
// Search itself always matches on every translation.
func (p *Provider) Languages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string(nil), languages...), nil
}

// SearchShows returns every series record TVDB matches for the name, in
// TVDB's own relevance order.
func (p *Provider) SearchShows(ctx context.Context, request provider.SearchRequest) ([]provider.ShowResult, error) {
	if p.client == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(request.Name)
	if query == "" {
		return nil, &provider.ProviderError{Provider: providerName, Code: "INVALID_REQUEST", Message: "series search requires a title", Retry: false}
	}

	req := operations.GetSearchResultsRequest{Query: &query}
	typeSeries := "series"
	req.Type = &typeSeries

	resp, err := p.client.GetSearchResults(req)
	if err != nil {
		return nil, p.mapError(err)
	}

	// The SDK call is not context aware; honour a deadline that expired meanwhile.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Data) == 0 {
		return nil, provider.NotFound(providerName, fmt.Sprintf("no results found for show: %s", request.Name))
	}

	results := make([]provider.ShowResult, 0, len(resp.Data))
	for _, candidate := range resp.Data {
		if t := pointerToString(candidate.Type); t != "" && !strings.EqualFold(t, "series") {
			continue
		}
		record := toSearchRecord(candidate)
		if record.ID == 0 || record.Name == "" {
			continue
		}
		id := strconv.FormatInt(record.ID, 10)
		results = append(results, provider.ShowResult{
			ID:         id,
			Title:      record.Name,
			FirstAired: record.FirstAired,
			URLPrefix:  seriesURLBase,
			URLSuffix:  id,
		})
	}

	return results, nil
}

type searchRecord struct {
	ID         int64
	Name       string
	FirstAired string
}

func toSearchRecord(result shared.SearchResult) *searchRecord {
	id := parseInt64(pointerToString(result.TvdbID))
	if id == 0 {
		id = parseInt64(strings.TrimPrefix(pointerToString(result.ID), "series-"))
	}

	name := firstNonEmptyString(pointerToString(result.Name), pointerToString(result.NameTranslated), pointerToString(result.Title))

	return &searchRecord{ID: id, Name: name, FirstAired: pointerToString(result.Year)}
}

func pointerToString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func parseInt64(value string) int64 {
	parsed, _ := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return parsed
}

func firstNonEmptyString(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "401"), strings.Contains(lower, "unauthorized"), strings.Contains(lower, "apikey"):
		return &provider.ProviderError{Provider: providerName, Code: "AUTH_FAILED", Message: "TVDB authentication failed: " + msg, Retry: false}
	case strings.Contains(lower, "429"), strings.Contains(lower, "too many"):
		return &provider.ProviderError{Provider: providerName, Code: "RATE_LIMITED", Message: msg, Retry: true, RetryAfter: 5}
	case strings.Contains(lower, "404"), strings.Contains(lower, "not found"):
		return &provider.ProviderError{Provider: providerName, Code: "NOT_FOUND", Message: msg, Retry: false}
	case strings.Contains(lower, "503"), strings.Contains(lower, "unavailable"):
		return &provider.ProviderError{Provider: providerName, Code: "UNAVAILABLE", Message: msg, Retry: true, RetryAfter: 30}
	default:
		return &provider.ProviderError{Provider: providerName, Code: "UNKNOWN", Message: msg, Retry: false}
	}
}
