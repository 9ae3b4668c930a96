package provider

import (
	"context"
)

// MediaType represents the type of media content
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

// Provider is the main interface that all show indexers must implement
type Provider interface {
	// Identification
	Name() string
	Description() string

	// Capability discovery
	Capabilities() ProviderCapabilities

	// Configuration
	Configure(config map[string]interface{}) error
	ConfigSchema() ConfigSchema

	// Data fetching
	Languages(ctx context.Context) ([]string, error)
	SearchShows(ctx context.Context, request SearchRequest) ([]ShowResult, error)
}

// ProviderCapabilities describes what a provider can do
type ProviderCapabilities struct {
	MediaTypes   []MediaType // What media types are supported
	RequiresAuth bool        // Whether authentication is required
	Priority     int         // Default priority for this provider (higher = preferred)
}

// ConfigSchema describes the configuration requirements for a provider
type ConfigSchema struct {
	Fields []ConfigField
}

// ConfigField describes a single configuration field
type ConfigField struct {
	Name        string                 // Field name
	DisplayName string                 // Human-readable name
	Type        ConfigFieldType        // Field type
	Required    bool                   // Whether this field is required
	Default     interface{}            // Default value
	Description string                 // Help text
	Validation  *ConfigFieldValidation // Validation rules
	Sensitive   bool                   // Whether this contains sensitive data (for masking)
}

// ConfigFieldType represents the type of a configuration field
type ConfigFieldType string

const (
	ConfigFieldTypeInt      ConfigFieldType = "int"
	ConfigFieldTypeBool     ConfigFieldType = "bool"
	ConfigFieldTypeSelect   ConfigFieldType = "select"
	ConfigFieldTypePassword ConfigFieldType = "password"
)

// ConfigFieldValidation contains validation rules for a field
type ConfigFieldValidation struct {
	MinLength int    // Minimum string length
	MaxLength int    // Maximum string length
	Pattern   string // Regex pattern
	MinValue  int    // Minimum numeric value
	MaxValue  int    // Maximum numeric value
}

// SearchRequest represents a show-name search against one provider
type SearchRequest struct {
	Name     string
	Language string
}

// ShowResult is one show match returned by a provider, in provider order.
type ShowResult struct {
	ID         string
	Title      string
	FirstAired string // YYYY-MM-DD, a bare year, or empty when unannounced
	URLPrefix  string // detail page URL up to the ID
	URLSuffix  string // usually the provider ID
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Message
}

// NotFound builds the NOT_FOUND error providers return for empty searches.
func NotFound(providerName, message string) *ProviderError {
	return &ProviderError{Provider: providerName, Code: "NOT_FOUND", Message: message, Retry: false}
}

// IsNotFound reports whether err is a provider NOT_FOUND error.
func IsNotFound(err error) bool {
	pe, ok := err.(*ProviderError)
	return ok && pe.Code == "NOT_FOUND"
}
