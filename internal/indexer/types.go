package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// AllIndexers is the indexer key that fans a search out to every enabled indexer.
const AllIndexers = 0

// ErrUnknownIndexer is returned when a request names an indexer key that is not registered.
var ErrUnknownIndexer = errors.New("unknown indexer")

// Indexer describes one selectable metadata source.
type Indexer struct {
	Key  int
	Name string
}

// SearchRequest carries the parameters of a show-name search.
type SearchRequest struct {
	Term     string
	Language string
	Indexer  int
}

// SearchResponse is the wire shape of a show-name search. Each result row is a
// positional array: [databaseLabel|null, indexerKey, urlPrefix, urlSuffix,
// displayName, startDate|null].
type SearchResponse struct {
	Results [][]json.RawMessage `json:"results"`
	LangID  FlexString          `json:"langid,omitempty"`
}

// LanguagesResponse lists the language codes an indexer can search in.
type LanguagesResponse struct {
	Results []string `json:"results"`
}

// ReleaseGroup is one fansub/release group known for a show.
type ReleaseGroup struct {
	Name   string     `json:"name"`
	Rating FlexString `json:"rating"`
	Range  string     `json:"range"`
}

// ReleaseGroupsResponse is the wire shape of a release group lookup.
type ReleaseGroupsResponse struct {
	Result string         `json:"result"`
	Groups []ReleaseGroup `json:"groups"`
}

// ResultSuccess is the only release group result value that carries groups.
const ResultSuccess = "success"

// Service is the set of collaborator calls the add-show wizard depends on.
type Service interface {
	Indexers() []Indexer
	Languages(ctx context.Context) (*LanguagesResponse, error)
	Search(ctx context.Context, request SearchRequest) (*SearchResponse, error)
	SanitizeFileName(ctx context.Context, name string) (string, error)
	ReleaseGroups(ctx context.Context, showName string) (*ReleaseGroupsResponse, error)
}

// Submitter posts a completed add-show form to the show-creation endpoint.
type Submitter interface {
	AddShow(ctx context.Context, form url.Values) error
}

// IndexerName returns the display name registered for key, or the key itself.
func IndexerName(svc interface{ Indexers() []Indexer }, key int) string {
	if svc != nil {
		for _, idx := range svc.Indexers() {
			if idx.Key == key {
				return idx.Name
			}
		}
	}
	return strconv.Itoa(key)
}

// FlexString decodes a JSON string, number or null into a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the decoded value.
func (f FlexString) String() string { return string(f) }
