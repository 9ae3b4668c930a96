package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/show-onboard/internal/core"
	"github.com/Digital-Shane/show-onboard/internal/provider"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const languagesCacheKey = "languages"

// releaseGroupsUnavailable is reported by backends without a release group source.
const releaseGroupsUnavailable = "unavailable"

// Local answers wizard calls in process using the registered metadata providers.
type Local struct {
	registry *provider.Registry
	cache    *cache.Cache
	logger   zerolog.Logger
}

// NewLocal builds a Local backend over the enabled providers in registry.
// Search and language responses are cached for ttl; ttl <= 0 disables caching.
func NewLocal(registry *provider.Registry, ttl time.Duration, logger zerolog.Logger) *Local {
	l := &Local{
		registry: registry,
		logger:   logger.With().Str("component", "indexer").Logger(),
	}
	if ttl > 0 {
		l.cache = cache.New(ttl, 10*time.Minute)
	}
	return l
}

// Indexers lists the enabled providers by key. When more than one is enabled
// the "all indexers" entry leads the list.
func (l *Local) Indexers() []Indexer {
	enabled := l.registry.Enabled()
	out := make([]Indexer, 0, len(enabled)+1)
	if len(enabled) > 1 {
		out = append(out, Indexer{Key: AllIndexers, Name: "All indexers"})
	}
	for _, entry := range enabled {
		out = append(out, Indexer{Key: entry.Key, Name: entry.Provider.Description()})
	}
	return out
}

// Languages merges the language lists of every enabled provider, keeping the
// first provider's order and appending codes the others add.
func (l *Local) Languages(ctx context.Context) (*LanguagesResponse, error) {
	if cached, ok := l.cacheGet(languagesCacheKey); ok {
		if resp, ok := cached.(*LanguagesResponse); ok {
			return resp, nil
		}
	}

	seen := make(map[string]bool)
	resp := &LanguagesResponse{Results: []string{}}
	for _, entry := range l.registry.Enabled() {
		codes, err := entry.Provider.Languages(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.logger.Warn().Err(err).Str("provider", entry.Name).Msg("Language list failed")
			continue
		}
		for _, code := range codes {
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			resp.Results = append(resp.Results, code)
		}
	}

	l.cacheSet(languagesCacheKey, resp)
	return resp, nil
}

// Search runs the request against one provider, or every enabled provider
// when request.Indexer is AllIndexers. A provider with no match contributes
// no rows; the search only fails when every queried provider failed.
func (l *Local) Search(ctx context.Context, request SearchRequest) (*SearchResponse, error) {
	term := strings.TrimSpace(request.Term)
	if term == "" {
		return &SearchResponse{Results: [][]json.RawMessage{}}, nil
	}

	var targets []provider.Registered
	if request.Indexer == AllIndexers {
		targets = l.registry.Enabled()
	} else {
		entry, ok := l.registry.ByKey(request.Indexer)
		if !ok {
			return nil, fmt.Errorf("indexer %d: %w", request.Indexer, ErrUnknownIndexer)
		}
		targets = []provider.Registered{*entry}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no indexers enabled: %w", ErrUnknownIndexer)
	}

	cacheKey := fmt.Sprintf("search:%d:%s:%s", request.Indexer, request.Language, core.FoldTerm(term))
	if cached, ok := l.cacheGet(cacheKey); ok {
		if resp, ok := cached.(*SearchResponse); ok {
			l.logger.Debug().Str("term", term).Int("indexer", request.Indexer).Msg("Search cache hit")
			return resp, nil
		}
	}

	found := make([][]provider.ShowResult, len(targets))
	failures := make([]error, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			shows, err := target.Provider.SearchShows(gctx, provider.SearchRequest{Name: term, Language: request.Language})
			switch {
			case err == nil:
				found[i] = shows
			case provider.IsNotFound(err):
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				l.logger.Warn().Err(err).Str("provider", target.Name).Str("term", term).Msg("Show search failed")
				failures[i] = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	if failed == len(targets) {
		return nil, fmt.Errorf("search %q: %w", term, failures[0])
	}

	labelled := request.Indexer == AllIndexers
	resp := &SearchResponse{Results: [][]json.RawMessage{}}
	for i, shows := range found {
		for _, show := range shows {
			row, err := encodeRow(targets[i], show, labelled)
			if err != nil {
				l.logger.Debug().Err(err).Str("provider", targets[i].Name).Msg("Skipping unencodable result")
				continue
			}
			resp.Results = append(resp.Results, row)
		}
	}

	l.logger.Info().Str("term", term).Int("indexer", request.Indexer).Int("results", len(resp.Results)).Msg("Show search completed")

	// Partial results are not cached so a failed provider is retried next time.
	if failed == 0 {
		l.cacheSet(cacheKey, resp)
	}
	return resp, nil
}

// SanitizeFileName returns the directory-safe form of name.
func (l *Local) SanitizeFileName(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return core.SanitizeFileName(name)
}

// ReleaseGroups always reports an unavailable result; no provider tracks
// release groups.
func (l *Local) ReleaseGroups(ctx context.Context, showName string) (*ReleaseGroupsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ReleaseGroupsResponse{Result: releaseGroupsUnavailable}, nil
}

// encodeRow renders one provider result as a positional search row.
func encodeRow(entry provider.Registered, show provider.ShowResult, labelled bool) ([]json.RawMessage, error) {
	var label any
	if labelled {
		label = entry.Provider.Description()
	}
	var start any
	if show.FirstAired != "" {
		start = show.FirstAired
	}

	fields := []any{label, entry.Key, show.URLPrefix, show.URLSuffix, show.Title, start}
	row := make([]json.RawMessage, len(fields))
	for i, field := range fields {
		raw, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		row[i] = raw
	}
	return row, nil
}

func (l *Local) cacheGet(key string) (interface{}, bool) {
	if l.cache == nil {
		return nil, false
	}
	return l.cache.Get(key)
}

func (l *Local) cacheSet(key string, value interface{}) {
	if l.cache != nil {
		l.cache.Set(key, value, cache.DefaultExpiration)
	}
}
