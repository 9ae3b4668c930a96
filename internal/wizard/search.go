package wizard

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Digital-Shane/show-onboard/internal/indexer"
)

const (
	msgTimedOut  = "search timed out, try again or try another database"
	msgNoResults = "Sorry, no results found. Try a different search."
)

// SearchStatus describes what the result surface shows.
type SearchStatus int

const (
	SearchIdle SearchStatus = iota
	SearchPending
	SearchDone
	SearchEmpty
	SearchFailed
)

// SearchQuery is one dispatched search.
type SearchQuery struct {
	Term     string
	Language string
	Indexer  int
}

// ResultRow is one rendered candidate.
type ResultRow struct {
	Candidate  Candidate
	DetailURL  string
	DatePhrase string
	Tag        string
	SelectHelp string
	LinkHelp   string
}

// Results is the search result surface.
type Results struct {
	Status SearchStatus
	// Message is the searching placeholder or a terminal notice.
	Message string
	Legend  string
	Rows    []ResultRow
	// Selected is the index of the chosen row, or -1.
	Selected int
	Query    SearchQuery
}

// SearchOutcome reports a resolved search to Options.OnSearchComplete.
type SearchOutcome struct {
	Query   SearchQuery
	Results int
	Err     error
}

type searchSession struct {
	gen    uint64
	cancel context.CancelFunc
	query  SearchQuery
}

// cancelPending aborts the outstanding request, if any.
func (s *searchSession) cancelPending() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

type searchResultMsg struct {
	gen   uint64
	query SearchQuery
	resp  *indexer.SearchResponse
	err   error
}

// SearchCurrent searches with the current term, language and indexer.
func (c *Controller) SearchCurrent() tea.Cmd {
	return c.Search(c.nameToSearch, c.languages.selected, c.indexerKey)
}

// Search supersedes any outstanding search with a new one and clears the
// previous results. An empty term is ignored and leaves the result surface
// untouched.
func (c *Controller) Search(term, language string, indexerKey int) tea.Cmd {
	if term == "" || c.svc == nil {
		return nil
	}

	c.search.cancelPending()
	c.search.gen++
	query := SearchQuery{Term: term, Language: language, Indexer: indexerKey}
	c.search.query = query

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.search.cancel = cancel

	// The placeholder replaces the previous rows, so their selection goes too.
	c.results = Results{
		Status:   SearchPending,
		Message:  fmt.Sprintf("searching %s on %s in %s...", term, indexer.IndexerName(c.svc, indexerKey), language),
		Selected: -1,
		Query:    query,
	}

	gen := c.search.gen
	svc := c.svc
	request := indexer.SearchRequest{Term: term, Language: language, Indexer: indexerKey}
	return tea.Batch(func() tea.Msg {
		resp, err := svc.Search(ctx, request)
		return searchResultMsg{gen: gen, query: query, resp: resp, err: err}
	}, c.recompute(false))
}

// Searching reports whether a search is outstanding.
func (c *Controller) Searching() bool {
	return c.results.Status == SearchPending
}

func (c *Controller) handleSearchResult(msg searchResultMsg) tea.Cmd {
	if msg.gen != c.search.gen {
		c.logger.Debug().Str("term", msg.query.Term).Msg("Dropping superseded search response")
		return nil
	}
	c.search.cancelPending()

	if msg.err == nil && msg.resp == nil {
		msg.err = errors.New("empty search response")
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			c.results.Status = SearchIdle
			c.results.Message = ""
			return nil
		}
		c.logger.Debug().Err(msg.err).Str("term", msg.query.Term).Msg("Search failed")
		c.results = Results{Status: SearchFailed, Message: msgTimedOut, Selected: -1, Query: msg.query}
		c.reportSearch(SearchOutcome{Query: msg.query, Err: msg.err})
		return c.recompute(false)
	}

	candidates, skipped := DecodeCandidates(msg.resp.Results)
	for _, err := range skipped {
		c.logger.Warn().Err(err).Str("term", msg.query.Term).Msg("Skipping search result")
	}

	langID := msg.resp.LangID.String()
	now := c.now()
	rows := make([]ResultRow, 0, len(candidates))
	for _, cand := range candidates {
		rows = append(rows, ResultRow{
			Candidate:  cand,
			DetailURL:  cand.DetailURL(c.anonRedirect, langID),
			DatePhrase: cand.DatePhrase(now),
			Tag:        cand.Tag(),
			SelectHelp: cand.SelectHelp(),
			LinkHelp:   cand.LinkHelp(),
		})
	}

	c.results = Results{
		Status:   SearchDone,
		Legend:   legend(len(rows)),
		Rows:     rows,
		Selected: 0,
		Query:    msg.query,
	}
	if len(rows) == 0 {
		c.results.Status = SearchEmpty
		c.results.Message = msgNoResults
		c.results.Selected = -1
	}

	c.reportSearch(SearchOutcome{Query: msg.query, Results: len(rows)})
	cmd := c.recompute(false)
	c.LoadSection(int(StepSearch))
	return cmd
}

// SelectCandidate chooses the row at index i. It has no effect while a
// search is pending, for an out of range index, or when the show was
// pre-supplied.
func (c *Controller) SelectCandidate(i int) tea.Cmd {
	if c.provided != nil || c.results.Status != SearchDone {
		return nil
	}
	if i < 0 || i >= len(c.results.Rows) || i == c.results.Selected {
		return nil
	}
	c.results.Selected = i
	cmd := c.recompute(false)
	c.LoadSection(int(StepSearch))
	return cmd
}

func (c *Controller) reportSearch(outcome SearchOutcome) {
	if c.onSearch != nil {
		c.onSearch(outcome)
	}
}

func legend(n int) string {
	count := "No"
	if n > 0 {
		count = fmt.Sprintf("%d", n)
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	return fmt.Sprintf("%s search result%s...", count, plural)
}
