package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/Digital-Shane/show-onboard/internal/indexer"
)

// fakeService is an indexer.Service whose answers are set per test.
type fakeService struct {
	mu sync.Mutex

	languages     func(context.Context) (*indexer.LanguagesResponse, error)
	search        func(context.Context, indexer.SearchRequest) (*indexer.SearchResponse, error)
	sanitize      func(context.Context, string) (string, error)
	releaseGroups func(context.Context, string) (*indexer.ReleaseGroupsResponse, error)

	languageCalls int
	searches      []indexer.SearchRequest
	groupLookups  []string
}

func (f *fakeService) Indexers() []indexer.Indexer {
	return []indexer.Indexer{{Key: 0, Name: "All indexers"}, {Key: 1, Name: "TheTVDB"}}
}

func (f *fakeService) Languages(ctx context.Context) (*indexer.LanguagesResponse, error) {
	f.mu.Lock()
	f.languageCalls++
	f.mu.Unlock()
	if f.languages == nil {
		return &indexer.LanguagesResponse{Results: []string{"en", "de"}}, nil
	}
	return f.languages(ctx)
}

func (f *fakeService) Search(ctx context.Context, req indexer.SearchRequest) (*indexer.SearchResponse, error) {
	f.mu.Lock()
	f.searches = append(f.searches, req)
	f.mu.Unlock()
	if f.search == nil {
		return &indexer.SearchResponse{}, nil
	}
	return f.search(ctx, req)
}

func (f *fakeService) SanitizeFileName(ctx context.Context, name string) (string, error) {
	if f.sanitize == nil {
		return name, nil
	}
	return f.sanitize(ctx, name)
}

func (f *fakeService) ReleaseGroups(ctx context.Context, name string) (*indexer.ReleaseGroupsResponse, error) {
	f.mu.Lock()
	f.groupLookups = append(f.groupLookups, name)
	f.mu.Unlock()
	if f.releaseGroups == nil {
		return &indexer.ReleaseGroupsResponse{Result: "fail"}, nil
	}
	return f.releaseGroups(ctx, name)
}

type fakeSubmitter struct {
	forms []url.Values
	err   error
}

func (f *fakeSubmitter) AddShow(_ context.Context, form url.Values) error {
	f.forms = append(f.forms, form)
	return f.err
}

// drain runs cmd to completion, feeding every message back through Update.
func drain(t *testing.T, c *Controller, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			drain(t, c, sub)
		}
		return
	}
	if msg == nil {
		return
	}
	drain(t, c, c.Update(msg))
}

// collect runs cmd and returns the messages it produced without applying
// them, so tests can choose delivery order.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, collect(sub)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func rows(t *testing.T, results ...[]any) [][]json.RawMessage {
	t.Helper()
	out := make([][]json.RawMessage, 0, len(results))
	for _, r := range results {
		out = append(out, rawRow(t, r...))
	}
	return out
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func newController(svc *fakeService, mutate func(*Options)) *Controller {
	opts := Options{
		Service: svc,
		Logger:  zerolog.Nop(),
		Timeout: time.Second,
		RootDir: -1,
		Now:     fixedNow,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts)
}

func rowNames(r Results) []string {
	var names []string
	for _, row := range r.Rows {
		names = append(names, row.Candidate.DisplayName)
	}
	return names
}

func TestInitLoadsLanguagesAndPreview(t *testing.T) {
	svc := &fakeService{}
	c := newController(svc, nil)

	drain(t, c, c.Init())

	options, selected := c.Languages()
	if diff := cmp.Diff([]string{"en", "de"}, options); diff != "" {
		t.Errorf("Languages() mismatch (-want +got):\n%s", diff)
	}
	if selected != "en" {
		t.Errorf("selected language = %q, want en", selected)
	}
	if got := c.Preview().Text; got != "Adding show into unknown dir." {
		t.Errorf("Preview().Text = %q", got)
	}
	if len(svc.searches) != 0 {
		t.Errorf("Init() searched %d times without a name", len(svc.searches))
	}
	if c.Step() != StepSearch {
		t.Errorf("Step() = %v, want %v", c.Step(), StepSearch)
	}
}

func TestInitAutoSearchesPrefilledName(t *testing.T) {
	svc := &fakeService{search: func(context.Context, indexer.SearchRequest) (*indexer.SearchResponse, error) {
		return &indexer.SearchResponse{Results: rows(t, []any{nil, 1, "/show/", "1", "Dark", nil})}, nil
	}}
	c := newController(svc, func(o *Options) { o.NameToSearch = "Dark"; o.Indexer = 1 })

	drain(t, c, c.Init())

	if len(svc.searches) != 1 || svc.searches[0].Term != "Dark" || svc.searches[0].Indexer != 1 {
		t.Fatalf("searches = %+v, want one for Dark on indexer 1", svc.searches)
	}
	if diff := cmp.Diff([]string{"Dark"}, rowNames(c.Results())); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestInitProvidedShowWithPathSkipsAhead(t *testing.T) {
	svc := &fakeService{}
	c := newController(svc, func(o *Options) {
		o.ProvidedName = "Firefly"
		o.ProvidedIdentity = "1|78874"
		o.ExplicitPath = "/tv/Firefly"
	})

	drain(t, c, c.Init())

	if c.Step() != StepOptions {
		t.Errorf("Step() = %v, want %v", c.Step(), StepOptions)
	}
	if svc.languageCalls != 0 {
		t.Errorf("language fetches = %d, want 0 for a provided show", svc.languageCalls)
	}
	p := c.Preview()
	if !p.SubmitEnabled {
		t.Error("SubmitEnabled = false, want true")
	}
	if p.Text != "Adding show Firefly\ninto /tv/Firefly" {
		t.Errorf("Preview().Text = %q", p.Text)
	}
}

func TestInitProvidedShowWithoutPathStays(t *testing.T) {
	c := newController(&fakeService{}, func(o *Options) {
		o.ProvidedName = "Firefly"
		o.ProvidedIdentity = "1|78874"
	})
	drain(t, c, c.Init())

	if c.Step() != StepSearch {
		t.Errorf("Step() = %v, want %v", c.Step(), StepSearch)
	}
}

func TestEmptyTermIsIgnored(t *testing.T) {
	svc := &fakeService{}
	c := newController(svc, nil)

	if cmd := c.Search("", "en", 1); cmd != nil {
		t.Error("Search(\"\") returned a command")
	}
	if c.Results().Status != SearchIdle || len(svc.searches) != 0 {
		t.Errorf("empty search changed state: %+v", c.Results())
	}
}

func TestSearchingPlaceholder(t *testing.T) {
	c := newController(&fakeService{}, nil)
	c.Search("Firefly", "en", 1)

	r := c.Results()
	if r.Status != SearchPending || !c.Searching() {
		t.Errorf("Status = %v, want pending", r.Status)
	}
	if want := "searching Firefly on TheTVDB in en..."; r.Message != want {
		t.Errorf("Message = %q, want %q", r.Message, want)
	}
}

func TestPendingSearchClearsSelection(t *testing.T) {
	svc := &fakeService{search: func(_ context.Context, req indexer.SearchRequest) (*indexer.SearchResponse, error) {
		return &indexer.SearchResponse{Results: rows(t, []any{nil, 1, "/show/", "1", req.Term, nil})}, nil
	}}
	c := newController(svc, func(o *Options) {
		o.RootDirs = []string{"/tv"}
		o.RootDir = 0
	})

	drain(t, c, c.Search("Alpha", "en", 1))
	if !c.Preview().SubmitEnabled {
		t.Fatalf("Preview().SubmitEnabled = false after Alpha resolved")
	}

	// Beta is issued but its response is never delivered.
	c.Search("Beta", "en", 1)

	r := c.Results()
	if r.Status != SearchPending || len(r.Rows) != 0 || r.Selected != -1 {
		t.Errorf("Results() = %+v, want pending with no rows", r)
	}
	if got := c.Selection().Kind; got != NoneSelected {
		t.Errorf("Selection().Kind = %v, want NoneSelected", got)
	}
	if c.Preview().SubmitEnabled {
		t.Error("Preview().SubmitEnabled = true during a pending search")
	}
	if _, err := c.Form(); !errors.Is(err, ErrNoShowSelected) {
		t.Errorf("Form() error = %v, want ErrNoShowSelected", err)
	}
}

// P1: only the last of several rapid searches is ever rendered.
func TestSingleFlight(t *testing.T) {
	var mu sync.Mutex
	contexts := map[string]context.Context{}
	svc := &fakeService{search: func(ctx context.Context, req indexer.SearchRequest) (*indexer.SearchResponse, error) {
		mu.Lock()
		contexts[req.Term] = ctx
		mu.Unlock()
		return &indexer.SearchResponse{Results: rows(t, []any{nil, 1, "/show/", req.Term, req.Term, nil})}, nil
	}}
	c := newController(svc, nil)

	terms := []string{"One", "Two", "Three", "Four"}
	var cmds []tea.Cmd
	for _, term := range terms {
		cmds = append(cmds, c.Search(term, "en", 1))
	}

	// Deliver responses newest first so the stale ones arrive last.
	for i := len(cmds) - 1; i >= 0; i-- {
		for _, msg := range collect(cmds[i]) {
			drain(t, c, c.Update(msg))
		}
		if diff := cmp.Diff([]string{"Four"}, rowNames(c.Results())); diff != "" {
			t.Fatalf("after response %d rows mismatch (-want +got):\n%s", i, diff)
		}
	}

	for _, term := range terms[:3] {
		if err := contexts[term].Err(); !errors.Is(err, context.Canceled) {
			t.Errorf("context for %s err = %v, want canceled", term, err)
		}
	}
}

// Scenario D: the earlier search's late response never shows.
func TestSupersededResponseDropped(t *testing.T) {
	svc := &fakeService{search: func(_ context.Context, req indexer.SearchRequest) (*indexer.SearchResponse, error) {
		return &indexer.SearchResponse{Results: rows(t, []any{nil, 1, "/show/", "1", req.Term + " Show", nil})}, nil
	}}
	c := newController(svc, nil)

	alpha := collect(c.Search("Alpha", "en", 1))
	beta := collect(c.Search("Beta", "en", 1))

	for _, msg := range beta {
		drain(t, c, c.Update(msg))
	}
	for _, msg := range alpha {
		drain(t, c, c.Update(msg))
	}

	if diff := cmp.Diff([]string{"Beta Show"}, rowNames(c.Results())); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if c.Results().Query.Term != "Beta" {
		t.Errorf("Query.Term = %q, want Beta", c.Results().Query.Term)
	}
}

// Scenario A and P3.
func TestSearchSingleResult(t *testing.T) {
	var outcomes []SearchOutcome
	svc := &fakeService{search: func(_ context.Context, req indexer.SearchRequest) (*indexer.SearchResponse, error) {
		if req.Term != "Firefly" || req.Language != "en" || req.Indexer != 0 {
			t.Errorf("request = %+v", req)
		}
		return &indexer.SearchResponse{Results: rows(t, []any{nil, 0, "/show/", "tt0303461", "Firefly", "2002-09-20"})}, nil
	}}
	c := newController(svc, func(o *Options) {
		o.Timeout = 10 * time.Second
		o.RootDirs = []string{"/tv"}
		o.OnSearchComplete = func(out SearchOutcome) { outcomes = append(outcomes, out) }
	})
	c.LoadSection(int(StepOptions))

	drain(t, c, c.Search("Firefly", "en", 0))

	r := c.Results()
	if r.Status != SearchDone || len(r.Rows) != 1 {
		t.Fatalf("Results() = %+v, want one row", r)
	}
	row := r.Rows[0]
	if row.Candidate.DisplayName != "Firefly" || row.DatePhrase != "started on 2002-09-20" {
		t.Errorf("row = %+v", row)
	}
	if r.Selected != 0 || c.Selection().Kind != CandidateSelected {
		t.Errorf("Selected = %d kind = %v, want row 0 selected", r.Selected, c.Selection().Kind)
	}
	if r.Legend != "1 search result..." {
		t.Errorf("Legend = %q", r.Legend)
	}
	if c.Step() != StepSearch {
		t.Errorf("Step() = %v, want %v after search", c.Step(), StepSearch)
	}
	if c.Preview().SubmitEnabled {
		t.Error("SubmitEnabled = true before a destination was chosen")
	}

	drain(t, c, c.SetRootDir(0))
	p := c.Preview()
	if !p.SubmitEnabled {
		t.Error("SubmitEnabled = false after choosing a root directory")
	}
	if p.Text != "Adding show Firefly\ninto /tv/Firefly/" {
		t.Errorf("Preview().Text = %q", p.Text)
	}
	if diff := cmp.Diff([]SearchOutcome{{Query: SearchQuery{Term: "Firefly", Language: "en"}, Results: 1}}, outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

// P3 with several results.
func TestSearchSelectsFirstOfMany(t *testing.T) {
	svc := &fakeService{search: func(context.Context, indexer.SearchRequest) (*indexer.SearchResponse, error) {
		return &indexer.SearchResponse{
			Results: rows(t,
				[]any{nil, 1, "/s/", "3", "Charlie", nil},
				[]any{"TVmaze", 1, "/s/", "1", "Alpha", "2030-01-01"},
				[]any{nil, 1, "/s/", "2", "Bravo", nil},
			),
			LangID: "7",
		}, nil
	}}
	c := newController(svc, func(o *Options) { o.AnonRedirect = "https://anon/?" })

	drain(t, c, c.Search("x", "en", 1))

	r := c.Results()
	if diff := cmp.Diff([]string{"Charlie", "Alpha", "Bravo"}, rowNames(r)); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
	if r.Selected != 0 || c.Selection().Candidate.DisplayName != "Charlie" {
		t.Errorf("selection = %+v, want Charlie", c.Selection())
	}
	if r.Rows[1].Tag != "[TVmaze]" || r.Rows[1].DatePhrase != "will debut on 2030-01-01" {
		t.Errorf("row 1 = %+v", r.Rows[1])
	}
	if r.Rows[0].DetailURL != "https://anon/?/s/3&lid=7" {
		t.Errorf("DetailURL = %q", r.Rows[0].DetailURL)
	}

	drain(t, c, c.SelectCandidate(2))
	if c.Selection().Candidate.DisplayName != "Bravo" {
		t.Errorf("after SelectCandidate(2) selection = %+v", c.Selection())
	}
	if cmd := c.SelectCandidate(5); cmd != nil {
		t.Error("SelectCandidate(5) returned a command")
	}
}

// Scenario B.
func TestSearchNoResults(t *testing.T) {
	svc := &fakeService{search: func(context.Context, indexer.SearchRequest) (*indexer.SearchResponse, error) {
		return &indexer.SearchResponse{Results: [][]json.RawMessage{}}, nil
	}}
	c := newController(svc, func(o *Options) { o.RootDirs = []string{"/tv"}; o.RootDir = 0 })

	drain(t, c, c.Search("Firefly", "en", 0))

	r := c.Results()
	if r.Status != SearchEmpty || r.Message != msgNoResults || len(r.Rows) != 0 {
		t.Errorf("Results() = %+v", r)
	}
	if r.Legend != "No search results..." {
		t.Errorf("Legend = %q", r.Legend)
	}
	if c.Selection().Kind != NoneSelected {
		t.Errorf("Selection().Kind = %v, want NoneSelected", c.Selection().Kind)
	}
	if c.Preview().SubmitEnabled {
		t.Error("SubmitEnabled = true with no show")
	}
}

// Scenario C.
func TestSearchTimeout(t *testing.T) {
	block := true
	svc := &fakeService{search: func(ctx context.Context, req indexer.SearchRequest) (*indexer.SearchResponse, error) {
		if block {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &indexer.SearchResponse{Results: rows(t, []any{nil, 1, "/s/", "1", req.Term, nil})}, nil
	}}
	c := newController(svc, func(o *Options) { o.Timeout = 10 * time.Millisecond })

	drain(t, c, c.Search("Firefly", "en", 1))

	r := c.Results()
	if r.Status != SearchFailed || r.Message != msgTimedOut || len(r.Rows) != 0 {
		t.Fatalf("Results() = %+v, want timeout message", r)
	}
	if len(svc.searches) != 1 {
		t.Errorf("searches = %d, want no retry", len(svc.searches))
	}

	block = false
	cmd := c.Search("Serenity", "en", 1)
	if c.Results().Message == msgTimedOut {
		t.Error("new search did not replace the timeout message")
	}
	drain(t, c, cmd)
	if diff := cmp.Diff([]string{"Serenity"}, rowNames(c.Results())); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchTransportErrorShowsTimeout(t *testing.T) {
	svc := &fakeService{search: func(context.Context, indexer.SearchRequest) (*indexer.SearchResponse, error) {
		return nil, errors.New("connection refused")
	}}
	c := newController(svc, nil)
	drain(t, c, c.Search("Firefly", "en", 1))

	if c.Results().Message != msgTimedOut {
		t.Errorf("Message = %q, want %q", c.Results().Message, msgTimedOut)
	}
}

func TestCloseCancelsSilently(t *testing.T) {
	svc := &fakeService{search: func(ctx context.Context, _ indexer.SearchRequest) (*indexer.SearchResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := newController(svc, nil)

	cmd := c.Search("Firefly", "en", 1)
	c.Close()
	drain(t, c, cmd)

	if r := c.Results(); r.Message == msgTimedOut || r.Status == SearchFailed {
		t.Errorf("cancelled search rendered %+v", r)
	}
}

func TestProvidedSelectionIsImmutable(t *testing.T) {
	svc := &fakeService{search: func(context.Context, indexer.SearchRequest) (*indexer.SearchResponse, error) {
		return &indexer.SearchResponse{Results: rows(t, []any{nil, 1, "/s/", "1", "Other", nil})}, nil
	}}
	c := newController(svc, func(o *Options) {
		o.ProvidedName = "Firefly"
		o.ProvidedIdentity = "1|78874"
	})

	drain(t, c, c.Search("Other", "en", 1))
	drain(t, c, c.SelectCandidate(0))

	sel := c.Selection()
	if sel.Kind != ExternallyProvided || sel.ShowName() != "Firefly" || sel.WhichSeries() != "1|78874" {
		t.Errorf("Selection() = %+v, want the provided show", sel)
	}
}
