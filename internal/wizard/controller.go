// Package wizard implements the add-show wizard as a headless Bubble Tea
// style controller. Every operation mutates controller state synchronously
// and may return a tea.Cmd; collaborator calls run inside those commands and
// report back through Update.
package wizard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Digital-Shane/show-onboard/internal/indexer"
)

// DefaultTimeout bounds a search when Options.Timeout is not set.
const DefaultTimeout = 20 * time.Second

// auxTimeout bounds language, sanitize and release group calls.
const auxTimeout = 30 * time.Second

// Options configures a Controller.
type Options struct {
	Service   indexer.Service
	Submitter indexer.Submitter
	Logger    zerolog.Logger

	// Timeout bounds each search request.
	Timeout time.Duration
	// Indexer is the initially selected indexer key.
	Indexer int
	// NameToSearch pre-fills the search term; a non-empty value searches on Init.
	NameToSearch string

	// ProvidedName and ProvidedIdentity pre-supply the show and bypass search.
	ProvidedName     string
	ProvidedIdentity string
	// ExplicitPath is the full show path, used when no root directory is chosen.
	ExplicitPath string

	RootDirs []string
	// RootDir is the index of the initially selected root directory; -1 for none.
	RootDir int

	QualityPresets []string
	QualityPreset  string
	Anime          bool

	// AnonRedirect prefixes every detail link.
	AnonRedirect string

	// Now is used for date phrasing; defaults to time.Now.
	Now func() time.Time

	// OnSearchComplete is called from Update once a current search resolves.
	OnSearchComplete func(SearchOutcome)
}

// Controller is the add-show wizard state machine. It is not safe for
// concurrent use; call it only from a Bubble Tea Update loop.
type Controller struct {
	svc       indexer.Service
	submitter indexer.Submitter
	logger    zerolog.Logger
	now       func() time.Time
	onSearch  func(SearchOutcome)

	timeout      time.Duration
	anonRedirect string

	nameToSearch string
	indexerKey   int

	languages languageCatalog
	search    searchSession
	results   Results

	provided     *providedShow
	rootDirs     []string
	rootDir      int
	explicitPath string

	preview previewState

	step Step

	qualityPresets []string
	qualityPreset  string
	anime          bool
	pools          releaseState

	submitting bool
	notice     string
}

// New returns a controller configured by opts.
func New(opts Options) *Controller {
	c := &Controller{
		svc:            opts.Service,
		submitter:      opts.Submitter,
		logger:         opts.Logger.With().Str("component", "wizard").Logger(),
		now:            opts.Now,
		onSearch:       opts.OnSearchComplete,
		timeout:        opts.Timeout,
		anonRedirect:   opts.AnonRedirect,
		nameToSearch:   opts.NameToSearch,
		indexerKey:     opts.Indexer,
		rootDirs:       append([]string(nil), opts.RootDirs...),
		rootDir:        -1,
		explicitPath:   opts.ExplicitPath,
		qualityPresets: append([]string(nil), opts.QualityPresets...),
		qualityPreset:  opts.QualityPreset,
		anime:          opts.Anime,
		step:           StepSearch,
		results:        Results{Selected: -1},
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if opts.RootDir >= 0 && opts.RootDir < len(c.rootDirs) {
		c.rootDir = opts.RootDir
	}
	if c.qualityPreset == "" && len(c.qualityPresets) > 0 {
		c.qualityPreset = c.qualityPresets[0]
	}
	if opts.ProvidedIdentity != "" {
		c.provided = &providedShow{name: opts.ProvidedName, identity: opts.ProvidedIdentity}
	}
	return c
}

// Init loads the language catalog, computes the first preview, runs the
// pre-filled search and, for a pre-supplied show with a known path, jumps
// ahead to the options step.
func (c *Controller) Init() tea.Cmd {
	var cmds []tea.Cmd
	if c.provided == nil {
		cmds = append(cmds, c.EnsureLanguages())
	}
	cmds = append(cmds, c.recompute(c.anime))
	if c.nameToSearch != "" {
		cmds = append(cmds, c.SearchCurrent())
	}
	if c.provided != nil && c.explicitPath != "" {
		c.GoToStep(3)
	}
	return tea.Batch(cmds...)
}

// Update applies a message produced by one of the controller's commands.
// Messages it does not own are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case languagesLoadedMsg:
		c.handleLanguages(msg)
	case searchResultMsg:
		return c.handleSearchResult(msg)
	case sanitizedMsg:
		c.handleSanitized(msg)
	case releaseGroupsMsg:
		c.handleReleaseGroups(msg)
	case SubmitResultMsg:
		c.submitting = false
		if msg.Err != nil {
			c.notice = msg.Err.Error()
		}
	}
	return nil
}

// Close cancels any in-flight search.
func (c *Controller) Close() {
	c.search.cancelPending()
}

// NameToSearch returns the current search term.
func (c *Controller) NameToSearch() string { return c.nameToSearch }

// SetNameToSearch updates the search term without searching.
func (c *Controller) SetNameToSearch(term string) { c.nameToSearch = term }

// Indexer returns the selected indexer key.
func (c *Controller) Indexer() int { return c.indexerKey }

// Indexers lists the selectable indexers.
func (c *Controller) Indexers() []indexer.Indexer {
	if c.svc == nil {
		return nil
	}
	return c.svc.Indexers()
}

// SetIndexer selects the indexer used by the next search.
func (c *Controller) SetIndexer(key int) { c.indexerKey = key }

// Results returns the current result surface.
func (c *Controller) Results() Results {
	r := c.results
	r.Rows = append([]ResultRow(nil), c.results.Rows...)
	return r
}

// Step returns the active wizard step.
func (c *Controller) Step() Step { return c.step }

// Anime reports the anime flag.
func (c *Controller) Anime() bool { return c.anime }

// QualityPresets lists the selectable quality presets.
func (c *Controller) QualityPresets() []string { return append([]string(nil), c.qualityPresets...) }

// QualityPreset returns the chosen quality preset.
func (c *Controller) QualityPreset() string { return c.qualityPreset }

// SetQualityPreset chooses a quality preset and shows the options step.
func (c *Controller) SetQualityPreset(name string) {
	c.qualityPreset = name
	c.LoadSection(int(StepOptions))
}

// SetAnime toggles the anime flag. The preview and release pools are
// refreshed and the options step is shown.
func (c *Controller) SetAnime(on bool) tea.Cmd {
	c.anime = on
	cmd := c.recompute(true)
	c.LoadSection(int(StepOptions))
	return cmd
}

// Notice returns the last operator-facing refusal or submission error.
func (c *Controller) Notice() string { return c.notice }

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool { return c.submitting }
