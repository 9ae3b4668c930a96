package wizard

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	// ErrNoShowSelected refuses a submission without a show identity.
	ErrNoShowSelected = errors.New("you must choose a show to continue")
	// ErrNoDestination refuses a submission without a root directory or full path.
	ErrNoDestination = errors.New("choose a parent folder or enter a full show path")
)

// SubmitResultMsg reports the outcome of Submit or Skip.
type SubmitResultMsg struct {
	Skipped bool
	Show    string
	Form    url.Values
	Err     error
}

// Form builds the add-show form from the current state. It fails when no
// show identity or no destination is available.
func (c *Controller) Form() (url.Values, error) {
	selection := c.Selection()
	if selection.WhichSeries() == "" {
		return nil, ErrNoShowSelected
	}
	if c.rootDir < 0 && c.explicitPath == "" {
		return nil, ErrNoDestination
	}
	return c.form(selection), nil
}

func (c *Controller) form(selection Selection) url.Values {
	form := url.Values{
		"whichSeries":     {selection.WhichSeries()},
		"providedIndexer": {strconv.Itoa(c.indexerKey)},
		"indexerLang":     {c.languages.selected},
		"qualityPreset":   {c.qualityPreset},
		"anime":           {boolField(c.anime)},
	}
	if selection.Kind == ExternallyProvided {
		form.Set("providedName", selection.Name)
	}
	if c.rootDir >= 0 {
		form.Set("rootDir", c.rootDirs[c.rootDir])
	} else if c.explicitPath != "" {
		form.Set("fullShowPath", c.explicitPath)
	}
	if c.anime {
		form.Set("whitelist", joinNames(c.pools.Allow))
		form.Set("blacklist", joinNames(c.pools.Block))
	}
	return form
}

// Submit posts the form. A refused submission sets Notice and returns nil.
func (c *Controller) Submit() tea.Cmd {
	if c.submitting {
		return nil
	}
	form, err := c.Form()
	if err != nil {
		c.notice = err.Error()
		return nil
	}
	c.notice = ""
	return c.post(form, false)
}

// Skip posts the form with the skip flag set; no show is required.
func (c *Controller) Skip() tea.Cmd {
	if c.submitting {
		return nil
	}
	form := c.form(c.Selection())
	form.Set("skipShow", "1")
	c.notice = ""
	return c.post(form, true)
}

func (c *Controller) post(form url.Values, skipped bool) tea.Cmd {
	show := c.Selection().ShowName()
	if c.submitter == nil {
		return func() tea.Msg {
			return SubmitResultMsg{Skipped: skipped, Show: show, Form: form}
		}
	}
	c.submitting = true
	submitter := c.submitter
	timeout := c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := submitter.AddShow(ctx, form)
		return SubmitResultMsg{Skipped: skipped, Show: show, Form: form, Err: err}
	}
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func joinNames(entries []ReleaseEntry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return strings.Join(names, ",")
}
