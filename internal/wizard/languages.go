package wizard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultLanguage is offered when the indexer reports no languages.
const defaultLanguage = "en"

type languageCatalog struct {
	options   []string
	selected  string
	loading   bool
	listening bool // set after the first load; language changes then re-search
}

type languagesLoadedMsg struct {
	codes []string
	err   error
}

// EnsureLanguages fetches the language catalog unless more than one option
// is already populated or a fetch is in flight.
func (c *Controller) EnsureLanguages() tea.Cmd {
	if len(c.languages.options) > 1 || c.languages.loading || c.svc == nil {
		return nil
	}
	c.languages.loading = true

	svc := c.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), auxTimeout)
		defer cancel()
		resp, err := svc.Languages(ctx)
		if err != nil {
			return languagesLoadedMsg{err: err}
		}
		return languagesLoadedMsg{codes: resp.Results}
	}
}

func (c *Controller) handleLanguages(msg languagesLoadedMsg) {
	c.languages.loading = false
	if msg.err != nil {
		c.logger.Debug().Err(msg.err).Msg("Language catalog fetch failed")
		return
	}

	if len(msg.codes) == 0 {
		c.languages.options = []string{defaultLanguage}
	} else {
		c.languages.options = append([]string(nil), msg.codes...)
	}
	c.languages.selected = c.languages.options[0]
	c.languages.listening = true
}

// Languages returns the catalog options and the selected code. Both are
// empty until the catalog has loaded.
func (c *Controller) Languages() (options []string, selected string) {
	return append([]string(nil), c.languages.options...), c.languages.selected
}

// Language returns the selected language code, or "".
func (c *Controller) Language() string { return c.languages.selected }

// SelectLanguage changes the selected language. Once the catalog has loaded,
// a change re-runs the current search.
func (c *Controller) SelectLanguage(code string) tea.Cmd {
	if code == c.languages.selected {
		return nil
	}
	c.languages.selected = code
	if !c.languages.listening {
		return nil
	}
	return c.SearchCurrent()
}
