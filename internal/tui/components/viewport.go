package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/Digital-Shane/show-onboard/internal/tui/theme"
)

// NewViewport returns a borderless, themed viewport for a scrolling list.
// Its own key bindings are disabled; the owning model moves the offset so
// the cursor keys stay free for selection.
func NewViewport(width, height int, th theme.Theme) *viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = th.PanelStyle().BorderStyle(lipgloss.Border{})
	vp.KeyMap = viewport.KeyMap{}
	return &vp
}
