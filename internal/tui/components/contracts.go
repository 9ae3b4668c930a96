package components

import tea "github.com/charmbracelet/bubbletea"

// Focusable describes components that can gain or lose focus.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
}

// FocusOnly focuses target and blurs every other input.
func FocusOnly(target Focusable, all ...Focusable) tea.Cmd {
	for _, f := range all {
		if f != target {
			f.Blur()
		}
	}
	if target == nil {
		return nil
	}
	return target.Focus()
}
