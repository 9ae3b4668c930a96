package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DebounceMsg returns a tea.Cmd that emits the provided message after the delay.
// Receivers collapse rapid re-invocations by tagging msg with a sequence number
// and ignoring all but the latest.
func DebounceMsg(duration time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(duration, func(time.Time) tea.Msg { return msg })
}
