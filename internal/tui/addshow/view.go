package addshow

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Digital-Shane/show-onboard/internal/indexer"
	"github.com/Digital-Shane/show-onboard/internal/tui/theme"
	"github.com/Digital-Shane/show-onboard/internal/wizard"
)

var stepIcons = map[wizard.Step]string{
	wizard.StepSearch:  "search",
	wizard.StepConfirm: "folder",
	wizard.StepOptions: "options",
	wizard.StepFinish:  "finish",
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderStyle().Width(m.width).Render("Add Show"))
	b.WriteByte('\n')
	b.WriteString(m.renderSteps())
	b.WriteString("\n\n")

	switch m.ctl.Step() {
	case wizard.StepSearch:
		b.WriteString(m.renderSearch())
	case wizard.StepConfirm:
		b.WriteString(m.renderConfirm())
	case wizard.StepOptions:
		b.WriteString(m.renderOptions())
	default:
		b.WriteString(m.renderFinish())
	}
	b.WriteByte('\n')

	b.WriteString(m.renderPreview())
	b.WriteByte('\n')

	if notice := m.ctl.Notice(); notice != "" {
		b.WriteString(m.theme.NoticeStyle().Render(m.theme.Icon("error") + " " + notice))
		b.WriteByte('\n')
	}

	b.WriteString(m.theme.StatusBarStyle().Width(m.width).Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderSteps() string {
	tabs := make([]string, 0, len(wizard.Steps()))
	for i, step := range wizard.Steps() {
		label := fmt.Sprintf("%s %d. %s", m.theme.Icon(stepIcons[step]), i+1, step)
		tabs = append(tabs, m.theme.StepStyle(step == m.ctl.Step()).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.nameInput.View())
	b.WriteByte('\n')

	_, language := m.ctl.Languages()
	if language == "" {
		language = "…"
	}
	b.WriteString(m.theme.MutedStyle().Render(fmt.Sprintf("%s %s  %s %s",
		m.theme.Icon("show"), indexer.IndexerName(m.ctl, m.ctl.Indexer()),
		m.theme.Icon("globe"), language)))
	b.WriteByte('\n')

	results := m.ctl.Results()
	switch results.Status {
	case wizard.SearchPending:
		b.WriteString(m.spinner.View() + " " + results.Message)
	case wizard.SearchEmpty, wizard.SearchFailed:
		b.WriteString(m.theme.NoticeStyle().Render(results.Message))
	case wizard.SearchDone:
		b.WriteString(m.theme.PanelTitleStyle().Render(results.Legend))
	}
	b.WriteByte('\n')

	if len(results.Rows) > 0 {
		b.WriteString(m.results.View())
	}
	return b.String()
}

// refreshResults re-renders the candidate rows into the results viewport,
// keeping the selected row visible.
func (m *Model) refreshResults() {
	results := m.ctl.Results()
	lines := make([]string, 0, len(results.Rows)*2)
	selectedLine := 0
	for i, row := range results.Rows {
		if i == results.Selected {
			selectedLine = len(lines)
		}
		lines = append(lines, renderRow(m.theme, row, i, i == results.Selected, m.results.Width))
		if i == results.Selected {
			link := m.theme.Icon("link") + " " + row.DetailURL
			lines = append(lines, m.theme.MutedStyle().Render("   "+runewidth.Truncate(link, max(m.results.Width-3, 1), "…")))
		}
	}
	m.results.SetContent(strings.Join(lines, "\n"))

	if selectedLine < m.results.YOffset {
		m.results.SetYOffset(selectedLine)
	} else if bottom := m.results.YOffset + m.results.Height - 2; selectedLine > bottom {
		m.results.SetYOffset(selectedLine - m.results.Height + 2)
	}
}

func renderRow(th theme.Theme, row wizard.ResultRow, i int, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = "> "
	}

	var suffix []string
	if row.Tag != "" {
		suffix = append(suffix, row.Tag)
	}
	if row.DatePhrase != "" {
		suffix = append(suffix, "("+row.DatePhrase+")")
	}
	tail := strings.Join(suffix, " ")

	nameWidth := width - runewidth.StringWidth(marker) - runewidth.StringWidth(tail) - 3
	name := runewidth.Truncate(row.Candidate.DisplayName, max(nameWidth, 4), "…")
	line := marker + name
	if tail != "" {
		line += " " + th.MutedStyle().Render(tail)
	}

	if selected {
		return th.SelectedRowStyle().Render(line)
	}
	return th.RowStyle(i%2 == 1).Render(line)
}

func (m *Model) renderConfirm() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitleStyle().Render("Parent folder"))
	b.WriteByte('\n')

	choices := append([]string{"(use full show path below)"}, m.ctl.RootDirs()...)
	for i, dir := range choices {
		index := i - 1
		line := "  " + m.theme.Icon("folder") + " " + dir
		if index == m.ctl.RootDir() {
			b.WriteString(m.theme.SelectedRowStyle().Render("> " + strings.TrimPrefix(line, "  ")))
		} else {
			b.WriteString(m.theme.RowStyle(i%2 == 1).Render(line))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.pathInput.View())
	b.WriteByte('\n')
	return b.String()
}

func (m *Model) renderOptions() string {
	var b strings.Builder

	presets := m.ctl.QualityPresets()
	parts := make([]string, 0, len(presets))
	for _, preset := range presets {
		if preset == m.ctl.QualityPreset() {
			parts = append(parts, m.theme.BadgeStyle(theme.BadgeInfo).Render(preset))
		} else {
			parts = append(parts, m.theme.MutedStyle().Render(preset))
		}
	}
	b.WriteString("Quality: " + strings.Join(parts, " "))
	b.WriteByte('\n')

	anime := "off"
	if m.ctl.Anime() {
		anime = "on"
	}
	b.WriteString(fmt.Sprintf("%s Anime: %s", m.theme.Icon("anime"), anime))
	b.WriteByte('\n')

	pools := m.ctl.Pools()
	if !pools.Visible {
		return b.String()
	}
	if pools.Loading {
		b.WriteString(m.spinner.View() + " loading release groups...")
		b.WriteByte('\n')
		return b.String()
	}

	colWidth := max((m.width-6)/3, 12)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPool("Release groups", pools.Unassigned, m.releaseCursor, colWidth),
		m.renderPool(m.theme.Icon("allow")+" Allowed", pools.Allow, -1, colWidth),
		m.renderPool(m.theme.Icon("block")+" Blocked", pools.Block, -1, colWidth),
	))
	b.WriteByte('\n')
	return b.String()
}

func (m *Model) renderPool(title string, entries []wizard.ReleaseEntry, cursor, width int) string {
	lines := []string{m.theme.PanelTitleStyle().Render(title)}
	for i, entry := range entries {
		label := runewidth.Truncate(entry.Label, max(width-4, 4), "…")
		if i == cursor {
			lines = append(lines, m.theme.SelectedRowStyle().Render(label))
		} else {
			lines = append(lines, m.theme.RowStyle(i%2 == 1).Render(label))
		}
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFinish() string {
	selection := m.ctl.Selection()
	if selection.Kind == wizard.NoneSelected {
		return m.theme.MutedStyle().Render("No show chosen yet. Press ctrl+k to skip it.") + "\n"
	}
	return fmt.Sprintf("%s %s\nPress enter to add it, or ctrl+k to skip.\n", m.theme.Icon("show"), selection.ShowName())
}

func (m *Model) renderPreview() string {
	preview := m.ctl.Preview()
	text := preview.Text
	if preview.Pending {
		text += " " + m.spinner.View()
	}

	badge := m.theme.BadgeStyle(theme.BadgeMuted).Render("not ready")
	if preview.SubmitEnabled {
		badge = m.theme.BadgeStyle(theme.BadgeSuccess).Render("ready")
	}

	style := m.theme.PreviewStyle(preview.SubmitEnabled)
	width := max(m.width-style.GetHorizontalFrameSize(), 10)
	return style.Width(width).Render(text + "\n" + badge)
}
