package theme

import (
	"maps"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// IconSet maps a semantic name such as "show" or "folder" to its glyph.
type IconSet map[string]string

// Colors is the wizard palette.
type Colors struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Borders holds the border of result panels and of the destination preview.
type Borders struct {
	Panel   lipgloss.Border
	Preview lipgloss.Border
}

// Spacing holds horizontal padding in cells.
type Spacing struct {
	PanelPadding   int
	RowPadding     int
	StatusHPadding int
}

// BadgeKind selects a badge color.
type BadgeKind int

const (
	BadgeInfo BadgeKind = iota
	BadgeSuccess
	BadgeError
	BadgeMuted
)

// Theme is an immutable set of colors, borders, spacing and icons.
type Theme struct {
	colors   Colors
	borders  Borders
	spacing  Spacing
	icons    IconSet
	fallback IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIconSet replaces the icon set. A nil set restores the default one.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		t.icons = maps.Clone(set)
	}
}

// WithColors replaces the palette.
func WithColors(colors Colors) Option {
	return func(t *Theme) {
		t.colors = colors
	}
}

// WithSpacing replaces the spacing values.
func WithSpacing(spacing Spacing) Option {
	return func(t *Theme) {
		t.spacing = spacing
	}
}

// WithBorders replaces the borders.
func WithBorders(borders Borders) Option {
	return func(t *Theme) {
		t.borders = borders
	}
}

// DefaultColors is the palette of Default.
var DefaultColors = Colors{
	Primary:    lipgloss.Color("#2f4b7c"),
	Secondary:  lipgloss.Color("#4f6d9a"),
	Accent:     lipgloss.Color("#6fa8dc"),
	Background: lipgloss.Color("#fafafa"),
	Muted:      lipgloss.Color("#8e99ab"),
	Success:    lipgloss.Color("#4caf7d"),
	Warning:    lipgloss.Color("#e0a03a"),
	Error:      lipgloss.Color("#d9534f"),
}

// New builds a Theme from the defaults and opts.
func New(opts ...Option) Theme {
	t := Theme{
		colors:   DefaultColors,
		borders:  Borders{Panel: lipgloss.RoundedBorder(), Preview: lipgloss.ThickBorder()},
		spacing:  Spacing{PanelPadding: 1, RowPadding: 1, StatusHPadding: 1},
		icons:    defaultIconSet(),
		fallback: maps.Clone(asciiIcons),
	}
	for _, opt := range opts {
		opt(&t)
	}
	if t.icons == nil {
		t.icons = defaultIconSet()
	}
	return t
}

// Default returns the default Theme.
func Default() Theme {
	return New()
}

func (t Theme) Colors() Colors   { return t.colors }
func (t Theme) Borders() Borders { return t.borders }
func (t Theme) Spacing() Spacing { return t.spacing }

// Icon returns the glyph for name, falling back to the ASCII set and then "".
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	return t.fallback[name]
}

// IconSet returns a copy of the themed icon map.
func (t Theme) IconSet() IconSet {
	return maps.Clone(t.icons)
}

// HeaderStyle is the title bar across the top of the wizard.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Background(t.colors.Primary).
		Foreground(t.colors.Background).
		Align(lipgloss.Center)
}

// StatusBarStyle is the key help bar at the bottom.
func (t Theme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.colors.Secondary).
		Foreground(t.colors.Background).
		Padding(0, t.spacing.StatusHPadding)
}

func (t Theme) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(t.borders.Panel).
		BorderForeground(t.colors.Accent).
		Padding(0, t.spacing.PanelPadding)
}

func (t Theme) PanelTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.colors.Primary)
}

// PreviewStyle frames the destination preview. The border turns green once
// the form can be submitted.
func (t Theme) PreviewStyle(ready bool) lipgloss.Style {
	color := t.colors.Warning
	if ready {
		color = t.colors.Success
	}
	return lipgloss.NewStyle().
		Border(t.borders.Preview).
		BorderForeground(color).
		Padding(0, t.spacing.PanelPadding)
}

func (t Theme) BadgeStyle(kind BadgeKind) lipgloss.Style {
	bg := t.colors.Accent
	switch kind {
	case BadgeSuccess:
		bg = t.colors.Success
	case BadgeError:
		bg = t.colors.Error
	case BadgeMuted:
		bg = t.colors.Muted
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Background(bg).
		Foreground(t.colors.Background)
}

// RowStyle is a result row; alternate rows are shaded.
func (t Theme) RowStyle(alt bool) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, t.spacing.RowPadding)
	if alt {
		style = style.Foreground(t.colors.Secondary)
	}
	return style
}

func (t Theme) SelectedRowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, t.spacing.RowPadding).
		Bold(true).
		Background(t.colors.Accent).
		Foreground(t.colors.Background)
}

// StepStyle is one tab of the step bar.
func (t Theme) StepStyle(active bool) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	if active {
		return style.Bold(true).Underline(true).Foreground(t.colors.Primary)
	}
	return style.Foreground(t.colors.Muted)
}

// MutedStyle is secondary text such as dates and links.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Muted)
}

// NoticeStyle is a refusal or a terminal search message.
func (t Theme) NoticeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.colors.Error)
}

func defaultIconSet() IconSet {
	if asciiTerminal() {
		return maps.Clone(asciiIcons)
	}
	return maps.Clone(emojiIcons)
}

// asciiTerminal reports terminals that commonly render emoji badly.
func asciiTerminal() bool {
	for _, env := range []string{"SSH_CLIENT", "SSH_TTY", "SSH_CONNECTION"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return os.Getenv("TERM") == "dumb" || runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"show":     "📺",
	"search":   "🔎",
	"folder":   "📁",
	"options":  "⚙️",
	"finish":   "✅",
	"success":  "✅",
	"error":    "❌",
	"link":     "🔗",
	"calendar": "📅",
	"globe":    "🌐",
	"anime":    "🍥",
	"allow":    "➕",
	"block":    "➖",
	"pending":  "⏳",
	"arrows":   "↑↓←→",
}

var asciiIcons = IconSet{
	"show":     "[TV]",
	"search":   "[?]",
	"folder":   "[D]",
	"options":  "[O]",
	"finish":   "[v]",
	"success":  "[v]",
	"error":    "[!]",
	"link":     "[->]",
	"calendar": "[C]",
	"globe":    "[G]",
	"anime":    "[A]",
	"allow":    "[+]",
	"block":    "[-]",
	"pending":  "[..]",
	"arrows":   "^v<>",
}
