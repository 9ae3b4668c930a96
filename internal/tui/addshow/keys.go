package addshow

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Search   key.Binding
	Language key.Binding
	Indexer  key.Binding
	Anime    key.Binding
	Allow    key.Binding
	Block    key.Binding
	Unallow  key.Binding
	Unblock  key.Binding
	Submit   key.Binding
	Skip     key.Binding
	Help     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next step")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous step")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous preset")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next preset")),
		Search:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Language: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "language")),
		Indexer:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "indexer")),
		Anime:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle anime")),
		Allow:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "allow group")),
		Block:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block group")),
		Unallow:  key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "unallow last")),
		Unblock:  key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "unblock last")),
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "add show")),
		Skip:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "skip")),
		Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Search, k.Submit, k.Skip, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up, k.Down},
		{k.Search, k.Language, k.Indexer},
		{k.Left, k.Right, k.Anime},
		{k.Allow, k.Block, k.Unallow, k.Unblock},
		{k.Submit, k.Skip, k.Help, k.Quit},
	}
}
