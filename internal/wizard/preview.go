package wizard

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// nameSentinel marks where the sanitized show folder is spliced in.
	nameSentinel = "||"
	unknownName  = "??"
	unknownDir   = "unknown dir."
)

// PathPreview is the derived destination summary.
type PathPreview struct {
	DestinationRoot *string
	ExplicitPath    *string
	SanitizedName   *string
	// Text is the rendered summary. While Pending it still holds the
	// previous text.
	Text          string
	SubmitEnabled bool
	Pending       bool
}

type previewState struct {
	PathPreview
	gen    uint64
	name   string
	dest   string
	splice bool
}

// render splices value into the destination sentinel.
func (p *previewState) render(value string) string {
	if !p.splice {
		return composePreview(p.name, p.dest)
	}
	return composePreview(p.name, strings.Replace(p.dest, nameSentinel, value, 1))
}

type sanitizedMsg struct {
	gen  uint64
	name string
	safe string
	err  error
}

// Preview returns the current path preview.
func (c *Controller) Preview() PathPreview {
	return c.preview.PathPreview
}

// RootDirs lists the selectable root directories.
func (c *Controller) RootDirs() []string { return append([]string(nil), c.rootDirs...) }

// RootDir returns the selected root directory index, or -1.
func (c *Controller) RootDir() int { return c.rootDir }

// SetRootDir selects the root directory at index i; -1 clears the choice.
func (c *Controller) SetRootDir(i int) tea.Cmd {
	if i < -1 || i >= len(c.rootDirs) {
		return nil
	}
	c.rootDir = i
	return c.Recompute()
}

// ExplicitPath returns the full show path field.
func (c *Controller) ExplicitPath() string { return c.explicitPath }

// SetExplicitPath updates the full show path field.
func (c *Controller) SetExplicitPath(path string) tea.Cmd {
	c.explicitPath = path
	return c.Recompute()
}

// Recompute rebuilds the path preview and the submit gate from the current
// selection and destination inputs. The display text is completed
// asynchronously once the show name has been sanitized.
func (c *Controller) Recompute() tea.Cmd {
	return c.recompute(false)
}

func (c *Controller) recompute(forceReleases bool) tea.Cmd {
	selection := c.Selection()
	name := selection.ShowName()

	var cmds []tea.Cmd
	if forceReleases || (c.anime && name != c.pools.forName) {
		cmds = append(cmds, c.loadReleaseGroups(name))
	}

	p := &c.preview
	p.DestinationRoot = nil
	p.ExplicitPath = nil
	if c.rootDir >= 0 {
		root := c.rootDirs[c.rootDir]
		p.DestinationRoot = &root
	}
	if c.explicitPath != "" {
		explicit := c.explicitPath
		p.ExplicitPath = &explicit
	}

	p.name = name
	p.dest, p.splice = destination(p.DestinationRoot, p.ExplicitPath)
	p.SubmitEnabled = (p.DestinationRoot != nil || p.ExplicitPath != nil) && selection.Kind != NoneSelected
	p.gen++

	if name == "" {
		p.SanitizedName = nil
		p.Pending = false
		p.Text = p.render(unknownName)
		return tea.Batch(cmds...)
	}

	p.Pending = true
	if c.svc == nil {
		c.applySanitized(name, "", nil)
		return tea.Batch(cmds...)
	}

	gen := p.gen
	svc := c.svc
	cmds = append(cmds, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), auxTimeout)
		defer cancel()
		safe, err := svc.SanitizeFileName(ctx, name)
		return sanitizedMsg{gen: gen, name: name, safe: safe, err: err}
	})
	return tea.Batch(cmds...)
}

func (c *Controller) handleSanitized(msg sanitizedMsg) {
	if msg.gen != c.preview.gen {
		c.logger.Debug().Str("name", msg.name).Msg("Dropping stale sanitize response")
		return
	}
	c.applySanitized(msg.name, msg.safe, msg.err)
}

func (c *Controller) applySanitized(name, safe string, err error) {
	p := &c.preview
	p.Pending = false
	if err != nil || safe == "" {
		if err != nil {
			c.logger.Debug().Err(err).Str("name", name).Msg("Sanitize failed")
		}
		p.SanitizedName = nil
		p.Text = p.render(unknownName)
		return
	}
	p.SanitizedName = &safe
	p.Text = p.render(safe)
}

// destination resolves where the show folder goes. A root directory gets
// its own separator and the name sentinel appended; an explicit path is
// used as is.
func destination(root, explicit *string) (dest string, splice bool) {
	switch {
	case root != nil:
		dir := *root
		sep := ""
		if strings.Contains(dir, "/") {
			sep = "/"
		} else if strings.Contains(dir, `\`) {
			sep = `\`
		}
		if !strings.HasSuffix(dir, sep) {
			dir += sep
		}
		return dir + nameSentinel + sep, true
	case explicit != nil:
		return *explicit, false
	default:
		return unknownDir, false
	}
}

func composePreview(name, dest string) string {
	if name == "" {
		return "Adding show into " + dest
	}
	return "Adding show " + name + "\ninto " + dest
}
