package wizard

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Digital-Shane/show-onboard/internal/indexer"
)

// Pool names one of the release group lists.
type Pool int

const (
	PoolUnassigned Pool = iota
	PoolAllow
	PoolBlock
)

// ReleaseEntry is one release group in a pool.
type ReleaseEntry struct {
	Name  string
	Label string // "name | rating | range"
}

// ReleasePools are the allow, block and unassigned release group lists.
type ReleasePools struct {
	Visible    bool
	Loading    bool
	Allow      []ReleaseEntry
	Block      []ReleaseEntry
	Unassigned []ReleaseEntry
}

type releaseState struct {
	ReleasePools
	gen     uint64
	forName string
}

type releaseGroupsMsg struct {
	gen  uint64
	name string
	resp *indexer.ReleaseGroupsResponse
	err  error
}

// Pools returns a copy of the release group pools.
func (c *Controller) Pools() ReleasePools {
	p := c.pools.ReleasePools
	p.Allow = append([]ReleaseEntry(nil), p.Allow...)
	p.Block = append([]ReleaseEntry(nil), p.Block...)
	p.Unassigned = append([]ReleaseEntry(nil), p.Unassigned...)
	return p
}

// loadReleaseGroups clears every pool and, when the anime flag is on and a
// show name is known, fetches that show's release groups.
func (c *Controller) loadReleaseGroups(name string) tea.Cmd {
	c.pools.gen++
	c.pools.forName = name
	c.pools.ReleasePools = ReleasePools{Visible: c.anime}

	if !c.anime || name == "" || c.svc == nil {
		return nil
	}
	c.pools.Loading = true

	gen := c.pools.gen
	svc := c.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), auxTimeout)
		defer cancel()
		resp, err := svc.ReleaseGroups(ctx, name)
		return releaseGroupsMsg{gen: gen, name: name, resp: resp, err: err}
	}
}

func (c *Controller) handleReleaseGroups(msg releaseGroupsMsg) {
	if msg.gen != c.pools.gen || !c.anime {
		c.logger.Debug().Str("name", msg.name).Msg("Dropping stale release group response")
		return
	}
	c.pools.Loading = false

	if msg.err != nil {
		c.logger.Debug().Err(msg.err).Str("name", msg.name).Msg("Release group fetch failed")
		return
	}
	if msg.resp == nil || msg.resp.Result != indexer.ResultSuccess {
		return
	}

	for _, group := range msg.resp.Groups {
		c.pools.Unassigned = append(c.pools.Unassigned, ReleaseEntry{
			Name:  group.Name,
			Label: fmt.Sprintf("%s | %s | %s", group.Name, group.Rating, group.Range),
		})
	}
}

// Allow moves unassigned entry i to the allow list.
func (c *Controller) Allow(i int) {
	c.move(PoolUnassigned, i, PoolAllow)
}

// Block moves unassigned entry i to the block list.
func (c *Controller) Block(i int) {
	c.move(PoolUnassigned, i, PoolBlock)
}

// Unassign moves entry i of pool back to the unassigned pool.
func (c *Controller) Unassign(pool Pool, i int) {
	c.move(pool, i, PoolUnassigned)
}

func (c *Controller) move(from Pool, i int, to Pool) {
	src := c.poolList(from)
	if from == to || i < 0 || i >= len(*src) {
		return
	}
	entry := (*src)[i]
	*src = append((*src)[:i:i], (*src)[i+1:]...)
	dst := c.poolList(to)
	*dst = append(*dst, entry)
}

func (c *Controller) poolList(pool Pool) *[]ReleaseEntry {
	switch pool {
	case PoolAllow:
		return &c.pools.Allow
	case PoolBlock:
		return &c.pools.Block
	default:
		return &c.pools.Unassigned
	}
}
