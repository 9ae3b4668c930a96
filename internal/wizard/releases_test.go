package wizard

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Digital-Shane/show-onboard/internal/indexer"
)

func groupsFor(name string) (*indexer.ReleaseGroupsResponse, error) {
	return &indexer.ReleaseGroupsResponse{
		Result: indexer.ResultSuccess,
		Groups: []indexer.ReleaseGroup{
			{Name: name + "A", Rating: "8", Range: "1-50"},
			{Name: name + "B", Rating: "6", Range: "51-100"},
		},
	}, nil
}

func labels(entries []ReleaseEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Label)
	}
	return out
}

// Scenario E.
func TestAnimeToggleLoadsReleaseGroups(t *testing.T) {
	svc := &fakeService{releaseGroups: func(context.Context, string) (*indexer.ReleaseGroupsResponse, error) {
		return &indexer.ReleaseGroupsResponse{
			Result: indexer.ResultSuccess,
			Groups: []indexer.ReleaseGroup{{Name: "GroupA", Rating: "8", Range: "1-50"}},
		}, nil
	}}
	c := newController(svc, func(o *Options) {
		o.ProvidedName = "Bleach"
		o.ProvidedIdentity = "1|74796"
	})

	drain(t, c, c.SetAnime(true))

	pools := c.Pools()
	if !pools.Visible || pools.Loading {
		t.Errorf("Pools() = %+v, want visible and loaded", pools)
	}
	if diff := cmp.Diff([]string{"GroupA | 8 | 1-50"}, labels(pools.Unassigned)); diff != "" {
		t.Errorf("unassigned mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Bleach"}, svc.groupLookups); diff != "" {
		t.Errorf("lookups mismatch (-want +got):\n%s", diff)
	}
	if c.Step() != StepOptions {
		t.Errorf("Step() = %v, want %v", c.Step(), StepOptions)
	}

	c.Allow(0)
	pools = c.Pools()
	if len(pools.Unassigned) != 0 || !cmp.Equal([]string{"GroupA | 8 | 1-50"}, labels(pools.Allow)) {
		t.Errorf("after Allow(0) Pools() = %+v", pools)
	}

	c.Unassign(PoolAllow, 0)
	c.Allow(5)
	c.Block(0)
	pools = c.Pools()
	if len(pools.Allow) != 0 || len(pools.Unassigned) != 0 || !cmp.Equal([]string{"GroupA | 8 | 1-50"}, labels(pools.Block)) {
		t.Errorf("after Unassign and Block(0) Pools() = %+v", pools)
	}

	drain(t, c, c.SetAnime(false))
	pools = c.Pools()
	if pools.Visible || len(pools.Unassigned)+len(pools.Allow)+len(pools.Block) != 0 {
		t.Errorf("after anime off Pools() = %+v, want hidden and empty", pools)
	}
}

func TestReleaseGroupsFollowSelectedShow(t *testing.T) {
	svc := &fakeService{
		search: func(context.Context, indexer.SearchRequest) (*indexer.SearchResponse, error) {
			return &indexer.SearchResponse{Results: rows(t,
				[]any{nil, 1, "/s/", "1", "Bleach", nil},
				[]any{nil, 1, "/s/", "2", "Naruto", nil},
			)}, nil
		},
		releaseGroups: func(_ context.Context, name string) (*indexer.ReleaseGroupsResponse, error) {
			return groupsFor(name)
		},
	}
	c := newController(svc, func(o *Options) { o.Anime = true })

	drain(t, c, c.Search("x", "en", 1))
	drain(t, c, c.SelectCandidate(1))
	// Reselecting the same name does not refetch.
	drain(t, c, c.Recompute())

	if diff := cmp.Diff([]string{"Bleach", "Naruto"}, svc.groupLookups); diff != "" {
		t.Errorf("lookups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"NarutoA | 8 | 1-50", "NarutoB | 6 | 51-100"}, labels(c.Pools().Unassigned)); diff != "" {
		t.Errorf("unassigned mismatch (-want +got):\n%s", diff)
	}
}

func TestReleaseGroupsStaleAndFailedResponses(t *testing.T) {
	svc := &fakeService{releaseGroups: func(_ context.Context, name string) (*indexer.ReleaseGroupsResponse, error) {
		return groupsFor(name)
	}}
	c := newController(svc, func(o *Options) {
		o.ProvidedName = "Naruto"
		o.ProvidedIdentity = "1|2"
	})

	stale := collect(c.SetAnime(true))
	fresh := collect(c.SetAnime(true))
	for _, msg := range fresh {
		c.Update(msg)
	}
	for _, msg := range stale {
		c.Update(msg)
	}
	if got := len(c.Pools().Unassigned); got != 2 {
		t.Errorf("unassigned = %d entries, want 2 without duplicates", got)
	}

	late := collect(c.SetAnime(true))
	drain(t, c, c.SetAnime(false))
	for _, msg := range late {
		c.Update(msg)
	}
	if got := c.Pools(); got.Visible || len(got.Unassigned) != 0 {
		t.Errorf("response after anime off applied: %+v", got)
	}

	svc.releaseGroups = func(context.Context, string) (*indexer.ReleaseGroupsResponse, error) {
		return &indexer.ReleaseGroupsResponse{Result: "unavailable", Groups: []indexer.ReleaseGroup{{Name: "X"}}}, nil
	}
	drain(t, c, c.SetAnime(true))
	if got := c.Pools(); got.Loading || len(got.Unassigned) != 0 {
		t.Errorf("non-success response applied: %+v", got)
	}
}
