package threads

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

func TestResolveDepths_SpecScenario(t *testing.T) {
	rs := set(
		domain.Record{ID: "a", GroupID: "P1"},
		domain.Record{ID: "b", ParentID: "a", GroupID: "P1"},
		domain.Record{ID: "c", ParentID: "z", GroupID: "P1"},
	)
	f := BuildForest(rs)

	depths, unreached := ResolveDepths(rs, f)
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 0}, depths)
	assert.Zero(t, unreached)
}

func TestResolveDepths_ChildIsParentPlusOne(t *testing.T) {
	rs := set(
		domain.Record{ID: "r"},
		domain.Record{ID: "c1", ParentID: "r"},
		domain.Record{ID: "c2", ParentID: "c1"},
		domain.Record{ID: "c3", ParentID: "c2"},
	)
	f := BuildForest(rs)

	depths, _ := ResolveDepths(rs, f)
	for parent, children := range f.Children {
		for _, child := range children {
			assert.Equal(t, depths[parent]+1, depths[child])
		}
	}
}

func TestResolveDepths_CycleTerminates(t *testing.T) {
	rs := set(
		domain.Record{ID: "a", ParentID: "b", GroupID: "P1"},
		domain.Record{ID: "b", ParentID: "a", GroupID: "P1"},
	)
	f := BuildForest(rs)

	depths, unreached := ResolveDepths(rs, f)
	assert.Empty(t, depths)
	assert.Equal(t, 2, unreached)
	// Defensive default for unreached nodes.
	assert.GreaterOrEqual(t, DepthOf(depths, "a"), 0)
	assert.GreaterOrEqual(t, DepthOf(depths, "b"), 0)
}

func TestResolveDepths_DiamondKeepsShallowestDepth(t *testing.T) {
	// Two roots reach "shared"; BFS must keep the shallower path.
	rs := set(
		domain.Record{ID: "r1"},
		domain.Record{ID: "mid", ParentID: "r1"},
		domain.Record{ID: "shared", ParentID: "mid"},
		domain.Record{ID: "r2"},
	)
	f := BuildForest(rs)
	// Simulate a duplicate edge from the second root.
	f.Children["r2"] = append(f.Children["r2"], "shared")

	depths, _ := ResolveDepths(rs, f)
	assert.Equal(t, 1, depths["shared"])
}

func TestResolveDepths_LargeChainStaysLinear(t *testing.T) {
	var recs []domain.Record
	recs = append(recs, domain.Record{ID: "n0"})
	for i := 1; i < 5000; i++ {
		recs = append(recs, domain.Record{
			ID:       fmt.Sprintf("n%d", i),
			ParentID: fmt.Sprintf("n%d", i-1),
		})
	}
	rs := FromRecords(recs)
	f := BuildForest(rs)

	depths, unreached := ResolveDepths(rs, f)
	require.Zero(t, unreached)
	assert.Equal(t, 4999, depths["n4999"])
}
