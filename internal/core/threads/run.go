package threads

import "github.com/orca-labs/orca-cli/internal/core/domain"

// Result bundles one full pipeline pass over a record snapshot.
type Result struct {
	Stats       []domain.GroupStats
	Sample      domain.Sample
	Diagnostics domain.Diagnostics
}

// Run executes the whole pipeline: forest build, depth resolution,
// group aggregation and sample rendering. Given an identical snapshot
// the output is byte-identical across runs.
func Run(rs *RecordSet, cfg RenderConfig) Result {
	forest := BuildForest(rs)
	depths, unreached := ResolveDepths(rs, forest)

	return Result{
		Stats:  AggregateGroups(rs, depths),
		Sample: RenderSample(rs, forest, depths, cfg),
		Diagnostics: domain.Diagnostics{
			Dropped:    rs.Dropped(),
			Duplicates: rs.Duplicates(),
			Unreached:  unreached,
		},
	}
}
