package threads

import (
	"math"
	"sort"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// AggregateGroups partitions records by group and computes thread
// statistics per group. Records without a group tag are excluded here
// but still participate in global tree construction.
//
// A member counts as a group root when it has no resolvable parent
// inside the group's own member set: an absent parent, a self
// reference, or a parent living in another group all qualify.
//
// The result is ordered by record count desc, then max depth desc,
// ties broken by group id ascending, so repeated runs over the same
// snapshot are byte-identical downstream.
func AggregateGroups(rs *RecordSet, depths map[string]int) []domain.GroupStats {
	members := make(map[string][]*domain.Record)
	var order []string

	for _, rec := range rs.Records() {
		if rec.GroupID == "" {
			continue
		}
		if _, ok := members[rec.GroupID]; !ok {
			order = append(order, rec.GroupID)
		}
		members[rec.GroupID] = append(members[rec.GroupID], rec)
	}

	stats := make([]domain.GroupStats, 0, len(order))
	for _, gid := range order {
		group := members[gid]
		memberSet := make(map[string]struct{}, len(group))
		for _, rec := range group {
			memberSet[rec.ID] = struct{}{}
		}

		var roots, maxDepth int
		var depthSum float64
		for _, rec := range group {
			if !hasInGroupParent(rec, memberSet) {
				roots++
			}
			d := DepthOf(depths, rec.ID)
			if d > maxDepth {
				maxDepth = d
			}
			depthSum += float64(d)
		}

		stats = append(stats, domain.GroupStats{
			GroupID:     gid,
			RecordCount: len(group),
			RootCount:   roots,
			MaxDepth:    maxDepth,
			MeanDepth:   round3(depthSum / float64(len(group))),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].RecordCount != stats[j].RecordCount {
			return stats[i].RecordCount > stats[j].RecordCount
		}
		if stats[i].MaxDepth != stats[j].MaxDepth {
			return stats[i].MaxDepth > stats[j].MaxDepth
		}
		return stats[i].GroupID < stats[j].GroupID
	})
	return stats
}

// hasInGroupParent reports whether rec's parent resolves to a member of
// the same group.
func hasInGroupParent(rec *domain.Record, memberSet map[string]struct{}) bool {
	if rec.ParentID == "" || rec.ParentID == rec.ID {
		return false
	}
	_, ok := memberSet[rec.ParentID]
	return ok
}

// round3 rounds to 3 decimal places for reporting stability.
func round3(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(v*1000) / 1000
}
