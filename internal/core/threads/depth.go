package threads

// queueItem is one BFS work unit.
type queueItem struct {
	id    string
	depth int
}

// ResolveDepths assigns every reachable record its shortest-path depth
// from the nearest root via multi-source breadth-first traversal.
// The first assignment wins; because BFS dequeues in non-decreasing
// depth order that is always the shallowest, and the visited check makes
// termination independent of duplicate or cyclic edges.
//
// The second return value counts records no root could reach. That only
// happens when reply pointers form a cycle disconnected from every root;
// such records keep the defensive depth 0.
func ResolveDepths(rs *RecordSet, f *Forest) (map[string]int, int) {
	depths := make(map[string]int, rs.Len())

	queue := make([]queueItem, 0, len(f.Roots))
	for _, root := range f.Roots {
		queue = append(queue, queueItem{id: root})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if _, seen := depths[item.id]; seen {
			continue
		}
		depths[item.id] = item.depth

		for _, child := range f.Children[item.id] {
			queue = append(queue, queueItem{id: child, depth: item.depth + 1})
		}
	}

	unreached := rs.Len() - len(depths)
	return depths, unreached
}

// DepthOf returns the resolved depth for id, defaulting to 0 for
// records the traversal never reached.
func DepthOf(depths map[string]int, id string) int {
	return depths[id]
}
