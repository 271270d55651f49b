package threads

// Forest is the parent->children index over one RecordSet snapshot,
// plus the set of roots. It is derived, never stored, and never mutated
// after BuildForest returns.
type Forest struct {
	// Children maps a record id to its child ids in input order.
	Children map[string][]string

	// Roots lists every record with no resolvable parent, in input order.
	Roots []string

	rootSet map[string]struct{}
}

// BuildForest constructs the children index and root set in a single
// pass. A record becomes a child only when its declared parent is
// present, resolvable and not itself; everything else is a root. A
// parent referenced by several children collects them all, order
// preserved.
func BuildForest(rs *RecordSet) *Forest {
	f := &Forest{
		Children: make(map[string][]string),
		rootSet:  make(map[string]struct{}, rs.Len()),
	}

	for _, rec := range rs.Records() {
		parent := rec.ParentID
		if parent == "" || parent == rec.ID || rs.Get(parent) == nil {
			// Absent, self-referential or unresolvable parent: root.
			f.rootSet[rec.ID] = struct{}{}
			continue
		}
		f.Children[parent] = append(f.Children[parent], rec.ID)
	}

	// Second pass keeps Roots in input order.
	for _, rec := range rs.Records() {
		if _, ok := f.rootSet[rec.ID]; ok {
			f.Roots = append(f.Roots, rec.ID)
		}
	}
	return f
}

// IsRoot reports whether id has no resolvable parent.
func (f *Forest) IsRoot(id string) bool {
	_, ok := f.rootSet[id]
	return ok
}
