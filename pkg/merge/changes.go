package merge

// markChanges sets the change flag (spec §6) on every node of root's
// subtree: a node is changed if it has no match in base, or if its
// matched base counterpart's subtree hash differs. The matcher between
// root's revision and base must already have run and recorded matches on
// root and its descendants before this is called.
func markChanges[N TreeNode](m *Matcher[N], root *Artifact[N], base Revision) {
	baseMatch, ok := root.MatchFor(base)

	changed := !ok
	if ok {
		other, _ := baseMatch.Other(root)
		changed = m.subtreeHash(root) != m.subtreeHash(other)
	}

	root.node.SetChanges(changed)

	for _, c := range root.children {
		markChanges(m, c, base)
	}
}

// hasMatch reports whether a has a recorded match against the given
// revision.
func hasMatch[N TreeNode](a *Artifact[N], rev Revision) bool {
	_, ok := a.MatchFor(rev)

	return ok
}

// matchedTo returns the artifact a is matched to under the given
// revision, if any.
func matchedTo[N TreeNode](a *Artifact[N], rev Revision) (*Artifact[N], bool) {
	m, ok := a.MatchFor(rev)
	if !ok {
		return nil, false
	}

	other, _ := m.Other(a)

	return other, true
}
