package merge

// mergeUnordered implements UnorderedMerge (spec §4.3): sibling groups
// are treated as sets keyed by match identity rather than position.
// Members are emitted in the order of the side that contributed them,
// left before right on ties, so output ordering stays deterministic
// despite the set semantics (spec §4.3, §8).
func (e *Engine[N]) mergeUnordered(scenario MergeScenario[N], target *Artifact[N]) error {
	left, base, right := scenario.Left, scenario.Base, scenario.Right
	hasBase := base != nil

	var baseRev Revision
	if hasBase {
		baseRev = base.revision
	}

	L, R := left.revision, right.revision

	for _, leftChild := range left.Children() {
		if leftChild.Merged() {
			continue
		}

		if rightChild, ok := matchedTo(leftChild, R); ok {
			if err := e.unorderedMatched(leftChild, rightChild, base, hasBase, target); err != nil {
				return err
			}

			continue
		}

		if err := e.unorderedOneSided(leftChild, hasBase, baseRev, target, true); err != nil {
			return err
		}
	}

	for _, rightChild := range right.Children() {
		if rightChild.Merged() {
			continue
		}

		if _, ok := matchedTo(rightChild, L); ok {
			// Matched pairs are processed exactly once, when their left
			// member is visited in the pass above.
			continue
		}

		if err := e.unorderedOneSided(rightChild, hasBase, baseRev, target, false); err != nil {
			return err
		}
	}

	return nil
}

// unorderedMatched handles a sibling matched on both sides: an unchanged
// pair is copied through without recursing, a changed pair recurses
// through spawnChildMerge exactly as OrderedMerge's matched-pair case
// does (spec §4.3).
func (e *Engine[N]) unorderedMatched(leftChild, rightChild, base *Artifact[N], hasBase bool, target *Artifact[N]) error {
	if leftChild.Merged() || rightChild.Merged() {
		return nil
	}

	if !leftChild.node.HasChanges() && !rightChild.node.HasChanges() {
		leftChild.SetMerged()
		rightChild.SetMerged()

		return e.applier.Apply(Add(leftChild, target))
	}

	return e.spawnChildMerge(leftChild, rightChild, base, hasBase, target)
}

// unorderedOneSided handles a sibling present on exactly one side. If it
// also has a base counterpart, the other side deleted it: that is a safe
// DELETE unless this side changed the subtree, in which case it is a
// deletion/modification CONFLICT with only one alternative present. With
// no base counterpart at all, it is a genuine insertion.
func (e *Engine[N]) unorderedOneSided(child *Artifact[N], hasBase bool, baseRev Revision, target *Artifact[N], isLeft bool) error {
	if hasBase && hasMatch(child, baseRev) {
		if child.node.HasChanges() {
			var left, right *Artifact[N]
			if isLeft {
				left = child
			} else {
				right = child
			}

			return e.applier.Apply(Conflict(left, right, target, e.ctx.leftLabel(), e.ctx.rightLabel()))
		}

		return e.applier.Apply(Delete(child))
	}

	child.SetMerged()

	return e.applier.Apply(Add(child, target))
}
