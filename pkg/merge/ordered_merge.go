package merge

// mergeOrdered implements the OrderedMerge state machine of spec §4.3:
// two cursors walk left's and right's children; at each step the current
// pair is classified as an unmatched-left change, an unmatched-right
// change, or a mutually matched pair to recurse into.
//
// Grounded on original_source's OrderedMerge.merge, restructured around a
// single handleUnmatched helper shared by both cursor directions instead
// of Java's two near-duplicate nested-if blocks.
func (e *Engine[N]) mergeOrdered(scenario MergeScenario[N], target *Artifact[N]) error {
	left, base, right := scenario.Left, scenario.Base, scenario.Right
	hasBase := base != nil

	var baseRev Revision
	if hasBase {
		baseRev = base.revision
	}

	L, R := left.revision, right.revision
	leftChildren := left.Children()
	rightChildren := right.Children()
	li, ri := 0, 0

	for li < len(leftChildren) || ri < len(rightChildren) {
		leftDone := li >= len(leftChildren)
		rightDone := ri >= len(rightChildren)

		var leftChild, rightChild *Artifact[N]
		if !leftDone {
			leftChild = leftChildren[li]
		}

		if !rightDone {
			rightChild = rightChildren[ri]
		}

		switch {
		case !leftDone && !hasMatch(leftChild, R):
			advancedRight, err := e.handleUnmatched(leftChild, L, rightChild, R, rightDone, base, hasBase, baseRev, target, true)
			if err != nil {
				return err
			}

			li++
			if advancedRight {
				ri++
			}
		case !rightDone && !hasMatch(rightChild, L):
			advancedLeft, err := e.handleUnmatched(rightChild, R, leftChild, L, leftDone, base, hasBase, baseRev, target, false)
			if err != nil {
				return err
			}

			ri++
			if advancedLeft {
				li++
			}
		case !leftDone && !rightDone:
			if err := e.mergeMatchedChildren(leftChild, rightChild, base, hasBase, target); err != nil {
				return err
			}

			li++
			ri++
		case !leftDone:
			// A matched pair the matcher did not keep in lockstep; safe
			// to treat the stray child as an addition rather than drop it.
			if err := e.applier.Apply(Add(leftChild, target)); err != nil {
				return err
			}

			leftChild.SetMerged()
			li++
		default:
			if err := e.applier.Apply(Add(rightChild, target)); err != nil {
				return err
			}

			rightChild.SetMerged()
			ri++
		}
	}

	return nil
}

// handleUnmatched processes the cursor pair when thisChild (drawn from
// thisRev) has no match recorded against otherRev. thisIsLeft only
// affects how emitted CONFLICT operations label their two alternatives;
// the decision logic itself is symmetric. It reports whether the other
// cursor was also consumed by this call.
func (e *Engine[N]) handleUnmatched(
	thisChild *Artifact[N], thisRev Revision,
	otherChild *Artifact[N], otherRev Revision, otherDone bool,
	base *Artifact[N], hasBase bool, baseRev Revision,
	target *Artifact[N], thisIsLeft bool,
) (advancedOther bool, err error) {
	if hasBase && hasMatch(thisChild, baseRev) {
		// thisChild was deleted on the other side.
		if thisChild.node.HasChanges() {
			return true, e.emitConflict(thisChild, otherChild, thisIsLeft, target)
		}

		return false, e.applier.Apply(Delete(thisChild))
	}

	// thisChild is a change: either a genuine insertion, or an edit with
	// no base counterpart at all.
	if !otherDone && !hasMatch(otherChild, thisRev) {
		if hasBase && hasMatch(otherChild, baseRev) {
			if otherChild.node.HasChanges() {
				return true, e.emitConflict(thisChild, otherChild, thisIsLeft, target)
			}

			// otherChild was safely deleted relative to base; thisChild's
			// insertion wins the position uncontested.
			thisChild.SetMerged()

			return false, e.applier.Apply(Add(thisChild, target))
		}

		// Both sides inserted distinct content at the same position.
		return true, e.emitConflict(thisChild, otherChild, thisIsLeft, target)
	}

	thisChild.SetMerged()

	return false, e.applier.Apply(Add(thisChild, target))
}

func (e *Engine[N]) emitConflict(thisChild, otherChild *Artifact[N], thisIsLeft bool, target *Artifact[N]) error {
	left, right := thisChild, otherChild
	if !thisIsLeft {
		left, right = otherChild, thisChild
	}

	return e.applier.Apply(Conflict(left, right, target, e.ctx.leftLabel(), e.ctx.rightLabel()))
}

// mergeMatchedChildren recurses into a pair of children matched to each
// other, choosing two-way or three-way merge depending on whether the
// left child has a counterpart in base (spec §4.3).
func (e *Engine[N]) mergeMatchedChildren(leftChild, rightChild, base *Artifact[N], hasBase bool, target *Artifact[N]) error {
	if leftChild.Merged() || rightChild.Merged() {
		return nil
	}

	return e.spawnChildMerge(leftChild, rightChild, base, hasBase, target)
}
