package merge

import "fmt"

// Engine runs a three-way (or two-way) structural merge: it owns the
// MergeContext and an Applier, and dispatches each recursive MERGE
// operation to OrderedMerge or UnorderedMerge based on the matched
// node's declared ordering (spec §4.3 Dispatch).
type Engine[N TreeNode] struct {
	ctx     *MergeContext[N]
	applier *Applier[N]
}

// NewEngine returns an Engine driven by ctx. The Applier is wired back
// to the Engine after construction, since MERGE operations recurse
// through the Engine while the Engine dispatches through the Applier —
// the two are mutually referential by design, not an accident of
// initialization order.
func NewEngine[N TreeNode](ctx *MergeContext[N]) *Engine[N] {
	e := &Engine[N]{ctx: ctx}
	e.applier = NewApplier(ctx.Numbering, e)

	return e
}

// Merge runs a full merge of scenario into a freshly created target root,
// returning the target once every operation the engine emits has been
// applied. Callers needing PrettyPrint output should call target.PrettyPrint()
// afterward; RebuildAST is not run implicitly so callers can inspect or
// discard a cancelled partial result first (spec §5).
func (e *Engine[N]) Merge(scenario MergeScenario[N]) (*Artifact[N], error) {
	target := CreateEmpty[N](Target, scenario.Left.node, e.ctx.Numbering)

	// fixedArityTrap splices a CONFLICT node in place of target by
	// removing target from its parent; at the tree root target has no
	// parent to remove it from, so it is given a throwaway one here and
	// the actual result (target, or the conflict node that replaced it)
	// is read back out afterward.
	wrapper := CreateEmpty[N](Target, scenario.Left.node, e.ctx.Numbering)
	wrapper.AddChild(target)

	if err := e.MergeInto(scenario, target); err != nil {
		return target, err
	}

	result := target
	if children := wrapper.Children(); len(children) == 1 {
		result = children[0]
	}

	result.Renumber(e.ctx.Numbering)

	return result, nil
}

// MergeInto merges scenario's children into target, which must already
// wrap a node of the same kind as scenario.Left's (spec §4.1:
// "createEmpty" or a clone already attached to its parent by the caller).
func (e *Engine[N]) MergeInto(scenario MergeScenario[N], target *Artifact[N]) error {
	if err := e.ctx.checkCancelled(); err != nil {
		return err
	}

	if e.ctx.Strategy == LineBasedStrategy {
		return e.fallbackLineBased(scenario, target)
	}

	combined := e.ctx.Strategy == CombinedStrategy

	if (e.ctx.Strategy == SemistructuredStrategy || combined) &&
		scenario.Left.node.IsLeaf() && scenario.Right.node.IsLeaf() {
		return e.mergeSemistructured(scenario, target)
	}

	if combined {
		return e.mergeCombined(scenario, target)
	}

	if trapped, err := e.fixedArityTrap(scenario, target); trapped {
		return err
	}

	if scenario.Left.node.IsOrdered() {
		return e.mergeOrdered(scenario, target)
	}

	return e.mergeUnordered(scenario, target)
}

// mergeCombined implements CombinedStrategy (spec §6 bullet 5): attempt
// the structured merge first, then fall back to a whole-subtree
// line-based text merge for any subtree the structured attempt could not
// fully resolve — either because the fixed-arity preflight would have
// trapped it, or because it left a CONFLICT node among target's direct
// children.
func (e *Engine[N]) mergeCombined(scenario MergeScenario[N], target *Artifact[N]) error {
	if arityTrapped(scenario) {
		return e.fallbackLineBased(scenario, target)
	}

	var err error
	if scenario.Left.node.IsOrdered() {
		err = e.mergeOrdered(scenario, target)
	} else {
		err = e.mergeUnordered(scenario, target)
	}

	if err != nil {
		return err
	}

	if !anyChildConflict(target) {
		return nil
	}

	return e.fallbackLineBased(scenario, target)
}

// anyChildConflict reports whether any direct child of target is a
// CONFLICT pseudo-node, the signal mergeCombined uses to decide the
// structured attempt could not resolve this subtree.
func anyChildConflict[N TreeNode](target *Artifact[N]) bool {
	for _, c := range target.Children() {
		if c.IsConflict() {
			return true
		}
	}

	return false
}

// fallbackLineBased discards whatever the structural attempt left in
// target (if anything) and re-merges scenario's whole subtree as text via
// the line-based strategy — the LineBasedStrategy top-level dispatch and
// the CombinedStrategy retry path both land here.
func (e *Engine[N]) fallbackLineBased(scenario MergeScenario[N], target *Artifact[N]) error {
	leftText, err := scenario.Left.PrettyPrint()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExternalStrategyFailed, err)
	}

	rightText, err := scenario.Right.PrettyPrint()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExternalStrategyFailed, err)
	}

	hasBase := scenario.Type == ThreeWay && scenario.Base != nil

	var baseText string
	if hasBase {
		baseText, err = scenario.Base.PrettyPrint()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExternalStrategyFailed, err)
		}
	}

	merged, conflicts, err := mergeLineText(leftText, baseText, hasBase, rightText)
	if err != nil {
		return err
	}

	target.SetChildren(nil)
	target.node.SetContent(merged)

	if conflicts == 0 {
		return nil
	}

	return e.spliceConflict(scenario, target)
}

// fixedArityTrap implements spec §4.3's safety preflight: if the merged
// node kind has a fixed arity and both sides changed it, and the two
// sides' children disagree on count or kind at some position, structural
// merge is abandoned in favor of a single whole-subtree CONFLICT. This
// prevents RebuildAST from ever being asked to reassemble a tree that
// violates the grammar's arity contract.
func (e *Engine[N]) fixedArityTrap(scenario MergeScenario[N], target *Artifact[N]) (trapped bool, err error) {
	if !arityTrapped(scenario) {
		return false, nil
	}

	return true, e.spliceConflict(scenario, target)
}

// arityTrapped is fixedArityTrap's pure predicate, reused by
// mergeCombined to decide whether to skip the structured attempt
// entirely in favor of the line-based fallback.
func arityTrapped[N TreeNode](scenario MergeScenario[N]) bool {
	left, right := scenario.Left, scenario.Right

	if _, ok := left.node.FixedArity(); !ok {
		return false
	}

	if !left.node.HasChanges() || !right.node.HasChanges() {
		return false
	}

	return childShapeDiffers(left, right)
}

// spliceConflict replaces target with a CONFLICT node wrapping
// scenario's two sides: remove target from its parent (if attached) and
// apply a CONFLICT operation in its place.
func (e *Engine[N]) spliceConflict(scenario MergeScenario[N], target *Artifact[N]) error {
	parent := target.Parent()
	if parent != nil {
		parent.RemoveChild(target)
	}

	op := Conflict(scenario.Left, scenario.Right, parent, e.ctx.leftLabel(), e.ctx.rightLabel())

	return e.applier.Apply(op)
}

func childShapeDiffers[N TreeNode](left, right *Artifact[N]) bool {
	lc, rc := left.Children(), right.Children()
	if len(lc) != len(rc) {
		return true
	}

	for i := range lc {
		if lc[i].node.Kind() != rc[i].node.Kind() {
			return true
		}
	}

	return false
}

// spawnChildMerge constructs the recursive child scenario for a pair of
// children matched to each other: the base counterpart if one exists
// (three-way) or a synthesized empty base (two-way), and a target child
// pre-attached to target with no children of its own yet (spec §4.3:
// "recursively MERGE(lc <-> baseChild <-> rc, targetChild)").
func (e *Engine[N]) spawnChildMerge(leftChild, rightChild, base *Artifact[N], hasBase bool, target *Artifact[N]) error {
	var baseChild *Artifact[N]

	scenarioType := TwoWay

	if hasBase {
		if bc, ok := matchedTo(leftChild, base.revision); ok {
			baseChild = bc
			scenarioType = ThreeWay
		}
	}

	if baseChild == nil {
		baseChild = CreateEmpty[N](Base, leftChild.node, e.ctx.Numbering)
	}

	targetChild := leftChild.Clone(target.revision, e.ctx.Numbering)
	targetChild.SetChildren(nil)
	target.AddChild(targetChild)

	leftChild.SetMerged()
	rightChild.SetMerged()

	scenario := MergeScenario[N]{Left: leftChild, Base: baseChild, Right: rightChild, Type: scenarioType}

	return e.applier.Apply(Merge(scenario, targetChild))
}
