package merge

import "fmt"

// matchEngine unifies the classical Matcher and the alternative
// CostModelMatcher (spec §4.2) behind one interface, so the top-level
// entry points below do not need to know which one ctx.UseCostModel
// selects.
type matchEngine[N TreeNode] interface {
	Match(left, right *Artifact[N]) *Matchings[N]
}

func newMatchEngine[N TreeNode](ctx *MergeContext[N]) matchEngine[N] {
	if ctx.UseCostModel {
		return NewCostModelMatcher[N](ctx.Weights)
	}

	return NewMatcherWithLookAhead[N](ctx.LookAhead)
}

// mergeWholeFile implements the LineBasedStrategy top-level dispatch
// (spec §6 bullet 2): the whole file is merged as text via the
// line-based strategy, bypassing the tree matcher and merge engine
// (newMatchEngine/NewEngine) entirely — there is no subtree to recurse
// into when the file is treated as flat text.
func mergeWholeFile[N TreeNode](ctx *MergeContext[N], scenario MergeScenario[N]) (*Artifact[N], error) {
	if ctx.UseCostModel {
		return nil, fmt.Errorf(
			"%w: cost-model matching has nothing to match under the line-based strategy",
			ErrUnsupportedScenario,
		)
	}

	leftText, err := scenario.Left.PrettyPrint()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalStrategyFailed, err)
	}

	rightText, err := scenario.Right.PrettyPrint()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalStrategyFailed, err)
	}

	hasBase := scenario.Type == ThreeWay && scenario.Base != nil

	var baseText string
	if hasBase {
		baseText, err = scenario.Base.PrettyPrint()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExternalStrategyFailed, err)
		}
	}

	merged, conflicts, err := mergeLineText(leftText, baseText, hasBase, rightText)
	if err != nil {
		return nil, err
	}

	target := CreateEmpty[N](Target, scenario.Left.node, ctx.Numbering)
	target.node.SetContent(merged)

	if conflicts == 0 {
		return target, nil
	}

	return CreateConflict(scenario.Left, scenario.Right, ctx.leftLabel(), ctx.rightLabel(), ctx.Numbering), nil
}

// Merge3 runs a full three-way merge of leftRoot/baseRoot/rightRoot: it
// builds the three Artifact trees, matches every pair of revisions,
// marks each side's change flags relative to base, and runs the merge
// engine selected by ctx.Strategy (spec §4, end to end).
func Merge3[N TreeNode](ctx *MergeContext[N], leftRoot, baseRoot, rightRoot N) (*Artifact[N], error) {
	left := BuildTree[N](Left, leftRoot, ctx.Numbering)
	base := BuildTree[N](Base, baseRoot, ctx.Numbering)
	right := BuildTree[N](Right, rightRoot, ctx.Numbering)

	if ctx.Strategy == LineBasedStrategy {
		return mergeWholeFile(ctx, NewThreeWayScenario(left, base, right))
	}

	me := newMatchEngine(ctx)

	// The classical matcher's subtreeHash memoization is reused by
	// markChanges below, so a fresh *Matcher always backs change
	// detection even when the cost model drives the structural matching
	// itself (spec §9: cost-model matching and change detection are
	// independent concerns).
	cm := NewMatcher[N]()

	me.Match(left, right)
	cm.Match(left, base)
	cm.Match(base, right)

	markChanges(cm, left, Base)
	markChanges(cm, right, Base)

	eng := NewEngine(ctx)

	scenario := NewThreeWayScenario(left, base, right)

	return eng.Merge(scenario)
}

// Merge2 runs a two-way merge of leftRoot/rightRoot with no common
// ancestor: every structural difference between the two sides that the
// matcher cannot align becomes a conflict, since there is no base
// revision to distinguish a safe one-sided change from a genuine clash.
func Merge2[N TreeNode](ctx *MergeContext[N], leftRoot, rightRoot N) (*Artifact[N], error) {
	left := BuildTree[N](Left, leftRoot, ctx.Numbering)
	right := BuildTree[N](Right, rightRoot, ctx.Numbering)

	if ctx.Strategy == LineBasedStrategy {
		return mergeWholeFile(ctx, NewTwoWayScenario(left, right))
	}

	me := newMatchEngine(ctx)
	me.Match(left, right)

	markChanges(NewMatcher[N](), left, Right)
	markChanges(NewMatcher[N](), right, Left)

	eng := NewEngine(ctx)

	scenario := NewTwoWayScenario(left, right)

	return eng.Merge(scenario)
}
