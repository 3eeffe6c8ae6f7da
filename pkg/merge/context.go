package merge

import "context"

// Strategy selects how a merge resolves a subtree (spec §6).
type Strategy int

// Strategy values.
const (
	// StructuredStrategy merges purely via the Artifact tree and matcher.
	StructuredStrategy Strategy = iota
	// LineBasedStrategy merges the whole file as text, bypassing the
	// tree matcher entirely.
	LineBasedStrategy
	// SemistructuredStrategy merges the tree structurally but treats
	// method/constructor bodies as opaque text leaves (spec §4.4).
	SemistructuredStrategy
	// CombinedStrategy attempts structured merge first and falls back to
	// line-based for subtrees the structured merge cannot resolve.
	CombinedStrategy
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case StructuredStrategy:
		return "structured"
	case LineBasedStrategy:
		return "linebased"
	case SemistructuredStrategy:
		return "semistructured"
	case CombinedStrategy:
		return "combined"
	default:
		return "unknown"
	}
}

// Weights holds the non-negative cost-model weights from spec §4.2 and §6.
type Weights struct {
	// NoMatch (wn) is the cost of a node that the matching leaves
	// unmatched.
	NoMatch float64
	// Rename (wr) weights the renaming-cost term r(m).
	Rename float64
	// Ancestry (wa) weights the ancestry-violation term a(m, G).
	Ancestry float64
	// Sibling (ws) weights the sibling-group-breakup term s(m, G).
	Sibling float64
}

// DefaultWeights returns the cost-model weights used when none are
// configured: equal weight on renaming, ancestry, and sibling-breakup,
// and a no-match penalty of 1, matching the reference implementation's
// default configuration.
func DefaultWeights() Weights {
	return Weights{NoMatch: 1, Rename: 1, Ancestry: 1, Sibling: 1}
}

// MergeContext carries the merge configuration enumerated in spec §6:
// the selected strategy, output-suppression flags, cost-model weights,
// and the matcher's look-ahead depth. It is created once per merge
// invocation and threaded explicitly; there is no process-wide state
// (spec §9).
type MergeContext[N TreeNode] struct {
	Strategy Strategy

	// Quiet suppresses informational output. Never consulted by
	// algorithmic code paths (spec §5: "logger output must not alter
	// algorithmic behavior when disabled").
	Quiet bool

	// Pretend computes but does not emit: the applier still runs, but
	// the caller is expected to discard the resulting target rather than
	// persist it.
	Pretend bool

	Weights Weights

	// UseCostModel selects the cost-model matcher (spec §4.2) over the
	// classical top-down/bottom-up matcher. The classical matcher is the
	// default: it is cheaper and the reference implementation treats the
	// cost-model matcher as an alternative, not a replacement.
	UseCostModel bool

	// LookAhead is the subtree depth still considered for matching after
	// a mismatch, per spec §6.
	LookAhead int

	Numbering *Numbering

	// LeftLabel and RightLabel are the marker labels CONFLICT operations
	// use (spec §6: "marker labels are the revision names supplied to
	// the CONFLICT operation"). Default to the Left/Right revision
	// strings when empty.
	LeftLabel, RightLabel string

	// Ctx carries the cancellation token checked at each node boundary
	// (spec §5). A cancelled merge leaves the target in an unspecified
	// partial state and must be discarded by the caller.
	Ctx context.Context
}

// leftLabel returns LeftLabel, or the Left revision string if unset.
func (mc *MergeContext[N]) leftLabel() string {
	if mc.LeftLabel != "" {
		return mc.LeftLabel
	}

	return Left.String()
}

// rightLabel returns RightLabel, or the Right revision string if unset.
func (mc *MergeContext[N]) rightLabel() string {
	if mc.RightLabel != "" {
		return mc.RightLabel
	}

	return Right.String()
}

// NewMergeContext returns a MergeContext with default weights, the
// structured strategy, and a fresh per-merge numbering counter.
func NewMergeContext[N TreeNode](ctx context.Context) *MergeContext[N] {
	return &MergeContext[N]{
		Strategy:  StructuredStrategy,
		Weights:   DefaultWeights(),
		LookAhead: 2,
		Numbering: NewNumbering(),
		Ctx:       ctx,
	}
}

// checkCancelled returns ErrCancelled if mc's context has been cancelled.
// Called at each node boundary of the merge walk (spec §5).
func (mc *MergeContext[N]) checkCancelled() error {
	if mc.Ctx == nil {
		return nil
	}

	select {
	case <-mc.Ctx.Done():
		return ErrCancelled
	default:
		return nil
	}
}
