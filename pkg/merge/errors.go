package merge

import "errors"

// Sentinel errors for the merge core's error taxonomy. Callers should use
// errors.Is against these rather than matching error strings.
var (
	// ErrParseFailed indicates a source revision could not be parsed into
	// a tree by the configured TreeNode implementation. The merge is
	// aborted before any matching is attempted.
	ErrParseFailed = errors.New("merge: source parse failed")

	// ErrReconstructionInvariant indicates RebuildAST found a mismatch
	// between an Artifact's child count and its underlying tree node's
	// expected child count on a non-leaf, non-conflict, non-choice node.
	// This signals a bug in the core or in the TreeNode implementation,
	// not a structural conflict in the input; it is never recovered
	// locally.
	ErrReconstructionInvariant = errors.New("merge: reconstruction invariant violated")

	// ErrUnsupportedScenario indicates the selected strategy cannot serve
	// the scenario's type (e.g. a two-way scenario handed to a
	// three-way-only matcher). The strategy layer may retry with a
	// different strategy.
	ErrUnsupportedScenario = errors.New("merge: unsupported merge scenario")

	// ErrExternalStrategyFailed indicates the line-based fallback failed
	// for a subtree or whole file. Fatal for the affected scope.
	ErrExternalStrategyFailed = errors.New("merge: external strategy failed")

	// ErrConflictRevisionUnknown indicates a conflict with no alternative
	// present at all: RebuildAST encountered a conflict node with neither
	// a left nor a right side, CreateConflictOneSided was given a nil
	// present side, or a CONFLICT operation named neither side. A conflict
	// with exactly one side present is not an error.
	ErrConflictRevisionUnknown = errors.New("merge: conflict revision unknown")

	// ErrCancelled indicates the merge's cancellation token was observed
	// set at a node boundary. The target tree built so far must be
	// discarded by the caller.
	ErrCancelled = errors.New("merge: cancelled")
)
