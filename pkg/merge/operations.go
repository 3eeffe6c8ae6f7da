package merge

import "fmt"

// OpKind discriminates the four operation values the merge engines emit
// (spec §3: "Operations are values, not mutable objects").
type OpKind int

// Operation kinds.
const (
	OpAdd OpKind = iota
	OpDelete
	OpMerge
	OpConflict
)

// String implements fmt.Stringer.
func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "ADD"
	case OpDelete:
		return "DELETE"
	case OpMerge:
		return "MERGE"
	case OpConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// Operation is an immutable description of one step the merge engines
// want the applier to carry out. Exactly the fields relevant to Kind are
// populated; the zero value of the rest is ignored.
type Operation[N TreeNode] struct {
	Kind OpKind

	// ADD: Source is the artifact to clone into TargetParent.
	// DELETE: Source is the victim, already known to be excluded.
	Source *Artifact[N]

	// ADD: where the clone is attached.
	TargetParent *Artifact[N]

	// MERGE: the scenario to recurse into, and the target node that will
	// receive the merged result.
	Scenario MergeScenario[N]
	Target   *Artifact[N]

	// CONFLICT: the two alternatives, the parent to attach the conflict
	// pseudo-node to, and the display names for marker lines.
	Left, Right          *Artifact[N]
	ConflictParent       *Artifact[N]
	LeftName, RightName  string
}

// Add builds an ADD operation.
func Add[N TreeNode](source, targetParent *Artifact[N]) Operation[N] {
	return Operation[N]{Kind: OpAdd, Source: source, TargetParent: targetParent}
}

// Delete builds a DELETE operation.
func Delete[N TreeNode](victim *Artifact[N]) Operation[N] {
	return Operation[N]{Kind: OpDelete, Source: victim}
}

// Merge builds a MERGE operation.
func Merge[N TreeNode](scenario MergeScenario[N], target *Artifact[N]) Operation[N] {
	return Operation[N]{Kind: OpMerge, Scenario: scenario, Target: target}
}

// Conflict builds a CONFLICT operation.
func Conflict[N TreeNode](left, right, parent *Artifact[N], leftName, rightName string) Operation[N] {
	return Operation[N]{
		Kind:           OpConflict,
		Left:           left,
		Right:          right,
		ConflictParent: parent,
		LeftName:       leftName,
		RightName:      rightName,
	}
}

// Applier executes operations against a target tree. Each Apply call is
// idempotent given the same input state (spec §3): an ADD or DELETE whose
// source is already merged is a no-op, and so is a CONFLICT whose
// alternatives are all absent or already merged.
type Applier[N TreeNode] struct {
	num *Numbering
	eng *Engine[N]
}

// NewApplier returns an Applier drawing fresh numbers from num and
// dispatching MERGE operations back through eng.
func NewApplier[N TreeNode](num *Numbering, eng *Engine[N]) *Applier[N] {
	return &Applier[N]{num: num, eng: eng}
}

// Apply carries out op, mutating only the target side of the merge (spec
// §5: "the engine mutates only the target tree").
func (ap *Applier[N]) Apply(op Operation[N]) error {
	switch op.Kind {
	case OpAdd:
		return ap.applyAdd(op)
	case OpDelete:
		return ap.applyDelete(op)
	case OpMerge:
		return ap.applyMerge(op)
	case OpConflict:
		return ap.applyConflict(op)
	default:
		return fmt.Errorf("merge: unknown operation kind %v", op.Kind)
	}
}

func (ap *Applier[N]) applyAdd(op Operation[N]) error {
	if op.Source.Merged() {
		return nil
	}

	clone := op.Source.Clone(op.Source.revision, ap.num)
	op.TargetParent.AddChild(clone)
	op.Source.SetMerged()

	return nil
}

func (ap *Applier[N]) applyDelete(op Operation[N]) error {
	if op.Source.Merged() {
		return nil
	}

	op.Source.SetMerged()

	return nil
}

func (ap *Applier[N]) applyMerge(op Operation[N]) error {
	return ap.eng.MergeInto(op.Scenario, op.Target)
}

func (ap *Applier[N]) applyConflict(op Operation[N]) error {
	leftDone := op.Left == nil || op.Left.Merged()
	rightDone := op.Right == nil || op.Right.Merged()

	if leftDone && rightDone {
		return nil
	}

	conflictNode, err := ap.buildConflictNode(op)
	if err != nil {
		return err
	}

	if op.Left != nil {
		op.Left.SetMerged()
	}

	if op.Right != nil {
		op.Right.SetMerged()
	}

	if op.ConflictParent != nil {
		op.ConflictParent.AddChild(conflictNode)
	}

	return nil
}

// buildConflictNode synthesizes the CONFLICT pseudo-node for op. When one
// side is absent (a pure deletion facing a modification) it falls back to
// CreateConflictOneSided with empty text for the missing side; an
// operation with neither side returns ErrConflictRevisionUnknown.
func (ap *Applier[N]) buildConflictNode(op Operation[N]) (*Artifact[N], error) {
	switch {
	case op.Left != nil && op.Right != nil:
		return CreateConflict(op.Left, op.Right, op.LeftName, op.RightName, ap.num), nil
	case op.Left != nil:
		return CreateConflictOneSided(op.Left, true, "", op.LeftName, op.RightName, ap.num)
	case op.Right != nil:
		return CreateConflictOneSided(op.Right, false, "", op.LeftName, op.RightName, ap.num)
	default:
		return nil, fmt.Errorf("%w: conflict operation has neither side", ErrConflictRevisionUnknown)
	}
}
