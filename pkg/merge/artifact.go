package merge

import (
	"fmt"

	"github.com/Sumatoshi-tech/treemerge/pkg/alg/mapx"
)

// Numbering is a per-merge scoped monotonic counter. Both real pre-order
// numbers and virtual numbers for synthesized conflict/choice nodes are
// drawn from it. The reference implementation keeps this as a static,
// module-wide counter; per spec §9 ("static mutable singletons") this is
// instead a value threaded explicitly through a single merge invocation,
// so concurrent, independent merges never share mutable state.
type Numbering struct {
	next int
}

// NewNumbering returns a counter starting at 1.
func NewNumbering() *Numbering {
	return &Numbering{}
}

// Next returns the next number and advances the counter.
func (n *Numbering) Next() int {
	n.next++

	return n.next
}

// Artifact wraps a tree node of concrete type N with merge metadata:
// provenance, stable numbering, parent/child structure, cross-revision
// match links, and conflict/choice discriminators (spec §3).
type Artifact[N TreeNode] struct {
	revision Revision
	number   int
	parent   *Artifact[N]
	children []*Artifact[N]
	node     N
	matches  map[Revision]*Matching[N]
	merged   bool

	isConflict        bool
	conflictLeft      *Artifact[N]
	conflictRight     *Artifact[N]
	conflictLeftName  string
	conflictRightName string

	isChoice       bool
	choiceVariants map[string]*Artifact[N]
}

// BuildTree wraps a freshly parsed root node, and recursively its
// children, into an Artifact tree for the given revision. Numbers are
// assigned in pre-order as required by spec §3 ("number ... assigned on
// construction").
func BuildTree[N TreeNode](revision Revision, root N, num *Numbering) *Artifact[N] {
	a := &Artifact[N]{
		revision: revision,
		number:   num.Next(),
		node:     root,
		matches:  make(map[Revision]*Matching[N]),
	}

	for _, c := range root.Children() {
		child := BuildTree[N](revision, c.(N), num) //nolint:forcetypeassert // N's own Children() return N-typed nodes boxed as TreeNode.
		child.parent = a
		a.children = append(a.children, child)
	}

	return a
}

// Revision returns this artifact's provenance label.
func (a *Artifact[N]) Revision() Revision { return a.revision }

// Number returns this artifact's stable pre-order index within its
// revision.
func (a *Artifact[N]) Number() int { return a.number }

// Parent returns the weak back-reference to the enclosing artifact, or
// nil at the root.
func (a *Artifact[N]) Parent() *Artifact[N] { return a.parent }

// Children returns this artifact's children in declared order. Structure
// changes go through AddChild/RemoveChild/SetChildren. The slice is
// defensively copied (like ChoiceVariants below) so a caller mutating the
// returned slice's backing array can never corrupt a's own child list.
func (a *Artifact[N]) Children() []*Artifact[N] { return mapx.CloneSlice(a.children) }

// Node returns the underlying tree-node carrier.
func (a *Artifact[N]) Node() N { return a.node }

// Merged reports whether this artifact has already been consumed by the
// merge algorithm during the current session.
func (a *Artifact[N]) Merged() bool { return a.merged }

// SetMerged marks this artifact merged; a merged artifact is never
// revisited by the merge algorithm during that session (spec §3).
func (a *Artifact[N]) SetMerged() { a.merged = true }

// IsConflict reports whether this is a CONFLICT pseudo-node.
func (a *Artifact[N]) IsConflict() bool { return a.isConflict }

// IsChoice reports whether this is a CHOICE pseudo-node.
func (a *Artifact[N]) IsChoice() bool { return a.isChoice }

// ConflictAlternatives returns the left and right alternative subtrees of
// a CONFLICT pseudo-node, and their display names. Only meaningful when
// IsConflict is true.
func (a *Artifact[N]) ConflictAlternatives() (left, right *Artifact[N], leftName, rightName string) {
	return a.conflictLeft, a.conflictRight, a.conflictLeftName, a.conflictRightName
}

// ChoiceVariants returns a copy of the condition-string to
// variant-subtree mapping of a CHOICE pseudo-node, so a caller mutating
// the result cannot corrupt a's own variant set. Only meaningful when
// IsChoice is true.
func (a *Artifact[N]) ChoiceVariants() map[string]*Artifact[N] { return mapx.Clone(a.choiceVariants) }

// MatchFor returns the matching link recorded for the given revision, if
// any. The matches relation is symmetric (spec §3): if this returns a
// link to B, B.MatchFor(a.Revision()) returns the same link.
func (a *Artifact[N]) MatchFor(rev Revision) (*Matching[N], bool) {
	m, ok := a.matches[rev]

	return m, ok
}

// setParent reassigns the weak parent back-reference. Internal; callers
// mutate structure via AddChild/RemoveChild/SetChildren.
func (a *Artifact[N]) setParent(p *Artifact[N]) { a.parent = p }

// AddChild appends child to a's children and fixes up the back-reference.
func (a *Artifact[N]) AddChild(child *Artifact[N]) {
	child.setParent(a)
	a.children = append(a.children, child)
}

// InsertChildAt inserts child at position idx, shifting subsequent
// children right.
func (a *Artifact[N]) InsertChildAt(idx int, child *Artifact[N]) {
	child.setParent(a)
	a.children = append(a.children, nil)
	copy(a.children[idx+1:], a.children[idx:])
	a.children[idx] = child
}

// RemoveChild removes the first occurrence of child from a's children.
// No-op if child is not found.
func (a *Artifact[N]) RemoveChild(child *Artifact[N]) {
	for i, c := range a.children {
		if c == child {
			a.children = append(a.children[:i], a.children[i+1:]...)

			return
		}
	}
}

// ReplaceChild replaces the first occurrence of oldChild with newChild,
// preserving position. Used when splicing a CONFLICT pseudo-node into a
// parent in place of a removed target child (spec §4.3 OrderedMerge).
func (a *Artifact[N]) ReplaceChild(oldChild, newChild *Artifact[N]) bool {
	for i, c := range a.children {
		if c == oldChild {
			newChild.setParent(a)
			a.children[i] = newChild

			return true
		}
	}

	return false
}

// SetChildren replaces all children in one step.
func (a *Artifact[N]) SetChildren(children []*Artifact[N]) {
	for _, c := range children {
		c.setParent(a)
	}

	a.children = children
}

// CreateEmpty returns a childless Artifact for the given revision wrapping
// a fresh, empty node of the same kind as a's node. Numbers are drawn from
// num. Used by the applier to synthesize a target node before children are
// attached (spec §4.1 capability "createEmpty").
func CreateEmpty[N TreeNode](revision Revision, like N, num *Numbering) *Artifact[N] {
	empty, _ := like.Clone().(N) //nolint:forcetypeassert // Clone preserves concrete type.
	empty.SetChildren(nil)

	return &Artifact[N]{
		revision: revision,
		number:   num.Next(),
		node:     empty,
		matches:  make(map[Revision]*Matching[N]),
	}
}

// Clone returns a deep, independent copy of a and its subtree, with fresh
// numbering drawn from num and the given revision. Matches, merged, and
// conflict/choice state are not copied: a clone is a new artifact, not an
// alias (spec §4.5 ADD: "deep-clone a into a new node with ... fresh
// numbering").
func (a *Artifact[N]) Clone(revision Revision, num *Numbering) *Artifact[N] {
	clonedNode, _ := a.node.Clone().(N) //nolint:forcetypeassert // Clone preserves concrete type.

	clone := &Artifact[N]{
		revision: revision,
		number:   num.Next(),
		node:     clonedNode,
		matches:  make(map[Revision]*Matching[N]),
	}

	childNodes := make([]TreeNode, 0, len(a.children))

	for _, c := range a.children {
		childClone := c.Clone(revision, num)
		childClone.setParent(clone)
		clone.children = append(clone.children, childClone)
		childNodes = append(childNodes, childClone.node)
	}

	clonedNode.SetChildren(childNodes)

	return clone
}

// CreateConflict synthesizes a CONFLICT pseudo-node carrying full clones
// of left and right as alternative subtrees (spec §4.5). Neither left nor
// right may be nil; a missing side must be represented by the caller
// passing a textual-only alternative via CreateConflictOneSided instead, so
// that the revision-info gap from spec §9 is never silently guessed at.
func CreateConflict[N TreeNode](left, right *Artifact[N], leftName, rightName string, num *Numbering) *Artifact[N] {
	leftClone := left.Clone(Conflict, num)
	rightClone := right.Clone(Conflict, num)

	return &Artifact[N]{
		revision:          Conflict,
		number:            num.Next(),
		node:              left.node.Clone().(N), //nolint:forcetypeassert
		matches:           make(map[Revision]*Matching[N]),
		isConflict:        true,
		conflictLeft:      leftClone,
		conflictRight:     rightClone,
		conflictLeftName:  leftName,
		conflictRightName: rightName,
	}
}

// CreateConflictOneSided synthesizes a CONFLICT pseudo-node where exactly
// one side is present as a structural Artifact and the other is only
// known as raw source text (e.g. a deletion on one side). This is the
// resolution for spec §9's "rebuildAST ... conflict sub-nodes missing
// revision information when one side is absent": rather than guess a
// revision label for the missing side, the caller must supply which side
// is present (presentIsLeft), and ErrConflictRevisionUnknown is returned
// if present is nil.
func CreateConflictOneSided[N TreeNode](
	present *Artifact[N],
	presentIsLeft bool,
	otherText, leftName, rightName string,
	num *Numbering,
) (*Artifact[N], error) {
	if present == nil {
		return nil, fmt.Errorf("%w: no present side supplied", ErrConflictRevisionUnknown)
	}

	presentClone := present.Clone(Conflict, num)

	c := &Artifact[N]{
		revision:          Conflict,
		number:            num.Next(),
		node:              present.node.Clone().(N), //nolint:forcetypeassert
		matches:           make(map[Revision]*Matching[N]),
		isConflict:        true,
		conflictLeftName:  leftName,
		conflictRightName: rightName,
	}

	if presentIsLeft {
		c.conflictLeft = presentClone
	} else {
		c.conflictRight = presentClone
	}

	c.node.SetConflictMarker(conflictSideText(c.conflictLeft, otherText), "", conflictSideText(c.conflictRight, otherText), leftName, rightName)

	return c, nil
}

func conflictSideText[N TreeNode](side *Artifact[N], fallback string) string {
	if side == nil {
		return fallback
	}

	return side.node.PrettyPrint()
}

// CreateChoice synthesizes a CHOICE pseudo-node mapping condition strings
// to variant subtrees.
func CreateChoice[N TreeNode](variants map[string]*Artifact[N], like N, num *Numbering) *Artifact[N] {
	choiceVariants := make(map[string]*Artifact[N], len(variants))

	for cond, v := range variants {
		choiceVariants[cond] = v.Clone(Choice, num)
	}

	node, _ := like.Clone().(N) //nolint:forcetypeassert

	return &Artifact[N]{
		revision:       Choice,
		number:         num.Next(),
		node:           node,
		matches:        make(map[Revision]*Matching[N]),
		isChoice:       true,
		choiceVariants: choiceVariants,
	}
}

// Renumber reassigns pre-order numbers to a and its entire subtree,
// strictly increasing in pre-order, restoring the invariant spec §8
// requires after any tree construction or rebuild.
func (a *Artifact[N]) Renumber(num *Numbering) {
	a.number = num.Next()

	for _, c := range a.children {
		c.Renumber(num)
	}
}

// RebuildAST performs the top-down pass described in spec §4.1: it
// rewires the underlying tree node's children to match a's Artifact
// children, flags conflict/choice markers on the underlying node so the
// pretty-printer can emit marker lines, and validates that the child
// count on each non-conflict, non-leaf node matches the tree node's
// expected count. A mismatch is a reconstruction bug, reported via
// ErrReconstructionInvariant rather than a panic, so the core stays
// embeddable (spec §7 item 2).
func (a *Artifact[N]) RebuildAST() error {
	if a.isConflict {
		return a.rebuildConflict()
	}

	if a.isChoice {
		return a.rebuildChoice()
	}

	if a.node.IsLeaf() {
		return nil
	}

	childNodes := make([]TreeNode, 0, len(a.children))

	for _, c := range a.children {
		if err := c.RebuildAST(); err != nil {
			return err
		}

		childNodes = append(childNodes, c.node)
	}

	a.node.SetChildren(childNodes)

	if arity, ok := a.node.FixedArity(); ok && arity != len(a.children) {
		return fmt.Errorf(
			"%w: node %s expects %d children, Artifact has %d",
			ErrReconstructionInvariant, a.node.ID(), arity, len(a.children),
		)
	}

	return nil
}

func (a *Artifact[N]) rebuildConflict() error {
	if a.conflictLeft == nil && a.conflictRight == nil {
		return fmt.Errorf("%w: conflict node %s has neither side", ErrConflictRevisionUnknown, a.node.ID())
	}

	leftText, rightText := "", ""

	if a.conflictLeft != nil {
		if err := a.conflictLeft.RebuildAST(); err != nil {
			return err
		}

		leftText = a.conflictLeft.node.PrettyPrint()
	}

	if a.conflictRight != nil {
		if err := a.conflictRight.RebuildAST(); err != nil {
			return err
		}

		rightText = a.conflictRight.node.PrettyPrint()
	}

	a.node.SetConflictMarker(leftText, "", rightText, a.conflictLeftName, a.conflictRightName)

	return nil
}

func (a *Artifact[N]) rebuildChoice() error {
	variants := make(map[string]string, len(a.choiceVariants))

	for cond, v := range a.choiceVariants {
		if err := v.RebuildAST(); err != nil {
			return err
		}

		variants[cond] = v.node.PrettyPrint()
	}

	a.node.SetChoiceMarker(variants)

	return nil
}

// PrettyPrint triggers RebuildAST and then serializes a's subtree to
// source text.
func (a *Artifact[N]) PrettyPrint() (string, error) {
	if err := a.RebuildAST(); err != nil {
		return "", err
	}

	return a.node.PrettyPrint(), nil
}
