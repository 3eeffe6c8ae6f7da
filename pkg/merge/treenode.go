package merge

// TreeNode is the capability set a concrete syntax-tree implementation
// must expose to the merge core (spec §4.1, §6). The core never assumes
// an inheritance hierarchy of node kinds; it only calls through this
// interface, so any grammar/parser pairing that implements it can be
// merged.
type TreeNode interface {
	// Kind returns the grammar-level node kind, e.g. "binary_expression".
	// Used for structural equality of nodes that do not have unique
	// labels.
	Kind() string

	// Match reports structural equality of this node and other *at this
	// level only*, ignoring children. For nodes with unique labels the
	// comparison must distinguish by Label(); otherwise by Kind().
	Match(other TreeNode) bool

	// IsOrdered reports whether the declared order of this node's
	// children is semantically significant (method bodies, argument
	// lists). False for class member sets, import sets.
	IsOrdered() bool

	// HasUniqueLabels reports whether sibling nodes of this kind must be
	// matched by label rather than by position or kind alone (import
	// declarations, literals).
	HasUniqueLabels() bool

	// Label returns the textual form used to distinguish nodes with
	// unique labels. Empty for node kinds where HasUniqueLabels is false.
	Label() string

	// FixedArity returns the grammar-mandated child count for this node
	// kind, and whether the kind has a fixed arity at all. A ternary
	// expression's three operands is fixed-arity; a statement list is
	// not.
	FixedArity() (arity int, ok bool)

	// IsLeaf reports whether this node has no children, either
	// grammatically (a literal) or because semistructured mode collapsed
	// it to opaque text.
	IsLeaf() bool

	// Children returns this node's children in declared order. The
	// returned slice must not be mutated by the caller; use SetChildren
	// to rewire.
	Children() []TreeNode

	// SetChildren rewires this node's children to exactly the given
	// slice, in order. Used by Artifact.RebuildAST to make the
	// underlying tree match the (possibly merged) Artifact tree.
	SetChildren(children []TreeNode)

	// Content returns the opaque text content for a semistructured leaf.
	// Empty for a node that was never collapsed to opaque text.
	Content() string

	// SetContent sets the opaque text content for a semistructured leaf
	// and marks the node as a leaf.
	SetContent(text string)

	// PrettyPrint serializes the (possibly rewritten) subtree back to
	// source text. Implementations may assume RebuildAST has already
	// run on this subtree.
	PrettyPrint() string

	// Clone returns a deep, independent copy of this node and its
	// subtree.
	Clone() TreeNode

	// ID returns a stable identifier for this node, used in diagnostics
	// for reconstruction-invariant failures. Stability only needs to
	// hold within a single parse; it need not survive a clone.
	ID() string

	// SetConflictMarker flags this node as carrying a structural
	// conflict between two alternative subtrees, so PrettyPrint can emit
	// the textual marker lines around them. baseText is empty for a
	// two-way conflict.
	SetConflictMarker(leftText, baseText, rightText, leftName, rightName string)

	// SetChoiceMarker flags this node as a choice pseudo-node gated by
	// condition strings, so PrettyPrint can emit the annotated variants.
	SetChoiceMarker(variants map[string]string)

	// HasChanges reports whether this node's subtree was found, prior to
	// merging, to differ from its base-revision counterpart (spec §6:
	// "user-data slots ... change flag"). Used by OrderedMerge and
	// UnorderedMerge to distinguish a safe delete from a
	// deletion/modification conflict.
	HasChanges() bool

	// SetChanges flags this node's change status. Set once per side
	// before a merge begins; never consulted or mutated by the matcher.
	SetChanges(changed bool)
}
