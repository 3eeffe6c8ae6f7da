package javasyntax

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/treemerge/pkg/merge"
)

// Node is the concrete merge.TreeNode carrier for Java source, backed by
// a tree-sitter parse. Once built by Parser.Parse it is fully detached from
// the originating sitter.Tree/sitter.Node (which are freed by the
// parser), so a Node's lifetime is not tied to tree-sitter's C memory.
type Node struct {
	kind     string
	label    string
	ordered  bool
	unique   bool
	arity    int
	hasArity bool
	leaf     bool

	children         []merge.TreeNode
	originalChildren []merge.TreeNode

	// source is this node's exact original source text, used for
	// byte-exact passthrough printing when its children are unchanged.
	source string

	// content holds opaque text for a semistructured leaf (collapsed
	// block body) or a true grammar leaf's token text.
	content string

	id string

	conflict *conflictMarker
	choice   *choiceMarker

	changed bool

	idCounter *int
}

type conflictMarker struct {
	leftText, baseText, rightText string
	leftName, rightName           string
}

type choiceMarker struct {
	variants map[string]string
}

var _ merge.TreeNode = (*Node)(nil)

// Kind implements merge.TreeNode.
func (n *Node) Kind() string { return n.kind }

// Match implements merge.TreeNode.
func (n *Node) Match(other merge.TreeNode) bool {
	o, ok := other.(*Node)
	if !ok {
		return false
	}

	if n.kind != o.kind {
		return false
	}

	if n.unique {
		return n.label == o.label
	}

	return true
}

// IsOrdered implements merge.TreeNode.
func (n *Node) IsOrdered() bool { return n.ordered }

// HasUniqueLabels implements merge.TreeNode.
func (n *Node) HasUniqueLabels() bool { return n.unique }

// Label implements merge.TreeNode.
func (n *Node) Label() string { return n.label }

// FixedArity implements merge.TreeNode.
func (n *Node) FixedArity() (int, bool) { return n.arity, n.hasArity }

// IsLeaf implements merge.TreeNode.
func (n *Node) IsLeaf() bool { return n.leaf }

// Children implements merge.TreeNode.
func (n *Node) Children() []merge.TreeNode { return n.children }

// SetChildren implements merge.TreeNode.
func (n *Node) SetChildren(children []merge.TreeNode) {
	n.children = children
	n.leaf = len(children) == 0 && n.content == ""
}

// Content implements merge.TreeNode.
func (n *Node) Content() string { return n.content }

// SetContent implements merge.TreeNode.
func (n *Node) SetContent(text string) {
	n.content = text
	n.leaf = true
}

// Clone implements merge.TreeNode. Children and the change flag are
// deep-copied; conflict and choice markers are not carried over to the
// clone. The id counter is shared so cloned subtrees
// still mint fresh ids under RebuildAST-triggered re-synthesis.
func (n *Node) Clone() merge.TreeNode {
	clone := &Node{
		kind: n.kind, label: n.label, ordered: n.ordered, unique: n.unique,
		arity: n.arity, hasArity: n.hasArity, leaf: n.leaf,
		source: n.source, content: n.content, changed: n.changed,
		idCounter: n.idCounter,
	}

	clone.id = clone.nextID()

	children := make([]merge.TreeNode, len(n.children))
	for i, c := range n.children {
		children[i] = c.Clone()
	}

	clone.children = children
	clone.originalChildren = children

	return clone
}

// ID implements merge.TreeNode.
func (n *Node) ID() string { return n.id }

func (n *Node) nextID() string {
	if n.idCounter == nil {
		zero := 0
		n.idCounter = &zero
	}

	*n.idCounter++

	return fmt.Sprintf("%s#%d", n.kind, *n.idCounter)
}

// SetConflictMarker implements merge.TreeNode.
func (n *Node) SetConflictMarker(leftText, baseText, rightText, leftName, rightName string) {
	n.conflict = &conflictMarker{leftText: leftText, baseText: baseText, rightText: rightText, leftName: leftName, rightName: rightName}
}

// SetChoiceMarker implements merge.TreeNode.
func (n *Node) SetChoiceMarker(variants map[string]string) {
	n.choice = &choiceMarker{variants: variants}
}

// HasChanges implements merge.TreeNode.
func (n *Node) HasChanges() bool { return n.changed }

// SetChanges implements merge.TreeNode.
func (n *Node) SetChanges(changed bool) { n.changed = changed }

// PrettyPrint implements merge.TreeNode. Unchanged subtrees print their
// original source bytes verbatim; a subtree whose children were rewired
// by RebuildAST is synthesized by joining the (already printed) children
// with a kind-appropriate separator.
func (n *Node) PrettyPrint() string {
	if n.conflict != nil {
		return printConflict(n.conflict)
	}

	if n.choice != nil {
		return printChoice(n.choice)
	}

	if n.leaf {
		if n.content != "" {
			return n.content
		}

		return n.source
	}

	if sameChildren(n.children, n.originalChildren) {
		return n.source
	}

	return joinChildren(n.kind, n.children)
}

func sameChildren(a, b []merge.TreeNode) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func joinChildren(kind string, children []merge.TreeNode) string {
	sep := separatorFor(kind)

	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.PrettyPrint()
	}

	return strings.Join(parts, sep)
}

// separatorFor returns the text joined between consecutive children of
// a synthesized (non-passthrough) node, approximating the grammar's
// punctuation for the kinds the merge engine is most likely to rewrite:
// statement and member lists get a newline, argument-like lists get a
// comma, everything else is joined directly.
func separatorFor(kind string) string {
	switch kind {
	case "class_body", "interface_body", "enum_body", "program", "block":
		return "\n"
	case "argument_list", "formal_parameters", "variable_declarator_list":
		return ", "
	default:
		return ""
	}
}

func printConflict(c *conflictMarker) string {
	var b strings.Builder

	b.WriteString("<<<<<<< " + c.leftName + "\n")
	b.WriteString(ensureNewline(c.leftText))

	if c.baseText != "" {
		b.WriteString("||||||| BASE\n")
		b.WriteString(ensureNewline(c.baseText))
	}

	b.WriteString("=======\n")
	b.WriteString(ensureNewline(c.rightText))
	b.WriteString(">>>>>>> " + c.rightName + "\n")

	return b.String()
}

func printChoice(c *choiceMarker) string {
	var b strings.Builder

	conds := make([]string, 0, len(c.variants))
	for cond := range c.variants {
		conds = append(conds, cond)
	}

	sort.Strings(conds)

	for _, cond := range conds {
		b.WriteString("#ifdef " + cond + "\n")
		b.WriteString(ensureNewline(c.variants[cond]))
		b.WriteString("#endif\n")
	}

	return b.String()
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}
