package javasyntax

import (
	"testing"

	"github.com/Sumatoshi-tech/treemerge/pkg/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(kind, label, source string) *Node {
	return &Node{kind: kind, label: label, ordered: true, source: source, leaf: true, id: kind}
}

func TestNodeMatchUsesLabelOnlyWhenUnique(t *testing.T) {
	t.Parallel()

	a := newTestNode("string_literal", "\"x\"", "\"x\"")
	a.unique = true
	b := newTestNode("string_literal", "\"y\"", "\"y\"")
	b.unique = true

	assert.False(t, a.Match(b))

	c := newTestNode("string_literal", "\"x\"", "\"x\"")
	c.unique = true
	assert.True(t, a.Match(c))

	plain1 := newTestNode("identifier", "", "foo")
	plain2 := newTestNode("identifier", "", "bar")
	assert.True(t, plain1.Match(plain2), "non-unique kinds match regardless of source text")
}

func TestNodeMatchRejectsOtherImplementations(t *testing.T) {
	t.Parallel()

	a := newTestNode("identifier", "", "foo")
	assert.False(t, a.Match(nil))
}

func TestNodeSetChildrenRecomputesLeaf(t *testing.T) {
	t.Parallel()

	n := &Node{kind: "block"}
	assert.False(t, n.IsLeaf())

	n.SetChildren(nil)
	assert.True(t, n.IsLeaf())

	n.SetChildren([]merge.TreeNode{newTestNode("identifier", "", "a")})
	assert.False(t, n.IsLeaf())
}

func TestNodeSetContentMarksLeaf(t *testing.T) {
	t.Parallel()

	n := &Node{kind: "block"}
	n.SetContent("opaque body")

	assert.True(t, n.IsLeaf())
	assert.Equal(t, "opaque body", n.Content())
}

func TestNodeCloneIsDeepAndSharesIDCounter(t *testing.T) {
	t.Parallel()

	root := newTestNode("class_body", "", "")
	root.leaf = false
	root.children = []merge.TreeNode{newTestNode("identifier", "", "a")}
	root.originalChildren = root.children

	clone, ok := root.Clone().(*Node)
	require.True(t, ok)

	assert.NotSame(t, root, clone)
	require.Len(t, clone.children, 1)
	assert.NotSame(t, root.children[0], clone.children[0])
	assert.NotEmpty(t, clone.ID())
}

func TestNodePrettyPrintLeafPrefersContentOverSource(t *testing.T) {
	t.Parallel()

	n := newTestNode("identifier", "", "original")
	assert.Equal(t, "original", n.PrettyPrint())

	n.SetContent("rewritten")
	assert.Equal(t, "rewritten", n.PrettyPrint())
}

func TestNodePrettyPrintPassthroughWhenChildrenUnchanged(t *testing.T) {
	t.Parallel()

	child := newTestNode("identifier", "", "a")
	root := &Node{kind: "block", source: "{ a; }", children: []merge.TreeNode{child}}
	root.originalChildren = root.children

	assert.Equal(t, "{ a; }", root.PrettyPrint())
}

func TestNodePrettyPrintSynthesizesWhenChildrenChanged(t *testing.T) {
	t.Parallel()

	original := newTestNode("identifier", "", "a")
	root := &Node{kind: "block", source: "{ a; }", children: []merge.TreeNode{original}}
	root.originalChildren = []merge.TreeNode{original}

	replacement := newTestNode("identifier", "", "b")
	root.children = []merge.TreeNode{original, replacement}

	assert.Equal(t, "a\nb", root.PrettyPrint())
}

func TestNodePrettyPrintConflictMarker(t *testing.T) {
	t.Parallel()

	n := &Node{kind: "expression_statement"}
	n.SetConflictMarker("left;", "", "right;", "mine", "theirs")

	text := n.PrettyPrint()
	assert.Contains(t, text, "<<<<<<< mine\n")
	assert.Contains(t, text, "left;\n")
	assert.Contains(t, text, "=======\n")
	assert.Contains(t, text, "right;\n")
	assert.Contains(t, text, ">>>>>>> theirs\n")
}

func TestNodePrettyPrintConflictMarkerWithBase(t *testing.T) {
	t.Parallel()

	n := &Node{kind: "expression_statement"}
	n.SetConflictMarker("left;", "base;", "right;", "mine", "theirs")

	text := n.PrettyPrint()
	assert.Contains(t, text, "||||||| BASE\n")
	assert.Contains(t, text, "base;\n")
}

func TestNodePrettyPrintChoiceMarker(t *testing.T) {
	t.Parallel()

	n := &Node{kind: "statement"}
	n.SetChoiceMarker(map[string]string{"FOO": "a;"})

	text := n.PrettyPrint()
	assert.Contains(t, text, "#ifdef FOO\n")
	assert.Contains(t, text, "a;\n")
	assert.Contains(t, text, "#endif\n")
}

func TestSeparatorFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\n", separatorFor("class_body"))
	assert.Equal(t, "\n", separatorFor("block"))
	assert.Equal(t, ", ", separatorFor("argument_list"))
	assert.Equal(t, "", separatorFor("binary_expression"))
}

func TestSameChildrenComparesByIdentity(t *testing.T) {
	t.Parallel()

	a := newTestNode("identifier", "", "a")
	b := newTestNode("identifier", "", "a")

	assert.True(t, sameChildren([]merge.TreeNode{a}, []merge.TreeNode{a}))
	assert.False(t, sameChildren([]merge.TreeNode{a}, []merge.TreeNode{b}))
	assert.False(t, sameChildren([]merge.TreeNode{a}, []merge.TreeNode{a, b}))
}

func TestEnsureNewline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ensureNewline(""))
	assert.Equal(t, "a\n", ensureNewline("a"))
	assert.Equal(t, "a\n", ensureNewline("a\n"))
}
