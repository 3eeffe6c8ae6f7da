package merge

// fakeNode is a minimal TreeNode test double: a labeled tree with
// explicit ordered/unique/arity flags, used across this package's
// tests so each test can build small scenario trees by hand without
// depending on a real parser.
type fakeNode struct {
	kind    string
	label   string
	ordered bool
	unique  bool
	arity   int
	hasArity bool

	children []TreeNode
	content  string
	leaf     bool

	conflict *fakeConflict
	choice   map[string]string

	changed bool
	id      string
}

type fakeConflict struct {
	leftText, baseText, rightText string
	leftName, rightName           string
}

var _ TreeNode = (*fakeNode)(nil)

// leaf returns a leaf node with a unique label, mirroring how identifiers
// and literals are classified in a real grammar: two leaves of the same
// kind are distinguished by their text, not conflated.
func leaf(kind, label string) *fakeNode {
	return &fakeNode{kind: kind, label: label, ordered: true, unique: true, leaf: true, id: kind + ":" + label}
}

func branch(kind string, ordered bool, children ...*fakeNode) *fakeNode {
	kids := make([]TreeNode, len(children))
	for i, c := range children {
		kids[i] = c
	}

	return &fakeNode{kind: kind, ordered: ordered, children: kids, id: kind}
}

func (n *fakeNode) Kind() string { return n.kind }

func (n *fakeNode) Match(other TreeNode) bool {
	o, ok := other.(*fakeNode)
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

func (n *fakeNode) IsOrdered() bool           { return n.ordered }
func (n *fakeNode) HasUniqueLabels() bool     { return n.unique }
func (n *fakeNode) Label() string             { return n.label }
func (n *fakeNode) FixedArity() (int, bool)   { return n.arity, n.hasArity }
func (n *fakeNode) IsLeaf() bool              { return n.leaf }
func (n *fakeNode) Children() []TreeNode      { return n.children }

func (n *fakeNode) SetChildren(children []TreeNode) {
	n.children = children
	n.leaf = len(children) == 0 && n.content == ""
}

func (n *fakeNode) Content() string { return n.content }

func (n *fakeNode) SetContent(text string) {
	n.content = text
	n.leaf = true
}

func (n *fakeNode) PrettyPrint() string {
	if n.conflict != nil {
		return "<<<" + n.conflict.leftText + "===" + n.conflict.rightText + ">>>"
	}

	if n.leaf {
		if n.content != "" {
			return n.content
		}

		return n.label
	}

	out := ""

	for _, c := range n.children {
		out += c.PrettyPrint()
	}

	return out
}

func (n *fakeNode) Clone() TreeNode {
	clone := &fakeNode{
		kind: n.kind, label: n.label, ordered: n.ordered, unique: n.unique,
		arity: n.arity, hasArity: n.hasArity, leaf: n.leaf, content: n.content,
		changed: n.changed, id: n.id,
	}

	children := make([]TreeNode, len(n.children))
	for i, c := range n.children {
		children[i] = c.Clone()
	}

	clone.children = children

	return clone
}

func (n *fakeNode) ID() string { return n.id }

func (n *fakeNode) SetConflictMarker(leftText, baseText, rightText, leftName, rightName string) {
	n.conflict = &fakeConflict{leftText: leftText, baseText: baseText, rightText: rightText, leftName: leftName, rightName: rightName}
}

func (n *fakeNode) SetChoiceMarker(variants map[string]string) { n.choice = variants }

func (n *fakeNode) HasChanges() bool        { return n.changed }
func (n *fakeNode) SetChanges(changed bool) { n.changed = changed }
