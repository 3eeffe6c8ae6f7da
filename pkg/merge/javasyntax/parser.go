package javasyntax

import (
	"context"
	"errors"
	"fmt"

	forest "github.com/alexaandru/go-sitter-forest/java"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/treemerge/pkg/merge"
)

// ErrNoRootNode is returned when tree-sitter produces a parse with no
// root node, which should not happen for well-formed input but is
// checked per SPEC_FULL.md §6's parse-failure contract.
var ErrNoRootNode = errors.New("javasyntax: no root node")

// Parser parses Java source into a Node tree implementing merge.TreeNode,
// following the exact sitter.NewParser/SetLanguage/ParseString/RootNode
// call sequence the teacher's DSL parser uses.
type Parser struct {
	language *sitter.Language

	// Semistructured collapses method/constructor/initializer bodies to
	// opaque leaves carrying their raw text (spec §4.4), for use with
	// MergeContext.Strategy == SemistructuredStrategy.
	Semistructured bool
}

// NewParser returns a Parser bound to the tree-sitter Java grammar.
func NewParser() *Parser {
	return &Parser{language: forest.GetLanguage()}
}

// Parse parses content into a Node tree rooted at the compilation unit.
func (p *Parser) Parse(content []byte) (*Node, error) {
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(p.language)

	tree, err := tsParser.ParseString(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", merge.ErrParseFailed, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("%w: %w", merge.ErrParseFailed, ErrNoRootNode)
	}

	counter := 0
	b := &builder{source: content, idCounter: &counter, semistructured: p.Semistructured}

	return b.build(root), nil
}

type builder struct {
	source         []byte
	idCounter      *int
	semistructured bool
}

func (b *builder) build(tsNode sitter.Node) *Node {
	kind := tsNode.Type()

	n := &Node{
		kind:      kind,
		ordered:   !isUnordered(kind),
		unique:    hasUniqueLabel(kind),
		source:    b.text(tsNode),
		idCounter: b.idCounter,
	}
	n.id = n.nextID()

	if arity, ok := fixedArity(kind); ok {
		n.arity, n.hasArity = arity, true
	}

	if n.unique {
		n.label = n.source
	}

	// The operator of a binary/unary/assignment expression is an
	// anonymous token in the Java grammar and so never shows up as a
	// NamedChild; fold it into this node's label via the tree-sitter
	// field that exposes it, so Match/nodeHash distinguish "a - b" from
	// "a * b" instead of treating every such expression as the same node
	// regardless of operator (grammar.go's operatorFieldKinds).
	if field, ok := operatorField(kind); ok {
		if opNode := tsNode.ChildByFieldName(field); !opNode.IsNull() {
			n.label = b.text(opNode)
			n.unique = true
		}
	}

	if b.semistructured && collapsesToOpaqueText(kind) {
		n.content = n.source
		n.leaf = true

		return n
	}

	count := tsNode.NamedChildCount()
	if count == 0 || isLeafKind(kind) {
		n.leaf = true

		return n
	}

	children := make([]merge.TreeNode, 0, count)

	for idx := range count {
		child := tsNode.NamedChild(idx)
		children = append(children, b.build(child))
	}

	n.children = children
	n.originalChildren = children

	return n
}

func (b *builder) text(tsNode sitter.Node) string {
	start, end := tsNode.StartByte(), tsNode.EndByte()
	if int(end) > len(b.source) {
		return ""
	}

	return string(b.source[start:end])
}
