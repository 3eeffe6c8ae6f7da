package javasyntax

// grammar.go supplies the per-kind classification tree-sitter itself has
// no notion of: whether a node kind's children are ordered, whether
// siblings of that kind carry unique labels, and whether the kind has a
// grammar-mandated fixed arity (SPEC_FULL.md §6). Kinds are tree-sitter's
// java grammar node types (Type()).

// unorderedKinds are node kinds whose children form a set rather than a
// sequence: class/interface member lists and import lists. Everything
// else defaults to ordered (statement lists, argument lists, expression
// operands all depend on position).
var unorderedKinds = map[string]bool{
	"class_body":           true,
	"interface_body":       true,
	"enum_body":            true,
	"annotation_type_body": true,
	"program":              true,
}

// uniqueLabelKinds are node kinds that must be matched by their textual
// label rather than by position or kind alone: import declarations
// (matched by the imported path) and literals (matched by their value).
var uniqueLabelKinds = map[string]bool{
	"import_declaration":             true,
	"package_declaration":            true,
	"string_literal":                 true,
	"character_literal":              true,
	"decimal_integer_literal":        true,
	"decimal_floating_point_literal": true,
	"true":                           true,
	"false":                          true,
	"null_literal":                   true,
}

// fixedArityKinds gives the grammar-mandated child count for node kinds
// whose shape is rigid enough that a structural merge which changes the
// child count or per-position kind would produce an ill-typed tree
// (spec §4.3's fixed-arity safety preflight). Kinds absent from this map
// have no fixed arity.
var fixedArityKinds = map[string]int{
	"ternary_expression":    3,
	"binary_expression":     2,
	"unary_expression":      1,
	"cast_expression":       2,
	"instanceof_expression": 2,
	"assignment_expression": 2,
	"if_statement":          2, // condition, consequent; else is variadic via a wrapping else_clause
	"while_statement":       2,
	"do_statement":          2,
	"for_statement":         1,
	"array_access":          2,
}

// operatorFieldKinds maps a fixed-arity expression kind whose operator
// token is anonymous in the Java grammar (never a NamedChild, so it never
// enters the Node model on its own) to the tree-sitter field name that
// exposes it. Without this, two expressions like "a - b" and "a * b"
// carry identical Kind() and no Label(), so Match/nodeHash would treat
// them as the same node and silently prefer one side's operator over the
// other's instead of conflicting (SPEC_FULL.md §4.2, §8 ExprTest).
var operatorFieldKinds = map[string]string{
	"binary_expression":     "operator",
	"unary_expression":      "operator",
	"assignment_expression": "operator",
}

// operatorField returns the tree-sitter field name carrying kind's
// operator token, if kind's identity depends on one.
func operatorField(kind string) (string, bool) {
	field, ok := operatorFieldKinds[kind]

	return field, ok
}

// isUnordered reports whether kind's children form an unordered set.
func isUnordered(kind string) bool {
	return unorderedKinds[kind]
}

// hasUniqueLabel reports whether siblings of kind must be matched by
// label rather than by kind or position.
func hasUniqueLabel(kind string) bool {
	return uniqueLabelKinds[kind]
}

// fixedArity returns kind's grammar-mandated child count, if any.
func fixedArity(kind string) (int, bool) {
	n, ok := fixedArityKinds[kind]

	return n, ok
}

// leafKinds are node kinds tree-sitter reports as having no named
// children even though they are not collapsed by semistructured mode;
// these are true grammar leaves (identifiers, literals, this/super,
// primitive types).
var leafKinds = map[string]bool{
	"identifier":                     true,
	"type_identifier":                true,
	"string_literal":                 true,
	"character_literal":              true,
	"decimal_integer_literal":        true,
	"decimal_floating_point_literal": true,
	"hex_integer_literal":            true,
	"true":                           true,
	"false":                          true,
	"null_literal":                   true,
	"this":                           true,
	"super":                          true,
	"void_type":                      true,
	"integral_type":                  true,
	"floating_point_type":            true,
	"boolean_type":                   true,
}

func isLeafKind(kind string) bool {
	return leafKinds[kind]
}

// semistructuredCollapseKinds are node kinds whose subtree is collapsed
// to opaque text by Parser.Parse when semistructured mode is requested (spec
// §4.4): method and constructor bodies, whose internals are merged as
// text rather than structurally.
var semistructuredCollapseKinds = map[string]bool{
	"block": true, // a method/constructor/initializer body
}

func collapsesToOpaqueText(kind string) bool {
	return semistructuredCollapseKinds[kind]
}
