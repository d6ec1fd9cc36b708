// Package parsetree defines the concrete-syntax tree handed to the AST
// builder. The grammar component produces it; nothing in this package parses.
package parsetree

// Kind identifies the grammar production a node came from.
type Kind string

const (
	KindSourceUnit    Kind = "source_unit"
	KindPragma        Kind = "pragma"
	KindImport        Kind = "import"
	KindContract      Kind = "contract"
	KindInterface     Kind = "interface"
	KindLibrary       Kind = "library"
	KindUsing         Kind = "using"
	KindStateVariable Kind = "state_variable"
	KindFunction      Kind = "function"
	KindConstructor   Kind = "constructor"
	KindModifier      Kind = "modifier"
	KindEvent         Kind = "event"
	KindStruct        Kind = "struct"
	KindStructMember  Kind = "struct_member"
	KindEnum          Kind = "enum"
	KindParameter     Kind = "parameter"
	KindTypeName      Kind = "type_name"
	KindBlock         Kind = "block"
	KindIf            Kind = "if"
	KindWhile         Kind = "while"
	KindFor           Kind = "for"
	KindReturn        Kind = "return"
	KindEmit          Kind = "emit"
	KindVarDecl       Kind = "variable_declaration"
	KindExprStmt      Kind = "expression_statement"
	KindIdentifier    Kind = "identifier"
	KindLiteral       Kind = "literal"
	KindBinary        Kind = "binary_op"
	KindUnary         Kind = "unary_op"
	KindMemberAccess  Kind = "member_access"
	KindCall          Kind = "call"
	KindIndex         Kind = "index"
)

// Token carries the source coordinates of a node boundary, in the external
// parser's convention: 1-based lines, 0-based columns.
type Token struct {
	Line   int
	Column int
	Text   string
}

// Node is one production instance. Children are in source order. Text holds
// the production's salient lexeme (a name, a literal, an operator) when one
// exists; structural nodes leave it empty. Attrs carries flat modifier
// strings (visibility, mutability, storage location, "global", "indexed"...)
// so the builder never has to re-tokenize.
type Node struct {
	Kind     Kind
	Text     string
	Attrs    []string
	Children []*Node
	Start    Token
	End      Token
}

// HasAttr reports whether the node carries the given modifier.
func (n *Node) HasAttr(attr string) bool {
	for _, a := range n.Attrs {
		if a == attr {
			return true
		}
	}
	return false
}

// ChildrenOfKind returns the direct children matching kind, in order.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first direct child of the given kind, or nil.
func (n *Node) FirstChild(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}
