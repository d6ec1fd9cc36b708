package ast

// Position is a 0-based line/column pair. The parse tree arrives with
// 1-based lines; the builder normalizes them here.
type Position struct {
	Line   int
	Column int
}

// Location spans a node in its origin file. Every node in a tree built for
// file F carries File == F.
type Location struct {
	File  string
	Start Position
	End   Position
}

type NodeType int

const (
	SOURCE_UNIT NodeType = iota
	PRAGMA
	IMPORT
	CONTRACT
	FUNCTION
	MODIFIER
	EVENT
	STRUCT
	ENUM
	VARIABLE
	PARAMETER
	USING
	TYPE
	EXPRESSION
	STATEMENT
)

// Node is the closed set of AST variants. Traversal is by switching on
// NodeType and walking Children; there is no visitor protocol and no parent
// pointer on nodes (see ParentIndex).
type Node interface {
	NodeType() NodeType
	Loc() Location
	Children() []Node
}

type ContractKind string

const (
	KindContract  ContractKind = "contract"
	KindInterface ContractKind = "interface"
	KindLibrary   ContractKind = "library"
)

type Visibility string

const (
	VisibilityNone     Visibility = ""
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
	VisibilityExternal Visibility = "external"
)

type Mutability string

const (
	MutabilityNone    Mutability = ""
	MutabilityPure    Mutability = "pure"
	MutabilityView    Mutability = "view"
	MutabilityPayable Mutability = "payable"
)
