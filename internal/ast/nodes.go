package ast

// SourceUnit is the root of one file's tree and exclusively owns it.
// Container nodes keep typed sub-lists alongside the generic child order.
type SourceUnit struct {
	Location        Location
	File            string
	Pragmas         []*Pragma
	Imports         []*Import
	Contracts       []*Contract
	UsingDirectives []*Using
	Items           []Node
}

// Pragma records a `pragma name value;` directive.
// Example: "pragma solidity ^0.8.19;"
type Pragma struct {
	Location Location
	Name     string
	Value    string
}

// Import records an import directive.
// Example: `import {IERC20 as Token} from "./IERC20.sol";`
type Import struct {
	Location Location
	Path     string
	Symbols  []string
	Alias    string
}

// Contract covers contract, interface and library declarations.
type Contract struct {
	Location        Location
	Name            string
	Kind            ContractKind
	Abstract        bool
	Inherits        []string
	Functions       []*Function
	Variables       []*Variable
	Structs         []*Struct
	Enums           []*Enum
	Events          []*Event
	Modifiers       []*Modifier
	UsingDirectives []*Using
	Items           []Node
}

// Function covers regular functions plus constructor/fallback/receive.
// Visibility stays empty when the source omitted it; the analyzer turns
// that into a warning for anything but a constructor.
type Function struct {
	Location      Location
	Name          string
	Visibility    Visibility
	Mutability    Mutability
	IsConstructor bool
	IsFallback    bool
	IsReceive     bool
	IsVirtual     bool
	IsOverride    bool
	Modifiers     []string
	Parameters    []*Parameter
	Returns       []*Parameter
	Body          *Statement
}

// Modifier is a modifier declaration (not an invocation).
type Modifier struct {
	Location   Location
	Name       string
	Parameters []*Parameter
	Body       *Statement
}

type Event struct {
	Location   Location
	Name       string
	Parameters []*Parameter
	Anonymous  bool
}

type Struct struct {
	Location Location
	Name     string
	Members  []*Variable
}

type Enum struct {
	Location Location
	Name     string
	Values   []string
}

// Variable covers state variables, struct members and local declarations.
type Variable struct {
	Location        Location
	Name            string
	TypeName        string
	Visibility      Visibility
	IsConstant      bool
	IsImmutable     bool
	IsStateVariable bool
	Value           *Expression
}

type Parameter struct {
	Location Location
	Name     string
	TypeName string
	Storage  string
	Indexed  bool
}

// Using records a `using Library for Type` directive. TargetType is "*" for
// the wildcard form; Functions lists the selective brace form's names
// ("fn" or "fn as alias").
type Using struct {
	Location    Location
	LibraryName string
	TargetType  string
	IsGlobal    bool
	Functions   []string
}

// Expression is a single tagged variant rather than a struct per operator;
// Kind selects which fields are meaningful.
// Kinds: identifier, literal, binary_op, unary_op, member_access, call, index.
type Expression struct {
	Location Location
	Kind     string
	Value    string // identifier name, literal text, or member name
	Operator string
	Left     *Expression
	Right    *Expression
	Target   *Expression   // member_access / call / index receiver
	Args     []*Expression // call arguments, index expression
}

// Statement mirrors the original model: a tagged shell with children.
// Kinds: block, if, while, for, return, emit, variable_declaration, expression.
type Statement struct {
	Location Location
	Kind     string
	Variable *Variable // for variable_declaration
	Exprs    []*Expression
	Stmts    []*Statement
}

func (n *SourceUnit) NodeType() NodeType { return SOURCE_UNIT }
func (n *Pragma) NodeType() NodeType     { return PRAGMA }
func (n *Import) NodeType() NodeType     { return IMPORT }
func (n *Contract) NodeType() NodeType   { return CONTRACT }
func (n *Function) NodeType() NodeType   { return FUNCTION }
func (n *Modifier) NodeType() NodeType   { return MODIFIER }
func (n *Event) NodeType() NodeType      { return EVENT }
func (n *Struct) NodeType() NodeType     { return STRUCT }
func (n *Enum) NodeType() NodeType       { return ENUM }
func (n *Variable) NodeType() NodeType   { return VARIABLE }
func (n *Parameter) NodeType() NodeType  { return PARAMETER }
func (n *Using) NodeType() NodeType      { return USING }
func (n *Expression) NodeType() NodeType { return EXPRESSION }
func (n *Statement) NodeType() NodeType  { return STATEMENT }

func (n *SourceUnit) Loc() Location { return n.Location }
func (n *Pragma) Loc() Location     { return n.Location }
func (n *Import) Loc() Location     { return n.Location }
func (n *Contract) Loc() Location   { return n.Location }
func (n *Function) Loc() Location   { return n.Location }
func (n *Modifier) Loc() Location   { return n.Location }
func (n *Event) Loc() Location      { return n.Location }
func (n *Struct) Loc() Location     { return n.Location }
func (n *Enum) Loc() Location       { return n.Location }
func (n *Variable) Loc() Location   { return n.Location }
func (n *Parameter) Loc() Location  { return n.Location }
func (n *Using) Loc() Location      { return n.Location }
func (n *Expression) Loc() Location { return n.Location }
func (n *Statement) Loc() Location  { return n.Location }

func (n *SourceUnit) Children() []Node { return n.Items }

func (n *Pragma) Children() []Node { return nil }
func (n *Import) Children() []Node { return nil }

func (n *Contract) Children() []Node { return n.Items }

func (n *Function) Children() []Node {
	var kids []Node
	for _, p := range n.Parameters {
		kids = append(kids, p)
	}
	for _, r := range n.Returns {
		kids = append(kids, r)
	}
	if n.Body != nil {
		kids = append(kids, n.Body)
	}
	return kids
}

func (n *Modifier) Children() []Node {
	var kids []Node
	for _, p := range n.Parameters {
		kids = append(kids, p)
	}
	if n.Body != nil {
		kids = append(kids, n.Body)
	}
	return kids
}

func (n *Event) Children() []Node {
	var kids []Node
	for _, p := range n.Parameters {
		kids = append(kids, p)
	}
	return kids
}

func (n *Struct) Children() []Node {
	var kids []Node
	for _, m := range n.Members {
		kids = append(kids, m)
	}
	return kids
}

func (n *Enum) Children() []Node { return nil }

func (n *Variable) Children() []Node {
	if n.Value != nil {
		return []Node{n.Value}
	}
	return nil
}

func (n *Parameter) Children() []Node { return nil }
func (n *Using) Children() []Node     { return nil }

func (n *Expression) Children() []Node {
	var kids []Node
	if n.Left != nil {
		kids = append(kids, n.Left)
	}
	if n.Right != nil {
		kids = append(kids, n.Right)
	}
	if n.Target != nil {
		kids = append(kids, n.Target)
	}
	for _, a := range n.Args {
		kids = append(kids, a)
	}
	return kids
}

func (n *Statement) Children() []Node {
	var kids []Node
	if n.Variable != nil {
		kids = append(kids, n.Variable)
	}
	for _, e := range n.Exprs {
		kids = append(kids, e)
	}
	for _, s := range n.Stmts {
		kids = append(kids, s)
	}
	return kids
}
