package grammar

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// SourceFile is the grammar root: one Solidity file.
type SourceFile struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Items  []*SourceItem `@@*`
}

type SourceItem struct {
	Pragma   *Pragma      `  @@`
	Import   *Import      `| @@`
	Using    *Using       `| @@`
	Contract *ContractDef `| @@`
}

type Pragma struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string   `"pragma" @Ident`
	Value  []string `@(~";")+ ";"`
}

type Import struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Symbols []*ImportSymbol `"import" ( "{" @@ ( "," @@ )* "}" "from" )?`
	Path    string          `@String`
	Alias   string          `( "as" @Ident )? ";"`
}

type ImportSymbol struct {
	Name  string `@Ident`
	Alias string `( "as" @Ident )?`
}

type ContractDef struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Abstract bool            `@"abstract"?`
	Kind     string          `@("contract" | "interface" | "library")`
	Name     string          `@Ident`
	Inherits []string        `( "is" @Ident ( "," @Ident )* )?`
	Items    []*ContractItem `"{" @@* "}"`
}

type ContractItem struct {
	Using       *Using           `  @@`
	Function    *FunctionDef     `| @@`
	Special     *SpecialFunction `| @@`
	Modifier    *ModifierDef     `| @@`
	Event       *EventDef        `| @@`
	Struct      *StructDef       `| @@`
	Enum        *EnumDef         `| @@`
	Variable    *StateVarDecl    `| @@`
}

// Using covers both `using L for T;` and the selective form
// `using {L.f, L.g as h} for T;` (the library is taken from the paths).
type Using struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Library   string           `"using" ( @Ident`
	Functions []*UsingFunction `| "{" @@ ( "," @@ )* "}" )`
	Wildcard  bool             `"for" ( @"*"`
	Target    *TypeName        `| @@ )`
	Global    bool             `@"global"? ";"`
}

type UsingFunction struct {
	Library string `@Ident "."`
	Name    string `@Ident`
	Alias   string `( "as" @Ident )?`
}

type StateVarDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Type   *TypeName `@@`
	Mods   []string  `@("public" | "private" | "internal" | "constant" | "immutable" | "override")*`
	Name   string    `@Ident`
	Value  *Expr     `( "=" @@ )? ";"`
}

type FunctionDef struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    string     `"function" @Ident`
	Params  []*Param   `"(" ( @@ ( "," @@ )* )? ")"`
	Mods    []*FuncMod `@@*`
	Returns []*Param   `( "returns" "(" @@ ( "," @@ )* ")" )?`
	Body    *Block     `( @@ | ";" )`
}

// SpecialFunction covers constructor, fallback and receive declarations.
type SpecialFunction struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Kind   string     `@("constructor" | "fallback" | "receive")`
	Params []*Param   `"(" ( @@ ( "," @@ )* )? ")"`
	Mods   []*FuncMod `@@*`
	Body   *Block     `( @@ | ";" )`
}

type FuncMod struct {
	Keyword    string             `  @("public" | "private" | "internal" | "external" | "pure" | "view" | "payable" | "virtual" | "override")`
	Invocation *ModifierInvocation `| @@`
}

// The negative lookahead keeps a modifier invocation from swallowing the
// `returns` keyword that terminates the modifier list.
type ModifierInvocation struct {
	Name string  `(?! "returns" ) @Ident`
	Args []*Expr `( "(" ( @@ ( "," @@ )* )? ")" )?`
}

type ModifierDef struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string   `"modifier" @Ident`
	Params []*Param `( "(" ( @@ ( "," @@ )* )? ")" )?`
	Body   *Block   `@@`
}

type EventDef struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Name      string   `"event" @Ident`
	Params    []*Param `"(" ( @@ ( "," @@ )* )? ")"`
	Anonymous bool     `@"anonymous"? ";"`
}

type StructDef struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    string          `"struct" @Ident "{"`
	Members []*StructMember `@@* "}"`
}

type StructMember struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Type   *TypeName `@@`
	Name   string    `@Ident ";"`
}

type EnumDef struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string   `"enum" @Ident "{"`
	Values []string `( @Ident ( "," @Ident )* )? "}"`
}

type Param struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Type    *TypeName `@@`
	Storage string    `@("memory" | "storage" | "calldata" | "indexed")?`
	Name    string    `@Ident?`
}

type TypeName struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Mapping  *MappingType   `( @@`
	Name     string         `| @Ident )`
	Suffixes []*ArraySuffix `@@*`
}

type MappingType struct {
	Key   *TypeName `"mapping" "(" @@`
	Value *TypeName `"=>" @@ ")"`
}

type ArraySuffix struct {
	Size string `"[" @Number? "]"`
}

// String renders the type the way it appears in source, without whitespace.
// The resolver and analyzer key their type maps on this form.
func (t *TypeName) String() string {
	var sb strings.Builder
	if t.Mapping != nil {
		sb.WriteString("mapping(")
		sb.WriteString(t.Mapping.Key.String())
		sb.WriteString(" => ")
		sb.WriteString(t.Mapping.Value.String())
		sb.WriteString(")")
	} else {
		sb.WriteString(t.Name)
	}
	for _, s := range t.Suffixes {
		sb.WriteString("[")
		sb.WriteString(s.Size)
		sb.WriteString("]")
	}
	return sb.String()
}

type Block struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Stmts  []*Statement `"{" @@* "}"`
}

type Statement struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Block   *Block       `  @@`
	If      *IfStmt      `| @@`
	While   *WhileStmt   `| @@`
	For     *ForStmt     `| @@`
	Return  *ReturnStmt  `| @@`
	Emit    *EmitStmt    `| @@`
	VarDecl *VarDeclStmt `| @@`
	Expr    *ExprStmt    `| @@`
}

type IfStmt struct {
	Cond *Expr      `"if" "(" @@ ")"`
	Then *Statement `@@`
	Else *Statement `( "else" @@ )?`
}

type WhileStmt struct {
	Cond *Expr      `"while" "(" @@ ")"`
	Body *Statement `@@`
}

type ForStmt struct {
	Init *VarDeclStmt `"for" "(" ( @@ | ";" )`
	Cond *Expr        `@@? ";"`
	Post *Expr        `@@? ")"`
	Body *Statement   `@@`
}

type ReturnStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  *Expr `"return" @@? ";"`
}

type EmitStmt struct {
	Event *Expr `"emit" @@ ";"`
}

type VarDeclStmt struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Type    *TypeName `@@`
	Storage string    `@("memory" | "storage" | "calldata")?`
	Name    string    `@Ident`
	Value   *Expr     `( "=" @@ )? ";"`
}

type ExprStmt struct {
	Expr *Expr `@@ ";"`
}

type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *BinaryExpr `@@`
	Op     string      `( @("=" | "+=" | "-=" | "*=" | "/=" | "%=")`
	Right  *Expr       `  @@ )?`
}

type BinaryExpr struct {
	Left *UnaryExpr  `@@`
	Ops  []*BinaryOp `@@*`
}

type BinaryOp struct {
	Op    string     `@("||" | "&&" | "==" | "!=" | "<=" | ">=" | "<" | ">" | "+" | "-" | "*" | "/" | "%" | "**")`
	Right *UnaryExpr `@@`
}

type UnaryExpr struct {
	Op      string       `@("!" | "-" | "~" | "++" | "--")?`
	Postfix *PostfixExpr `@@`
}

type PostfixExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Primary *PrimaryExpr `@@`
	Ops     []*PostfixOp `@@*`
}

type PostfixOp struct {
	Member string       `  "." @Ident`
	Call   *CallSuffix  `| @@`
	Index  *IndexSuffix `| @@`
}

type CallSuffix struct {
	Args []*Expr `"(" ( @@ ( "," @@ )* )? ")"`
}

type IndexSuffix struct {
	Index *Expr `"[" @@? "]"`
}

type PrimaryExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Literal *Literal `  @@`
	Ident   string   `| @Ident`
	Paren   *Expr    `| "(" @@ ")"`
}

type Literal struct {
	Str    *string `  @String`
	Number *string `| @Number`
	Bool   *string `| @("true" | "false")`
}
