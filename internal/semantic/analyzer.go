package semantic

import (
	"solv/internal/ast"
	"solv/internal/diag"
)

var assignmentOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

// Analyzer walks a source unit, builds the scope table, and collects
// semantic diagnostics. One analyzer serves one file.
type Analyzer struct {
	table       *ScopeTable
	diagnostics []diag.Diagnostic

	currentContract *ast.Contract
	currentFunction *ast.Function

	// State access observed while analyzing the current function body.
	// Identifiers are resolved through the scope table at the point of use,
	// so parameters and locals shadowing a state variable name do not count.
	readsState  bool
	writesState bool
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{table: NewScopeTable()}
}

func (a *Analyzer) Analyze(unit *ast.SourceUnit) []diag.Diagnostic {
	a.diagnostics = make([]diag.Diagnostic, 0)
	if unit == nil {
		return a.diagnostics
	}
	for _, contract := range unit.Contracts {
		a.analyzeContract(contract)
	}
	return a.diagnostics
}

// Table exposes the scope table built during Analyze for symbol queries.
func (a *Analyzer) Table() *ScopeTable {
	return a.table
}

func (a *Analyzer) errorf(code string, loc ast.Location, format string, args ...any) {
	a.diagnostics = append(a.diagnostics, diag.Errorf(code, loc, format, args...))
}

func (a *Analyzer) warningf(code string, loc ast.Location, format string, args ...any) {
	a.diagnostics = append(a.diagnostics, diag.Warningf(code, loc, format, args...))
}

func (a *Analyzer) analyzeContract(contract *ast.Contract) {
	a.currentContract = contract

	added := a.table.AddSymbolAt(GlobalScope, &Symbol{
		Name:     contract.Name,
		Kind:     SymbolContract,
		Type:     SolType{Name: string(contract.Kind)},
		Node:     contract,
		Location: contract.Location,
	})
	if !added {
		a.errorf(diag.CodeDuplicateDeclaration, contract.Location,
			"%s '%s' is already defined", contract.Kind, contract.Name)
	}

	a.table.EnterScope("contract_" + contract.Name)

	// Contract-level names are declared before any body is analyzed so that
	// functions can reference state variables and each other regardless of
	// declaration order.
	a.declareContractMembers(contract)

	for _, v := range contract.Variables {
		if v.Value != nil {
			a.validateExpression(v.Value, ParseType(v.TypeName))
		}
	}
	for _, fn := range contract.Functions {
		a.analyzeFunction(fn)
	}

	a.table.ExitScope()
	a.currentContract = nil
}

func (a *Analyzer) declareContractMembers(contract *ast.Contract) {
	declare := func(sym *Symbol, what string) {
		if !a.table.AddSymbol(sym) {
			a.errorf(diag.CodeDuplicateDeclaration, sym.Location,
				"%s '%s' is already defined", what, sym.Name)
		}
	}

	for _, item := range contract.Items {
		switch node := item.(type) {
		case *ast.Variable:
			declare(&Symbol{
				Name:        node.Name,
				Kind:        SymbolVariable,
				Type:        ParseType(node.TypeName),
				Visibility:  node.Visibility,
				IsConstant:  node.IsConstant,
				IsImmutable: node.IsImmutable,
				IsState:     node.IsStateVariable,
				Node:        node,
				Location:    node.Location,
			}, "Variable")
		case *ast.Function:
			declare(&Symbol{
				Name:       node.Name,
				Kind:       SymbolFunction,
				Type:       SolType{Name: "function"},
				Visibility: node.Visibility,
				Node:       node,
				Location:   node.Location,
			}, "Function")
		case *ast.Struct:
			declare(&Symbol{
				Name:     node.Name,
				Kind:     SymbolStruct,
				Type:     SolType{Name: node.Name},
				Node:     node,
				Location: node.Location,
			}, "Struct")
		case *ast.Enum:
			declare(&Symbol{
				Name:     node.Name,
				Kind:     SymbolEnum,
				Type:     SolType{Name: node.Name},
				Node:     node,
				Location: node.Location,
			}, "Enum")
		case *ast.Event:
			declare(&Symbol{
				Name:     node.Name,
				Kind:     SymbolEvent,
				Type:     SolType{Name: "event"},
				Node:     node,
				Location: node.Location,
			}, "Event")
		case *ast.Modifier:
			declare(&Symbol{
				Name:     node.Name,
				Kind:     SymbolModifier,
				Type:     SolType{Name: "modifier"},
				Node:     node,
				Location: node.Location,
			}, "Modifier")
		}
	}
}

func (a *Analyzer) analyzeFunction(fn *ast.Function) {
	a.currentFunction = fn
	a.readsState = false
	a.writesState = false
	a.table.EnterScope("function_" + fn.Name)

	for _, param := range fn.Parameters {
		a.declareParameter(param)
	}
	for _, ret := range fn.Returns {
		if ret.Name != "" {
			a.declareParameter(ret)
		}
	}

	if fn.Visibility == ast.VisibilityNone && !fn.IsConstructor {
		a.warningf(diag.CodeMissingVisibility, fn.Location,
			"Function '%s' must specify visibility", fn.Name)
	}

	if fn.Body != nil {
		a.analyzeStatement(fn.Body)
	}

	// Mutability is judged on the accesses recorded during body analysis,
	// so the check sees only identifiers that actually resolved to state.
	if fn.Mutability == ast.MutabilityPure && a.readsState {
		a.errorf(diag.CodePureReadsState, fn.Location,
			"Function '%s' is declared pure but reads state", fn.Name)
	}
	if fn.Mutability == ast.MutabilityView && a.writesState {
		a.errorf(diag.CodeViewWritesState, fn.Location,
			"Function '%s' is declared view but modifies state", fn.Name)
	}

	a.table.ExitScope()
	a.currentFunction = nil
}

func (a *Analyzer) declareParameter(param *ast.Parameter) {
	added := a.table.AddSymbol(&Symbol{
		Name:     param.Name,
		Kind:     SymbolParameter,
		Type:     ParseType(param.TypeName),
		Node:     param,
		Location: param.Location,
	})
	if !added {
		a.errorf(diag.CodeDuplicateDeclaration, param.Location,
			"Parameter '%s' is already defined", param.Name)
	}
}

func (a *Analyzer) analyzeStatement(stmt *ast.Statement) {
	if stmt == nil {
		return
	}

	if stmt.Kind == "variable_declaration" && stmt.Variable != nil {
		v := stmt.Variable
		varType := ParseType(v.TypeName)
		added := a.table.AddSymbol(&Symbol{
			Name:     v.Name,
			Kind:     SymbolVariable,
			Type:     varType,
			Node:     v,
			Location: v.Location,
		})
		if !added {
			a.errorf(diag.CodeDuplicateDeclaration, v.Location,
				"Variable '%s' is already defined", v.Name)
		}
		if v.Value != nil {
			a.validateExpression(v.Value, varType)
		}
		return
	}

	for _, expr := range stmt.Exprs {
		a.inferExpressionType(expr)
	}
	for _, sub := range stmt.Stmts {
		a.analyzeStatement(sub)
	}
}

// inferExpressionType resolves identifiers and computes a coarse type for
// the expression. Member access roots are looked up without reporting,
// since qualified names can refer to globals outside the symbol table.
func (a *Analyzer) inferExpressionType(expr *ast.Expression) SolType {
	if expr == nil {
		return Unknown
	}

	switch expr.Kind {
	case "identifier":
		if sym := a.table.Lookup(expr.Value); sym != nil {
			a.recordStateRead(sym)
			return sym.Type
		}
		a.errorf(diag.CodeUndefinedIdentifier, expr.Location,
			"Undefined identifier '%s'", expr.Value)
		return Unknown

	case "literal":
		return InferLiteralType(expr.Value)

	case "binary_op":
		left := a.inferExpressionType(expr.Left)
		right := a.inferExpressionType(expr.Right)
		if assignmentOps[expr.Operator] {
			a.recordStateWrite(expr.Left)
		}
		return InferBinaryType(left, right, expr.Operator)

	case "unary_op":
		a.inferExpressionType(expr.Left)
		if expr.Operator == "++" || expr.Operator == "--" {
			a.recordStateWrite(expr.Left)
		}
		return Unknown

	case "member_access":
		if expr.Target == nil {
			return Unknown
		}
		if expr.Target.Kind == "identifier" {
			if sym := a.table.Lookup(expr.Target.Value); sym != nil {
				a.recordStateRead(sym)
			}
			return Unknown
		}
		a.inferExpressionType(expr.Target)
		return Unknown

	case "call":
		if expr.Target != nil {
			a.inferExpressionType(expr.Target)
		}
		for _, arg := range expr.Args {
			a.inferExpressionType(arg)
		}
		return Unknown

	case "index":
		target := a.inferExpressionType(expr.Target)
		for _, arg := range expr.Args {
			a.inferExpressionType(arg)
		}
		if target.IsArray {
			return SolType{Name: target.Name}
		}
		if target.IsMapping {
			return ParseType(target.ValueType)
		}
		return Unknown
	}

	return Unknown
}

// validateExpression checks an initializer against the declared type. An
// unknown inferred type never produces a mismatch, so unresolvable
// expressions do not cascade into noise.
func (a *Analyzer) validateExpression(expr *ast.Expression, expected SolType) {
	actual := a.inferExpressionType(expr)
	if actual.IsUnknown() {
		return
	}
	if !actual.CompatibleWith(expected) {
		a.errorf(diag.CodeTypeMismatch, expr.Location,
			"Type mismatch: expected %s, got %s", expected, actual)
	}
}

// recordStateRead marks the current function as reading state. Constants
// and immutables live in code rather than storage, so reading them is
// allowed in any mutability.
func (a *Analyzer) recordStateRead(sym *Symbol) {
	if a.currentFunction == nil {
		return
	}
	if sym.IsState && !sym.IsConstant && !sym.IsImmutable {
		a.readsState = true
	}
}

// recordStateWrite marks the current function as writing state when the
// assignment target's root name resolves to a state variable. Indexing and
// member chains write through to their root.
func (a *Analyzer) recordStateWrite(target *ast.Expression) {
	if a.currentFunction == nil {
		return
	}
	root := rootIdentifier(target)
	if root == "" {
		return
	}
	sym := a.table.Lookup(root)
	if sym != nil && sym.IsState && !sym.IsConstant && !sym.IsImmutable {
		a.writesState = true
	}
}

// rootIdentifier follows index and member chains down to the base name.
func rootIdentifier(expr *ast.Expression) string {
	for expr != nil {
		switch expr.Kind {
		case "identifier":
			return expr.Value
		case "index", "member_access":
			expr = expr.Target
		default:
			return ""
		}
	}
	return ""
}
