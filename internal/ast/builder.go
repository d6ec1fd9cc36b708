package ast

import (
	"strings"

	"solv/internal/parsetree"
)

// Build transforms a parse tree into an owned AST in a single pass. It is
// purely structural: unknown productions are skipped rather than failing the
// file, and a nil tree yields an empty SourceUnit.
func Build(tree *parsetree.Node, fileID string) *SourceUnit {
	unit := &SourceUnit{File: fileID}
	if tree == nil {
		return unit
	}
	unit.Location = loc(fileID, tree)
	for _, child := range tree.Children {
		switch child.Kind {
		case parsetree.KindPragma:
			p := buildPragma(child, fileID)
			unit.Pragmas = append(unit.Pragmas, p)
			unit.Items = append(unit.Items, p)
		case parsetree.KindImport:
			imp := buildImport(child, fileID)
			unit.Imports = append(unit.Imports, imp)
			unit.Items = append(unit.Items, imp)
		case parsetree.KindUsing:
			u := buildUsing(child, fileID)
			unit.UsingDirectives = append(unit.UsingDirectives, u)
			unit.Items = append(unit.Items, u)
		case parsetree.KindContract, parsetree.KindInterface, parsetree.KindLibrary:
			c := buildContract(child, fileID)
			unit.Contracts = append(unit.Contracts, c)
			unit.Items = append(unit.Items, c)
		}
	}
	return unit
}

func loc(fileID string, n *parsetree.Node) Location {
	return Location{
		File:  fileID,
		Start: Position{Line: n.Start.Line - 1, Column: n.Start.Column},
		End:   Position{Line: n.End.Line - 1, Column: n.End.Column},
	}
}

func buildPragma(n *parsetree.Node, fileID string) *Pragma {
	value := ""
	if len(n.Attrs) > 0 {
		value = n.Attrs[0]
	}
	return &Pragma{Location: loc(fileID, n), Name: n.Text, Value: value}
}

func buildImport(n *parsetree.Node, fileID string) *Import {
	imp := &Import{Location: loc(fileID, n), Path: n.Text}
	for _, attr := range n.Attrs {
		if rest, ok := strings.CutPrefix(attr, "as:"); ok {
			imp.Alias = rest
		}
	}
	for _, sym := range n.Children {
		if sym.Kind == parsetree.KindIdentifier {
			imp.Symbols = append(imp.Symbols, sym.Text)
		}
	}
	return imp
}

func buildUsing(n *parsetree.Node, fileID string) *Using {
	u := &Using{Location: loc(fileID, n), LibraryName: n.Text, TargetType: "*"}
	for _, attr := range n.Attrs {
		if rest, ok := strings.CutPrefix(attr, "for:"); ok {
			u.TargetType = rest
		} else if attr == "global" {
			u.IsGlobal = true
		}
	}
	for _, fn := range n.Children {
		if fn.Kind == parsetree.KindIdentifier {
			u.Functions = append(u.Functions, fn.Text)
		}
	}
	return u
}

func buildContract(n *parsetree.Node, fileID string) *Contract {
	c := &Contract{Location: loc(fileID, n), Name: n.Text, Kind: KindContract}
	switch n.Kind {
	case parsetree.KindInterface:
		c.Kind = KindInterface
	case parsetree.KindLibrary:
		c.Kind = KindLibrary
	}
	for _, attr := range n.Attrs {
		if attr == "abstract" {
			c.Abstract = true
		} else if rest, ok := strings.CutPrefix(attr, "is:"); ok {
			c.Inherits = append(c.Inherits, rest)
		}
	}
	// Typed sub-lists are threaded incrementally alongside the generic order.
	for _, child := range n.Children {
		switch child.Kind {
		case parsetree.KindFunction, parsetree.KindConstructor:
			fn := buildFunction(child, fileID)
			c.Functions = append(c.Functions, fn)
			c.Items = append(c.Items, fn)
		case parsetree.KindStateVariable:
			v := buildStateVariable(child, fileID)
			c.Variables = append(c.Variables, v)
			c.Items = append(c.Items, v)
		case parsetree.KindStruct:
			s := buildStruct(child, fileID)
			c.Structs = append(c.Structs, s)
			c.Items = append(c.Items, s)
		case parsetree.KindEnum:
			e := buildEnum(child, fileID)
			c.Enums = append(c.Enums, e)
			c.Items = append(c.Items, e)
		case parsetree.KindEvent:
			ev := buildEvent(child, fileID)
			c.Events = append(c.Events, ev)
			c.Items = append(c.Items, ev)
		case parsetree.KindModifier:
			m := buildModifier(child, fileID)
			c.Modifiers = append(c.Modifiers, m)
			c.Items = append(c.Items, m)
		case parsetree.KindUsing:
			u := buildUsing(child, fileID)
			c.UsingDirectives = append(c.UsingDirectives, u)
			c.Items = append(c.Items, u)
		}
	}
	return c
}

func buildFunction(n *parsetree.Node, fileID string) *Function {
	fn := &Function{Location: loc(fileID, n), Name: n.Text}
	if n.Kind == parsetree.KindConstructor {
		switch n.Text {
		case "constructor":
			fn.IsConstructor = true
		case "fallback":
			fn.IsFallback = true
		case "receive":
			fn.IsReceive = true
		}
	}
	for _, attr := range n.Attrs {
		switch attr {
		case "public", "private", "internal", "external":
			fn.Visibility = Visibility(attr)
		case "pure", "view", "payable":
			fn.Mutability = Mutability(attr)
		case "virtual":
			fn.IsVirtual = true
		case "override":
			fn.IsOverride = true
		default:
			if rest, ok := strings.CutPrefix(attr, "modifier:"); ok {
				fn.Modifiers = append(fn.Modifiers, rest)
			}
		}
	}
	for _, child := range n.Children {
		switch child.Kind {
		case parsetree.KindParameter:
			p := buildParameter(child, fileID)
			if child.HasAttr("return") {
				fn.Returns = append(fn.Returns, p)
			} else {
				fn.Parameters = append(fn.Parameters, p)
			}
		case parsetree.KindBlock:
			fn.Body = buildStatement(child, fileID)
		}
	}
	return fn
}

func buildParameter(n *parsetree.Node, fileID string) *Parameter {
	p := &Parameter{Location: loc(fileID, n), Name: n.Text}
	if t := n.FirstChild(parsetree.KindTypeName); t != nil {
		p.TypeName = t.Text
	}
	for _, attr := range n.Attrs {
		switch attr {
		case "memory", "storage", "calldata":
			p.Storage = attr
		case "indexed":
			p.Indexed = true
		}
	}
	return p
}

func buildStateVariable(n *parsetree.Node, fileID string) *Variable {
	v := &Variable{Location: loc(fileID, n), Name: n.Text, IsStateVariable: true}
	if t := n.FirstChild(parsetree.KindTypeName); t != nil {
		v.TypeName = t.Text
	}
	for _, attr := range n.Attrs {
		switch attr {
		case "public", "private", "internal":
			v.Visibility = Visibility(attr)
		case "constant":
			v.IsConstant = true
		case "immutable":
			v.IsImmutable = true
		}
	}
	v.Value = buildInitializer(n, fileID)
	return v
}

// buildInitializer picks the expression child of a variable declaration,
// which sits after the type name when present.
func buildInitializer(n *parsetree.Node, fileID string) *Expression {
	for _, child := range n.Children {
		if child.Kind != parsetree.KindTypeName {
			if expr := buildExpression(child, fileID); expr != nil {
				return expr
			}
		}
	}
	return nil
}

func buildStruct(n *parsetree.Node, fileID string) *Struct {
	s := &Struct{Location: loc(fileID, n), Name: n.Text}
	for _, member := range n.ChildrenOfKind(parsetree.KindStructMember) {
		v := &Variable{Location: loc(fileID, member), Name: member.Text}
		if t := member.FirstChild(parsetree.KindTypeName); t != nil {
			v.TypeName = t.Text
		}
		s.Members = append(s.Members, v)
	}
	return s
}

func buildEnum(n *parsetree.Node, fileID string) *Enum {
	return &Enum{Location: loc(fileID, n), Name: n.Text, Values: append([]string(nil), n.Attrs...)}
}

func buildEvent(n *parsetree.Node, fileID string) *Event {
	ev := &Event{Location: loc(fileID, n), Name: n.Text, Anonymous: n.HasAttr("anonymous")}
	for _, p := range n.ChildrenOfKind(parsetree.KindParameter) {
		ev.Parameters = append(ev.Parameters, buildParameter(p, fileID))
	}
	return ev
}

func buildModifier(n *parsetree.Node, fileID string) *Modifier {
	m := &Modifier{Location: loc(fileID, n), Name: n.Text}
	for _, child := range n.Children {
		switch child.Kind {
		case parsetree.KindParameter:
			m.Parameters = append(m.Parameters, buildParameter(child, fileID))
		case parsetree.KindBlock:
			m.Body = buildStatement(child, fileID)
		}
	}
	return m
}

func buildStatement(n *parsetree.Node, fileID string) *Statement {
	var kind string
	switch n.Kind {
	case parsetree.KindBlock:
		kind = "block"
	case parsetree.KindIf:
		kind = "if"
	case parsetree.KindWhile:
		kind = "while"
	case parsetree.KindFor:
		kind = "for"
	case parsetree.KindReturn:
		kind = "return"
	case parsetree.KindEmit:
		kind = "emit"
	case parsetree.KindVarDecl:
		kind = "variable_declaration"
	case parsetree.KindExprStmt:
		kind = "expression"
	default:
		return nil
	}
	stmt := &Statement{Location: loc(fileID, n), Kind: kind}
	if kind == "variable_declaration" {
		v := &Variable{Location: loc(fileID, n), Name: n.Text}
		if t := n.FirstChild(parsetree.KindTypeName); t != nil {
			v.TypeName = t.Text
		}
		v.Value = buildInitializer(n, fileID)
		stmt.Variable = v
		return stmt
	}
	for _, child := range n.Children {
		if sub := buildStatement(child, fileID); sub != nil {
			stmt.Stmts = append(stmt.Stmts, sub)
		} else if expr := buildExpression(child, fileID); expr != nil {
			stmt.Exprs = append(stmt.Exprs, expr)
		}
	}
	return stmt
}

func buildExpression(n *parsetree.Node, fileID string) *Expression {
	switch n.Kind {
	case parsetree.KindIdentifier:
		return &Expression{Location: loc(fileID, n), Kind: "identifier", Value: n.Text}
	case parsetree.KindLiteral:
		return &Expression{Location: loc(fileID, n), Kind: "literal", Value: n.Text}
	case parsetree.KindBinary:
		expr := &Expression{Location: loc(fileID, n), Kind: "binary_op", Operator: n.Text}
		if len(n.Children) > 0 {
			expr.Left = buildExpression(n.Children[0], fileID)
		}
		if len(n.Children) > 1 {
			expr.Right = buildExpression(n.Children[1], fileID)
		}
		return expr
	case parsetree.KindUnary:
		expr := &Expression{Location: loc(fileID, n), Kind: "unary_op", Operator: n.Text}
		if len(n.Children) > 0 {
			expr.Left = buildExpression(n.Children[0], fileID)
		}
		return expr
	case parsetree.KindMemberAccess:
		expr := &Expression{Location: loc(fileID, n), Kind: "member_access", Value: n.Text}
		if len(n.Children) > 0 {
			expr.Target = buildExpression(n.Children[0], fileID)
		}
		return expr
	case parsetree.KindCall:
		expr := &Expression{Location: loc(fileID, n), Kind: "call"}
		if len(n.Children) > 0 {
			expr.Target = buildExpression(n.Children[0], fileID)
		}
		for _, arg := range n.Children[min(1, len(n.Children)):] {
			if a := buildExpression(arg, fileID); a != nil {
				expr.Args = append(expr.Args, a)
			}
		}
		return expr
	case parsetree.KindIndex:
		expr := &Expression{Location: loc(fileID, n), Kind: "index"}
		if len(n.Children) > 0 {
			expr.Target = buildExpression(n.Children[0], fileID)
		}
		if len(n.Children) > 1 {
			if idx := buildExpression(n.Children[1], fileID); idx != nil {
				expr.Args = append(expr.Args, idx)
			}
		}
		return expr
	}
	return nil
}
