package grammar

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"solv/internal/parsetree"
)

// The flattener turns the typed participle tree into the generic parse tree
// the AST builder consumes. Positions keep the external convention: 1-based
// lines, 0-based columns.

func tok(p lexer.Position, text string) parsetree.Token {
	return parsetree.Token{Line: p.Line, Column: p.Column - 1, Text: text}
}

func flattenSourceFile(f *SourceFile) *parsetree.Node {
	root := &parsetree.Node{
		Kind:  parsetree.KindSourceUnit,
		Start: tok(f.Pos, ""),
		End:   tok(f.EndPos, ""),
	}
	for _, item := range f.Items {
		switch {
		case item.Pragma != nil:
			root.Children = append(root.Children, flattenPragma(item.Pragma))
		case item.Import != nil:
			root.Children = append(root.Children, flattenImport(item.Import))
		case item.Using != nil:
			root.Children = append(root.Children, flattenUsing(item.Using))
		case item.Contract != nil:
			root.Children = append(root.Children, flattenContract(item.Contract))
		}
	}
	return root
}

func flattenPragma(p *Pragma) *parsetree.Node {
	return &parsetree.Node{
		Kind:  parsetree.KindPragma,
		Text:  p.Name,
		Attrs: []string{strings.Join(p.Value, "")},
		Start: tok(p.Pos, p.Name),
		End:   tok(p.EndPos, ""),
	}
}

func flattenImport(imp *Import) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindImport,
		Text:  strings.Trim(imp.Path, `"'`),
		Start: tok(imp.Pos, ""),
		End:   tok(imp.EndPos, ""),
	}
	if imp.Alias != "" {
		n.Attrs = append(n.Attrs, "as:"+imp.Alias)
	}
	for _, sym := range imp.Symbols {
		name := sym.Name
		if sym.Alias != "" {
			name = sym.Name + " as " + sym.Alias
		}
		n.Children = append(n.Children, &parsetree.Node{
			Kind: parsetree.KindIdentifier,
			Text: name,
		})
	}
	return n
}

func flattenContract(c *ContractDef) *parsetree.Node {
	var kind parsetree.Kind
	switch c.Kind {
	case "interface":
		kind = parsetree.KindInterface
	case "library":
		kind = parsetree.KindLibrary
	default:
		kind = parsetree.KindContract
	}
	n := &parsetree.Node{
		Kind:  kind,
		Text:  c.Name,
		Start: tok(c.Pos, c.Kind),
		End:   tok(c.EndPos, ""),
	}
	if c.Abstract {
		n.Attrs = append(n.Attrs, "abstract")
	}
	for _, base := range c.Inherits {
		n.Attrs = append(n.Attrs, "is:"+base)
	}
	for _, item := range c.Items {
		if child := flattenContractItem(item); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

func flattenContractItem(item *ContractItem) *parsetree.Node {
	switch {
	case item.Using != nil:
		return flattenUsing(item.Using)
	case item.Function != nil:
		return flattenFunction(item.Function)
	case item.Special != nil:
		return flattenSpecial(item.Special)
	case item.Modifier != nil:
		return flattenModifier(item.Modifier)
	case item.Event != nil:
		return flattenEvent(item.Event)
	case item.Struct != nil:
		return flattenStruct(item.Struct)
	case item.Enum != nil:
		return flattenEnum(item.Enum)
	case item.Variable != nil:
		return flattenStateVar(item.Variable)
	}
	return nil
}

func flattenUsing(u *Using) *parsetree.Node {
	library := u.Library
	if library == "" && len(u.Functions) > 0 {
		library = u.Functions[0].Library
	}
	target := "*"
	if !u.Wildcard && u.Target != nil {
		target = u.Target.String()
	}
	n := &parsetree.Node{
		Kind:  parsetree.KindUsing,
		Text:  library,
		Attrs: []string{"for:" + target},
		Start: tok(u.Pos, "using"),
		End:   tok(u.EndPos, ""),
	}
	if u.Global {
		n.Attrs = append(n.Attrs, "global")
	}
	for _, fn := range u.Functions {
		name := fn.Name
		if fn.Alias != "" {
			name = fn.Name + " as " + fn.Alias
		}
		n.Children = append(n.Children, &parsetree.Node{
			Kind: parsetree.KindIdentifier,
			Text: name,
		})
	}
	return n
}

func flattenStateVar(v *StateVarDecl) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindStateVariable,
		Text:  v.Name,
		Attrs: v.Mods,
		Start: tok(v.Pos, ""),
		End:   tok(v.EndPos, ""),
	}
	n.Children = append(n.Children, flattenTypeName(v.Type))
	if v.Value != nil {
		n.Children = append(n.Children, flattenExpr(v.Value))
	}
	return n
}

func flattenFunction(f *FunctionDef) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindFunction,
		Text:  f.Name,
		Start: tok(f.Pos, "function"),
		End:   tok(f.EndPos, ""),
	}
	flattenSignature(n, f.Params, f.Mods, f.Returns, f.Body)
	return n
}

func flattenSpecial(s *SpecialFunction) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindConstructor,
		Text:  s.Kind,
		Start: tok(s.Pos, s.Kind),
		End:   tok(s.EndPos, ""),
	}
	flattenSignature(n, s.Params, s.Mods, nil, s.Body)
	return n
}

func flattenSignature(n *parsetree.Node, params []*Param, mods []*FuncMod, returns []*Param, body *Block) {
	for _, p := range params {
		n.Children = append(n.Children, flattenParam(p, parsetree.KindParameter))
	}
	for _, m := range mods {
		if m.Keyword != "" {
			n.Attrs = append(n.Attrs, m.Keyword)
		} else if m.Invocation != nil {
			n.Attrs = append(n.Attrs, "modifier:"+m.Invocation.Name)
		}
	}
	for _, r := range returns {
		child := flattenParam(r, parsetree.KindParameter)
		child.Attrs = append(child.Attrs, "return")
		n.Children = append(n.Children, child)
	}
	if body != nil {
		n.Children = append(n.Children, flattenBlock(body))
	}
}

func flattenParam(p *Param, kind parsetree.Kind) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  kind,
		Text:  p.Name,
		Start: tok(p.Pos, ""),
		End:   tok(p.EndPos, ""),
	}
	if p.Storage != "" {
		n.Attrs = append(n.Attrs, p.Storage)
	}
	n.Children = append(n.Children, flattenTypeName(p.Type))
	return n
}

func flattenTypeName(t *TypeName) *parsetree.Node {
	return &parsetree.Node{
		Kind:  parsetree.KindTypeName,
		Text:  t.String(),
		Start: tok(t.Pos, ""),
		End:   tok(t.EndPos, ""),
	}
}

func flattenModifier(m *ModifierDef) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindModifier,
		Text:  m.Name,
		Start: tok(m.Pos, "modifier"),
		End:   tok(m.EndPos, ""),
	}
	for _, p := range m.Params {
		n.Children = append(n.Children, flattenParam(p, parsetree.KindParameter))
	}
	if m.Body != nil {
		n.Children = append(n.Children, flattenBlock(m.Body))
	}
	return n
}

func flattenEvent(e *EventDef) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindEvent,
		Text:  e.Name,
		Start: tok(e.Pos, "event"),
		End:   tok(e.EndPos, ""),
	}
	if e.Anonymous {
		n.Attrs = append(n.Attrs, "anonymous")
	}
	for _, p := range e.Params {
		n.Children = append(n.Children, flattenParam(p, parsetree.KindParameter))
	}
	return n
}

func flattenStruct(s *StructDef) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindStruct,
		Text:  s.Name,
		Start: tok(s.Pos, "struct"),
		End:   tok(s.EndPos, ""),
	}
	for _, m := range s.Members {
		member := &parsetree.Node{
			Kind:  parsetree.KindStructMember,
			Text:  m.Name,
			Start: tok(m.Pos, ""),
			End:   tok(m.EndPos, ""),
		}
		member.Children = append(member.Children, flattenTypeName(m.Type))
		n.Children = append(n.Children, member)
	}
	return n
}

func flattenEnum(e *EnumDef) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindEnum,
		Text:  e.Name,
		Attrs: e.Values,
		Start: tok(e.Pos, "enum"),
		End:   tok(e.EndPos, ""),
	}
	return n
}

func flattenBlock(b *Block) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindBlock,
		Start: tok(b.Pos, "{"),
		End:   tok(b.EndPos, ""),
	}
	for _, s := range b.Stmts {
		if child := flattenStatement(s); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

func flattenStatement(s *Statement) *parsetree.Node {
	switch {
	case s.Block != nil:
		return flattenBlock(s.Block)
	case s.If != nil:
		n := &parsetree.Node{Kind: parsetree.KindIf, Start: tok(s.Pos, "if"), End: tok(s.EndPos, "")}
		n.Children = append(n.Children, flattenExpr(s.If.Cond))
		if then := flattenStatement(s.If.Then); then != nil {
			n.Children = append(n.Children, then)
		}
		if s.If.Else != nil {
			if els := flattenStatement(s.If.Else); els != nil {
				n.Children = append(n.Children, els)
			}
		}
		return n
	case s.While != nil:
		n := &parsetree.Node{Kind: parsetree.KindWhile, Start: tok(s.Pos, "while"), End: tok(s.EndPos, "")}
		n.Children = append(n.Children, flattenExpr(s.While.Cond))
		if body := flattenStatement(s.While.Body); body != nil {
			n.Children = append(n.Children, body)
		}
		return n
	case s.For != nil:
		n := &parsetree.Node{Kind: parsetree.KindFor, Start: tok(s.Pos, "for"), End: tok(s.EndPos, "")}
		if s.For.Init != nil {
			n.Children = append(n.Children, flattenVarDecl(s.For.Init))
		}
		if s.For.Cond != nil {
			n.Children = append(n.Children, flattenExpr(s.For.Cond))
		}
		if s.For.Post != nil {
			n.Children = append(n.Children, flattenExpr(s.For.Post))
		}
		if body := flattenStatement(s.For.Body); body != nil {
			n.Children = append(n.Children, body)
		}
		return n
	case s.Return != nil:
		n := &parsetree.Node{Kind: parsetree.KindReturn, Start: tok(s.Pos, "return"), End: tok(s.EndPos, "")}
		if s.Return.Value != nil {
			n.Children = append(n.Children, flattenExpr(s.Return.Value))
		}
		return n
	case s.Emit != nil:
		n := &parsetree.Node{Kind: parsetree.KindEmit, Start: tok(s.Pos, "emit"), End: tok(s.EndPos, "")}
		n.Children = append(n.Children, flattenExpr(s.Emit.Event))
		return n
	case s.VarDecl != nil:
		return flattenVarDecl(s.VarDecl)
	case s.Expr != nil:
		n := &parsetree.Node{Kind: parsetree.KindExprStmt, Start: tok(s.Pos, ""), End: tok(s.EndPos, "")}
		n.Children = append(n.Children, flattenExpr(s.Expr.Expr))
		return n
	}
	return nil
}

func flattenVarDecl(v *VarDeclStmt) *parsetree.Node {
	n := &parsetree.Node{
		Kind:  parsetree.KindVarDecl,
		Text:  v.Name,
		Start: tok(v.Pos, ""),
		End:   tok(v.EndPos, ""),
	}
	if v.Storage != "" {
		n.Attrs = append(n.Attrs, v.Storage)
	}
	n.Children = append(n.Children, flattenTypeName(v.Type))
	if v.Value != nil {
		n.Children = append(n.Children, flattenExpr(v.Value))
	}
	return n
}

func flattenExpr(e *Expr) *parsetree.Node {
	left := flattenBinary(e.Left, e.Pos, e.EndPos)
	if e.Op == "" {
		return left
	}
	n := &parsetree.Node{
		Kind:  parsetree.KindBinary,
		Text:  e.Op,
		Start: tok(e.Pos, ""),
		End:   tok(e.EndPos, ""),
	}
	n.Children = append(n.Children, left, flattenExpr(e.Right))
	return n
}

// flattenBinary folds the precedence-flattened operator list left to right,
// which matches how the analyzer's coarse inference consumes it.
func flattenBinary(b *BinaryExpr, start, end lexer.Position) *parsetree.Node {
	node := flattenUnary(b.Left, start, end)
	for _, op := range b.Ops {
		parent := &parsetree.Node{
			Kind:  parsetree.KindBinary,
			Text:  op.Op,
			Start: tok(start, ""),
			End:   tok(end, ""),
		}
		parent.Children = append(parent.Children, node, flattenUnary(op.Right, start, end))
		node = parent
	}
	return node
}

func flattenUnary(u *UnaryExpr, start, end lexer.Position) *parsetree.Node {
	inner := flattenPostfix(u.Postfix)
	if u.Op == "" {
		return inner
	}
	n := &parsetree.Node{
		Kind:  parsetree.KindUnary,
		Text:  u.Op,
		Start: tok(start, ""),
		End:   tok(end, ""),
	}
	n.Children = append(n.Children, inner)
	return n
}

func flattenPostfix(p *PostfixExpr) *parsetree.Node {
	node := flattenPrimary(p.Primary)
	for _, op := range p.Ops {
		switch {
		case op.Member != "":
			parent := &parsetree.Node{
				Kind:  parsetree.KindMemberAccess,
				Text:  op.Member,
				Start: tok(p.Pos, ""),
				End:   tok(p.EndPos, ""),
			}
			parent.Children = append(parent.Children, node)
			node = parent
		case op.Call != nil:
			parent := &parsetree.Node{
				Kind:  parsetree.KindCall,
				Start: tok(p.Pos, ""),
				End:   tok(p.EndPos, ""),
			}
			parent.Children = append(parent.Children, node)
			for _, arg := range op.Call.Args {
				parent.Children = append(parent.Children, flattenExpr(arg))
			}
			node = parent
		case op.Index != nil:
			parent := &parsetree.Node{
				Kind:  parsetree.KindIndex,
				Start: tok(p.Pos, ""),
				End:   tok(p.EndPos, ""),
			}
			parent.Children = append(parent.Children, node)
			if op.Index.Index != nil {
				parent.Children = append(parent.Children, flattenExpr(op.Index.Index))
			}
			node = parent
		}
	}
	return node
}

func flattenPrimary(p *PrimaryExpr) *parsetree.Node {
	switch {
	case p.Literal != nil:
		text := ""
		switch {
		case p.Literal.Str != nil:
			text = *p.Literal.Str
		case p.Literal.Number != nil:
			text = *p.Literal.Number
		case p.Literal.Bool != nil:
			text = *p.Literal.Bool
		}
		return &parsetree.Node{
			Kind:  parsetree.KindLiteral,
			Text:  text,
			Start: tok(p.Pos, text),
			End:   tok(p.EndPos, ""),
		}
	case p.Paren != nil:
		return flattenExpr(p.Paren)
	default:
		return &parsetree.Node{
			Kind:  parsetree.KindIdentifier,
			Text:  p.Ident,
			Start: tok(p.Pos, p.Ident),
			End:   tok(p.EndPos, ""),
		}
	}
}
