package semantic

import (
	"solv/internal/ast"
)

type SymbolKind int

const (
	SymbolType SymbolKind = iota
	SymbolContract
	SymbolFunction
	SymbolModifier
	SymbolEvent
	SymbolStruct
	SymbolEnum
	SymbolVariable
	SymbolParameter
)

type Symbol struct {
	Name        string
	Kind        SymbolKind
	Type        SolType
	Visibility  ast.Visibility
	IsConstant  bool
	IsImmutable bool
	IsState     bool
	Node        ast.Node
	Location    ast.Location
}

// ScopeID indexes into the table's scope arena. Scopes reference each other
// by ID so the table can be traversed after analysis without chasing
// pointers into a half-built tree.
type ScopeID int

const GlobalScope ScopeID = 0

type Scope struct {
	ID       ScopeID
	Name     string
	Parent   ScopeID // -1 for the global scope
	Symbols  map[string]*Symbol
	Children []ScopeID
}

type ScopeTable struct {
	scopes  []*Scope
	current ScopeID
}

// NewScopeTable creates a table whose global scope is pre-seeded with the
// builtin types and global functions.
func NewScopeTable() *ScopeTable {
	st := &ScopeTable{
		scopes: []*Scope{{
			ID:      GlobalScope,
			Name:    "global",
			Parent:  -1,
			Symbols: make(map[string]*Symbol),
		}},
	}
	seedBuiltins(st)
	return st
}

func (st *ScopeTable) Current() ScopeID { return st.current }

func (st *ScopeTable) Scope(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(st.scopes) {
		return nil
	}
	return st.scopes[id]
}

func (st *ScopeTable) Global() *Scope { return st.scopes[GlobalScope] }

// EnterScope creates a child of the current scope and makes it current.
func (st *ScopeTable) EnterScope(name string) ScopeID {
	id := ScopeID(len(st.scopes))
	scope := &Scope{
		ID:      id,
		Name:    name,
		Parent:  st.current,
		Symbols: make(map[string]*Symbol),
	}
	st.scopes = append(st.scopes, scope)
	st.scopes[st.current].Children = append(st.scopes[st.current].Children, id)
	st.current = id
	return id
}

// ExitScope returns to the parent scope. At the global scope it is a no-op.
func (st *ScopeTable) ExitScope() {
	if parent := st.scopes[st.current].Parent; parent >= 0 {
		st.current = parent
	}
}

// AddSymbol defines a symbol in the current scope. It returns false without
// overwriting when the name is already taken there.
func (st *ScopeTable) AddSymbol(sym *Symbol) bool {
	return st.AddSymbolAt(st.current, sym)
}

func (st *ScopeTable) AddSymbolAt(id ScopeID, sym *Symbol) bool {
	scope := st.Scope(id)
	if scope == nil {
		return false
	}
	if _, exists := scope.Symbols[sym.Name]; exists {
		return false
	}
	scope.Symbols[sym.Name] = sym
	return true
}

// Lookup resolves a name starting at the current scope and walking outward.
func (st *ScopeTable) Lookup(name string) *Symbol {
	return st.LookupFrom(st.current, name)
}

func (st *ScopeTable) LookupFrom(id ScopeID, name string) *Symbol {
	for id >= 0 {
		scope := st.scopes[id]
		if sym, ok := scope.Symbols[name]; ok {
			return sym
		}
		id = scope.Parent
	}
	return nil
}

// LookupLocal resolves a name in the current scope only.
func (st *ScopeTable) LookupLocal(name string) *Symbol {
	sym, ok := st.scopes[st.current].Symbols[name]
	if !ok {
		return nil
	}
	return sym
}
