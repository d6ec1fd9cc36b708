package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsAreSeeded(t *testing.T) {
	st := NewScopeTable()

	for _, name := range []string{"bool", "address", "string", "bytes", "uint", "int", "uint256", "int8", "bytes32"} {
		sym := st.Lookup(name)
		require.NotNil(t, sym, "builtin type %s should be seeded", name)
		assert.Equal(t, SymbolType, sym.Kind)
	}

	for _, name := range []string{"require", "assert", "revert", "keccak256", "sha256", "ecrecover"} {
		sym := st.Lookup(name)
		require.NotNil(t, sym, "global function %s should be seeded", name)
		assert.Equal(t, SymbolFunction, sym.Kind)
	}
}

func TestAddSymbolRejectsDuplicates(t *testing.T) {
	st := NewScopeTable()
	st.EnterScope("contract_Test")

	assert.True(t, st.AddSymbol(&Symbol{Name: "count", Kind: SymbolVariable}))
	assert.False(t, st.AddSymbol(&Symbol{Name: "count", Kind: SymbolVariable}))
}

func TestLookupWalksParentScopes(t *testing.T) {
	st := NewScopeTable()
	st.EnterScope("contract_Test")
	st.AddSymbol(&Symbol{Name: "count", Kind: SymbolVariable, Type: SolType{Name: "uint256"}})

	st.EnterScope("function_get")
	sym := st.Lookup("count")
	require.NotNil(t, sym)
	assert.Equal(t, "uint256", sym.Type.Name)

	assert.Nil(t, st.LookupLocal("count"), "LookupLocal should not walk parents")
}

func TestShadowingResolvesInnermost(t *testing.T) {
	st := NewScopeTable()
	st.EnterScope("contract_Test")
	st.AddSymbol(&Symbol{Name: "x", Kind: SymbolVariable, Type: SolType{Name: "uint256"}})

	st.EnterScope("function_f")
	st.AddSymbol(&Symbol{Name: "x", Kind: SymbolParameter, Type: SolType{Name: "bool"}})

	sym := st.Lookup("x")
	require.NotNil(t, sym)
	assert.Equal(t, "bool", sym.Type.Name)

	st.ExitScope()
	sym = st.Lookup("x")
	require.NotNil(t, sym)
	assert.Equal(t, "uint256", sym.Type.Name)
}

func TestExitScopeAtRootIsNoOp(t *testing.T) {
	st := NewScopeTable()
	assert.Equal(t, GlobalScope, st.Current())

	st.ExitScope()
	assert.Equal(t, GlobalScope, st.Current())
}

func TestScopeTreeStructure(t *testing.T) {
	st := NewScopeTable()
	contractID := st.EnterScope("contract_A")
	fnID := st.EnterScope("function_f")
	st.ExitScope()
	st.ExitScope()

	contract := st.Scope(contractID)
	require.NotNil(t, contract)
	assert.Equal(t, GlobalScope, contract.Parent)
	assert.Contains(t, contract.Children, fnID)
	assert.Contains(t, st.Global().Children, contractID)
}
