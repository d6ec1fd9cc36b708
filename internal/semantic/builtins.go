package semantic

import "fmt"

// seedBuiltins installs the language-level types and global functions into
// the global scope so identifier resolution never treats them as undefined.
func seedBuiltins(st *ScopeTable) {
	types := []string{"bool", "address", "string", "bytes", "uint", "int"}
	for width := 8; width <= 256; width += 8 {
		types = append(types, fmt.Sprintf("uint%d", width), fmt.Sprintf("int%d", width))
	}
	for width := 1; width <= 32; width++ {
		types = append(types, fmt.Sprintf("bytes%d", width))
	}
	for _, name := range types {
		st.AddSymbolAt(GlobalScope, &Symbol{
			Name: name,
			Kind: SymbolType,
			Type: SolType{Name: name},
		})
	}

	globals := []string{"require", "assert", "revert", "keccak256", "sha256", "ecrecover"}
	for _, name := range globals {
		st.AddSymbolAt(GlobalScope, &Symbol{
			Name: name,
			Kind: SymbolFunction,
			Type: SolType{Name: "function"},
		})
	}
}
