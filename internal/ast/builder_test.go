package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solv/internal/grammar"
)

func buildSource(t *testing.T, file, source string) *SourceUnit {
	t.Helper()
	tree, errs := grammar.Parse(file, source)
	require.Empty(t, errs, "Should have no syntax errors")
	return Build(tree, file)
}

func TestBuildNilTree(t *testing.T) {
	unit := Build(nil, "empty.sol")
	require.NotNil(t, unit)
	assert.Equal(t, "empty.sol", unit.File)
	assert.Empty(t, unit.Contracts)
	assert.Empty(t, unit.Items)
}

func TestBuildSourceUnitThreading(t *testing.T) {
	source := `pragma solidity ^0.8.0;
import "./Token.sol";
import {Ownable} from "./Ownable.sol";

library MathUtils {
    function square(uint256 x) internal pure returns (uint256) {
        return x * x;
    }
}

contract Calculator {
    using MathUtils for uint256;

    uint256 public total;

    event Updated(uint256 value);

    struct Entry {
        uint256 value;
        address owner;
    }

    enum State { Idle, Busy }

    modifier guarded() {
        _;
    }

    constructor() {
        total = 0;
    }

    function apply(uint256 x) public returns (uint256) {
        total = x.square();
        return total;
    }
}`

	unit := buildSource(t, "calc.sol", source)

	require.Len(t, unit.Pragmas, 1)
	assert.Equal(t, "solidity", unit.Pragmas[0].Name)
	assert.Equal(t, "^0.8.0", unit.Pragmas[0].Value)

	require.Len(t, unit.Imports, 2)
	assert.Equal(t, "./Token.sol", unit.Imports[0].Path)
	assert.Equal(t, []string{"Ownable"}, unit.Imports[1].Symbols)

	require.Len(t, unit.Contracts, 2)

	library := unit.Contracts[0]
	assert.Equal(t, KindLibrary, library.Kind)
	require.Len(t, library.Functions, 1)
	square := library.Functions[0]
	assert.Equal(t, "square", square.Name)
	assert.Equal(t, VisibilityInternal, square.Visibility)
	assert.Equal(t, MutabilityPure, square.Mutability)
	require.Len(t, square.Parameters, 1)
	assert.Equal(t, "uint256", square.Parameters[0].TypeName)
	require.Len(t, square.Returns, 1)

	contract := unit.Contracts[1]
	assert.Equal(t, KindContract, contract.Kind)
	require.Len(t, contract.UsingDirectives, 1)
	assert.Equal(t, "MathUtils", contract.UsingDirectives[0].LibraryName)
	assert.Equal(t, "uint256", contract.UsingDirectives[0].TargetType)

	require.Len(t, contract.Variables, 1)
	assert.Equal(t, "total", contract.Variables[0].Name)
	assert.True(t, contract.Variables[0].IsStateVariable)

	require.Len(t, contract.Events, 1)
	require.Len(t, contract.Structs, 1)
	assert.Len(t, contract.Structs[0].Members, 2)
	require.Len(t, contract.Enums, 1)
	assert.Equal(t, []string{"Idle", "Busy"}, contract.Enums[0].Values)
	require.Len(t, contract.Modifiers, 1)

	// Constructor and regular function both land in Functions.
	require.Len(t, contract.Functions, 2)
	assert.True(t, contract.Functions[0].IsConstructor)
	assert.Equal(t, "apply", contract.Functions[1].Name)
}

func TestBuildPositionsAreZeroBasedLines(t *testing.T) {
	source := `contract First {
}

contract Second {
}`

	unit := buildSource(t, "two.sol", source)
	require.Len(t, unit.Contracts, 2)

	assert.Equal(t, 0, unit.Contracts[0].Location.Start.Line)
	assert.Equal(t, 3, unit.Contracts[1].Location.Start.Line)
	assert.Equal(t, 0, unit.Contracts[1].Location.Start.Column)
	assert.Equal(t, "two.sol", unit.Contracts[0].Location.File)
}

func TestBuildExpressionShapes(t *testing.T) {
	source := `contract Expr {
    function f(uint256 a, uint256 b) public pure returns (uint256) {
        uint256 sum = a + b * 2;
        return sum;
    }
}`

	unit := buildSource(t, "expr.sol", source)
	fn := unit.Contracts[0].Functions[0]
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 2)

	decl := fn.Body.Stmts[0]
	assert.Equal(t, "variable_declaration", decl.Kind)
	require.NotNil(t, decl.Variable)
	assert.Equal(t, "sum", decl.Variable.Name)

	init := decl.Variable.Value
	require.NotNil(t, init)
	assert.Equal(t, "binary_op", init.Kind)

	ret := fn.Body.Stmts[1]
	assert.Equal(t, "return", ret.Kind)
	require.Len(t, ret.Exprs, 1)
	assert.Equal(t, "identifier", ret.Exprs[0].Kind)
	assert.Equal(t, "sum", ret.Exprs[0].Value)
}

func TestParentIndex(t *testing.T) {
	source := `contract Holder {
    uint256 internal n;
}`

	unit := buildSource(t, "holder.sol", source)
	index := NewParentIndex(unit)

	v := unit.Contracts[0].Variables[0]
	parent := index.Parent(v)
	assert.Equal(t, unit.Contracts[0], parent)

	ancestor := index.Ancestor(v, SOURCE_UNIT)
	assert.Equal(t, Node(unit), ancestor)
}
