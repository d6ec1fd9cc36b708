package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solv/internal/parsetree"
)

func TestParseContract(t *testing.T) {
	source := `pragma solidity ^0.8.0;

contract Counter {
    uint256 public count;

    function increment(uint256 amount) public returns (uint256) {
        count = count + amount;
        return count;
    }
}`

	tree, errs := Parse("counter.sol", source)
	require.Empty(t, errs, "Should have no syntax errors")
	require.NotNil(t, tree)

	assert.Equal(t, parsetree.KindSourceUnit, tree.Kind)
	require.Len(t, tree.Children, 2)

	pragma := tree.Children[0]
	assert.Equal(t, parsetree.KindPragma, pragma.Kind)
	assert.Equal(t, "solidity", pragma.Text)

	contract := tree.Children[1]
	assert.Equal(t, parsetree.KindContract, contract.Kind)
	assert.Equal(t, "Counter", contract.Text)
	require.Len(t, contract.Children, 2)

	stateVar := contract.Children[0]
	assert.Equal(t, parsetree.KindStateVariable, stateVar.Kind)
	assert.Equal(t, "count", stateVar.Text)
	assert.True(t, stateVar.HasAttr("public"))

	fn := contract.Children[1]
	assert.Equal(t, parsetree.KindFunction, fn.Kind)
	assert.Equal(t, "increment", fn.Text)
	assert.True(t, fn.HasAttr("public"))

	params := fn.ChildrenOfKind(parsetree.KindParameter)
	require.Len(t, params, 2, "one parameter plus one return parameter")
	assert.Equal(t, "amount", params[0].Text)
	assert.True(t, params[1].HasAttr("return"))
}

func TestParseLibraryAndUsing(t *testing.T) {
	source := `library MathUtils {
    function square(uint256 x) internal pure returns (uint256) {
        return x * x;
    }
}

contract Calculator {
    using MathUtils for uint256;
}`

	tree, errs := Parse("math.sol", source)
	require.Empty(t, errs)
	require.Len(t, tree.Children, 2)

	library := tree.Children[0]
	assert.Equal(t, parsetree.KindLibrary, library.Kind)
	assert.Equal(t, "MathUtils", library.Text)

	fn := library.FirstChild(parsetree.KindFunction)
	require.NotNil(t, fn)
	assert.Equal(t, "square", fn.Text)
	assert.True(t, fn.HasAttr("internal"))
	assert.True(t, fn.HasAttr("pure"))

	contract := tree.Children[1]
	using := contract.FirstChild(parsetree.KindUsing)
	require.NotNil(t, using)
	assert.Equal(t, "MathUtils", using.Text)
	assert.True(t, using.HasAttr("for:uint256"))
}

func TestParseUsingWildcardAndGlobal(t *testing.T) {
	source := `using SafeMath for *;
using {MathUtils.square} for uint256 global;
`

	tree, errs := Parse("directives.sol", source)
	require.Empty(t, errs)
	require.Len(t, tree.Children, 2)

	wildcard := tree.Children[0]
	assert.Equal(t, "SafeMath", wildcard.Text)
	assert.True(t, wildcard.HasAttr("for:*"))

	selective := tree.Children[1]
	assert.Equal(t, "MathUtils", selective.Text)
	assert.True(t, selective.HasAttr("for:uint256"))
	assert.True(t, selective.HasAttr("global"))
	require.Len(t, selective.Children, 1)
	assert.Equal(t, "square", selective.Children[0].Text)
}

func TestParseMappingAndArrayTypes(t *testing.T) {
	source := `contract Bank {
    mapping(address => uint256) private balances;
    uint256[] internal history;
    bytes32[4] internal slots;
}`

	tree, errs := Parse("bank.sol", source)
	require.Empty(t, errs)

	contract := tree.Children[0]
	vars := contract.ChildrenOfKind(parsetree.KindStateVariable)
	require.Len(t, vars, 3)

	assert.Equal(t, "mapping(address => uint256)", vars[0].FirstChild(parsetree.KindTypeName).Text)
	assert.Equal(t, "uint256[]", vars[1].FirstChild(parsetree.KindTypeName).Text)
	assert.Equal(t, "bytes32[4]", vars[2].FirstChild(parsetree.KindTypeName).Text)
}

func TestParseModifierDoesNotEatReturns(t *testing.T) {
	source := `contract Owned {
    modifier onlyOwner() {
        _;
    }

    function value() public view onlyOwner returns (uint256) {
        return 1;
    }
}`

	// The underscore placeholder is a plain identifier statement.
	tree, errs := Parse("owned.sol", source)
	require.Empty(t, errs)

	contract := tree.Children[0]
	fn := contract.FirstChild(parsetree.KindFunction)
	require.NotNil(t, fn)
	assert.True(t, fn.HasAttr("modifier:onlyOwner"))

	params := fn.ChildrenOfKind(parsetree.KindParameter)
	require.Len(t, params, 1)
	assert.True(t, params[0].HasAttr("return"))
}

func TestParseErrorReportsPosition(t *testing.T) {
	source := `contract Broken {
    function () {
}`

	tree, errs := Parse("broken.sol", source)
	assert.Nil(t, tree)
	require.NotEmpty(t, errs)
	assert.Greater(t, errs[0].Line, 0)
}

func TestParsePositionsAreOneBasedLines(t *testing.T) {
	source := "contract A {\n}"

	tree, errs := Parse("a.sol", source)
	require.Empty(t, errs)

	contract := tree.Children[0]
	assert.Equal(t, 1, contract.Start.Line)
	assert.Equal(t, 0, contract.Start.Column)
}
