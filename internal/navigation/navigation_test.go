package navigation

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solv/internal/ast"
	"solv/internal/grammar"
	"solv/internal/resolver"
)

const fixtureMath = `library MathUtils {
    function square(uint256 x) internal pure returns (uint256) {
        return x * x;
    }

    function cube(uint256 x) internal pure returns (uint256) {
        return x * x * x;
    }
}
`

const fixtureCalculator = `pragma solidity ^0.8.0;

import "../lib/MathUtils.sol";

contract Calculator {
    using MathUtils for uint256;

    uint256 public value;

    function compute() public {
        value.square();
        MathUtils.cube(value);
    }
}
`

const fixtureIToken = `interface IToken {
    function transfer(address to, uint256 amount) external;
}
`

const fixtureToken = `contract Token is IToken {
    function transfer(address to, uint256 amount) external {
    }
}

contract Registry {
    Token public token;

    function current() public view returns (Token) {
        return token;
    }
}
`

// fixtureWorkspace is an in-memory Workspace over source strings.
type fixtureWorkspace struct {
	sources map[string]string
	units   map[string]*ast.SourceUnit
	imports map[string]string
}

func (w *fixtureWorkspace) Sources() map[string]string { return w.sources }

func (w *fixtureWorkspace) Unit(file string) *ast.SourceUnit {
	if unit, ok := w.units[file]; ok {
		return unit
	}
	content, ok := w.sources[file]
	if !ok {
		return nil
	}
	tree, errs := grammar.Parse(file, content)
	if len(errs) > 0 {
		return nil
	}
	unit := ast.Build(tree, file)
	w.units[file] = unit
	return unit
}

func (w *fixtureWorkspace) ResolveImport(fromFile, importPath string) string {
	return w.imports[importPath]
}

func newFixtureProvider(t *testing.T) (*Provider, *fixtureWorkspace) {
	t.Helper()
	workspace := &fixtureWorkspace{
		sources: map[string]string{
			"lib/MathUtils.sol":  fixtureMath,
			"src/Calculator.sol": fixtureCalculator,
			"src/IToken.sol":     fixtureIToken,
			"src/Token.sol":      fixtureToken,
		},
		units:   make(map[string]*ast.SourceUnit),
		imports: map[string]string{"../lib/MathUtils.sol": "lib/MathUtils.sol"},
	}

	res := resolver.New()
	files := make([]string, 0, len(workspace.sources))
	for file := range workspace.sources {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		res.ParseFileForLibraryInfo(file, workspace.sources[file])
	}

	return New(res, workspace), workspace
}

func TestLibraryMethodCallDefinition(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on square in value.square().
	locs := p.Definitions(fixtureCalculator, ast.Position{Line: 10, Column: 16}, "src/Calculator.sol")
	require.Len(t, locs, 1, "an attached call resolves to exactly one library function")
	assert.Equal(t, "lib/MathUtils.sol", locs[0].File)
	assert.Equal(t, 1, locs[0].Start.Line)
}

func TestQualifiedCallDefinition(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on cube in MathUtils.cube(value).
	locs := p.Definitions(fixtureCalculator, ast.Position{Line: 11, Column: 19}, "src/Calculator.sol")
	require.Len(t, locs, 1)
	assert.Equal(t, "lib/MathUtils.sol", locs[0].File)
	assert.Equal(t, 5, locs[0].Start.Line)
}

func TestImportPathDefinition(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor inside the quoted import path.
	locs := p.Definitions(fixtureCalculator, ast.Position{Line: 2, Column: 16}, "src/Calculator.sol")
	require.Len(t, locs, 1)
	assert.Equal(t, "lib/MathUtils.sol", locs[0].File)
}

func TestIdentifierDefinition(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on value in value.square(); resolves to the state variable.
	locs := p.Definitions(fixtureCalculator, ast.Position{Line: 10, Column: 9}, "src/Calculator.sol")
	require.Len(t, locs, 1)
	assert.Equal(t, "src/Calculator.sol", locs[0].File)
	assert.Equal(t, 7, locs[0].Start.Line)
}

func TestTypeDefinitionsOfContractTypedVariable(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on token in return token;.
	locs := p.TypeDefinitions(fixtureToken, ast.Position{Line: 9, Column: 16}, "src/Token.sol")
	require.Len(t, locs, 1)
	assert.Equal(t, "src/Token.sol", locs[0].File)
	assert.Equal(t, 0, locs[0].Start.Line, "Token's type definition is the contract itself")
}

func TestInterfaceImplementations(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on IToken in contract Token is IToken.
	locs := p.Implementations(fixtureToken, ast.Position{Line: 0, Column: 19}, "src/Token.sol")
	require.Len(t, locs, 1)
	assert.Equal(t, "src/Token.sol", locs[0].File)
	assert.Equal(t, 0, locs[0].Start.Line)
}

func TestInterfaceFunctionImplementations(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on transfer in the interface declaration.
	locs := p.Implementations(fixtureIToken, ast.Position{Line: 1, Column: 14}, "src/IToken.sol")
	require.Len(t, locs, 1)
	assert.Equal(t, "src/Token.sol", locs[0].File)
	assert.Equal(t, 1, locs[0].Start.Line)
}

func TestDeclarationsSurfaceInterface(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on transfer in the implementing contract.
	locs := p.Declarations(fixtureToken, ast.Position{Line: 1, Column: 14}, "src/Token.sol")

	files := make([]string, 0, len(locs))
	for _, loc := range locs {
		files = append(files, loc.File)
	}
	assert.Contains(t, files, "src/IToken.sol", "the interface declaration is included")
	assert.Contains(t, files, "src/Token.sol")
}

func TestReferencesOfLibraryFunction(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on square at its definition in the library.
	refs := p.References(fixtureMath, ast.Position{Line: 1, Column: 14}, "lib/MathUtils.sol", false)
	require.Len(t, refs, 1, "attached call sites count as references")
	assert.Equal(t, "src/Calculator.sol", refs[0].File)
	assert.Equal(t, 10, refs[0].Start.Line)
}

func TestReferencesIncludeDeclaration(t *testing.T) {
	p, _ := newFixtureProvider(t)

	refs := p.References(fixtureMath, ast.Position{Line: 1, Column: 14}, "lib/MathUtils.sol", true)
	require.Len(t, refs, 2)

	// Sorted by file, then line, then column.
	assert.Equal(t, "lib/MathUtils.sol", refs[0].File)
	assert.Equal(t, 1, refs[0].Start.Line)
	assert.Equal(t, "src/Calculator.sol", refs[1].File)
}

func TestReferencesFromCallSite(t *testing.T) {
	p, _ := newFixtureProvider(t)

	// Cursor on square in value.square().
	refs := p.References(fixtureCalculator, ast.Position{Line: 10, Column: 16}, "src/Calculator.sol", false)
	require.Len(t, refs, 1)
	assert.Equal(t, "src/Calculator.sol", refs[0].File)
	assert.Equal(t, 10, refs[0].Start.Line)
}

func TestDedupeLocationsOrdersAndDedupes(t *testing.T) {
	locs := []ast.Location{
		{File: "b.sol", Start: ast.Position{Line: 2, Column: 0}},
		{File: "a.sol", Start: ast.Position{Line: 5, Column: 3}},
		{File: "a.sol", Start: ast.Position{Line: 5, Column: 3}},
		{File: "a.sol", Start: ast.Position{Line: 1, Column: 9}},
	}

	unique := dedupeLocations(locs)
	require.Len(t, unique, 3)
	assert.Equal(t, "a.sol", unique[0].File)
	assert.Equal(t, 1, unique[0].Start.Line)
	assert.Equal(t, 5, unique[1].Start.Line)
	assert.Equal(t, "b.sol", unique[2].File)
}
