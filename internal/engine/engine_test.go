package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solv/internal/ast"
	"solv/internal/diag"
)

const libSource = `library MathUtils {
    function square(uint256 x) internal pure returns (uint256) {
        return x * x;
    }
}
`

const appSource = `contract Calculator {
    using MathUtils for uint256;

    uint256 public value;

    function compute() public {
        value.square();
    }
}
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestUpdateFileProducesSemanticDiagnostics(t *testing.T) {
	e := New("")
	e.UpdateFile("mem.sol", `contract C {
    function get() public view returns (uint256) {
        return missing;
    }
}
`)

	diags := e.Diagnostics("mem.sol", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "Undefined identifier 'missing'", diags[0].Message)
	assert.Equal(t, "semantic", diags[0].Source)
}

func TestSyntaxDiagnosticsComeFirst(t *testing.T) {
	e := New("")
	e.UpdateFile("broken.sol", `contract C {
    uint256 public total
}
`)

	diags := e.Diagnostics("broken.sol", nil)
	require.NotEmpty(t, diags)
	assert.Equal(t, "syntax", diags[0].Source)
	assert.Equal(t, diag.SeverityError, diags[0].Severity)
}

func TestDiagnosticsMergeBuildRecords(t *testing.T) {
	e := New("")
	e.UpdateFile("clean.sol", "contract C {}\n")

	diags := e.Diagnostics("clean.sol", []diag.BuildRecord{
		{FilePath: "clean.sol", Line: 1, Message: "compiler note", Severity: "info"},
	})
	require.Len(t, diags, 1)
	assert.Equal(t, "build", diags[0].Source)
	assert.Equal(t, diag.SeverityInfo, diags[0].Severity)
}

func TestUpdateInvalidatesLibraryIndex(t *testing.T) {
	e := New("")
	e.UpdateFile("lib.sol", libSource)
	require.Len(t, e.Resolver().LibraryFunctions("MathUtils"), 1)

	e.UpdateFile("lib.sol", `library MathUtils {
    function halve(uint256 x) internal pure returns (uint256) {
        return x / 2;
    }
}
`)

	funcs := e.Resolver().LibraryFunctions("MathUtils")
	require.Len(t, funcs, 1, "the old index must not survive the edit")
	assert.Equal(t, "halve", funcs[0].Name)
}

func TestCrossFileDefinitionWithoutOpening(t *testing.T) {
	root := writeProject(t, map[string]string{
		"lib/MathUtils.sol":  libSource,
		"src/Calculator.sol": appSource,
	})
	e := New(root)

	// Cursor on square in value.square(); neither file is open.
	appPath := filepath.Join(root, "src", "Calculator.sol")
	locs := e.Definitions(appPath, ast.Position{Line: 6, Column: 16})

	require.Len(t, locs, 1)
	assert.Equal(t, filepath.Join(root, "lib", "MathUtils.sol"), locs[0].File)
	assert.Equal(t, 1, locs[0].Start.Line)
}

func TestOpenContentOverridesDisk(t *testing.T) {
	root := writeProject(t, map[string]string{"src/C.sol": "contract C {}\n"})
	e := New(root)

	path := filepath.Join(root, "src", "C.sol")
	e.UpdateFile(path, `contract C {
    function get() public view returns (uint256) {
        return missing;
    }
}
`)
	require.Len(t, e.Diagnostics(path, nil), 1)

	e.CloseFile(path)
	assert.Empty(t, e.Diagnostics(path, nil), "a closed file is re-read from disk")
}

func TestBrokenFileDoesNotPoisonOthers(t *testing.T) {
	e := New("")
	e.UpdateFile("broken.sol", "contract {\n")
	e.UpdateFile("clean.sol", "contract C {}\n")

	assert.NotEmpty(t, e.Diagnostics("broken.sol", nil))
	assert.Empty(t, e.Diagnostics("clean.sol", nil))
}

func TestAttachedCallEndToEnd(t *testing.T) {
	source := `library MathUtils {
    function square(uint256 self) internal pure returns (uint256) {
        return self * self;
    }
}

contract Counter {
    using MathUtils for uint256;

    uint256 public n = 5;

    function f() public view returns (uint256) {
        return n.square();
    }
}
`
	e := New("")
	e.UpdateFile("counter.sol", source)

	assert.Empty(t, e.Diagnostics("counter.sol", nil))

	// Cursor on square in n.square().
	locs := e.Definitions("counter.sol", ast.Position{Line: 12, Column: 18})
	require.Len(t, locs, 1)
	assert.Equal(t, "counter.sol", locs[0].File)
	assert.Equal(t, 1, locs[0].Start.Line)
}

func TestDiagnosticsForUnreadableFile(t *testing.T) {
	e := New("")
	assert.Empty(t, e.Diagnostics("does/not/exist.sol", nil))
	assert.Nil(t, e.Definitions("does/not/exist.sol", ast.Position{}))
}
