package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveRelativeImport(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, root, "lib/MathUtils.sol", "library MathUtils {}\n")
	from := writeFile(t, root, "src/Calculator.sol", "contract Calculator {}\n")

	r := NewResolver(root)
	assert.Equal(t, target, r.ResolveImport("../lib/MathUtils.sol", from))
	assert.Equal(t, "", r.ResolveImport("../lib/Missing.sol", from))
	assert.Equal(t, "", r.ResolveImport("./MathUtils.sol", ""), "relative imports need an importing file")
}

func TestResolveRemappedImport(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, root, "lib/openzeppelin/token/ERC20.sol", "contract ERC20 {}\n")
	writeFile(t, root, "remappings.txt", "# project remappings\n@openzeppelin/=lib/openzeppelin/\n")

	r := NewResolver(root)
	require.Len(t, r.Remappings(), 1, "comments and blank lines are skipped")
	assert.Equal(t, target, r.ResolveImport("@openzeppelin/token/ERC20.sol", ""))
}

func TestFirstMatchingRemappingWins(t *testing.T) {
	root := t.TempDir()
	first := writeFile(t, root, "vendored/Token.sol", "contract Token {}\n")
	writeFile(t, root, "fallback/Token.sol", "contract Token {}\n")
	writeFile(t, root, "remappings.txt", "pkg/=vendored/\npkg/=fallback/\n")

	r := NewResolver(root)
	assert.Equal(t, first, r.ResolveImport("pkg/Token.sol", ""))
}

func TestResolveAgainstRootAndLibDirs(t *testing.T) {
	root := t.TempDir()
	inRoot := writeFile(t, root, "src/Token.sol", "contract Token {}\n")
	inLib := writeFile(t, root, "lib/forge-std/Test.sol", "contract Test {}\n")

	r := NewResolver(root)
	assert.Equal(t, inRoot, r.ResolveImport("src/Token.sol", ""))
	assert.Equal(t, inLib, r.ResolveImport("forge-std/Test.sol", ""))
}

func TestRefreshPicksUpRemappingEdits(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root)
	assert.Empty(t, r.Remappings())

	writeFile(t, root, "remappings.txt", "pkg/=lib/pkg/\n")
	r.Refresh()
	require.Len(t, r.Remappings(), 1)
	assert.Equal(t, "pkg/", r.Remappings()[0].Prefix)
}

func TestAllSolidityFiles(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "src/A.sol", "contract A {}\n")
	b := writeFile(t, root, "lib/B.sol", "library B {}\n")
	writeFile(t, root, "src/notes.txt", "not solidity\n")
	writeFile(t, root, ".git/ignored.sol", "contract Hidden {}\n")

	files := NewResolver(root).AllSolidityFiles()
	assert.ElementsMatch(t, []string{a, b}, files, "hidden directories and non-sol files are skipped")
}

func TestNilResolverDegrades(t *testing.T) {
	var r *Resolver
	assert.Equal(t, "", r.Root())
	assert.Equal(t, "", r.ResolveImport("src/A.sol", ""))
	assert.Nil(t, r.AllSolidityFiles())
	assert.Nil(t, r.Remappings())
	r.Refresh()
}
