package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solv/internal/ast"
)

func TestFromBuildRecord(t *testing.T) {
	d := FromBuildRecord(BuildRecord{
		FilePath: "src/Token.sol",
		Line:     12,
		Column:   4,
		Message:  "Unused variable",
		Severity: "warning",
		Code:     "2072",
		Source:   "solc",
	})

	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, "solc", d.Source)
	assert.Equal(t, "2072", d.Code)
	assert.Equal(t, 11, d.Location.Start.Line, "build lines are 1-based")
	assert.Equal(t, 4, d.Location.Start.Column)
}

func TestFromBuildRecordDefaults(t *testing.T) {
	d := FromBuildRecord(BuildRecord{Message: "boom", Severity: "fatal", Line: 0})

	assert.Equal(t, SeverityError, d.Severity, "unknown severities stay errors")
	assert.Equal(t, "build", d.Source)
	assert.Equal(t, 0, d.Location.Start.Line, "line never goes negative")
}

func TestMergePreservesGroupOrder(t *testing.T) {
	syntax := []Diagnostic{SyntaxError(ast.Location{File: "a.sol"}, "unexpected token")}
	semantic := []Diagnostic{
		Errorf(CodeUndefinedIdentifier, ast.Location{File: "a.sol"}, "Undefined identifier '%s'", "x"),
		Warningf(CodeMissingVisibility, ast.Location{File: "a.sol"}, "Function '%s' must specify visibility", "f"),
	}
	build := []BuildRecord{{Message: "external finding", Severity: "info", Line: 1}}

	merged := Merge(syntax, semantic, build)
	require.Len(t, merged, 4)
	assert.Equal(t, "syntax", merged[0].Source)
	assert.Equal(t, "semantic", merged[1].Source)
	assert.Equal(t, "semantic", merged[2].Source)
	assert.Equal(t, "build", merged[3].Source)
	assert.Equal(t, SeverityInfo, merged[3].Severity)
}

func TestMergeEmptyGroups(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, nil))
}

func TestDiagnosticString(t *testing.T) {
	d := Errorf(CodeTypeMismatch, ast.Location{
		File:  "src/Init.sol",
		Start: ast.Position{Line: 3, Column: 8},
	}, "Type mismatch: expected %s, got %s", "bool", "uint256")

	s := d.String()
	assert.Contains(t, s, "src/Init.sol")
	assert.Contains(t, s, "4", "lines display 1-based")
	assert.Contains(t, s, "Type mismatch: expected bool, got uint256")
}
