package diag

import "solv/internal/ast"

// BuildRecord is a finding imported from an external build or lint run,
// expressed in that tool's own coordinates (1-based lines).
type BuildRecord struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Severity string
	Code     string
	Source   string
	HelpURL  string
}

// FromBuildRecord converts an external record into a Diagnostic. Unknown
// severities default to error so external findings are never silently
// downgraded.
func FromBuildRecord(r BuildRecord) Diagnostic {
	sev := SeverityError
	switch r.Severity {
	case "warning":
		sev = SeverityWarning
	case "info", "information":
		sev = SeverityInfo
	case "hint":
		sev = SeverityHint
	}
	source := r.Source
	if source == "" {
		source = "build"
	}
	line := r.Line - 1
	if line < 0 {
		line = 0
	}
	return Diagnostic{
		Severity: sev,
		Code:     r.Code,
		Message:  r.Message,
		Source:   source,
		HelpURL:  r.HelpURL,
		Location: ast.Location{
			File:  r.FilePath,
			Start: ast.Position{Line: line, Column: r.Column},
			End:   ast.Position{Line: line, Column: r.Column},
		},
	}
}

// Merge concatenates diagnostic groups preserving group order: syntax findings
// first, then semantic, then external build records. Order within each group
// is preserved as produced.
func Merge(syntax, semantic []Diagnostic, build []BuildRecord) []Diagnostic {
	merged := make([]Diagnostic, 0, len(syntax)+len(semantic)+len(build))
	merged = append(merged, syntax...)
	merged = append(merged, semantic...)
	for _, r := range build {
		merged = append(merged, FromBuildRecord(r))
	}
	return merged
}
