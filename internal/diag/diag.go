package diag

import (
	"fmt"

	"solv/internal/ast"
)

// Severity mirrors the editor-facing severity scale.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Diagnostic is a single finding tied to a source range. Source names the
// pipeline stage that produced it ("syntax", "semantic", or an external
// build tool).
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Source   string
	Location ast.Location
	HelpURL  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		d.Location.File, d.Location.Start.Line+1, d.Location.Start.Column, d.Severity, d.Message)
}

// Errorf builds a semantic error diagnostic at the given location.
func Errorf(code string, loc ast.Location, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Source:   "semantic",
		Location: loc,
	}
}

// Warningf builds a semantic warning diagnostic at the given location.
func Warningf(code string, loc ast.Location, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Source:   "semantic",
		Location: loc,
	}
}

// SyntaxError builds a diagnostic for a parse failure.
func SyntaxError(loc ast.Location, message string) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeSyntax,
		Message:  message,
		Source:   "syntax",
		Location: loc,
	}
}
