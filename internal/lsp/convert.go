package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"solv/internal/ast"
	"solv/internal/diag"
)

// toProtocolLocations converts engine locations into LSP locations. Both
// sides use 0-based lines and columns, so only the URI needs work.
func toProtocolLocations(locations []ast.Location) []protocol.Location {
	result := make([]protocol.Location, 0, len(locations))
	for _, loc := range locations {
		result = append(result, protocol.Location{
			URI: pathToURI(loc.File),
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(loc.Start.Line), Character: uint32(max(0, loc.Start.Column))},
				End:   protocol.Position{Line: uint32(loc.End.Line), Character: uint32(max(0, loc.End.Column))},
			},
		})
	}
	return result
}

func toPosition(pos protocol.Position) ast.Position {
	return ast.Position{Line: int(pos.Line), Column: int(pos.Character)}
}

func toProtocolDiagnostics(diagnostics []diag.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		pd := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(d.Location.Start.Line), Character: uint32(max(0, d.Location.Start.Column))},
				End:   protocol.Position{Line: uint32(d.Location.End.Line), Character: uint32(max(0, d.Location.End.Column))},
			},
			Severity: ptrSeverity(toSeverity(d.Severity)),
			Source:   ptrString(d.Source),
			Message:  d.Message,
		}
		if d.Code != "" {
			pd.Code = &protocol.IntegerOrString{Value: d.Code}
		}
		result = append(result, pd)
	}
	return result
}

func toSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	case diag.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func pathToURI(path string) protocol.DocumentUri {
	if path == "" {
		return ""
	}
	return protocol.DocumentUri("file://" + path)
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
