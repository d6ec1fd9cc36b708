package navigation

import (
	"regexp"
	"strings"

	"solv/internal/ast"
)

type contextKind string

const (
	ctxUnknown           contextKind = "unknown"
	ctxLibraryMethodCall contextKind = "library_method_call"
	ctxDirectMethodCall  contextKind = "direct_method_call"
	ctxImportPath        contextKind = "import_path"
	ctxTypeReference     contextKind = "type_reference"
	ctxIdentifier        contextKind = "identifier"
)

// positionContext captures what kind of symbol sits under the cursor and the
// surrounding call shape when there is one.
type positionContext struct {
	kind         contextKind
	symbol       string
	receiverName string
	receiverType string
	importPath   string
	position     ast.Position
}

var (
	receiverPattern = regexp.MustCompile(`(\w+)\.\s*$`)
	quotedPattern   = regexp.MustCompile(`["']([^"']+)["']`)
)

var typeKeywords = []string{"uint", "int", "bool", "address", "string", "bytes", "mapping"}

// analyzePosition classifies the cursor position. A dotted call whose
// receiver has an inferable type is a library method call, a dotted call
// without one is a direct method call. Classification falls through to
// import path, type reference, then plain identifier.
func (p *Provider) analyzePosition(content string, pos ast.Position, file string) positionContext {
	lines := strings.Split(content, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return positionContext{kind: ctxUnknown}
	}
	line := lines[pos.Line]

	start, end := wordBounds(line, pos.Column)
	if start == end {
		return positionContext{kind: ctxUnknown}
	}
	symbol := line[start:end]
	before := line[:start]
	after := line[end:]

	if m := receiverPattern.FindStringSubmatch(before); m != nil && strings.HasPrefix(strings.TrimSpace(after), "(") {
		receiver := m[1]

		p.resolver.ParseFileForLibraryInfo(file, content)
		receiverType := p.resolver.InferVariableType(receiver, file, content)

		if receiverType != "" {
			return positionContext{
				kind:         ctxLibraryMethodCall,
				symbol:       symbol,
				receiverName: receiver,
				receiverType: receiverType,
				position:     pos,
			}
		}
		return positionContext{
			kind:         ctxDirectMethodCall,
			symbol:       symbol,
			receiverName: receiver,
			position:     pos,
		}
	}

	if strings.Contains(line, "import") && (strings.Contains(before, `"`) || strings.Contains(before, "'")) {
		ctx := positionContext{kind: ctxImportPath, symbol: symbol, position: pos}
		if m := quotedPattern.FindStringSubmatch(line); m != nil {
			ctx.importPath = m[1]
		}
		return ctx
	}

	for _, keyword := range typeKeywords {
		if strings.Contains(before, keyword) || symbol == keyword {
			return positionContext{kind: ctxTypeReference, symbol: symbol, position: pos}
		}
	}

	return positionContext{kind: ctxIdentifier, symbol: symbol, position: pos}
}

// wordBounds expands from a column to the identifier boundaries around it.
func wordBounds(line string, col int) (int, int) {
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	start := col
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isWordByte(line[end]) {
		end++
	}
	return start, end
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
