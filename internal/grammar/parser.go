package grammar

import (
	"github.com/alecthomas/participle/v2"

	"solv/internal/parsetree"
)

// SyntaxError is a parse failure in the external-parser coordinate
// convention: 1-based line, 0-based column.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

var solidityParser = participle.MustBuild[SourceFile](
	participle.Lexer(solidityLexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment"),
	participle.UseLookahead(8),
)

// Parse turns Solidity source into the generic parse tree. A syntax error
// yields a nil tree plus the error list; callers degrade to a partial or
// empty AST rather than failing the file outright.
func Parse(fileID, source string) (*parsetree.Node, []SyntaxError) {
	file, err := solidityParser.ParseString(fileID, source)
	if err != nil {
		return nil, convertError(err)
	}
	return flattenSourceFile(file), nil
}

func convertError(err error) []SyntaxError {
	if pe, ok := err.(participle.Error); ok {
		pos := pe.Position()
		return []SyntaxError{{
			Message: pe.Message(),
			Line:    pos.Line,
			Column:  pos.Column - 1,
		}}
	}
	return []SyntaxError{{Message: err.Error(), Line: 1, Column: 0}}
}
