package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var solidityLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments are elided before parsing
		{"BlockComment", `/\*(?s:.*?)\*/`, nil},
		{"LineComment", `//[^\n]*`, nil},

		// String literals (import paths, revert reasons)
		{"String", `"[^"]*"|'[^']*'`, nil},

		// Hex literals before decimal so 0x1f tokenizes as one unit
		{"Number", `0x[0-9a-fA-F]+|[0-9]+(\.[0-9]+)*`, nil},

		// Keywords are matched as Idents by literal text in the grammar
		{"Ident", `[a-zA-Z_$][a-zA-Z0-9_$]*`, nil},

		// Multi-character operators before single-character ones
		{"Operator", `(=>|\|\||&&|==|!=|<=|>=|\+\+|--|\+=|-=|\*=|/=|%=|\*\*|[-+*/%!=<>&|^~])`, nil},

		{"Punct", `[{}()\[\];:,.?]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
