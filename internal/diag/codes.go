package diag

// Diagnostic codes used across the analysis pipeline. The codes appear in
// editor diagnostics and CLI output, so they stay stable across releases.
//
// Code ranges:
// E0100-E0199: Syntax errors
// E0200-E0299: Declaration errors
// E0300-E0399: Name resolution errors
// E0400-E0499: Type errors
// E0500-E0599: Mutability errors
// E0800-E0899: Warnings
const (
	// E0100: Parse failure reported by the grammar
	CodeSyntax = "E0100"

	// E0200: Same name declared twice in one scope
	CodeDuplicateDeclaration = "E0200"

	// E0300: Identifier does not resolve in any enclosing scope
	CodeUndefinedIdentifier = "E0300"

	// E0400: Initializer type does not match the declared type
	CodeTypeMismatch = "E0400"

	// E0500: State read inside a pure function
	CodePureReadsState = "E0500"

	// E0501: State write inside a view function
	CodeViewWritesState = "E0501"

	// E0800: Function without an explicit visibility keyword
	CodeMissingVisibility = "E0800"
)
