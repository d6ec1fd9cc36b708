package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"solv/internal/ast"
	"solv/internal/grammar"
)

// ParseFileForLibraryInfo indexes a file's libraries, using directives, and
// variable types. A file already in the index is skipped, so repeated calls
// within one generation are cheap; Invalidate opens the next generation.
// Extraction works from the AST when the file parses, and falls back to a
// line scan so broken files still contribute partial information.
func (r *Resolver) ParseFileForLibraryInfo(file, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.parsedFiles[file] {
		return
	}
	r.parsedFiles[file] = true

	tree, syntaxErrs := grammar.Parse(file, content)
	if tree != nil && len(syntaxErrs) == 0 {
		r.indexUnit(ast.Build(tree, file), file)
		return
	}
	r.scanLines(file, content)
}

func (r *Resolver) indexUnit(unit *ast.SourceUnit, file string) {
	for _, using := range unit.UsingDirectives {
		r.addDirective(file, using, "global")
	}

	for _, contract := range unit.Contracts {
		for _, using := range contract.UsingDirectives {
			r.addDirective(file, using, contract.Name)
		}

		if contract.Kind == ast.KindLibrary {
			for _, fn := range contract.Functions {
				r.libraryFunctions[contract.Name] = append(r.libraryFunctions[contract.Name], libraryFunction(contract.Name, fn))
			}
			continue
		}

		for _, v := range contract.Variables {
			r.recordVariableType(file, v.Name, v.TypeName)
		}
		for _, fn := range contract.Functions {
			for _, param := range fn.Parameters {
				r.recordVariableType(file, param.Name, param.TypeName)
			}
			r.recordLocalTypes(file, fn.Body)
		}
	}
}

func (r *Resolver) addDirective(file string, using *ast.Using, scope string) {
	r.usingDirectives[file] = append(r.usingDirectives[file], &UsingDirective{
		LibraryName:       using.LibraryName,
		TargetType:        using.TargetType,
		IsGlobal:          using.IsGlobal,
		SpecificFunctions: using.Functions,
		Scope:             scope,
		Location:          using.Location,
	})
}

func (r *Resolver) recordVariableType(file, name, typeName string) {
	if name == "" || typeName == "" {
		return
	}
	if r.variableTypes[file] == nil {
		r.variableTypes[file] = make(map[string]string)
	}
	r.variableTypes[file][name] = typeName
}

func (r *Resolver) recordLocalTypes(file string, stmt *ast.Statement) {
	if stmt == nil {
		return
	}
	if stmt.Kind == "variable_declaration" && stmt.Variable != nil {
		r.recordVariableType(file, stmt.Variable.Name, stmt.Variable.TypeName)
	}
	for _, sub := range stmt.Stmts {
		r.recordLocalTypes(file, sub)
	}
}

func libraryFunction(library string, fn *ast.Function) *LibraryFunction {
	firstParamType := "*"
	params := make([]string, 0, len(fn.Parameters))
	for i, param := range fn.Parameters {
		if i == 0 {
			firstParamType = param.TypeName
		}
		params = append(params, strings.TrimSpace(param.TypeName+" "+param.Name))
	}

	returnTypes := make([]string, 0, len(fn.Returns))
	for _, ret := range fn.Returns {
		returnTypes = append(returnTypes, ret.TypeName)
	}

	visibility := string(fn.Visibility)
	if visibility == "" {
		visibility = "internal"
	}

	return &LibraryFunction{
		Name:           fn.Name,
		LibraryName:    library,
		FirstParamType: firstParamType,
		Parameters:     params,
		ReturnType:     strings.Join(returnTypes, ", "),
		Visibility:     visibility,
		IsView:         fn.Mutability == ast.MutabilityView,
		IsPure:         fn.Mutability == ast.MutabilityPure,
		Location:       fn.Location,
	}
}

var (
	libraryPattern  = regexp.MustCompile(`^library\s+(\w+)\s*\{`)
	contractPattern = regexp.MustCompile(`^contract\s+(\w+)`)
	usingPattern    = regexp.MustCompile(`^using\s+(\w+)\s+for\s+([^;]+);`)
	funcPattern     = regexp.MustCompile(`^function\s+(\w+)\s*\(([^)]*)\)\s*(internal|external|public|private)?\s*(view|pure)?\s*(returns\s*\(([^)]*)\))?`)
	paramTypeOnly   = regexp.MustCompile(`^(\w+(?:\[\])?)\s+(?:memory|storage|calldata)?\s*\w+`)
	stateVarLoose   = regexp.MustCompile(`^(\w+(?:\[\])?)\s+(?:public|private|internal)?\s*(\w+)`)
)

// scanLines is the degraded extraction path for files the grammar rejects.
// It mirrors the indexing the AST path performs, one line at a time.
func (r *Resolver) scanLines(file, content string) {
	currentLibrary := ""
	currentContract := ""

	for lineNum, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)

		if m := libraryPattern.FindStringSubmatch(line); m != nil {
			currentLibrary = m[1]
			continue
		}
		if m := contractPattern.FindStringSubmatch(line); m != nil {
			currentContract = m[1]
			currentLibrary = ""
			continue
		}

		if m := usingPattern.FindStringSubmatch(line); m != nil {
			scope := currentContract
			if scope == "" {
				scope = "global"
			}
			r.usingDirectives[file] = append(r.usingDirectives[file], &UsingDirective{
				LibraryName: m[1],
				TargetType:  strings.TrimSpace(m[2]),
				Scope:       scope,
				Location: ast.Location{
					File:  file,
					Start: ast.Position{Line: lineNum, Column: 0},
					End:   ast.Position{Line: lineNum, Column: len(rawLine)},
				},
			})
			continue
		}

		if currentLibrary != "" {
			if m := funcPattern.FindStringSubmatch(line); m != nil {
				r.libraryFunctions[currentLibrary] = append(r.libraryFunctions[currentLibrary],
					scannedFunction(currentLibrary, file, lineNum, rawLine, m))
				continue
			}
		}

		if currentContract != "" && !strings.Contains(line, "function") {
			if m := stateVarLoose.FindStringSubmatch(line); m != nil && !notTypeWords[m[1]] {
				r.recordVariableType(file, m[2], m[1])
			}
		}
	}
}

func scannedFunction(library, file string, lineNum int, rawLine string, m []string) *LibraryFunction {
	name := m[1]
	firstParamType := "*"
	var params []string
	if paramsStr := strings.TrimSpace(m[2]); paramsStr != "" {
		for _, p := range strings.Split(paramsStr, ",") {
			params = append(params, strings.TrimSpace(p))
		}
		if pm := paramTypeOnly.FindStringSubmatch(params[0]); pm != nil {
			firstParamType = pm[1]
		}
	}

	visibility := m[3]
	if visibility == "" {
		visibility = "internal"
	}

	col := strings.Index(rawLine, "function")
	if col < 0 {
		col = 0
	}
	return &LibraryFunction{
		Name:           name,
		LibraryName:    library,
		FirstParamType: firstParamType,
		Parameters:     params,
		ReturnType:     strings.TrimSpace(m[6]),
		Visibility:     visibility,
		IsView:         m[4] == "view",
		IsPure:         m[4] == "pure",
		Location: ast.Location{
			File:  file,
			Start: ast.Position{Line: lineNum, Column: col},
			End:   ast.Position{Line: lineNum, Column: col + len("function ") + len(name)},
		},
	}
}

var (
	stateVarDecl = `^(\w+(?:\[\])?)\s+(?:(?:public|private|internal)\s+)?%s\b`
	localVarDecl = `^(\w+(?:\[\])?)\s+(?:(?:memory|storage)\s+)?%s\s*[=;]`
	paramDecl    = `(\w+)\s+(?:memory|storage|calldata)\s+%s\b`
)

// notTypeWords are keywords the declaration patterns can capture in type
// position, e.g. "using" in "using MathUtils for uint256".
var notTypeWords = map[string]bool{
	"pragma": true, "import": true, "using": true, "contract": true,
	"library": true, "interface": true, "function": true, "modifier": true,
	"event": true, "emit": true, "return": true, "returns": true,
	"new": true, "delete": true, "if": true, "else": true,
	"while": true, "for": true, "is": true, "require": true,
}

// InferVariableType determines a variable's declared type, preferring the
// indexed types and falling back to declaration patterns in the content.
// Returns "" when the variable cannot be typed.
func (r *Resolver) InferVariableType(varName, file, content string) string {
	r.mu.RLock()
	cached := r.variableTypes[file][varName]
	r.mu.RUnlock()
	if cached != "" {
		return cached
	}

	quoted := regexp.QuoteMeta(varName)
	statePattern := regexp.MustCompile(fmt.Sprintf(stateVarDecl, quoted))
	localPattern := regexp.MustCompile(fmt.Sprintf(localVarDecl, quoted))
	paramPattern := regexp.MustCompile(fmt.Sprintf(paramDecl, quoted))

	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)

		if m := statePattern.FindStringSubmatch(line); m != nil && !notTypeWords[m[1]] {
			return m[1]
		}
		if m := localPattern.FindStringSubmatch(line); m != nil && !notTypeWords[m[1]] {
			return m[1]
		}
		if strings.Contains(rawLine, "memory "+varName) ||
			strings.Contains(rawLine, "storage "+varName) ||
			strings.Contains(rawLine, "calldata "+varName) {
			if m := paramPattern.FindStringSubmatch(rawLine); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
