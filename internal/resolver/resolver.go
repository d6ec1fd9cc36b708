package resolver

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"solv/internal/ast"
)

// LibraryFunction is a function declared inside a library, indexed by the
// type of its first parameter so it can be attached to receivers.
type LibraryFunction struct {
	Name           string
	LibraryName    string
	FirstParamType string // "*" when the function takes no parameters
	Parameters     []string
	ReturnType     string
	Visibility     string
	IsView         bool
	IsPure         bool
	Location       ast.Location
}

// UsingDirective records one 'using Library for Type' directive and the
// scope it applies to.
type UsingDirective struct {
	LibraryName       string
	TargetType        string // "*" for wildcard directives
	IsGlobal          bool
	SpecificFunctions []string
	Scope             string // enclosing contract name, or "global"
	Location          ast.Location
}

// MethodCallContext describes a candidate library method call site.
type MethodCallContext struct {
	ReceiverName string
	ReceiverType string
	MethodName   string
	CallLocation ast.Location
}

// Resolver indexes library functions, using directives, and variable types
// per file, and answers method resolution queries against that index.
// All methods are safe for concurrent use.
type Resolver struct {
	mu sync.RWMutex

	libraryFunctions map[string][]*LibraryFunction // library name, declaration order
	usingDirectives  map[string][]*UsingDirective  // file, declaration order
	variableTypes    map[string]map[string]string  // file -> variable -> type
	parsedFiles      map[string]bool
}

func New() *Resolver {
	return &Resolver{
		libraryFunctions: make(map[string][]*LibraryFunction),
		usingDirectives:  make(map[string][]*UsingDirective),
		variableTypes:    make(map[string]map[string]string),
		parsedFiles:      make(map[string]bool),
	}
}

// ClearCache drops every index.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.libraryFunctions = make(map[string][]*LibraryFunction)
	r.usingDirectives = make(map[string][]*UsingDirective)
	r.variableTypes = make(map[string]map[string]string)
	r.parsedFiles = make(map[string]bool)
}

// Invalidate drops everything learned from one file so the next parse
// rebuilds it. Library functions are keyed by library name, so entries are
// filtered by their source file.
func (r *Resolver) Invalidate(file string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.parsedFiles, file)
	delete(r.usingDirectives, file)
	delete(r.variableTypes, file)

	// A fresh slice keeps backing arrays handed out by LibraryFunctions
	// intact for callers still iterating them.
	for library, funcs := range r.libraryFunctions {
		kept := make([]*LibraryFunction, 0, len(funcs))
		for _, fn := range funcs {
			if fn.Location.File != file {
				kept = append(kept, fn)
			}
		}
		if len(kept) == 0 {
			delete(r.libraryFunctions, library)
		} else {
			r.libraryFunctions[library] = kept
		}
	}
}

// Resolve finds the library function a method call binds to, or nil.
// Directives are tried in declaration order and the first matching library
// function wins, which makes resolution deterministic when several
// libraries attach the same method name to compatible types.
func (r *Resolver) Resolve(ctx MethodCallContext, file string) *LibraryFunction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, directive := range r.usingDirectives[file] {
		if !typeMatches(directive.TargetType, ctx.ReceiverType) {
			continue
		}
		target := ctx.MethodName
		if len(directive.SpecificFunctions) > 0 {
			base, ok := declaredNameFor(directive.SpecificFunctions, ctx.MethodName)
			if !ok {
				continue
			}
			target = base
		}
		for _, fn := range r.libraryFunctions[directive.LibraryName] {
			if fn.Name != target {
				continue
			}
			if typeMatches(fn.FirstParamType, ctx.ReceiverType) {
				return fn
			}
		}
	}
	return nil
}

// MethodsForType lists every library function attached to a type in a file,
// in directive then declaration order.
func (r *Resolver) MethodsForType(typeName, file string) []*LibraryFunction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var methods []*LibraryFunction
	for _, directive := range r.usingDirectives[file] {
		if !typeMatches(directive.TargetType, typeName) {
			continue
		}
		for _, fn := range r.libraryFunctions[directive.LibraryName] {
			if len(directive.SpecificFunctions) > 0 && !containsFunction(directive.SpecificFunctions, fn.Name) {
				continue
			}
			if typeMatches(fn.FirstParamType, typeName) {
				methods = append(methods, fn)
			}
		}
	}
	return methods
}

// UsingDirectivesForFile returns the directives recorded for a file.
func (r *Resolver) UsingDirectivesForFile(file string) []*UsingDirective {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usingDirectives[file]
}

// LibraryFunctions returns the indexed functions of a library in
// declaration order.
func (r *Resolver) LibraryFunctions(library string) []*LibraryFunction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.libraryFunctions[library]
}

// FindAllReferences locates every call site across the given sources that
// resolves to the named method of the named library. Call sites that bind
// to a different library with the same method name are excluded. Files are
// visited in path order so results are deterministic.
func (r *Resolver) FindAllReferences(methodName, libraryName string, sources map[string]string) []ast.Location {
	callPattern := regexp.MustCompile(`(\w+)\.` + regexp.QuoteMeta(methodName) + `\s*\(`)

	files := make([]string, 0, len(sources))
	for file := range sources {
		files = append(files, file)
	}
	sort.Strings(files)

	var references []ast.Location
	for _, file := range files {
		content := sources[file]
		r.ParseFileForLibraryInfo(file, content)

		for lineNum, line := range strings.Split(content, "\n") {
			for _, match := range callPattern.FindAllStringSubmatchIndex(line, -1) {
				receiver := line[match[2]:match[3]]
				receiverType := r.InferVariableType(receiver, file, content)
				if receiverType == "" {
					continue
				}

				ctx := MethodCallContext{
					ReceiverName: receiver,
					ReceiverType: receiverType,
					MethodName:   methodName,
					CallLocation: ast.Location{
						File:  file,
						Start: ast.Position{Line: lineNum, Column: match[0]},
						End:   ast.Position{Line: lineNum, Column: match[1]},
					},
				}
				if fn := r.Resolve(ctx, file); fn != nil && fn.LibraryName == libraryName {
					references = append(references, ctx.CallLocation)
				}
			}
		}
	}
	return references
}

// typeMatches applies the attachment rule: a wildcard accepts anything,
// otherwise the types must be equal or compatible.
func typeMatches(declared, actual string) bool {
	return declared == "*" || declared == actual || typesCompatible(declared, actual)
}

// typesCompatible treats uint/uint256 and int/int256 as interchangeable and
// compares array types element-wise.
func typesCompatible(a, b string) bool {
	if a == b {
		return true
	}
	if strings.HasSuffix(a, "[]") && strings.HasSuffix(b, "[]") {
		return typesCompatible(strings.TrimSuffix(a, "[]"), strings.TrimSuffix(b, "[]"))
	}
	if (a == "uint" || a == "uint256") && (b == "uint" || b == "uint256") {
		return true
	}
	if (a == "int" || a == "int256") && (b == "int" || b == "int256") {
		return true
	}
	return false
}

// declaredNameFor maps a call-site method name to the library function it
// binds to under a selective directive. An entry of the form "fn as alias"
// attaches fn under the alias only.
func declaredNameFor(names []string, name string) (string, bool) {
	for _, n := range names {
		base, alias, aliased := strings.Cut(n, " as ")
		if aliased {
			if alias == name {
				return base, true
			}
			continue
		}
		if base == name {
			return base, true
		}
	}
	return "", false
}

// containsFunction reports whether a selective directive attaches the named
// library function, under its own name or an alias.
func containsFunction(names []string, name string) bool {
	for _, n := range names {
		base, _, _ := strings.Cut(n, " as ")
		if base == name {
			return true
		}
	}
	return false
}
