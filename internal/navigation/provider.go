package navigation

import (
	"sort"

	"solv/internal/ast"
	"solv/internal/resolver"
)

// Workspace supplies the project view the provider navigates over. The
// engine implements it; tests can supply a fixture.
type Workspace interface {
	// Sources returns every project file keyed by path, current content
	// included for open files.
	Sources() map[string]string
	// Unit returns the built AST for a file, or nil when it has none.
	Unit(file string) *ast.SourceUnit
	// ResolveImport maps an import path seen in fromFile to a project file
	// path, or "" when it does not resolve.
	ResolveImport(fromFile, importPath string) string
}

// Provider answers navigation queries by classifying the cursor position
// and routing to the matching resolution strategy.
type Provider struct {
	resolver  *resolver.Resolver
	workspace Workspace
}

func New(res *resolver.Resolver, workspace Workspace) *Provider {
	return &Provider{resolver: res, workspace: workspace}
}

// Definitions resolves the symbol at the position to its defining
// locations.
func (p *Provider) Definitions(content string, pos ast.Position, file string) []ast.Location {
	ctx := p.analyzePosition(content, pos, file)

	switch ctx.kind {
	case ctxLibraryMethodCall:
		return p.libraryMethodDefinition(ctx, file)
	case ctxDirectMethodCall:
		return p.directMethodDefinition(ctx, file)
	case ctxTypeReference:
		return p.typeDefinition(ctx.symbol)
	case ctxImportPath:
		return p.importDefinition(ctx, file)
	case ctxIdentifier:
		return p.identifierDefinition(ctx.symbol, file)
	}
	return nil
}

// Declarations resolves like Definitions and additionally surfaces
// interface declarations when the symbol is a function implementing one.
func (p *Provider) Declarations(content string, pos ast.Position, file string) []ast.Location {
	locations := p.Definitions(content, pos, file)

	ctx := p.analyzePosition(content, pos, file)
	if ctx.kind == ctxIdentifier {
		locations = append(locations, p.interfaceDeclarations(ctx.symbol)...)
	}
	return dedupeLocations(locations)
}

// TypeDefinitions resolves to the definition of the symbol's type rather
// than the symbol itself. For a library method call that is the receiver
// type the method is attached to.
func (p *Provider) TypeDefinitions(content string, pos ast.Position, file string) []ast.Location {
	ctx := p.analyzePosition(content, pos, file)

	switch ctx.kind {
	case ctxIdentifier:
		p.resolver.ParseFileForLibraryInfo(file, content)
		if typeName := p.resolver.InferVariableType(ctx.symbol, file, content); typeName != "" {
			return p.typeDefinition(typeName)
		}
	case ctxLibraryMethodCall:
		return p.typeDefinition(ctx.receiverType)
	}
	return nil
}

// Implementations resolves an interface name to the contracts implementing
// it, and an interface function name to the implementing functions.
func (p *Provider) Implementations(content string, pos ast.Position, file string) []ast.Location {
	ctx := p.analyzePosition(content, pos, file)
	if ctx.kind != ctxIdentifier {
		return nil
	}

	if p.isInterface(ctx.symbol) {
		return p.interfaceImplementations(ctx.symbol)
	}
	return p.functionImplementations(ctx.symbol)
}

// References finds every use of the symbol at the position. Library
// functions get the union of direct Library.fn calls and receiver-attached
// calls that resolve to the same library. The result is deduplicated and
// sorted by file, line, then column.
func (p *Provider) References(content string, pos ast.Position, file string, includeDeclaration bool) []ast.Location {
	ctx := p.analyzePosition(content, pos, file)
	var references []ast.Location

	switch ctx.kind {
	case ctxLibraryMethodCall:
		references = p.libraryMethodReferences(ctx, file)
	case ctxIdentifier:
		if libraries := p.librariesDeclaring(ctx.symbol); len(libraries) > 0 {
			for _, library := range libraries {
				references = append(references, p.directFunctionReferences(library, ctx.symbol)...)
				references = append(references, p.resolver.FindAllReferences(ctx.symbol, library, p.workspace.Sources())...)
			}
		} else {
			references = p.identifierReferences(ctx.symbol)
		}
	}

	if includeDeclaration {
		references = append(references, p.Definitions(content, pos, file)...)
	}
	return dedupeLocations(references)
}

func (p *Provider) libraryMethodDefinition(ctx positionContext, file string) []ast.Location {
	call := resolver.MethodCallContext{
		ReceiverName: ctx.receiverName,
		ReceiverType: ctx.receiverType,
		MethodName:   ctx.symbol,
		CallLocation: ast.Location{
			File:  file,
			Start: ctx.position,
			End:   ast.Position{Line: ctx.position.Line, Column: ctx.position.Column + len(ctx.symbol)},
		},
	}
	if fn := p.resolver.Resolve(call, file); fn != nil {
		return []ast.Location{fn.Location}
	}
	return nil
}

func (p *Provider) libraryMethodReferences(ctx positionContext, file string) []ast.Location {
	call := resolver.MethodCallContext{
		ReceiverName: ctx.receiverName,
		ReceiverType: ctx.receiverType,
		MethodName:   ctx.symbol,
		CallLocation: ast.Location{File: file, Start: ctx.position, End: ctx.position},
	}
	fn := p.resolver.Resolve(call, file)
	if fn == nil {
		return nil
	}
	return p.resolver.FindAllReferences(ctx.symbol, fn.LibraryName, p.workspace.Sources())
}

func (p *Provider) importDefinition(ctx positionContext, file string) []ast.Location {
	if ctx.importPath == "" {
		return nil
	}
	resolved := p.workspace.ResolveImport(file, ctx.importPath)
	if resolved == "" {
		return nil
	}
	return []ast.Location{{File: resolved}}
}

// dedupeLocations removes duplicates keyed by file, start line, and start
// column, then orders the result the same way.
func dedupeLocations(locations []ast.Location) []ast.Location {
	type key struct {
		file      string
		line, col int
	}
	seen := make(map[key]bool, len(locations))
	unique := locations[:0:0]
	for _, loc := range locations {
		k := key{loc.File, loc.Start.Line, loc.Start.Column}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, loc)
	}

	sort.Slice(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		return a.Start.Column < b.Start.Column
	})
	return unique
}
