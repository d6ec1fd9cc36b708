package engine

import (
	"os"
	"sync"

	"solv/internal/ast"
	"solv/internal/diag"
	"solv/internal/grammar"
	"solv/internal/navigation"
	"solv/internal/project"
	"solv/internal/resolver"
	"solv/internal/semantic"
)

// FileAnalysis holds everything one analysis pass produced for a file.
type FileAnalysis struct {
	File     string
	Content  string
	Unit     *ast.SourceUnit
	Table    *semantic.ScopeTable
	Syntax   []diag.Diagnostic
	Semantic []diag.Diagnostic
}

// Engine is the query surface over the analysis pipeline. Open files are
// analyzed eagerly on every update; other project files are parsed lazily
// and cached until the next update invalidates them. All methods are safe
// for concurrent use, and a failure analyzing one file is confined to that
// file's results.
type Engine struct {
	project  *project.Resolver // nil without a project root
	resolver *resolver.Resolver
	nav      *navigation.Provider

	mu        sync.RWMutex
	open      map[string]*FileAnalysis
	diskUnits map[string]*ast.SourceUnit
}

func New(projectRoot string) *Engine {
	e := &Engine{
		resolver:  resolver.New(),
		open:      make(map[string]*FileAnalysis),
		diskUnits: make(map[string]*ast.SourceUnit),
	}
	if projectRoot != "" {
		e.project = project.NewResolver(projectRoot)
	}
	e.nav = navigation.New(e.resolver, (*workspace)(e))

	// Index the project up front so attached method calls resolve across
	// files that were never opened.
	for _, file := range e.project.AllSolidityFiles() {
		if data, err := os.ReadFile(file); err == nil {
			e.resolver.ParseFileForLibraryInfo(file, string(data))
		}
	}
	return e
}

// Resolver exposes the library method resolver for direct queries.
func (e *Engine) Resolver() *resolver.Resolver {
	return e.resolver
}

// UpdateFile runs the full pipeline on new content for a file and caches
// the result. Previous knowledge about the file is invalidated first so
// stale library indexes cannot survive an edit.
func (e *Engine) UpdateFile(file, content string) *FileAnalysis {
	e.resolver.Invalidate(file)

	analysis := analyze(file, content)
	e.resolver.ParseFileForLibraryInfo(file, content)

	e.mu.Lock()
	e.open[file] = analysis
	delete(e.diskUnits, file)
	e.mu.Unlock()

	return analysis
}

// CloseFile drops a file's cached analysis.
func (e *Engine) CloseFile(file string) {
	e.resolver.Invalidate(file)

	e.mu.Lock()
	delete(e.open, file)
	e.mu.Unlock()
}

// analyze is the single-file pipeline: parse, build, analyze. A file that
// fails to parse still gets an AST pass over whatever tree exists, so
// semantic results degrade instead of disappearing.
func analyze(file, content string) *FileAnalysis {
	tree, syntaxErrs := grammar.Parse(file, content)

	syntax := make([]diag.Diagnostic, 0, len(syntaxErrs))
	for _, se := range syntaxErrs {
		syntax = append(syntax, diag.SyntaxError(ast.Location{
			File:  file,
			Start: ast.Position{Line: se.Line - 1, Column: se.Column},
			End:   ast.Position{Line: se.Line - 1, Column: se.Column + 1},
		}, se.Message))
	}

	unit := ast.Build(tree, file)
	analyzer := semantic.NewAnalyzer()
	semanticDiags := analyzer.Analyze(unit)

	return &FileAnalysis{
		File:     file,
		Content:  content,
		Unit:     unit,
		Table:    analyzer.Table(),
		Syntax:   syntax,
		Semantic: semanticDiags,
	}
}

// Diagnostics returns the merged diagnostics for a file: syntax first, then
// semantic, then any external build records.
func (e *Engine) Diagnostics(file string, build []diag.BuildRecord) []diag.Diagnostic {
	analysis := e.analysisFor(file)
	if analysis == nil {
		return diag.Merge(nil, nil, build)
	}
	return diag.Merge(analysis.Syntax, analysis.Semantic, build)
}

// Analysis returns the cached analysis for an open file, or analyzes the
// file from disk on demand.
func (e *Engine) Analysis(file string) *FileAnalysis {
	return e.analysisFor(file)
}

func (e *Engine) Definitions(file string, pos ast.Position) []ast.Location {
	if content, ok := e.contentFor(file); ok {
		return e.nav.Definitions(content, pos, file)
	}
	return nil
}

func (e *Engine) Declarations(file string, pos ast.Position) []ast.Location {
	if content, ok := e.contentFor(file); ok {
		return e.nav.Declarations(content, pos, file)
	}
	return nil
}

func (e *Engine) TypeDefinitions(file string, pos ast.Position) []ast.Location {
	if content, ok := e.contentFor(file); ok {
		return e.nav.TypeDefinitions(content, pos, file)
	}
	return nil
}

func (e *Engine) Implementations(file string, pos ast.Position) []ast.Location {
	if content, ok := e.contentFor(file); ok {
		return e.nav.Implementations(content, pos, file)
	}
	return nil
}

func (e *Engine) References(file string, pos ast.Position, includeDeclaration bool) []ast.Location {
	if content, ok := e.contentFor(file); ok {
		return e.nav.References(content, pos, file, includeDeclaration)
	}
	return nil
}

func (e *Engine) analysisFor(file string) *FileAnalysis {
	e.mu.RLock()
	analysis := e.open[file]
	e.mu.RUnlock()
	if analysis != nil {
		return analysis
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil
	}
	return analyze(file, string(data))
}

func (e *Engine) contentFor(file string) (string, bool) {
	e.mu.RLock()
	analysis := e.open[file]
	e.mu.RUnlock()
	if analysis != nil {
		return analysis.Content, true
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// workspace adapts the engine to the navigation provider's project view.
type workspace Engine

func (w *workspace) Sources() map[string]string {
	e := (*Engine)(w)

	sources := make(map[string]string)
	for _, file := range e.project.AllSolidityFiles() {
		if data, err := os.ReadFile(file); err == nil {
			sources[file] = string(data)
		}
	}

	e.mu.RLock()
	for file, analysis := range e.open {
		sources[file] = analysis.Content
	}
	e.mu.RUnlock()
	return sources
}

func (w *workspace) Unit(file string) *ast.SourceUnit {
	e := (*Engine)(w)

	e.mu.RLock()
	if analysis, ok := e.open[file]; ok {
		e.mu.RUnlock()
		return analysis.Unit
	}
	if unit, ok := e.diskUnits[file]; ok {
		e.mu.RUnlock()
		return unit
	}
	e.mu.RUnlock()

	data, err := os.ReadFile(file)
	if err != nil {
		return nil
	}
	tree, _ := grammar.Parse(file, string(data))
	unit := ast.Build(tree, file)

	e.mu.Lock()
	e.diskUnits[file] = unit
	e.mu.Unlock()
	return unit
}

func (w *workspace) ResolveImport(fromFile, importPath string) string {
	return (*Engine)(w).project.ResolveImport(importPath, fromFile)
}
