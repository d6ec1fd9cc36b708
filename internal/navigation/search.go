package navigation

import (
	"regexp"
	"sort"
	"strings"

	"solv/internal/ast"
)

var builtinTypeNames = map[string]bool{
	"uint": true, "int": true, "bool": true, "address": true, "string": true, "bytes": true,
}

// eachUnit visits project ASTs in path order so multi-file results come out
// deterministic.
func (p *Provider) eachUnit(visit func(file string, unit *ast.SourceUnit)) {
	sources := p.workspace.Sources()
	files := make([]string, 0, len(sources))
	for file := range sources {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		if unit := p.workspace.Unit(file); unit != nil {
			visit(file, unit)
		}
	}
}

// typeDefinition locates the declaration of a named type. Builtin value
// types have no source definition.
func (p *Provider) typeDefinition(typeName string) []ast.Location {
	base := strings.TrimSuffix(typeName, "[]")
	if builtinTypeNames[base] {
		return nil
	}

	var locations []ast.Location
	p.eachUnit(func(file string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			if contract.Name == base {
				locations = append(locations, contract.Location)
			}
			for _, s := range contract.Structs {
				if s.Name == base {
					locations = append(locations, s.Location)
				}
			}
			for _, e := range contract.Enums {
				if e.Name == base {
					locations = append(locations, e.Location)
				}
			}
		}
	})
	return locations
}

// directMethodDefinition resolves receiver.method() calls that are not
// library attachments: this.method(), ContractName.method(), and calls
// through a variable of a contract type.
func (p *Provider) directMethodDefinition(ctx positionContext, file string) []ast.Location {
	if ctx.receiverName == "this" {
		var locations []ast.Location
		if unit := p.workspace.Unit(file); unit != nil {
			for _, contract := range unit.Contracts {
				for _, fn := range contract.Functions {
					if fn.Name == ctx.symbol {
						locations = append(locations, fn.Location)
					}
				}
			}
		}
		return locations
	}

	if locations := p.methodInContract(ctx.receiverName, ctx.symbol); len(locations) > 0 {
		return locations
	}

	// The receiver may be a variable of a contract type.
	if content, ok := p.workspace.Sources()[file]; ok {
		if typeName := p.resolver.InferVariableType(ctx.receiverName, file, content); typeName != "" {
			return p.methodInContract(typeName, ctx.symbol)
		}
	}
	return nil
}

func (p *Provider) methodInContract(contractName, methodName string) []ast.Location {
	var locations []ast.Location
	p.eachUnit(func(file string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			if contract.Name != contractName {
				continue
			}
			for _, fn := range contract.Functions {
				if fn.Name == methodName {
					locations = append(locations, fn.Location)
				}
			}
		}
	})
	return locations
}

// identifierDefinition gathers definitions for a bare identifier, checking
// variables first, then functions, then contracts.
func (p *Provider) identifierDefinition(symbol, file string) []ast.Location {
	var locations []ast.Location

	if unit := p.workspace.Unit(file); unit != nil {
		locations = append(locations, variableDefinitions(unit, symbol)...)
	}

	p.eachUnit(func(_ string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			for _, fn := range contract.Functions {
				if fn.Name == symbol {
					locations = append(locations, fn.Location)
				}
			}
		}
	})

	p.eachUnit(func(_ string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			if contract.Name == symbol {
				locations = append(locations, contract.Location)
			}
		}
	})

	return dedupeLocations(locations)
}

// variableDefinitions finds state variables, parameters, and local
// declarations with the given name inside one file.
func variableDefinitions(unit *ast.SourceUnit, symbol string) []ast.Location {
	var locations []ast.Location
	for _, contract := range unit.Contracts {
		for _, v := range contract.Variables {
			if v.Name == symbol {
				locations = append(locations, v.Location)
			}
		}
		for _, fn := range contract.Functions {
			for _, param := range fn.Parameters {
				if param.Name == symbol {
					locations = append(locations, param.Location)
				}
			}
			collectLocalDefinitions(fn.Body, symbol, &locations)
		}
	}
	return locations
}

func collectLocalDefinitions(stmt *ast.Statement, symbol string, locations *[]ast.Location) {
	if stmt == nil {
		return
	}
	if stmt.Kind == "variable_declaration" && stmt.Variable != nil && stmt.Variable.Name == symbol {
		*locations = append(*locations, stmt.Variable.Location)
	}
	for _, sub := range stmt.Stmts {
		collectLocalDefinitions(sub, symbol, locations)
	}
}

func (p *Provider) isInterface(symbol string) bool {
	found := false
	p.eachUnit(func(_ string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			if contract.Kind == ast.KindInterface && contract.Name == symbol {
				found = true
			}
		}
	})
	return found
}

// interfaceDeclarations finds interface functions matching a name, used to
// surface the declaration behind an implementation.
func (p *Provider) interfaceDeclarations(symbol string) []ast.Location {
	var locations []ast.Location
	p.eachUnit(func(_ string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			if contract.Kind != ast.KindInterface {
				continue
			}
			for _, fn := range contract.Functions {
				if fn.Name == symbol {
					locations = append(locations, fn.Location)
				}
			}
		}
	})
	return locations
}

func (p *Provider) interfaceImplementations(interfaceName string) []ast.Location {
	var locations []ast.Location
	p.eachUnit(func(_ string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			for _, base := range contract.Inherits {
				if base == interfaceName {
					locations = append(locations, contract.Location)
				}
			}
		}
	})
	return dedupeLocations(locations)
}

// functionImplementations locates functions that implement an interface
// function of the same name through inheritance.
func (p *Provider) functionImplementations(symbol string) []ast.Location {
	declaring := make(map[string]bool)
	p.eachUnit(func(_ string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			if contract.Kind != ast.KindInterface {
				continue
			}
			for _, fn := range contract.Functions {
				if fn.Name == symbol {
					declaring[contract.Name] = true
				}
			}
		}
	})
	if len(declaring) == 0 {
		return nil
	}

	var locations []ast.Location
	p.eachUnit(func(_ string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			if contract.Kind == ast.KindInterface {
				continue
			}
			inherits := false
			for _, base := range contract.Inherits {
				if declaring[base] {
					inherits = true
				}
			}
			if !inherits {
				continue
			}
			for _, fn := range contract.Functions {
				if fn.Name == symbol {
					locations = append(locations, fn.Location)
				}
			}
		}
	})
	return locations
}

// librariesDeclaring lists the libraries that define a function with the
// given name, in path-independent sorted order.
func (p *Provider) librariesDeclaring(symbol string) []string {
	seen := make(map[string]bool)
	p.eachUnit(func(_ string, unit *ast.SourceUnit) {
		for _, contract := range unit.Contracts {
			if contract.Kind != ast.KindLibrary {
				continue
			}
			for _, fn := range contract.Functions {
				if fn.Name == symbol {
					seen[contract.Name] = true
				}
			}
		}
	})

	libraries := make([]string, 0, len(seen))
	for name := range seen {
		libraries = append(libraries, name)
	}
	sort.Strings(libraries)
	return libraries
}

// directFunctionReferences scans for qualified Library.fn( call sites.
func (p *Provider) directFunctionReferences(library, fn string) []ast.Location {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(library) + `\.` + regexp.QuoteMeta(fn) + `\s*\(`)

	var locations []ast.Location
	sources := p.workspace.Sources()
	for file, content := range sources {
		for lineNum, line := range strings.Split(content, "\n") {
			for _, match := range pattern.FindAllStringIndex(line, -1) {
				col := match[0] + len(library) + 1
				locations = append(locations, ast.Location{
					File:  file,
					Start: ast.Position{Line: lineNum, Column: col},
					End:   ast.Position{Line: lineNum, Column: col + len(fn)},
				})
			}
		}
	}
	return locations
}

// identifierReferences scans for whole-word occurrences of an identifier
// across the project.
func (p *Provider) identifierReferences(symbol string) []ast.Location {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)

	var locations []ast.Location
	for file, content := range p.workspace.Sources() {
		for lineNum, line := range strings.Split(content, "\n") {
			for _, match := range pattern.FindAllStringIndex(line, -1) {
				locations = append(locations, ast.Location{
					File:  file,
					Start: ast.Position{Line: lineNum, Column: match[0]},
					End:   ast.Position{Line: lineNum, Column: match[1]},
				})
			}
		}
	}
	return locations
}
