package project

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Resolver maps Solidity import paths to files on disk using the project's
// remappings file, and indexes the project's .sol files. A nil *Resolver is
// valid and resolves nothing, so callers without a project root degrade
// gracefully.
type Resolver struct {
	root string

	mu         sync.RWMutex
	remappings []Remapping
}

// Remapping is one prefix=target line from remappings.txt. Order matters:
// the first matching prefix wins.
type Remapping struct {
	Prefix string
	Target string
}

func NewResolver(root string) *Resolver {
	r := &Resolver{root: root}
	r.loadRemappings()
	return r
}

func (r *Resolver) Root() string {
	if r == nil {
		return ""
	}
	return r.root
}

// Refresh re-reads remappings.txt, picking up edits without a restart.
func (r *Resolver) Refresh() {
	if r == nil {
		return
	}
	r.loadRemappings()
}

func (r *Resolver) loadRemappings() {
	data, err := os.ReadFile(filepath.Join(r.root, "remappings.txt"))
	if err != nil {
		return
	}

	var remappings []Remapping
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prefix, target, found := strings.Cut(line, "=")
		if !found || prefix == "" {
			continue
		}
		remappings = append(remappings, Remapping{Prefix: prefix, Target: target})
	}

	r.mu.Lock()
	r.remappings = remappings
	r.mu.Unlock()
}

// Remappings returns the loaded remappings in file order.
func (r *Resolver) Remappings() []Remapping {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.remappings
}

// ResolveImport resolves an import path to an existing file. Relative
// imports resolve against the importing file, remapped imports against
// their target, and plain paths against the project root and the common
// library directories. Returns "" when nothing exists.
func (r *Resolver) ResolveImport(importPath, fromFile string) string {
	if r == nil {
		return ""
	}

	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		if fromFile == "" {
			return ""
		}
		return existing(filepath.Join(filepath.Dir(fromFile), importPath))
	}

	r.mu.RLock()
	remappings := r.remappings
	r.mu.RUnlock()

	for _, m := range remappings {
		if !strings.HasPrefix(importPath, m.Prefix) {
			continue
		}
		rest := strings.TrimPrefix(strings.TrimPrefix(importPath, m.Prefix), "/")
		target := m.Target
		if !filepath.IsAbs(target) {
			target = filepath.Join(r.root, target)
		}
		if resolved := existing(filepath.Join(target, rest)); resolved != "" {
			return resolved
		}
	}

	if resolved := existing(filepath.Join(r.root, importPath)); resolved != "" {
		return resolved
	}
	for _, libDir := range []string{"lib", "node_modules"} {
		if resolved := existing(filepath.Join(r.root, libDir, importPath)); resolved != "" {
			return resolved
		}
	}
	return ""
}

// AllSolidityFiles walks the project root collecting .sol files, skipping
// hidden directories. Returns nil on a nil resolver, so project-wide
// queries without a root simply see no files.
func (r *Resolver) AllSolidityFiles() []string {
	if r == nil {
		return nil
	}

	var files []string
	filepath.WalkDir(r.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if name := d.Name(); strings.HasPrefix(name, ".") && path != r.root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".sol") {
			files = append(files, path)
		}
		return nil
	})
	return files
}

func existing(path string) string {
	cleaned := filepath.Clean(path)
	if _, err := os.Stat(cleaned); err != nil {
		return ""
	}
	return cleaned
}
