// Package loader resolves `import a.b.c` declarations to module files,
// merges sibling files in a directory into a single logical module, and
// detects circular imports — the module-loading stage that runs before
// name resolution.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/parser"
)

// Module is a fully parsed, sibling-merged compilation unit addressed by
// its resolved import path (e.g. "collections.stack").
type Module struct {
	Path    string
	Dir     string
	Program *ast.Program
}

// Cache memoizes parsed modules by resolved absolute directory, so a
// module imported from multiple places is only read and parsed once.
type Cache struct {
	roots   []string // stdlib root(s) + project module root, searched in order
	modules map[string]*Module
	loading map[string]bool // for circular-import DFS detection
}

// NewCache constructs a Cache that resolves imports against roots, in
// order; the first root containing a matching path wins.
func NewCache(roots ...string) *Cache {
	return &Cache{
		roots:   roots,
		modules: map[string]*Module{},
		loading: map[string]bool{},
	}
}

// Load resolves and parses the module at dotted import path, recursively
// loading its own imports first. Returns a *CircularImportError if path
// is already on the current load stack.
func (c *Cache) Load(path string) (*Module, error) {
	if m, ok := c.modules[path]; ok {
		return m, nil
	}
	if c.loading[path] {
		return nil, &CircularImportError{Path: path}
	}

	dir, err := c.resolveDir(path)
	if err != nil {
		return nil, err
	}

	c.loading[path] = true
	defer delete(c.loading, path)

	prog, err := parseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading module %q: %w", path, err)
	}

	for _, im := range prog.Imports {
		if _, err := c.Load(strings.Join(im.Path, ".")); err != nil {
			return nil, err
		}
	}

	mod := &Module{Path: path, Dir: dir, Program: prog}
	c.modules[path] = mod
	return mod, nil
}

// LoadEntry parses the entry file directly (it is not addressed by an
// import path) and resolves its imports the same way Load does.
func (c *Cache) LoadEntry(file string) (*Module, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading entry file %q: %w", file, err)
	}
	p := parser.New(string(src))
	prog := p.ParseProgram()
	if perr := p.Err(); perr != nil {
		return nil, fmt.Errorf("%s: %w", file, perr)
	}
	for _, im := range prog.Imports {
		if _, err := c.Load(strings.Join(im.Path, ".")); err != nil {
			return nil, err
		}
	}
	return &Module{Path: "", Dir: filepath.Dir(file), Program: prog}, nil
}

// Modules returns every loaded module, in no particular order; callers
// that need dependency order should use a separate topological pass
// (the DI solver's Kahn's-algorithm sort plays the same role for classes).
func (c *Cache) Modules() map[string]*Module { return c.modules }

func (c *Cache) resolveDir(path string) (string, error) {
	rel := filepath.Join(strings.Split(path, ".")...)
	for _, root := range c.roots {
		candidate := filepath.Join(root, rel)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		if _, err := os.Stat(candidate + ".pluto"); err == nil {
			return candidate + ".pluto", nil
		}
	}
	return "", &ModuleNotFoundError{Path: path, Roots: c.roots}
}

// parseDir parses every `.pluto` file directly in dir (not recursively —
// a nested directory is a distinct, separately-imported submodule) and
// merges their declarations into one Program, or parses dir directly if
// it names a single file.
func parseDir(dir string) (*ast.Program, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		src, err := os.ReadFile(dir)
		if err != nil {
			return nil, err
		}
		p := parser.New(string(src))
		prog := p.ParseProgram()
		if perr := p.Err(); perr != nil {
			return nil, fmt.Errorf("%s: %w", dir, perr)
		}
		return prog, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	merged := &ast.Program{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pluto") {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		src, err := os.ReadFile(full)
		if err != nil {
			return nil, err
		}
		p := parser.New(string(src))
		prog := p.ParseProgram()
		if perr := p.Err(); perr != nil {
			return nil, fmt.Errorf("%s: %w", full, perr)
		}
		// Namespace tests by source file so two sibling files that each
		// declare `test "it works"` don't collide once merged.
		for _, td := range prog.Tests {
			td.File = entry.Name()
		}
		merged.Merge(prog)
	}
	return merged, nil
}

// CircularImportError reports an import cycle detected during DFS load.
type CircularImportError struct {
	Path string
}

func (e *CircularImportError) Error() string {
	return fmt.Sprintf("circular import involving %q", e.Path)
}

// ModuleNotFoundError reports that no root contains the requested path.
type ModuleNotFoundError struct {
	Path  string
	Roots []string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module %q not found in any of %v", e.Path, e.Roots)
}
