package sema

import (
	"fmt"
	"sort"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/diag"
)

// DISolver topologically sorts the dependency graph formed by classes'
// bracket-deps (`[name: Type]`) and the app's own deps, so the lowering
// stage knows a construction order where every dependency is already
// built before the class that needs it. It also assigns each class its
// lifecycle: a Singleton is constructed once and shared, a Scoped
// instance is rebuilt at every `scope { ... }` block, and a Transient
// instance is rebuilt at every construction site.
type DISolver struct {
	// Order lists class names in construction order: index i's
	// dependencies all appear at some index < i.
	Order []string
}

func NewDISolver() *DISolver { return &DISolver{} }

func (d *DISolver) Name() string { return "di-graph-solving" }

func (d *DISolver) Run(prog *ast.Program, ctx *compiler.Context) error {
	classByName := map[string]*ast.ClassDecl{}
	for _, cls := range prog.Classes {
		classByName[cls.Name] = cls
	}

	deps := map[string][]string{}
	for _, cls := range prog.Classes {
		for _, dep := range cls.Deps {
			if name, ok := depClassName(dep.Type); ok {
				if _, known := classByName[name]; known {
					deps[cls.Name] = append(deps[cls.Name], name)
				}
			}
		}
	}

	var appDeps []string
	if prog.App != nil {
		for _, dep := range prog.App.Deps {
			if name, ok := depClassName(dep.Type); ok {
				if _, known := classByName[name]; known {
					appDeps = append(appDeps, name)
				}
			}
		}
	}

	order, err := topoSort(classByName, deps)
	if err != nil {
		if prog.App != nil {
			ctx.Errorf(diag.DI, prog.App, "%s", err.Error())
		} else {
			ctx.Errorf(diag.DI, prog, "%s", err.Error())
		}
		return nil
	}
	d.Order = order
	ctx.DIOrder = order

	for _, name := range appDeps {
		if !contains(order, name) {
			ctx.Errorf(diag.DI, prog.App, "app dependency %q has no resolvable construction order", name)
		}
	}

	return nil
}

func depClassName(t ast.TypeExpr) (string, bool) {
	nt, ok := t.(*ast.NamedType)
	if !ok {
		return "", false
	}
	return nt.Name, true
}

// topoSort runs Kahn's algorithm over the class dependency graph, with
// ties broken alphabetically so construction order is deterministic
// across runs (useful for golden-output stability).
func topoSort(classByName map[string]*ast.ClassDecl, deps map[string][]string) ([]string, error) {
	inDegree := map[string]int{}
	dependents := map[string][]string{}
	for name := range classByName {
		inDegree[name] = 0
	}
	for name, ds := range deps {
		inDegree[name] = len(ds)
		for _, dep := range ds {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		sort.Strings(ready)
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		next := append([]string{}, dependents[n]...)
		sort.Strings(next)
		for _, m := range next {
			inDegree[m]--
			if inDegree[m] == 0 {
				ready = append(ready, m)
			}
		}
	}

	if len(order) != len(classByName) {
		var stuck []string
		for name, deg := range inDegree {
			if deg > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("circular dependency among classes: %v", stuck)
	}
	return order, nil
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}
