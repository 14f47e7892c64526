// Package sema implements the semantic analysis passes that run between
// parsing and IR lowering: name resolution, generic monomorphization,
// type inference and checking, error-set inference, closure lifting, DI
// graph solving, and contract validation. Each pass implements
// compiler.Pass and is run in that fixed order by the Pipeline the CLI
// assembles.
package sema

import "github.com/pluto-lang/pluto/internal/types"

// Scope is a single lexical block's variable bindings, chained to its
// parent for outward lookup.
type Scope struct {
	parent *Scope
	vars   map[string]*types.PlutoType
	mut    map[string]bool
}

// NewScope starts a fresh scope chained to parent (nil for the top level).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: map[string]*types.PlutoType{}, mut: map[string]bool{}}
}

// Define binds name to t in this scope, shadowing any outer binding. The
// binding is immutable; use DefineMut for `let mut` locals, `mut` params,
// and `mut self`.
func (s *Scope) Define(name string, t *types.PlutoType) {
	s.DefineMut(name, t, false)
}

// DefineMut binds name to t in this scope, recording whether it may be
// assigned through (a `let mut` local, a `mut` parameter, or `mut self`).
func (s *Scope) DefineMut(name string, t *types.PlutoType, isMut bool) {
	s.vars[name] = t
	s.mut[name] = isMut
}

// Lookup searches this scope and its ancestors.
func (s *Scope) Lookup(name string) (*types.PlutoType, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// IsMutable reports whether name was bound as mutable, searching this
// scope and its ancestors. The second return value is false if name is
// not bound anywhere in scope.
func (s *Scope) IsMutable(name string) (bool, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			return sc.mut[name], true
		}
	}
	return false, false
}

// LookupLocal searches only this scope, not its ancestors — used to
// reject duplicate `let` bindings within the same block.
func (s *Scope) LookupLocal(name string) (*types.PlutoType, bool) {
	t, ok := s.vars[name]
	return t, ok
}
