package sema

import (
	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/diag"
)

// ContractValidator checks that every `requires`/invariant expression
// stays within the decidable fragment — self field access, comparisons,
// arithmetic, logical operators, literals, and `.len()` — so the lowering
// stage can compile it to a straight-line runtime check without needing
// a general evaluator. It also enforces the Liskov precondition rule for
// trait method overrides: an implementing class may not add a
// `requires` clause its trait didn't already declare for that method,
// since that would let the override reject calls the trait's contract
// promised would succeed.
type ContractValidator struct{}

func NewContractValidator() *ContractValidator { return &ContractValidator{} }

func (v *ContractValidator) Name() string { return "contract-validation" }

func (v *ContractValidator) Run(prog *ast.Program, ctx *compiler.Context) error {
	for _, fn := range prog.Functions {
		v.checkContracts(fn.Requires, ctx)
	}
	for _, cls := range prog.Classes {
		v.checkContracts(cls.Invariants, ctx)
		for _, m := range cls.Methods {
			v.checkContracts(m.Requires, ctx)
		}
		v.checkLiskov(cls, ctx)
	}
	for _, tr := range prog.Traits {
		for _, m := range tr.Methods {
			v.checkContracts(m.Requires, ctx)
		}
	}
	return nil
}

func (v *ContractValidator) checkContracts(contracts []*ast.Contract, ctx *compiler.Context) {
	for _, c := range contracts {
		if !isDecidable(c.Expr) {
			ctx.Errorf(diag.Contract, c.Expr, "requires clause %q is outside the decidable contract fragment", c.Expr.String())
		}
	}
}

// isDecidable reports whether expr can be evaluated by a straight-line
// runtime check: literals, identifiers, self-rooted field access,
// arithmetic/comparison/logical operators, and `.len()` calls.
func isDecidable(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.BooleanLiteral, *ast.StringLiteral, *ast.Identifier:
		return true
	case *ast.SelfExpr:
		return true
	case *ast.PrefixExpr:
		return isDecidable(e.Right)
	case *ast.InfixExpr:
		switch e.Operator {
		case "+", "-", "*", "/", "%", "<", "<=", ">", ">=", "==", "!=", "&&", "||":
			return isDecidable(e.Left) && isDecidable(e.Right)
		}
		return false
	case *ast.FieldAccess:
		return isDecidable(e.Obj)
	case *ast.CallExpr:
		fa, ok := e.Callee.(*ast.FieldAccess)
		if !ok || fa.Field != "len" || len(e.Args) != 0 {
			return false
		}
		return isDecidable(fa.Obj)
	default:
		return false
	}
}

// checkLiskov verifies that for every trait cls implements, cls's own
// requires clauses on an overriding method are a subset of the trait's
// declared preconditions for that method.
func (v *ContractValidator) checkLiskov(cls *ast.ClassDecl, ctx *compiler.Context) {
	methodsByName := map[string]*ast.FunctionDecl{}
	for _, m := range cls.Methods {
		methodsByName[m.Name] = m
	}

	for _, traitName := range cls.Traits {
		info, ok := ctx.Registry.Traits[traitName]
		if !ok {
			continue
		}
		for methodName, traitPreconds := range info.Preconditions {
			impl, ok := methodsByName[methodName]
			if !ok {
				continue
			}
			allowed := map[string]bool{}
			for _, p := range traitPreconds {
				allowed[p] = true
			}
			for _, c := range impl.Requires {
				if !allowed[c.Expr.String()] {
					ctx.Errorf(diag.Contract, c.Expr,
						"%s.%s strengthens trait %s's precondition with %q, violating Liskov substitutability",
						cls.Name, methodName, traitName, c.Expr.String())
				}
			}
		}
	}
}
