package sema

import (
	"fmt"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/types"
)

var builtinNames = map[string]*types.PlutoType{
	"Int":    types.Int,
	"Float":  types.Float,
	"Bool":   types.Bool,
	"Byte":   types.Byte,
	"Void":   types.Void,
	"String": types.String,
	"Bytes":  types.Bytes,
	"Error":  types.Error,
}

// resolveTypeExpr converts a syntactic TypeExpr into a resolved
// PlutoType, consulting reg for user-declared class/enum/trait names.
// Unknown names resolve to an unresolved placeholder the caller reports
// as a diagnostic; resolveTypeExpr itself never fails.
func resolveTypeExpr(te ast.TypeExpr, reg *types.Registry) *types.PlutoType {
	switch t := te.(type) {
	case *ast.NamedType:
		base := resolveNamedType(t, reg)
		if t.Nullable {
			if wrapped := types.Nullable(base); wrapped != nil {
				return wrapped
			}
		}
		return base
	case *ast.ArrayType:
		return types.Array(resolveTypeExpr(t.Elem, reg))
	case *ast.MapType:
		return types.Map(resolveTypeExpr(t.Key, reg), resolveTypeExpr(t.Value, reg))
	case *ast.SetType:
		return types.Set(resolveTypeExpr(t.Elem, reg))
	case *ast.FnType:
		params := make([]*types.PlutoType, len(t.Params))
		for i, p := range t.Params {
			params[i] = resolveTypeExpr(p, reg)
		}
		var ret *types.PlutoType
		if t.Ret != nil {
			ret = resolveTypeExpr(t.Ret, reg)
		} else {
			ret = types.Void
		}
		return types.Fn(params, ret, t.Fallible)
	case *ast.TaskType:
		return types.Task(resolveTypeExpr(t.Elem, reg))
	case *ast.SenderType:
		return types.Sender(resolveTypeExpr(t.Elem, reg))
	case *ast.ReceiverType:
		return types.Receiver(resolveTypeExpr(t.Elem, reg))
	case *ast.StreamType:
		return types.Stream(resolveTypeExpr(t.Elem, reg))
	case *ast.NullableType:
		base := resolveTypeExpr(t.Elem, reg)
		if wrapped := types.Nullable(base); wrapped != nil {
			return wrapped
		}
		return base
	default:
		return &types.PlutoType{Kind: types.KUnresolved, Name: fmt.Sprintf("%T", te)}
	}
}

func resolveNamedType(t *ast.NamedType, reg *types.Registry) *types.PlutoType {
	if b, ok := builtinNames[t.Name]; ok {
		return b
	}
	args := make([]*types.PlutoType, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = resolveTypeExpr(a, reg)
	}
	if _, ok := reg.Classes[t.Name]; ok {
		return types.Class(t.Name, args...)
	}
	if _, ok := reg.Enums[t.Name]; ok {
		return types.Enum(t.Name, args...)
	}
	if _, ok := reg.Traits[t.Name]; ok {
		return types.Trait(t.Name)
	}
	return &types.PlutoType{Kind: types.KUnresolved, Name: t.Name, TypeArgs: args}
}
