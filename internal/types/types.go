// Package types defines PlutoType, the resolved (as opposed to syntactic)
// type representation produced by the type inferrer.
package types

import "strings"

// Kind discriminates the resolved type variants.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KByte
	KVoid
	KString
	KBytes
	KArray
	KMap
	KSet
	KClass
	KEnum
	KTrait
	KFn
	KTask
	KSender
	KReceiver
	KStream
	KNullable
	KError
	KUnresolved // placeholder during fixpoint inference; never escapes a finished pass
)

// PlutoType is the resolved type of an expression. Composite kinds use the
// Elem/Key/Params/Ret/TypeArgs fields relevant to their Kind; others leave
// them zero. Two PlutoType values are structurally equal when Equal
// reports true — callers must not compare with == because Class/Enum
// instances with different TypeArgs are distinct types even though Name
// matches (generics).
type PlutoType struct {
	Kind Kind

	Name     string // Class/Enum/Trait name
	TypeArgs []*PlutoType

	Elem  *PlutoType // Array/Set/Nullable/Task/Sender/Receiver/Stream element
	Key   *PlutoType // Map key

	Params    []*PlutoType // Fn parameter types
	Ret       *PlutoType   // Fn return type
	Fallible  bool         // Fn: true if the function value is fallible
}

var (
	Int    = &PlutoType{Kind: KInt}
	Float  = &PlutoType{Kind: KFloat}
	Bool   = &PlutoType{Kind: KBool}
	Byte   = &PlutoType{Kind: KByte}
	Void   = &PlutoType{Kind: KVoid}
	String = &PlutoType{Kind: KString}
	Bytes  = &PlutoType{Kind: KBytes}
	Error  = &PlutoType{Kind: KError}
)

// Array, Map, Set, Nullable, Task, Sender, Receiver, Stream construct the
// corresponding composite type. Nullable rejects Nullable(Nullable(T)) and
// Nullable(Void) by returning nil — callers
// must check for nil and raise the appropriate diagnostic themselves; this
// package does not own diagnostic formatting.
func Array(elem *PlutoType) *PlutoType { return &PlutoType{Kind: KArray, Elem: elem} }
func Map(key, val *PlutoType) *PlutoType { return &PlutoType{Kind: KMap, Key: key, Elem: val} }
func Set(elem *PlutoType) *PlutoType   { return &PlutoType{Kind: KSet, Elem: elem} }

func Nullable(elem *PlutoType) *PlutoType {
	if elem == nil || elem.Kind == KNullable || elem.Kind == KVoid {
		return nil
	}
	return &PlutoType{Kind: KNullable, Elem: elem}
}

func Task(elem *PlutoType) *PlutoType     { return &PlutoType{Kind: KTask, Elem: elem} }
func Sender(elem *PlutoType) *PlutoType   { return &PlutoType{Kind: KSender, Elem: elem} }
func Receiver(elem *PlutoType) *PlutoType { return &PlutoType{Kind: KReceiver, Elem: elem} }
func Stream(elem *PlutoType) *PlutoType   { return &PlutoType{Kind: KStream, Elem: elem} }

func Fn(params []*PlutoType, ret *PlutoType, fallible bool) *PlutoType {
	return &PlutoType{Kind: KFn, Params: params, Ret: ret, Fallible: fallible}
}

func Class(name string, args ...*PlutoType) *PlutoType {
	return &PlutoType{Kind: KClass, Name: name, TypeArgs: args}
}

func Enum(name string, args ...*PlutoType) *PlutoType {
	return &PlutoType{Kind: KEnum, Name: name, TypeArgs: args}
}

func Trait(name string) *PlutoType { return &PlutoType{Kind: KTrait, Name: name} }

// IsNumeric reports whether t is Int or Float — the two operand types
// arithmetic operators accept, without cross-coercion.
func (t *PlutoType) IsNumeric() bool {
	return t != nil && (t.Kind == KInt || t.Kind == KFloat)
}

// Equal reports structural equality, recursing into composite kinds.
func (t *PlutoType) Equal(other *PlutoType) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KClass, KEnum, KTrait:
		if t.Name != other.Name || len(t.TypeArgs) != len(other.TypeArgs) {
			return false
		}
		for i := range t.TypeArgs {
			if !t.TypeArgs[i].Equal(other.TypeArgs[i]) {
				return false
			}
		}
		return true
	case KArray, KSet, KNullable, KTask, KSender, KReceiver, KStream:
		return t.Elem.Equal(other.Elem)
	case KMap:
		return t.Key.Equal(other.Key) && t.Elem.Equal(other.Elem)
	case KFn:
		if t.Fallible != other.Fallible || len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return t.Ret.Equal(other.Ret)
	default:
		return true
	}
}

// AssignableTo reports whether a value of type t may be assigned where
// target is expected. T is assignable to T? by implicit wrap; the inverse
// requires explicit `?` propagation and is not modeled
// here (the checker handles that as a distinct diagnostic, not a silent
// coercion).
func (t *PlutoType) AssignableTo(target *PlutoType) bool {
	if t.Equal(target) {
		return true
	}
	if target != nil && target.Kind == KNullable && t.Equal(target.Elem) {
		return true
	}
	return false
}

func (t *PlutoType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KInt:
		return "Int"
	case KFloat:
		return "Float"
	case KBool:
		return "Bool"
	case KByte:
		return "Byte"
	case KVoid:
		return "Void"
	case KString:
		return "String"
	case KBytes:
		return "Bytes"
	case KError:
		return "Error"
	case KArray:
		return "[" + t.Elem.String() + "]"
	case KMap:
		return "[" + t.Key.String() + ":" + t.Elem.String() + "]"
	case KSet:
		return "{" + t.Elem.String() + "}"
	case KNullable:
		return t.Elem.String() + "?"
	case KTask:
		return "Task<" + t.Elem.String() + ">"
	case KSender:
		return "Sender<" + t.Elem.String() + ">"
	case KReceiver:
		return "Receiver<" + t.Elem.String() + ">"
	case KStream:
		return "Stream<" + t.Elem.String() + ">"
	case KClass, KEnum, KTrait:
		if len(t.TypeArgs) == 0 {
			return t.Name
		}
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = a.String()
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">"
	case KFn:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		s := "fn(" + strings.Join(params, ", ") + ")"
		if t.Fallible {
			s += "!"
		}
		if t.Ret != nil {
			s += " -> " + t.Ret.String()
		}
		return s
	default:
		return "<unresolved>"
	}
}
