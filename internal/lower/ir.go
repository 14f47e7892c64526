// Package lower translates a fully type-checked, closure-lifted
// *ast.Program into a small explicit-allocation IR: basic blocks of
// typed, linear instructions with no nested expressions, field offsets
// resolved from the type registry, and contract checks compiled to
// straight-line branches instead of left as expressions to re-evaluate
// at runtime.
package lower

// Module is the lowered form of one compiled program: every function
// (including lifted closures, DI-synthesized constructors, and the
// synthesized program entry point) as a flat list of basic blocks.
type Module struct {
	Functions []*Function
}

// Function is one lowered function body.
type Function struct {
	Name     string
	Params   []string
	ErrorSet []string // error names this function's ErrorSet resolved to
	Blocks   []*Block
	IsGen    bool // true for a `stream T` function, compiled as a state machine
}

// Block is a single-entry, single-exit basic block: instructions run in
// order with no internal branching, and Terminator is the single
// instruction that transfers control elsewhere.
type Block struct {
	Label      string
	Instrs     []Instr
	Terminator Instr // *Jump, *Branch, *Return, or *RaiseTerm
}

// Instr is one IR instruction. All variants are structs implementing this
// marker so a Block's Instrs/Terminator fields can hold any of them.
type Instr interface{ instr() }

// Const loads a literal value into Dst.
type Const struct {
	Dst   string
	Value any // int64, float64, bool, string, or nil for none
}

// BinOp computes Dst = Left Op Right.
type BinOp struct {
	Dst, Op, Left, Right string
}

// UnOp computes Dst = Op Operand.
type UnOp struct {
	Dst, Op, Operand string
}

// Move copies Src into Dst (used for assignment and for passing a value
// through unchanged, e.g. implicit T -> T? wrapping).
type Move struct {
	Dst, Src string
}

// FieldLoad reads Obj.Field (resolved to a numeric Offset by the type
// registry) into Dst.
type FieldLoad struct {
	Dst, Obj, Field string
	Offset          int
}

// FieldStore writes Value into Obj.Field at Offset.
type FieldStore struct {
	Obj, Field string
	Offset     int
	Value      string
}

// IndexLoad / IndexStore are array/map/set element access.
type IndexLoad struct {
	Dst, Obj, Index string
}

type IndexStore struct {
	Obj, Index, Value string
}

// Alloc allocates a new heap object of the named class, ClassName, with
// Dst bound to its reference. Lowered from a StructLiteral for a class
// that isn't itself a DI-constructed dependency.
type Alloc struct {
	Dst, ClassName string
}

// Call invokes Callee with Args, binding the (possibly void) result to
// Dst. Propagate marks a call whose trailing `!` hands a raised error to
// the caller instead of continuing in this function.
type Call struct {
	Dst, Callee string
	Args        []string
	Propagate   bool
}

// Spawn starts Callee(Args) as a new OS-thread task, binding the Task
// handle to Dst.
type Spawn struct {
	Dst, Callee string
	Args        []string
}

// ChanMake allocates a bounded channel of Capacity elements.
type ChanMake struct {
	Dst      string
	Capacity string
}

// ContractCheck evaluates Cond (already lowered to a bool value) and
// aborts the program with Message if it is false — the compiled form of
// a `requires`/invariant clause.
type ContractCheck struct {
	Cond    string
	Message string
}

func (*Const) instr()         {}
func (*BinOp) instr()         {}
func (*UnOp) instr()          {}
func (*Move) instr()          {}
func (*FieldLoad) instr()     {}
func (*FieldStore) instr()    {}
func (*IndexLoad) instr()     {}
func (*IndexStore) instr()    {}
func (*Alloc) instr()         {}
func (*Call) instr()          {}
func (*Spawn) instr()         {}
func (*ChanMake) instr()      {}
func (*ContractCheck) instr() {}

// Jump unconditionally transfers control to Target.
type Jump struct{ Target string }

// Branch transfers control to Then if Cond is true, else Else.
type Branch struct {
	Cond, Then, Else string
}

// Return exits the current function, optionally with Value ("" for void).
type Return struct{ Value string }

// RaiseTerm exits the current function by raising ErrorName, constructed
// from Args in the error declaration's field order.
type RaiseTerm struct {
	ErrorName string
	Args      []string
}

func (*Jump) instr()      {}
func (*Branch) instr()    {}
func (*Return) instr()    {}
func (*RaiseTerm) instr() {}
