package types

// ClassInfo is the resolved, flattened view of a ClassDecl that the name
// resolver builds and the type checker consults for field/method lookup.
type ClassInfo struct {
	Name       string
	Fields     map[string]*PlutoType
	FieldOrder []string
	Methods    map[string]*PlutoType // function-value type per method name
	Traits     map[string]bool
	Lifecycle  string // "singleton" | "scoped" | "transient"
	HasDeps    bool
}

// EnumInfo is the resolved view of an EnumDecl.
type EnumInfo struct {
	Name     string
	Variants map[string][]*PlutoType // nil/empty slice for a unit variant
}

// TraitInfo is the resolved view of a TraitDecl.
type TraitInfo struct {
	Name    string
	Methods map[string]*PlutoType
	// Preconditions is a Liskov-comparable precondition count per method,
	// used by the contract validator to check that an
	// impl's precondition set is a subset of the trait's.
	Preconditions map[string][]string
}

// Registry holds every resolved declaration by name, across all resolved
// kinds, for the duration of a compilation.
type Registry struct {
	Classes map[string]*ClassInfo
	Enums   map[string]*EnumInfo
	Traits  map[string]*TraitInfo
	Errors  map[string]*PlutoType // error name -> struct-shaped PlutoType for its fields
}

func NewRegistry() *Registry {
	return &Registry{
		Classes: make(map[string]*ClassInfo),
		Enums:   make(map[string]*EnumInfo),
		Traits:  make(map[string]*TraitInfo),
		Errors:  make(map[string]*PlutoType),
	}
}
