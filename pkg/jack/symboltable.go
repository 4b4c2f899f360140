package jack

// ----------------------------------------------------------------------------
// Symbol Table

// This section implements the Symbol Table: two scopes (class, subroutine),
// each with one dense index counter per variable kind.
//
// No implicit global state: a SymbolTable is an owned value threaded
// explicitly through the code generator, never a shared handle.

type VarKind uint8

const (
	KindStatic VarKind = iota
	KindField
	KindArgument
	KindLocal
)

// SymbolEntry is the resolved record returned by Lookup.
type SymbolEntry struct {
	Name  string
	Type  Type
	Kind  VarKind
	Index uint16
}

// SymbolTable holds the persistent class scope and the scratch subroutine scope,
// plus one dense counter per kind.
type SymbolTable struct {
	classScope      map[string]SymbolEntry
	subroutineScope map[string]SymbolEntry
	counters        [4]uint16
	fieldCount      uint16
}

// NewSymbolTable returns a SymbolTable ready for a fresh class.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		classScope:      map[string]SymbolEntry{},
		subroutineScope: map[string]SymbolEntry{},
	}
}

// StartClass resets the class scope, the static/field counters and the field count.
// Call once per Class before compiling its variable declarations.
func (st *SymbolTable) StartClass() {
	st.classScope = map[string]SymbolEntry{}
	st.counters[KindStatic] = 0
	st.counters[KindField] = 0
	st.fieldCount = 0
}

// StartSubroutine clears the subroutine scope and resets the argument/local counters.
func (st *SymbolTable) StartSubroutine() {
	st.subroutineScope = map[string]SymbolEntry{}
	st.counters[KindArgument] = 0
	st.counters[KindLocal] = 0
}

// Define assigns the next dense index for 'kind', registers the entry in the
// appropriate scope and returns it. Field definitions also bump 'fieldCount'.
func (st *SymbolTable) Define(name string, t Type, kind VarKind) SymbolEntry {
	entry := SymbolEntry{Name: name, Type: t, Kind: kind, Index: st.counters[kind]}
	st.counters[kind]++

	if kind == KindField {
		st.fieldCount++
	}

	if kind == KindStatic || kind == KindField {
		st.classScope[name] = entry
	} else {
		st.subroutineScope[name] = entry
	}
	return entry
}

// Lookup resolves 'name', preferring the subroutine scope (it shadows class scope).
func (st *SymbolTable) Lookup(name string) (SymbolEntry, error) {
	if entry, ok := st.subroutineScope[name]; ok {
		return entry, nil
	}
	if entry, ok := st.classScope[name]; ok {
		return entry, nil
	}
	return SymbolEntry{}, SymbolNotFoundError{Name: name}
}

// FieldCount reports how many fields have been defined in the current class, used
// to size the object allocated by a constructor's prologue.
func (st *SymbolTable) FieldCount() uint16 { return st.fieldCount }

// segmentOf maps a variable kind to the VM segment the code generator must
// address it through.
func segmentOf(kind VarKind) string {
	switch kind {
	case KindStatic:
		return "static"
	case KindField:
		return "this"
	case KindArgument:
		return "argument"
	case KindLocal:
		return "local"
	default:
		return ""
	}
}
