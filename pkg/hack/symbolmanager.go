package hack

import "regexp"

// ----------------------------------------------------------------------------
// Assembler Symbol Manager

// This section implements the Symbol Manager: the predefined symbol table
// plus the deferred-fixup bookkeeping that lets the Driver resolve labels and
// variables in a single pass over the source. Pending fixups are kept in a
// list of their own, apart from the emitted words, and are applied once, by
// one ResolveAll call at the end of the scan that patches the word slice in
// place.

var symbolNamePattern = regexp.MustCompile(`^[A-Za-z_.][A-Za-z_.$0-9]*$`)

// firstVariableAddress is where dense variable allocation starts.
const firstVariableAddress = 16

var predefinedSymbols = map[string]uint16{
	"SP": 0, "LCL": 1, "ARG": 2, "THIS": 3, "THAT": 4,
	"SCREEN": 0x4000, "KBD": 0x6000,
	"R0": 0, "R1": 1, "R2": 2, "R3": 3, "R4": 4, "R5": 5, "R6": 6, "R7": 7,
	"R8": 8, "R9": 9, "R10": 10, "R11": 11, "R12": 12, "R13": 13, "R14": 14, "R15": 15,
}

// fixup records a command-slice index whose word could not be resolved when
// Reference was first called -- the symbol was neither predefined nor yet
// defined as a label at that point in the scan.
type fixup struct {
	name  string
	index int
}

// SymbolManager holds the resolved symbol table and the list of deferred fixups
// accumulated over one Driver pass.
type SymbolManager struct {
	table  map[string]uint16
	fixups []fixup
}

// NewSymbolManager returns a SymbolManager preloaded with the predefined symbols.
func NewSymbolManager() *SymbolManager {
	table := make(map[string]uint16, len(predefinedSymbols))
	for name, addr := range predefinedSymbols {
		table[name] = addr
	}
	return &SymbolManager{table: table}
}

// DefineLabel records 'name' as resolving to 'romAddress'. Fails if the name is
// malformed or already defined -- including a predefined symbol, which can
// never be redefined as a label.
func (sm *SymbolManager) DefineLabel(name string, romAddress uint16) error {
	if !symbolNamePattern.MatchString(name) {
		return BadSymbolNameError{Name: name}
	}
	if _, exists := sm.table[name]; exists {
		return MultipleSymbolDefinitionError{Name: name}
	}
	sm.table[name] = romAddress
	return nil
}

// Reference resolves 'name' if it is already known (predefined, or a label
// already declared earlier in the scan); otherwise it records a deferred fixup
// at 'commandIndex' for ResolveAll to patch later and returns 0 as a placeholder.
func (sm *SymbolManager) Reference(name string, commandIndex int) (uint16, error) {
	if !symbolNamePattern.MatchString(name) {
		return 0, BadSymbolNameError{Name: name}
	}
	if addr, ok := sm.table[name]; ok {
		return addr, nil
	}
	sm.fixups = append(sm.fixups, fixup{name: name, index: commandIndex})
	return 0, nil
}

// ResolveAll patches every deferred fixup into 'commands': a symbol still
// undefined by the end of the scan is a variable, assigned the next dense
// address starting at 16.
func (sm *SymbolManager) ResolveAll(commands []uint16) {
	cursor := uint16(firstVariableAddress)
	for _, fx := range sm.fixups {
		addr, ok := sm.table[fx.name]
		if !ok {
			addr = cursor
			sm.table[fx.name] = addr
			cursor++
		}
		commands[fx.index] = addr
	}
}
