package hack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/n2t-toolchain/n2t/pkg/asm"
)

// ----------------------------------------------------------------------------
// Assembler Driver

// This section implements the Driver: a single pass over the Statements
// already produced by pkg/asm's line-oriented Parser, dispatching each to a
// literal A-instruction, a symbolic A-instruction (deferred through the Symbol
// Manager), a label declaration (which does not consume a ROM slot) or a
// C-instruction, followed by one ResolveAll call that backfills every deferred
// variable/label reference. Every error is wrapped with the offending line's
// text and 1-based number before being returned.

// Assemble runs the Driver over 'program' and returns the 16-character binary
// encoding of every ROM word, one per line, newline-joined with no trailing
// newline.
func Assemble(program []asm.Located) (string, error) {
	sm := NewSymbolManager()
	words := make([]uint16, 0, len(program))

	for _, stmt := range program {
		switch s := stmt.Statement.(type) {
		case asm.LabelDecl:
			if err := sm.DefineLabel(s.Name, uint16(len(words))); err != nil {
				return "", wrap(err, stmt)
			}

		case asm.AInstruction:
			word, err := encodeAInstruction(sm, s, len(words))
			if err != nil {
				return "", wrap(err, stmt)
			}
			words = append(words, word)

		case asm.CInstruction:
			word, err := EncodeC(s)
			if err != nil {
				return "", wrap(err, stmt)
			}
			words = append(words, word)

		default:
			return "", wrap(fmt.Errorf("hack: unrecognized statement node %T", stmt.Statement), stmt)
		}
	}

	sm.ResolveAll(words)

	lines := make([]string, len(words))
	for i, w := range words {
		lines[i] = fmt.Sprintf("%016b", w)
	}
	return strings.Join(lines, "\n"), nil
}

// encodeAInstruction dispatches a raw numeric literal straight to EncodeLiteral
// and anything else to the Symbol Manager, recording a fixup at 'index' -- the
// ROM slot this instruction's word will occupy -- when the symbol isn't yet known.
func encodeAInstruction(sm *SymbolManager, inst asm.AInstruction, index int) (uint16, error) {
	if isLiteral(inst.Location) {
		n, err := strconv.ParseUint(inst.Location, 10, 32)
		if err != nil {
			return 0, AssemblerError{Msg: fmt.Sprintf("malformed numeric literal %q", inst.Location)}
		}
		return EncodeLiteral(uint32(n))
	}
	return sm.Reference(inst.Location, index)
}

func isLiteral(location string) bool {
	if location == "" {
		return false
	}
	for _, r := range location {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func wrap(err error, stmt asm.Located) error {
	return AssemblerError{Line: stmt.Line, Text: stmt.Text, Msg: err.Error(), Err: err}
}
