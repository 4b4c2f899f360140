package hack

import (
	"fmt"

	"github.com/n2t-toolchain/n2t/pkg/asm"
)

// ----------------------------------------------------------------------------
// Assembler C-instruction encoding

// This section implements the lookup tables and bit-packing for a single
// C-instruction, '[dest=]comp[;jump]'. The two comp tables are indexed by
// the 'a' bit: 0 selects the A-register variant, 1 the M-register variant.

var destCodes = map[string]uint16{
	"": 0b000, "M": 0b001, "D": 0b010, "MD": 0b011,
	"A": 0b100, "AM": 0b101, "AD": 0b110, "AMD": 0b111,
}

var jumpCodes = map[string]uint16{
	"": 0b000, "JGT": 0b001, "JEQ": 0b010, "JGE": 0b011,
	"JLT": 0b100, "JNE": 0b101, "JLE": 0b110, "JMP": 0b111,
}

// compCodesA0 is the a=0 table: comp expressions built from the A register.
var compCodesA0 = map[string]uint16{
	"0": 0b101010, "1": 0b111111, "-1": 0b111010,
	"D": 0b001100, "A": 0b110000,
	"!D": 0b001101, "!A": 0b110001,
	"-D": 0b001111, "-A": 0b110011,
	"D+1": 0b011111, "A+1": 0b110111,
	"D-1": 0b001110, "A-1": 0b110010,
	"D+A": 0b000010, "D-A": 0b010011, "A-D": 0b000111,
	"D&A": 0b000000, "D|A": 0b010101,
}

// compCodesA1 is the a=1 table: the same operations with M substituted for A.
var compCodesA1 = map[string]uint16{
	"M": 0b110000, "!M": 0b110001, "-M": 0b110011,
	"M+1": 0b110111, "M-1": 0b110010,
	"D+M": 0b000010, "D-M": 0b010011, "M-D": 0b000111,
	"D&M": 0b000000, "D|M": 0b010101,
}

// EncodeC packs one CInstruction into its 16-bit word: the fixed '111' opcode,
// the a-bit selected by which comp table matched, the 6-bit comp code, the
// 3-bit dest mask and the 3-bit jump code.
func EncodeC(inst asm.CInstruction) (uint16, error) {
	aBit, comp, ok := lookupComp(inst.Comp)
	if !ok {
		return 0, AssemblerError{Msg: fmt.Sprintf("unknown comp mnemonic %q", inst.Comp)}
	}
	dest, ok := destCodes[inst.Dest]
	if !ok {
		return 0, AssemblerError{Msg: fmt.Sprintf("unknown dest mnemonic %q", inst.Dest)}
	}
	jump, ok := jumpCodes[inst.Jump]
	if !ok {
		return 0, AssemblerError{Msg: fmt.Sprintf("unknown jump mnemonic %q", inst.Jump)}
	}
	return 0b111<<13 | aBit<<12 | comp<<6 | dest<<3 | jump, nil
}

func lookupComp(comp string) (aBit uint16, code uint16, ok bool) {
	if c, found := compCodesA0[comp]; found {
		return 0, c, true
	}
	if c, found := compCodesA1[comp]; found {
		return 1, c, true
	}
	return 0, 0, false
}

// MaxAddressableMemory is the upper bound (exclusive) on a 15-bit A-instruction
// address; the MSB of every word produced here is 0.
const MaxAddressableMemory uint16 = 1 << 15

// EncodeLiteral validates a raw numeric A-instruction operand and returns it
// unchanged as the 16-bit word (its MSB is already 0).
func EncodeLiteral(value uint32) (uint16, error) {
	if value >= uint32(MaxAddressableMemory) {
		return 0, AssemblerError{Msg: fmt.Sprintf("literal %d exceeds the 15-bit address space", value)}
	}
	return uint16(value), nil
}
