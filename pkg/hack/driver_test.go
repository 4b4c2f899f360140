package hack_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/n2t-toolchain/n2t/pkg/asm"
	"github.com/n2t-toolchain/n2t/pkg/hack"
)

func located(stmts ...asm.Statement) []asm.Located {
	out := make([]asm.Located, len(stmts))
	for i, s := range stmts {
		out[i] = asm.Located{Statement: s, Line: i + 1, Text: ""}
	}
	return out
}

func TestAssembleLiterals(t *testing.T) {
	// S1: @R5 encodes to the 16-bit binary of 5.
	out, err := hack.Assemble(located(asm.AInstruction{Location: "R5"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "0000000000000101" {
		t.Fatalf("got %q", out)
	}

	// S2: @KBD encodes to the 16-bit binary of 24576.
	out, err = hack.Assemble(located(asm.AInstruction{Location: "KBD"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "0110000000000000" {
		t.Fatalf("got %q", out)
	}
}

func TestAssembleLabelAndForwardReference(t *testing.T) {
	// S3: "M=D / @END / 0;JMP / (END) / M=D" -- line 2 of output equals the
	// 16-bit binary of 3 (END resolves to ROM address 3, the label's own
	// declaration line does not consume a ROM slot).
	out, err := hack.Assemble(located(
		asm.CInstruction{Dest: "M", Comp: "D"},
		asm.AInstruction{Location: "END"},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		asm.LabelDecl{Name: "END"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 ROM words, got %d", len(lines))
	}
	if lines[1] != "0000000000000011" {
		t.Fatalf("line 2 = %q, want binary of 3", lines[1])
	}
}

func TestAssembleLiteralOutOfRange(t *testing.T) {
	// S4: @32768 raises AssemblerError.
	_, err := hack.Assemble(located(asm.AInstruction{Location: "32768"}))
	var assemblerErr hack.AssemblerError
	if !errors.As(err, &assemblerErr) {
		t.Fatalf("expected AssemblerError, got %v", err)
	}
}

func TestVariableAllocationIsDenseFrom16(t *testing.T) {
	// The k-th distinct unresolved variable reference is assigned address 16+k.
	out, err := hack.Assemble(located(
		asm.AInstruction{Location: "foo"},
		asm.AInstruction{Location: "bar"},
		asm.AInstruction{Location: "foo"}, // repeat -- must resolve to the same address
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(out, "\n")
	if lines[0] != "0000000000010000" { // 16
		t.Fatalf("foo: got %q", lines[0])
	}
	if lines[1] != "0000000000010001" { // 17
		t.Fatalf("bar: got %q", lines[1])
	}
	if lines[2] != lines[0] {
		t.Fatalf("repeated reference to 'foo' must resolve identically")
	}
}

func TestPredefinedSymbolRedefinitionFails(t *testing.T) {
	// Redefining a predefined symbol as a label is an error.
	_, err := hack.Assemble(located(asm.LabelDecl{Name: "SP"}))
	var dup hack.MultipleSymbolDefinitionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected MultipleSymbolDefinitionError, got %v", err)
	}
}

func TestEncodeCInstruction(t *testing.T) {
	cases := []struct {
		inst asm.CInstruction
		want uint16
	}{
		{asm.CInstruction{Comp: "0"}, 0b1110101010000000},
		{asm.CInstruction{Dest: "D", Comp: "A"}, 0b1110110000010000},
		{asm.CInstruction{Comp: "D+M", Jump: "JGT"}, 0b1111000010000001},
	}
	for _, c := range cases {
		got, err := hack.EncodeC(c.inst)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != c.want {
			t.Fatalf("EncodeC(%+v) = %016b, want %016b", c.inst, got, c.want)
		}
	}
}

func TestEncodeCInstructionRejectsUnknownMnemonics(t *testing.T) {
	_, err := hack.EncodeC(asm.CInstruction{Comp: "D^A"})
	if err == nil {
		t.Fatal("expected an error for an unknown comp mnemonic")
	}
}
