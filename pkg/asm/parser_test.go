package asm_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/n2t-toolchain/n2t/pkg/asm"
)

func TestParserParsesEachStatementKind(t *testing.T) {
	src := `
// comment, ignored
@5
D=A
(LOOP)
@LOOP
0;JMP
M=D+1;JGT
`
	program, err := asm.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(program) != 6 {
		t.Fatalf("expected 6 statements, got %d: %+v", len(program), program)
	}

	if inst, ok := program[0].(asm.AInstruction); !ok || inst.Location != "5" {
		t.Fatalf("unexpected first statement: %+v", program[0])
	}
	if inst, ok := program[1].(asm.CInstruction); !ok || inst.Dest != "D" || inst.Comp != "A" {
		t.Fatalf("unexpected second statement: %+v", program[1])
	}
	if label, ok := program[2].(asm.LabelDecl); !ok || label.Name != "LOOP" {
		t.Fatalf("unexpected third statement: %+v", program[2])
	}
	if inst, ok := program[5].(asm.CInstruction); !ok || inst.Dest != "M" || inst.Comp != "D+1" || inst.Jump != "JGT" {
		t.Fatalf("unexpected sixth statement: %+v", program[5])
	}
}

func TestParseWithLinesRetainsLineNumbers(t *testing.T) {
	src := "@0\n\nD=A\n"
	located, err := asm.NewParser(strings.NewReader(src)).ParseWithLines()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(located) != 2 {
		t.Fatalf("expected 2 located statements, got %d", len(located))
	}
	if located[0].Line != 1 || located[1].Line != 3 {
		t.Fatalf("expected lines 1 and 3 (blank line 2 skipped), got %d and %d", located[0].Line, located[1].Line)
	}
}

func TestParserRejectsUnrecognizedLine(t *testing.T) {
	_, err := asm.NewParser(strings.NewReader("FROB")).Parse()
	var assemblerErr asm.AssemblerError
	if !errors.As(err, &assemblerErr) {
		t.Fatalf("expected AssemblerError, got %v", err)
	}
}

func TestIsAsmFile(t *testing.T) {
	if !asm.IsAsmFile("Prog.asm") || asm.IsAsmFile("Prog.vm") {
		t.Fatal("IsAsmFile must only accept the .asm extension")
	}
}
