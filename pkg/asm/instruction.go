package asm

// ----------------------------------------------------------------------------
// Assembly data model

// This section declares the symbolic Machine assembly produced by parsing a
// '.asm' file: one 'Statement' per physical line, a tagged variant over a
// label declaration and the two instruction shapes. A Location here may still
// be an unresolved label or variable name -- resolution happens later, in
// pkg/hack's symbol manager and driver.

// Statement is the marker interface common to every parsed line.
type Statement interface{}

// LabelDecl names a ROM address for later A-instruction references; it is
// itself not an instruction and consumes no ROM slot.
type LabelDecl struct {
	Name string
}

// AInstruction loads a 15-bit value into the A register. Location is either a
// literal ('38'), a predefined symbol ('SP', 'SCREEN', ...) or a user label or
// variable name -- which one it is isn't decided until the symbol is resolved.
type AInstruction struct {
	Location string
}

// CInstruction specifies a computation, an optional destination mask and an
// optional jump condition: '[dest=]comp[;jump]'. Dest and Jump are empty
// strings when absent from the source line.
type CInstruction struct {
	Comp string
	Dest string
	Jump string
}
