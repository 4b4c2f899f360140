package asm

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// Parser Combinator(s)

// Runs once per physical source line, like the VM parser, so a malformed
// line can be reported with its own 1-based line number.

var asmAst = pc.NewAST("assembly", 0)

var symbolPattern = regexp.MustCompile(`^[A-Za-z_.][A-Za-z_.$0-9]*$`)

var (
	pLine = asmAst.OrdChoice("line", nil, pAInst, pLabelDecl, pCInst)

	pAInst     = asmAst.OrdChoice("a_inst", nil, pARaw, pASym)
	pARaw      = asmAst.And("a_raw", nil, pc.Atom("@", "AT"), pc.Int())
	pASym      = asmAst.And("a_sym", nil, pc.Atom("@", "AT"), pIdent)
	pLabelDecl = asmAst.And("label_decl", nil, pc.Atom("(", "LPAREN"), pIdent, pc.Atom(")", "RPAREN"))

	pCInst    = asmAst.And("c_inst", nil, asmAst.Maybe("maybe_dest", nil, pDestPart), pComp, asmAst.Maybe("maybe_jump", nil, pJumpPart))
	pDestPart = asmAst.And("dest_part", nil, pDest, pc.Atom("=", "EQ"))
	pJumpPart = asmAst.And("jump_part", nil, pc.Atom(";", "SEMI"), pJump)

	pIdent = pc.Token(`[A-Za-z_.][A-Za-z_.$0-9]*`, "IDENT")
	pDest  = pc.Token(`[AMD]{1,3}`, "DEST")
	pComp  = pc.Token(`[AMD01\-+&|!]+`, "COMP")
	pJump  = pc.Token(`J(GT|EQ|GE|LT|NE|LE|MP)`, "JUMP")
)

// ----------------------------------------------------------------------------
// Assembly Parser

// Parser turns Assembly text into a slice of Statement, one per non-blank,
// non-comment physical line.
type Parser struct{ reader io.Reader }

func NewParser(r io.Reader) Parser { return Parser{reader: r} }

type asmLine struct {
	text   string
	number int
}

// Located pairs a parsed Statement with the 1-based line it came from, so a
// later phase (symbol resolution, encoding) can still report precise errors.
type Located struct {
	Statement Statement
	Line      int
	Text      string
}

func (p Parser) Parse() ([]Statement, error) {
	located, err := p.ParseWithLines()
	if err != nil {
		return nil, err
	}
	program := make([]Statement, len(located))
	for i, l := range located {
		program[i] = l.Statement
	}
	return program, nil
}

// ParseWithLines behaves like Parse but retains each Statement's source line.
func (p Parser) ParseWithLines() ([]Located, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %s", err)
	}

	program := []Located{}
	for _, line := range splitAsmLines(string(content)) {
		stmt, err := parseAsmLine(line.text, line.number)
		if err != nil {
			return nil, err
		}
		program = append(program, Located{Statement: stmt, Line: line.number, Text: line.text})
	}
	return program, nil
}

func splitAsmLines(content string) []asmLine {
	raw := strings.Split(content, "\n")
	lines := make([]asmLine, 0, len(raw))
	for i, l := range raw {
		if idx := strings.Index(l, "//"); idx >= 0 {
			l = l[:idx]
		}
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		lines = append(lines, asmLine{text: trimmed, number: i + 1})
	}
	return lines
}

func parseAsmLine(line string, number int) (Statement, error) {
	root, scanner := asmAst.Parsewith(pLine, pc.NewScanner([]byte(line)))
	if root == nil || !scanner.Endof() {
		return nil, AssemblerError{Line: number, Text: line, Msg: "unrecognized instruction"}
	}

	switch root.GetName() {
	case "a_raw", "a_sym":
		return handleAInst(root)
	case "label_decl":
		return handleLabelDecl(root, line, number)
	case "c_inst":
		return handleCInst(root)
	default:
		return nil, AssemblerError{Line: number, Text: line, Msg: fmt.Sprintf("unrecognized node '%s'", root.GetName())}
	}
}

// IsAsmFile reports whether path carries the '.asm' source extension.
func IsAsmFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".asm")
}

func handleAInst(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	return AInstruction{Location: children[1].GetValue()}, nil
}

func handleLabelDecl(node pc.Queryable, line string, number int) (Statement, error) {
	children := node.GetChildren()
	name := children[1].GetValue()
	if !symbolPattern.MatchString(name) {
		return nil, AssemblerError{Line: number, Text: line, Msg: fmt.Sprintf("invalid label name '%s'", name)}
	}
	return LabelDecl{Name: name}, nil
}

// handleCInst reads the optional dest, the required comp and the optional jump
// out of the 'c_inst' node's children, whatever subset of them matched.
func handleCInst(node pc.Queryable) (Statement, error) {
	inst := CInstruction{Dest: "", Jump: ""}
	for _, child := range node.GetChildren() {
		switch child.GetName() {
		case "dest_part":
			inst.Dest = child.GetChildren()[0].GetValue()
		case "jump_part":
			inst.Jump = child.GetChildren()[1].GetValue()
		case "COMP":
			inst.Comp = child.GetValue()
		}
	}
	return inst, nil
}
