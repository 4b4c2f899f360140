package vm

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// Parser Combinator(s)

// This section defines the Parser Combinator for every VM command. It runs
// once per physical source line rather than once over the whole module, so
// that a malformed line can be pinpointed by its 1-based line number.

var ast = pc.NewAST("virtual_machine", 0)

var labelPattern = regexp.MustCompile(`^[A-Za-z_.][A-Za-z_.$0-9]*$`)

var (
	// NOTE: The arithmetic alternative is tried last, after every keyword-led
	// command. Atoms match by prefix; a line the chosen alternative does not
	// consume to its end is rejected by parseLine.
	pLine = ast.OrdChoice("line", nil,
		pMemoryOp, pLabelDecl, pGotoOp, pFuncDecl, pFunCallOp, pReturnOp, pArithmeticOp,
	)

	// Memory operation: "{push|pop} {segment} {index}"
	pMemoryOp = ast.And("memory_op", nil, pMemOpType, pSegment, pc.Int())
	// Arithmetic operation: zero-argument, modifies only the stack pointer and its top value(s).
	pArithmeticOp = ast.And("arithmetic_op", nil, pArithOpType)

	// Label declaration: "label {symbol}"
	pLabelDecl = ast.And("label_decl", nil, pc.Atom("label", "LABEL"), pIdent)
	// Jump operation: "{goto|if-goto} {symbol}"
	pGotoOp = ast.And("goto_op", nil, pJumpType, pIdent)

	// Function declaration: "function {name} {n_locals}"
	pFuncDecl = ast.And("func_decl", nil, pc.Atom("function", "FUNC"), pIdent, pc.Int())
	// Function call operation: "call {name} {n_args}"
	pFunCallOp = ast.And("func_call", nil, pc.Atom("call", "CALL"), pIdent, pc.Int())
	// Return operation: "return"
	pReturnOp = ast.And("return_op", nil, pc.Atom("return", "RETURN"))
)

var (
	// Label/function identifier: '[A-Za-z_.][A-Za-z_.$0-9]*'.
	pIdent = pc.Token(`[A-Za-z_.][A-Za-z_.$0-9]*`, "IDENT")

	pMemOpType = ast.OrdChoice("mem_op_type", nil, pc.Atom("push", "PUSH"), pc.Atom("pop", "POP"))

	pSegment = ast.OrdChoice("mem_segment", nil,
		pc.Atom("argument", "ARGUMENT"), pc.Atom("local", "LOCAL"),
		pc.Atom("static", "STATIC"), pc.Atom("constant", "CONSTANT"),
		pc.Atom("this", "THIS"), pc.Atom("that", "THAT"),
		pc.Atom("temp", "TEMP"), pc.Atom("pointer", "POINTER"),
	)

	pArithOpType = ast.OrdChoice("arith_op_type", nil,
		pc.Atom("eq", "EQ"), pc.Atom("gt", "GT"), pc.Atom("lt", "LT"),
		pc.Atom("add", "ADD"), pc.Atom("sub", "SUB"), pc.Atom("neg", "NEG"),
		pc.Atom("not", "NOT"), pc.Atom("and", "AND"), pc.Atom("or", "OR"),
	)

	pJumpType = ast.OrdChoice("jump_type", nil, pc.Atom("goto", "GOTO"), pc.Atom("if-goto", "IF-GOTO"))
)

// ----------------------------------------------------------------------------
// Vm Parser

// Parser turns VM text into a Module, one Operation per non-blank, non-comment line.
type Parser struct{ reader io.Reader }

func NewParser(r io.Reader) Parser { return Parser{reader: r} }

type sourceLine struct {
	text   string
	number int
}

// Parse reads the whole reader, strips '// ...' comments and blank lines, and
// parses each remaining physical line independently.
func (p Parser) Parse() (Module, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %s", err)
	}

	module := Module{}
	for _, line := range splitLines(string(content)) {
		op, err := parseLine(line.text, line.number)
		if err != nil {
			return nil, err
		}
		module = append(module, op)
	}
	return module, nil
}

func splitLines(content string) []sourceLine {
	raw := strings.Split(content, "\n")
	lines := make([]sourceLine, 0, len(raw))
	for i, l := range raw {
		if idx := strings.Index(l, "//"); idx >= 0 {
			l = l[:idx]
		}
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		lines = append(lines, sourceLine{text: trimmed, number: i + 1})
	}
	return lines
}

// parseLine drives the grammar over a single line and dispatches the matched
// node to the corresponding Operation constructor.
func parseLine(line string, number int) (Operation, error) {
	root, scanner := ast.Parsewith(pLine, pc.NewScanner([]byte(line)))
	if root == nil || !scanner.Endof() {
		return nil, TranslatorError{Line: number, Text: line, Msg: "unrecognized VM command"}
	}

	switch root.GetName() {
	case "memory_op":
		return handleMemoryOp(root, line, number)
	case "arithmetic_op":
		return handleArithmeticOp(root, line, number)
	case "label_decl":
		return handleLabelDecl(root, line, number)
	case "goto_op":
		return handleGotoOp(root, line, number)
	case "func_decl":
		return handleFuncDecl(root, line, number)
	case "func_call":
		return handleFuncCall(root, line, number)
	case "return_op":
		return ReturnOp{}, nil
	default:
		return nil, TranslatorError{Line: number, Text: line, Msg: fmt.Sprintf("unrecognized node '%s'", root.GetName())}
	}
}

func handleMemoryOp(node pc.Queryable, line string, number int) (Operation, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, TranslatorError{Line: number, Text: line, Msg: "push/pop requires exactly two arguments"}
	}

	op := OperationType(children[0].GetValue())
	segment, ok := Segments[children[1].GetValue()]
	if !ok {
		return nil, TranslatorError{Line: number, Text: line, Msg: fmt.Sprintf("unknown segment '%s'", children[1].GetValue())}
	}
	index, err := strconv.ParseUint(children[2].GetValue(), 10, 16)
	if err != nil {
		return nil, TranslatorError{Line: number, Text: line, Msg: "index must be a non-negative integer"}
	}
	if op == OpPop && segment == SegConstant {
		return nil, TranslatorError{Line: number, Text: line, Msg: "'pop constant' is not legal"}
	}

	return MemoryOp{Op: op, Segment: segment, Index: uint16(index)}, nil
}

func handleArithmeticOp(node pc.Queryable, line string, number int) (Operation, error) {
	children := node.GetChildren()
	if len(children) != 1 {
		return nil, TranslatorError{Line: number, Text: line, Msg: "arithmetic command takes no arguments"}
	}
	op, ok := ArithOps[children[0].GetValue()]
	if !ok {
		return nil, TranslatorError{Line: number, Text: line, Msg: fmt.Sprintf("unknown arithmetic op '%s'", children[0].GetValue())}
	}
	return ArithmeticOp{Op: op, Line: number}, nil
}

func handleLabelDecl(node pc.Queryable, line string, number int) (Operation, error) {
	children := node.GetChildren()
	name := children[1].GetValue()
	if !labelPattern.MatchString(name) {
		return nil, TranslatorError{Line: number, Text: line, Msg: fmt.Sprintf("invalid label name '%s'", name)}
	}
	return LabelDecl{Name: name}, nil
}

func handleGotoOp(node pc.Queryable, line string, number int) (Operation, error) {
	children := node.GetChildren()
	jump := JumpType(children[0].GetValue())
	name := children[1].GetValue()
	if !labelPattern.MatchString(name) {
		return nil, TranslatorError{Line: number, Text: line, Msg: fmt.Sprintf("invalid label name '%s'", name)}
	}
	return GotoOp{Jump: jump, Label: name}, nil
}

func handleFuncDecl(node pc.Queryable, line string, number int) (Operation, error) {
	children := node.GetChildren()
	name := children[1].GetValue()
	if !labelPattern.MatchString(name) {
		return nil, TranslatorError{Line: number, Text: line, Msg: fmt.Sprintf("invalid function name '%s'", name)}
	}
	nLocals, err := strconv.ParseUint(children[2].GetValue(), 10, 16)
	if err != nil {
		return nil, TranslatorError{Line: number, Text: line, Msg: "n_locals must be a non-negative integer"}
	}
	return FuncDecl{Name: name, NLocals: uint16(nLocals)}, nil
}

func handleFuncCall(node pc.Queryable, line string, number int) (Operation, error) {
	children := node.GetChildren()
	name := children[1].GetValue()
	if !labelPattern.MatchString(name) {
		return nil, TranslatorError{Line: number, Text: line, Msg: fmt.Sprintf("invalid function name '%s'", name)}
	}
	nArgs, err := strconv.ParseUint(children[2].GetValue(), 10, 16)
	if err != nil {
		return nil, TranslatorError{Line: number, Text: line, Msg: "n_args must be a non-negative integer"}
	}
	return FuncCallOp{Name: name, NArgs: uint16(nArgs), Line: number}, nil
}
