package vm

import "fmt"

// ----------------------------------------------------------------------------
// Assembly Code Generator

// This section implements the Assembly Generator: lowers one Module's
// Operations to Hack Assembly text, one VM command at a time, implementing
// the segment-addressing and calling-convention rules of the Hack platform.
// Emission is template-driven via embedded format strings.

const (
	tmplPushD = "@SP\nA=M\nM=D\n@SP\nM=M+1\n"
	tmplPopD  = "@SP\nM=M-1\nA=M\nD=M\n"
)

var segmentPointer = map[SegmentType]string{
	SegLocal: "LCL", SegArgument: "ARG", SegThis: "THIS", SegThat: "THAT",
}

// CodeGenerator translates one Module (one '.vm' translation unit) to Assembly text.
type CodeGenerator struct {
	module string // file stem, used for 'static' segment and label naming
}

// NewCodeGenerator takes the translation unit's file stem (used to scope its
// 'static' variables and comparison labels uniquely across the whole program).
func NewCodeGenerator(module string) *CodeGenerator {
	return &CodeGenerator{module: module}
}

// Generate lowers every Operation in order and returns the joined Assembly text.
func (cg *CodeGenerator) Generate(m Module) (string, error) {
	out := ""
	for _, op := range m {
		text, err := cg.generateOne(op)
		if err != nil {
			return "", err
		}
		out += text
	}
	return out, nil
}

func (cg *CodeGenerator) generateOne(op Operation) (string, error) {
	switch o := op.(type) {
	case MemoryOp:
		return cg.generateMemoryOp(o)
	case ArithmeticOp:
		return cg.generateArithmeticOp(o)
	case LabelDecl:
		return fmt.Sprintf("(%s)\n", o.Name), nil
	case GotoOp:
		return cg.generateGotoOp(o)
	case FuncDecl:
		return cg.generateFuncDecl(o)
	case FuncCallOp:
		return cg.generateFuncCall(o)
	case ReturnOp:
		return cg.generateReturn(), nil
	default:
		return "", fmt.Errorf("vm: unknown operation node %T", op)
	}
}

func (cg *CodeGenerator) generateMemoryOp(o MemoryOp) (string, error) {
	if o.Op == OpPush {
		return cg.generatePush(o.Segment, o.Index)
	}
	return cg.generatePop(o.Segment, o.Index)
}

// generatePush implements segment addressing: 'constant' loads the literal
// directly, the four indirect segments dereference their base pointer,
// 'static'/'temp'/'pointer' are fixed, per-file or absolute addresses.
func (cg *CodeGenerator) generatePush(segment SegmentType, index uint16) (string, error) {
	var load string
	switch segment {
	case SegConstant:
		load = fmt.Sprintf("@%d\nD=A\n", index)
	case SegLocal, SegArgument, SegThis, SegThat:
		load = fmt.Sprintf("@%s\nD=M\n@%d\nA=D+A\nD=M\n", segmentPointer[segment], index)
	case SegStatic:
		load = fmt.Sprintf("@%s.%d\nD=M\n", cg.module, index)
	case SegTemp:
		addr, err := tempAddress(index)
		if err != nil {
			return "", err
		}
		load = fmt.Sprintf("@%d\nD=M\n", addr)
	case SegPointer:
		sym, err := pointerSymbol(index)
		if err != nil {
			return "", err
		}
		load = fmt.Sprintf("@%s\nD=M\n", sym)
	default:
		return "", fmt.Errorf("vm: unknown segment %q", segment)
	}
	return load + tmplPushD, nil
}

func (cg *CodeGenerator) generatePop(segment SegmentType, index uint16) (string, error) {
	switch segment {
	case SegLocal, SegArgument, SegThis, SegThat:
		return fmt.Sprintf("@%s\nD=M\n@%d\nD=D+A\n@R13\nM=D\n%s@R13\nA=M\nM=D\n",
			segmentPointer[segment], index, tmplPopD), nil
	case SegStatic:
		return fmt.Sprintf("%s@%s.%d\nM=D\n", tmplPopD, cg.module, index), nil
	case SegTemp:
		addr, err := tempAddress(index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s@%d\nM=D\n", tmplPopD, addr), nil
	case SegPointer:
		sym, err := pointerSymbol(index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s@%s\nM=D\n", tmplPopD, sym), nil
	default:
		return "", fmt.Errorf("vm: unknown segment %q", segment)
	}
}

// tempAddress enforces the 'temp i' range: 0 <= i < 8, direct address 5+i.
func tempAddress(index uint16) (uint16, error) {
	if index >= 8 {
		return 0, TranslatorError{Msg: fmt.Sprintf("temp index %d out of range 0-7", index)}
	}
	return 5 + index, nil
}

// pointerSymbol enforces the 'pointer i' range: i in {0, 1} only.
func pointerSymbol(index uint16) (string, error) {
	switch index {
	case 0:
		return "THIS", nil
	case 1:
		return "THAT", nil
	default:
		return "", TranslatorError{Msg: fmt.Sprintf("pointer index %d out of range 0-1", index)}
	}
}

// generateArithmeticOp implements the binary/unary/comparison semantics.
// Comparisons emit a label pair derived from the unit's file stem and the
// command's source line, so concatenating several translated units never
// produces a collision.
func (cg *CodeGenerator) generateArithmeticOp(o ArithmeticOp) (string, error) {
	switch o.Op {
	case ArithAdd:
		return "@SP\nM=M-1\nA=M\nD=M\nA=A-1\nM=M+D\n", nil
	case ArithSub:
		return "@SP\nM=M-1\nA=M\nD=M\nA=A-1\nM=M-D\n", nil
	case ArithAnd:
		return "@SP\nM=M-1\nA=M\nD=M\nA=A-1\nM=M&D\n", nil
	case ArithOr:
		return "@SP\nM=M-1\nA=M\nD=M\nA=A-1\nM=M|D\n", nil
	case ArithNeg:
		return "@SP\nA=M-1\nM=-M\n", nil
	case ArithNot:
		return "@SP\nA=M-1\nM=!M\n", nil
	case ArithEq:
		return cg.generateCompare("JEQ", o.Line), nil
	case ArithGt:
		return cg.generateCompare("JGT", o.Line), nil
	case ArithLt:
		return cg.generateCompare("JLT", o.Line), nil
	default:
		return "", fmt.Errorf("vm: unknown arithmetic op %q", o.Op)
	}
}

func (cg *CodeGenerator) generateCompare(jump string, line int) string {
	trueLabel := fmt.Sprintf("TRUE_%s_%d", cg.module, line)
	endLabel := fmt.Sprintf("END_%s_%d", cg.module, line)

	return fmt.Sprintf(
		"@SP\nM=M-1\nA=M\nD=M\nA=A-1\nD=M-D\n@%s\nD;%s\n@SP\nA=M-1\nM=0\n@%s\n0;JMP\n(%s)\n@SP\nA=M-1\nM=-1\n(%s)\n",
		trueLabel, jump, endLabel, trueLabel, endLabel,
	)
}

func (cg *CodeGenerator) generateGotoOp(o GotoOp) (string, error) {
	if o.Jump == JumpGoto {
		return fmt.Sprintf("@%s\n0;JMP\n", o.Label), nil
	}
	return fmt.Sprintf("%s@%s\nD;JNE\n", tmplPopD, o.Label), nil
}

// generateFuncDecl: a function's label followed by 'k' zero-initialized locals.
func (cg *CodeGenerator) generateFuncDecl(o FuncDecl) (string, error) {
	out := fmt.Sprintf("(%s)\n", o.Name)
	for i := uint16(0); i < o.NLocals; i++ {
		out += "@0\nD=A\n" + tmplPushD
	}
	return out, nil
}

// generateFuncCall implements the call sequence: push the return address and
// the caller's four segment pointers, reposition ARG/LCL, jump. The return
// label is keyed by the call site's source line, so two calls to the same
// function from different lines never collide.
func (cg *CodeGenerator) generateFuncCall(o FuncCallOp) (string, error) {
	returnLabel := fmt.Sprintf("RETURN_FROM_%s$%s$line_%d", cg.module, o.Name, o.Line)

	out := fmt.Sprintf("@%s\nD=A\n%s", returnLabel, tmplPushD)
	for _, seg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		out += fmt.Sprintf("@%s\nD=M\n%s", seg, tmplPushD)
	}
	out += fmt.Sprintf("@SP\nD=M\n@%d\nD=D-A\n@ARG\nM=D\n", int(o.NArgs)+5)
	out += "@SP\nD=M\n@LCL\nM=D\n"
	out += fmt.Sprintf("@%s\n0;JMP\n", o.Name)
	out += fmt.Sprintf("(%s)\n", returnLabel)
	return out, nil
}

// generateReturn implements the frame-teardown sequence, using R13 as FRAME
// and R14 as RET so the return value can safely overwrite argument 0 even
// when the callee took zero arguments.
func (cg *CodeGenerator) generateReturn() string {
	out := "@LCL\nD=M\n@R13\nM=D\n"       // FRAME = LCL
	out += "@5\nA=D-A\nD=M\n@R14\nM=D\n"  // RET = *(FRAME-5); note D still holds FRAME
	out += tmplPopD + "@ARG\nA=M\nM=D\n"  // *ARG = pop()
	out += "@ARG\nD=M+1\n@SP\nM=D\n"      // SP = ARG+1
	for i, seg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		out += fmt.Sprintf("@R13\nD=M\n@%d\nA=D-A\nD=M\n@%s\nM=D\n", i+1, seg)
	}
	out += "@R14\nA=M\n0;JMP\n"
	return out
}
