package jack

import "fmt"

// ----------------------------------------------------------------------------
// HLL Code Generator

// This section implements the HLL Code Generator: walks one Class's AST and
// drives the Symbol Table and VM Writer to produce VM text (prologues,
// statement lowering, left-to-right expression evaluation, the three-case
// call-lowering rule).

type CodeGenerator struct {
	symbols      *SymbolTable
	writer       *VMWriter
	currentClass string
	currentSub   string
	labelN       uint
}

// NewCodeGenerator returns a CodeGenerator with a fresh, owned Symbol Table:
// the table is never a shared handle, so generators never interfere with one
// another.
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{symbols: NewSymbolTable()}
}

// Generate compiles one Class to VM text, one command per returned line.
func (cg *CodeGenerator) Generate(class Class) ([]string, error) {
	cg.symbols.StartClass()
	cg.writer = NewVMWriter()
	cg.currentClass = class.Name

	for _, cv := range class.Vars {
		kind := KindStatic
		if cv.Kind == ClassVarField {
			kind = KindField
		}
		for _, name := range cv.Names {
			cg.symbols.Define(name, cv.Type, kind)
		}
	}

	for _, sub := range class.Subroutines {
		if err := cg.compileSubroutine(sub); err != nil {
			return nil, err
		}
	}
	return cg.writer.Lines(), nil
}

// compileSubroutine emits the subroutine's standard prologue, then its body.
func (cg *CodeGenerator) compileSubroutine(sub Subroutine) error {
	cg.symbols.StartSubroutine()
	cg.currentSub = sub.Name
	cg.labelN = 0

	if sub.Kind == SubroutineMethod {
		cg.symbols.Define("this", Type{Kind: TypeClass, ClassName: cg.currentClass}, KindArgument)
	}
	for _, param := range sub.Params {
		cg.symbols.Define(param.Name, param.Type, KindArgument)
	}

	var nLocals uint16
	for _, local := range sub.Locals {
		for _, name := range local.Names {
			cg.symbols.Define(name, local.Type, KindLocal)
			nLocals++
		}
	}

	cg.writer.WriteFunction(fmt.Sprintf("%s.%s", cg.currentClass, sub.Name), nLocals)

	switch sub.Kind {
	case SubroutineConstructor:
		// Allocation is emitted only when the class has at least one field; a
		// zero-field constructor leaves 'pointer 0' uninitialized by design, so
		// callers of such a constructor must not reference 'this'.
		if fieldCount := cg.symbols.FieldCount(); fieldCount > 0 {
			cg.writer.WritePush("constant", fieldCount)
			cg.writer.WriteCall("Memory.alloc", 1)
			cg.writer.WritePop("pointer", 0)
		}
	case SubroutineMethod:
		cg.writer.WritePush("argument", 0)
		cg.writer.WritePop("pointer", 0)
	}

	for _, stmt := range sub.Statements {
		if err := cg.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGenerator) compileStatement(stmt Statement) error {
	switch s := stmt.(type) {
	case LetStmt:
		return cg.compileLet(s)
	case IfStmt:
		return cg.compileIf(s)
	case WhileStmt:
		return cg.compileWhile(s)
	case DoStmt:
		return cg.compileDo(s)
	case ReturnStmt:
		return cg.compileReturn(s)
	default:
		return fmt.Errorf("jack: unknown statement node %T", stmt)
	}
}

func (cg *CodeGenerator) compileLet(s LetStmt) error {
	if s.Index == nil {
		if err := cg.compileExpression(s.Value); err != nil {
			return err
		}
		entry, err := cg.symbols.Lookup(s.Name)
		if err != nil {
			return UndefinedVariableError{Name: s.Name}
		}
		cg.writer.WritePop(segmentOf(entry.Kind), entry.Index)
		return nil
	}

	// 'let x[i] = e': address computed first and left on the stack while the
	// RHS is evaluated; only then is the RHS value saved to temp 0 and the
	// address popped into pointer 1, since the RHS may itself dereference 'that'
	// via a nested array expression; this ordering is required, not incidental.
	base, err := cg.symbols.Lookup(s.Name)
	if err != nil {
		return UndefinedVariableError{Name: s.Name}
	}
	cg.writer.WritePush(segmentOf(base.Kind), base.Index)
	if err := cg.compileExpression(*s.Index); err != nil {
		return err
	}
	cg.writer.WriteArithmetic("add")
	if err := cg.compileExpression(s.Value); err != nil {
		return err
	}
	cg.writer.WritePop("temp", 0)
	cg.writer.WritePop("pointer", 1)
	cg.writer.WritePush("temp", 0)
	cg.writer.WritePop("that", 0)
	return nil
}

func (cg *CodeGenerator) compileIf(s IfStmt) error {
	n := cg.nextLabel()
	elseLabel, endLabel := cg.label("if_else", n), cg.label("end_if", n)

	if err := cg.compileExpression(s.Cond); err != nil {
		return err
	}
	cg.writer.WriteArithmetic("not")
	cg.writer.WriteIf(elseLabel)
	for _, st := range s.Then {
		if err := cg.compileStatement(st); err != nil {
			return err
		}
	}
	cg.writer.WriteGoto(endLabel)
	cg.writer.WriteLabel(elseLabel)
	for _, st := range s.Else {
		if err := cg.compileStatement(st); err != nil {
			return err
		}
	}
	cg.writer.WriteLabel(endLabel)
	return nil
}

func (cg *CodeGenerator) compileWhile(s WhileStmt) error {
	n := cg.nextLabel()
	whileLabel, endLabel := cg.label("while", n), cg.label("end_while", n)

	cg.writer.WriteLabel(whileLabel)
	if err := cg.compileExpression(s.Cond); err != nil {
		return err
	}
	cg.writer.WriteArithmetic("not")
	cg.writer.WriteIf(endLabel)
	for _, st := range s.Body {
		if err := cg.compileStatement(st); err != nil {
			return err
		}
	}
	cg.writer.WriteGoto(whileLabel)
	cg.writer.WriteLabel(endLabel)
	return nil
}

func (cg *CodeGenerator) compileDo(s DoStmt) error {
	if err := cg.compileCallTerm(s.Call); err != nil {
		return err
	}
	cg.writer.WritePop("temp", 0)
	return nil
}

func (cg *CodeGenerator) compileReturn(s ReturnStmt) error {
	if s.Value != nil {
		if err := cg.compileExpression(*s.Value); err != nil {
			return err
		}
	} else {
		cg.writer.WritePush("constant", 0)
	}
	cg.writer.WriteReturn()
	return nil
}

func (cg *CodeGenerator) nextLabel() uint {
	n := cg.labelN
	cg.labelN++
	return n
}

func (cg *CodeGenerator) label(kind string, n uint) string {
	return fmt.Sprintf("%s.%s$%s_%d", cg.currentClass, cg.currentSub, kind, n)
}

// compileExpression evaluates items strictly left-to-right with no precedence:
// 'code(t0), code(t1), emit(op0), code(t2), emit(op1), ...'.
func (cg *CodeGenerator) compileExpression(e Expression) error {
	if err := cg.compileTerm(e.Terms[0]); err != nil {
		return err
	}
	for i, op := range e.Ops {
		if err := cg.compileTerm(e.Terms[i+1]); err != nil {
			return err
		}
		if err := cg.emitOp(op); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGenerator) emitOp(op string) error {
	switch op {
	case "+":
		cg.writer.WriteArithmetic("add")
	case "-":
		cg.writer.WriteArithmetic("sub")
	case "&":
		cg.writer.WriteArithmetic("and")
	case "|":
		cg.writer.WriteArithmetic("or")
	case "<":
		cg.writer.WriteArithmetic("lt")
	case ">":
		cg.writer.WriteArithmetic("gt")
	case "=":
		cg.writer.WriteArithmetic("eq")
	case "*":
		cg.writer.WriteCall("Math.multiply", 2)
	case "/":
		cg.writer.WriteCall("Math.divide", 2)
	default:
		return fmt.Errorf("jack: unknown expression operator %q", op)
	}
	return nil
}

func (cg *CodeGenerator) compileTerm(t Term) error {
	switch tt := t.(type) {
	case IntConstTerm:
		cg.writer.WritePush("constant", tt.Value)

	case StringConstTerm:
		cg.writer.WritePush("constant", uint16(len([]rune(tt.Value))))
		cg.writer.WriteCall("String.new", 1)
		for _, ch := range tt.Value {
			cg.writer.WritePush("constant", uint16(ch))
			cg.writer.WriteCall("String.appendChar", 2)
		}

	case KeywordConstTerm:
		switch tt.Value {
		case LitTrue:
			cg.writer.WritePush("constant", 1)
			cg.writer.WriteArithmetic("neg")
		case LitFalse, LitNull:
			cg.writer.WritePush("constant", 0)
		case LitThis:
			cg.writer.WritePush("pointer", 0)
		}

	case VarRefTerm:
		entry, err := cg.symbols.Lookup(tt.Name)
		if err != nil {
			return err
		}
		cg.writer.WritePush(segmentOf(entry.Kind), entry.Index)

	case ArrayAtTerm:
		base, err := cg.symbols.Lookup(tt.Name)
		if err != nil {
			return err
		}
		cg.writer.WritePush(segmentOf(base.Kind), base.Index)
		if err := cg.compileExpression(tt.Index); err != nil {
			return err
		}
		cg.writer.WriteArithmetic("add")
		cg.writer.WritePop("pointer", 1)
		cg.writer.WritePush("that", 0)

	case UnaryTerm:
		if err := cg.compileTerm(tt.Term); err != nil {
			return err
		}
		if tt.Op == '-' {
			cg.writer.WriteArithmetic("neg")
		} else {
			cg.writer.WriteArithmetic("not")
		}

	case ParenTerm:
		return cg.compileExpression(tt.Expr)

	case CallTerm:
		return cg.compileCallTerm(tt)

	default:
		return fmt.Errorf("jack: unknown term node %T", t)
	}
	return nil
}

// compileCallTerm implements the three-case subroutine-call lowering: a
// method call on a known object, a call qualified by a class name, or an
// unqualified call on the enclosing object.
func (cg *CodeGenerator) compileCallTerm(c CallTerm) error {
	var target string
	var nArgs uint16

	switch {
	case c.Parent != nil:
		if entry, err := cg.symbols.Lookup(*c.Parent); err == nil {
			// Case 1: parent is a known symbol -- method call on that object.
			cg.writer.WritePush(segmentOf(entry.Kind), entry.Index)
			target = fmt.Sprintf("%s.%s", entry.Type.ClassName, c.Name)
			nArgs = 1
		} else {
			// Case 2: parent is not a symbol -- treated as a class name.
			target = fmt.Sprintf("%s.%s", *c.Parent, c.Name)
			nArgs = 0
		}

	default:
		// Case 3: no parent -- method call on the enclosing object.
		cg.writer.WritePush("pointer", 0)
		target = fmt.Sprintf("%s.%s", cg.currentClass, c.Name)
		nArgs = 1
	}

	for _, arg := range c.Args {
		if err := cg.compileExpression(arg); err != nil {
			return err
		}
	}
	nArgs += uint16(len(c.Args))

	cg.writer.WriteCall(target, nArgs)
	return nil
}
