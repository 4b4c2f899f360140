package jack_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/n2t-toolchain/n2t/pkg/jack"
)

func newParser(t *testing.T, src string) *jack.Parser {
	t.Helper()
	p, err := jack.NewParser(strings.NewReader(src))
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return p
}

func TestCompileClassMinimal(t *testing.T) {
	p := newParser(t, `
class Main {
    static int count;
    field boolean flag;

    function void main() {
        var int i;
        let i = 0;
        return;
    }
}
`)
	class, err := p.CompileClass()
	if err != nil {
		t.Fatalf("CompileClass: %v", err)
	}
	if class.Name != "Main" {
		t.Fatalf("got class name %q, want Main", class.Name)
	}
	if len(class.Vars) != 2 {
		t.Fatalf("expected 2 class-level var decls, got %d", len(class.Vars))
	}
	if len(class.Subroutines) != 1 {
		t.Fatalf("expected 1 subroutine, got %d", len(class.Subroutines))
	}
	sub := class.Subroutines[0]
	if sub.Kind != jack.SubroutineFunction || sub.Name != "main" {
		t.Fatalf("unexpected subroutine: %+v", sub)
	}
	if len(sub.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(sub.Statements))
	}
}

func TestCompileLetWithArrayIndex(t *testing.T) {
	p := newParser(t, "let arr[i] = 5;")
	stmt, err := p.CompileLet()
	if err != nil {
		t.Fatalf("CompileLet: %v", err)
	}
	let, ok := stmt.(jack.LetStmt)
	if !ok {
		t.Fatalf("expected a LetStmt, got %T", stmt)
	}
	if let.Name != "arr" || let.Index == nil {
		t.Fatalf("expected an indexed assignment to 'arr', got %+v", let)
	}
}

func TestCompileExpressionIsFlatLeftToRight(t *testing.T) {
	p := newParser(t, "1 + 2 * 3")
	expr, err := p.CompileExpression()
	if err != nil {
		t.Fatalf("CompileExpression: %v", err)
	}
	if len(expr.Terms) != 3 || len(expr.Ops) != 2 {
		t.Fatalf("expected 3 terms and 2 ops with no precedence folding, got %+v", expr)
	}
	if expr.Ops[0] != "+" || expr.Ops[1] != "*" {
		t.Fatalf("expected ops in source order, got %v", expr.Ops)
	}
}

func TestCompileClassIncompleteAtEOF(t *testing.T) {
	p := newParser(t, "class Main {")
	_, err := p.CompileClass()
	var incomplete jack.IncompleteCommandError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteCommandError, got %v", err)
	}
}

func TestCompileProductionsReportIncompleteOnPartialStream(t *testing.T) {
	t.Run("subroutine dec", func(t *testing.T) {
		p := newParser(t, "function void foo(")
		_, err := p.CompileSubroutineDec()
		var incomplete jack.IncompleteCommandError
		if !errors.As(err, &incomplete) {
			t.Fatalf("expected IncompleteCommandError, got %v", err)
		}
	})

	t.Run("var dec list", func(t *testing.T) {
		p := newParser(t, "var int a,")
		_, err := p.CompileVarDecList()
		var incomplete jack.IncompleteCommandError
		if !errors.As(err, &incomplete) {
			t.Fatalf("expected IncompleteCommandError, got %v", err)
		}
	})
}
