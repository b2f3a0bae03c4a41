package parser

import (
	"testing"

	"github.com/technetium-lang/technetium/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse("test.tc", src)
	if err != nil {
		t.Fatalf("parse error: %s", err.Error())
	}
	return prog
}

func TestParseFuncDecl(t *testing.T) {
	prog := mustParse(t, `func add(a, b) { return a + b }`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.FuncDeclStatement)
	if !ok {
		t.Fatalf("expected *ast.FuncDeclStatement, got %T", prog.Statements[0])
	}
	if decl.Name != "add" {
		t.Errorf("name = %q, want add", decl.Name)
	}
	if len(decl.Fn.ParamNames) != 2 || decl.Fn.ParamNames[0] != "a" || decl.Fn.ParamNames[1] != "b" {
		t.Errorf("params = %v, want [a b]", decl.Fn.ParamNames)
	}
}

// TestCompoundAssignDesugarsToBinaryExpr exercises spec S1's `v+=1`: it must
// desugar to an AssignStatement whose Value is a BinaryExpr "+" of the target
// and the right-hand side.
func TestCompoundAssignDesugarsToBinaryExpr(t *testing.T) {
	cases := map[string]string{
		"v+=1": "+",
		"v-=1": "-",
		"v*=2": "*",
		"v/=2": "/",
		"v%=2": "%",
	}
	for src, op := range cases {
		prog := mustParse(t, src)
		if len(prog.Statements) != 1 {
			t.Fatalf("%s: expected 1 statement, got %d", src, len(prog.Statements))
		}
		assign, ok := prog.Statements[0].(*ast.AssignStatement)
		if !ok {
			t.Fatalf("%s: expected *ast.AssignStatement, got %T", src, prog.Statements[0])
		}
		target, ok := assign.Target.(*ast.Identifier)
		if !ok || target.Name != "v" {
			t.Fatalf("%s: target = %#v, want identifier v", src, assign.Target)
		}
		bin, ok := assign.Value.(*ast.BinaryExpr)
		if !ok {
			t.Fatalf("%s: value = %T, want *ast.BinaryExpr", src, assign.Value)
		}
		if bin.Op != op {
			t.Errorf("%s: op = %q, want %q", src, bin.Op, op)
		}
		left, ok := bin.Left.(*ast.Identifier)
		if !ok || left.Name != "v" {
			t.Errorf("%s: left operand = %#v, want identifier v", src, bin.Left)
		}
	}
}

func TestParseSliceExpression(t *testing.T) {
	prog := mustParse(t, `x[::2]`)
	stmt, ok := prog.Statements[0].(*ast.ExprStatement)
	if !ok {
		t.Fatalf("expected *ast.ExprStatement, got %T", prog.Statements[0])
	}
	sl, ok := stmt.Expr.(*ast.SliceExpr)
	if !ok {
		t.Fatalf("expected *ast.SliceExpr, got %T", stmt.Expr)
	}
	if sl.Start != nil || sl.Stop != nil {
		t.Error("expected both start and stop to be absent for [::2]")
	}
	if sl.Step == nil {
		t.Error("expected a step expression for [::2]")
	}
}

func TestParseSliceIndexAssignment(t *testing.T) {
	prog := mustParse(t, `list[::2][1]=100`)
	assign, ok := prog.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("expected *ast.AssignStatement, got %T", prog.Statements[0])
	}
	idx, ok := assign.Target.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected *ast.IndexExpr target, got %T", assign.Target)
	}
	if _, ok := idx.Object.(*ast.SliceExpr); !ok {
		t.Errorf("expected the index target's object to be a slice, got %T", idx.Object)
	}
}

func TestParseSetLiteral(t *testing.T) {
	prog := mustParse(t, `{1, 2, 3}`)
	stmt := prog.Statements[0].(*ast.ExprStatement)
	set, ok := stmt.Expr.(*ast.SetLiteral)
	if !ok {
		t.Fatalf("expected *ast.SetLiteral, got %T", stmt.Expr)
	}
	if len(set.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(set.Elements))
	}
}

func TestParseRecursiveCall(t *testing.T) {
	prog := mustParse(t, `func fib(n){ if n <= 2 { return 1 }; return fib(n-1) + fib(n-2) }`)
	decl := prog.Statements[0].(*ast.FuncDeclStatement)
	ret, ok := decl.Fn.Body[1].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected the second statement to be a return, got %T", decl.Fn.Body[1])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected a BinaryExpr return value, got %T", ret.Value)
	}
	if _, ok := bin.Left.(*ast.CallExpr); !ok {
		t.Errorf("expected the left operand to be a recursive call, got %T", bin.Left)
	}
	if _, ok := bin.Right.(*ast.CallExpr); !ok {
		t.Errorf("expected the right operand to be a recursive call, got %T", bin.Right)
	}
}

func TestParseFormatStringExpression(t *testing.T) {
	prog := mustParse(t, `~"I can say x isn't {x + 2}"`)
	stmt := prog.Statements[0].(*ast.ExprStatement)
	fs, ok := stmt.Expr.(*ast.FormatStringExpr)
	if !ok {
		t.Fatalf("expected *ast.FormatStringExpr, got %T", stmt.Expr)
	}
	if len(fs.Subs) != 1 {
		t.Fatalf("expected 1 substitution, got %d", len(fs.Subs))
	}
	if len(fs.Literals) != 2 {
		t.Fatalf("expected 2 literal segments (before/after), got %d", len(fs.Literals))
	}
	if fs.Literals[0] != "I can say x isn't " {
		t.Errorf("leading literal = %q", fs.Literals[0])
	}
	if fs.Literals[1] != "" {
		t.Errorf("trailing literal = %q, want empty", fs.Literals[1])
	}
}
