package lower

import (
	"testing"

	"minic/internal/ast"
	"minic/internal/ir"
)

func ident(name string) *ast.Identifier   { return &ast.Identifier{Name: name} }
func lit(v int64) *ast.IntegerLiteral     { return &ast.IntegerLiteral{Value: v} }
func compound(s ...ast.Stmt) *ast.Compound { return &ast.Compound{Stmts: s} }

func countTerminatorKind(fn *ir.Function, want string) int {
	n := 0
	for _, b := range fn.Blocks {
		switch b.Term.(type) {
		case ir.Jump:
			if want == "jump" {
				n++
			}
		case ir.Branch:
			if want == "branch" {
				n++
			}
		case ir.Ret:
			if want == "ret" {
				n++
			}
		}
	}
	return n
}

// TestLowerConstantReturn checks a function returning a literal constant.
func TestLowerConstantReturn(t *testing.T) {
	fn := &ast.Function{
		Name:       "main",
		ReturnType: ast.Int,
		Body:       compound(&ast.Return{X: lit(42)}),
	}
	irFn, err := Function(fn)
	if err != nil {
		t.Fatalf("Function: %v", err)
	}
	if len(irFn.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(irFn.Blocks))
	}
	for _, b := range irFn.Blocks {
		if !b.Terminated() {
			t.Fatalf("block B%d unterminated", b.ID)
		}
	}
}

// TestLowerEarlyReturnTruncation: a statement after return is dropped.
func TestLowerEarlyReturnTruncation(t *testing.T) {
	fn := &ast.Function{
		Name:       "main",
		ReturnType: ast.Int,
		Body: compound(
			&ast.Return{X: lit(1)},
			&ast.ExprStatement{X: &ast.Call{Callee: "bad"}},
		),
	}
	irFn, err := Function(fn)
	if err != nil {
		t.Fatalf("Function: %v", err)
	}
	entry := irFn.Block(irFn.Entry)
	for _, ins := range entry.Instrs {
		if ins.Op == ir.OpCall {
			t.Fatalf("call to bad() should have been truncated, found %+v", ins)
		}
	}
}

// TestLowerIfWithoutElse checks block shape for IfNoAlt.
func TestLowerIfWithoutElse(t *testing.T) {
	fn := &ast.Function{
		Name:       "f",
		ReturnType: ast.Void,
		Body: compound(
			&ast.If{
				Cond: ident("x"),
				Then: compound(&ast.ExprStatement{X: &ast.Call{Callee: "g"}}),
			},
		),
		Params: nil,
	}
	fn.Body.Stmts = append([]ast.Stmt{&ast.Declaration{Name: "x"}}, fn.Body.Stmts...)
	irFn, err := Function(fn)
	if err != nil {
		t.Fatalf("Function: %v", err)
	}
	// entry, body, end = 3 blocks minimum.
	if len(irFn.Blocks) < 3 {
		t.Fatalf("expected at least 3 blocks, got %d", len(irFn.Blocks))
	}
	if countTerminatorKind(irFn, "branch") != 1 {
		t.Fatalf("expected exactly 1 branch terminator")
	}
}

// TestLowerIfElse checks that each returning arm ends in its own ret and the
// unterminated merge block receives the implicit trailing ret.
func TestLowerIfElse(t *testing.T) {
	fn := &ast.Function{
		Name:       "main",
		ReturnType: ast.Int,
		Body: compound(
			&ast.Declaration{Name: "x"},
			&ast.ExprStatement{X: &ast.Assignment{Target: "x", Rhs: lit(3)}},
			&ast.If{
				Cond: &ast.Binary{Op: ast.Gt, Lhs: ident("x"), Rhs: lit(2)},
				Then: compound(&ast.Return{X: lit(1)}),
				Else: compound(&ast.Return{X: lit(0)}),
			},
		),
	}
	irFn, err := Function(fn)
	if err != nil {
		t.Fatalf("Function: %v", err)
	}
	if countTerminatorKind(irFn, "ret") != 3 {
		t.Fatalf("expected 3 ret terminators (then, else, implicit ret in merge block), got %d", countTerminatorKind(irFn, "ret"))
	}
}

// TestLowerWhile checks head/body/end shape.
func TestLowerWhile(t *testing.T) {
	fn := &ast.Function{
		Name:       "main",
		ReturnType: ast.Int,
		Body: compound(
			&ast.Declaration{Name: "i"},
			&ast.Declaration{Name: "s"},
			&ast.ExprStatement{X: &ast.Assignment{Target: "i", Rhs: lit(0)}},
			&ast.ExprStatement{X: &ast.Assignment{Target: "s", Rhs: lit(0)}},
			&ast.While{
				Cond: &ast.Binary{Op: ast.Lt, Lhs: ident("i"), Rhs: lit(10)},
				Body: compound(
					&ast.ExprStatement{X: &ast.Assignment{Target: "s", Rhs: &ast.Binary{Op: ast.Add, Lhs: ident("s"), Rhs: ident("i")}}},
					&ast.ExprStatement{X: &ast.Assignment{Target: "i", Rhs: &ast.Binary{Op: ast.Add, Lhs: ident("i"), Rhs: lit(1)}}},
				),
			},
			&ast.Return{X: ident("s")},
		),
	}
	irFn, err := Function(fn)
	if err != nil {
		t.Fatalf("Function: %v", err)
	}
	if countTerminatorKind(irFn, "jump") < 2 {
		t.Fatalf("expected at least 2 jumps (entry->head, body->head)")
	}
	if countTerminatorKind(irFn, "branch") != 1 {
		t.Fatalf("expected 1 branch for the loop condition")
	}
}

// TestLowerShortCircuitAnd: RHS call must live in a block reachable only
// through the LHS-true edge, never in the entry block.
func TestLowerShortCircuitAnd(t *testing.T) {
	fn := &ast.Function{
		Name:       "main",
		ReturnType: ast.Int,
		Body: compound(
			&ast.If{
				Cond: &ast.Binary{Op: ast.And, Lhs: lit(0), Rhs: &ast.Call{Callee: "bad"}},
				Then: compound(&ast.Return{X: lit(1)}),
			},
			&ast.Return{X: lit(7)},
		),
	}
	irFn, err := Function(fn)
	if err != nil {
		t.Fatalf("Function: %v", err)
	}
	entry := irFn.Block(irFn.Entry)
	for _, ins := range entry.Instrs {
		if ins.Op == ir.OpCall {
			t.Fatalf("call to bad() must not be emitted into the entry block")
		}
	}
	if _, ok := entry.Term.(ir.Branch); !ok {
		t.Fatalf("entry block should end in a branch on the short-circuit LHS")
	}
}

func TestLowerUndefinedSymbol(t *testing.T) {
	fn := &ast.Function{
		Name:       "main",
		ReturnType: ast.Int,
		Body:       compound(&ast.Return{X: ident("missing")}),
	}
	if _, err := Function(fn); err == nil {
		t.Fatalf("expected UndefinedSymbol error")
	}
}

func TestLowerRedeclared(t *testing.T) {
	fn := &ast.Function{
		Name:       "main",
		ReturnType: ast.Int,
		Body: compound(
			&ast.Declaration{Name: "x"},
			&ast.Declaration{Name: "x"},
			&ast.Return{X: lit(0)},
		),
	}
	if _, err := Function(fn); err == nil {
		t.Fatalf("expected Redeclared error")
	}
}

func TestLowerParamSlotsMatchPositionalIndex(t *testing.T) {
	fn := &ast.Function{
		Name:       "add",
		ReturnType: ast.Int,
		Params:     []ast.Param{{Name: "a"}, {Name: "b"}},
		Body:       compound(&ast.Return{X: &ast.Binary{Op: ast.Add, Lhs: ident("a"), Rhs: ident("b")}}),
	}
	irFn, err := Function(fn)
	if err != nil {
		t.Fatalf("Function: %v", err)
	}
	for i, name := range irFn.Params {
		slot, ok := irFn.Symbols.Lookup(name)
		if !ok || int(slot) != i {
			t.Fatalf("param %q: expected slot %d, got %d (ok=%v)", name, i, slot, ok)
		}
	}
}
