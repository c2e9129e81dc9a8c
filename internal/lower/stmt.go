package lower

import (
	"minic/internal/ast"
	"minic/internal/diag"
	"minic/internal/ir"
)

// stmt lowers s, emitting instructions and blocks into the current
// function.
func (l *lowerer) stmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Declaration:
		if _, err := l.fn.Symbols.Declare(n.Name); err != nil {
			return wrapFn(err, l.fnName, n.Pos())
		}
		return nil

	case *ast.Compound:
		for _, inner := range n.Stmts {
			// Early-return truncation: once the current block has a
			// terminator, every subsequent sibling statement is
			// unreachable and is skipped without error.
			if l.b.Terminated() {
				break
			}
			if err := l.stmt(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.ExprStatement:
		_, err := l.expr(n.X)
		return err

	case *ast.If:
		return l.ifStmt(n)

	case *ast.While:
		return l.whileStmt(n)

	case *ast.Return:
		return l.returnStmt(n)

	default:
		return diag.At(diag.UnexpectedEvent, s.Pos(), "unsupported statement node %T", s).In(l.fnName)
	}
}

func (l *lowerer) ifStmt(n *ast.If) error {
	vc, err := l.expr(n.Cond)
	if err != nil {
		return err
	}

	if n.Else == nil {
		bbody := l.b.NewBlock()
		bend := l.b.NewBlock()
		l.b.Terminate(ir.Branch{Cond: vc, Then: bbody, Else: bend})

		l.b.SetCurrent(bbody)
		if err := l.stmt(n.Then); err != nil {
			return err
		}
		if !l.b.Terminated() {
			l.b.Terminate(ir.Jump{Target: bend})
		}

		l.b.SetCurrent(bend)
		return nil
	}

	bthen := l.b.NewBlock()
	belse := l.b.NewBlock()
	bend := l.b.NewBlock()
	l.b.Terminate(ir.Branch{Cond: vc, Then: bthen, Else: belse})

	l.b.SetCurrent(bthen)
	if err := l.stmt(n.Then); err != nil {
		return err
	}
	if !l.b.Terminated() {
		l.b.Terminate(ir.Jump{Target: bend})
	}

	l.b.SetCurrent(belse)
	if err := l.stmt(n.Else); err != nil {
		return err
	}
	if !l.b.Terminated() {
		l.b.Terminate(ir.Jump{Target: bend})
	}

	l.b.SetCurrent(bend)
	return nil
}

func (l *lowerer) whileStmt(n *ast.While) error {
	bhead := l.b.NewBlock()
	bbody := l.b.NewBlock()
	bend := l.b.NewBlock()

	l.b.Terminate(ir.Jump{Target: bhead})

	l.b.SetCurrent(bhead)
	vc, err := l.expr(n.Cond)
	if err != nil {
		return err
	}
	l.b.Terminate(ir.Branch{Cond: vc, Then: bbody, Else: bend})

	l.b.SetCurrent(bbody)
	if err := l.stmt(n.Body); err != nil {
		return err
	}
	if !l.b.Terminated() {
		l.b.Terminate(ir.Jump{Target: bhead})
	}

	l.b.SetCurrent(bend)
	return nil
}

func (l *lowerer) returnStmt(n *ast.Return) error {
	if n.X == nil {
		l.b.Terminate(ir.Ret{})
		return nil
	}
	v, err := l.expr(n.X)
	if err != nil {
		return err
	}
	l.b.Terminate(ir.Ret{Value: v, HasValue: true})
	return nil
}
