package lower

import (
	"minic/internal/ast"
	"minic/internal/diag"
	"minic/internal/ir"
)

// expr lowers e to a virtual register holding its value.
func (l *lowerer) expr(e ast.Expr) (ir.VReg, error) {
	switch n := e.(type) {
	case *ast.Identifier:
		slot, ok := l.fn.Symbols.Lookup(n.Name)
		if !ok {
			return 0, diag.At(diag.UndefinedSymbol, n.Pos(), "undefined identifier %q", n.Name).In(l.fnName)
		}
		v := l.b.FreshVReg()
		l.b.Emit(ir.Instr{Op: ir.OpLoad, Dst: v, Slot: slot})
		return v, nil

	case *ast.IntegerLiteral:
		v := l.b.FreshVReg()
		l.b.Emit(ir.Instr{Op: ir.OpMovI, Dst: v, Imm: n.Value})
		return v, nil

	case *ast.Assignment:
		rhs, err := l.expr(n.Rhs)
		if err != nil {
			return 0, err
		}
		slot, ok := l.fn.Symbols.Lookup(n.Target)
		if !ok {
			return 0, diag.At(diag.UndefinedSymbol, n.Pos(), "undefined identifier %q", n.Target).In(l.fnName)
		}
		l.b.Emit(ir.Instr{Op: ir.OpStore, Slot: slot, Src1: rhs})
		return rhs, nil

	case *ast.Unary:
		operand, err := l.expr(n.Operand)
		if err != nil {
			return 0, err
		}
		dst := l.b.FreshVReg()
		l.b.Emit(ir.Instr{Op: ir.OpUnop, Dst: dst, UnOp: n.Op, Src1: operand})
		return dst, nil

	case *ast.Binary:
		if n.Op == ast.And {
			return l.shortCircuit(true, n.Lhs, n.Rhs)
		}
		if n.Op == ast.Or {
			return l.shortCircuit(false, n.Lhs, n.Rhs)
		}
		lhs, err := l.expr(n.Lhs)
		if err != nil {
			return 0, err
		}
		rhs, err := l.expr(n.Rhs)
		if err != nil {
			return 0, err
		}
		dst := l.b.FreshVReg()
		l.b.Emit(ir.Instr{Op: ir.OpBinop, Dst: dst, BinOp: n.Op, Src1: lhs, Src2: rhs})
		return dst, nil

	case *ast.Call:
		args := make([]ir.VReg, len(n.Args))
		for i, a := range n.Args {
			v, err := l.expr(a)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		dst := l.b.FreshVReg()
		l.b.Emit(ir.Instr{Op: ir.OpCall, Dst: dst, Callee: n.Callee, Args: args})
		return dst, nil

	default:
		return 0, diag.At(diag.UnexpectedEvent, e.Pos(), "unsupported expression node %T", e).In(l.fnName)
	}
}

// shortCircuit lowers && (isAnd true) or || (isAnd false) as explicit
// control flow across Brhs/Bfalse/Btrue/Bmerge blocks, with || using the
// symmetric swapped edges on the first branch.
func (l *lowerer) shortCircuit(isAnd bool, lhs, rhs ast.Expr) (ir.VReg, error) {
	slot := l.freshTempSlot()

	va, err := l.expr(lhs)
	if err != nil {
		return 0, err
	}

	brhs := l.b.NewBlock()
	bfalse := l.b.NewBlock()
	btrue := l.b.NewBlock()
	bmerge := l.b.NewBlock()

	if isAnd {
		l.b.Terminate(ir.Branch{Cond: va, Then: brhs, Else: bfalse})
	} else {
		l.b.Terminate(ir.Branch{Cond: va, Then: btrue, Else: brhs})
	}

	l.b.SetCurrent(brhs)
	vb, err := l.expr(rhs)
	if err != nil {
		return 0, err
	}
	l.b.Terminate(ir.Branch{Cond: vb, Then: btrue, Else: bfalse})

	l.b.SetCurrent(btrue)
	one := l.b.FreshVReg()
	l.b.Emit(ir.Instr{Op: ir.OpMovI, Dst: one, Imm: 1})
	l.b.Emit(ir.Instr{Op: ir.OpStore, Slot: slot, Src1: one})
	l.b.Terminate(ir.Jump{Target: bmerge})

	l.b.SetCurrent(bfalse)
	zero := l.b.FreshVReg()
	l.b.Emit(ir.Instr{Op: ir.OpMovI, Dst: zero, Imm: 0})
	l.b.Emit(ir.Instr{Op: ir.OpStore, Slot: slot, Src1: zero})
	l.b.Terminate(ir.Jump{Target: bmerge})

	l.b.SetCurrent(bmerge)
	vres := l.b.FreshVReg()
	l.b.Emit(ir.Instr{Op: ir.OpLoad, Dst: vres, Slot: slot})
	return vres, nil
}
