package ir

import (
	"fmt"
	"strings"
)

// Dump renders m as a linear textual listing of every function's blocks,
// instructions, and terminators. It backs --dump-ir and is a debugging
// aid only; nothing in the pipeline parses it back.
func (m *Module) Dump() string {
	var sb strings.Builder
	for _, fn := range m.Functions {
		fn.dump(&sb)
	}
	return sb.String()
}

func (fn *Function) dump(sb *strings.Builder) {
	fmt.Fprintf(sb, "function %s %s(%s) entry=B%d\n",
		fn.ReturnType, fn.Name, strings.Join(fn.Params, ", "), fn.Entry)
	for _, b := range fn.Blocks {
		fmt.Fprintf(sb, "B%d:\n", b.ID)
		for _, ins := range b.Instrs {
			fmt.Fprintf(sb, "  %s\n", dumpInstr(ins))
		}
		fmt.Fprintf(sb, "  %s\n", dumpTerm(b.Term))
	}
}

func dumpInstr(ins Instr) string {
	switch ins.Op {
	case OpMov:
		return fmt.Sprintf("mov v%d, v%d", ins.Dst, ins.Src1)
	case OpMovI:
		return fmt.Sprintf("movi v%d, %d", ins.Dst, ins.Imm)
	case OpUnop:
		return fmt.Sprintf("unop v%d, %s, v%d", ins.Dst, ins.UnOp, ins.Src1)
	case OpBinop:
		return fmt.Sprintf("binop v%d, %s, v%d, v%d", ins.Dst, ins.BinOp, ins.Src1, ins.Src2)
	case OpCall:
		args := make([]string, len(ins.Args))
		for i, a := range ins.Args {
			args[i] = fmt.Sprintf("v%d", a)
		}
		return fmt.Sprintf("call v%d, %s, [%s]", ins.Dst, ins.Callee, strings.Join(args, ", "))
	case OpLoad:
		return fmt.Sprintf("load v%d, slot%d", ins.Dst, ins.Slot)
	case OpStore:
		return fmt.Sprintf("store slot%d, v%d", ins.Slot, ins.Src1)
	default:
		return "<unknown instr>"
	}
}

func dumpTerm(t Terminator) string {
	switch n := t.(type) {
	case nil:
		return "<unterminated>"
	case Jump:
		return fmt.Sprintf("jump B%d", n.Target)
	case Branch:
		return fmt.Sprintf("branch v%d, B%d, B%d", n.Cond, n.Then, n.Else)
	case Ret:
		if n.HasValue {
			return fmt.Sprintf("ret v%d", n.Value)
		}
		return "ret"
	default:
		return "<unknown terminator>"
	}
}
