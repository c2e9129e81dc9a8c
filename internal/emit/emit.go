// Package emit lowers a CFG-based ir.Module into Windows x64 text assembly
// for ml64, in the Microsoft calling convention.
//
// Every variable and temporary lives in a stack slot; scratch registers
// r10/r11/rax/rdx are only ever live within a single instruction's
// emission. There is no register allocator.
package emit

import (
	"fmt"
	"strings"

	"minic/internal/ir"
)

// calleeSaved lists the registers the prologue pushes and the epilogue
// restores. rbp leads the list: it is callee-saved in the Windows x64
// convention, and this compiler repurposes it as the frame pointer for the
// duration of the function, so the caller's rbp must be pushed before it
// is overwritten and popped back after the frame is torn down.
var calleeSaved = []string{"rbp", "rbx", "rsi", "rdi", "r12", "r13", "r14", "r15"}

// minFrameSize is a conservative per-function scratch region reserved even
// for functions with few locals, leaving headroom for spills.
const minFrameSize = 512

// Module renders mod as a single .asm text file: a .code section containing
// every function as a proc/endp block, followed by end.
func Module(mod *ir.Module) (string, error) {
	var sb strings.Builder
	sb.WriteString(".code\n")
	for _, fn := range mod.Functions {
		if err := emitFunction(&sb, fn); err != nil {
			return "", err
		}
		sb.WriteString("\n")
	}
	sb.WriteString("end\n")
	return sb.String(), nil
}

func emitFunction(sb *strings.Builder, fn *ir.Function) error {
	layout := computeLayout(fn)

	fmt.Fprintf(sb, "%s proc\n", fn.Name)
	emitPrologue(sb, fn, layout)

	for _, id := range linearize(fn) {
		blk := fn.Block(id)
		fmt.Fprintf(sb, "B%d:\n", blk.ID)
		for _, ins := range blk.Instrs {
			if err := emitInstr(sb, layout, ins); err != nil {
				return err
			}
		}
		emitTerminator(sb, layout, blk.Term)
	}

	fmt.Fprintf(sb, "%s endp\n", fn.Name)
	return nil
}

// linearize orders blocks with the entry block first, followed by the rest
// in creation order.
func linearize(fn *ir.Function) []ir.BlockID {
	order := make([]ir.BlockID, 0, len(fn.Blocks))
	order = append(order, fn.Entry)
	for _, b := range fn.Blocks {
		if b.ID != fn.Entry {
			order = append(order, b.ID)
		}
	}
	return order
}

func cell(offset int) string {
	return fmt.Sprintf("qword ptr [rbp+%d]", offset)
}
