package emit

import (
	"fmt"
	"strings"

	"minic/internal/ir"
)

// paramRegs holds the Windows x64 integer argument registers, in order.
var paramRegs = []string{"rcx", "rdx", "r8", "r9"}

// emitPrologue pushes the callee-saved registers, reserves the frame, and
// materializes each parameter from its incoming location into its home
// slot.
func emitPrologue(sb *strings.Builder, fn *ir.Function, l *layout) {
	for _, r := range calleeSaved {
		fmt.Fprintf(sb, "    push %s\n", r)
	}
	fmt.Fprintf(sb, "    sub rsp, %d\n", l.frameSize)
	sb.WriteString("    mov rbp, rsp\n")

	for i := range fn.Params {
		slot := l.slot(ir.SlotID(i))
		if i < len(paramRegs) {
			fmt.Fprintf(sb, "    mov %s, %s\n", cell(slot), paramRegs[i])
			continue
		}
		// Stack-passed parameters sit above our saved registers, the
		// reserved frame, the return address, and the caller's 32-byte
		// shadow space, in left-to-right order.
		srcOffset := len(calleeSaved)*8 + l.frameSize + 8 + 32 + (i-len(paramRegs))*8
		fmt.Fprintf(sb, "    mov r10, qword ptr [rsp+%d]\n", srcOffset)
		fmt.Fprintf(sb, "    mov %s, r10\n", cell(slot))
	}
}

// emitEpilogue restores rsp, pops the callee-saved registers in reverse,
// and returns.
func emitEpilogue(sb *strings.Builder, l *layout) {
	fmt.Fprintf(sb, "    add rsp, %d\n", l.frameSize)
	for i := len(calleeSaved) - 1; i >= 0; i-- {
		fmt.Fprintf(sb, "    pop %s\n", calleeSaved[i])
	}
	sb.WriteString("    ret\n")
}
