package emit

import (
	"fmt"
	"strings"

	"minic/internal/ir"
)

// emitTerminator emits the single control-flow instruction ending a block.
// The epilogue is inlined at every ret site rather than shared, since each
// ret needs its own value-materialization step first.
func emitTerminator(sb *strings.Builder, l *layout, term ir.Terminator) {
	switch t := term.(type) {
	case ir.Jump:
		fmt.Fprintf(sb, "    jmp B%d\n", t.Target)

	case ir.Branch:
		fmt.Fprintf(sb, "    mov r10, %s\n", cell(l.home(t.Cond)))
		sb.WriteString("    cmp r10, 0\n")
		fmt.Fprintf(sb, "    je B%d\n", t.Else)
		fmt.Fprintf(sb, "    jmp B%d\n", t.Then)

	case ir.Ret:
		if t.HasValue {
			fmt.Fprintf(sb, "    mov rax, %s\n", cell(l.home(t.Value)))
		}
		emitEpilogue(sb, l)

	default:
		panic("emit: block has no terminator")
	}
}
