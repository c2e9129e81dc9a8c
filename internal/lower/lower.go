// Package lower walks a function's AST and emits IR instructions into basic
// blocks, linking blocks with terminators. It implements the
// control-flow-translation patterns for if, if/else, while, and
// short-circuit && / ||, plus early-return truncation.
package lower

import (
	"fmt"

	"minic/internal/ast"
	"minic/internal/diag"
	"minic/internal/ir"
)

// Module lowers every function in tu into a fresh ir.Module. Lowering stops
// at the first error — the compiler aborts on a single diagnostic rather
// than producing partial output.
func Module(tu *ast.TranslationUnit) (*ir.Module, error) {
	mod := &ir.Module{}
	for _, fn := range tu.Functions {
		irFn, err := Function(fn)
		if err != nil {
			return nil, err
		}
		mod.Functions = append(mod.Functions, irFn)
	}
	return mod, nil
}

// Function lowers a single function definition to its CFG.
func Function(fn *ast.Function) (*ir.Function, error) {
	symtab := ir.NewSymbolTable()
	paramNames := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		if _, err := symtab.Declare(p.Name); err != nil {
			return nil, wrapFn(err, fn.Name, fn.P)
		}
		paramNames[i] = p.Name
	}

	irFn := &ir.Function{
		Name:       fn.Name,
		ReturnType: fn.ReturnType,
		Params:     paramNames,
		Symbols:    symtab,
	}
	b := ir.NewBuilder(irFn)
	entry := b.NewBlock()
	irFn.Entry = entry
	b.SetCurrent(entry)

	l := &lowerer{b: b, fn: irFn, fnName: fn.Name}
	if err := l.stmt(fn.Body); err != nil {
		return nil, err
	}

	if !b.Terminated() {
		if irFn.ReturnType == ast.Int {
			zero := b.FreshVReg()
			b.Emit(ir.Instr{Op: ir.OpMovI, Dst: zero, Imm: 0})
			b.Terminate(ir.Ret{Value: zero, HasValue: true})
		} else {
			b.Terminate(ir.Ret{})
		}
	}
	return irFn, nil
}

type lowerer struct {
	b      *ir.Builder
	fn     *ir.Function
	fnName string
	scTemp int
}

func wrapFn(err error, fnName string, pos diag.Position) error {
	if d, ok := err.(diag.Diagnostic); ok {
		if d.Pos == (diag.Position{}) {
			d.Pos = pos
		}
		return d.In(fnName)
	}
	return err
}

// freshTempSlot allocates a synthetic stack slot for modeling the join of a
// short-circuit expression: the result is a shared slot spilled through a
// temporary stack cell. The name is not a valid C identifier so it can
// never collide with a declared variable.
func (l *lowerer) freshTempSlot() ir.SlotID {
	name := fmt.Sprintf("%%sc%d", l.scTemp)
	l.scTemp++
	slot, err := l.fn.Symbols.Declare(name)
	if err != nil {
		panic("lower: synthetic temp name collided: " + err.Error())
	}
	return slot
}
