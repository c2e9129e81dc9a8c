// Package compile wires the pipeline stages together: source text →
// events → AST → CFG → assembly, a strict one-way pipeline with no
// feedback edges. It is the one package cmd/minic calls into.
package compile

import (
	"minic/internal/ast"
	"minic/internal/emit"
	"minic/internal/events"
	"minic/internal/ir"
	"minic/internal/lower"
	"minic/internal/source"
)

// Result carries every intermediate artifact the CLI's --emit-events /
// --dump-ir / --debug flags surface.
type Result struct {
	Events events.Stream
	AST    *ast.TranslationUnit
	Module *ir.Module
	Asm    string
}

// Source compiles raw C-subset source text to Windows x64 assembly.
func Source(src string) (*Result, error) {
	toks, lexErrs := source.Lex(src)
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	stream, err := source.Produce(toks)
	if err != nil {
		return nil, err
	}
	return Events(stream)
}

// Events compiles an already-produced event stream. Exposed separately so
// --emit-events round-trips (an externally produced JSON event stream can
// be fed back in without re-lexing/re-parsing).
func Events(stream events.Stream) (*Result, error) {
	tu, err := ast.Build(stream)
	if err != nil {
		return nil, err
	}
	mod, err := lower.Module(tu)
	if err != nil {
		return nil, err
	}
	asm, err := emit.Module(mod)
	if err != nil {
		return nil, err
	}
	return &Result{Events: stream, AST: tu, Module: mod, Asm: asm}, nil
}
