package ast

import (
	"strconv"
	"strings"

	"minic/internal/diag"
	"minic/internal/events"
)

// compoundSentinel marks the statement stack position an
// EnterCompoundStatement pushed, so ExitCompoundStatement knows where to
// stop popping.
type compoundSentinel struct{}

func (compoundSentinel) Pos() diag.Position { return diag.Position{} }
func (compoundSentinel) stmtNode()          {}

// Build folds a postorder event stream into a TranslationUnit by reducing
// each event against two working stacks (an expression stack and a
// statement stack) plus the pending argument count left by the most recent
// ExitArgumentExpressionList.
func Build(stream events.Stream) (*TranslationUnit, error) {
	if d := stream.Validate(); d != nil {
		return nil, *d
	}
	b := &builder{}
	for _, e := range stream {
		if err := b.reduce(e); err != nil {
			return nil, err
		}
	}
	return &TranslationUnit{Functions: b.functions}, nil
}

type builder struct {
	exprStack []Expr
	stmtStack []Stmt
	functions []*Function

	// pendingArgCount is set by ExitArgumentExpressionList and consumed by
	// the very next ExitPostfixExpression; nil means "this call has zero
	// arguments" (the grammar never emits an argument-expression-list for
	// an empty list, so ExitPostfixExpression must default to zero).
	pendingArgCount *int
}

func (b *builder) pushExpr(e Expr)  { b.exprStack = append(b.exprStack, e) }
func (b *builder) pushStmt(s Stmt)  { b.stmtStack = append(b.stmtStack, s) }

func (b *builder) popExpr(e events.Event) (Expr, error) {
	if len(b.exprStack) == 0 {
		return nil, diag.At(diag.StackUnderflow, e.Pos, "expression stack underflow at %s", e.Tag)
	}
	top := b.exprStack[len(b.exprStack)-1]
	b.exprStack = b.exprStack[:len(b.exprStack)-1]
	return top, nil
}

func (b *builder) popStmt(e events.Event) (Stmt, error) {
	if len(b.stmtStack) == 0 {
		return nil, diag.At(diag.StackUnderflow, e.Pos, "statement stack underflow at %s", e.Tag)
	}
	top := b.stmtStack[len(b.stmtStack)-1]
	b.stmtStack = b.stmtStack[:len(b.stmtStack)-1]
	return top, nil
}

func (b *builder) reduce(e events.Event) error {
	switch e.Tag {
	case events.ExitPrimaryExpression:
		return b.reducePrimary(e)
	case events.ExitUnaryExpression:
		return b.reduceUnary(e)
	case events.ExitMultiplicativeExpression, events.ExitAdditiveExpression,
		events.ExitRelationalExpression, events.ExitEqualityExpression,
		events.ExitLogicalAndExpression, events.ExitLogicalOrExpression:
		return b.reduceBinary(e)
	case events.ExitAssignmentExpression:
		return b.reduceAssignment(e)
	case events.ExitArgumentExpressionList:
		return b.reduceArgumentList(e)
	case events.ExitPostfixExpression:
		return b.reducePostfix(e)
	case events.ExitDeclaration:
		b.pushStmt(&Declaration{base{e.Pos}, e.Text})
		return nil
	case events.ExitExpressionStatement:
		x, err := b.popExpr(e)
		if err != nil {
			return err
		}
		b.pushStmt(&ExprStatement{base{e.Pos}, x})
		return nil
	case events.ExitSelectionStatement:
		return b.reduceSelection(e)
	case events.ExitIterationStatement:
		return b.reduceIteration(e)
	case events.ExitJumpStatement:
		return b.reduceJump(e)
	case events.EnterCompoundStatement:
		b.pushStmt(compoundSentinel{})
		return nil
	case events.ExitCompoundStatement:
		return b.reduceCompound(e)
	case events.EnterFunctionDefinition:
		return nil
	case events.ExitFunctionDefinition:
		return b.reduceFunction(e)
	default:
		return diag.At(diag.UnknownEvent, e.Pos, "unhandled event tag %q", e.Tag)
	}
}

func (b *builder) reducePrimary(e events.Event) error {
	text := e.Text
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		b.pushExpr(&IntegerLiteral{base{e.Pos}, n})
		return nil
	}
	if text == "" {
		return diag.At(diag.UnexpectedEvent, e.Pos, "empty primary expression payload")
	}
	b.pushExpr(&Identifier{base{e.Pos}, text})
	return nil
}

func (b *builder) reduceUnary(e events.Event) error {
	operand, err := b.popExpr(e)
	if err != nil {
		return err
	}
	var op UnaryOp
	switch e.Text {
	case "!":
		op = Not
	case "-":
		op = Neg
	default:
		return diag.At(diag.UnexpectedEvent, e.Pos, "unknown unary operator %q", e.Text)
	}
	b.pushExpr(&Unary{base{e.Pos}, op, operand})
	return nil
}

func (b *builder) reduceBinary(e events.Event) error {
	rhs, err := b.popExpr(e)
	if err != nil {
		return err
	}
	lhs, err := b.popExpr(e)
	if err != nil {
		return err
	}
	op := BinaryOp(e.Text)
	switch op {
	case Mul, Div, Add, Sub, Lt, Gt, Le, Ge, Eq, Ne, And, Or:
	default:
		return diag.At(diag.UnexpectedEvent, e.Pos, "unknown binary operator %q", e.Text)
	}
	b.pushExpr(&Binary{base{e.Pos}, op, lhs, rhs})
	return nil
}

func (b *builder) reduceAssignment(e events.Event) error {
	rhs, err := b.popExpr(e)
	if err != nil {
		return err
	}
	if e.Text == "" {
		return diag.At(diag.UnexpectedEvent, e.Pos, "assignment missing target identifier")
	}
	b.pushExpr(&Assignment{base{e.Pos}, e.Text, rhs})
	return nil
}

func (b *builder) reduceArgumentList(e events.Event) error {
	n, err := strconv.Atoi(strings.TrimSpace(e.Text))
	if err != nil {
		return diag.At(diag.UnexpectedEvent, e.Pos, "malformed argument count %q", e.Text)
	}
	b.pendingArgCount = &n
	return nil
}

func (b *builder) reducePostfix(e events.Event) error {
	argCount := 0
	if b.pendingArgCount != nil {
		argCount = *b.pendingArgCount
		b.pendingArgCount = nil
	}
	if len(b.exprStack) < argCount+1 {
		return diag.At(diag.StackUnderflow, e.Pos, "expression stack underflow at %s", e.Tag)
	}
	args := make([]Expr, argCount)
	for i := argCount - 1; i >= 0; i-- {
		a, err := b.popExpr(e)
		if err != nil {
			return err
		}
		args[i] = a
	}
	callee, err := b.popExpr(e)
	if err != nil {
		return err
	}
	id, ok := callee.(*Identifier)
	if !ok {
		return diag.At(diag.UnexpectedEvent, e.Pos, "call target is not a plain identifier")
	}
	b.pushExpr(&Call{base{e.Pos}, id.Name, args})
	return nil
}

func (b *builder) reduceSelection(e events.Event) error {
	if e.Text == "else" {
		elseStmt, err := b.popStmt(e)
		if err != nil {
			return err
		}
		thenStmt, err := b.popStmt(e)
		if err != nil {
			return err
		}
		cond, err := b.popExpr(e)
		if err != nil {
			return err
		}
		b.pushStmt(&If{base{e.Pos}, cond, thenStmt, elseStmt})
		return nil
	}
	thenStmt, err := b.popStmt(e)
	if err != nil {
		return err
	}
	cond, err := b.popExpr(e)
	if err != nil {
		return err
	}
	b.pushStmt(&If{base{e.Pos}, cond, thenStmt, nil})
	return nil
}

func (b *builder) reduceIteration(e events.Event) error {
	body, err := b.popStmt(e)
	if err != nil {
		return err
	}
	cond, err := b.popExpr(e)
	if err != nil {
		return err
	}
	b.pushStmt(&While{base{e.Pos}, cond, body})
	return nil
}

func (b *builder) reduceJump(e events.Event) error {
	if e.Text == "" {
		b.pushStmt(&Return{base{e.Pos}, nil})
		return nil
	}
	x, err := b.popExpr(e)
	if err != nil {
		return err
	}
	b.pushStmt(&Return{base{e.Pos}, x})
	return nil
}

func (b *builder) reduceCompound(e events.Event) error {
	var stmts []Stmt
	for {
		if len(b.stmtStack) == 0 {
			return diag.At(diag.StackUnderflow, e.Pos, "missing compound-statement sentinel")
		}
		top := b.stmtStack[len(b.stmtStack)-1]
		b.stmtStack = b.stmtStack[:len(b.stmtStack)-1]
		if _, ok := top.(compoundSentinel); ok {
			break
		}
		stmts = append(stmts, top)
	}
	// stmts was collected top-first (reverse declaration order); restore
	// source order.
	for i, j := 0, len(stmts)-1; i < j; i, j = i+1, j-1 {
		stmts[i], stmts[j] = stmts[j], stmts[i]
	}
	b.pushStmt(&Compound{base{e.Pos}, stmts})
	return nil
}

func (b *builder) reduceFunction(e events.Event) error {
	bodyStmt, err := b.popStmt(e)
	if err != nil {
		return err
	}
	body, ok := bodyStmt.(*Compound)
	if !ok {
		return diag.At(diag.UnexpectedEvent, e.Pos, "function body is not a compound statement")
	}
	fn, err := parseSignature(e.Text, e.Pos)
	if err != nil {
		return err
	}
	fn.Body = body
	b.functions = append(b.functions, fn)
	return nil
}

// parseSignature parses "ret-type name param1 param2 …", trimming
// surrounding whitespace before taking the first token as the return-type
// keyword.
func parseSignature(text string, pos diag.Position) (*Function, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) < 2 {
		return nil, diag.At(diag.MalformedSignature, pos, "signature %q has fewer than 2 tokens", text)
	}
	var rt ReturnType
	switch fields[0] {
	case "int":
		rt = Int
	case "void":
		rt = Void
	default:
		return nil, diag.At(diag.MalformedSignature, pos, "unknown return type %q", fields[0])
	}
	name := fields[1]
	if name == "" {
		return nil, diag.At(diag.MalformedSignature, pos, "missing function name in %q", text)
	}
	params := make([]Param, 0, len(fields)-2)
	for _, p := range fields[2:] {
		if p == "" || strings.Contains(p, ",") {
			return nil, diag.At(diag.MalformedSignature, pos, "trailing comma or empty parameter in %q", text)
		}
		params = append(params, Param{Name: p})
	}
	return &Function{P: pos, ReturnType: rt, Name: name, Params: params}, nil
}
