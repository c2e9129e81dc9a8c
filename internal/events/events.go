// Package events defines the postorder parse-event contract the AST builder
// consumes. The lexer/parser that produce this stream can be any external
// collaborator that honors the contract; this package only names the wire
// shape and the exhaustive tag set.
package events

import "minic/internal/diag"

// Tag identifies the kind of parse event. The set is exhaustive for the
// supported grammar; any other string is an UnknownEvent.
type Tag string

const (
	EnterCompoundStatement  Tag = "EnterCompoundStatement"
	ExitCompoundStatement   Tag = "ExitCompoundStatement"
	EnterFunctionDefinition Tag = "EnterFunctionDefinition"
	ExitFunctionDefinition  Tag = "ExitFunctionDefinition"

	ExitPrimaryExpression         Tag = "ExitPrimaryExpression"
	ExitPostfixExpression         Tag = "ExitPostfixExpression"
	ExitArgumentExpressionList    Tag = "ExitArgumentExpressionList"
	ExitUnaryExpression           Tag = "ExitUnaryExpression"
	ExitMultiplicativeExpression  Tag = "ExitMultiplicativeExpression"
	ExitAdditiveExpression        Tag = "ExitAdditiveExpression"
	ExitRelationalExpression      Tag = "ExitRelationalExpression"
	ExitEqualityExpression        Tag = "ExitEqualityExpression"
	ExitLogicalAndExpression      Tag = "ExitLogicalAndExpression"
	ExitLogicalOrExpression       Tag = "ExitLogicalOrExpression"
	ExitAssignmentExpression      Tag = "ExitAssignmentExpression"

	ExitDeclaration        Tag = "ExitDeclaration"
	ExitExpressionStatement Tag = "ExitExpressionStatement"
	ExitSelectionStatement  Tag = "ExitSelectionStatement"
	ExitIterationStatement  Tag = "ExitIterationStatement"
	ExitJumpStatement       Tag = "ExitJumpStatement"
)

// known holds every recognized tag for fast membership tests.
var known = map[Tag]bool{
	EnterCompoundStatement:  true,
	ExitCompoundStatement:   true,
	EnterFunctionDefinition: true,
	ExitFunctionDefinition:  true,

	ExitPrimaryExpression:        true,
	ExitPostfixExpression:        true,
	ExitArgumentExpressionList:   true,
	ExitUnaryExpression:          true,
	ExitMultiplicativeExpression: true,
	ExitAdditiveExpression:       true,
	ExitRelationalExpression:     true,
	ExitEqualityExpression:       true,
	ExitLogicalAndExpression:     true,
	ExitLogicalOrExpression:      true,
	ExitAssignmentExpression:     true,

	ExitDeclaration:         true,
	ExitExpressionStatement: true,
	ExitSelectionStatement:  true,
	ExitIterationStatement:  true,
	ExitJumpStatement:       true,
}

// Event is one record of the upstream parse-tree-exit stream: a tag and its
// literal text payload (operator, identifier, literal, or signature text,
// depending on the tag).
type Event struct {
	Tag  Tag
	Text string
	Pos  diag.Position
}

// Stream is an ordered sequence of Events, consumed front-to-back by the AST
// builder.
type Stream []Event

// Validate reports the first tag in s that is not part of the exhaustive
// grammar tag set, as an UnknownEvent diagnostic.
func (s Stream) Validate() *diag.Diagnostic {
	for _, e := range s {
		if !known[e.Tag] {
			d := diag.At(diag.UnknownEvent, e.Pos, "unrecognized event tag %q", e.Tag)
			return &d
		}
	}
	return nil
}
