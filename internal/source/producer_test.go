package source

import (
	"testing"

	"minic/internal/events"
)

func produce(t *testing.T, src string) events.Stream {
	t.Helper()
	toks, errs := Lex(src)
	if len(errs) != 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	stream, err := Produce(toks)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	return stream
}

func TestProduceConstantReturn(t *testing.T) {
	stream := produce(t, "int main(){return 42;}")
	var tags []events.Tag
	for _, e := range stream {
		tags = append(tags, e.Tag)
	}
	want := []events.Tag{
		events.EnterFunctionDefinition,
		events.EnterCompoundStatement,
		events.ExitPrimaryExpression,
		events.ExitJumpStatement,
		events.ExitCompoundStatement,
		events.ExitFunctionDefinition,
	}
	if len(tags) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(tags), tags)
	}
	for i, w := range want {
		if tags[i] != w {
			t.Fatalf("event %d: expected %s, got %s", i, w, tags[i])
		}
	}
}

func TestProduceCallWithArguments(t *testing.T) {
	stream := produce(t, "int main(){return fib(1,2);}")
	var sawArgs, sawPostfix bool
	for _, e := range stream {
		if e.Tag == events.ExitArgumentExpressionList {
			sawArgs = true
			if e.Text != "2" {
				t.Fatalf("expected argument count 2, got %q", e.Text)
			}
		}
		if e.Tag == events.ExitPostfixExpression {
			sawPostfix = true
		}
	}
	if !sawArgs || !sawPostfix {
		t.Fatalf("expected both an argument list and a postfix event")
	}
}

func TestProduceZeroArgCallHasNoArgumentListEvent(t *testing.T) {
	stream := produce(t, "int main(){return bad();}")
	for _, e := range stream {
		if e.Tag == events.ExitArgumentExpressionList {
			t.Fatalf("zero-arg call must not emit ExitArgumentExpressionList")
		}
	}
}

func TestProduceIfElse(t *testing.T) {
	stream := produce(t, "int main(){if(1){return 1;}else{return 0;}}")
	found := false
	for _, e := range stream {
		if e.Tag == events.ExitSelectionStatement && e.Text == "else" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an else-tagged selection statement")
	}
}

func TestProduceParenthesizedExpressionHasNoExtraPrimary(t *testing.T) {
	stream := produce(t, "int main(){return (1+2)*3;}")
	count := 0
	for _, e := range stream {
		if e.Tag == events.ExitPrimaryExpression {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("expected exactly 3 primary events (1, 2, 3), got %d", count)
	}
}
