package source

import "testing"

func TestLexBasicTokens(t *testing.T) {
	toks, errs := Lex("int main(){return 42;}")
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	want := []string{"int", "main", "(", ")", "{", "return", "42", ";", "}"}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Value != w {
			t.Fatalf("token %d: expected %q, got %q", i, w, toks[i].Value)
		}
	}
}

func TestLexTwoCharOperators(t *testing.T) {
	toks, errs := Lex("a <= b && c == d")
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	ops := []string{"<=", "&&", "=="}
	found := map[string]bool{}
	for _, tok := range toks {
		if tok.Kind == TokPunct {
			found[tok.Value] = true
		}
	}
	for _, op := range ops {
		if !found[op] {
			t.Fatalf("expected to find operator %q among tokens %+v", op, toks)
		}
	}
}

func TestLexCommentsAreSkipped(t *testing.T) {
	toks, errs := Lex("// comment\nint x; /* block */ int y;")
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	if len(toks) != 6 {
		t.Fatalf("expected 6 tokens after stripping comments, got %d: %+v", len(toks), toks)
	}
}

func TestLexUnexpectedCharacter(t *testing.T) {
	_, errs := Lex("int x = @;")
	if len(errs) == 0 {
		t.Fatalf("expected an error for '@'")
	}
}
