package lexer

import "testing"

func tokenKinds(t *testing.T, src string) []TokenKind {
	t.Helper()
	l := New("test.tc", src)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %s", err.Error())
	}
	kinds := make([]TokenKind, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == TokEOF {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestCompoundAssignOperatorsLexAsOneToken(t *testing.T) {
	for _, op := range []string{"+=", "-=", "*=", "/=", "%="} {
		l := New("test.tc", "v"+op+"1")
		toks, err := l.Tokenize()
		if err != nil {
			t.Fatalf("Tokenize(%q): %s", op, err.Error())
		}
		if len(toks) < 2 || toks[1].Kind != TokOp || toks[1].Text != op {
			t.Errorf("expected a single %q operator token, got %+v", op, toks)
		}
	}
}

func TestFuncIsAKeyword(t *testing.T) {
	l := New("test.tc", "func")
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %s", err.Error())
	}
	if toks[0].Kind != TokKeyword || toks[0].Text != "func" {
		t.Errorf("expected func to lex as a keyword, got %+v", toks[0])
	}
}

func TestTildeFormatStringLexesAsString(t *testing.T) {
	l := New("test.tc", `~"I can say x isn't {x + 2}"`)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %s", err.Error())
	}
	if toks[0].Kind != TokFormatString {
		t.Fatalf("expected a format-string token, got %+v", toks[0])
	}
	if toks[0].Text != `I can say x isn't {x + 2}` {
		t.Errorf("text = %q", toks[0].Text)
	}
}

func TestBareBraceSubstitutionTriggersFormatString(t *testing.T) {
	l := New("test.tc", `"plain"`)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %s", err.Error())
	}
	if toks[0].Kind != TokString {
		t.Errorf("plain string without braces must lex as TokString, got %+v", toks[0])
	}

	l2 := New("test.tc", `"{x}"`)
	toks2, err := l2.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %s", err.Error())
	}
	if toks2[0].Kind != TokFormatString {
		t.Errorf("a bare {x} substitution must lex as TokFormatString, got %+v", toks2[0])
	}
}

func TestDollarBraceSubstitutionTriggersFormatString(t *testing.T) {
	l := New("test.tc", `"${x}"`)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %s", err.Error())
	}
	if toks[0].Kind != TokFormatString {
		t.Errorf("a ${x} substitution must lex as TokFormatString, got %+v", toks[0])
	}
}

func TestShellLineStartsWithDollar(t *testing.T) {
	kinds := tokenKinds(t, "$ls -la")
	if len(kinds) != 1 || kinds[0] != TokShellLine {
		t.Errorf("expected a single shell-line token, got %v", kinds)
	}
}
