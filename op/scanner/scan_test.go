package scanner

import (
	"testing"

	"github.com/npillmayer/opgen"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"n",
	"n + n * n",
	"  a   S\tb ",
	"ab + c",
	"",
	"( E )\n",
}

var tokenCounts = []int{1, 5, 3, 3, 0, 3}

func TestSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		tokens, err := Split(input)
		if err != nil {
			t.Errorf("input #%d: unexpected error %v", i, err)
		}
		for _, token := range tokens {
			t.Logf(" %6s | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
		}
		if len(tokens) != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], len(tokens))
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.scanner")
	defer teardown()
	//
	tokens, err := Split("ab + c")
	if err != nil {
		t.Fatal(err)
	}
	expected := []opgen.Span{{0, 2}, {3, 4}, {5, 6}}
	for i, token := range tokens {
		if token.Span() != expected[i] {
			t.Errorf("expected span of %q to be %v, is %v", token.Lexeme(), expected[i], token.Span())
		}
	}
	if tokens[0].Lexeme() != "ab" {
		t.Errorf("expected first lexeme to be 'ab', is %q", tokens[0].Lexeme())
	}
}

func TestIllegalBytes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.scanner")
	defer teardown()
	//
	tokens, err := Split("a é")
	if err != nil { // scanner reported the bytes as unconsumed
		return
	}
	if len(tokens) < 2 || tokens[1].TokType() != opgen.IllegalTok {
		t.Errorf("expected non-ASCII input to produce an illegal token, got %v", tokens)
	}
}

func TestEOFToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.scanner")
	defer teardown()
	//
	sc, err := NewSymbolScanner("x y")
	if err != nil {
		t.Fatal(err)
	}
	sc.NextToken()
	sc.NextToken()
	eof := sc.NextToken()
	if eof.TokType() != opgen.EOF {
		t.Errorf("expected EOF, got %v", eof.TokType())
	}
	if eof.Span() != (opgen.Span{3, 3}) {
		t.Errorf("expected EOF span behind input, is %v", eof.Span())
	}
}
