package grammar_test

import (
	"context"
	"testing"

	"github.com/pattyshack/gt/parseutil"

	"github.com/glrcore/glrcore/driver"
	"github.com/glrcore/glrcore/grammar"
	"github.com/glrcore/glrcore/input"
	"github.com/glrcore/glrcore/tree"
)

func parse(t *testing.T, text string) *tree.Node {
	t.Helper()

	reader := parseutil.NewBufferedByteLocationReaderFromSlice(t.Name(), []byte(text))
	lx := grammar.NewLexer(input.NewSource(reader))
	p := driver.New(grammar.Build(), lx)

	result, err := p.Parse(context.Background(), input.NewSource(reader), nil)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", text, err)
	}
	return result
}

func TestParseSingleNumber(t *testing.T) {
	result := parse(t, "42")
	defer result.Release()

	if result.Symbol != grammar.SymbolExpr {
		t.Errorf("root symbol = %d, want %d (Expr)", result.Symbol, grammar.SymbolExpr)
	}
	if len(result.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(result.Children))
	}
	if result.Children[0].Symbol != grammar.SymbolNum {
		t.Errorf("only child symbol = %d, want NUM", result.Children[0].Symbol)
	}
}

func TestParseBinaryExpression(t *testing.T) {
	result := parse(t, "1+2")
	defer result.Release()

	if result.Symbol != grammar.SymbolExpr {
		t.Fatalf("root symbol = %d, want Expr", result.Symbol)
	}
	if len(result.Children) != 3 {
		t.Fatalf("root has %d children, want 3 (E + E)", len(result.Children))
	}
}

func TestParseParenthesizedExpression(t *testing.T) {
	result := parse(t, "(1+2)")
	defer result.Release()

	if result.Symbol != grammar.SymbolExpr {
		t.Fatalf("root symbol = %d, want Expr", result.Symbol)
	}
}

func TestParseAmbiguousExpressionResolvesToOneTree(t *testing.T) {
	// "1+2*3" passes through the shift/reduce conflict states; the parse
	// must still finish with a single error-free Expr tree.
	result := parse(t, "1+2*3")
	defer result.Release()

	if result.Symbol != grammar.SymbolExpr {
		t.Fatalf("root symbol = %d, want Expr", result.Symbol)
	}
	if result.ErrorSize != 0 {
		t.Errorf("ErrorSize = %d, want 0 for valid input", result.ErrorSize)
	}
}

func TestParseWithWhitespace(t *testing.T) {
	result := parse(t, "  1 + 2 ")
	defer result.Release()

	if result.Symbol != grammar.SymbolExpr {
		t.Fatalf("root symbol = %d, want Expr", result.Symbol)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first := parse(t, "1+2*3+4")
	defer first.Release()
	second := parse(t, "1+2*3+4")
	defer second.Release()

	if tree.Compare(first, second) != 0 {
		t.Error("two cold parses of identical input produced structurally different trees")
	}
}
