package driver_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pattyshack/gt/parseutil"

	"github.com/glrcore/glrcore/debug"
	"github.com/glrcore/glrcore/driver"
	"github.com/glrcore/glrcore/grammar"
	"github.com/glrcore/glrcore/input"
	"github.com/glrcore/glrcore/tree"
)

type countingSink struct {
	lexCalls    int
	reusedCalls int
}

func (c *countingSink) Record(kind debug.Kind, format string, args ...interface{}) {
	if kind != debug.KindLex {
		return
	}
	c.lexCalls++
	if strings.Contains(fmt.Sprintf(format, args...), "reused=true") {
		c.reusedCalls++
	}
}

func parseWith(t *testing.T, name, text string, previous *tree.Node, sink debug.Sink) *tree.Node {
	t.Helper()

	reader := parseutil.NewBufferedByteLocationReaderFromSlice(name, []byte(text))
	lx := grammar.NewLexer(input.NewSource(reader))
	p := driver.New(grammar.Build(), lx)
	if sink != nil {
		p.SetDebugger(sink)
	}

	result, err := p.Parse(context.Background(), input.NewSource(reader), previous)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", text, err)
	}
	return result
}

func TestIncrementalReparseReusesUnchangedSubtree(t *testing.T) {
	first := parseWith(t, "cold", "1+2", nil, nil)
	defer first.Release()

	sink := &countingSink{}
	second := parseWith(t, "warm", "1+2", first, sink)
	defer second.Release()

	if sink.lexCalls == 0 {
		t.Fatal("expected the debugger to observe at least one lex event")
	}
	if sink.reusedCalls == 0 {
		t.Error("expected reparsing identical text against the previous tree to reuse at least one lookahead")
	}
}

func TestColdParseNeverReusesWithoutPreviousTree(t *testing.T) {
	sink := &countingSink{}
	result := parseWith(t, "cold", "1+2", nil, sink)
	defer result.Release()

	if sink.reusedCalls != 0 {
		t.Errorf("reusedCalls = %d, want 0 for a cold parse with no previous tree", sink.reusedCalls)
	}
}

func TestReentrantParsePanics(t *testing.T) {
	reader := parseutil.NewBufferedByteLocationReaderFromSlice(t.Name(), []byte("1"))
	lx := grammar.NewLexer(input.NewSource(reader))
	p := driver.New(grammar.Build(), lx)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a reentrant Parse call to panic")
		}
	}()

	p.SetDebugger(debug.SinkFunc(func(kind debug.Kind, message string) {
		// Re-enter Parse from inside a debugger callback to simulate
		// reentrancy; the running guard must catch this.
		reader2 := parseutil.NewBufferedByteLocationReaderFromSlice("nested", []byte("1"))
		lx2 := grammar.NewLexer(input.NewSource(reader2))
		_, _ = driver.New(grammar.Build(), lx2).Parse(context.Background(), input.NewSource(reader2), nil)
		p.Parse(context.Background(), input.NewSource(reader), nil)
	}))

	p.Parse(context.Background(), input.NewSource(reader), nil)
}
