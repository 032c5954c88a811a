// Package driver implements the parse driver outer loop: it owns the
// stack, the reusable-node cursor, and the action engine, and drives
// them together across every live stack version until exactly one
// finished tree remains.
package driver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glrcore/glrcore/cursor"
	"github.com/glrcore/glrcore/debug"
	"github.com/glrcore/glrcore/engine"
	"github.com/glrcore/glrcore/input"
	"github.com/glrcore/glrcore/lexer"
	"github.com/glrcore/glrcore/stack"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// Parser drives one grammar table and one lexer through the GLR outer
// loop. It is not safe for concurrent Parse calls; attempting one panics
// rather than silently racing, matching the "this should never happen"
// idiom for programmer error.
type Parser struct {
	table  table.Table
	lexer  lexer.Lexer
	logger *slog.Logger

	debugger debug.Sink
	config   Config

	running bool
}

// New returns a parser over tbl and lx. Neither is retained beyond what
// the caller already owns; tbl may be shared across many Parser
// instances, lx may not.
func New(tbl table.Table, lx lexer.Lexer) *Parser {
	return &Parser{
		table:    tbl,
		lexer:    lx,
		logger:   slog.Default(),
		debugger: debug.Discard,
		config:   DefaultConfig(),
	}
}

// Close releases resources held by the parser. The CORE itself persists
// no state across Parse calls; Close exists so callers have a single
// teardown point if a future Lexer or Table implementation needs one.
func (p *Parser) Close() {}

// SetDebugger installs a sink that receives one formatted line per
// PARSE/LEX event. Passing nil disables tracing.
func (p *Parser) SetDebugger(d debug.Sink) {
	if d == nil {
		d = debug.Discard
	}
	p.debugger = d
}

// Debugger returns the currently installed sink.
func (p *Parser) Debugger() debug.Sink {
	return p.debugger
}

// SetLogger installs the slog.Logger used for internal diagnostics,
// distinct from the PARSE-tagged debugger stream.
func (p *Parser) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	p.logger = l
}

// SetConfig installs tuning knobs loaded via LoadConfig.
func (p *Parser) SetConfig(cfg Config) {
	p.config = cfg
}

// Parse runs the driver to completion, reusing subtrees of previous
// where possible, and returns the single finished tree selected by
// tree.Select among every accepted alternative. Tokens come from the
// Lexer passed to New; Parse does not read source itself.
//
// ctx is honored only before the loop starts; cancellation is not
// supported mid-parse, and ctx is never polled inside the synchronous
// loop.
func (p *Parser) Parse(ctx context.Context, source input.Source, previous *tree.Node) (*tree.Node, error) {
	if p.running {
		panic("driver: Parse called while a parse is already running")
	}
	p.running = true
	defer func() { p.running = false }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := stack.New(table.StateStart)
	eng := engine.New(st, p.table, p.lexer)

	if p.config.DisableReuse {
		previous = nil
	}
	cur := cursor.New(previous)
	var maxPosition tree.Length

	var cachedLookahead *tree.Node
	var cachedPosition tree.Length
	cachedValid := false

	invalidateCache := func() {
		if cachedValid {
			cachedLookahead.Release()
			cachedLookahead = nil
			cachedValid = false
		}
	}
	defer invalidateCache()

	for st.VersionCount() > 0 {
		if p.config.MaxVersionCount > 0 && st.VersionCount() > p.config.MaxVersionCount {
			return nil, fmt.Errorf("driver: version count exceeded configured limit %d", p.config.MaxVersionCount)
		}

		isSplit := st.VersionCount() > 1
		eng.SetSplit(isSplit)

		v := 0
		for v < st.VersionCount() {
			topPosition := st.TopPosition(v)

			switch {
			case topPosition.Chars > maxPosition.Chars:
				maxPosition = topPosition
				v++
				continue
			case topPosition.Chars == maxPosition.Chars && v > 0:
				v++
				continue
			}

			topState := st.TopState(v)

			var lookahead *tree.Node
			if cachedValid && cachedPosition.Equal(topPosition) && cursor.CanReuse(cachedLookahead, p.table, topState) {
				lookahead = cachedLookahead.Retain()
			} else {
				invalidateCache()

				result := cursor.GetLookahead(cur, topPosition, topState, p.table, p.lexer)
				cur = result.Cursor
				lookahead = result.Tree

				if result.NeedBreakdownTop {
					if !eng.BreakdownTopOfStack(v) {
						lookahead.Release()
						return nil, fmt.Errorf("driver: breakdown of stack top failed at position %d", topPosition.Chars)
					}
				}

				cachedLookahead = lookahead.Retain()
				cachedPosition = topPosition
				cachedValid = true

				p.debugger.Record(debug.KindLex, "position=%d reused=%t symbol=%d", topPosition.Chars, result.Reused, lookahead.Symbol)
			}

			p.debugger.Record(debug.KindParse, "version=%d state=%d position=%d lookahead=%d", v, topState, topPosition.Chars, lookahead.Symbol)

			status := eng.ConsumeLookahead(v, lookahead)
			lookahead.Release()

			switch status {
			case engine.StatusFailed:
				p.logger.Error("glrcore: parse failed", "version", v, "position", topPosition.Chars)
				return nil, fmt.Errorf("driver: parse failed at position %d", topPosition.Chars)
			case engine.StatusRemoved:
				// The frame formerly at v+1 has slid down into v; revisit
				// the same index rather than advancing past it.
			case engine.StatusUpdated:
				// v stays the same: the loop re-checks topPosition(v)
				// against maxPosition next iteration, so a version keeps
				// shifting/reducing on its own until it catches up to or
				// passes its peers (repeat until removed or advanced past
				// all peers).
			}
		}

		st.Condense()
		invalidateCache()
	}

	finished := eng.Finished
	tree.AssignContext(finished)
	return finished, nil
}
