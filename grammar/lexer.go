package grammar

import (
	"io"
	"unicode/utf8"

	"github.com/pattyshack/gt/stringutil"

	"github.com/glrcore/glrcore/input"
	"github.com/glrcore/glrcore/lexer"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// Lexer scans the demo arithmetic grammar's five terminals directly off
// an input.Source (a BufferedByteLocationReader). It also holds a
// stringutil.InternPool, which the scanner never consults: digit runs
// are not interned.
type Lexer struct {
	source input.Source
	pool   *stringutil.InternPool
}

// NewLexer returns a Lexer reading from source.
func NewLexer(source input.Source) *Lexer {
	return &Lexer{source: source, pool: stringutil.NewInternPool()}
}

// Start implements lexer.Lexer. The demo grammar has a single lex state
// regardless of parse state, and errorMode only matters in that it is
// ignored: there is no best-effort error-mode scan distinct from the
// ordinary one for a grammar this small.
func (l *Lexer) Start(state int, errorMode bool) {}

// Reset implements lexer.Lexer as a no-op: the underlying reader is not
// repositioned, so the next Finish continues from wherever the previous
// one stopped.
func (l *Lexer) Reset(position tree.Length) {}

// Finish implements lexer.Lexer: skip whitespace into padding, then scan
// exactly one terminal.
func (l *Lexer) Finish() lexer.Token {
	padding := l.skipSpaces()

	peeked, err := l.source.Peek(utf8.UTFMax)
	if len(peeked) > 0 && err == io.EOF {
		err = nil
	}
	if err != nil || len(peeked) == 0 {
		return lexer.Token{Symbol: table.SymbolEnd, Padding: padding}
	}

	char := peeked[0]

	switch char {
	case '+':
		return l.fixedToken(SymbolPlus, 1, padding)
	case '*':
		return l.fixedToken(SymbolStar, 1, padding)
	case '(':
		return l.fixedToken(SymbolLparen, 1, padding)
	case ')':
		return l.fixedToken(SymbolRparen, 1, padding)
	}

	if '0' <= char && char <= '9' {
		return l.numberToken(padding)
	}

	l.source.Discard(1)
	return lexer.Token{
		Symbol:            table.SymbolError,
		Padding:           padding,
		Size:              tree.Length{Chars: 1, Bytes: 1},
		HasUnexpectedChar: true,
		FirstUnexpectedChar: rune(char),
	}
}

func (l *Lexer) skipSpaces() tree.Length {
	var padding tree.Length
	for {
		peeked, err := l.source.Peek(1)
		if len(peeked) == 0 || (err != nil && err != io.EOF) {
			return padding
		}
		if peeked[0] != ' ' && peeked[0] != '\t' && peeked[0] != '\n' && peeked[0] != '\r' {
			return padding
		}
		l.source.Discard(1)
		padding = padding.Add(tree.Length{Chars: 1, Bytes: 1})
	}
}

func (l *Lexer) fixedToken(symbol table.Symbol, byteLen int, padding tree.Length) lexer.Token {
	l.source.Discard(byteLen)
	return lexer.Token{
		Symbol:  symbol,
		Padding: padding,
		Size:    tree.Length{Chars: byteLen, Bytes: byteLen},
	}
}

func (l *Lexer) numberToken(padding tree.Length) lexer.Token {
	n := 0
	for {
		peeked, err := l.source.Peek(n + 1)
		if len(peeked) <= n || (err != nil && err != io.EOF) {
			break
		}
		if peeked[n] < '0' || peeked[n] > '9' {
			break
		}
		n++
	}

	l.source.Discard(n)

	return lexer.Token{
		Symbol:  SymbolNum,
		Padding: padding,
		Size:    tree.Length{Chars: n, Bytes: n},
	}
}
