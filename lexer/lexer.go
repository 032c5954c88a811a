// Package lexer defines the positioned lexical-scanner contract the GLR
// driver calls into. The scanner itself, and the per-language lex states
// it switches on, are external collaborators: this package only fixes
// the shape of the call.
package lexer

import (
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// ErrorLexState is the lex state the driver requests when the current
// parse state is table.StateError: best-effort token boundary discovery
// rather than a grammar-specific scan.
const ErrorLexState = 0

// Token is the result of one Finish call.
type Token struct {
	Symbol              table.Symbol
	Padding             tree.Length
	Size                tree.Length
	IsFragile           bool
	FirstUnexpectedChar rune
	HasUnexpectedChar   bool
}

// Lexer is a positioned lexical scanner. One Lexer instance belongs to one
// Parser and is never used concurrently.
type Lexer interface {
	// Start positions the lexer at the current input cursor and tells it
	// which lex state to scan with. errorMode mirrors
	// ts_parser__lex's error_mode flag: true while the parse is
	// recovering from an error, asking the scanner for best-effort token
	// boundaries rather than a grammar-specific scan.
	Start(state int, errorMode bool)

	// Finish performs the scan and returns the resulting token.
	Finish() Token

	// Reset repositions the lexer to an absolute (chars, bytes) offset.
	Reset(position tree.Length)
}
