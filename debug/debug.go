// Package debug carries the parse/lex trace channel, external to the
// core packages so a driver can wire it to slog, a test buffer, or
// nothing at all without those packages importing log/slog themselves.
package debug

import "fmt"

// Kind discriminates the two event streams a Parser can emit: actions the
// action engine takes against a stack version, and tokens the lexer
// produces.
type Kind int

const (
	KindParse Kind = iota
	KindLex
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex"
	default:
		return "parse"
	}
}

// Sink receives one formatted trace line per event. A nil Sink is never
// passed to callers; Parser.SetDebugger substitutes a no-op sink instead,
// matching ts_parser_set_logger's convention of disabling tracing by
// clearing the callback rather than nil-checking it at every call site.
type Sink interface {
	Record(kind Kind, format string, args ...interface{})
}

// Discard is the zero-cost Sink used whenever no debugger is configured.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Kind, string, ...interface{}) {}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(kind Kind, message string)

func (f SinkFunc) Record(kind Kind, format string, args ...interface{}) {
	f(kind, fmt.Sprintf(format, args...))
}
