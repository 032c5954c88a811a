// Package input adapts a parseutil.BufferedByteLocationReader to the
// byte-oriented contract a grammar's lexer.Lexer implementation reads
// from, so the core parsing packages never depend on how bytes actually
// reach the parser.
package input

import (
	"github.com/pattyshack/gt/parseutil"
)

// Source is the editable input a Parser walks. It wraps a buffered,
// location-tracking reader, so a grammar's lexer.Lexer implementation
// can be built directly on top of parseutil's tokenizer helpers
// (MaybeTokenize*, InternPool).
type Source struct {
	parseutil.BufferedByteLocationReader
}

// NewSource adapts an already-positioned reader.
func NewSource(reader parseutil.BufferedByteLocationReader) Source {
	return Source{BufferedByteLocationReader: reader}
}

// NewLocationError re-exports parseutil's location-carrying formatted
// error constructor, so facades that want positioned diagnostics (the CLI
// and LSP demos) never need to import parseutil directly.
var NewLocationError = parseutil.NewLocationError
