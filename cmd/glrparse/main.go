// Command glrparse parses a file with the demo arithmetic grammar, then
// reparses an edited copy reusing the first tree, printing both trees
// and how many lookaheads the second parse served straight from the
// first tree rather than the lexer.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pattyshack/gt/parseutil"
	"github.com/spf13/cobra"

	"github.com/glrcore/glrcore/debug"
	"github.com/glrcore/glrcore/driver"
	"github.com/glrcore/glrcore/grammar"
	"github.com/glrcore/glrcore/input"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

type reuseCounter struct {
	n int
}

func (r *reuseCounter) Record(kind debug.Kind, format string, args ...interface{}) {
	if kind != debug.KindLex {
		return
	}
	if strings.Contains(fmt.Sprintf(format, args...), "reused=true") {
		r.n++
	}
}

func namesFor(tbl table.Table) func(int) string {
	return func(symbol int) string {
		return tbl.SymbolName(table.Symbol(symbol))
	}
}

func newRootCmd() *cobra.Command {
	var edit string

	cmd := &cobra.Command{
		Use:   "glrparse <file>",
		Short: "Parse a file with the demo arithmetic grammar, then reparse an edited copy incrementally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			content, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			tbl := grammar.Build()

			reader := parseutil.NewBufferedByteLocationReaderFromSlice(filename, content)
			coldLexer := grammar.NewLexer(input.NewSource(reader))
			coldParser := driver.New(tbl, coldLexer)

			first, err := coldParser.Parse(context.Background(), input.NewSource(reader), nil)
			if err != nil {
				return fmt.Errorf("cold parse: %w", err)
			}
			fmt.Println("=== cold parse ===")
			fmt.Println(tree.TreeString(first, namesFor(tbl)))

			edited := content
			if edit != "" {
				edited = []byte(edit)
			}

			editedReader := parseutil.NewBufferedByteLocationReaderFromSlice(filename+".edited", edited)
			incLexer := grammar.NewLexer(input.NewSource(editedReader))
			incParser := driver.New(tbl, incLexer)
			counter := &reuseCounter{}
			incParser.SetDebugger(counter)

			second, err := incParser.Parse(context.Background(), input.NewSource(editedReader), first)
			if err != nil {
				return fmt.Errorf("incremental parse: %w", err)
			}

			fmt.Println("=== incremental parse ===")
			fmt.Println(tree.TreeString(second, namesFor(tbl)))
			fmt.Printf("reused lookaheads: %d\n", counter.n)

			return nil
		},
	}

	cmd.Flags().StringVar(&edit, "edit", "", "edited source text to reparse incrementally (defaults to the original file's content)")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
