// Command glrls is a minimal Language Server Protocol server over the
// demo arithmetic grammar: every open document keeps its last parsed
// tree, and each full-text change reparses by handing that tree back in
// as the reuse source rather than starting cold.
package main

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pattyshack/gt/parseutil"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/glrcore/glrcore/driver"
	"github.com/glrcore/glrcore/grammar"
	"github.com/glrcore/glrcore/input"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

const lsName = "glrls"

type document struct {
	content []byte
	parsed  *tree.Node
}

// LSPServer keeps one document per open URI and reparses it incrementally
// against the demo grammar on every change notification.
type LSPServer struct {
	handler protocol.Handler
	server  *server.Server
	version string
	table   table.Table

	mu   sync.Mutex
	docs map[string]*document
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
		table:   grammar.Build(),
		docs:    map[string]*document{},
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.reparse(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.reparse(path, []byte(whole.Text))
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	doc := ls.docs[path]
	delete(ls.docs, path)
	ls.mu.Unlock()
	if doc != nil {
		doc.parsed.Release()
	}
	return nil
}

// reparse runs the driver over content, handing in the document's previous
// tree (if any) so the cursor can reuse unchanged subtrees, then stores the
// freshly finished tree as the new previous for next time.
func (ls *LSPServer) reparse(path string, content []byte) {
	ls.mu.Lock()
	doc := ls.docs[path]
	var previous *tree.Node
	if doc != nil {
		previous = doc.parsed
	}
	ls.mu.Unlock()

	reader := parseutil.NewBufferedByteLocationReaderFromSlice(path, content)
	lx := grammar.NewLexer(input.NewSource(reader))
	p := driver.New(ls.table, lx)

	parsed, err := p.Parse(context.Background(), input.NewSource(reader), previous)
	if err != nil {
		fmt.Println(err)
		return
	}

	ls.mu.Lock()
	if previous != nil {
		previous.Release()
	}
	ls.docs[path] = &document{content: content, parsed: parsed}
	ls.mu.Unlock()
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}

func main() {
	ls := NewLSPServer("0.1.0")
	if err := ls.RunStdio(); err != nil {
		fmt.Println(err)
	}
}
