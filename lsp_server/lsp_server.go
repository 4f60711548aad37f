package lsp_server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/nedpals/hlasmls/analysis"
	symbolStore "github.com/nedpals/hlasmls/analysis/store"
	"github.com/nedpals/hlasmls/journal"
	"github.com/nedpals/hlasmls/rpc"
	"github.com/nedpals/hlasmls/settings"
	"github.com/nedpals/hlasmls/store"
	"github.com/sourcegraph/jsonrpc2"
	lsp "go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const ServerName = "hlasmls"

type Options struct {
	Version string

	// Log receives server-side messages. Defaults to stderr.
	Log *log.Logger

	// Journal records published diagnostics when set.
	Journal *journal.Journal
}

type LspServer struct {
	ServerLog *log.Logger
	version   string
	documents *store.Store
	symbols   *symbolStore.SymbolStore
	settings  *settings.Cache
	journal   *journal.Journal

	hasConfigurationCapability                bool
	hasWorkspaceFolderCapability              bool
	hasDiagnosticRelatedInformationCapability bool

	mu                sync.Mutex
	shutdownRequested bool

	// validations tracks the diagnostics passes still in flight
	validations sync.WaitGroup
}

func NewServer(opts Options) *LspServer {
	serverLog := opts.Log
	if serverLog == nil {
		serverLog = log.New(os.Stderr, "server> ", 0)
	}

	version := opts.Version
	if len(version) == 0 {
		version = "dev"
	}

	return &LspServer{
		ServerLog: serverLog,
		version:   version,
		documents: store.NewStore(),
		symbols:   symbolStore.NewSymbolStore(),
		settings:  settings.NewCache(),
		journal:   opts.Journal,
	}
}

func decodePayload[T any](ctx context.Context, s *LspServer, c *jsonrpc2.Conn, r *jsonrpc2.Request) *T {
	var payload *T
	raw := json.RawMessage("null")
	if r.Params != nil {
		raw = *r.Params
	}

	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		if r.Notif {
			s.ServerLog.Printf("Unable to decode params of method %s: %v\n", r.Method, err)
			return nil
		}

		c.ReplyWithError(ctx, r.ID, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: "Unable to decode params of method " + r.Method,
		})
		return nil
	}
	return payload
}

func (s *LspServer) Handle(ctx context.Context, c *jsonrpc2.Conn, r *jsonrpc2.Request) {
	switch r.Method {
	case lsp.MethodInitialize:
		payload := decodePayload[lsp.InitializeParams](ctx, s, c, r)
		if payload == nil {
			return
		}

		s.recordCapabilities(payload.Capabilities)
		if s.hasConfigurationCapability {
			s.settings.SetLookup(s.requestSettings(c))
		}

		c.Reply(ctx, r.ID, lsp.InitializeResult{
			Capabilities: lsp.ServerCapabilities{
				TextDocumentSync:       lsp.TextDocumentSyncKindFull,
				DocumentSymbolProvider: true,
				DefinitionProvider:     true,
			},
			ServerInfo: &lsp.ServerInfo{
				Name:    ServerName,
				Version: s.version,
			},
		})
	case lsp.MethodInitialized:
		if s.hasConfigurationCapability {
			go s.registerConfigurationChange(ctx, c)
		}

		if s.hasWorkspaceFolderCapability {
			s.ServerLog.Println("Workspace folders are supported by the client")
		}
	case lsp.MethodShutdown:
		s.mu.Lock()
		s.shutdownRequested = true
		s.mu.Unlock()

		c.Reply(ctx, r.ID, json.RawMessage("null"))
	case lsp.MethodExit:
		c.Close()
	case lsp.MethodTextDocumentDidOpen:
		payload := decodePayload[lsp.DidOpenTextDocumentParams](ctx, s, c, r)
		if payload == nil {
			return
		}

		s.documents.Open(
			payload.TextDocument.URI,
			string(payload.TextDocument.LanguageID),
			payload.TextDocument.Version,
			payload.TextDocument.Text,
		)

		s.validate(ctx, c, payload.TextDocument.URI)
	case lsp.MethodTextDocumentDidChange:
		payload := decodePayload[lsp.DidChangeTextDocumentParams](ctx, s, c, r)
		if payload == nil {
			return
		}

		if !s.documents.Apply(payload.TextDocument.URI, payload.TextDocument.Version, payload.ContentChanges) {
			s.ServerLog.Printf("Ignoring changes to unopened document %s\n", payload.TextDocument.URI)
			return
		}

		s.validate(ctx, c, payload.TextDocument.URI)
	case lsp.MethodTextDocumentDidClose:
		payload := decodePayload[lsp.DidCloseTextDocumentParams](ctx, s, c, r)
		if payload == nil {
			return
		}

		s.documents.Close(payload.TextDocument.URI)
		s.settings.Forget(payload.TextDocument.URI)

		c.Notify(ctx, lsp.MethodTextDocumentPublishDiagnostics, lsp.PublishDiagnosticsParams{
			URI:         payload.TextDocument.URI,
			Diagnostics: []lsp.Diagnostic{},
		})
	case lsp.MethodWorkspaceDidChangeConfiguration:
		payload := decodePayload[configurationChange](ctx, s, c, r)
		if payload == nil {
			return
		}

		if s.hasConfigurationCapability {
			s.settings.Invalidate()
		} else {
			global, err := settings.Decode(payload.Settings[settings.Section])
			if err != nil {
				s.ServerLog.Println(err)
			}
			s.settings.SetGlobal(global)
		}

		for _, docUri := range s.documents.URIs() {
			s.validate(ctx, c, docUri)
		}
	case lsp.MethodTextDocumentDocumentSymbol:
		payload := decodePayload[lsp.DocumentSymbolParams](ctx, s, c, r)
		if payload == nil {
			return
		}

		doc, ok := s.documents.Get(payload.TextDocument.URI)
		if !ok {
			c.Reply(ctx, r.ID, nil)
			return
		}

		symbols := analysis.ExtractSymbols(doc.Text(), doc.URI, s.symbols)
		c.Reply(ctx, r.ID, toLspSymbols(symbols))
	case lsp.MethodTextDocumentDefinition:
		payload := decodePayload[lsp.DefinitionParams](ctx, s, c, r)
		if payload == nil {
			return
		}

		doc, ok := s.documents.Get(payload.TextDocument.URI)
		if !ok {
			c.Reply(ctx, r.ID, nil)
			return
		}

		locations, ok := analysis.ResolveDefinition(doc.Text(), fromLspPosition(payload.Position), s.symbols)
		if !ok {
			c.Reply(ctx, r.ID, nil)
			return
		}

		c.Reply(ctx, r.ID, toLspLocations(locations))
	default:
		if r.Notif {
			return
		}

		c.ReplyWithError(ctx, r.ID, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: "Method not found: " + r.Method,
		})
	}
}

// configurationChange keeps the settings of workspace/didChangeConfiguration
// undecoded until the section is known.
type configurationChange struct {
	Settings map[string]json.RawMessage `json:"settings"`
}

func (s *LspServer) recordCapabilities(capabilities lsp.ClientCapabilities) {
	if capabilities.Workspace != nil {
		s.hasConfigurationCapability = capabilities.Workspace.Configuration
		s.hasWorkspaceFolderCapability = capabilities.Workspace.WorkspaceFolders
	}

	if capabilities.TextDocument != nil && capabilities.TextDocument.PublishDiagnostics != nil {
		s.hasDiagnosticRelatedInformationCapability = capabilities.TextDocument.PublishDiagnostics.RelatedInformation
	}
}

// requestSettings asks the editor for the settings of a document through
// workspace/configuration.
func (s *LspServer) requestSettings(c *jsonrpc2.Conn) settings.LookupFunc {
	return func(ctx context.Context, scopeUri uri.URI) (settings.Settings, error) {
		var result []json.RawMessage
		err := c.Call(ctx, lsp.MethodWorkspaceConfiguration, lsp.ConfigurationParams{
			Items: []lsp.ConfigurationItem{
				{ScopeURI: scopeUri, Section: settings.Section},
			},
		}, &result)
		if err != nil {
			return settings.Settings{}, fmt.Errorf("unable to fetch %s settings for %s: %w", settings.Section, scopeUri, err)
		}

		if len(result) == 0 {
			return settings.Default, nil
		}
		return settings.Decode(result[0])
	}
}

func (s *LspServer) registerConfigurationChange(ctx context.Context, c *jsonrpc2.Conn) {
	var result json.RawMessage
	err := c.Call(ctx, lsp.MethodClientRegisterCapability, lsp.RegistrationParams{
		Registrations: []lsp.Registration{
			{
				ID:     uuid.NewString(),
				Method: lsp.MethodWorkspaceDidChangeConfiguration,
			},
		},
	}, &result)
	if err != nil {
		s.ServerLog.Printf("Unable to register for configuration changes: %v\n", err)
	}
}

// validate publishes the line-length diagnostics of a document. It snapshots
// the text right away and finishes in the background since fetching the
// settings may require a round trip to the editor.
func (s *LspServer) validate(ctx context.Context, c *jsonrpc2.Conn, docUri uri.URI) {
	doc, ok := s.documents.Get(docUri)
	if !ok {
		return
	}

	text := doc.Text()

	s.validations.Add(1)
	go func() {
		defer s.validations.Done()

		cfg, err := s.settings.Get(ctx, docUri)
		if err != nil {
			s.ServerLog.Println(err)
			c.Notify(ctx, lsp.MethodWindowLogMessage, lsp.LogMessageParams{
				Type:    lsp.MessageTypeError,
				Message: err.Error(),
			})
			return
		}

		// the document was closed while waiting for the settings
		if _, ok := s.documents.Get(docUri); !ok {
			return
		}

		diagnostics := analysis.ValidateLineLength(text, cfg.MaxLineLength)
		if len(diagnostics) > cfg.MaxNumberOfProblems {
			diagnostics = diagnostics[:cfg.MaxNumberOfProblems]
		}

		if s.journal != nil {
			if err := s.journal.Record(docUri, doc.Version, diagnostics); err != nil {
				s.ServerLog.Printf("Unable to journal diagnostics of %s: %v\n", docUri, err)
			}
		}

		c.Notify(ctx, lsp.MethodTextDocumentPublishDiagnostics, lsp.PublishDiagnosticsParams{
			URI:         docUri,
			Diagnostics: toLspDiagnostics(diagnostics),
		})
	}()
}

// ExitCode follows the LSP convention: 0 if exit came after shutdown.
func (s *LspServer) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdownRequested {
		return 0
	}
	return 1
}

// Serve handles a single client until it disconnects or ctx is done and
// returns the process exit code.
func (s *LspServer) Serve(ctx context.Context, stream jsonrpc2.ObjectStream) int {
	conn := jsonrpc2.NewConn(ctx, stream, s)

	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		conn.Close()
	}

	s.validations.Wait()
	return s.ExitCode()
}

// Start runs the server over stdio.
func Start(opts Options) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := NewServer(opts)
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		srv.ServerLog.Println("Reading from a terminal. This server expects an editor on stdio.")
	}

	return srv.Serve(ctx, jsonrpc2.NewBufferedStream(&rpc.CustomStream{
		ReadCloser:  os.Stdin,
		WriteCloser: os.Stdout,
	}, jsonrpc2.VSCodeObjectCodec{}))
}

// Listen accepts editors over TCP, running a separate server per connection.
// All connections share the journal.
func Listen(addr string, opts Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Log == nil {
		opts.Log = log.New(os.Stderr, "server> ", 0)
	}

	opts.Log.Printf("Listening on %s\n", addr)
	return rpc.StartServer(ctx, addr, jsonrpc2.VSCodeObjectCodec{}, func() jsonrpc2.Handler {
		return NewServer(opts)
	})
}
