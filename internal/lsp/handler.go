package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"solv/internal/engine"
)

// SolvHandler implements the LSP server handlers for Solidity navigation
// and diagnostics.
type SolvHandler struct {
	engine *engine.Engine
}

// NewSolvHandler creates a handler without a project root; Initialize picks
// the root up from the client.
func NewSolvHandler() *SolvHandler {
	return &SolvHandler{
		engine: engine.New(""),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *SolvHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	if root := rootPath(params); root != "" {
		h.engine = engine.New(root)
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			DefinitionProvider:     true,
			DeclarationProvider:    true,
			TypeDefinitionProvider: true,
			ImplementationProvider: true,
			ReferencesProvider:     true,
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *SolvHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("Solv LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *SolvHandler) Shutdown(ctx *glsp.Context) error {
	log.Println("Solv LSP Shutdown")
	return nil
}

// SetTrace handles trace level changes from the client
func (h *SolvHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *SolvHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.engine.UpdateFile(path, params.TextDocument.Text)
	h.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

// TextDocumentDidChange handles file change notifications from the editor
func (h *SolvHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	content, ok := fullContent(params.ContentChanges)
	if !ok {
		// Sync is full-document; fall back to disk if a client sends
		// something else.
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read file %s: %w", path, readErr)
		}
		content = string(data)
	}

	h.engine.UpdateFile(path, content)
	h.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *SolvHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.engine.CloseFile(path)
	return nil
}

// TextDocumentDefinition resolves go-to-definition requests
func (h *SolvHandler) TextDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}
	locations := h.engine.Definitions(path, toPosition(params.Position))
	return toProtocolLocations(locations), nil
}

// TextDocumentDeclaration resolves go-to-declaration requests
func (h *SolvHandler) TextDocumentDeclaration(ctx *glsp.Context, params *protocol.DeclarationParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}
	locations := h.engine.Declarations(path, toPosition(params.Position))
	return toProtocolLocations(locations), nil
}

// TextDocumentTypeDefinition resolves go-to-type-definition requests
func (h *SolvHandler) TextDocumentTypeDefinition(ctx *glsp.Context, params *protocol.TypeDefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}
	locations := h.engine.TypeDefinitions(path, toPosition(params.Position))
	return toProtocolLocations(locations), nil
}

// TextDocumentImplementation resolves go-to-implementation requests
func (h *SolvHandler) TextDocumentImplementation(ctx *glsp.Context, params *protocol.ImplementationParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}
	locations := h.engine.Implementations(path, toPosition(params.Position))
	return toProtocolLocations(locations), nil
}

// TextDocumentReferences resolves find-references requests
func (h *SolvHandler) TextDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}
	includeDeclaration := params.Context.IncludeDeclaration
	locations := h.engine.References(path, toPosition(params.Position), includeDeclaration)
	return toProtocolLocations(locations), nil
}

func (h *SolvHandler) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, path string) {
	diagnostics := toProtocolDiagnostics(h.engine.Diagnostics(path, nil))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// fullContent extracts the whole-document text from a change batch.
func fullContent(changes []any) (string, bool) {
	content := ""
	found := false
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
			found = true
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				content = c.Text
				found = true
			}
		}
	}
	return content, found
}

func rootPath(params *protocol.InitializeParams) string {
	if params.RootURI != nil {
		if path, err := uriToPath(string(*params.RootURI)); err == nil {
			return path
		}
	}
	if params.RootPath != nil {
		return *params.RootPath
	}
	return ""
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	// Normalize to platform-specific separators
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
