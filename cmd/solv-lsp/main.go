// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"solv/internal/lsp"
)

const lsName = "solv" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	solvHandler := lsp.NewSolvHandler()

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:                 solvHandler.Initialize,
		Initialized:                solvHandler.Initialized,
		Shutdown:                   solvHandler.Shutdown,
		SetTrace:                   solvHandler.SetTrace,
		TextDocumentDidOpen:        solvHandler.TextDocumentDidOpen,
		TextDocumentDidClose:       solvHandler.TextDocumentDidClose,
		TextDocumentDidChange:      solvHandler.TextDocumentDidChange,
		TextDocumentDefinition:     solvHandler.TextDocumentDefinition,
		TextDocumentDeclaration:    solvHandler.TextDocumentDeclaration,
		TextDocumentTypeDefinition: solvHandler.TextDocumentTypeDefinition,
		TextDocumentImplementation: solvHandler.TextDocumentImplementation,
		TextDocumentReferences:     solvHandler.TextDocumentReferences,
	}

	// Create a new GLSP server instance over standard input/output, which is
	// how editors talk to the language server process.
	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting Solv LSP server...")

	err := s.RunStdio()
	if err != nil {
		log.Println("Error starting Solv LSP server:", err)
		os.Exit(1)
	}
}
