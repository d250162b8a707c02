// Package mcp exposes the completion engine over the Model Context Protocol
// on stdio, so editors and agents drive it without linking against the
// engine directly.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/standardbeagle/lcc/internal/config"
	"github.com/standardbeagle/lcc/internal/engine"
	"github.com/standardbeagle/lcc/internal/index"
	"github.com/standardbeagle/lcc/internal/version"
)

// Server wires the engine behind MCP tools.
type Server struct {
	engine *engine.Engine
	cfg    *config.Config
	log    *zap.Logger
	server *mcp.Server

	mu     sync.RWMutex
	static *index.Store
}

// NewServer creates the MCP server. A snapshot path in the config is loaded
// eagerly; a load failure is fatal at startup (unlike a reload at runtime,
// which keeps the previous index).
func NewServer(eng *engine.Engine, cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		engine: eng,
		cfg:    cfg,
		log:    log,
	}

	if cfg.Server.SnapshotPath != "" {
		store, err := index.LoadSnapshot(cfg.Server.SnapshotPath)
		if err != nil {
			return nil, err
		}
		s.static = store
		log.Info("static index loaded",
			zap.String("path", cfg.Server.SnapshotPath),
			zap.Int("symbols", store.Len()))
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "lcc-mcp-server",
		Version: version.Version,
	}, nil)
	s.registerTools()
	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// CompleteParams are the arguments of the complete tool. Option fields are
// pointers so absent values fall back to the server configuration.
type CompleteParams struct {
	Path     string  `json:"path"`
	Offset   int     `json:"offset"`
	Contents *string `json:"contents,omitempty"`

	Limit                    *int  `json:"limit,omitempty"`
	IncludeMacros            *bool `json:"include_macros,omitempty"`
	IncludeGlobals           *bool `json:"include_globals,omitempty"`
	IncludeBriefComments     *bool `json:"include_brief_comments,omitempty"`
	EnableSnippets           *bool `json:"enable_snippets,omitempty"`
	IncludeCodePatterns      *bool `json:"include_code_patterns,omitempty"`
	IncludeIneligibleResults *bool `json:"include_ineligible_results,omitempty"`
}

// SignatureHelpParams are the arguments of the signature_help tool.
type SignatureHelpParams struct {
	Path     string  `json:"path"`
	Offset   int     `json:"offset"`
	Contents *string `json:"contents,omitempty"`
}

// OpenDocumentParams are the arguments of the open_document tool. Text is
// read from disk when omitted.
type OpenDocumentParams struct {
	URI  string  `json:"uri"`
	Text *string `json:"text,omitempty"`
}

// CloseDocumentParams are the arguments of the close_document tool.
type CloseDocumentParams struct {
	URI string `json:"uri"`
}

// LoadIndexParams are the arguments of the load_index tool.
type LoadIndexParams struct {
	Path string `json:"path"`
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "complete",
		Description: "Code completion at a byte offset in an open document. Returns an LSP CompletionList ranked by fuzzy match quality.",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"path", "offset"},
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Document path previously passed to open_document",
				},
				"offset": {
					Type:        "integer",
					Description: "Byte offset of the cursor",
				},
				"contents": {
					Type:        "string",
					Description: "Override the stored document text for this request only",
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum results, 0 = unbounded",
				},
				"include_macros":             {Type: "boolean"},
				"include_globals":            {Type: "boolean"},
				"include_brief_comments":     {Type: "boolean"},
				"enable_snippets":            {Type: "boolean"},
				"include_code_patterns":      {Type: "boolean"},
				"include_ineligible_results": {Type: "boolean"},
			},
		},
	}, s.handleComplete)

	s.server.AddTool(&mcp.Tool{
		Name:        "signature_help",
		Description: "Overload signatures for the call expression enclosing a byte offset, with the active parameter derived from the typed arguments.",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"path", "offset"},
			Properties: map[string]*jsonschema.Schema{
				"path":   {Type: "string"},
				"offset": {Type: "integer"},
				"contents": {
					Type:        "string",
					Description: "Override the stored document text for this request only",
				},
			},
		},
	}, s.handleSignatureHelp)

	s.server.AddTool(&mcp.Tool{
		Name:        "open_document",
		Description: "Register or replace a document. Accepts a file:// URI or a plain path; text is read from disk when not supplied inline.",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"uri"},
			Properties: map[string]*jsonschema.Schema{
				"uri":  {Type: "string"},
				"text": {Type: "string"},
			},
		},
	}, s.handleOpenDocument)

	s.server.AddTool(&mcp.Tool{
		Name:        "close_document",
		Description: "Drop a document and its dynamic index contribution.",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"uri"},
			Properties: map[string]*jsonschema.Schema{
				"uri": {Type: "string"},
			},
		},
	}, s.handleCloseDocument)

	s.server.AddTool(&mcp.Tool{
		Name:        "load_index",
		Description: "Load a static index snapshot (TOML). On failure the previously loaded index stays active.",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"path"},
			Properties: map[string]*jsonschema.Schema{
				"path": {Type: "string"},
			},
		},
	}, s.handleLoadIndex)

	s.server.AddTool(&mcp.Tool{
		Name:        "status",
		Description: "Server status: version, open documents, and index sizes.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleStatus)
}

func (s *Server) handleComplete(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params CompleteParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("complete", fmt.Errorf("invalid parameters: %w", err))
	}

	opts := s.requestOptions(params)
	list, err := s.engine.Complete(ctx, engine.Request{
		Path:     params.Path,
		Offset:   params.Offset,
		Contents: params.Contents,
		Options:  opts,
	}).Get(ctx)
	if err != nil {
		return createErrorResponse("complete", err)
	}
	return createJSONResponse(list)
}

func (s *Server) handleSignatureHelp(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params SignatureHelpParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("signature_help", fmt.Errorf("invalid parameters: %w", err))
	}

	help, err := s.engine.SignatureHelp(ctx, engine.Request{
		Path:     params.Path,
		Offset:   params.Offset,
		Contents: params.Contents,
		Options:  s.cfg.Options(),
	}).Get(ctx)
	if err != nil {
		return createErrorResponse("signature_help", err)
	}
	return createJSONResponse(help)
}

func (s *Server) handleOpenDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params OpenDocumentParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("open_document", fmt.Errorf("invalid parameters: %w", err))
	}

	path := documentPath(params.URI)
	var text string
	if params.Text != nil {
		text = *params.Text
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return createErrorResponse("open_document", err)
		}
		text = string(data)
	}

	if _, err := s.engine.AddDocument(ctx, path, text).Get(ctx); err != nil {
		return createErrorResponse("open_document", err)
	}
	return createJSONResponse(map[string]interface{}{
		"path":  path,
		"bytes": len(text),
	})
}

func (s *Server) handleCloseDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params CloseDocumentParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("close_document", fmt.Errorf("invalid parameters: %w", err))
	}
	path := documentPath(params.URI)
	s.engine.RemoveDocument(path)
	return createJSONResponse(map[string]interface{}{"path": path, "closed": true})
}

func (s *Server) handleLoadIndex(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params LoadIndexParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("load_index", fmt.Errorf("invalid parameters: %w", err))
	}

	store, err := index.LoadSnapshot(params.Path)
	if err != nil {
		return createErrorResponse("load_index", err)
	}
	s.mu.Lock()
	s.static = store
	s.mu.Unlock()

	s.log.Info("static index loaded",
		zap.String("path", params.Path),
		zap.Int("symbols", store.Len()))
	return createJSONResponse(map[string]interface{}{
		"path":    params.Path,
		"symbols": store.Len(),
	})
}

func (s *Server) handleStatus(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	staticLen := 0
	if s.static != nil {
		staticLen = s.static.Len()
	}
	s.mu.RUnlock()

	return createJSONResponse(map[string]interface{}{
		"version":        version.Version,
		"dynamic_files":  s.engine.DynamicIndex().Files(),
		"static_symbols": staticLen,
	})
}

// requestOptions merges per-request overrides over the configured defaults
// and attaches the current static index.
func (s *Server) requestOptions(params CompleteParams) config.Options {
	opts := s.cfg.Options()
	if params.Limit != nil {
		opts.Limit = *params.Limit
	}
	if params.IncludeMacros != nil {
		opts.IncludeMacros = *params.IncludeMacros
	}
	if params.IncludeGlobals != nil {
		opts.IncludeGlobals = *params.IncludeGlobals
	}
	if params.IncludeBriefComments != nil {
		opts.IncludeBriefComments = *params.IncludeBriefComments
	}
	if params.EnableSnippets != nil {
		opts.EnableSnippets = *params.EnableSnippets
	}
	if params.IncludeCodePatterns != nil {
		opts.IncludeCodePatterns = *params.IncludeCodePatterns
	}
	if params.IncludeIneligibleResults != nil {
		opts.IncludeIneligibleResults = *params.IncludeIneligibleResults
	}

	s.mu.RLock()
	if s.static != nil {
		opts.Index = s.static
	}
	s.mu.RUnlock()
	return opts
}

// documentPath accepts either a file:// URI or a plain filesystem path.
func documentPath(raw string) string {
	if strings.HasPrefix(raw, "file://") {
		return uri.New(raw).Filename()
	}
	return raw
}
