// Package mcp exposes the RISEN template operations as MCP tools over the
// official Model Context Protocol SDK.
//
// Every tool returns a single human-readable text payload. Expected logical
// outcomes (validation failures, missing templates) are reported inside that
// text; unexpected internal faults are logged in full and surfaced to the
// client as one generic message. Handlers run serially per MCP session, so
// no additional coordination happens here.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/risen/internal/config"
	"github.com/koopa0/risen/internal/store"
)

// Server wraps the MCP SDK server and the template store.
type Server struct {
	mcpServer *mcp.Server
	store     *store.Store
	cfg       *config.Config
	logger    *slog.Logger
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Store   *store.Store
	App     *config.Config
	Logger  *slog.Logger
}

// NewServer creates a new MCP server with all RISEN tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.App == nil {
		return nil, fmt.Errorf("application config is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		store:     cfg.Store,
		cfg:       cfg.App,
		logger:    cfg.Logger.With("component", "mcp"),
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. This is a blocking call
// that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// registerTools registers the full RISEN tool catalog.
func (s *Server) registerTools() error {
	createSchema, err := jsonschema.For[CreateInput](nil)
	if err != nil {
		return fmt.Errorf("schema for risen_create: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risen_create",
		Description: "Create a new RISEN prompt template",
		InputSchema: createSchema,
	}, s.Create)

	validateSchema, err := jsonschema.For[ValidateInput](nil)
	if err != nil {
		return fmt.Errorf("schema for risen_validate: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risen_validate",
		Description: "Validate a RISEN prompt structure and get improvement suggestions",
		InputSchema: validateSchema,
	}, s.Validate)

	executeSchema, err := jsonschema.For[ExecuteInput](nil)
	if err != nil {
		return fmt.Errorf("schema for risen_execute: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risen_execute",
		Description: "Execute a RISEN prompt template with variables",
		InputSchema: executeSchema,
	}, s.Execute)

	trackSchema, err := jsonschema.For[TrackInput](nil)
	if err != nil {
		return fmt.Errorf("schema for risen_track: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risen_track",
		Description: "Track the results of a RISEN prompt execution",
		InputSchema: trackSchema,
	}, s.Track)

	searchSchema, err := jsonschema.For[SearchInput](nil)
	if err != nil {
		return fmt.Errorf("schema for risen_search: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risen_search",
		Description: "Search for RISEN templates with pagination support",
		InputSchema: searchSchema,
	}, s.Search)

	analyzeSchema, err := jsonschema.For[AnalyzeInput](nil)
	if err != nil {
		return fmt.Errorf("schema for risen_analyze: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risen_analyze",
		Description: "Analyze template performance and get insights with pagination",
		InputSchema: analyzeSchema,
	}, s.Analyze)

	suggestSchema, err := jsonschema.For[SuggestInput](nil)
	if err != nil {
		return fmt.Errorf("schema for risen_suggest: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risen_suggest",
		Description: "Get suggestions to improve a RISEN prompt",
		InputSchema: suggestSchema,
	}, s.Suggest)

	convertSchema, err := jsonschema.For[ConvertInput](nil)
	if err != nil {
		return fmt.Errorf("schema for risen_convert: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risen_convert",
		Description: "Convert a natural language request into RISEN format",
		InputSchema: convertSchema,
	}, s.Convert)

	return nil
}
