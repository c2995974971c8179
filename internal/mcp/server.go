// Package mcp exposes symptom analysis as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
)

// Tool names
const (
	ToolAnalyzeSymptoms  = "analyze_symptoms"
	ToolListConditions   = "list_conditions"
	ToolGetConditionInfo = "get_condition_info"
)

// Server represents the symptom analyzer MCP server
type Server struct {
	config    domain.MCPConfig
	mcpServer *mcp.Server
	analyzer  domain.SymptomAnalyzer
	catalog   *catalog.Catalog
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance with all tools registered.
func NewServer(cfg domain.MCPConfig, logger *logrus.Logger, analyzer domain.SymptomAnalyzer, c *catalog.Catalog) (*Server, error) {
	if cfg.ServerName == "" {
		cfg.ServerName = "symptom-analyzer"
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "1.0.0"
	}

	serverInfo := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}

	server := &Server{
		config:    cfg,
		mcpServer: mcp.NewServer(serverInfo, nil),
		analyzer:  analyzer,
		catalog:   c,
		logger:    logger,
	}

	if err := server.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return server, nil
}

// Start runs the server on the configured transport until ctx is done or
// the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	var transport mcp.Transport
	switch s.config.TransportType {
	case "", "stdio":
		transport = &mcp.StdioTransport{}
	default:
		return fmt.Errorf("unsupported MCP transport: %s", s.config.TransportType)
	}

	s.logger.WithFields(logrus.Fields{
		"server_name":    s.config.ServerName,
		"server_version": s.config.ServerVersion,
		"transport_type": "stdio",
	}).Info("Starting MCP server")

	if err := s.mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// registerTools registers the analysis and catalog tools with the SDK.
func (s *Server) registerTools() error {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolAnalyzeSymptoms,
		Description: "Analyze a free-text symptom description. Returns the most likely condition, an urgency tier, recommendations and consultation fees. Informational only, not a diagnosis.",
	}, s.handleAnalyzeSymptoms)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListConditions,
		Description: "List every condition the analyzer can report, with consultation fees.",
	}, s.handleListConditions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolGetConditionInfo,
		Description: "Get medication advice and consultation fees for one condition.",
	}, s.handleGetConditionInfo)

	s.logger.WithField("tool_count", 3).Info("Successfully registered all tools")
	return nil
}
