// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes VoltBid tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/voltbid/voltbid/internal/catalog"
	"github.com/voltbid/voltbid/internal/chainservice"
	"github.com/voltbid/voltbid/internal/models"
)

// Server wraps the MCP server with VoltBid tools.
type Server struct {
	mcp    *server.MCPServer
	chains *chainservice.Service
	cat    *catalog.Service
}

// New creates a new MCP server with all VoltBid tools registered.
func New(chains *chainservice.Service, cat *catalog.Service) *Server {
	s := &Server{chains: chains, cat: cat}

	s.mcp = server.NewMCPServer(
		"VoltBid",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("register_chain_node",
		mcp.WithDescription("Register a node in the contextual heritage chain. "+
			"Node IDs MUST follow the naming conventions; read them first via the "+
			"voltbid://node-conventions resource. Parents must already exist."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Unique node identifier (kebab-case)")),
		mcp.WithString("node_type", mcp.Required(), mcp.Description("Node type, e.g. cost_code or bid")),
		mcp.WithString("parent_nodes", mcp.Description("Comma-separated parent node IDs (empty for a root)")),
	), s.registerChainNode)

	s.mcp.AddTool(mcp.NewTool("get_heritage_lineage",
		mcp.WithDescription("Return every transitive ancestor of a node, nearest first."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to trace")),
	), s.getHeritageLineage)

	s.mcp.AddTool(mcp.NewTool("get_chain_analysis",
		mcp.WithDescription("Return depth, lineage, and chain metrics for a node."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to analyze")),
	), s.getChainAnalysis)

	s.mcp.AddTool(mcp.NewTool("get_chain_snapshot",
		mcp.WithDescription("Return the full descendant tree of a root node with aggregate metrics."),
		mcp.WithString("root_node_id", mcp.Required(), mcp.Description("Root of the subtree to snapshot")),
	), s.getChainSnapshot)

	s.mcp.AddTool(mcp.NewTool("list_cost_codes",
		mcp.WithDescription("List active cost codes from the installation catalog."),
		mcp.WithString("category", mcp.Description("Optional category filter (EQUIPMENT, CONCRETE, CONDUIT, WIRE, SITE, GROUNDING, SAFETY, LABOR, RESTORATION)")),
	), s.listCostCodes)

	s.mcp.AddTool(mcp.NewTool("calculate_bid",
		mcp.WithDescription("Calculate the full cost breakdown for a charging installation "+
			"without persisting a bid. charging_type is L2 or DC_FAST."),
		mcp.WithString("project_name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("charging_type", mcp.Required(), mcp.Description("L2 or DC_FAST")),
		mcp.WithNumber("num_ports", mcp.Required(), mcp.Description("Number of charging ports")),
		mcp.WithNumber("excavation_length", mcp.Description("Trench length in linear feet (0 for default)")),
	), s.calculateBid)

	// Resource: chain node conventions.
	s.mcp.AddResource(
		mcp.NewResource("voltbid://node-conventions", "Chain Node Conventions",
			mcp.WithResourceDescription("Naming and structure conventions for contextual chain nodes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNodeConventionsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) registerChainNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID, err := req.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nodeType, err := req.RequireString("node_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var parents []string
	if raw, err := req.RequireString("parent_nodes"); err == nil && raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parents = append(parents, p)
			}
		}
	}

	node, err := s.chains.CreateNode(ctx, nodeID, nodeType, parents, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(node, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getHeritageLineage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID, err := req.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lineage, err := s.chains.Lineage(ctx, nodeID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(lineage) == 0 {
		return mcp.NewToolResultText("no ancestors (root node)"), nil
	}
	return mcp.NewToolResultText(strings.Join(lineage, "\n")), nil
}

func (s *Server) getChainAnalysis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID, err := req.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, err := s.chains.Analyze(ctx, nodeID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(analysis, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getChainSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rootID, err := req.RequireString("root_node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.chains.Snapshot(ctx, rootID, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(snap, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCostCodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}

	codes, err := s.cat.ListCostCodes(ctx, category, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(codes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) calculateBid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("project_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chargingType, err := req.RequireString("charging_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ports, err := req.RequireFloat("num_ports")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	spec := models.ProjectSpec{
		ProjectName:  name,
		ChargingType: chargingType,
		NumPorts:     int(ports),
	}
	if l, err := req.RequireFloat("excavation_length"); err == nil {
		spec.ExcavationLength = l
	}
	if spec.NumPorts < 1 {
		return mcp.NewToolResultError("num_ports must be at least 1"), nil
	}

	calc, err := s.cat.CalculateBid(spec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("calculate bid: %v", err)), nil
	}
	out, _ := json.MarshalIndent(calc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNodeConventionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "voltbid://node-conventions",
			MIMEType: "text/markdown",
			Text:     NodeConventions,
		},
	}, nil
}
