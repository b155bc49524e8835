// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/outlineservice"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp *server.MCPServer
	svc *outlineservice.Service
}

// New creates a new MCP server with all Ansuz tools registered.
func New(svc *outlineservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_headings",
		mcp.WithDescription("Full-text search through document bodies, heading titles and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchHeadings)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the full text of an outline document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. projects/week.org)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new outline document at the specified path. "+
			"Content MUST follow the canonical document format (star headings, "+
			"scheduling lines, drawers). Read the contract first via the "+
			"get_org_contract tool or the ansuz://org-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new document (must end with .org)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Document text following the Ansuz format contract")),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("outline_document",
		mcp.WithDescription("Return the flattened heading outline of a document: "+
			"level, title, todo state, priority, tags and scheduling per heading."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document")),
	), s.outlineDocument)

	s.mcp.AddTool(mcp.NewTool("edit_outline",
		mcp.WithDescription("Apply structural edit operations to a document without "+
			"rewriting it. Operations address headings by zero-based outline position "+
			"and are applied atomically: if any fails, the file is untouched. "+
			"Supported ops: promote, promote_tree, demote, demote_tree, set_todo, "+
			"set_title, set_tags, set_priority, raise_priority, lower_priority, "+
			"toggle_comment, set_property, delete_property, set_scheduling, set_body."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document")),
		mcp.WithString("ops", mcp.Required(), mcp.Description(`JSON array of operations, e.g. [{"op":"set_todo","position":0,"value":"DONE"}]`)),
	), s.editOutline)

	s.mcp.AddTool(mcp.NewTool("list_agenda",
		mcp.WithDescription("List unfinished headings with a SCHEDULED or DEADLINE "+
			"date inside a window. Defaults to today through one week ahead."),
		mcp.WithString("from", mcp.Description("Window start date, YYYY-MM-DD (optional)")),
		mcp.WithString("to", mcp.Description("Window end date, YYYY-MM-DD (optional)")),
	), s.listAgenda)

	s.mcp.AddTool(mcp.NewTool("clock_report",
		mcp.WithDescription("Summarize CLOCK entries: total minutes, a formatted "+
			"duration and the individual intervals."),
		mcp.WithString("path", mcp.Description("Restrict the report to one document (empty for the whole vault)")),
		mcp.WithString("heading", mcp.Description("Restrict to one heading's subtree (zero-based position; requires path)")),
	), s.clockReport)

	s.mcp.AddTool(mcp.NewTool("get_org_contract",
		mcp.WithDescription("Returns the canonical Ansuz document format contract. "+
			"Call this before creating or editing documents to ensure correct structure."),
	), s.getOrgContract)

	// Resource: document format contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://org-format", "Document Format Contract",
			mcp.WithResourceDescription("Canonical outline document format that all documents must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readOrgFormatResource,
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

func (s *Server) searchHeadings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.CreateDocument(ctx, path, []byte(content)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", path)), nil
}

func (s *Server) outlineDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	headings, err := s.svc.Headings(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(headings, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) editOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("ops")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var ops []outlineservice.EditOp
	if err := json.Unmarshal([]byte(raw), &ops); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid ops JSON: %v", err)), nil
	}
	doc, err := s.svc.EditOutline(ctx, path, "", ops)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) listAgenda(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := ""
	if f, err := req.RequireString("from"); err == nil {
		from = f
	}
	to := ""
	if v, err := req.RequireString("to"); err == nil {
		to = v
	}
	items, err := s.svc.Agenda(ctx, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) clockReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := ""
	if p, err := req.RequireString("path"); err == nil {
		path = p
	}
	position := -1
	if v, err := req.RequireString("heading"); err == nil && v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 0 {
			return mcp.NewToolResultError("heading must be a non-negative integer"), nil
		}
		position = n
	}
	report, err := s.svc.ClockReport(ctx, path, position)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getOrgContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(OrgFormatContract), nil
}

func (s *Server) readOrgFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://org-format",
			MIMEType: "text/markdown",
			Text:     OrgFormatContract,
		},
	}, nil
}
