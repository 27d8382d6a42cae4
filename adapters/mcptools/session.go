// Package mcptools exposes the analytics engine as MCP tools. All tools of
// one server share a session, and with it one dataset.
package mcptools

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sheetlens/internal/analytics"
	"sheetlens/ports"
)

// Tool is one MCP tool: its schema and its handler
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Session serialises tool calls on a single engine
type Session struct {
	mu            sync.Mutex
	engine        ports.AnalyticsEngine
	exportDir     string
	whiskerFactor float64
}

// NewSession wraps engine. exportDir is where sheet_export writes by
// default; whiskerFactor is used when a caller gives none.
func NewSession(engine ports.AnalyticsEngine, exportDir string, whiskerFactor float64) *Session {
	return &Session{engine: engine, exportDir: exportDir, whiskerFactor: whiskerFactor}
}

func (s *Session) locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Tools lists every tool bound to s
func Tools(s *Session) []Tool {
	return []Tool{
		&LoadTool{s},
		&IntegrityTool{s},
		&RemediateTool{s},
		&DescribeTool{s},
		&OutliersTool{s},
		&DistributionTool{s},
		&TrendTool{s},
		&BoxPlotTool{s},
		&ExportTool{s},
		&ReportTool{s},
	}
}

// Register adds every tool to srv
func Register(srv *server.MCPServer, s *Session) {
	for _, t := range Tools(s) {
		srv.AddTool(t.Definition(), t.Handle)
	}
}

// envelopeResult renders res as indented JSON, flagged as a tool error when
// the operation failed
func envelopeResult[T any](res analytics.Result[T]) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error()), nil
	}
	if !res.OK() {
		return mcp.NewToolResultError(string(raw)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// stringsArg extracts a string array argument; JSON arrays arrive as
// []interface{}
func stringsArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// floatArg extracts a number argument, reporting whether it was present
func floatArg(req mcp.CallToolRequest, key string) (float64, bool) {
	v, ok := req.GetArguments()[key].(float64)
	return v, ok
}

// boolArg extracts a boolean argument
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
