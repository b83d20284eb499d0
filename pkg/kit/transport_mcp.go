// CLAUDE:SUMMARY Adapter that registers a kit Endpoint as an mcp-go tool with argument decoding and JSON results.
package kit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPDecodeResult holds the decoded request and an optional context enrichment.
type MCPDecodeResult struct {
	Request   any
	EnrichCtx func(context.Context) context.Context
}

// MCPDecodeFunc extracts the typed request from MCP arguments.
type MCPDecodeFunc func(mcp.CallToolRequest) (*MCPDecodeResult, error)

// RegisterMCPTool registers an Endpoint as an MCP tool on the given server.
// Calls carry a fresh request id and the mcp transport unless the session
// already recorded one. Endpoint errors become tool errors; responses are
// returned as JSON text.
func RegisterMCPTool(srv *server.MCPServer, tool mcp.Tool, endpoint Endpoint, decode MCPDecodeFunc) {
	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		decoded, err := decode(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if !HasTransport(ctx) {
			ctx = WithTransport(ctx, TransportMCP)
		}
		ctx = WithRequestID(ctx, NewRequestID())
		if decoded.EnrichCtx != nil {
			ctx = decoded.EnrichCtx(ctx)
		}

		resp, err := endpoint(ctx, decoded.Request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if text, ok := resp.(string); ok {
			return mcp.NewToolResultText(text), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
