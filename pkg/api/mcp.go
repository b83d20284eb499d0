// CLAUDE:SUMMARY MCP server exposing the five analysis tools over the shared endpoints.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/vietdanh/pkg/dict"
	"github.com/hazyhaar/vietdanh/pkg/kit"
)

// NewMCPServer returns an MCP server exposing the analysis tools.
func NewMCPServer(reg *dict.Registry, logger *slog.Logger, version string) *server.MCPServer {
	srv := server.NewMCPServer("vietdanh", version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, NewEndpoints(reg, logger))
	return srv
}

// RegisterMCPTools registers the five analysis tools on the server.
func RegisterMCPTools(srv *server.MCPServer, eps *Endpoints) {
	kit.RegisterMCPTool(srv, mcp.NewTool("analyze_name",
		mcp.WithDescription("Analyze a Vietnamese full name: six cục (Tĩnh Cục, Động Cục, Tiền Vận, Hậu Vận, Phúc Đức, Tứ Túc), total score, grade, elements and advice."),
		mcp.WithString("surname", mcp.Required(), mcp.Description("Family name (họ), e.g. Nguyễn")),
		mcp.WithString("middle", mcp.Description("Middle name (đệm), may be empty or several syllables")),
		mcp.WithString("given", mcp.Required(), mcp.Description("Given name (tên)")),
		mcp.WithString("gender", mcp.Required(), mcp.Description("male or female (nam / nữ)")),
		mcp.WithString("format", mcp.Description("json (default), markdown or html")),
	), analyzeToolEndpoint(eps), decodeAnalyzeArgs)

	kit.RegisterMCPTool(srv, mcp.NewTool("lookup_syllable",
		mcp.WithDescription("Look up the stroke count and element of a syllable (the last word of the text)."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Syllable, with or without diacritics")),
	), eps.Lookup, decodeLookupArgs)

	kit.RegisterMCPTool(srv, mcp.NewTool("suggest_syllables",
		mcp.WithDescription("List syllables carrying an element (Kim, Mộc, Thủy, Hỏa, Thổ)."),
		mcp.WithString("element", mcp.Required(), mcp.Description("Element name")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 20)")),
	), eps.Suggest, decodeSuggestArgs)

	kit.RegisterMCPTool(srv, mcp.NewTool("describe_cuc",
		mcp.WithDescription("Describe one cục number (1-81): name, luck, score and interpretation."),
		mcp.WithNumber("number", mcp.Required(), mcp.Description("Cục number, 1 to 81")),
	), eps.Cuc, decodeCucArgs)

	kit.RegisterMCPTool(srv, mcp.NewTool("list_tables",
		mcp.WithDescription("List the loaded lookup tables with version, source and entry count."),
	), eps.Tables, func(mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{}, nil
	})
}

// analyzeToolEndpoint answers with the JSON report, or with the rendered
// body when a text format is requested.
func analyzeToolEndpoint(eps *Endpoints) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*reportReq)
		format := strings.ToLower(strings.TrimSpace(req.Format))
		if format == "" || format == "json" {
			return eps.Analyze(ctx, &req.analyzeReq)
		}
		resp, err := eps.Report(ctx, req)
		if err != nil {
			return nil, err
		}
		return resp.(*renderedReport).Body, nil
	}
}

func decodeAnalyzeArgs(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	r := &reportReq{}
	r.Surname, _ = args["surname"].(string)
	r.Middle, _ = args["middle"].(string)
	r.Given, _ = args["given"].(string)
	r.Gender, _ = args["gender"].(string)
	r.Format, _ = args["format"].(string)
	return &kit.MCPDecodeResult{Request: r}, nil
}

func decodeLookupArgs(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	text, _ := req.GetArguments()["text"].(string)
	return &kit.MCPDecodeResult{Request: &lookupReq{Text: text}}, nil
}

func decodeSuggestArgs(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	element, _ := args["element"].(string)
	limit, err := intArg(args, "limit")
	if err != nil {
		return nil, err
	}
	return &kit.MCPDecodeResult{Request: &suggestReq{Element: element, Limit: limit}}, nil
}

func decodeCucArgs(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	n, err := intArg(req.GetArguments(), "number")
	if err != nil {
		return nil, err
	}
	return &kit.MCPDecodeResult{Request: &cucReq{Number: n}}, nil
}

// intArg reads a JSON number argument; absent means 0.
func intArg(args map[string]any, name string) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, nil
	}
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return int(f), nil
}
