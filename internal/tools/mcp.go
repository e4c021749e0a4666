package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kazz187/taskdigest/pkg/cerr"
	"github.com/kazz187/taskdigest/pkg/clog"
)

const (
	ServerName = "taskdigest"

	instructions = "Digests of Taskmaster tasks and follow-up comments. " +
		"Use get_categories to find category ids, search_tasks or get_provider_updates to look across categories, " +
		"and get_task_summary for one task. Windows are in days; pass window_days=0 for all history. " +
		"Subscriptions and newsletters are keyed by user_email."
)

// NewMCPServer registers every tool of s on a new MCP server.
func NewMCPServer(s *Service, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Title:   "Taskmaster Digest",
			Version: version,
		},
		&mcp.ServerOptions{Instructions: instructions},
	)
	for _, t := range Tools(s) {
		t.addTo(server)
	}
	return server
}

// NewStreamableHTTPHandler serves server over the streamable HTTP transport.
func NewStreamableHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// NewSSEHandler serves server over the legacy SSE transport.
func NewSSEHandler(server *mcp.Server) http.Handler {
	return mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// mcpHandler renders text results as-is and everything else as indented
// JSON. Errors become tool errors carrying the public message.
func mcpHandler[In any](call func(context.Context, In) (any, error)) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		ctx = clog.ContextWithSlog(ctx)
		clog.AddAttribute(ctx, "tool", req.Params.Name)

		out, err := call(ctx, in)
		if err != nil {
			level := slog.LevelWarn
			if cerr.IsCode(err, cerr.Internal) {
				level = slog.LevelError
			}
			slog.Log(ctx, level, "tool call failed", slog.String("error", err.Error()))
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: cerr.Public(err)}},
			}, nil, nil
		}

		text, err := renderText(out)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func renderText(out any) (string, error) {
	if s, ok := out.(string); ok {
		return s, nil
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}
