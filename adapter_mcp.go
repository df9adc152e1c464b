package kwonly

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func (a *App) buildMcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as a Model Context Protocol (MCP) server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.newMCPServer().Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
	return cmd
}

// newMCPServer registers one tool per function. Tool arguments use the
// CallRequest shape {"args": [...], "kwargs": {...}}, or a flat object
// of named values.
func (a *App) newMCPServer() *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    a.config.Name,
		Version: a.config.Version,
	}, nil)

	for _, fn := range a.functions {
		tool := mcp.Tool{
			Name:        fn.Name,
			Description: fn.Description,
			InputSchema: GenerateJSONSchema(fn.Func),
		}
		s.AddTool(&tool, a.toolHandler(fn))
	}
	return s
}

func (a *App) toolHandler(fn *RegisteredFunc) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var callReq CallRequest
		if req.Params != nil && len(req.Params.Arguments) > 0 {
			var err error
			if callReq, err = decodeToolArguments(req.Params.Arguments); err != nil {
				return toolResult(buildErrorResponse(fmt.Sprintf("Invalid arguments format: %v", err)), true), nil
			}
		}
		callReq.Function = fn.Name

		results, err := a.invoke(ctx, fn, callReq)
		if err != nil {
			return toolResult(buildCallErrorResponse(err), true), nil
		}
		return toolResult(buildSuccessResponse(results), false), nil
	}
}

// decodeToolArguments reads an object holding only "args" and "kwargs" as
// a CallRequest. Any other object is taken as named values.
func decodeToolArguments(raw json.RawMessage) (CallRequest, error) {
	var req CallRequest
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return req, err
	}
	for key := range fields {
		if key != "args" && key != "kwargs" {
			err := json.Unmarshal(raw, &req.Kwargs)
			return req, err
		}
	}
	err := json.Unmarshal(raw, &req)
	return req, err
}

func toolResult(body map[string]any, isError bool) *mcp.CallToolResult {
	text, err := json.Marshal(body)
	if err != nil {
		text, isError = []byte(`{"error":"failed to marshal response"}`), true
	}
	return &mcp.CallToolResult{
		IsError: isError,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(text)},
		},
	}
}
