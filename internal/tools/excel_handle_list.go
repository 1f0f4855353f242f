package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/negokaz/excel-handle/internal/session"
)

func AddExcelHandleListTool(server *server.MCPServer, registry *session.Registry) {
	server.AddTool(mcp.NewTool("excel_handle_list",
		mcp.WithDescription("List all open workbook handles"),
	), WithRecovery(handleListHandles(registry)))
}

func handleListHandles(registry *session.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return listHandles(registry)
	}
}

func listHandles(registry *session.Registry) (*mcp.CallToolResult, error) {
	entries := registry.List()
	block, err := jsonBlock(entries)
	if err != nil {
		return nil, err
	}

	result := "# Open Handles\n"
	result += fmt.Sprintf("Found %d open handle(s):\n\n", len(entries))
	result += block
	return mcp.NewToolResultText(result), nil
}
