package tools

import (
	"context"
	"errors"
	"fmt"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	imcp "github.com/negokaz/excel-handle/internal/mcp"
	"github.com/negokaz/excel-handle/internal/session"
)

type ExcelHandleCloseArguments struct {
	HandleId string `zog:"handleId"`
	Save     bool   `zog:"save"`
}

var excelHandleCloseArgumentsSchema = z.Struct(z.Shape{
	"handleId": z.String().Required(),
	"save":     z.Bool().Default(true),
})

func AddExcelHandleCloseTool(server *server.MCPServer, registry *session.Registry) {
	server.AddTool(mcp.NewTool("excel_handle_close",
		mcp.WithDescription("Close an open workbook handle and quit its Excel instance"),
		mcp.WithString("handleId",
			mcp.Required(),
			mcp.Description("Handle ID returned by excel_handle_open"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Save the workbook before closing (default: true)"),
		),
	), WithRecovery(handleClose(registry)))
}

func handleClose(registry *session.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ExcelHandleCloseArguments{}
		if issues := excelHandleCloseArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return closeHandle(registry, args.HandleId, args.Save)
	}
}

func closeHandle(registry *session.Registry, handleId string, save bool) (*mcp.CallToolResult, error) {
	err := registry.Close(handleId, save)
	if errors.Is(err, session.ErrUnknownHandle) {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if err != nil {
		return nil, err
	}

	result := "# Notice\n"
	if save {
		result += fmt.Sprintf("Handle [%s] saved and closed.\n", handleId)
	} else {
		result += fmt.Sprintf("Handle [%s] closed without saving.\n", handleId)
	}
	return mcp.NewToolResultText(result), nil
}
