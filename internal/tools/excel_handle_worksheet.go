package tools

import (
	"context"
	"errors"
	"fmt"
	"html"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	imcp "github.com/negokaz/excel-handle/internal/mcp"
	"github.com/negokaz/excel-handle/internal/session"
)

type ExcelHandleWorksheetArguments struct {
	HandleId  string `zog:"handleId"`
	SheetName string `zog:"sheetName"`
}

var excelHandleWorksheetArgumentsSchema = z.Struct(z.Shape{
	"handleId":  z.String().Required(),
	"sheetName": z.String().Required(),
})

func AddExcelHandleWorksheetTool(server *server.MCPServer, registry *session.Registry) {
	server.AddTool(mcp.NewTool("excel_handle_worksheet",
		mcp.WithDescription("Get a worksheet of an open workbook handle. The worksheet is added after the last sheet and saved when it does not exist."),
		mcp.WithString("handleId",
			mcp.Required(),
			mcp.Description("Handle ID returned by excel_handle_open"),
		),
		mcp.WithString("sheetName",
			mcp.Required(),
			mcp.Description("Exact (case-sensitive) name of the worksheet"),
		),
	), WithRecovery(handleWorksheet(registry)))
}

func handleWorksheet(registry *session.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ExcelHandleWorksheetArguments{}
		if issues := excelHandleWorksheetArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return worksheet(registry, args.HandleId, args.SheetName)
	}
}

func worksheet(registry *session.Registry, handleId string, sheetName string) (*mcp.CallToolResult, error) {
	info, err := registry.Worksheet(handleId, sheetName)
	if errors.Is(err, session.ErrUnknownHandle) {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if err != nil {
		return nil, err
	}

	block, err := jsonBlock(info)
	if err != nil {
		return nil, err
	}
	result := "# Notice\n"
	if info.Created {
		result += fmt.Sprintf("Sheet [%s] created at position %d.\n\n", html.EscapeString(info.Name), info.Index)
	} else {
		result += fmt.Sprintf("Sheet [%s] found at position %d.\n\n", html.EscapeString(info.Name), info.Index)
	}
	result += block
	return mcp.NewToolResultText(result), nil
}
