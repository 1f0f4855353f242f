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

type ExcelHandleSaveArguments struct {
	HandleId   string `zog:"handleId"`
	SaveAsPath string `zog:"saveAsPath"`
}

var excelHandleSaveArgumentsSchema = z.Struct(z.Shape{
	"handleId":   z.String().Required(),
	"saveAsPath": z.String().Test(AbsolutePathTest()),
})

func AddExcelHandleSaveTool(server *server.MCPServer, registry *session.Registry) {
	server.AddTool(mcp.NewTool("excel_handle_save",
		mcp.WithDescription("Save an open workbook handle, optionally to another file. Saving to another file does not change the handle's own path."),
		mcp.WithString("handleId",
			mcp.Required(),
			mcp.Description("Handle ID returned by excel_handle_open"),
		),
		mcp.WithString("saveAsPath",
			mcp.Description("Absolute path to save to (default: the handle's own path)"),
		),
	), WithRecovery(handleSave(registry)))
}

func handleSave(registry *session.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ExcelHandleSaveArguments{}
		if issues := excelHandleSaveArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return save(registry, args.HandleId, args.SaveAsPath)
	}
}

func save(registry *session.Registry, handleId string, saveAsPath string) (*mcp.CallToolResult, error) {
	entry, err := registry.Get(handleId)
	if errors.Is(err, session.ErrUnknownHandle) {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if err != nil {
		return nil, err
	}
	if err := registry.Save(handleId, saveAsPath); err != nil {
		return nil, err
	}

	target := entry.Path
	if saveAsPath != "" {
		target = saveAsPath
	}
	result := "# Notice\n"
	result += fmt.Sprintf("Workbook saved to [%s].\n", html.EscapeString(target))
	return mcp.NewToolResultText(result), nil
}
