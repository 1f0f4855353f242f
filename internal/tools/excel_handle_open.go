package tools

import (
	"context"
	"fmt"
	"html"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	imcp "github.com/negokaz/excel-handle/internal/mcp"
	"github.com/negokaz/excel-handle/internal/session"
	"github.com/negokaz/excel-handle/internal/workbook"
)

// Background and OverwriteIfExists stay nil when the client omits them so
// the server's configured defaults apply.
type ExcelHandleOpenArguments struct {
	FileAbsolutePath  string `zog:"fileAbsolutePath"`
	Background        *bool  `zog:"background"`
	OverwriteIfExists *bool  `zog:"overwriteIfExists"`
}

var excelHandleOpenArgumentsSchema = z.Struct(z.Shape{
	"fileAbsolutePath":  z.String().Test(AbsolutePathTest()).Required(),
	"background":        z.Ptr(z.Bool()),
	"overwriteIfExists": z.Ptr(z.Bool()),
})

func AddExcelHandleOpenTool(server *server.MCPServer, registry *session.Registry) {
	server.AddTool(mcp.NewTool("excel_handle_open",
		mcp.WithDescription("Open a workbook and keep it open as a handle. The workbook is created when it does not exist."),
		mcp.WithString("fileAbsolutePath",
			mcp.Required(),
			mcp.Description("Absolute path to the Excel file"),
		),
		mcp.WithBoolean("background",
			mcp.Description("Hide the Excel window and alert dialogs (default: server setting, normally true)"),
		),
		mcp.WithBoolean("overwriteIfExists",
			mcp.Description("Recreate the workbook even if the file already exists (default: server setting, normally false)"),
		),
	), WithRecovery(handleOpenHandle(registry)))
}

func handleOpenHandle(registry *session.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ExcelHandleOpenArguments{}
		if issues := excelHandleOpenArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return openHandle(registry, args)
	}
}

func openHandle(registry *session.Registry, args ExcelHandleOpenArguments) (*mcp.CallToolResult, error) {
	var opts []workbook.Option
	if args.Background != nil {
		opts = append(opts, workbook.WithBackground(*args.Background))
	}
	if args.OverwriteIfExists != nil {
		opts = append(opts, workbook.WithOverwrite(*args.OverwriteIfExists))
	}

	entry, err := registry.Open(args.FileAbsolutePath, opts...)
	if err != nil {
		return nil, err
	}

	block, err := jsonBlock(entry)
	if err != nil {
		return nil, err
	}
	result := "# Notice\n"
	result += fmt.Sprintf("backend: %s\n", entry.Backend)
	result += fmt.Sprintf("Workbook [%s] opened as handle [%s].\n\n", html.EscapeString(entry.Path), entry.ID)
	result += block
	return mcp.NewToolResultText(result), nil
}
