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
)

type ExcelConstantsArguments struct {
	Name string `zog:"name"`
}

var excelConstantsArgumentsSchema = z.Struct(z.Shape{
	"name": z.String(),
})

func AddExcelConstantsTool(server *server.MCPServer, registry *session.Registry) {
	server.AddTool(mcp.NewTool("excel_constants",
		mcp.WithDescription("Look up Excel automation constants (e.g. xlOpenXMLWorkbook)"),
		mcp.WithString("name",
			mcp.Description("Constant name to look up. All constants are listed when omitted."),
		),
	), WithRecovery(handleConstants(registry)))
}

func handleConstants(registry *session.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ExcelConstantsArguments{}
		if issues := excelConstantsArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return constants(registry, args.Name)
	}
}

func constants(registry *session.Registry, name string) (*mcp.CallToolResult, error) {
	table := registry.Constants()
	if name != "" {
		value, ok := table.Lookup(name)
		if !ok {
			return imcp.NewToolResultInvalidArgumentError(fmt.Sprintf("unknown constant: %s", name)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s = %d\n", html.EscapeString(name), value)), nil
	}

	values := make(map[string]int32, table.Len())
	for _, n := range table.Names() {
		values[n], _ = table.Lookup(n)
	}
	block, err := jsonBlock(values)
	if err != nil {
		return nil, err
	}
	result := "# Constants\n"
	result += fmt.Sprintf("%d constant(s):\n\n", table.Len())
	result += block
	return mcp.NewToolResultText(result), nil
}
