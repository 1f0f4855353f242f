package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/negokaz/excel-handle/internal/session"
	"github.com/negokaz/excel-handle/internal/tools"
	"github.com/rs/zerolog/log"
)

type ExcelServer struct {
	server   *server.MCPServer
	registry *session.Registry
}

func New(version string, registry *session.Registry) *ExcelServer {
	s := &ExcelServer{registry: registry}
	s.server = server.NewMCPServer(
		"excel-handle",
		version,
	)
	tools.AddExcelHandleOpenTool(s.server, registry)
	tools.AddExcelHandleWorksheetTool(s.server, registry)
	tools.AddExcelHandleSaveTool(s.server, registry)
	tools.AddExcelHandleCloseTool(s.server, registry)
	tools.AddExcelHandleListTool(s.server, registry)
	tools.AddExcelConstantsTool(s.server, registry)
	return s
}

// Start serves MCP over stdio until the client disconnects. Handles still
// open at that point are released without saving.
func (s *ExcelServer) Start() error {
	defer func() {
		if n := len(s.registry.List()); n > 0 {
			log.Warn().Int("handles", n).Msg("Releasing handles left open by the client")
		}
		s.registry.ReleaseAll()
	}()
	return server.ServeStdio(s.server)
}
