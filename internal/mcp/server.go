// Package mcp exposes menu generation and the menu archive as MCP tools
// over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/alexanderramin/swimmenu/internal/app"
)

// Deps are the use cases the tools call.
type Deps struct {
	Generator app.GenerateUseCase
	Menus     app.MenuStore
	Search    app.SearchUseCase
	Exports   app.ExportUseCase
}

// New creates an MCP server with all tools registered.
func New(deps Deps, version string, log *slog.Logger) *server.MCPServer {
	if log == nil {
		log = slog.Default()
	}
	s := server.NewMCPServer("swimmenu", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Swim training menu server. Generate timed pool workouts from load levels and a duration, then browse, search and export stored menus."),
	)

	h := &handlers{deps: deps, log: log}
	s.AddTools(
		server.ServerTool{Tool: toolGenerateMenu, Handler: h.generateMenu},
		server.ServerTool{Tool: toolGetMenu, Handler: h.getMenu},
		server.ServerTool{Tool: toolListMenus, Handler: h.listMenus},
		server.ServerTool{Tool: toolSearchMenus, Handler: h.searchMenus},
		server.ServerTool{Tool: toolExportMenu, Handler: h.exportMenu},
	)
	return s
}

// FromApp builds the MCP server over a wired App.
func FromApp(a *app.App, version string) *server.MCPServer {
	return New(Deps{Generator: a.Generator, Menus: a.Menus, Search: a, Exports: a}, version, a.Logger)
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
