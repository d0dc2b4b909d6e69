package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newServeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Long:  "Run the REST API on SWIMMENU_HTTP_ADDR until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.ServeHTTP == nil {
				return errors.New("http server is not configured")
			}
			return a.ServeHTTP(cmd.Context())
		},
	}
}

func newMCPCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.ServeMCP == nil {
				return errors.New("mcp server is not configured")
			}
			return a.ServeMCP(cmd.Context())
		},
	}
}
