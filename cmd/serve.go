package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/writetutor/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the text analysis and explanation tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := setupTutor()
		if err != nil {
			return err
		}
		defer setup.close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "writetutor MCP server started on stdio (provider=%s, model=%s)\n",
			setup.cfg.Provider, setup.cfg.EffectiveModel())

		srv := mcpserver.NewServer(setup.client, setup.client, setup.calls)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
