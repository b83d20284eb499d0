// CLAUDE:SUMMARY CLI subcommand that serves the MCP tools on stdio.
package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/vietdanh/pkg/api"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis tools over MCP stdio",
	Long: `Run an MCP server on stdin/stdout exposing analyze_name,
lookup_syllable, suggest_syllables, describe_cuc and list_tables.

Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	reg, err := loadRegistry(logger)
	if err != nil {
		return err
	}
	return server.ServeStdio(api.NewMCPServer(reg, logger, version))
}
