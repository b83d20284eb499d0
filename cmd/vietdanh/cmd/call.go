// CLAUDE:SUMMARY CLI subcommand that calls the MCP tools of a running server over QUIC.
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/vietdanh/pkg/mcpquic"
)

var callCmd = &cobra.Command{
	Use:   "call <tool> [name=value]...",
	Short: "Call an MCP tool on a server over QUIC",
	Long: `Connect to 'vietdanh serve --tls' over QUIC and call one MCP tool.
Arguments are name=value pairs; numeric values are sent as numbers.
Without a tool name, lists the server's tools.`,
	Example: `  vietdanh call --server localhost:8421
  vietdanh call analyze_name surname=Nguyễn middle=Văn given=An gender=male format=markdown
  vietdanh call describe_cuc number=21`,
	RunE: runCall,
}

var (
	callServer   string
	callInsecure bool
)

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callServer, "server", "localhost:8421", "server address (host:port, UDP)")
	callCmd.Flags().BoolVar(&callInsecure, "insecure", false, "skip certificate verification")
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	c := mcpquic.NewClient(callServer, mcpquic.ClientTLS(callInsecure))
	if err := c.Connect(ctx, "vietdanh-cli", version); err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		tools, err := c.ListTools(ctx)
		if err != nil {
			return err
		}
		for _, t := range tools.Tools {
			fmt.Fprintf(out, "%-18s  %s\n", t.Name, t.Description)
		}
		return nil
	}

	toolArgs, err := parseToolArgs(args[1:])
	if err != nil {
		return err
	}
	res, err := c.CallTool(ctx, args[0], toolArgs)
	if err != nil {
		return err
	}
	for _, content := range res.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			fmt.Fprintln(out, c.Text)
		case *mcp.TextContent:
			fmt.Fprintln(out, c.Text)
		}
	}
	if res.IsError {
		return fmt.Errorf("tool %s failed", args[0])
	}
	return nil
}

// parseToolArgs turns name=value pairs into tool arguments.
func parseToolArgs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("argument %q: want name=value", p)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			args[name] = n
			continue
		}
		args[name] = value
	}
	return args, nil
}
