// CLAUDE:SUMMARY CLI subcommands over the source ledger: list, set-url, reset and content check.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/vietdanh/pkg/importer"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage table sources",
	Long: `List, override and check the sources used by 'vietdanh import'.

Each source feeds one table kind. 'check' fetches every source and validates
it the way the import would, without writing any table.`,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List import sources with their last check",
	Args:  cobra.NoArgs,
	RunE:  runSourcesList,
}

var sourcesSetURLCmd = &cobra.Command{
	Use:   "set-url <adapter-id> <url-or-path>",
	Short: "Override the source URL of an adapter",
	Example: `  vietdanh sources set-url syllables-csv https://example.org/syllables.csv
  vietdanh sources set-url cuc-details-json ./exports/cuc_details.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdb, err := openSources()
		if err != nil {
			return err
		}
		defer sdb.Close()
		if err := sdb.SetURL(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], args[1])
		return nil
	},
}

var sourcesResetCmd = &cobra.Command{
	Use:   "reset <adapter-id>",
	Short: "Restore the default source URL of an adapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdb, err := openSources()
		if err != nil {
			return err
		}
		defer sdb.Close()
		if err := sdb.ResetURL(args[0]); err != nil {
			return err
		}
		src, err := sdb.Source(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", src.AdapterID, src.URL)
		return nil
	},
}

var sourcesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch and validate every source now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sdb, err := openSources()
		if err != nil {
			return err
		}
		defer sdb.Close()
		failed := importer.NewChecker(sdb, importer.All(), newLogger(), time.Hour).CheckAll(cmd.Context())
		if err := printSources(cmd, sdb); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d source(s) failed the check", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd, sourcesSetURLCmd, sourcesResetCmd, sourcesCheckCmd)
}

func runSourcesList(cmd *cobra.Command, args []string) error {
	sdb, err := openSources()
	if err != nil {
		return err
	}
	defer sdb.Close()
	return printSources(cmd, sdb)
}

func printSources(cmd *cobra.Command, sdb *importer.SourceDB) error {
	sources, err := sdb.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, src := range sources {
		url := src.URL
		if src.Overridden() {
			url += " (override)"
		}
		fmt.Fprintf(out, "%-20s  %-12s  %s\n", src.AdapterID, src.Kind, url)
		fmt.Fprintf(out, "%-20s  %-12s  check: %s\n", "", "", checkSummary(src.Check))
		if s := importSummary(src); s != "" {
			fmt.Fprintf(out, "%-20s  %-12s  import:%s\n", "", "", s)
		}
	}
	return nil
}

func checkSummary(c *importer.Check) string {
	if c == nil {
		return "never"
	}
	at := c.At.UTC().Format(time.RFC3339)
	switch {
	case !c.OK():
		return fmt.Sprintf("FAILED %d at %s: %s", c.Status, at, c.Err)
	case c.Missing > 0:
		return fmt.Sprintf("ok, %d entries, %d cục missing, at %s", c.Entries, c.Missing, at)
	default:
		return fmt.Sprintf("ok, %d entries, at %s", c.Entries, at)
	}
}

// ensureParent creates the directory holding path.
func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
