// CLAUDE:SUMMARY CLI subcommand that builds the lookup tables from their sources via import adapters.
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hazyhaar/vietdanh/pkg/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Build lookup tables from their sources",
	Long: `Run one import adapter, or all of them, writing each table under the
output directory. Source URLs come from the sources database and can be
changed with 'vietdanh sources set-url'.

Without --source or --all, lists the available sources.

Examples:
  vietdanh import --all
  vietdanh import --source syllables-csv --output-dir data`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var (
	importSource    string
	importAll       bool
	importOutputDir string
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importSource, "source", "", "adapter ID to import (e.g. syllables-json)")
	importCmd.Flags().BoolVar(&importAll, "all", false, "import every source")
	importCmd.Flags().StringVar(&importOutputDir, "output-dir", "", "output directory (default: data_dir)")
}

func runImport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	sdb, err := openSources()
	if err != nil {
		return err
	}
	defer sdb.Close()

	outputDir := importOutputDir
	if outputDir == "" {
		outputDir = viper.GetString("data_dir")
	}

	if !importAll && importSource == "" {
		sources, err := sdb.List()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Available sources:")
		fmt.Fprintln(out)
		for _, src := range sources {
			fmt.Fprintf(out, "  %-20s  %s  (-> %s, %s)%s\n", src.AdapterID, src.Description, src.TableID, src.Kind, importSummary(src))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "  vietdanh import --source <id> [--output-dir <dir>]")
		fmt.Fprintln(out, "  vietdanh import --all [--output-dir <dir>]")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	run := func(a importer.Adapter) error {
		src, err := sdb.Source(a.ID())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s] importing %s\n", a.ID(), src.URL)
		n, importErr := a.Import(ctx, src.URL, outputDir)
		rec := importer.ImportRun{At: time.Now(), Entries: n}
		if importErr != nil {
			rec.Err = importErr.Error()
		}
		if err := sdb.RecordImport(a.ID(), rec); err != nil {
			fmt.Fprintf(errOut, "[%s] record import: %v\n", a.ID(), err)
		}
		if importErr != nil {
			return fmt.Errorf("%s: %w", a.ID(), importErr)
		}
		fmt.Fprintf(out, "[%s] OK %d entries -> %s\n", a.ID(), n, filepath.Join(outputDir, a.TableID()))
		return nil
	}

	if importAll {
		var failed int
		for _, a := range defaultAdapters() {
			if err := run(a); err != nil {
				fmt.Fprintf(errOut, "[%s] ERROR: %v\n", a.ID(), err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d import(s) failed", failed)
		}
		return nil
	}

	a, err := importer.Get(importSource)
	if err != nil {
		return err
	}
	return run(a)
}

// importSummary describes the last import run of src, if any.
func importSummary(src importer.Source) string {
	run := src.LastImport
	switch {
	case run == nil:
		return ""
	case run.Err != "":
		return "  [last import failed " + run.At.UTC().Format(time.RFC3339) + "]"
	default:
		return fmt.Sprintf("  [%d entries, %s]", run.Entries, run.At.UTC().Format(time.RFC3339))
	}
}

// defaultAdapters picks one adapter per table for --all. The JSON exports
// win over the CSV sheet and the derived scores.
func defaultAdapters() []importer.Adapter {
	var picked []importer.Adapter
	for _, id := range []string{"syllables-json", "cuc-scores-json", "cuc-meanings-json", "cuc-details-json"} {
		if a, err := importer.Get(id); err == nil {
			picked = append(picked, a)
		}
	}
	return picked
}

// openSources opens the sources database and seeds it with the registered
// adapters.
func openSources() (*importer.SourceDB, error) {
	path := viper.GetString("sources_db")
	if err := ensureParent(path); err != nil {
		return nil, err
	}
	sdb, err := importer.OpenSourceDB(path)
	if err != nil {
		return nil, err
	}
	if err := sdb.Seed(importer.All()); err != nil {
		sdb.Close()
		return nil, err
	}
	return sdb, nil
}
