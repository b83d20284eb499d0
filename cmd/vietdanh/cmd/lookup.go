// CLAUDE:SUMMARY CLI subcommand that prints the stroke and element hint of each syllable.
package cmd

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
	"github.com/hazyhaar/vietdanh/pkg/report"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <syllable>...",
	Short: "Show the element and stroke count of syllables",
	Long: `Look up each syllable in the dictionary, with or without diacritics.

Example:
  vietdanh lookup Nguyễn van duc`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(newLogger())
	if err != nil {
		return err
	}
	a := cuc.New(reg)

	width := 0
	for _, arg := range args {
		width = max(width, runewidth.StringWidth(arg))
	}
	out := cmd.OutOrStdout()
	for _, arg := range args {
		s, found, err := a.LookupSyllable(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n", runewidth.FillRight(arg, width), report.Hint(s, found))
	}
	return nil
}
