// CLAUDE:SUMMARY CLI subcommand that analyzes a name and prints it as text, markdown, html or json.
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
	"github.com/hazyhaar/vietdanh/pkg/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a full name",
	Long: `Compute the six cục of a name, its total score and grade, the
elements it carries and the advice that follows.

Formats:
  text      styled terminal report (default)
  markdown  markdown tables
  html      sanitized HTML
  json      the raw report`,
	Example: `  vietdanh analyze --surname Nguyễn --middle Văn --given An --gender male
  vietdanh analyze --surname "Trần" --given "Lan" --gender nữ --format markdown`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var (
	analyzeSurname string
	analyzeMiddle  string
	analyzeGiven   string
	analyzeGender  string
	analyzeFormat  string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeSurname, "surname", "s", "", "family name (họ)")
	f.StringVarP(&analyzeMiddle, "middle", "m", "", "middle name (đệm), may hold several syllables")
	f.StringVarP(&analyzeGiven, "given", "g", "", "given name (tên)")
	f.StringVar(&analyzeGender, "gender", "", "male or female (nam / nữ)")
	f.StringVarP(&analyzeFormat, "format", "f", "text", "output format: text, markdown, html, json")
	analyzeCmd.MarkFlagRequired("surname")
	analyzeCmd.MarkFlagRequired("given")
	analyzeCmd.MarkFlagRequired("gender")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	gender, err := cuc.ParseGender(analyzeGender)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(newLogger())
	if err != nil {
		return err
	}

	rep, err := cuc.New(reg).Report(analyzeSurname, analyzeMiddle, analyzeGiven, gender)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(analyzeFormat) {
	case "", "text":
		return report.Terminal(out, rep)
	case "markdown", "md":
		_, err := fmt.Fprint(out, report.Markdown(rep))
		return err
	case "html":
		body, err := report.HTML(rep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, body)
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return fmt.Errorf("unsupported format %q (text, markdown, html, json)", analyzeFormat)
}
