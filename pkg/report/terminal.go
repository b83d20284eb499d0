// CLAUDE:SUMMARY Terminal rendering of an analysis report with lipgloss styles and aligned tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
)

// Color palette
var (
	ColorGold    = lipgloss.Color("#D4AF37")
	ColorCat     = lipgloss.Color("#a8e6cf")
	ColorHung    = lipgloss.Color("#FF6B6B")
	ColorMixed   = lipgloss.Color("#ffe66d")
	ColorMuted   = lipgloss.Color("#666666")
	ColorBorder  = lipgloss.Color("#3d5a80")
	ColorLabel   = lipgloss.Color("#a8dadc")
	ColorWarning = lipgloss.Color("#f4a261")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGold).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorLabel).
			MarginTop(1)

	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)

var luckStyles = map[string]lipgloss.Style{
	"cat":   lipgloss.NewStyle().Foreground(ColorCat),
	"hung":  lipgloss.NewStyle().Foreground(ColorHung),
	"mixed": lipgloss.NewStyle().Foreground(ColorMixed),
}

// Terminal writes rep as a styled plain-text report.
func Terminal(w io.Writer, rep *cuc.Report) error {
	r := rep.Result
	var b strings.Builder

	b.WriteString(TitleStyle.Render(r.FullName))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tổng điểm: %s  %s\n",
		BoldStyle.Render(fmt.Sprintf("%d/%d", r.TotalScore, cuc.MaxScore)),
		rep.Grading.Label)

	b.WriteString(HeaderStyle.Render("Âm tiết"))
	b.WriteString("\n")
	rows := [][]string{{"Âm tiết", "Loại", "Số nét", "Ngũ hành"}}
	for _, p := range r.Parts {
		rows = append(rows, []string{p.Original, string(p.Type), strokesCell(p), elementCell(p)})
	}
	writeTable(&b, rows)

	b.WriteString(HeaderStyle.Render("Sáu cục"))
	b.WriteString("\n")
	for i, pos := range r.Positions() {
		c := rep.Cards[i]
		style, ok := luckStyles[c.LuckClass]
		if !ok {
			style = luckStyles["mixed"]
		}
		fmt.Fprintf(&b, "%s %2d  %s  %s  %s\n",
			runewidth.FillRight(pos.Label, 22),
			c.Number,
			runewidth.FillRight(c.Name, 16),
			style.Render(runewidth.FillRight(string(c.Luck), 8)),
			MutedStyle.Render(fmt.Sprintf("%d điểm", c.Score)))
	}

	b.WriteString(HeaderStyle.Render("Lời khuyên"))
	b.WriteString("\n")
	for _, a := range rep.Advice {
		line := fmt.Sprintf("• %s: %s", a.Title, strings.ReplaceAll(a.Text, "**", ""))
		if a.Kind == cuc.AdviceWarning {
			line = WarningStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeTable left-aligns cells by display width; Vietnamese marks and
// element icons make byte and rune counts unreliable.
func writeTable(b *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if n == 0 {
			line = MutedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}
