// CLAUDE:SUMMARY Renders a cục report as Markdown; the HTML and terminal renderers share its section order.
package report

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
	"github.com/hazyhaar/vietdanh/pkg/dict"
)

// ElementIcons decorates primary elements in hints and tables.
var ElementIcons = map[string]string{
	"Kim":  "⚔️",
	"Mộc":  "🌿",
	"Thủy": "💧",
	"Hỏa":  "🔥",
	"Thổ":  "🏔️",
}

// Hint formats the one-line per-syllable hint: "💧 Thủy | 13 nét".
func Hint(s dict.Syllable, found bool) string {
	if !found {
		return "❓ Không tìm thấy"
	}
	icon := ElementIcons[s.PrimaryElement()]
	return strings.TrimSpace(fmt.Sprintf("%s %s | %d nét", icon, s.Element, s.Strokes))
}

// Markdown renders rep as a Markdown document.
func Markdown(rep *cuc.Report) string {
	var b strings.Builder
	r := rep.Result

	fmt.Fprintf(&b, "# %s\n\n", mdEscape(r.FullName))
	fmt.Fprintf(&b, "**Tổng điểm:** %d/%d (%s)\n\n", r.TotalScore, cuc.MaxScore, rep.Grading.Label)

	b.WriteString("## Âm tiết\n\n")
	b.WriteString("| Âm tiết | Loại | Số nét | Ngũ hành |\n")
	b.WriteString("|---|---|---:|---|\n")
	for _, p := range r.Parts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			mdEscape(p.Original), p.Type, strokesCell(p), mdEscape(elementCell(p)))
	}

	b.WriteString("\n## Sáu cục\n\n")
	b.WriteString("| Vị trí | Cục | Tên | Cát hung | Điểm |\n")
	b.WriteString("|---|---:|---|---|---:|\n")
	for i, pos := range r.Positions() {
		c := rep.Cards[i]
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %d |\n",
			pos.Label, c.Number, mdEscape(c.Name), c.Luck, c.Score)
	}

	b.WriteString("\n## Lời khuyên\n\n")
	for _, a := range rep.Advice {
		marker := ""
		if a.Kind == cuc.AdviceWarning {
			marker = "⚠️ "
		}
		fmt.Fprintf(&b, "- %s**%s:** %s\n", marker, a.Title, a.Text)
	}

	b.WriteString("\n## Luận giải\n")
	for i, pos := range r.Positions() {
		c := rep.Cards[i]
		fmt.Fprintf(&b, "\n### %s: %s", pos.Label, mdEscape(c.Name))
		if c.Alias != "" {
			fmt.Fprintf(&b, " - %s", mdEscape(c.Alias))
		}
		b.WriteString("\n\n")
		if !c.HasDetail && c.Description == "" {
			fmt.Fprintf(&b, "Chưa có dữ liệu cho Cục %d\n", c.Number)
			continue
		}
		fmt.Fprintf(&b, "**Tổng Quan:** %s\n\n", c.Description)
		fmt.Fprintf(&b, "- **Công Danh:** %s\n", c.Career)
		fmt.Fprintf(&b, "- **Gia Đạo:** %s\n", c.Family)
		fmt.Fprintf(&b, "- **Sức Khỏe:** %s\n", c.Health)
	}
	return b.String()
}

func strokesCell(p cuc.NamePart) string {
	if !p.Found || p.Strokes == 0 {
		return "?"
	}
	return fmt.Sprint(p.Strokes)
}

func elementCell(p cuc.NamePart) string {
	if p.Element == "" {
		return "Unknown"
	}
	if icon := ElementIcons[dict.PrimaryElement(p.Element)]; icon != "" {
		return icon + " " + p.Element
	}
	return p.Element
}

var mdReplacer = strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`, "`", "\\`", `<`, `&lt;`, `>`, `&gt;`)

// mdEscape neutralizes user text inside table cells and headings.
func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
