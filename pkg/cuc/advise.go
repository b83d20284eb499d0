// CLAUDE:SUMMARY Grading of the total score and the Vietnamese advisory statements derived from a result.
package cuc

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

// Tier is a grade bucket for the total score.
type Tier string

const (
	Excellent Tier = "excellent"
	Good      Tier = "good"
	Fair      Tier = "fair"
	Average   Tier = "average"
)

// Grading is the verdict for a total score.
type Grading struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
	Class string `json:"class"`
}

// MaxScore is the nominal full scale of the total score.
const MaxScore = 60

// Grade maps a total score to its tier. Thresholds are strict: 49 is Good.
func Grade(total int) Grading {
	switch {
	case total > 49:
		return Grading{Excellent, "Xuất Sắc (10/10)", "xuat-sac"}
	case total > 39:
		return Grading{Good, "Tốt (8/10)", "tot"}
	case total > 29:
		return Grading{Fair, "Khá (6/10)", "kha"}
	}
	return Grading{Average, "Trung Bình (5/10)", "tb"}
}

// Elements is the five-element universe.
var Elements = []string{"Kim", "Mộc", "Thủy", "Hỏa", "Thổ"}

// AdviceKind tells renderers how to style a statement.
type AdviceKind string

const (
	AdviceInfo    AdviceKind = "info"
	AdviceWarning AdviceKind = "warning"
)

// Advice is one advisory statement. Text may contain **bold** spans.
type Advice struct {
	Kind  AdviceKind `json:"kind"`
	Title string     `json:"title"`
	Text  string     `json:"text"`
}

// warnedPositions are the cục checked for unfavorable values. Động Cục and
// Tứ Túc are not checked.
var warnedPositions = map[string]bool{
	"tinh_cuc": true,
	"tien_van": true,
	"hau_van":  true,
	"phuc_duc": true,
}

// Advise builds the ordered advisory statements for r. It never fails;
// missing table rows read as zero values.
func Advise(t *dict.Tables, r *Result) []Advice {
	g := Grade(r.TotalScore)
	out := []Advice{{
		Kind:  AdviceInfo,
		Title: "Tổng Điểm",
		Text:  fmt.Sprintf("%d/%d - Đánh giá: %s.", r.TotalScore, MaxScore, g.Label),
	}}

	if missing := MissingElements(r); len(missing) > 0 {
		out = append(out, Advice{
			Kind:  AdviceWarning,
			Title: "Ngũ Hành Thiếu Khuyết",
			Text: fmt.Sprintf("Bạn đang thiếu hành **%s**. Nên cân nhắc bổ sung bằng màu sắc, hướng nhà hoặc vật phẩm phong thủy liên quan.",
				strings.Join(missing, ", ")),
		})
	} else {
		out = append(out, Advice{
			Kind:  AdviceInfo,
			Title: "Ngũ Hành",
			Text:  "Tên đầy đủ các hành, giúp cân bằng bản mệnh tốt.",
		})
	}

	for _, p := range r.Positions() {
		if !warnedPositions[p.Key] {
			continue
		}
		var score int
		var luck string
		if t != nil {
			s, _ := t.Score(p.Value)
			m, _ := t.Meaning(p.Value)
			score, luck = s.Score, m.Luck
		}
		if score <= 3 || strings.Contains(strings.ToLower(luck), "hung") {
			out = append(out, Advice{
				Kind:  AdviceWarning,
				Title: fmt.Sprintf("%s (Cục %d)", p.Label, p.Value),
				Text:  luck + ". Cần lưu ý tu nhân tích đức để cải thiện vận số.",
			})
		}
	}

	if r.TotalScore >= 40 {
		out = append(out, Advice{
			Kind:  AdviceInfo,
			Title: "Kết Luận",
			Text:  "Đây là một cái tên rất đẹp, mang lại nhiều may mắn và thuận lợi.",
		})
	}
	return out
}

// MissingElements returns the elements of the five-element universe that no
// part of r carries, in universe order.
func MissingElements(r *Result) []string {
	present := make(map[string]bool)
	for _, e := range r.PrimaryElements() {
		present[e] = true
	}
	var missing []string
	for _, e := range Elements {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	return missing
}
