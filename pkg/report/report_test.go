package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
	"github.com/hazyhaar/vietdanh/pkg/dict"
)

func testTables() *dict.Tables {
	return &dict.Tables{
		Syllables: dict.NewSyllableDict(map[string]dict.Syllable{
			"NGUYEN": {Name: "Nguyễn", Strokes: 13, Element: "Thủy"},
			"VAN":    {Name: "Văn", Strokes: 9, Element: "Mộc"},
			"AN":     {Name: "An", Strokes: 7, Element: "Thổ"},
		}),
		Scores: map[int]dict.CucScore{29: {Score: 10}, 33: {Score: 8}, 35: {Score: 9}, 39: {Score: 2}, 42: {Score: 7}},
		Meanings: map[int]dict.CucMeaning{
			29: {Name: "Trí Mưu", Luck: "Cát", Alias: "Tài lược"},
			39: {Name: "Phú Quý", Luck: "Hung", Meaning: "Vinh hoa mong manh"},
		},
		Details: map[int]dict.CucDetail{
			29: {CucName: "Trí Mưu", Description: "Trí mưu xuất chúng", Career: "Thành đạt", Family: "Êm ấm"},
		},
	}
}

func testReport(t *testing.T, surname, middle, given string) *cuc.Report {
	t.Helper()
	rep, err := cuc.New(testTables()).Report(surname, middle, given, cuc.Male)
	require.NoError(t, err)
	return rep
}

func TestMarkdown(t *testing.T) {
	md := Markdown(testReport(t, "Nguyen", "Van", "An"))

	assert.True(t, strings.HasPrefix(md, "# NGUYEN VAN AN\n"))
	assert.Contains(t, md, "**Tổng điểm:** 44/60 (Tốt (8/10))")
	assert.Contains(t, md, "| Nguyen | Họ | 13 | 💧 Thủy |")
	assert.Contains(t, md, "| Tĩnh Cục (Bản Mệnh) | 29 | Trí Mưu | CÁT | 10 |")
	assert.Contains(t, md, "- ⚠️ **Tiền Vận (Cục 39):** Hung. Cần lưu ý")
	assert.Contains(t, md, "### Tĩnh Cục (Bản Mệnh): Trí Mưu - Tài lược")
	assert.Contains(t, md, "- **Sức Khỏe:** Bình thường")
	assert.Contains(t, md, "Chưa có dữ liệu cho Cục 33")
}

func TestMarkdown_UnknownSyllable(t *testing.T) {
	md := Markdown(testReport(t, "Nguyen", "", "Xy|zzy"))
	assert.Contains(t, md, `| Xy\|zzy | Tên | ? | Unknown |`)
}

func TestHTML_Sanitized(t *testing.T) {
	out, err := HTML(testReport(t, "Nguyen", "<script>alert(1)</script>", "An"))
	require.NoError(t, err)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<strong>Tổng điểm:</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;SCRIPT&gt;")
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, testReport(t, "Nguyen", "Van", "An")))
	out := buf.String()

	assert.Contains(t, out, "NGUYEN VAN AN")
	assert.Contains(t, out, "44/60")
	assert.Contains(t, out, "Tiền Vận (Cục 39): Hung.")
	assert.Contains(t, out, "Ngũ Hành Thiếu Khuyết: Bạn đang thiếu hành Kim, Hỏa.")
	assert.NotContains(t, out, "**")
}

func TestHint(t *testing.T) {
	assert.Equal(t, "💧 Thủy dương | 13 nét", Hint(dict.Syllable{Strokes: 13, Element: "Thủy dương"}, true))
	assert.Equal(t, "Lạ | 3 nét", Hint(dict.Syllable{Strokes: 3, Element: "Lạ"}, true))
	assert.Equal(t, "❓ Không tìm thấy", Hint(dict.Syllable{}, false))
}
