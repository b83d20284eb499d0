package cuc

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		total int
		tier  Tier
		label string
	}{
		{60, Excellent, "Xuất Sắc (10/10)"},
		{50, Excellent, "Xuất Sắc (10/10)"},
		{49, Good, "Tốt (8/10)"},
		{40, Good, "Tốt (8/10)"},
		{39, Fair, "Khá (6/10)"},
		{30, Fair, "Khá (6/10)"},
		{29, Average, "Trung Bình (5/10)"},
		{0, Average, "Trung Bình (5/10)"},
	}
	for _, tt := range tests {
		g := Grade(tt.total)
		if g.Tier != tt.tier || g.Label != tt.label {
			t.Errorf("Grade(%d) = %+v, want %s %q", tt.total, g, tt.tier, tt.label)
		}
	}
}

func TestAdvise_Scenario(t *testing.T) {
	tables := testTables()
	r, err := New(tables).AnalyzeFullName("Nguyen", "Van", "An", Male)
	if err != nil {
		t.Fatal(err)
	}
	advice := Advise(tables, r)

	var titles []string
	for _, a := range advice {
		titles = append(titles, a.Title)
	}
	want := []string{
		"Tổng Điểm",
		"Ngũ Hành Thiếu Khuyết",
		"Tiền Vận (Cục 39)",
		"Hậu Vận (Cục 33)",
		"Kết Luận",
	}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %q\nwant     %q", titles, want)
	}
	if advice[0].Text != "44/60 - Đánh giá: Tốt (8/10)." {
		t.Errorf("total text = %q", advice[0].Text)
	}
	if !strings.Contains(advice[1].Text, "**Kim, Hỏa**") || advice[1].Kind != AdviceWarning {
		t.Errorf("missing elements advice = %+v", advice[1])
	}
	if !strings.HasPrefix(advice[3].Text, "Bán cát bán hung.") {
		t.Errorf("hau warning = %q", advice[3].Text)
	}
}

func TestAdvise_OnlyFourPositionsWarned(t *testing.T) {
	// Every cục has score 0 and no meaning row, so each checked position warns.
	r := &Result{TinhCuc: 1, DongCuc: 2, TienVan: 3, HauVan: 4, PhucDuc: 5, TuTuc: 6}
	advice := Advise(&dict.Tables{}, r)

	var warned []string
	for _, a := range advice {
		if strings.Contains(a.Title, "(Cục") {
			warned = append(warned, a.Title)
		}
	}
	want := []string{
		"Tĩnh Cục (Bản Mệnh) (Cục 1)",
		"Tiền Vận (Cục 3)",
		"Hậu Vận (Cục 4)",
		"Phúc Đức (Cục 5)",
	}
	if !reflect.DeepEqual(warned, want) {
		t.Errorf("warned = %q, want %q", warned, want)
	}
}

func TestAdvise_HungMarkerCaseInsensitive(t *testing.T) {
	tables := &dict.Tables{
		Scores:   map[int]dict.CucScore{1: {Score: 10}, 3: {Score: 10}, 4: {Score: 10}, 5: {Score: 10}},
		Meanings: map[int]dict.CucMeaning{4: {Luck: "HUNG SÁT"}},
	}
	r := &Result{TinhCuc: 1, DongCuc: 1, TienVan: 3, HauVan: 4, PhucDuc: 5, TuTuc: 1}
	var warned []string
	for _, a := range Advise(tables, r) {
		if a.Kind == AdviceWarning && strings.Contains(a.Title, "(Cục") {
			warned = append(warned, a.Title)
		}
	}
	if len(warned) != 1 || warned[0] != "Hậu Vận (Cục 4)" {
		t.Errorf("warned = %q", warned)
	}
}

func TestAdvise_AllElementsAndNilTables(t *testing.T) {
	r := &Result{
		TotalScore: 12,
		TinhCuc:    1, DongCuc: 1, TienVan: 1, HauVan: 1, PhucDuc: 1, TuTuc: 1,
		Parts: []NamePart{
			{Element: "Kim"}, {Element: "Mộc âm"}, {Element: "Thủy"},
			{Element: "Hỏa dương"}, {Element: "Thổ"}, {Element: ""},
		},
	}
	advice := Advise(nil, r)
	if advice[1].Title != "Ngũ Hành" || advice[1].Kind != AdviceInfo {
		t.Errorf("elements advice = %+v", advice[1])
	}
	if got := MissingElements(r); len(got) != 0 {
		t.Errorf("MissingElements = %v", got)
	}
	for _, a := range advice {
		if a.Title == "Kết Luận" {
			t.Error("no conclusion below 40")
		}
	}
}

func TestPrimaryElements(t *testing.T) {
	r := &Result{Parts: []NamePart{
		{Element: "Thủy dương"}, {Element: "Thủy"}, {}, {Element: "Mộc"},
	}}
	if got := r.PrimaryElements(); !reflect.DeepEqual(got, []string{"Thủy", "Mộc"}) {
		t.Errorf("PrimaryElements = %v", got)
	}
}
