package dict

import (
	"reflect"
	"testing"
)

func TestNormalizeLookup(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Nguyễn", "NGUYEN"},
		{"nguyễn", "NGUYEN"},
		{"NGUYEN", "NGUYEN"},
		{"Đức", "DUC"},
		{"đức", "DUC"},
		{"Trương", "TRUONG"},
		{"Hoàng-Anh", "HOANGANH"},
		{"  Văn  ", "VAN"},
		{"Thủy", "THUY"},
		{"Ỷ", "Y"},
		{"123", ""},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeLookup(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeLookup(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeLookup_Decomposed(t *testing.T) {
	// "ế" typed as e + U+0302 + U+0301.
	got := NormalizeLookup("Nguye\u0302\u0301n")
	if got != "NGUYEN" {
		t.Errorf("NormalizeLookup(decomposed) = %q, want NGUYEN", got)
	}
}

func TestNormalizeCalc(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Nguyễn", "NGUYEN"},
		{"Đức", "ĐUC"},
		{"đinh", "ĐINH"},
		{"Dung", "DUNG"},
		{"Ưng", "UNG"},
		{"ơ", "O"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeCalc(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeCalc(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeModesDivergeOnDStroke(t *testing.T) {
	if got := NormalizeLookup("Đ"); got != "D" {
		t.Errorf("NormalizeLookup(Đ) = %q, want D", got)
	}
	if got := NormalizeCalc("Đ"); got != "Đ" {
		t.Errorf("NormalizeCalc(Đ) = %q, want Đ", got)
	}
	if got := NormalizeCalc("D"); got != "D" {
		t.Errorf("NormalizeCalc(D) = %q, want D", got)
	}
}

func TestUpper(t *testing.T) {
	if got := Upper("nguyễn văn đức"); got != "NGUYỄN VĂN ĐỨC" {
		t.Errorf("Upper = %q", got)
	}
}

func TestGetKeyMode(t *testing.T) {
	tests := []struct {
		mode  string
		input string
		want  []string
	}{
		{"lookup", "Nguyễn", []string{"NGUYEN"}},
		{"upper", "Nguyễn", []string{"NGUYỄN"}},
		{"dual", "Nguyễn", []string{"NGUYỄN", "NGUYEN"}},
		{"dual", "An", []string{"AN"}},
		{"", "Đào", []string{"ĐÀO", "DAO"}},             // default = dual
		{"unknown_mode", "Lê", []string{"LÊ", "LE"}}, // fallback = dual
		{"lookup", "???", nil},
	}
	for _, tt := range tests {
		got := GetKeyMode(tt.mode)(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("GetKeyMode(%q)(%q) = %v, want %v", tt.mode, tt.input, got, tt.want)
		}
	}
}
