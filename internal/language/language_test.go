package language

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"eng", "English"},
		{"ENG", "English"},
		{"fre", "French"},
		{"fra", "French"},
		{"ger", "German"},
		{"jpn", "Japanese"},
		{"pt-BR", "Brazilian Portuguese"},
		{"und", "und"},
		{"", ""},
		{" ", ""},
		{"??", "??"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label("spa"); got != "Spanish (spa)" {
		t.Fatalf("Label(spa) = %q", got)
	}
	if got := Label("und"); got != "und" {
		t.Fatalf("Label(und) = %q", got)
	}
	if got := Label(""); got != "" {
		t.Fatalf("Label(\"\") = %q", got)
	}
}

func TestParseUndetermined(t *testing.T) {
	for _, tag := range []string{"", "und", "zxx", "mul"} {
		if _, ok := Parse(tag); ok {
			t.Fatalf("Parse(%q) should not resolve", tag)
		}
	}
	if tag, ok := Parse("dut"); !ok || tag.String() != "nl" {
		t.Fatalf("Parse(dut) = %v, %v", tag, ok)
	}
}
