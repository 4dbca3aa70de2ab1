package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"basic trim", "  hello  ", "hello"},
		{"collapse inner whitespace", "a   b\t\tc", "a b c"},
		{"newlines collapse", "line1\n\nline2", "line1 line2"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n ", ""},
		{"unicode preserved", "  café  crème  ", "café crème"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to underscores", "Physics Lab B", "physics_lab_b"},
		{"punctuation stripped", "Room #3 (West Wing)", "room_3_west_wing"},
		{"leading trailing separators", "--lab--", "lab"},
		{"runs collapse", "a  -  b", "a_b"},
		{"digits kept", "lab42", "lab42"},
		{"unicode letters kept", "Büro Nord", "büro_nord"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeKey(tt.input); got != tt.want {
				t.Errorf("SanitizeKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Faculty", "faculty"},
		{"  STAFF ", "staff"},
		{"student", "student"},
	}

	for _, tt := range tests {
		if got := NormalizeRole(tt.input); got != tt.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPipelineAppliesInOrder(t *testing.T) {
	p := Pipeline{
		func(s string) string { return s + "b" },
		func(s string) string { return s + "c" },
	}
	if got := p.Apply("a"); got != "abc" {
		t.Errorf("Apply = %q, want abc", got)
	}
}
