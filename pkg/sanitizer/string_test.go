package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic trim", "  hello  ", "hello"},
		{"multiple spaces", "hello    world", "hello world"},
		{"tabs and newlines", "hello\t\nworld", "hello world"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"preserve special characters", " Café & Kart™ ", "Café & Kart™"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Ana@Example.COM", "ana@example.com"},
		{"trim", "  ana@example.com  ", "ana@example.com"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.input); got != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
