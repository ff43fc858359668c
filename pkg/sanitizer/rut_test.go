package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeRut(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "12345678-9", "12345678-9"},
		{"with dots", "12.345.678-9", "12345678-9"},
		{"lowercase k", "9876543-k", "9876543-K"},
		{"surrounding whitespace", "  11111111-1  ", "11111111-1"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRut(tt.input); got != tt.expected {
				t.Errorf("NormalizeRut(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitRutList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"only whitespace", "   ", nil},
		{"single", "12345678-9", []string{"12345678-9"}},
		{"several with spaces", " 1-9 , 2-7 ,3-5", []string{"1-9", "2-7", "3-5"}},
		{"blank tokens discarded", "1-9,,  ,2-7,", []string{"1-9", "2-7"}},
		{"duplicates preserved", "1-9,1-9", []string{"1-9", "1-9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitRutList(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitRutList(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestJoinRutList_RoundTrip(t *testing.T) {
	in := []string{"1-9", "2-7", "3-5"}
	if got := SplitRutList(JoinRutList(in)); !reflect.DeepEqual(got, in) {
		t.Errorf("round trip changed list: %v", got)
	}
}

func TestValidRut(t *testing.T) {
	tests := []struct {
		rut  string
		want bool
	}{
		{"12345678-5", true},
		{"11111111-1", true},
		{"1-9", true},
		{"10000009-K", false},
		{"7317855-K", true},
		{"12345678-9", false},
		{"12345678", false},
		{"abc-1", false},
		{"-5", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidRut(tt.rut); got != tt.want {
			t.Errorf("ValidRut(%q) = %v, want %v", tt.rut, got, tt.want)
		}
	}
}
