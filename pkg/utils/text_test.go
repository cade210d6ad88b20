package utils

import (
	"testing"
)

func TestHumanizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"social_energy", "Social Energy"},
		{"public_speaking_comfort", "Public Speaking Comfort"},
		{"empathy", "Empathy"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := HumanizeName(tt.in); got != tt.want {
			t.Errorf("HumanizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
