package utils

import "testing"

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "***"},
		{"abcdef", "***"},
		{"K81234567888957", "K8***57"},
	}
	for _, tt := range tests {
		if got := MaskSecret(tt.in); got != tt.want {
			t.Fatalf("MaskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
