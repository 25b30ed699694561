package core

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		in    string
		lower bool
		want  string
	}{
		{in: "", want: ""},
		{in: " \t\n ", want: ""},
		{in: "  SMA Negeri 1 Bandung ", want: "SMA Negeri 1 Bandung"},
		{in: "SMA  Negeri\t1   Bandung", want: "SMA Negeri 1 Bandung"},
		{in: " Hadi@Mail.ID ", lower: true, want: "hadi@mail.id"},
	}
	for _, tt := range tests {
		if got := CleanString(tt.in, tt.lower); got != tt.want {
			t.Errorf("CleanString(%q, %v) = %q, want %q", tt.in, tt.lower, got, tt.want)
		}
	}
}
