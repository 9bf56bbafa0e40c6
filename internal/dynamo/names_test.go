package dynamo

import "testing"

func TestFoldName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Rössler", "rossler"},
		{"  LORENZ ", "lorenz"},
		{"Thomas", "thomas"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FoldName(tt.in); got != tt.want {
			t.Errorf("FoldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Rössler", "rossler"},
		{"Thomas Cyclically Symmetric Attractor", "thomas_cyclically_symmetric_attractor"},
		{"  a--b  ", "a_b"},
		{"???", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
