package interp

import "testing"

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"flat", "x = 1", "x = 1"},
		{"no indent multiline", "x = 1\ny = 2", "x = 1\ny = 2"},
		{"common spaces", "    x = 1\n    y = 2", "x = 1\ny = 2"},
		{"common tabs", "\t\tx = 1\n\t\ty = 2", "x = 1\ny = 2"},
		{"leading newline", "\n    x = 1\n    y = 2", "\nx = 1\ny = 2"},
		{"blank lines ignored", "    x = 1\n\n    y = 2", "x = 1\n\ny = 2"},
		{"whitespace-only line ignored", "    x = 1\n  \t\n    y = 2", "x = 1\n\ny = 2"},
		{"uneven indent keeps relative", "    if x then\n        y = 1\n    end", "if x then\n    y = 1\nend"},
		{"mixed margin stops at divergence", "  x = 1\n\ty = 2", "  x = 1\n\ty = 2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dedent(tt.in); got != tt.want {
				t.Errorf("Dedent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
