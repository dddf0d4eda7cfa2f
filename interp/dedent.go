package interp

import "strings"

// Dedent strips the longest common leading whitespace from every non-blank
// line, so source embedded in indented string literals runs as written.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")

	margin := ""
	first := true
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		if first {
			margin = indent
			first = false
			continue
		}
		margin = commonPrefix(margin, indent)
		if margin == "" {
			return s
		}
	}
	if margin == "" {
		return s
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimLeft(line, " \t") == "" {
			out[i] = strings.TrimLeft(line, " \t")
			continue
		}
		out[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(out, "\n")
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
