package mdx

import "strings"

// fenceTracker reports whether a line sits inside a fenced code block.
type fenceTracker struct {
	marker string
}

// step consumes a line and reports whether it is code (fence lines included).
func (f *fenceTracker) step(line string) bool {
	trimmed := strings.TrimSpace(line)
	if f.marker != "" {
		if strings.HasPrefix(trimmed, f.marker) {
			f.marker = ""
		}
		return true
	}
	switch {
	case strings.HasPrefix(trimmed, "```"):
		f.marker = "```"
		return true
	case strings.HasPrefix(trimmed, "~~~"):
		f.marker = "~~~"
		return true
	}
	return false
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
