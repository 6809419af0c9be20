// Package stacktrace trims runtime stacks down to this module's frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/...go:line" locations found in a raw
// debug.Stack() dump, outermost call last.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)
		_, rest, ok := strings.Cut(line, "/internal/")
		if !ok {
			continue
		}
		end := strings.Index(rest, ".go:")
		if end == -1 {
			continue
		}
		loc := rest[:end+len(".go:")]
		lineNo, _, _ := strings.Cut(rest[end+len(".go:"):], " ")
		paths = append(paths, "internal/"+loc+lineNo)
	}
	return paths
}
