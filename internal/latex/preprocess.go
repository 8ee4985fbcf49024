package latex

import (
	"regexp"
	"strings"
)

var (
	commentLineRe    = regexp.MustCompile(`^\s*%`)
	excessiveBreakRe = regexp.MustCompile(`\n{3,}`)
)

// OptimizeContent cleans LaTeX source before it is handed to a translation
// backend: comment-only lines are dropped and runs of blank lines are
// collapsed. The result is smaller prompt input with identical document
// structure.
func OptimizeContent(source string) string {
	return CollapseBlankLines(RemoveCommentLines(source))
}

// RemoveCommentLines drops every line that starts with % (optionally after
// leading whitespace). Trailing comments on content lines are kept.
func RemoveCommentLines(source string) string {
	if source == "" {
		return source
	}
	lines := strings.Split(source, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !commentLineRe.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// CollapseBlankLines replaces runs of three or more newlines with exactly
// two, i.e. at most one blank line between paragraphs.
func CollapseBlankLines(source string) string {
	if source == "" {
		return source
	}
	return excessiveBreakRe.ReplaceAllString(source, "\n\n")
}

// TrimTrailingSpaces removes trailing whitespace from every line.
func TrimTrailingSpaces(source string) string {
	if source == "" {
		return source
	}
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
