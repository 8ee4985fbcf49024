package compiler

import (
	"regexp"
	"strings"
)

// criticalErrorPatterns match log lines worth surfacing, most specific
// first. The catch-all capitalized-Error pattern stays last.
var criticalErrorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`LaTeX Error:`),
	regexp.MustCompile(`! LaTeX Error:`),
	regexp.MustCompile(`! Package .+ Error:`),
	regexp.MustCompile(`! Undefined control sequence`),
	regexp.MustCompile(`Runaway argument`),
	regexp.MustCompile(`! Missing`),
	regexp.MustCompile(`.*Error.*`),
}

// contextLines is how many lines of surrounding log to keep around each
// critical line.
const contextLines = 2

// noCriticalErrors is returned when the log contains no critical lines.
const noCriticalErrors = "No critical LaTeX errors found."

// ExtractCriticalErrors condenses a raw LaTeX log into just the critical
// error blocks: each matching line with two lines of context before and
// after. When one block's text contains another's, only the larger block
// is kept.
func ExtractCriticalErrors(logText string) string {
	lines := strings.Split(logText, "\n")
	var errorBlocks []string

	for i, line := range lines {
		critical := false
		for _, pattern := range criticalErrorPatterns {
			if pattern.MatchString(line) {
				critical = true
				break
			}
		}
		if !critical {
			continue
		}

		start := i - contextLines
		if start < 0 {
			start = 0
		}
		end := i + contextLines + 1
		if end > len(lines) {
			end = len(lines)
		}
		blockText := strings.TrimSpace(strings.Join(lines[start:end], "\n"))

		duplicate := false
		for j, existing := range errorBlocks {
			if strings.Contains(existing, blockText) {
				duplicate = true
				break
			}
			if strings.Contains(blockText, existing) {
				// the new block carries more context, keep the larger one
				errorBlocks[j] = blockText
				duplicate = true
				break
			}
		}
		if !duplicate {
			errorBlocks = append(errorBlocks, blockText)
		}
	}

	if len(errorBlocks) == 0 {
		return noCriticalErrors
	}
	return strings.Join(errorBlocks, "\n\n--- LaTeX Error ---\n\n")
}
