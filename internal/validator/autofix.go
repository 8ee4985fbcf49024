package validator

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"latex-project-translator/internal/latex"
	"latex-project-translator/internal/logger"
)

// fullWidthToASCII maps full-width punctuation and symbol variants that
// break LaTeX tokenization to their ASCII equivalents. Machine translation
// into CJK languages routinely introduces these.
var fullWidthToASCII = map[rune]string{
	'（': "(",
	'）': ")",
	'｛': "{",
	'｝': "}",
	'［': "[",
	'］': "]",
	'＄': "$",
	'＼': "\\",
	'％': "%",
	'＆': "&",
	'＿': "_",
	'＾': "^",
	'｜': "|",
	'～': "~",
	'＃': "#",
}

var (
	mathWhitespaceRe    = regexp.MustCompile(`\$\s+([^$]*?)\s+\$`)
	commandWhitespaceRe = regexp.MustCompile(`\\([a-zA-Z]+)\s+\{`)
)

// AutoFix applies the deterministic, idempotent repair pass to every file
// and returns the new content for files that actually changed. The model is
// not touched; the caller patches file contents and re-runs Validate to
// confirm the fixes.
func (v *Validator) AutoFix() map[string]string {
	fixed := map[string]string{}
	for _, path := range v.model.FileOrder {
		file := v.model.Files[path]
		content := FixContent(file.Content)
		if content != file.Content {
			fixed[path] = content
			logger.Info("auto-fix changed file", logger.String("path", path))
		}
	}
	return fixed
}

// ApplyFixes patches the model's file contents in place, for re-validation.
func (v *Validator) ApplyFixes(fixes map[string]string) {
	for path, content := range fixes {
		if file, ok := v.model.Files[path]; ok {
			file.Content = content
		}
	}
}

// FixContent runs the individual substitutions in a fixed order. Each one
// is idempotent, so running the whole pass twice yields the same result as
// running it once.
func FixContent(content string) string {
	content = foldFullWidth(content)
	content = latex.CollapseBlankLines(content)
	content = mathWhitespaceRe.ReplaceAllString(content, "$$${1}$$")
	content = commandWhitespaceRe.ReplaceAllString(content, "\\${1}{")
	return content
}

// foldFullWidth replaces full-width rune variants with ASCII. The explicit
// table covers the LaTeX-significant punctuation. Beyond it, full-width
// Latin letters and digits (ＡＢＣ１２３) are narrowed too; full-width CJK
// punctuation like ，and 。 is legitimate in translated prose and is left
// alone, as is East Asian Wide text itself.
func foldFullWidth(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		if ascii, ok := fullWidthToASCII[r]; ok {
			sb.WriteString(ascii)
			continue
		}
		if width.LookupRune(r).Kind() == width.EastAsianFullwidth {
			narrow := width.Narrow.String(string(r))
			if len(narrow) == 1 && isASCIIAlnum(narrow[0]) {
				sb.WriteString(narrow)
				continue
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isASCIIAlnum(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
