package latex

import "strings"

// entityReplacements maps pseudo-HTML entities that LLM backends sometimes
// emit in place of LaTeX delimiters back to the delimiters themselves.
var entityReplacements = []struct{ from, to string }{
	{"<br>", "{"},
	{"</br>", "}"},
	{"<math>", "$"},
	{"</math>", "$"},
}

// RepairEntities restores LaTeX delimiters that came back from a translation
// backend as HTML-style entities. Applied to translated text before
// splice-back.
func RepairEntities(text string) string {
	for _, r := range entityReplacements {
		text = strings.ReplaceAll(text, r.from, r.to)
	}
	return text
}
