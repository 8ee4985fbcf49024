package translator

import (
	"fmt"
	"strings"

	"latex-project-translator/internal/types"
)

// buildSystemPrompt states the translation rules. The rules mirror the
// validator's safety rules: the model must never touch LaTeX syntax, only
// the natural-language prose.
func buildSystemPrompt(lang types.TargetLanguage) string {
	name := lang.DisplayName()
	return fmt.Sprintf(`You are an expert LaTeX translator. Translate the given text into %s.

Rules:
1. Never change LaTeX commands, environments or math.
2. Never change the keys inside \cite{}, \ref{} and \label{}.
3. Never change the symbols $, \(, \), {, }, \, & and %%.
4. Translate only the natural-language prose.
5. Preserve the document structure, whitespace and indentation.
6. Never translate custom command names.
7. Keep the translation academic and natural; use standard %s terminology.

Forbidden:
- Wrapping the output in code fences.
- Adding XML or HTML tags.
- Changing LaTeX syntax in any way.
- Adding explanations or annotations.

Output only the translated text.`, name, name)
}

// buildUserPrompt wraps the text to translate together with per-document
// hints from the project analysis.
func buildUserPrompt(text string, lang types.TargetLanguage, hints []string) string {
	parts := []string{
		fmt.Sprintf("Target language: %s", lang.DisplayName()),
	}
	if len(hints) > 0 {
		parts = append(parts, "Document context:")
		for _, h := range hints {
			parts = append(parts, "- "+h)
		}
	}
	parts = append(parts,
		"",
		"Text to translate:",
		text,
		"",
		"Translate the text above. Output only the translation.",
	)
	return strings.Join(parts, "\n")
}
