package latex

import "strings"

// maxExtractDepth bounds recursion into nested environment bodies.
const maxExtractDepth = 16

// ExtractTranslatableText returns the translatable prose spans of source in
// order. Translatable environments are descended into, so prose inside
// \begin{document} or \begin{abstract} is extracted with offsets relative to
// the original source. Every returned span lies strictly inside the element
// boundaries of Parse(source).
func (p *Parser) ExtractTranslatableText(source string) []Span {
	return p.extractSpans(source, 0, 0)
}

func (p *Parser) extractSpans(source string, base, depth int) []Span {
	var spans []Span
	for _, e := range p.Parse(source) {
		switch {
		case e.Kind == KindText && e.Translatable:
			spans = append(spans, Span{
				Text:  e.Content,
				Start: base + e.Start,
				End:   base + e.End,
			})
		case e.Kind == KindEnvironment && e.Translatable && depth < maxExtractDepth:
			body, offset, ok := EnvironmentBody(e)
			if ok {
				spans = append(spans, p.extractSpans(body, base+e.Start+offset, depth+1)...)
			}
		}
	}
	return spans
}

// EnvironmentBody returns the interior of an environment element (the text
// between \begin{X} and \end{X}) and the interior's offset within the
// element content. ok is false for elements that are not environments or
// whose content is malformed.
func EnvironmentBody(e Element) (body string, offset int, ok bool) {
	if e.Kind != KindEnvironment {
		return "", 0, false
	}
	name := e.Metadata["environment"]
	open := "\\begin{" + name + "}"
	close := "\\end{" + name + "}"
	if !strings.HasPrefix(e.Content, open) || !strings.HasSuffix(e.Content, close) {
		return "", 0, false
	}
	return e.Content[len(open) : len(e.Content)-len(close)], len(open), true
}

// PreserveStructure reconstructs the document by replacing each replacement
// span [Start, End) with its text and copying everything else verbatim.
// Replacements must be disjoint, ordered by start, and derived from a parse
// of the same source; stale offsets are the caller's bug. An empty
// replacement list returns the original unchanged.
func PreserveStructure(original string, replacements []Span) string {
	if len(replacements) == 0 {
		return original
	}

	var sb strings.Builder
	lastEnd := 0
	for _, r := range replacements {
		if r.Start > lastEnd {
			sb.WriteString(original[lastEnd:r.Start])
		}
		sb.WriteString(r.Text)
		lastEnd = r.End
	}
	if lastEnd < len(original) {
		sb.WriteString(original[lastEnd:])
	}
	return sb.String()
}
