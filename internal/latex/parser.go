package latex

import (
	"regexp"
	"sort"
	"strings"
)

// Parser locates LaTeX elements with locally-scoped pattern recognition.
// It is deliberately not a grammar engine: environments are matched to the
// first \end{X} after their \begin{X}, so same-named nested environments are
// mishandled, and brace groups in command arguments do not nest. The
// guarantees that do hold: Parse is total, its result is sorted by start
// offset, spans never overlap, and concatenating all element content
// reproduces the input byte for byte.
type Parser struct {
	mathDisplay *regexp.Regexp
	mathInline  *regexp.Regexp
	command     *regexp.Regexp
	begin       *regexp.Regexp
	citation    *regexp.Regexp
	reference   *regexp.Regexp
	label       *regexp.Regexp
	section     *regexp.Regexp
}

// NewParser creates a Parser with all patterns compiled.
func NewParser() *Parser {
	return &Parser{
		mathDisplay: regexp.MustCompile(`(?s)\$\$[^$]+\$\$|\\\[.*?\\\]`),
		mathInline:  regexp.MustCompile(`\$[^$]+\$`),
		command:     regexp.MustCompile(`\\([a-zA-Z]+)(\*?)(\[[^\]]*\])?((?:\{[^{}]*\})*)`),
		begin:       regexp.MustCompile(`\\begin\{([^}]+)\}`),
		citation:    regexp.MustCompile(`\\[cC]ite[a-zA-Z]*\*?(?:\[[^\]]*\])?\{([^}]+)\}`),
		reference:   regexp.MustCompile(`\\(?:ref|pageref|autoref|nameref|eqref|cref|Cref)\*?\{([^}]+)\}`),
		label:       regexp.MustCompile(`\\label\{([^}]+)\}`),
		section: regexp.MustCompile(
			`(?m)^\\(` + strings.Join(sectionCommands, "|") + `)(\*?)(\[[^\]]*\])?\{([^}]+)\}`),
	}
}

// Parse decomposes source into a sorted, non-overlapping, gap-filled element
// sequence. It never fails: input without recognizable structure yields a
// single text element spanning the whole string.
func (p *Parser) Parse(source string) []Element {
	var accepted []Element

	// Discovery order is the tie-break: a later candidate whose span
	// intersects an accepted element is discarded. Display math is found
	// first so \[ \begin{cases}...\end{cases} \] stays one math span.
	// Environments come before inline math: an environment owns its whole
	// body, shielding $...$ inside a tikzpicture or lstlisting from being
	// claimed separately (the extraction recursion re-finds math inside
	// translatable bodies). Citation/reference/label patterns run before the
	// generic command pattern so their spans are never re-tagged.
	accepted = acceptAll(accepted, p.findMathDisplay(source))
	accepted = acceptAll(accepted, p.findEnvironments(source))
	accepted = acceptAll(accepted, p.findMathInline(source))
	accepted = acceptAll(accepted, p.findComments(source))
	accepted = acceptAll(accepted, p.findCitations(source))
	accepted = acceptAll(accepted, p.findReferences(source))
	accepted = acceptAll(accepted, p.findLabels(source))
	accepted = acceptAll(accepted, p.findCommands(source))

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Start < accepted[j].Start })

	return fillTextGaps(source, accepted)
}

// acceptAll appends the candidates that do not overlap any already-accepted
// element. candidates must be sorted by start and non-overlapping among
// themselves.
func acceptAll(accepted []Element, candidates []Element) []Element {
	for _, c := range candidates {
		if !overlapsAny(accepted, c.Start, c.End) {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

func overlapsAny(elements []Element, start, end int) bool {
	for _, e := range elements {
		if start < e.End && e.Start < end {
			return true
		}
	}
	return false
}

func (p *Parser) findMathDisplay(source string) []Element {
	var out []Element
	for _, m := range p.mathDisplay.FindAllStringIndex(source, -1) {
		out = append(out, Element{
			Kind:    KindMathDisplay,
			Content: source[m[0]:m[1]],
			Start:   m[0],
			End:     m[1],
		})
	}
	return out
}

func (p *Parser) findMathInline(source string) []Element {
	var out []Element
	for _, m := range p.mathInline.FindAllStringIndex(source, -1) {
		out = append(out, Element{
			Kind:    KindMathInline,
			Content: source[m[0]:m[1]],
			Start:   m[0],
			End:     m[1],
		})
	}
	return out
}

// findEnvironments matches each \begin{X} to the first following \end{X}.
// Go's regexp has no backreferences, so the closing delimiter is located
// with a plain substring search. First boundary wins; truly nested
// same-named environments are not tracked.
func (p *Parser) findEnvironments(source string) []Element {
	var out []Element
	lastEnd := 0
	for _, m := range p.begin.FindAllStringSubmatchIndex(source, -1) {
		if m[0] < lastEnd {
			// inside the previous environment span
			continue
		}
		name := source[m[2]:m[3]]
		closer := "\\end{" + name + "}"
		idx := strings.Index(source[m[1]:], closer)
		if idx < 0 {
			continue
		}
		end := m[1] + idx + len(closer)
		out = append(out, Element{
			Kind:         KindEnvironment,
			Content:      source[m[0]:end],
			Start:        m[0],
			End:          end,
			Translatable: !nonTranslatableEnvironments[name],
			Metadata:     map[string]string{"environment": name},
		})
		lastEnd = end
	}
	return out
}

// findComments matches % to end of line, skipping escaped \%. A byte scan
// instead of a regexp: an escaped \% must not swallow a real comment later
// on the same line.
func (p *Parser) findComments(source string) []Element {
	var out []Element
	for i := 0; i < len(source); i++ {
		if source[i] != '%' {
			continue
		}
		if i > 0 && source[i-1] == '\\' {
			continue
		}
		end := strings.IndexByte(source[i:], '\n')
		if end < 0 {
			end = len(source)
		} else {
			end += i
		}
		out = append(out, Element{
			Kind:    KindComment,
			Content: source[i:end],
			Start:   i,
			End:     end,
		})
		i = end
	}
	return out
}

func (p *Parser) findCitations(source string) []Element {
	var out []Element
	for _, m := range p.citation.FindAllStringSubmatchIndex(source, -1) {
		out = append(out, Element{
			Kind:     KindCitation,
			Content:  source[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Metadata: map[string]string{"keys": source[m[2]:m[3]]},
		})
	}
	return out
}

func (p *Parser) findReferences(source string) []Element {
	var out []Element
	for _, m := range p.reference.FindAllStringSubmatchIndex(source, -1) {
		out = append(out, Element{
			Kind:     KindReference,
			Content:  source[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Metadata: map[string]string{"key": source[m[2]:m[3]]},
		})
	}
	return out
}

func (p *Parser) findLabels(source string) []Element {
	var out []Element
	for _, m := range p.label.FindAllStringSubmatchIndex(source, -1) {
		out = append(out, Element{
			Kind:     KindLabel,
			Content:  source[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Metadata: map[string]string{"key": source[m[2]:m[3]]},
		})
	}
	return out
}

func (p *Parser) findCommands(source string) []Element {
	var out []Element
	for _, m := range p.command.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		out = append(out, Element{
			Kind:         KindCommand,
			Content:      source[m[0]:m[1]],
			Start:        m[0],
			End:          m[1],
			Translatable: !nonTranslatableCommands[name],
			Metadata:     map[string]string{"command": name},
		})
	}
	return out
}

// fillTextGaps inserts a text element for every gap between consecutive
// elements, before the first and after the last. Whitespace-only gaps are
// kept (so the concatenated result reproduces the source exactly) but
// marked non-translatable.
func fillTextGaps(source string, elements []Element) []Element {
	if len(elements) == 0 {
		if source == "" {
			return nil
		}
		return []Element{{
			Kind:         KindText,
			Content:      source,
			Start:        0,
			End:          len(source),
			Translatable: strings.TrimSpace(source) != "",
		}}
	}

	result := make([]Element, 0, 2*len(elements)+1)
	lastEnd := 0
	for _, e := range elements {
		if e.Start > lastEnd {
			result = append(result, textElement(source, lastEnd, e.Start))
		}
		result = append(result, e)
		lastEnd = e.End
	}
	if lastEnd < len(source) {
		result = append(result, textElement(source, lastEnd, len(source)))
	}
	return result
}

func textElement(source string, start, end int) Element {
	content := source[start:end]
	return Element{
		Kind:         KindText,
		Content:      content,
		Start:        start,
		End:          end,
		Translatable: strings.TrimSpace(content) != "",
	}
}
