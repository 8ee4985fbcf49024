package latex

import "strings"

// SplitBySections splits source at section-level commands (part, chapter,
// section, ... subparagraph). Text before the first heading is returned as a
// Section with an empty heading; a document without headings comes back as
// one Section covering everything.
func (p *Parser) SplitBySections(source string) []Section {
	matches := p.section.FindAllStringSubmatchIndex(source, -1)
	if len(matches) == 0 {
		return []Section{{Heading: "", Text: source}}
	}

	var sections []Section
	if pre := strings.TrimSpace(source[:matches[0][0]]); pre != "" {
		sections = append(sections, Section{Heading: "", Text: pre})
	}

	for i, m := range matches {
		command := source[m[2]:m[3]]
		title := source[m[8]:m[9]]

		end := len(source)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		sections = append(sections, Section{
			Heading: command + ": " + title,
			Text:    strings.TrimSpace(source[m[0]:end]),
		})
	}
	return sections
}
