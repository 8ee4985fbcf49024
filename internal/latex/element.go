// Package latex implements the structural LaTeX document model: a heuristic
// parser that decomposes source into typed, position-tracked elements, a
// section splitter, and the splice-back operation used to re-insert
// translated text without touching document structure.
package latex

// ElementKind classifies a lexical span of LaTeX source.
type ElementKind int

const (
	// KindText is plain prose between structural elements
	KindText ElementKind = iota
	// KindMathInline is $...$ math
	KindMathInline
	// KindMathDisplay is $$...$$ or \[...\] math
	KindMathDisplay
	// KindCommand is a \command with optional star, optional argument and brace groups
	KindCommand
	// KindEnvironment is a \begin{X}...\end{X} block
	KindEnvironment
	// KindComment is a % comment to end of line
	KindComment
	// KindCitation is a \cite-family reference to bibliography keys
	KindCitation
	// KindReference is a \ref-family reference to a label
	KindReference
	// KindLabel is a \label definition
	KindLabel
)

// String returns the string representation of the element kind
func (k ElementKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMathInline:
		return "math_inline"
	case KindMathDisplay:
		return "math_display"
	case KindCommand:
		return "command"
	case KindEnvironment:
		return "environment"
	case KindComment:
		return "comment"
	case KindCitation:
		return "citation"
	case KindReference:
		return "reference"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Element is a classified, position-tagged span of LaTeX source.
// Content is the exact source slice [Start, End); concatenating the
// Content of a full parse result in order reproduces the input.
type Element struct {
	Kind         ElementKind
	Content      string
	Start        int
	End          int
	Translatable bool
	Metadata     map[string]string
}

// Span is a half-open [Start, End) range of source text, used to hand
// translatable pieces to a translation backend and splice them back.
type Span struct {
	Text  string
	Start int
	End   int
}

// Section is one section-level slice of a document produced by
// SplitBySections. Heading is "" for content before the first heading.
type Section struct {
	Heading string
	Text    string
}

// nonTranslatableCommands are structural commands whose spans must never be
// handed to a translation backend.
var nonTranslatableCommands = map[string]bool{
	"cite": true, "ref": true, "label": true, "includegraphics": true,
	"input": true, "include": true, "documentclass": true, "usepackage": true,
	"newcommand": true, "renewcommand": true, "def": true, "let": true,
	"url": true, "href": true, "hyperref": true, "pageref": true,
	"autoref": true, "nameref": true, "eqref": true, "cref": true, "Cref": true,
	"bibliography": true, "bibliographystyle": true,
}

// nonTranslatableEnvironments are environments whose bodies are math, code
// or drawings rather than natural language.
var nonTranslatableEnvironments = map[string]bool{
	"equation": true, "align": true, "gather": true, "multline": true,
	"flalign": true, "alignat": true, "eqnarray": true, "displaymath": true,
	"verbatim": true, "lstlisting": true, "minted": true,
	"algorithm": true, "algorithmic": true, "tikzpicture": true, "pgfpicture": true,
}

// sectionCommands lists the section-level commands in ranking order,
// part (highest) down to subparagraph.
var sectionCommands = []string{
	"part", "chapter", "section", "subsection",
	"subsubsection", "paragraph", "subparagraph",
}
