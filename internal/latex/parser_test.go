package latex

import (
	"strings"
	"testing"
)

// ============================================================
// Round-trip and ordering guarantees
// ============================================================

func assertRoundTrip(t *testing.T, p *Parser, source string) {
	t.Helper()
	elements := p.Parse(source)

	var sb strings.Builder
	for _, e := range elements {
		sb.WriteString(e.Content)
	}
	if sb.String() != source {
		t.Errorf("concatenated elements do not reproduce source:\nsource: %q\ngot:    %q", source, sb.String())
	}

	lastEnd := 0
	for i, e := range elements {
		if e.Start < lastEnd {
			t.Errorf("element %d overlaps previous: start=%d lastEnd=%d", i, e.Start, lastEnd)
		}
		if e.End-e.Start != len(e.Content) {
			t.Errorf("element %d span/content mismatch: span=%d content=%d", i, e.End-e.Start, len(e.Content))
		}
		lastEnd = e.End
	}
}

func TestParseRoundTrip(t *testing.T) {
	p := NewParser()
	sources := []string{
		"",
		"plain prose with no markup at all",
		"\\section{Intro}\nHello world.",
		"Before $x+y=2$ after, and \\cite{foo} too.",
		"$$\\int_0^1 f(x)\\,dx$$ and \\[a=b\\] displays",
		"\\begin{equation}\nE=mc^2\n\\end{equation}",
		"\\begin{itemize}\n\\item one\n\\item two\n\\end{itemize}",
		"% a comment line\ntext\n50\\% escaped percent",
		"\\documentclass[11pt]{article}\n\\usepackage{amsmath}\n\\begin{document}\nBody text.\n\\end{document}\n",
		"\\label{sec:intro} then \\ref{sec:intro} and \\cite[p.~3]{knuth84}",
		"unterminated \\begin{theorem} with no end",
		"   \n\t\n", // whitespace only
	}

	for _, source := range sources {
		assertRoundTrip(t, p, source)
	}
}

func TestParseEmptySource(t *testing.T) {
	p := NewParser()
	if got := p.Parse(""); len(got) != 0 {
		t.Errorf("expected no elements for empty source, got %d", len(got))
	}
}

func TestParseUnstructuredSource(t *testing.T) {
	p := NewParser()
	elements := p.Parse("just words here")
	if len(elements) != 1 {
		t.Fatalf("expected one element, got %d", len(elements))
	}
	if elements[0].Kind != KindText || !elements[0].Translatable {
		t.Errorf("expected a translatable text element, got %v translatable=%v", elements[0].Kind, elements[0].Translatable)
	}
}

// ============================================================
// Element recognition
// ============================================================

func findKind(elements []Element, kind ElementKind) []Element {
	var out []Element
	for _, e := range elements {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestParseSectionCommandAndText(t *testing.T) {
	p := NewParser()
	elements := p.Parse("\\section{Intro}\nHello world.")

	commands := findKind(elements, KindCommand)
	if len(commands) != 1 {
		t.Fatalf("expected one command element, got %d", len(commands))
	}
	if commands[0].Content != "\\section{Intro}" {
		t.Errorf("unexpected command content: %q", commands[0].Content)
	}
	if !commands[0].Translatable {
		t.Error("section command should be translatable")
	}
	if commands[0].Metadata["command"] != "section" {
		t.Errorf("unexpected command metadata: %q", commands[0].Metadata["command"])
	}

	texts := findKind(elements, KindText)
	var prose []Element
	for _, e := range texts {
		if e.Translatable {
			prose = append(prose, e)
		}
	}
	if len(prose) != 1 || !strings.Contains(prose[0].Content, "Hello world.") {
		t.Errorf("expected one prose text element containing the greeting, got %+v", prose)
	}
}

func TestParseMathAndCitationNotTranslatable(t *testing.T) {
	p := NewParser()
	elements := p.Parse("Before $x+y=2$ after, and \\cite{foo} too.")

	math := findKind(elements, KindMathInline)
	if len(math) != 1 || math[0].Content != "$x+y=2$" {
		t.Fatalf("expected inline math $x+y=2$, got %+v", math)
	}
	if math[0].Translatable {
		t.Error("inline math must not be translatable")
	}

	cites := findKind(elements, KindCitation)
	if len(cites) != 1 || cites[0].Metadata["keys"] != "foo" {
		t.Fatalf("expected citation with key foo, got %+v", cites)
	}
	if cites[0].Translatable {
		t.Error("citation must not be translatable")
	}

	for _, e := range findKind(elements, KindText) {
		if e.Translatable && (strings.Contains(e.Content, "x+y") || strings.Contains(e.Content, "foo")) {
			t.Errorf("math/citation content leaked into translatable text: %q", e.Content)
		}
	}
}

func TestParseDisplayMathBeatsInline(t *testing.T) {
	p := NewParser()
	elements := p.Parse("$$a+b$$")

	if len(findKind(elements, KindMathDisplay)) != 1 {
		t.Error("expected one display math element")
	}
	if len(findKind(elements, KindMathInline)) != 0 {
		t.Error("display math span must not also match inline math")
	}
}

func TestParseBracketDisplayMath(t *testing.T) {
	p := NewParser()
	elements := p.Parse("text \\[a = b\\] more")

	display := findKind(elements, KindMathDisplay)
	if len(display) != 1 || display[0].Content != "\\[a = b\\]" {
		t.Fatalf("expected bracket display math, got %+v", display)
	}
}

func TestParseEnvironments(t *testing.T) {
	p := NewParser()

	t.Run("math environment not translatable", func(t *testing.T) {
		elements := p.Parse("\\begin{equation}\nE=mc^2\n\\end{equation}")
		envs := findKind(elements, KindEnvironment)
		if len(envs) != 1 {
			t.Fatalf("expected one environment, got %d", len(envs))
		}
		if envs[0].Translatable {
			t.Error("equation environment must not be translatable")
		}
		if envs[0].Metadata["environment"] != "equation" {
			t.Errorf("unexpected environment name: %q", envs[0].Metadata["environment"])
		}
	})

	t.Run("prose environment translatable", func(t *testing.T) {
		elements := p.Parse("\\begin{abstract}\nWe show things.\n\\end{abstract}")
		envs := findKind(elements, KindEnvironment)
		if len(envs) != 1 || !envs[0].Translatable {
			t.Fatalf("expected one translatable environment, got %+v", envs)
		}
	})

	t.Run("environment owns math inside its body", func(t *testing.T) {
		source := "Intro text.\n" +
			"\\begin{tikzpicture}\n" +
			"\\node at (0,0) {$x$};\n" +
			"\\draw (0,0) -- (1,1);\n" +
			"\\end{tikzpicture}\n"
		elements := p.Parse(source)

		envs := findKind(elements, KindEnvironment)
		if len(envs) != 1 {
			t.Fatalf("expected one environment, got %d", len(envs))
		}
		if envs[0].Translatable {
			t.Error("tikzpicture environment must not be translatable")
		}
		if !strings.Contains(envs[0].Content, "$x$") {
			t.Errorf("inline math must stay inside the environment span, got %q", envs[0].Content)
		}
		if len(findKind(elements, KindMathInline)) != 0 {
			t.Error("math inside an environment body must not surface as a separate element")
		}
		assertRoundTrip(t, p, source)
	})

	t.Run("unterminated environment falls through", func(t *testing.T) {
		elements := p.Parse("\\begin{theorem} body without end")
		if len(findKind(elements, KindEnvironment)) != 0 {
			t.Error("unterminated environment must not produce an environment element")
		}
		// \begin{theorem} is still matched as a command
		if len(findKind(elements, KindCommand)) == 0 {
			t.Error("expected \\begin to degrade to a command element")
		}
	})
}

func TestParseComments(t *testing.T) {
	p := NewParser()
	elements := p.Parse("% full line comment\ntext 50\\% of it % trailing comment\n")

	comments := findKind(elements, KindComment)
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d: %+v", len(comments), comments)
	}
	if comments[0].Content != "% full line comment" {
		t.Errorf("unexpected first comment: %q", comments[0].Content)
	}
	if comments[1].Content != "% trailing comment" {
		t.Errorf("unexpected second comment: %q", comments[1].Content)
	}
}

func TestParseReferencesAndLabels(t *testing.T) {
	p := NewParser()
	elements := p.Parse("\\label{sec:a} see \\ref{sec:a} and \\eqref{eq:1} and \\autoref{fig:2}")

	labels := findKind(elements, KindLabel)
	if len(labels) != 1 || labels[0].Metadata["key"] != "sec:a" {
		t.Fatalf("expected one label sec:a, got %+v", labels)
	}

	refs := findKind(elements, KindReference)
	if len(refs) != 3 {
		t.Fatalf("expected 3 references, got %d", len(refs))
	}
	keys := map[string]bool{}
	for _, r := range refs {
		keys[r.Metadata["key"]] = true
	}
	for _, want := range []string{"sec:a", "eq:1", "fig:2"} {
		if !keys[want] {
			t.Errorf("missing reference key %q", want)
		}
	}
}

func TestParseCitationVariants(t *testing.T) {
	p := NewParser()
	tests := []struct {
		source string
		keys   string
	}{
		{"\\cite{a}", "a"},
		{"\\citep{a,b}", "a,b"},
		{"\\citet*{x}", "x"},
		{"\\Cite[p.~7]{y}", "y"},
	}
	for _, tt := range tests {
		cites := findKind(p.Parse(tt.source), KindCitation)
		if len(cites) != 1 {
			t.Errorf("%q: expected one citation, got %d", tt.source, len(cites))
			continue
		}
		if cites[0].Metadata["keys"] != tt.keys {
			t.Errorf("%q: expected keys %q, got %q", tt.source, tt.keys, cites[0].Metadata["keys"])
		}
	}
}

func TestParseNonTranslatableCommands(t *testing.T) {
	p := NewParser()
	elements := p.Parse("\\usepackage{amsmath}\n\\textbf{bold words}")

	commands := findKind(elements, KindCommand)
	if len(commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(commands))
	}
	byName := map[string]Element{}
	for _, c := range commands {
		byName[c.Metadata["command"]] = c
	}
	if byName["usepackage"].Translatable {
		t.Error("usepackage must not be translatable")
	}
	if !byName["textbf"].Translatable {
		t.Error("textbf should be translatable")
	}
}

func TestParseWhitespaceGapsKeptButNotTranslatable(t *testing.T) {
	p := NewParser()
	elements := p.Parse("\\cite{a} \\cite{b}")

	for _, e := range findKind(elements, KindText) {
		if strings.TrimSpace(e.Content) == "" && e.Translatable {
			t.Errorf("whitespace-only gap marked translatable: %q", e.Content)
		}
	}
	assertRoundTrip(t, p, "\\cite{a} \\cite{b}")
}
