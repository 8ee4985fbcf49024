package latex

import (
	"strings"
	"testing"
)

func TestExtractTranslatableTextDescendsIntoDocument(t *testing.T) {
	p := NewParser()
	source := "\\documentclass{article}\n" +
		"\\begin{document}\n" +
		"First paragraph.\n" +
		"\\begin{equation}\nx=1\n\\end{equation}\n" +
		"Second paragraph.\n" +
		"\\end{document}\n"

	spans := p.ExtractTranslatableText(source)

	var prose []string
	for _, s := range spans {
		if strings.TrimSpace(s.Text) != "" {
			prose = append(prose, strings.TrimSpace(s.Text))
		}
	}
	if len(prose) != 2 {
		t.Fatalf("expected 2 prose spans, got %d: %v", len(prose), prose)
	}
	if prose[0] != "First paragraph." || prose[1] != "Second paragraph." {
		t.Errorf("unexpected prose spans: %v", prose)
	}

	// offsets must index into the original source
	for _, s := range spans {
		if source[s.Start:s.End] != s.Text {
			t.Errorf("span text does not match source slice: %q vs %q", s.Text, source[s.Start:s.End])
		}
	}
}

func TestExtractTranslatableTextSkipsMathEnvironments(t *testing.T) {
	p := NewParser()
	source := "\\begin{align}\na &= b \\\\\nc &= d\n\\end{align}"

	for _, s := range p.ExtractTranslatableText(source) {
		if strings.TrimSpace(s.Text) != "" {
			t.Errorf("math environment produced a prose span: %q", s.Text)
		}
	}
}

func TestExtractTranslatableTextShieldsDrawingEnvironments(t *testing.T) {
	p := NewParser()
	source := "Intro text.\n" +
		"\\begin{tikzpicture}\n" +
		"\\node at (0,0) {$x$};\n" +
		"\\draw (0,0) -- (1,1);\n" +
		"\\end{tikzpicture}\n" +
		"Outro text.\n"

	var prose []string
	for _, s := range p.ExtractTranslatableText(source) {
		if strings.TrimSpace(s.Text) != "" {
			prose = append(prose, strings.TrimSpace(s.Text))
		}
	}
	if len(prose) != 2 {
		t.Fatalf("expected only the surrounding prose, got %v", prose)
	}
	if prose[0] != "Intro text." || prose[1] != "Outro text." {
		t.Errorf("unexpected prose spans: %v", prose)
	}
}

func TestEnvironmentBody(t *testing.T) {
	p := NewParser()
	elements := p.Parse("\\begin{abstract}inner text\\end{abstract}")

	var env Element
	found := false
	for _, e := range elements {
		if e.Kind == KindEnvironment {
			env = e
			found = true
		}
	}
	if !found {
		t.Fatal("no environment element parsed")
	}

	body, offset, ok := EnvironmentBody(env)
	if !ok {
		t.Fatal("EnvironmentBody reported not ok")
	}
	if body != "inner text" {
		t.Errorf("unexpected body: %q", body)
	}
	if offset != len("\\begin{abstract}") {
		t.Errorf("unexpected offset: %d", offset)
	}

	if _, _, ok := EnvironmentBody(Element{Kind: KindText}); ok {
		t.Error("EnvironmentBody must fail for non-environment elements")
	}
}

func TestPreserveStructureIdentity(t *testing.T) {
	source := "\\section{A}\nsome text\n"
	if got := PreserveStructure(source, nil); got != source {
		t.Errorf("empty replacement list must return the original, got %q", got)
	}
}

func TestPreserveStructureRoundTrip(t *testing.T) {
	p := NewParser()
	source := "\\begin{document}\nHello.\n$a=b$\nBye.\n\\end{document}"

	spans := p.ExtractTranslatableText(source)
	if got := PreserveStructure(source, spans); got != source {
		t.Errorf("splicing unmodified spans must reproduce the source:\nwant %q\ngot  %q", source, got)
	}
}

func TestPreserveStructureReplacement(t *testing.T) {
	p := NewParser()
	source := "\\begin{document}\nHello.\n\\end{document}"

	spans := p.ExtractTranslatableText(source)
	replaced := false
	for i := range spans {
		if strings.TrimSpace(spans[i].Text) == "Hello." {
			spans[i].Text = "\nBonjour.\n"
			replaced = true
		}
	}
	if !replaced {
		t.Fatal("prose span not found")
	}

	got := PreserveStructure(source, spans)
	want := "\\begin{document}\nBonjour.\n\\end{document}"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
