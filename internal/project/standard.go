package project

// standardCommands are core LaTeX commands that need no package or custom
// definition. Used by the unknown-command check.
var standardCommands = map[string]bool{
	"section": true, "subsection": true, "subsubsection": true,
	"paragraph": true, "subparagraph": true, "chapter": true, "part": true,
	"title": true, "author": true, "date": true, "maketitle": true,
	"tableofcontents": true, "listoffigures": true, "listoftables": true,
	"textbf": true, "textit": true, "textsc": true, "texttt": true,
	"textrm": true, "textsf": true, "emph": true, "underline": true,
	"footnote": true, "marginpar": true, "caption": true,
	"label": true, "ref": true, "pageref": true,
	"cite": true, "bibliography": true, "bibliographystyle": true,
	"begin": true, "end": true, "item": true,
	"newpage": true, "clearpage": true, "pagebreak": true, "linebreak": true,
	"noindent": true, "indent": true, "par": true,
	"hspace": true, "vspace": true, "quad": true, "qquad": true,
	"includegraphics": true, "usepackage": true, "documentclass": true,
	"newcommand": true, "renewcommand": true, "newenvironment": true,
	"renewenvironment": true, "def": true, "let": true,
	"input": true, "include": true, "left": true, "right": true,
	"frac": true, "sqrt": true, "sum": true, "int": true, "prod": true,
	"alpha": true, "beta": true, "gamma": true, "delta": true,
	"epsilon": true, "lambda": true, "mu": true, "sigma": true,
	"theta": true, "phi": true, "pi": true, "omega": true,
	"mathbf": true, "mathit": true, "mathrm": true, "mathcal": true,
	"cdot": true, "times": true, "leq": true, "geq": true, "neq": true,
	"infty": true, "partial": true, "nabla": true,
}

// standardEnvironments are core LaTeX environments.
var standardEnvironments = map[string]bool{
	"document": true, "abstract": true, "quote": true, "quotation": true,
	"verse": true, "itemize": true, "enumerate": true, "description": true,
	"list": true, "figure": true, "table": true, "tabular": true,
	"array": true, "equation": true, "align": true, "gather": true,
	"multline": true, "split": true, "eqnarray": true, "displaymath": true,
	"math": true, "center": true, "flushleft": true, "flushright": true,
	"minipage": true, "verbatim": true, "thebibliography": true,
	"theindex": true, "titlepage": true, "appendix": true,
}

// packageCommands is a fixed allowlist of commands provided by common
// packages (amsmath, amssymb, graphicx, hyperref, geometry, fancyhdr, babel,
// natbib, tikz, listings, algorithm families). A command found here is not
// flagged as unknown even without a custom definition.
var packageCommands = map[string]bool{
	// amsmath
	"align": true, "gather": true, "multline": true, "split": true,
	"aligned": true, "gathered": true, "cases": true, "matrix": true,
	"pmatrix": true, "bmatrix": true, "vmatrix": true, "Vmatrix": true,
	"text": true, "operatorname": true, "DeclareMathOperator": true,
	// amssymb
	"mathbb": true, "mathfrak": true, "mathscr": true,
	// graphicx
	"rotatebox": true, "scalebox": true, "resizebox": true, "graphicspath": true,
	// hyperref
	"href": true, "url": true, "hyperref": true, "hypersetup": true,
	"autoref": true, "nameref": true,
	// geometry
	"geometry": true, "newgeometry": true, "restoregeometry": true,
	// fancyhdr
	"fancyhf": true, "fancyhead": true, "fancyfoot": true, "pagestyle": true,
	"thispagestyle": true,
	// babel
	"selectlanguage": true, "foreignlanguage": true,
	// natbib
	"citep": true, "citet": true, "citealp": true, "citealt": true,
	"citeauthor": true, "citeyear": true,
	// cleveref
	"cref": true, "Cref": true, "crefname": true,
	// tikz
	"tikz": true, "tikzpicture": true, "node": true, "draw": true,
	"fill": true, "path": true, "usetikzlibrary": true,
	// listings
	"lstlisting": true, "lstinputlisting": true, "lstset": true,
	// algorithm families
	"algorithm": true, "algorithmic": true, "algsetup": true,
	"State": true, "For": true, "EndFor": true, "If": true, "EndIf": true,
	"While": true, "EndWhile": true, "Return": true, "Require": true,
	"Ensure": true, "Procedure": true, "EndProcedure": true, "Call": true,
}

// IsKnownCommand reports whether name is a standard LaTeX command, a common
// package command, or a project-defined custom command.
func (m *Model) IsKnownCommand(name string) bool {
	if standardCommands[name] || packageCommands[name] {
		return true
	}
	_, ok := m.GlobalCommands[name]
	return ok
}

// KnownCommandNames returns the union of standard commands and the
// project's custom registry, for translation-context export.
func (m *Model) KnownCommandNames() []string {
	names := make([]string, 0, len(standardCommands)+len(m.GlobalCommands))
	for name := range standardCommands {
		names = append(names, name)
	}
	for name := range m.GlobalCommands {
		names = append(names, name)
	}
	return names
}

// KnownEnvironmentNames returns the union of standard environments and the
// project's custom registry.
func (m *Model) KnownEnvironmentNames() []string {
	names := make([]string, 0, len(standardEnvironments)+len(m.GlobalEnvironments))
	for name := range standardEnvironments {
		names = append(names, name)
	}
	for name := range m.GlobalEnvironments {
		names = append(names, name)
	}
	return names
}
