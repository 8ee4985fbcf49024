// Package project implements project-level analysis of a LaTeX source tree:
// file discovery, main-file selection, inter-file dependency resolution and
// compilation ordering, plus the custom command/environment registry used by
// validation and translation.
package project

// CommandDef is a custom command definition found in a project file
// (\newcommand, \renewcommand or \def).
type CommandDef struct {
	Name       string
	Definition string
	NumArgs    int
	SourceFile string
}

// EnvironmentDef is a custom environment definition found in a project file
// (\newenvironment or \renewenvironment).
type EnvironmentDef struct {
	Name       string
	Definition string
	SourceFile string
}

// LatexFile holds everything the analyzer learned about one source file.
// It is owned by the Model that created it; Content may be swapped by an
// auto-fix pass before re-validation.
type LatexFile struct {
	Path               string
	Content            string
	Dependencies       []string
	CustomCommands     []CommandDef
	CustomEnvironments []EnvironmentDef
	UsedCommands       map[string]bool
	UsedEnvironments   map[string]bool
	Citations          map[string]bool
	Labels             map[string]bool
	Refs               map[string]bool
}

func newLatexFile(path, content string) *LatexFile {
	return &LatexFile{
		Path:             path,
		Content:          content,
		UsedCommands:     map[string]bool{},
		UsedEnvironments: map[string]bool{},
		Citations:        map[string]bool{},
		Labels:           map[string]bool{},
		Refs:             map[string]bool{},
	}
}

// Model is the result of one analysis run. It is built once per run and not
// mutated afterwards, except that a caller may patch Files[path].Content and
// re-run validation (the auto-fix flow). Redefinition of a command or
// environment name keeps only the last definition seen in discovery order.
type Model struct {
	Root               string
	MainFile           string
	MainFileFallback   bool // main file picked arbitrarily: no conventional name, no \documentclass
	Files              map[string]*LatexFile
	FileOrder          []string // discovery order
	GlobalCommands     map[string]CommandDef
	GlobalEnvironments map[string]EnvironmentDef
	DependencyGraph    map[string][]string
	CompilationOrder   []string
	Cycles             [][]string // circular dependency chains found during ordering
	UnreadableFiles    []string   // files recorded with empty content after a read failure
}

// AllLabels collects every label key defined anywhere in the project.
func (m *Model) AllLabels() map[string]bool {
	labels := map[string]bool{}
	for _, f := range m.Files {
		for l := range f.Labels {
			labels[l] = true
		}
	}
	return labels
}

// TranslationContext bundles the per-file information a translation backend
// needs to avoid breaking the document.
type TranslationContext struct {
	FilePath              string
	IsMainFile            bool
	Dependencies          []string
	AvailableCommands     []string
	AvailableEnvironments []string
	CustomCommands        map[string]string
	CustomEnvironments    map[string]string
	UsedCommands          []string
	UsedEnvironments      []string
	Citations             []string
	Labels                []string
	Refs                  []string
}
