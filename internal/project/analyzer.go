package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"latex-project-translator/internal/latex"
	"latex-project-translator/internal/logger"
	"latex-project-translator/internal/types"
)

// mainFileNames are conventional main-file names, checked in order before
// falling back to \documentclass detection.
var mainFileNames = []string{"main.tex", "paper.tex", "document.tex", "thesis.tex", "article.tex"}

var (
	documentClassRe = regexp.MustCompile(`\\documentclass`)

	dependencyRes = []*regexp.Regexp{
		regexp.MustCompile(`\\input\{([^}]+)\}`),
		regexp.MustCompile(`\\include\{([^}]+)\}`),
		regexp.MustCompile(`\\subfile\{([^}]+)\}`),
		regexp.MustCompile(`\\InputIfFileExists\{([^}]+)\}`),
	}

	// Definition bodies are captured up to the first closing brace; a body
	// with nested braces is recorded truncated. The name capture is what
	// validation and translation rely on.
	newCommandRe     = regexp.MustCompile(`\\(?:re)?newcommand\*?\{\\([^}]+)\}(?:\[(\d+)\])?\{([^}]*)\}`)
	defCommandRe     = regexp.MustCompile(`\\def\\([a-zA-Z]+)\{([^}]*)\}`)
	newEnvironmentRe = regexp.MustCompile(`\\(?:re)?newenvironment\*?\{([^}]+)\}(?:\[(\d+)\])?\{([^}]*)\}\{([^}]*)\}`)
)

// Analyzer builds a Model from a LaTeX project. One Analyzer serves one
// analysis run; nothing is shared between runs.
type Analyzer struct {
	root   string
	parser *latex.Parser
}

// NewAnalyzer creates an Analyzer over the given project root directory.
func NewAnalyzer(root string) *Analyzer {
	return &Analyzer{
		root:   root,
		parser: latex.NewParser(),
	}
}

// Analyze discovers all LaTeX files under the root, analyzes each one, and
// assembles the project model. A file that cannot be read is recorded with
// empty content rather than aborting the run.
func (a *Analyzer) Analyze() (*Model, error) {
	logger.Info("starting project analysis", logger.String("root", a.root))

	paths, err := a.discoverFiles()
	if err != nil {
		return nil, types.NewAppError(types.ErrFileNotFound, "failed to scan project root", err)
	}
	if len(paths) == 0 {
		logger.Warn("no LaTeX files found", logger.String("root", a.root))
	}

	files := make(map[string]string, len(paths))
	var unreadable []string
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(a.root, filepath.FromSlash(rel)))
		if err != nil {
			logger.Warn("failed to read file, recording empty content",
				logger.String("path", rel), logger.Err(err))
			unreadable = append(unreadable, rel)
			files[rel] = ""
			continue
		}
		files[rel] = string(data)
	}

	model := a.buildModel(paths, files)
	model.Root = a.root
	model.UnreadableFiles = unreadable

	logger.Info("project analysis completed",
		logger.Int("files", len(model.Files)),
		logger.String("mainFile", model.MainFile),
		logger.Int("customCommands", len(model.GlobalCommands)))
	return model, nil
}

// AnalyzeFiles runs the same analysis over an in-memory file set, keyed by
// slash-separated relative path. Used for the single-file flow and for
// re-validating translated content without touching disk.
func (a *Analyzer) AnalyzeFiles(files map[string]string) *Model {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	model := a.buildModel(paths, files)
	model.Root = a.root
	return model
}

func (a *Analyzer) buildModel(paths []string, contents map[string]string) *Model {
	model := &Model{
		Files:              make(map[string]*LatexFile, len(paths)),
		FileOrder:          paths,
		GlobalCommands:     map[string]CommandDef{},
		GlobalEnvironments: map[string]EnvironmentDef{},
		DependencyGraph:    map[string][]string{},
	}

	model.MainFile, model.MainFileFallback = pickMainFile(paths, contents)

	for _, path := range paths {
		file := a.analyzeFile(path, contents[path])
		model.Files[path] = file
	}

	// Dependency graph: edges only to files actually present in the project.
	// Unresolved dependencies surface later as validation errors.
	for _, path := range paths {
		var resolved []string
		for _, dep := range model.Files[path].Dependencies {
			if _, ok := model.Files[dep]; ok {
				resolved = append(resolved, dep)
			}
		}
		model.DependencyGraph[path] = resolved
	}

	model.CompilationOrder, model.Cycles = computeCompilationOrder(paths, model.DependencyGraph)

	// Last definition seen wins, scanning files in discovery order.
	for _, path := range paths {
		for _, cmd := range model.Files[path].CustomCommands {
			model.GlobalCommands[cmd.Name] = cmd
		}
		for _, env := range model.Files[path].CustomEnvironments {
			model.GlobalEnvironments[env.Name] = env
		}
	}

	return model
}

// discoverFiles walks the root collecting files with LaTeX extensions,
// returning slash-separated paths relative to the root in sorted order.
func (a *Analyzer) discoverFiles() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable entry", logger.String("path", path), logger.Err(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".tex" && ext != ".latex" {
			return nil
		}
		rel, err := filepath.Rel(a.root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// pickMainFile selects the compilation entry point: a conventional name if
// present, otherwise the first file containing \documentclass, otherwise the
// first file with a fallback flag the validator turns into a warning.
func pickMainFile(paths []string, contents map[string]string) (string, bool) {
	present := make(map[string]bool, len(paths))
	for _, p := range paths {
		present[p] = true
	}
	for _, name := range mainFileNames {
		if present[name] {
			return name, false
		}
	}
	for _, p := range paths {
		if documentClassRe.MatchString(contents[p]) {
			return p, false
		}
	}
	if len(paths) > 0 {
		return paths[0], true
	}
	return "", false
}

func (a *Analyzer) analyzeFile(path, content string) *LatexFile {
	file := newLatexFile(path, content)

	a.collectUsage(content, file, 0)
	collectDependencies(content, file)
	collectDefinitions(content, file)

	return file
}

// collectUsage records command/environment names, citation keys, reference
// keys and labels from the parsed element stream, descending into
// environment bodies so that usage inside \begin{document} is seen.
func (a *Analyzer) collectUsage(source string, file *LatexFile, depth int) {
	const maxDepth = 16
	for _, e := range a.parser.Parse(source) {
		switch e.Kind {
		case latex.KindCommand:
			file.UsedCommands[e.Metadata["command"]] = true
		case latex.KindEnvironment:
			file.UsedEnvironments[e.Metadata["environment"]] = true
			if depth < maxDepth {
				if body, _, ok := latex.EnvironmentBody(e); ok {
					a.collectUsage(body, file, depth+1)
				}
			}
		case latex.KindCitation:
			for _, key := range strings.Split(e.Metadata["keys"], ",") {
				if key = strings.TrimSpace(key); key != "" {
					file.Citations[key] = true
				}
			}
		case latex.KindReference:
			file.Refs[e.Metadata["key"]] = true
		case latex.KindLabel:
			file.Labels[e.Metadata["key"]] = true
		}
	}
}

// collectDependencies scans raw content for \input, \include, \subfile and
// \InputIfFileExists directives, normalizing bare names to a .tex suffix.
func collectDependencies(content string, file *LatexFile) {
	for _, re := range dependencyRes {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			dep := strings.TrimSpace(m[1])
			if dep == "" {
				continue
			}
			if !strings.HasSuffix(dep, ".tex") {
				dep += ".tex"
			}
			file.Dependencies = append(file.Dependencies, dep)
		}
	}
}

// collectDefinitions scans raw content for custom command and environment
// definitions and registers them with this file as their source.
func collectDefinitions(content string, file *LatexFile) {
	for _, m := range newCommandRe.FindAllStringSubmatch(content, -1) {
		numArgs := 0
		if m[2] != "" {
			numArgs, _ = strconv.Atoi(m[2])
		}
		file.CustomCommands = append(file.CustomCommands, CommandDef{
			Name:       m[1],
			Definition: m[3],
			NumArgs:    numArgs,
			SourceFile: file.Path,
		})
	}
	for _, m := range defCommandRe.FindAllStringSubmatch(content, -1) {
		file.CustomCommands = append(file.CustomCommands, CommandDef{
			Name:       m[1],
			Definition: m[2],
			SourceFile: file.Path,
		})
	}
	for _, m := range newEnvironmentRe.FindAllStringSubmatch(content, -1) {
		file.CustomEnvironments = append(file.CustomEnvironments, EnvironmentDef{
			Name:       m[1],
			Definition: "\\begin{" + m[1] + "}" + m[3] + "...\\end{" + m[1] + "}" + m[4],
			SourceFile: file.Path,
		})
	}
}

// computeCompilationOrder produces a depth-first post-order over the
// dependency graph, so every dependency precedes its dependents. A back
// edge to a node still on the traversal stack is a circular dependency: the
// cycle is recorded for the validator to report and the edge is skipped so
// an order is still produced.
func computeCompilationOrder(paths []string, graph map[string][]string) (order []string, cycles [][]string) {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(paths))
	var stack []string

	var visit func(node string)
	visit = func(node string) {
		state[node] = inProgress
		stack = append(stack, node)
		for _, dep := range graph[node] {
			switch state[dep] {
			case unvisited:
				visit(dep)
			case inProgress:
				cycles = append(cycles, extractCycle(stack, dep))
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		order = append(order, node)
	}

	for _, p := range paths {
		if state[p] == unvisited {
			visit(p)
		}
	}
	return order, cycles
}

// extractCycle returns the chain from the re-entered node to the top of the
// stack, closed with the node itself: a -> b -> c -> a.
func extractCycle(stack []string, node string) []string {
	for i, n := range stack {
		if n == node {
			cycle := make([]string, 0, len(stack)-i+1)
			cycle = append(cycle, stack[i:]...)
			return append(cycle, node)
		}
	}
	return []string{node, node}
}

// Context builds the translation context for one file, or nil if the path
// is not part of the model.
func (m *Model) Context(path string) *TranslationContext {
	file, ok := m.Files[path]
	if !ok {
		return nil
	}

	ctx := &TranslationContext{
		FilePath:              path,
		IsMainFile:            path == m.MainFile,
		Dependencies:          append([]string(nil), file.Dependencies...),
		AvailableCommands:     m.KnownCommandNames(),
		AvailableEnvironments: m.KnownEnvironmentNames(),
		CustomCommands:        map[string]string{},
		CustomEnvironments:    map[string]string{},
		UsedCommands:          sortedKeys(file.UsedCommands),
		UsedEnvironments:      sortedKeys(file.UsedEnvironments),
		Citations:             sortedKeys(file.Citations),
		Labels:                sortedKeys(file.Labels),
		Refs:                  sortedKeys(file.Refs),
	}
	for _, cmd := range file.CustomCommands {
		ctx.CustomCommands[cmd.Name] = cmd.Definition
	}
	for _, env := range file.CustomEnvironments {
		ctx.CustomEnvironments[env.Name] = env.Definition
	}
	return ctx
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
