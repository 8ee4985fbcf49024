package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func TestAnalyzeDependencyOrder(t *testing.T) {
	root := writeProject(t, map[string]string{
		"main.tex": "\\documentclass{article}\n\\input{defs}\n\\begin{document}\nText.\n\\end{document}\n",
		"defs.tex": "\\newcommand{\\foo}{bar}\n",
	})

	model, err := NewAnalyzer(root).Analyze()
	require.NoError(t, err)

	assert.Equal(t, "main.tex", model.MainFile)
	assert.False(t, model.MainFileFallback)
	assert.Equal(t, []string{"defs.tex"}, model.DependencyGraph["main.tex"])

	di := indexOf(model.CompilationOrder, "defs.tex")
	mi := indexOf(model.CompilationOrder, "main.tex")
	require.GreaterOrEqual(t, di, 0)
	require.GreaterOrEqual(t, mi, 0)
	assert.Less(t, di, mi, "dependency must precede its dependent")
	assert.Empty(t, model.Cycles)
}

func TestAnalyzeCycleDetection(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.tex": "\\input{b}\n",
		"b.tex": "\\input{a}\n",
	})

	model, err := NewAnalyzer(root).Analyze()
	require.NoError(t, err)

	require.Len(t, model.Cycles, 1)
	cycle := model.Cycles[0]
	assert.Equal(t, cycle[0], cycle[len(cycle)-1], "cycle must be closed")
	assert.Contains(t, cycle, "a.tex")
	assert.Contains(t, cycle, "b.tex")
	// an order is still produced, covering every file exactly once
	assert.Len(t, model.CompilationOrder, 2)
}

func TestPickMainFile(t *testing.T) {
	t.Run("conventional name wins", func(t *testing.T) {
		root := writeProject(t, map[string]string{
			"aaa.tex":  "\\documentclass{book}",
			"main.tex": "no documentclass here",
		})
		model, err := NewAnalyzer(root).Analyze()
		require.NoError(t, err)
		assert.Equal(t, "main.tex", model.MainFile)
		assert.False(t, model.MainFileFallback)
	})

	t.Run("documentclass fallback", func(t *testing.T) {
		root := writeProject(t, map[string]string{
			"intro.tex": "\\section{Intro}",
			"root.tex":  "\\documentclass{article}",
		})
		model, err := NewAnalyzer(root).Analyze()
		require.NoError(t, err)
		assert.Equal(t, "root.tex", model.MainFile)
		assert.False(t, model.MainFileFallback)
	})

	t.Run("arbitrary fallback is flagged", func(t *testing.T) {
		root := writeProject(t, map[string]string{
			"x.tex": "plain",
			"y.tex": "plain",
		})
		model, err := NewAnalyzer(root).Analyze()
		require.NoError(t, err)
		assert.Equal(t, "x.tex", model.MainFile)
		assert.True(t, model.MainFileFallback)
	})
}

func TestDiscoverFilesExtensionsAndSubdirs(t *testing.T) {
	root := writeProject(t, map[string]string{
		"main.tex":           "\\documentclass{article}",
		"chapters/one.tex":   "text",
		"notes.latex":        "text",
		"figure.png":         "binary junk",
		"bibliography.bib":   "@article{a}",
		"chapters/extra.txt": "not latex",
	})

	model, err := NewAnalyzer(root).Analyze()
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"main.tex", "chapters/one.tex", "notes.latex"},
		model.FileOrder)
}

func TestCollectDefinitions(t *testing.T) {
	root := writeProject(t, map[string]string{
		"main.tex": "\\documentclass{article}\n" +
			"\\newcommand{\\vect}[1]{\\mathbf{#1}}\n" +
			"\\renewcommand{\\emph}{\\textit}\n" +
			"\\def\\shortcut{expansion}\n" +
			"\\newenvironment{theo}{start}{finish}\n",
	})

	model, err := NewAnalyzer(root).Analyze()
	require.NoError(t, err)

	file := model.Files["main.tex"]
	names := map[string]CommandDef{}
	for _, c := range file.CustomCommands {
		names[c.Name] = c
	}

	require.Contains(t, names, "vect")
	assert.Equal(t, 1, names["vect"].NumArgs)
	assert.Equal(t, "main.tex", names["vect"].SourceFile)
	require.Contains(t, names, "emph")
	require.Contains(t, names, "shortcut")
	assert.Equal(t, "expansion", names["shortcut"].Definition)

	require.Len(t, file.CustomEnvironments, 1)
	assert.Equal(t, "theo", file.CustomEnvironments[0].Name)

	// definitions are promoted to the global registry
	assert.Contains(t, model.GlobalCommands, "vect")
	assert.Contains(t, model.GlobalEnvironments, "theo")
}

func TestLastDefinitionWins(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.tex": "\\newcommand{\\dup}{first}\n",
		"b.tex": "\\newcommand{\\dup}{second}\n",
	})

	model, err := NewAnalyzer(root).Analyze()
	require.NoError(t, err)

	// discovery order is sorted, so b.tex is scanned after a.tex
	assert.Equal(t, "second", model.GlobalCommands["dup"].Definition)
	assert.Equal(t, "b.tex", model.GlobalCommands["dup"].SourceFile)
}

func TestCollectUsageInsideDocument(t *testing.T) {
	root := writeProject(t, map[string]string{
		"main.tex": "\\documentclass{article}\n" +
			"\\begin{document}\n" +
			"\\label{sec:x} uses \\customcmd{} and cites \\cite{one, two}\n" +
			"see \\ref{sec:x}\n" +
			"\\begin{itemize}\\item a\\end{itemize}\n" +
			"\\end{document}\n",
	})

	model, err := NewAnalyzer(root).Analyze()
	require.NoError(t, err)

	file := model.Files["main.tex"]
	assert.True(t, file.UsedCommands["customcmd"], "usage inside document body must be seen")
	assert.True(t, file.UsedEnvironments["document"])
	assert.True(t, file.UsedEnvironments["itemize"])
	assert.True(t, file.Citations["one"])
	assert.True(t, file.Citations["two"], "comma-separated keys are split")
	assert.True(t, file.Labels["sec:x"])
	assert.True(t, file.Refs["sec:x"])
}

func TestAnalyzeFilesInMemory(t *testing.T) {
	a := NewAnalyzer("virtual")
	model := a.AnalyzeFiles(map[string]string{
		"main.tex": "\\documentclass{article}\n\\input{part}\n",
		"part.tex": "content",
	})

	assert.Equal(t, "main.tex", model.MainFile)
	assert.Equal(t, []string{"part.tex"}, model.DependencyGraph["main.tex"])
	assert.Len(t, model.CompilationOrder, 2)
}

func TestContext(t *testing.T) {
	a := NewAnalyzer("virtual")
	model := a.AnalyzeFiles(map[string]string{
		"main.tex": "\\documentclass{article}\n" +
			"\\newcommand{\\myvec}[1]{\\mathbf{#1}}\n" +
			"\\begin{document}\n\\myvec{x} and \\cite{k}\n\\end{document}\n",
	})

	ctx := model.Context("main.tex")
	require.NotNil(t, ctx)
	assert.True(t, ctx.IsMainFile)
	assert.Contains(t, ctx.CustomCommands, "myvec")
	assert.Contains(t, ctx.UsedCommands, "myvec")
	assert.Contains(t, ctx.Citations, "k")
	assert.NotEmpty(t, ctx.AvailableCommands)

	assert.Nil(t, model.Context("missing.tex"))
}

func TestAllLabels(t *testing.T) {
	a := NewAnalyzer("virtual")
	model := a.AnalyzeFiles(map[string]string{
		"a.tex": "\\label{one}",
		"b.tex": "\\label{two}",
	})

	labels := model.AllLabels()
	assert.True(t, labels["one"])
	assert.True(t, labels["two"])
}
