// Package validator checks structural invariants of an analyzed LaTeX
// project and offers a deterministic auto-fix pass for damage typically
// introduced by automated text substitution.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"latex-project-translator/internal/logger"
	"latex-project-translator/internal/project"
)

// Severity grades a validation issue.
type Severity string

const (
	// SeverityError blocks compilability
	SeverityError Severity = "error"
	// SeverityWarning is surfaced for review but does not block
	SeverityWarning Severity = "warning"
	// SeverityInfo is informational only
	SeverityInfo Severity = "info"
)

// Issue is one validation finding. It is a pure report value and never
// mutates its inputs.
type Issue struct {
	Kind       string   `json:"kind"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	FilePath   string   `json:"file_path"`
	Line       int      `json:"line,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Result aggregates all issues of one validation pass.
type Result struct {
	Issues       []Issue `json:"issues"`
	ErrorCount   int     `json:"error_count"`
	WarningCount int     `json:"warning_count"`
	IsCompilable bool    `json:"is_compilable"`
}

// Validator runs structural checks across a project model. All checks are
// independent and all run on every pass; issues aggregate rather than
// failing fast, so the caller always gets a complete report.
type Validator struct {
	model  *project.Model
	issues []Issue
}

// New creates a Validator over an analyzed project model.
func New(model *project.Model) *Validator {
	return &Validator{model: model}
}

var (
	documentClassRe = regexp.MustCompile(`\\documentclass`)
	beginDocumentRe = regexp.MustCompile(`\\begin\{document\}`)
	endDocumentRe   = regexp.MustCompile(`\\end\{document\}`)
	commandNameRe   = regexp.MustCompile(`\\([a-zA-Z]+)`)
	envTokenRe      = regexp.MustCompile(`\\(begin|end)\{([^}]+)\}`)
)

// Validate runs every check and returns the aggregated result.
// IsCompilable is true exactly when no error-severity issue was found.
func (v *Validator) Validate() *Result {
	v.issues = nil

	v.checkProjectStructure()
	for _, path := range v.model.FileOrder {
		file := v.model.Files[path]
		v.checkLineBalance(file)
		v.checkUnknownCommands(file)
		v.checkEnvironmentNesting(file)
	}
	v.checkDependencies()
	v.checkReferences()
	v.checkCrossFileCommands()
	v.checkCycles()

	result := &Result{Issues: v.issues}
	for _, issue := range v.issues {
		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		}
	}
	result.IsCompilable = result.ErrorCount == 0

	logger.Info("validation completed",
		logger.Int("errors", result.ErrorCount),
		logger.Int("warnings", result.WarningCount),
		logger.Bool("compilable", result.IsCompilable))
	return result
}

func (v *Validator) report(issue Issue) {
	v.issues = append(v.issues, issue)
}

// checkProjectStructure verifies the compilation entry point: a main file
// exists, contains \documentclass, and opens and closes the document
// environment.
func (v *Validator) checkProjectStructure() {
	if v.model.MainFile == "" {
		v.report(Issue{
			Kind:       "missing_main_file",
			Severity:   SeverityError,
			Message:    "no main file found in project",
			Suggestion: "add a main.tex or a file containing \\documentclass",
		})
		return
	}

	if v.model.MainFileFallback {
		v.report(Issue{
			Kind:     "main_file_fallback",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("no conventional main file and no \\documentclass found; arbitrarily using %s", v.model.MainFile),
			FilePath: v.model.MainFile,
		})
	}

	for _, path := range v.model.UnreadableFiles {
		v.report(Issue{
			Kind:     "unreadable_file",
			Severity: SeverityWarning,
			Message:  "file could not be read and was recorded with empty content",
			FilePath: path,
		})
	}

	main := v.model.Files[v.model.MainFile]
	if main == nil {
		return
	}
	if !documentClassRe.MatchString(main.Content) {
		v.report(Issue{
			Kind:       "missing_documentclass",
			Severity:   SeverityError,
			Message:    "\\documentclass not found",
			FilePath:   v.model.MainFile,
			Suggestion: "add \\documentclass{article} or similar",
		})
	}
	if !beginDocumentRe.MatchString(main.Content) {
		v.report(Issue{
			Kind:       "missing_begin_document",
			Severity:   SeverityError,
			Message:    "\\begin{document} not found",
			FilePath:   v.model.MainFile,
			Suggestion: "add \\begin{document}",
		})
	}
	if !endDocumentRe.MatchString(main.Content) {
		v.report(Issue{
			Kind:       "missing_end_document",
			Severity:   SeverityError,
			Message:    "\\end{document} not found",
			FilePath:   v.model.MainFile,
			Suggestion: "add \\end{document}",
		})
	}
}

// checkLineBalance flags per-line brace and math-delimiter imbalances.
// A legitimately multi-line brace or math span triggers a false positive
// here, which is why these stay warnings.
func (v *Validator) checkLineBalance(file *project.LatexFile) {
	for i, line := range strings.Split(file.Content, "\n") {
		open := strings.Count(line, "{") - strings.Count(line, "\\{")
		closed := strings.Count(line, "}") - strings.Count(line, "\\}")
		if open != closed {
			v.report(Issue{
				Kind:       "unmatched_braces",
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("braces do not balance on this line: %s", truncate(strings.TrimSpace(line), 60)),
				FilePath:   file.Path,
				Line:       i + 1,
				Suggestion: "check the brace count",
			})
		}
		dollars := strings.Count(line, "$") - strings.Count(line, "\\$")
		if dollars%2 != 0 {
			v.report(Issue{
				Kind:       "unmatched_math_delimiters",
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("odd number of $ on this line: %s", truncate(strings.TrimSpace(line), 60)),
				FilePath:   file.Path,
				Line:       i + 1,
				Suggestion: "check the $ count",
			})
		}
	}
}

// checkUnknownCommands flags command names that are neither standard LaTeX,
// common package commands, nor project-defined.
func (v *Validator) checkUnknownCommands(file *project.LatexFile) {
	for i, line := range strings.Split(file.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "%") {
			continue
		}
		for _, m := range commandNameRe.FindAllStringSubmatch(line, -1) {
			if name := m[1]; !v.model.IsKnownCommand(name) {
				v.report(Issue{
					Kind:       "unknown_command",
					Severity:   SeverityWarning,
					Message:    fmt.Sprintf("unknown command \\%s", name),
					FilePath:   file.Path,
					Line:       i + 1,
					Suggestion: "check the command name and that the providing package is loaded",
				})
			}
		}
	}
}

// checkEnvironmentNesting re-scans each file's \begin/\end tokens with a
// stack: an \end that does not match the top of the stack is an error, and
// every environment still open at end of file is an error of its own.
// Comments are stripped line by line first so a commented-out \begin never
// pushes onto the stack.
func (v *Validator) checkEnvironmentNesting(file *project.LatexFile) {
	var stack []string
	for _, line := range strings.Split(file.Content, "\n") {
		for _, m := range envTokenRe.FindAllStringSubmatch(stripComment(line), -1) {
			kind, name := m[1], m[2]
			if kind == "begin" {
				stack = append(stack, name)
				continue
			}
			if len(stack) == 0 || stack[len(stack)-1] != name {
				v.report(Issue{
					Kind:       "unmatched_environment",
					Severity:   SeverityError,
					Message:    fmt.Sprintf("\\end{%s} does not match the open environment", name),
					FilePath:   file.Path,
					Suggestion: fmt.Sprintf("check the \\begin{%s}/\\end{%s} pairing", name, name),
				})
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}
	for _, name := range stack {
		v.report(Issue{
			Kind:       "unclosed_environment",
			Severity:   SeverityError,
			Message:    fmt.Sprintf("environment %s is never closed", name),
			FilePath:   file.Path,
			Suggestion: fmt.Sprintf("add \\end{%s}", name),
		})
	}
}

// stripComment drops everything from the first unescaped % to end of line.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '%' && (i == 0 || line[i-1] != '\\') {
			return line[:i]
		}
	}
	return line
}

// checkDependencies reports recorded dependencies that do not resolve to a
// discovered file.
func (v *Validator) checkDependencies() {
	for _, path := range v.model.FileOrder {
		for _, dep := range v.model.Files[path].Dependencies {
			if _, ok := v.model.Files[dep]; !ok {
				v.report(Issue{
					Kind:       "missing_dependency",
					Severity:   SeverityError,
					Message:    fmt.Sprintf("dependency %s not found in project", dep),
					FilePath:   path,
					Suggestion: fmt.Sprintf("create %s or fix the \\input path", dep),
				})
			}
		}
	}
}

// checkReferences reports \ref-class keys with no matching \label anywhere
// in the project.
func (v *Validator) checkReferences() {
	labels := v.model.AllLabels()
	for _, path := range v.model.FileOrder {
		file := v.model.Files[path]
		for ref := range file.Refs {
			if !labels[ref] {
				v.report(Issue{
					Kind:       "missing_label",
					Severity:   SeverityError,
					Message:    fmt.Sprintf("reference key %q has no matching \\label", ref),
					FilePath:   path,
					Suggestion: fmt.Sprintf("add \\label{%s} to the referenced element", ref),
				})
			}
		}
	}
}

// checkCrossFileCommands warns when a file uses a command defined in another
// file without depending on it.
func (v *Validator) checkCrossFileCommands() {
	for _, path := range v.model.FileOrder {
		file := v.model.Files[path]
		for name := range file.UsedCommands {
			def, ok := v.model.GlobalCommands[name]
			if !ok || def.SourceFile == path {
				continue
			}
			depends := false
			for _, dep := range file.Dependencies {
				if dep == def.SourceFile {
					depends = true
					break
				}
			}
			if !depends {
				v.report(Issue{
					Kind:       "missing_command_dependency",
					Severity:   SeverityWarning,
					Message:    fmt.Sprintf("command \\%s is defined in %s but %s does not depend on it", name, def.SourceFile, path),
					FilePath:   path,
					Suggestion: fmt.Sprintf("add \\input{%s}", strings.TrimSuffix(def.SourceFile, ".tex")),
				})
			}
		}
	}
}

// checkCycles turns every circular dependency chain recorded during
// compilation ordering into an explicit error.
func (v *Validator) checkCycles() {
	for _, cycle := range v.model.Cycles {
		v.report(Issue{
			Kind:       "circular_dependency",
			Severity:   SeverityError,
			Message:    fmt.Sprintf("circular dependency: %s", strings.Join(cycle, " -> ")),
			FilePath:   cycle[0],
			Suggestion: "break the \\input cycle between these files",
		})
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// FormatIssues renders issues for terminal display.
func FormatIssues(issues []Issue) string {
	if len(issues) == 0 {
		return "no issues found"
	}
	var sb strings.Builder
	for i, issue := range issues {
		sb.WriteString(fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(issue.Severity)), issue.Kind, issue.Message))
		if issue.FilePath != "" {
			sb.WriteString(fmt.Sprintf(" (file: %s", issue.FilePath))
			if issue.Line > 0 {
				sb.WriteString(fmt.Sprintf(", line: %d", issue.Line))
			}
			sb.WriteString(")")
		}
		if i < len(issues)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
