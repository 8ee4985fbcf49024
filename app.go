package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"latex-project-translator/internal/compiler"
	"latex-project-translator/internal/config"
	"latex-project-translator/internal/logger"
	"latex-project-translator/internal/project"
	"latex-project-translator/internal/translator"
	"latex-project-translator/internal/types"
	"latex-project-translator/internal/validator"
)

// App wires the pipeline together: project analysis, validation with
// auto-fix, per-file translation in compilation order, re-validation of the
// translated project and the optional compile probe.
type App struct {
	cfg *config.Manager
}

// NewApp creates an App on top of a loaded configuration.
func NewApp(cfg *config.Manager) *App {
	return &App{cfg: cfg}
}

// Analyze builds the project model for a source tree.
func (a *App) Analyze(root string) (*project.Model, error) {
	return project.NewAnalyzer(root).Analyze()
}

// Validate analyzes a source tree and validates the resulting model.
func (a *App) Validate(root string) (*project.Model, *validator.Result, error) {
	model, err := a.Analyze(root)
	if err != nil {
		return nil, nil, err
	}
	result := validator.New(model).Validate()
	return model, result, nil
}

// Fix analyzes a source tree, computes the auto-fixes and, when write is
// true, persists the changed files in place. It returns the changed
// (path -> fixed content) set.
func (a *App) Fix(root string, write bool) (map[string]string, error) {
	model, err := a.Analyze(root)
	if err != nil {
		return nil, err
	}

	v := validator.New(model)
	v.Validate()
	fixes := v.AutoFix()
	if len(fixes) == 0 {
		return fixes, nil
	}

	if write {
		for path, content := range fixes {
			full := filepath.Join(root, filepath.FromSlash(path))
			if err := os.WriteFile(full, []byte(content), 0644); err != nil {
				return fixes, types.NewAppError(types.ErrInternal, "failed to write fixed file", err)
			}
			logger.Info("wrote fixed file", logger.String("path", path))
		}
	}
	return fixes, nil
}

// TranslateOptions tune a Translate run.
type TranslateOptions struct {
	OutputDir   string // where translated files land; empty means <root>-translated
	Language    types.TargetLanguage
	Concurrency int
	CompileTest bool // probe the translated project with the LaTeX toolchain
}

// TranslateReport is what a Translate run produced.
type TranslateReport struct {
	Model         *project.Model
	Results       []*types.TranslationResult
	Validation    *validator.Result // validation of the translated project
	CompileResult *types.CompileResult
	OutputDir     string
}

// Translate runs the full pipeline on a source tree. Auto-fixes are applied
// to the in-memory model before translation; the source tree itself is never
// modified, translated files go to the output directory.
func (a *App) Translate(ctx context.Context, root string, opts TranslateOptions) (*TranslateReport, error) {
	if opts.Language == "" {
		opts.Language = a.cfg.GetTargetLanguage()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = a.cfg.GetConcurrency()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Clean(root) + "-translated"
	}

	model, err := a.Analyze(root)
	if err != nil {
		return nil, err
	}
	logger.Info("project analyzed",
		logger.String("root", root),
		logger.String("mainFile", model.MainFile),
		logger.Int("fileCount", len(model.Files)))

	v := validator.New(model)
	before := v.Validate()
	if before.ErrorCount > 0 {
		logger.Warn("validation found errors before translation",
			logger.Int("errors", before.ErrorCount),
			logger.Int("warnings", before.WarningCount))
	}

	if fixes := v.AutoFix(); len(fixes) > 0 {
		logger.Info("applying auto-fixes", logger.Int("fileCount", len(fixes)))
		v.ApplyFixes(fixes)
		v.Validate()
	}

	tr, err := translator.NewOpenAITranslator(ctx, a.cfg.GetAPIKey(), a.cfg.GetBaseURL(), a.cfg.GetModel())
	if err != nil {
		return nil, err
	}
	ft := translator.NewFileTranslator(tr, opts.Language, opts.Concurrency)

	report := &TranslateReport{Model: model, OutputDir: opts.OutputDir}
	translated := make(map[string]string, len(model.Files))

	for _, path := range model.CompilationOrder {
		file := model.Files[path]
		result, err := ft.TranslateFile(ctx, path, file.Content, v.SafeContext(path).TranslationContext)
		if err != nil {
			return report, err
		}
		translated[path] = result.TranslatedContent
		report.Results = append(report.Results, result)
	}
	// files the dependency walk never reached still need to come along
	for path, file := range model.Files {
		if _, ok := translated[path]; !ok {
			translated[path] = file.Content
		}
	}

	// re-analyze the translated project in memory and validate it
	afterModel := project.NewAnalyzer(root).AnalyzeFiles(translated)
	afterV := validator.New(afterModel)
	report.Validation = afterV.Validate()
	if report.Validation.ErrorCount > 0 {
		logger.Warn("translated project has validation errors",
			logger.Int("errors", report.Validation.ErrorCount))
	}

	if err := writeTree(opts.OutputDir, translated); err != nil {
		return report, err
	}
	logger.Info("translated project written", logger.String("outputDir", opts.OutputDir))

	if opts.CompileTest {
		timeout := time.Duration(a.cfg.GetCompileTimeout()) * time.Second
		comp := compiler.New(a.cfg.GetCompiler(), timeout)
		compileResult, err := afterV.TestCompilation(ctx, comp)
		if err != nil {
			logger.Warn("compile probe failed", logger.Err(err))
		}
		report.CompileResult = compileResult
	}

	return report, nil
}

// writeTree writes a (slash-relative path -> content) set under dir.
func writeTree(dir string, files map[string]string) error {
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return types.NewAppError(types.ErrInternal,
				fmt.Sprintf("failed to create output directory for %s", path), err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return types.NewAppError(types.ErrInternal,
				fmt.Sprintf("failed to write output file %s", path), err)
		}
	}
	return nil
}
