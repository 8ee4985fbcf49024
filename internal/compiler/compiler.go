// Package compiler adapts an external LaTeX toolchain (pdflatex/xelatex plus
// bibtex) behind a bounded, context-aware interface. Compilation here is a
// diagnostic probe: callers use the result to report, never to gate.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"latex-project-translator/internal/logger"
	"latex-project-translator/internal/types"
)

const (
	// CompilerPDFLaTeX is the pdflatex compiler
	CompilerPDFLaTeX = "pdflatex"
	// CompilerXeLaTeX is the xelatex compiler
	CompilerXeLaTeX = "xelatex"
)

// DefaultTimeout bounds a single compilation pass.
const DefaultTimeout = 5 * time.Minute

// Compiler runs the external LaTeX toolchain on a project directory.
type Compiler struct {
	compiler string        // "pdflatex" or "xelatex"
	timeout  time.Duration // per-pass timeout
}

// New creates a Compiler. An empty compiler name falls back to pdflatex,
// a zero timeout to DefaultTimeout.
func New(compiler string, timeout time.Duration) *Compiler {
	if compiler == "" {
		compiler = CompilerPDFLaTeX
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Compiler{compiler: compiler, timeout: timeout}
}

// Compile compiles mainFile (a slash-relative path inside dir) to PDF.
// It runs a first pass, bibtex when the aux file or a .bib file asks for it,
// then a second pass for references. The returned CompileResult always
// carries the combined log; on failure CriticalLog holds the extracted
// critical error lines and ErrorType distinguishes a toolchain failure from
// a timeout. The error return is non-nil only when the toolchain could not
// be run at all or the compilation failed.
func (c *Compiler) Compile(ctx context.Context, dir string, mainFile string) (*types.CompileResult, error) {
	texPath := filepath.Join(dir, filepath.FromSlash(mainFile))
	if _, err := os.Stat(texPath); err != nil {
		logger.Error("tex file not found", err, logger.String("path", texPath))
		return &types.CompileResult{
			Success:   false,
			ErrorType: types.CompileErrorTypeError,
		}, types.NewAppError(types.ErrFileNotFound, "tex file not found", err)
	}

	engine := c.selectEngine(texPath)
	logger.Info("compiling project",
		logger.String("mainFile", mainFile),
		logger.String("engine", engine))

	texDir := filepath.Dir(texPath)
	texFileName := filepath.Base(texPath)
	texBaseName := strings.TrimSuffix(texFileName, filepath.Ext(texFileName))

	var allLogs []string
	var timedOut bool

	log1, err := c.runEngine(ctx, engine, texFileName, texDir)
	allLogs = append(allLogs, "=== First Pass ===", log1)
	if err != nil {
		if isTimeout(ctx, err) {
			timedOut = true
		}
		// first-pass errors are often recoverable, keep going
		logger.Warn("first pass had errors, continuing", logger.Err(err))
	}

	if !timedOut && c.needsBibtex(filepath.Join(texDir, texBaseName+".aux"), texDir) {
		bibtexLog, bibtexErr := c.runBibtex(ctx, texBaseName, texDir)
		allLogs = append(allLogs, "=== BibTeX ===", bibtexLog)
		if bibtexErr != nil {
			logger.Warn("bibtex had errors", logger.Err(bibtexErr))
		}
	}

	if !timedOut {
		// second pass resolves citations and cross-references
		log2, err2 := c.runEngine(ctx, engine, texFileName, texDir)
		allLogs = append(allLogs, "=== Second Pass ===", log2)
		if err2 != nil && isTimeout(ctx, err2) {
			timedOut = true
		}
	}

	combinedLog := strings.Join(allLogs, "\n")

	if timedOut {
		logger.Error("compilation timed out", nil, logger.String("mainFile", mainFile))
		return &types.CompileResult{
			Success:     false,
			Log:         combinedLog,
			ErrorType:   types.CompileErrorTypeTimeout,
			CriticalLog: ExtractCriticalErrors(combinedLog),
		}, types.NewAppError(types.ErrCompile, "compilation timed out", context.DeadlineExceeded)
	}

	pdfPath := filepath.Join(texDir, texBaseName+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		logger.Error("PDF file was not generated", nil, logger.String("expectedPath", pdfPath))
		return &types.CompileResult{
			Success:     false,
			Log:         combinedLog,
			ErrorType:   types.CompileErrorTypeError,
			CriticalLog: ExtractCriticalErrors(combinedLog),
		}, types.NewAppError(types.ErrCompile, "PDF file was not generated", nil)
	}

	logger.Info("compilation completed", logger.String("pdfPath", pdfPath))
	return &types.CompileResult{
		Success: true,
		PDFPath: pdfPath,
		Log:     combinedLog,
	}, nil
}

// CompileFiles materializes an in-memory file set into a scratch directory,
// compiles mainFile there and removes the scratch directory before
// returning. PDFPath is always empty in the result: the PDF lives in the
// scratch directory and is gone by the time the caller sees the result.
func (c *Compiler) CompileFiles(ctx context.Context, files map[string]string, mainFile string) (*types.CompileResult, error) {
	if _, ok := files[mainFile]; !ok {
		return nil, types.NewAppError(types.ErrInvalidInput, "main file not in file set", nil)
	}

	dir, err := os.MkdirTemp("", "latex-compile-*")
	if err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to create scratch directory", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("failed to remove scratch directory", logger.Err(rmErr))
		}
	}()

	if err := Materialize(dir, files); err != nil {
		return nil, err
	}

	result, err := c.Compile(ctx, dir, mainFile)
	if result != nil {
		result.PDFPath = ""
	}
	return result, err
}

// Materialize writes a (slash-relative path -> content) file set under dir,
// creating parent directories as needed. Paths escaping dir are rejected.
func Materialize(dir string, files map[string]string) error {
	for path, content := range files {
		rel := filepath.FromSlash(path)
		if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
			return types.NewAppError(types.ErrInvalidInput,
				fmt.Sprintf("refusing to materialize path outside directory: %s", path), nil)
		}
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return types.NewAppError(types.ErrInternal, "failed to create directory", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return types.NewAppError(types.ErrInternal, "failed to write file", err)
		}
	}
	return nil
}

// selectEngine picks xelatex when the document pulls in a package that
// requires it, otherwise the configured engine. Having CJK text alone is not
// enough: pdflatex with CJKutf8 handles many such documents.
func (c *Compiler) selectEngine(texPath string) string {
	content, err := os.ReadFile(texPath)
	if err != nil {
		return c.compiler
	}
	contentStr := string(content)

	xelatexPackages := []string{
		"\\usepackage{fontspec}",
		"\\usepackage{xeCJK}",
		"\\usepackage{ctex}",
		"\\usepackage[ctex]",
		"\\RequirePackage{fontspec}",
		"\\RequirePackage{xeCJK}",
		"\\RequirePackage{ctex}",
	}
	for _, pkg := range xelatexPackages {
		if strings.Contains(contentStr, pkg) {
			logger.Debug("xelatex-specific package detected", logger.String("package", pkg))
			return CompilerXeLaTeX
		}
	}
	return c.compiler
}

// runEngine executes a single compilation pass in texDir.
func (c *Compiler) runEngine(ctx context.Context, engine string, texFileName string, texDir string) (string, error) {
	passCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// nonstopmode: some documents still produce a valid PDF despite
	// non-fatal errors, so never halt on the first one
	cmd := exec.CommandContext(passCtx, engine, "-interaction=nonstopmode", texFileName)
	cmd.Dir = texDir
	cmd.Env = append(os.Environ(), texInputsEnv(texDir))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	log := combineOutput(stdout.String(), stderr.String())

	if passCtx.Err() != nil {
		return log, types.NewAppError(types.ErrCompile, "compilation pass timed out", passCtx.Err())
	}
	return log, err
}

// runBibtex processes the bibliography for baseName in texDir.
func (c *Compiler) runBibtex(ctx context.Context, baseName string, texDir string) (string, error) {
	bibCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(bibCtx, "bibtex", baseName)
	cmd.Dir = texDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return combineOutput(stdout.String(), stderr.String()), err
}

// needsBibtex reports whether a bibtex run would do anything: the aux file
// references citations or bibdata, or a .bib file sits next to the source.
func (c *Compiler) needsBibtex(auxPath string, texDir string) bool {
	if auxContent, err := os.ReadFile(auxPath); err == nil {
		auxStr := string(auxContent)
		if strings.Contains(auxStr, "\\citation{") || strings.Contains(auxStr, "\\bibdata{") {
			return true
		}
	}
	entries, err := os.ReadDir(texDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".bib") {
			return true
		}
	}
	return false
}

// texInputsEnv builds a TEXINPUTS assignment so the engine finds .sty and
// .cls files in the project directory. The trailing separator keeps the
// default search paths.
func texInputsEnv(texDir string) string {
	pathSep := ":"
	if runtime.GOOS == "windows" {
		pathSep = ";"
	}
	return fmt.Sprintf("TEXINPUTS=.%s%s%s", pathSep, texDir, pathSep)
}

// combineOutput merges stdout and stderr into a single log string.
func combineOutput(stdout, stderr string) string {
	var parts []string
	if stdout != "" {
		parts = append(parts, stdout)
	}
	if stderr != "" {
		parts = append(parts, stderr)
	}
	return strings.Join(parts, "\n")
}

// isTimeout reports whether err (or the surrounding context) is a deadline
// or cancellation.
func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
