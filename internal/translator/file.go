package translator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"latex-project-translator/internal/latex"
	"latex-project-translator/internal/logger"
	"latex-project-translator/internal/project"
	"latex-project-translator/internal/types"
)

// DefaultConcurrency bounds the number of spans in flight at once.
const DefaultConcurrency = 3

// FileTranslator translates whole LaTeX files: it extracts the translatable
// spans, translates them concurrently and splices the results back so that
// everything outside the spans is byte-identical to the input.
type FileTranslator struct {
	translator  Translator
	parser      *latex.Parser
	lang        types.TargetLanguage
	concurrency int
}

// NewFileTranslator creates a FileTranslator. A non-positive concurrency
// falls back to DefaultConcurrency.
func NewFileTranslator(t Translator, lang types.TargetLanguage, concurrency int) *FileTranslator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &FileTranslator{
		translator:  t,
		parser:      latex.NewParser(),
		lang:        lang,
		concurrency: concurrency,
	}
}

// TranslateFile translates the prose of one file. tctx, when non-nil,
// contributes per-document hints (custom commands that must survive
// verbatim). The returned content differs from the input only inside the
// translated spans.
func (f *FileTranslator) TranslateFile(ctx context.Context, path, content string, tctx *project.TranslationContext) (*types.TranslationResult, error) {
	spans := f.parser.ExtractTranslatableText(content)
	hints := buildHints(tctx)

	// whitespace-only spans carry nothing to translate
	work := make([]int, 0, len(spans))
	for i, s := range spans {
		if strings.TrimSpace(s.Text) != "" {
			work = append(work, i)
		}
	}

	logger.Info("translating file",
		logger.String("path", path),
		logger.Int("spanCount", len(work)),
		logger.Int("concurrency", f.concurrency))

	if len(work) == 0 {
		return &types.TranslationResult{
			Path:              path,
			OriginalContent:   content,
			TranslatedContent: content,
		}, nil
	}

	translated := make([]string, len(spans))
	errs := make([]error, len(spans))

	sem := make(chan struct{}, f.concurrency)
	var wg sync.WaitGroup
	for _, idx := range work {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			out, err := f.translateSpan(ctx, spans[i].Text, hints)
			translated[i] = out
			errs[i] = err
		}(idx)
	}
	wg.Wait()

	for _, idx := range work {
		if errs[idx] != nil {
			return nil, types.NewAppErrorWithDetails(
				types.ErrTranslation,
				fmt.Sprintf("failed to translate span %d of %s", idx+1, path),
				errs[idx].Error(),
				errs[idx],
			)
		}
	}

	replacements := make([]latex.Span, len(spans))
	copy(replacements, spans)
	for _, idx := range work {
		replacements[idx].Text = translated[idx]
	}

	result := latex.PreserveStructure(content, replacements)
	logger.Info("file translated",
		logger.String("path", path),
		logger.Int("originalLength", len(content)),
		logger.Int("translatedLength", len(result)))

	return &types.TranslationResult{
		Path:              path,
		OriginalContent:   content,
		TranslatedContent: result,
		SpanCount:         len(work),
	}, nil
}

// translateSpan translates one span, keeping its leading and trailing
// whitespace byte-identical and repairing the HTML-entity artifacts some
// models emit for braces and math delimiters.
func (f *FileTranslator) translateSpan(ctx context.Context, text string, hints []string) (string, error) {
	core := strings.TrimSpace(text)
	leading := text[:strings.Index(text, core)]
	trailing := text[strings.Index(text, core)+len(core):]

	out, err := f.translator.Translate(ctx, core, f.lang, hints)
	if err != nil {
		return "", err
	}
	out = latex.RepairEntities(strings.TrimSpace(out))

	return leading + out + trailing, nil
}

// buildHints turns the project analysis context into prompt hints.
func buildHints(tctx *project.TranslationContext) []string {
	if tctx == nil {
		return nil
	}
	var hints []string
	if len(tctx.CustomCommands) > 0 {
		names := make([]string, 0, len(tctx.CustomCommands))
		for name := range tctx.CustomCommands {
			names = append(names, "\\"+name)
		}
		sort.Strings(names)
		hints = append(hints, "custom commands that must stay verbatim: "+strings.Join(names, ", "))
	}
	if len(tctx.CustomEnvironments) > 0 {
		names := make([]string, 0, len(tctx.CustomEnvironments))
		for name := range tctx.CustomEnvironments {
			names = append(names, name)
		}
		sort.Strings(names)
		hints = append(hints, "custom environments that must stay verbatim: "+strings.Join(names, ", "))
	}
	if tctx.IsMainFile {
		hints = append(hints, "this is the main file of the project; keep the preamble untouched")
	}
	return hints
}
