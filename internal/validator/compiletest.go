package validator

import (
	"context"

	"latex-project-translator/internal/compiler"
	"latex-project-translator/internal/types"
)

// TestCompilation probes whether the project actually compiles: it hands the
// model's in-memory file set to the toolchain adapter, which materializes it
// into a scratch directory, runs the engine and removes the scratch
// directory again. The outcome is informational; validation results never
// depend on it.
func (v *Validator) TestCompilation(ctx context.Context, c *compiler.Compiler) (*types.CompileResult, error) {
	if v.model.MainFile == "" {
		return nil, types.NewAppError(types.ErrInvalidInput, "project has no main file to compile", nil)
	}

	files := make(map[string]string, len(v.model.Files))
	for path, f := range v.model.Files {
		files[path] = f.Content
	}

	return c.CompileFiles(ctx, files, v.model.MainFile)
}
