package validator

import (
	"fmt"
	"sort"
	"strings"

	"latex-project-translator/internal/project"
)

// SafeContext bundles, for one file, its translation context, the issues
// found on it, the custom commands it uses that are defined in other files,
// and the fixed translation-safety rules. It is guidance handed to the
// translation collaborator, never enforced here.
type SafeContext struct {
	*project.TranslationContext
	Issues           []Issue  `json:"issues"`
	CriticalCommands []string `json:"critical_commands"`
	Rules            []string `json:"rules"`
}

// baseSafetyRules apply to every file.
var baseSafetyRules = []string{
	"never change LaTeX commands or environment delimiters",
	"never change math and structure symbols: $, \\(, \\), {, }, \\, &, %",
	"never change the keys inside \\cite, \\ref and \\label",
	"never translate custom command names",
	"never change file names or paths",
}

// SafeContext builds the safe-translation bundle for one file, using the
// issues from the most recent Validate call. Returns nil for paths not in
// the project.
func (v *Validator) SafeContext(path string) *SafeContext {
	tctx := v.model.Context(path)
	if tctx == nil {
		return nil
	}

	sc := &SafeContext{
		TranslationContext: tctx,
		Rules:              append([]string(nil), baseSafetyRules...),
	}

	for _, issue := range v.issues {
		if issue.FilePath == path {
			sc.Issues = append(sc.Issues, issue)
		}
	}

	file := v.model.Files[path]
	for name := range file.UsedCommands {
		if def, ok := v.model.GlobalCommands[name]; ok && def.SourceFile != path {
			sc.CriticalCommands = append(sc.CriticalCommands, name)
		}
	}
	sort.Strings(sc.CriticalCommands)

	if len(file.CustomCommands) > 0 {
		names := make([]string, 0, len(file.CustomCommands))
		for _, cmd := range file.CustomCommands {
			names = append(names, cmd.Name)
		}
		sc.Rules = append(sc.Rules, fmt.Sprintf("do not alter the custom commands defined here: %s", strings.Join(names, ", ")))
	}
	if len(file.CustomEnvironments) > 0 {
		names := make([]string, 0, len(file.CustomEnvironments))
		for _, env := range file.CustomEnvironments {
			names = append(names, env.Name)
		}
		sc.Rules = append(sc.Rules, fmt.Sprintf("do not alter the custom environments defined here: %s", strings.Join(names, ", ")))
	}

	return sc
}
