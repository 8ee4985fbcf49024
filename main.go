package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v3"

	"latex-project-translator/internal/compiler"
	"latex-project-translator/internal/config"
	"latex-project-translator/internal/logger"
	"latex-project-translator/internal/types"
	"latex-project-translator/internal/validator"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "latex-project-translator",
		Usage:   "Analyze, validate and translate multi-file LaTeX projects",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the configuration file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Analyze a LaTeX project and print its structure",
				ArgsUsage: "<dir>",
				Action:    analyzeAction,
			},
			{
				Name:      "validate",
				Usage:     "Validate a LaTeX project and report issues",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "compile",
						Usage: "Also probe the project with the LaTeX toolchain",
					},
				},
				Action: validateAction,
			},
			{
				Name:      "fix",
				Usage:     "Apply safe automatic fixes to a LaTeX project",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "write",
						Usage: "Write fixed files in place (default prints the changed files)",
					},
				},
				Action: fixAction,
			},
			{
				Name:      "translate",
				Usage:     "Translate a LaTeX project into the target language",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory for the translated project",
					},
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Target language: japanese, chinese or english",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of text spans translated in parallel",
					},
					&cli.BoolFlag{
						Name:  "compile-test",
						Usage: "Compile the translated project as a final probe",
					},
				},
				Action: translateAction,
			},
			{
				Name:  "config",
				Usage: "Manage the stored configuration",
				Commands: []*cli.Command{
					{
						Name:   "path",
						Usage:  "Print the configuration file path",
						Action: configPathAction,
					},
					{
						Name:      "set-key",
						Usage:     "Store the OpenAI API key",
						ArgsUsage: "<key>",
						Action:    configSetKeyAction,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and initializes logging for one command run.
func setup(cmd *cli.Command) (*App, error) {
	level := logger.LevelInfo
	if cmd.Bool("verbose") {
		level = logger.LevelDebug
	}
	if err := logger.Init(&logger.Config{Level: level, Console: true}); err != nil {
		return nil, err
	}

	cfg, err := config.NewManager(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return NewApp(cfg), nil
}

func projectArg(cmd *cli.Command) (string, error) {
	if cmd.NArg() < 1 {
		return "", fmt.Errorf("usage: %s <dir>", cmd.Name)
	}
	return cmd.Args().First(), nil
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	root, err := projectArg(cmd)
	if err != nil {
		return err
	}

	model, err := app.Analyze(root)
	if err != nil {
		return err
	}

	fmt.Printf("Project: %s\n", model.Root)
	fmt.Printf("Main file: %s", model.MainFile)
	if model.MainFileFallback {
		fmt.Printf(" (fallback choice)")
	}
	fmt.Println()
	fmt.Printf("Files: %d\n", len(model.Files))
	for _, path := range model.FileOrder {
		file := model.Files[path]
		fmt.Printf("  %s", path)
		if len(file.Dependencies) > 0 {
			fmt.Printf("  -> %v", file.Dependencies)
		}
		fmt.Println()
	}
	fmt.Printf("Compilation order: %v\n", model.CompilationOrder)
	if len(model.Cycles) > 0 {
		fmt.Printf("Circular dependencies: %v\n", model.Cycles)
	}
	if len(model.GlobalCommands) > 0 {
		names := make([]string, 0, len(model.GlobalCommands))
		for name := range model.GlobalCommands {
			names = append(names, "\\"+name)
		}
		sort.Strings(names)
		fmt.Printf("Custom commands: %v\n", names)
	}
	if len(model.GlobalEnvironments) > 0 {
		names := make([]string, 0, len(model.GlobalEnvironments))
		for name := range model.GlobalEnvironments {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("Custom environments: %v\n", names)
	}
	return nil
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	root, err := projectArg(cmd)
	if err != nil {
		return err
	}

	model, result, err := app.Validate(root)
	if err != nil {
		return err
	}

	fmt.Print(validator.FormatIssues(result.Issues))
	fmt.Printf("\n%d error(s), %d warning(s)\n", result.ErrorCount, result.WarningCount)
	if result.IsCompilable {
		fmt.Println("Project looks compilable.")
	} else {
		fmt.Println("Project has blocking issues.")
	}

	if cmd.Bool("compile") {
		timeout := time.Duration(app.cfg.GetCompileTimeout()) * time.Second
		comp := compiler.New(app.cfg.GetCompiler(), timeout)
		compileResult, err := validator.New(model).TestCompilation(ctx, comp)
		if compileResult != nil {
			if compileResult.Success {
				fmt.Println("Compile probe: success")
			} else {
				fmt.Printf("Compile probe: failed (%s)\n", compileResult.ErrorType)
				if compileResult.CriticalLog != "" {
					fmt.Println(compileResult.CriticalLog)
				}
			}
		} else if err != nil {
			fmt.Printf("Compile probe could not run: %v\n", err)
		}
	}
	return nil
}

func fixAction(ctx context.Context, cmd *cli.Command) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	root, err := projectArg(cmd)
	if err != nil {
		return err
	}

	fixes, err := app.Fix(root, cmd.Bool("write"))
	if err != nil {
		return err
	}

	if len(fixes) == 0 {
		fmt.Println("Nothing to fix.")
		return nil
	}

	paths := make([]string, 0, len(fixes))
	for path := range fixes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Println(path)
	}
	if cmd.Bool("write") {
		fmt.Printf("Fixed %d file(s).\n", len(fixes))
	} else {
		fmt.Printf("%d file(s) would change; re-run with --write to apply.\n", len(fixes))
	}
	return nil
}

func translateAction(ctx context.Context, cmd *cli.Command) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	root, err := projectArg(cmd)
	if err != nil {
		return err
	}

	opts := TranslateOptions{
		OutputDir:   cmd.String("output"),
		Language:    types.TargetLanguage(cmd.String("lang")),
		Concurrency: int(cmd.Int("concurrency")),
		CompileTest: cmd.Bool("compile-test"),
	}

	report, err := app.Translate(ctx, root, opts)
	if err != nil {
		return err
	}

	spans := 0
	for _, r := range report.Results {
		spans += r.SpanCount
	}
	fmt.Printf("Translated %d file(s), %d span(s) -> %s\n", len(report.Results), spans, report.OutputDir)
	if report.Validation != nil && report.Validation.ErrorCount > 0 {
		fmt.Printf("Warning: translated project has %d validation error(s):\n", report.Validation.ErrorCount)
		fmt.Print(validator.FormatIssues(report.Validation.Issues))
	}
	if report.CompileResult != nil {
		if report.CompileResult.Success {
			fmt.Println("Compile probe: success")
		} else {
			fmt.Printf("Compile probe: failed (%s)\n", report.CompileResult.ErrorType)
			if report.CompileResult.CriticalLog != "" {
				fmt.Println(report.CompileResult.CriticalLog)
			}
		}
	}
	return nil
}

func configPathAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.NewManager(cmd.String("config"))
	if err != nil {
		return err
	}
	fmt.Println(cfg.GetConfigPath())
	return nil
}

func configSetKeyAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: config set-key <key>")
	}
	cfg, err := config.NewManager(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.Load(); err != nil {
		return err
	}
	return cfg.SetAPIKey(cmd.Args().First())
}
