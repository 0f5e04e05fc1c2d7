package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/languages"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	language    string   // target language name or alias
	output      string   // output file; stdout when empty
	indent      string   // overrides the language indent unit
	reserved    []string // extra reserved words
	stableNames bool
	noCache     bool
	refresh     bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <workspace.json|->",
		Short: "Generate source code from a workspace document",
		Long: `Generate source code from a workspace document exported by the block editor.

Reads the document from a file, or from stdin when the argument is "-".
Without --language, the language comes from the config file; if none is
configured and the terminal is interactive, a picker is shown.`,
		Example: `  blockgen generate program.json -l python
  blockgen generate program.json -l js -o program.js
  cat program.json | blockgen generate - --stable-names`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "target language: "+joinNames())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.indent, "indent", "", "indent unit, e.g. \"    \" (default per language)")
	cmd.Flags().StringSliceVar(&opts.reserved, "reserved", nil, "extra reserved words (comma-separated)")
	cmd.Flags().BoolVar(&opts.stableNames, "stable-names", false, "keep identifier assignments stable across passes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached output and regenerate")

	_ = cmd.RegisterFlagCompletionFunc("language", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return languages.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, input string, stdin io.Reader, stdout io.Writer, opts generateOpts) error {
	logger := loggerFromContext(ctx)

	if opts.output != "" {
		if err := errors.ValidatePath(opts.output); err != nil {
			return err
		}
	}

	pOpts := c.baseOptions()
	if opts.language != "" {
		pOpts.Language = opts.language
	}
	if pOpts.Language == "" {
		lang, err := c.chooseLanguage()
		if err != nil {
			return err
		}
		pOpts.Language = lang
	}
	if opts.indent != "" {
		pOpts.Indent = opts.indent
	}
	pOpts.ReservedWords = append(pOpts.ReservedWords, opts.reserved...)
	pOpts.StableNames = pOpts.StableNames || opts.stableNames
	pOpts.Refresh = opts.refresh
	if err := pOpts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	ws, err := loadWorkspace(ctx, input, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, ws, pOpts)
	if err != nil {
		if errors.IsBindingError(err) {
			printError("%s cannot translate this workspace", pOpts.Language)
			printDetail("%s", errors.UserMessage(err))
		}
		return err
	}
	prog.done(fmt.Sprintf("Generated %s", pOpts.Language))

	if opts.output == "" {
		_, err := io.WriteString(stdout, res.Code)
		return err
	}

	if err := os.WriteFile(opts.output, []byte(res.Code), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Generated %s", StyleHighlight.Render(pOpts.Language))
	printFile(opts.output)
	printStats(res.Stats.TopBlocks, res.Stats.Functions, res.CacheInfo.GenerateHit)
	return nil
}

// chooseLanguage asks for a language on interactive terminals and falls
// back to the default otherwise.
func (c *CLI) chooseLanguage() (string, error) {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stderr) {
		return pipeline.DefaultLanguage, nil
	}
	lang, err := pickLanguage(languages.All)
	if err != nil {
		return "", err
	}
	if lang == nil {
		return "", errors.New(errors.ErrCodeInvalidLanguage, "no language selected")
	}
	return lang.Name, nil
}

// loadWorkspace reads the workspace from a file, or from stdin for "-".
func loadWorkspace(ctx context.Context, input string, stdin io.Reader) (*block.Workspace, error) {
	if input == "-" {
		return pipeline.LoadReader(ctx, "stdin", stdin)
	}
	return pipeline.Load(ctx, input)
}
