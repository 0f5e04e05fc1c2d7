package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file; stdout when empty
	format   string // dot or svg
	detailed bool   // include fields and comments in node labels
	noCache  bool
}

// graphCommand creates the graph command for drawing block graphs.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: pipeline.DefaultGraphFormat}

	cmd := &cobra.Command{
		Use:   "graph <workspace.json|->",
		Short: "Draw the block graph of a workspace",
		Long: `Draw the block graph of a workspace as Graphviz DOT or SVG.

Statement blocks are boxes, value blocks are ellipses, and disabled blocks
are dashed. Use it to see why a workspace generates the code it does.`,
		Example: `  blockgen graph program.json -o program.svg
  blockgen graph program.json -f dot | dot -Tpng > program.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateGraphFormat(opts.format); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), args[0], cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show field values and comments")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"svg", "dot"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input string, stdin io.Reader, stdout io.Writer, opts graphOpts) error {
	if opts.output != "" {
		if err := errors.ValidatePath(opts.output); err != nil {
			return err
		}
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

	spinner := newSpinnerWithContext(ctx, "Rendering block graph...")
	spinner.Start()
	data, cached, err := runner.RenderWithCacheInfo(ctx, ws, pipeline.Options{
		GraphFormat: opts.format,
		Detailed:    opts.detailed,
		Logger:      c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}

	if opts.output == "" {
		spinner.Stop()
		_, err := stdout.Write(data)
		return err
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	status := iconFresh
	if cached {
		status = iconCached
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d blocks (%s)", ws.Count(), status))
	printFile(opts.output)
	return nil
}
