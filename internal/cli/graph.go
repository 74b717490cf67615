package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flamelink/pkg/flame"
	"github.com/matzehuels/flamelink/pkg/pipeline"
)

// graphCommand creates the graph command for rendering library dependencies.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output     string
		variations string
	)
	opts := pipeline.GraphOptions{}

	cmd := &cobra.Command{
		Use:   "graph [flame]",
		Short: "Render the library dependency graph",
		Long: `Render the library dependency graph of a flame, of selected variations, or
of the whole catalog.

Plugins and the library functions they depend on become nodes; an edge points
from a dependent to its dependency. With --reduce, transitive edges are
dropped and nodes are ranked by depth.

SVG and PNG output is rendered with Graphviz; DOT and JSON are written as-is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format == "" {
				opts.Format = formatFromOutput(output)
			}
			if err := pipeline.ValidateGraphFormat(opts.Format); err != nil {
				return err
			}
			if variations != "" {
				opts.Variations = strings.Split(variations, ",")
			}
			if len(args) == 1 {
				f, err := flame.Load(args[0])
				if err != nil {
					return err
				}
				opts.Flame = f
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: dot (default), svg, png, json")
	cmd.Flags().StringVar(&variations, "variations", "", "comma-separated variations to include")
	cmd.Flags().BoolVar(&opts.Reduce, "reduce", false, "drop transitive edges and rank by depth")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with kinds and init statements")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG resolution multiplier")

	return cmd
}

// runGraph builds and renders the graph and writes it out.
func (c *CLI) runGraph(ctx context.Context, stdout io.Writer, opts pipeline.GraphOptions, output string) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Format))
	spinner.Start()

	data, g, err := runner.Graph(opts)
	if err != nil {
		spinner.StopWithError("Graph failed")
		return err
	}
	spinner.Stop()
	if err := ctx.Err(); err != nil {
		return err
	}

	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	printSuccess("Dependency graph")
	printFile(output)
	printStats([]string{plural(g.NodeCount(), "node"), plural(g.EdgeCount(), "edge")}, false)
	return nil
}

// formatFromOutput infers the graph format from an output file extension.
func formatFromOutput(output string) string {
	for _, f := range pipeline.ValidGraphFormats {
		if strings.HasSuffix(strings.ToLower(output), "."+f) {
			return f
		}
	}
	return pipeline.FormatDOT
}
