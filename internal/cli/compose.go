package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flamelink/pkg/pipeline"
)

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		output    string
		spirvPath string
		noCache   bool
		kernel    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "compose [flame]",
		Short: "Compose a flame into a WGSL kernel",
		Long: `Compose a flame into a WGSL kernel.

The flame is read from a TOML file or a flam3 XML file (.flame, .xml). Every
variation placed by its transforms is linked together with the library
functions it needs, and the result is wrapped in a compute kernel.

The kernel source is written to stdout unless --output is given. Results are
cached; use --no-cache to bypass the cache entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Config.Compose.applyTo(&opts, cmd.Flags().Changed)
			opts.Path = args[0]
			opts.NoEntryPoint = !kernel
			opts.Compile = spirvPath != ""
			return c.runCompose(cmd.Context(), cmd.OutOrStdout(), opts, output, spirvPath, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the kernel source to this file")
	cmd.Flags().StringVar(&spirvPath, "spirv", "", "compile to SPIR-V and write it to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&kernel, "kernel", true, "emit the compute entry point")

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "flame format: toml, xml (default: from extension)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "parameter binding: literal, buffer")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on conflicting library orderings")
	cmd.Flags().BoolVar(&opts.SkipUnknown, "skip-unknown", true, "skip unknown variations and parameters with a warning")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "validate the kernel with naga")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().IntVar(&opts.WorkgroupSize, "workgroup-size", 0, "compute workgroup size")

	return cmd
}

// runCompose executes the pipeline and writes its outputs.
func (c *CLI) runCompose(ctx context.Context, stdout io.Writer, opts pipeline.Options, output, spirvPath string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	toStdout := output == "" && spirvPath == ""

	var spinner *Spinner
	if !toStdout && (opts.Validate || opts.Compile) {
		spinner = newSpinnerWithContext(ctx, shaderStage(opts))
		spinner.Start()
	}
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Composed %d transforms", res.Stats.Transforms))

	if toStdout {
		c.logDiagnostics(res)
		_, err := io.WriteString(stdout, res.Kernel.Source)
		return err
	}

	printFlameWarnings(res.Warnings)
	printConflicts(res.Conflicts)
	if output != "" {
		if err := os.WriteFile(output, []byte(res.Kernel.Source), 0o644); err != nil {
			return fmt.Errorf("write kernel: %w", err)
		}
	}
	if spirvPath != "" {
		if err := os.WriteFile(spirvPath, res.SPIRV, 0o644); err != nil {
			return fmt.Errorf("write SPIR-V: %w", err)
		}
	}

	printSuccess("Kernel %s", kernelLabel(res))
	if output != "" {
		printFile(output)
	}
	if spirvPath != "" {
		printFile(spirvPath)
	}
	printStats(composeStats(res), res.CacheInfo.KernelHit)
	if output != "" && spirvPath == "" {
		printNextStep("Compile", fmt.Sprintf("%s compose %s --spirv kernel.spv", appName, opts.Path))
	}
	return nil
}

func shaderStage(opts pipeline.Options) string {
	if opts.Compile {
		return "Compiling SPIR-V..."
	}
	return "Validating kernel..."
}

// logDiagnostics reports skipped input and tolerated conflicts on the
// logger, keeping stdout clean for the kernel source.
func (c *CLI) logDiagnostics(res *pipeline.Result) {
	for _, w := range res.Warnings {
		c.Logger.Warn(w.String())
	}
	for _, cf := range res.Conflicts {
		c.Logger.Warn("conflicting library order", "conflict", cf.String())
	}
}

func kernelLabel(res *pipeline.Result) string {
	if res.Flame != nil && res.Flame.Name != "" {
		return StyleHighlight.Render(res.Flame.Name)
	}
	return "composed"
}

func composeStats(res *pipeline.Result) []string {
	var parts []string
	parts = append(parts, plural(res.Stats.Transforms, "transform"))
	parts = append(parts, plural(res.Stats.Placements, "placement"))
	if res.Stats.Libraries > 0 {
		parts = append(parts, plural(res.Stats.Libraries, "library function"))
	}
	parts = append(parts, fmt.Sprintf("%d bytes", res.Stats.SourceBytes))
	return parts
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
