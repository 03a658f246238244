package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/pipeline"
)

// renderOpts holds the non-geometry flags of the render command.
type renderOpts struct {
	output  string // output file (single format) or base path (multiple)
	pick    string // directory to choose the input from interactively
	noCache bool
	refresh bool
}

// renderCommand creates the render command: values file in, drawings out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts renderOpts
		lf   layoutFlags
		rf   renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [values-file]",
		Short: "Place values around a circle and draw them",
		Long: `Place values around a circle and draw them.

The input maps identifiers to non-negative values, as JSON, YAML, TOML or
CSV (see 'izzi layout --help' for the document shape). Each identifier is
drawn as a satellite at the bearing of its value; crowded groups are moved
to outer orbits so their labels do not collide.

Use --pick DIR to choose the input file interactively.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolveInput(args, opts.pick)
			if err != nil || input == "" {
				return err
			}
			cfg, popts, err := c.buildOptions(cmd, &lf, &rf)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, opts.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runRender(cmd.Context(), runner, input, popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.pick, "pick", "", "choose the values file from this directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

// resolveInput returns the single positional argument, or runs the file
// picker when --pick is set.
func resolveInput(args []string, pick string) (string, error) {
	switch {
	case pick != "" && len(args) > 0:
		return "", fmt.Errorf("give either a values file or --pick, not both")
	case pick != "":
		path, err := pickDataFile(pick)
		if err != nil {
			return "", err
		}
		if path == "" {
			printInfo("No file selected")
		}
		return path, nil
	case len(args) == 0:
		return "", fmt.Errorf("requires a values file or --pick DIR")
	}
	return args[0], nil
}

// runRender loads the values, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, input string, popts pipeline.Options, opts renderOpts) error {
	c.Logger.Debugf("Rendering %s", input)
	ds, err := io.ImportDataset(input)
	if err != nil {
		return err
	}
	popts.ApplyDataset(ds)
	popts.Refresh = opts.refresh

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d values...", len(ds.Values)))
	spinner.Start()

	result, err := runner.Execute(ctx, ds.Values, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   popts.Formats,
		input:     input,
		output:    opts.output,
	})
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(layoutSummary{
		IDs:      result.Stats.IDs,
		Promoted: result.Stats.Promoted,
		Elided:   result.Stats.Elided,
		Cached:   result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
	return nil
}
