package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		rf      renderFlags
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a diagram from a computed layout",
		Long: `Render a diagram from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, PNG, PDF or JSON. The layout carries every angle, orbit
and satellite size, so this step only draws.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from values to drawings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, popts, err := c.buildOptions(cmd, nil, &rf)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runVisualize(cmd.Context(), runner, args[0], popts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	rf.register(cmd)

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, runner *pipeline.Runner, input string, popts pipeline.Options, output string) error {
	layout, err := io.ImportLayout(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Drawing %d placements...", len(layout.Placements)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, popts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   popts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	summary := summarize(layout, len(layout.Placements), cacheHit)
	printStats(summary)
	return nil
}
