package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/pipeline"
)

// layoutCommand creates the layout command for computing placements only.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		asTable bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [values-file]",
		Short: "Compute placements and export them as JSON",
		Long: `Compute placements and export them as JSON.

The values file is either a flat map of identifier to value:

  {"alpha": 10, "beta": 12.5}

or a document with optional title, value_max and render states:

  {
    "title": "Release sizes",
    "value_max": 100,
    "values": {"alpha": 10, "beta": 12.5},
    "states": {"beta": "text"},
    "default_state": "all"
  }

YAML and TOML use the same shape. CSV files hold "id,value" rows.

The output is a layout.json file holding every angle, orbit and satellite
size. Draw it with the 'visualize' command. Use --table to print the
placements instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, popts, err := c.buildOptions(cmd, &lf, nil)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runLayout(cmd.Context(), runner, args[0], popts, output, asTable)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asTable, "table", false, "print the placements as a table instead of writing JSON")
	lf.register(cmd)

	return cmd
}

// runLayout loads the values, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, runner *pipeline.Runner, input string, popts pipeline.Options, output string, asTable bool) error {
	ds, err := io.ImportDataset(input)
	if err != nil {
		return err
	}
	popts.ApplyDataset(ds)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d values...", len(ds.Values)))
	spinner.Start()

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, ds.Values, popts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	summary := summarize(layout, len(ds.Values), cacheHit)

	if asTable {
		if err := writePlacementTable(os.Stdout, layout); err != nil {
			return err
		}
		printStats(summary)
		return nil
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := io.ExportLayout(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(summary)
	printNewline()
	printNextStep("Render", "izzi visualize "+outputPath)

	return nil
}
