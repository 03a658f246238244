package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/pipeline"
)

// batchJob is one input file of a batch run.
type batchJob struct {
	ID    string
	Input string
	Paths []string
	Stats pipeline.Stats
	Err   error
}

// batchCommand creates the batch command for rendering many files at once.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		outDir  string
		jobs    int
		noCache bool
		lf      layoutFlags
		rf      renderFlags
	)

	cmd := &cobra.Command{
		Use:   "batch [files or directories...]",
		Short: "Render many values files concurrently",
		Long: `Render many values files concurrently.

Each argument is a values file or a directory; directories contribute every
json, yaml, toml and csv file they contain. Every file is rendered with the
same flags into --output-dir. A failing file does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := collectInputs(args)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				printWarning("No values files found")
				return nil
			}
			cfg, popts, err := c.buildOptions(cmd, &lf, &rf)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runBatch(cmd.Context(), runner, inputs, popts, outDir, jobs)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "directory for the rendered files")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files rendered in parallel")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

// collectInputs expands directories into the dataset files they hold.
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		files, err := findDataFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", arg, err)
		}
		for _, f := range files {
			inputs = append(inputs, f.Path)
		}
	}
	return inputs, nil
}

// runBatch renders every input with at most jobs files in flight.
func (c *CLI) runBatch(ctx context.Context, runner *pipeline.Runner, inputs []string, popts pipeline.Options, outDir string, jobs int) error {
	prog := newProgress(c.Logger)
	results := make([]batchJob, len(inputs))

	var finished atomic.Int32
	spinner := newSpinnerWithContext(ctx, batchMessage(0, len(inputs)))
	spinner.Start()

	g := new(errgroup.Group)
	g.SetLimit(max(jobs, 1))
	for i, input := range inputs {
		results[i] = batchJob{ID: uuid.NewString()[:8], Input: input}
		g.Go(func() error {
			job := &results[i]
			jobCtx := withLogger(ctx, c.Logger.With("job", job.ID, "file", filepath.Base(input)))
			job.Paths, job.Stats, job.Err = runBatchJob(jobCtx, runner, input, popts, outDir)
			spinner.Update(batchMessage(int(finished.Add(1)), len(inputs)))
			return nil
		})
	}
	_ = g.Wait()
	spinner.Stop()

	failed := 0
	for _, job := range results {
		if job.Err != nil {
			failed++
			printError("%s: %s", job.Input, job.Err)
			continue
		}
		for _, p := range job.Paths {
			printFile(p)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d of %d files", len(inputs)-failed, len(inputs)))

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(inputs))
	}
	printSuccess("Batch complete")
	return nil
}

func batchMessage(done, total int) string {
	return fmt.Sprintf("Rendered %d/%d files...", done, total)
}

// runBatchJob renders one file. popts is copied so jobs never share state.
func runBatchJob(ctx context.Context, runner *pipeline.Runner, input string, popts pipeline.Options, outDir string) ([]string, pipeline.Stats, error) {
	logger := loggerFromContext(ctx)
	logger.Debug("starting")

	ds, err := io.ImportDataset(input)
	if err != nil {
		return nil, pipeline.Stats{}, err
	}
	popts.ApplyDataset(ds)
	popts.Formats = append([]string(nil), popts.Formats...)
	popts.Logger = logger

	result, err := runner.Execute(ctx, ds.Values, popts)
	if err != nil {
		return nil, pipeline.Stats{}, err
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   popts.Formats,
		input:     input,
		dir:       outDir,
	})
	if err != nil {
		return paths, result.Stats, err
	}
	logger.Debug("done", "placements", result.Stats.Placements, "promoted", result.Stats.Promoted)
	return paths, result.Stats, nil
}
