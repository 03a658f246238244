package cli

import (
	"github.com/spf13/cobra"

	"github.com/bdekoz/izzi/pkg/config"
	"github.com/bdekoz/izzi/pkg/pipeline"
)

// buildOptions loads the configuration, lays the command's flags over it
// and converts the result into pipeline options. Either flag set may be nil.
func (c *CLI) buildOptions(cmd *cobra.Command, lf *layoutFlags, rf *renderFlags) (*config.Config, pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	if lf != nil {
		lf.apply(cmd, cfg)
	}
	if rf != nil {
		rf.apply(cmd, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, pipeline.Options{}, err
	}

	opts, err := pipeline.FromConfig(cfg)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	if rf != nil {
		opts.Assets = rf.assets
		opts.PNGScale = rf.scale
	}
	opts.Logger = c.Logger
	return cfg, opts, nil
}
