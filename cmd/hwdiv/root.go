// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"github.com/db47h/hwdiv"
	"github.com/db47h/hwdiv/internal/config"
	"github.com/db47h/hwdiv/internal/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// options holds the global flags and the state built from them before a
// sub-command runs.
type options struct {
	cfgFile    string
	logLevel   string
	logFormat  string
	width      int
	stepWidth  int
	syncStages int
	workers    int
	format     string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "hwdiv",
		Short: "Cycle accurate signed integer divider model",
		Long: `hwdiv runs signed integer divisions on a cycle accurate model of an iterative
hardware divider, either directly or mounted in a simulated circuit between
ready/valid pipeline stages.

Settings are read from ~/.hwdiv.yaml if present. Command line flags take
precedence over the configuration file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}
	cobra.EnableCommandSorting = false

	f := cmd.PersistentFlags()
	f.SortFlags = false
	f.StringVarP(&o.cfgFile, "config", "c", "", "configuration `file` (default "+config.DefaultPath+")")
	f.IntVarP(&o.width, "width", "w", 0, "operand width in bits")
	f.IntVar(&o.stepWidth, "step-width", 0, "division steps per clock tick")
	f.IntVar(&o.syncStages, "sync-stages", 0, "pipeline stages between the remainder and quotient units")
	f.IntVar(&o.workers, "workers", 0, "circuit simulation worker goroutines (0 for GOMAXPROCS)")
	f.StringVarP(&o.format, "output", "o", formatText, "output `format`: text, json or yaml")
	f.StringVar(&o.logLevel, "log-level", "", "log `level`")
	f.StringVar(&o.logFormat, "log-format", "", "log `format`: text or json")
	_ = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	cmd.AddCommand(
		newDivideCmd(o),
		newTableCmd(o),
		newVerifyCmd(o),
		newServeCmd(o),
	)
	return cmd
}

// setup loads the configuration file, applies flag overrides and builds the
// logger.
func (o *options) setup(cmd *cobra.Command) error {
	f := cmd.Flags()
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if f.Changed("width") {
		cfg.Divider.Width = o.width
	}
	if f.Changed("step-width") {
		cfg.Divider.StepWidth = o.stepWidth
	}
	if f.Changed("sync-stages") {
		cfg.Divider.SyncStages = o.syncStages
	}
	if f.Changed("workers") {
		cfg.Circuit.Workers = o.workers
	}
	if f.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	switch o.format {
	case formatText, formatJSON, formatYAML:
	default:
		return errors.Errorf("invalid output format %q", o.format)
	}
	o.cfg = cfg
	o.log, err = logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return err
}

func (o *options) divider() hwdiv.Config {
	return o.cfg.DividerConfig()
}
