// Package main contains a bench tool to run the power sequence against real lines.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/viam-modules/wilc/boarddesc"
	"github.com/viam-modules/wilc/pwrseq"
	"go.viam.com/rdk/logging"
	"go.viam.com/utils"
)

var errInterrupted = errors.New("interrupted")

type options struct {
	configPath string
	debug      bool
	count      int
	onTime     time.Duration
	offTime    time.Duration
}

func main() {
	utils.ContextualMain(mainWithArgs, logging.NewLogger("wilc-cli"))
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	cmd := newRootCmd(logger)
	cmd.SetArgs(args[1:])
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(logger logging.Logger) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "wilc-pwrseq",
		Short:         "Run the WILC power sequence on a board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "wilc.yaml", "power sequence description")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log every line step")

	root.AddCommand(&cobra.Command{
		Use:   "power-on",
		Short: "Enable the clock and release the reset lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSequencer(cmd.Context(), opts, logger, func(ctx context.Context, seq pwrseq.Sequencer) error {
				seq.PreparePowerOn(ctx)
				seq.CompletePowerOn(ctx)
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "power-off",
		Short: "Assert the reset lines and gate the clock",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSequencer(cmd.Context(), opts, logger, func(ctx context.Context, seq pwrseq.Sequencer) error {
				seq.PowerOff(ctx)
				return nil
			})
		},
	})

	cycle := &cobra.Command{
		Use:   "cycle",
		Short: "Power the chip on and off repeatedly",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSequencer(cmd.Context(), opts, logger, func(ctx context.Context, seq pwrseq.Sequencer) error {
				return runCycles(ctx, seq, opts, logger)
			})
		},
	}
	cycle.Flags().IntVar(&opts.count, "count", 1, "number of power cycles")
	cycle.Flags().DurationVar(&opts.onTime, "on-time", time.Second, "time to stay powered")
	cycle.Flags().DurationVar(&opts.offTime, "off-time", time.Second, "time to stay unpowered")
	root.AddCommand(cycle)

	return root
}

func withSequencer(
	ctx context.Context,
	opts *options,
	logger logging.Logger,
	run func(context.Context, pwrseq.Sequencer) error,
) error {
	if opts.debug {
		logger = logging.NewDebugLogger("wilc-cli")
	}

	desc, err := boarddesc.Load(opts.configPath)
	if err != nil {
		return err
	}
	resolver := boarddesc.NewResolver(desc)
	defer func() {
		if err := resolver.Close(); err != nil {
			logger.Warnf("error releasing lines: %v", err)
		}
	}()

	seq, err := pwrseq.Probe(ctx, resolver, logger)
	if err != nil {
		return err
	}
	if err := run(ctx, seq); err != nil {
		return err
	}
	logger.Infof("done, chip is %s", seq.State())
	return nil
}

// runCycles stops between phases when ctx is cancelled, never inside one.
func runCycles(ctx context.Context, seq pwrseq.Sequencer, opts *options, logger logging.Logger) error {
	for i := range opts.count {
		logger.Infof("power cycle %d/%d", i+1, opts.count)
		seq.PreparePowerOn(ctx)
		seq.CompletePowerOn(ctx)
		if !utils.SelectContextOrWait(ctx, opts.onTime) {
			seq.PowerOff(context.Background())
			return errInterrupted
		}
		seq.PowerOff(ctx)
		if i+1 < opts.count && !utils.SelectContextOrWait(ctx, opts.offTime) {
			return errInterrupted
		}
	}
	return nil
}
