package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/migsim/migsim/mig"
	"github.com/migsim/migsim/mig/chain"
)

var (
	chainModelPath   string
	chainSteps       int64
	chainSeed        int64
	chainLogEvery    int64
	chainOutPath     string
	chainRateMean    float64
	chainPopSizeMean float64
	chainScaleFactor float64
	chainWalkWindow  float64
)

// chainCmd runs the prior-sampling Metropolis chain and writes the model's
// tabular trace.
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Run a prior-sampling chain over the model parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := mig.LoadModelSpec(chainModelPath)
		if err != nil {
			return err
		}
		m, err := spec.Build()
		if err != nil {
			return err
		}

		ops := []chain.Operator{
			&chain.RateScale{Factor: chainScaleFactor},
			&chain.RateRandomWalk{Window: chainWalkWindow},
			&chain.PopSizeScale{Factor: chainScaleFactor},
		}
		if m.HasRateFlags() {
			ops = append(ops, &chain.FlagFlip{})
		}

		traceFile, err := os.Create(chainOutPath)
		if err != nil {
			return fmt.Errorf("create trace file: %w", err)
		}
		defer traceFile.Close()

		cfg := chain.Config{
			Steps:       chainSteps,
			LogEvery:    chainLogEvery,
			Seed:        chainSeed,
			RateMean:    chainRateMean,
			PopSizeMean: chainPopSizeMean,
		}
		runner := chain.NewRunner(m, ops, cfg, traceFile)

		startTime := time.Now()
		if err := runner.Run(); err != nil {
			return err
		}
		logrus.Infof("Chain finished in %s; trace written to %s",
			time.Since(startTime).Round(time.Millisecond), chainOutPath)

		runner.Report(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	chainCmd.Flags().StringVar(&chainModelPath, "model", "", "Path to model specification YAML")
	chainCmd.Flags().Int64Var(&chainSteps, "steps", 100000, "Number of chain steps")
	chainCmd.Flags().Int64Var(&chainSeed, "seed", 42, "Seed for the chain RNG")
	chainCmd.Flags().Int64Var(&chainLogEvery, "log-every", 100, "Trace sampling stride (0 disables the trace)")
	chainCmd.Flags().StringVar(&chainOutPath, "out", "trace.tsv", "Trace output path")
	chainCmd.Flags().Float64Var(&chainRateMean, "rate-prior-mean", 1.0, "Mean of the Exponential prior on rates")
	chainCmd.Flags().Float64Var(&chainPopSizeMean, "popsize-prior-mean", 1.0, "Mean of the Exponential prior on population sizes")
	chainCmd.Flags().Float64Var(&chainScaleFactor, "scale-factor", 0.8, "Scale operator factor in (0, 1)")
	chainCmd.Flags().Float64Var(&chainWalkWindow, "walk-window", 0.5, "Random walk half-width")
	chainCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(chainCmd)
}
