package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/migsim/migsim/mig"
)

var (
	probsModelPath string
	probsTime      float64
	probsSymmetric bool
)

// probsCmd prints the interval transition probability matrix P(t).
var probsCmd = &cobra.Command{
	Use:   "probs",
	Short: "Print interval transition probabilities P(t)",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := mig.LoadModelSpec(probsModelPath)
		if err != nil {
			return err
		}
		m, err := spec.Build()
		if err != nil {
			return err
		}
		if probsTime < 0 {
			return fmt.Errorf("time is %g; want >= 0", probsTime)
		}
		if m.Mu(probsSymmetric) == 0 {
			return fmt.Errorf("no active migration pathway (mu = 0); transition probabilities are undefined")
		}

		p := m.TransitionProbs(probsTime, probsSymmetric)
		out := cmd.OutOrStdout()
		n := m.NDemes()
		for i := 0; i < n; i++ {
			fields := make([]string, n)
			for j := 0; j < n; j++ {
				fields[j] = fmt.Sprintf("%g", p.At(i, j))
			}
			fmt.Fprintln(out, strings.Join(fields, "\t"))
		}
		return nil
	},
}

func init() {
	probsCmd.Flags().StringVar(&probsModelPath, "model", "", "Path to model specification YAML")
	probsCmd.Flags().Float64Var(&probsTime, "time", 1.0, "Interval length t")
	probsCmd.Flags().BoolVar(&probsSymmetric, "sym", false, "Use the symmetrized transition matrix")
	probsCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(probsCmd)
}
