package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/migsim/migsim/mig"
)

var validateModelPath string

// validateCmd loads a model specification, builds the model, and reports
// its basic derived quantities.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a model specification file",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := mig.LoadModelSpec(validateModelPath)
		if err != nil {
			return err
		}
		m, err := spec.Build()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name:\t%s\n", m.Name())
		fmt.Fprintf(out, "demes:\t%d\n", m.NDemes())
		fmt.Fprintf(out, "layout:\t%s\n", m.Layout())
		fmt.Fprintf(out, "rate slots:\t%d\n", m.NumRates())
		fmt.Fprintf(out, "indicator mask:\t%v\n", m.HasRateFlags())
		fmt.Fprintf(out, "mu:\t%g\n", m.Mu(false))
		fmt.Fprintf(out, "muSym:\t%g\n", m.Mu(true))
		if m.Mu(false) == 0 {
			fmt.Fprintln(out, "warning: no active migration pathway (mu = 0); transition matrices and powers are undefined")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateModelPath, "model", "", "Path to model specification YAML")
	validateCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(validateCmd)
}
